// Package config assembles the autoscaler's configuration from a file
// plus environment variable overrides, following the teacher's viper-based
// ReadXConfiguration convention but collapsed onto the single config tree
// the autoscaler spec describes.
package config

import (
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"autoscaler/internal/errs"
)

// MonitoringConfig is the immutable per-pool tuning the control loop uses
// to evaluate scale and cooldown decisions. All threshold fields are
// percentages in the same units as the metrics client's samples
// (80.0 means 80%).
type MonitoringConfig struct {
	CPUOverloadThreshold    float64       `mapstructure:"cpuOverloadThreshold"`
	MemoryOverloadThreshold float64       `mapstructure:"memoryOverloadThreshold"`
	CooldownCPUThreshold    float64       `mapstructure:"cooldownCpuThreshold"`
	CooldownDuration        time.Duration `mapstructure:"cooldownDuration"`
	PollInterval            time.Duration `mapstructure:"pollInterval"`
	MetricsBackendURL       string        `mapstructure:"metricsBackendUrl"`
}

// PersistenceConfig governs how pool snapshots are saved to and recovered
// from the state store.
type PersistenceConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	StoreURL   string `mapstructure:"storeUrl"`
	KeyPrefix  string `mapstructure:"keyPrefix"`
	BatchSize  int    `mapstructure:"batchSize"`
	SnapshotTTL time.Duration `mapstructure:"snapshotTtl"`
}

// AutoscalerConfig is the immutable global configuration the builder
// assembles the rest of the system from.
type AutoscalerConfig struct {
	MonitoringConfig `mapstructure:",squash"`

	MinContainersPerFunction uint          `mapstructure:"minContainersPerFunction"`
	MaxContainersPerFunction uint          `mapstructure:"maxContainersPerFunction"`
	ScaleCheckInterval       time.Duration `mapstructure:"scaleCheckInterval"`
	NetworkName              string        `mapstructure:"networkName"`

	Persistence PersistenceConfig `mapstructure:"persistence"`
}

const (
	defaultBatchSize   = 50
	defaultSnapshotTTL = 24 * time.Hour
	defaultKeyPrefix   = "autoscaler"
)

// Defaults returns an AutoscalerConfig pre-populated with the defaults
// named in the spec (batch size 50, snapshot TTL 24h, key prefix
// "autoscaler"); callers layer a config file and environment on top.
func Defaults() AutoscalerConfig {
	return AutoscalerConfig{
		MonitoringConfig: MonitoringConfig{
			CPUOverloadThreshold:    80.0,
			MemoryOverloadThreshold: 90.0,
			CooldownCPUThreshold:    10.0,
			CooldownDuration:        5 * time.Minute,
			PollInterval:            10 * time.Second,
		},
		MinContainersPerFunction: 0,
		MaxContainersPerFunction: 10,
		ScaleCheckInterval:       10 * time.Second,
		NetworkName:              "bridge",
		Persistence: PersistenceConfig{
			Enabled:     false,
			KeyPrefix:   defaultKeyPrefix,
			BatchSize:   defaultBatchSize,
			SnapshotTTL: defaultSnapshotTTL,
		},
	}
}

func parseConfigPath(configPath string) (folder, name, kind string) {
	folder, name = filepath.Split(configPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	kind = strings.ReplaceAll(filepath.Ext(configPath), ".", "")

	if folder == "" {
		folder = "./"
	}

	return folder, name, kind
}

// Load reads configPath (if non-empty) and layers environment variable
// overrides on top, following the CPU_OVERLOAD_THRESHOLD-style names in
// the spec's configuration surface table. Environment variables use
// underscore_upper_case while the struct tags use camelCase; viper's
// AutomaticEnv only matches on case-insensitive exact key name, so we
// bind each option explicitly.
func Load(configPath string) (AutoscalerConfig, error) {
	v := viper.New()

	cfg := Defaults()
	v.SetDefault("cpuOverloadThreshold", cfg.CPUOverloadThreshold)
	v.SetDefault("memoryOverloadThreshold", cfg.MemoryOverloadThreshold)
	v.SetDefault("cooldownCpuThreshold", cfg.CooldownCPUThreshold)
	v.SetDefault("cooldownDuration", cfg.CooldownDuration)
	v.SetDefault("pollInterval", cfg.PollInterval)
	v.SetDefault("minContainersPerFunction", cfg.MinContainersPerFunction)
	v.SetDefault("maxContainersPerFunction", cfg.MaxContainersPerFunction)
	v.SetDefault("scaleCheckInterval", cfg.ScaleCheckInterval)
	v.SetDefault("networkName", cfg.NetworkName)
	v.SetDefault("persistence.enabled", cfg.Persistence.Enabled)
	v.SetDefault("persistence.keyPrefix", cfg.Persistence.KeyPrefix)
	v.SetDefault("persistence.batchSize", cfg.Persistence.BatchSize)
	v.SetDefault("persistence.snapshotTtl", cfg.Persistence.SnapshotTTL)

	bindEnv(v, "cpuOverloadThreshold", "CPU_OVERLOAD_THRESHOLD")
	bindEnv(v, "memoryOverloadThreshold", "MEMORY_OVERLOAD_THRESHOLD")
	bindEnv(v, "cooldownCpuThreshold", "COOLDOWN_CPU_THRESHOLD")
	bindEnv(v, "cooldownDuration", "COOLDOWN_DURATION_SECS")
	bindEnv(v, "pollInterval", "POLL_INTERVAL_SECS")
	bindEnv(v, "minContainersPerFunction", "MIN_CONTAINERS_PER_FUNCTION")
	bindEnv(v, "maxContainersPerFunction", "MAX_CONTAINERS_PER_FUNCTION")
	bindEnv(v, "metricsBackendUrl", "METRICS_BACKEND_URL")
	bindEnv(v, "networkName", "NETWORK_NAME")
	bindEnv(v, "persistence.enabled", "PERSISTENCE_ENABLED")
	bindEnv(v, "persistence.storeUrl", "STATE_STORE_URL")
	bindEnv(v, "persistence.keyPrefix", "PERSISTENCE_KEY_PREFIX")
	bindEnv(v, "persistence.batchSize", "PERSISTENCE_BATCH_SIZE")

	if configPath != "" {
		folder, name, kind := parseConfigPath(configPath)
		v.SetConfigName(name)
		v.SetConfigType(kind)
		v.AddConfigPath(folder)

		if err := v.ReadInConfig(); err != nil {
			return AutoscalerConfig{}, err
		}
	}

	var out AutoscalerConfig
	if err := v.Unmarshal(&out, viper.DecodeHook(secondsToDurationHookFunc())); err != nil {
		return AutoscalerConfig{}, err
	}

	return out, Validate(out)
}

func bindEnv(v *viper.Viper, key, env string) {
	_ = v.BindEnv(key, env)
}

// secondsToDurationHookFunc decodes values into time.Duration fields such as
// CooldownDuration and PollInterval. The env names for these
// (COOLDOWN_DURATION_SECS, POLL_INTERVAL_SECS) are plain whole seconds, not
// Go duration strings, so a bare "300" must become 300s rather than 300ns;
// a unit-suffixed string like "5m" is still honored via time.ParseDuration.
// Values already of type time.Duration (the defaults set by SetDefault) are
// passed through untouched.
func secondsToDurationHookFunc() mapstructure.DecodeHookFunc {
	durationType := reflect.TypeOf(time.Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType || from == durationType {
			return data, nil
		}

		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		case reflect.String:
			s := data.(string)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return time.Duration(n) * time.Second, nil
			}
			return time.ParseDuration(s)
		default:
			return data, nil
		}
	}
}

// Validate enforces the ConfigurationError class of the error taxonomy:
// invalid thresholds or negative durations are fatal at startup.
func Validate(cfg AutoscalerConfig) error {
	switch {
	case cfg.MinContainersPerFunction > cfg.MaxContainersPerFunction:
		return errs.ErrConfiguration
	case cfg.CPUOverloadThreshold <= 0 || cfg.MemoryOverloadThreshold <= 0:
		return errs.ErrConfiguration
	case cfg.CooldownDuration < 0 || cfg.PollInterval <= 0 || cfg.ScaleCheckInterval <= 0:
		return errs.ErrConfiguration
	case cfg.Persistence.Enabled && cfg.Persistence.StoreURL == "":
		return errs.ErrConfiguration
	}

	return nil
}
