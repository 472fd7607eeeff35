package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"autoscaler/internal/errs"
)

func TestValidate_RejectsMinAboveMax(t *testing.T) {
	cfg := Defaults()
	cfg.MinContainersPerFunction = 5
	cfg.MaxContainersPerFunction = 1

	assert.ErrorIs(t, Validate(cfg), errs.ErrConfiguration)
}

func TestValidate_RejectsNonPositiveThresholds(t *testing.T) {
	cfg := Defaults()
	cfg.CPUOverloadThreshold = 0

	assert.ErrorIs(t, Validate(cfg), errs.ErrConfiguration)
}

func TestValidate_RejectsPersistenceEnabledWithoutStoreURL(t *testing.T) {
	cfg := Defaults()
	cfg.Persistence.Enabled = true
	cfg.Persistence.StoreURL = ""

	assert.ErrorIs(t, Validate(cfg), errs.ErrConfiguration)
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(Defaults()))
}

func TestLoad_AppliesDefaultsWithoutAConfigFile(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 80.0, cfg.CPUOverloadThreshold)
	assert.Equal(t, uint(10), cfg.MaxContainersPerFunction)
	assert.Equal(t, "bridge", cfg.NetworkName)
	assert.Equal(t, 24*time.Hour, cfg.Persistence.SnapshotTTL)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("CPU_OVERLOAD_THRESHOLD", "65.5")
	t.Setenv("MAX_CONTAINERS_PER_FUNCTION", "20")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 65.5, cfg.CPUOverloadThreshold)
	assert.Equal(t, uint(20), cfg.MaxContainersPerFunction)
}

func TestLoad_SecsEnvVarsAreInterpretedAsWholeSeconds(t *testing.T) {
	t.Setenv("COOLDOWN_DURATION_SECS", "300")
	t.Setenv("POLL_INTERVAL_SECS", "15")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 300*time.Second, cfg.CooldownDuration)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
}

func TestLoad_DurationStringEnvVarIsStillHonored(t *testing.T) {
	t.Setenv("COOLDOWN_DURATION_SECS", "90s")

	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.CooldownDuration)
}

func TestLoad_WithoutOverrideDurationDefaultsSurviveDecode(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.CooldownDuration)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
}
