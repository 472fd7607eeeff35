package metricsclient

import (
	"context"
	"fmt"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/sirupsen/logrus"

	"autoscaler/internal/errs"
	"autoscaler/internal/retry"
)

const (
	// rateWindow is the rate() window used for the CPU query. The spec
	// forbids reducing this below 10s without re-tuning thresholds.
	rateWindow = "30s"

	retryAttempts    = 3
	retryBaseSeconds = 0.1 // 100ms
	retryRate        = 2.0

	defaultPerAttemptTimeout = 5 * time.Second
)

// PrometheusClient queries a PromQL-compatible backend for per-container
// CPU% and memory%, caching each metric kind independently and retrying
// transient failures with exponential backoff, per §4.C.
type PrometheusClient struct {
	api promv1.API

	cpuCache *ttlCache
	memCache *ttlCache

	perAttemptTimeout time.Duration
}

// New builds a PrometheusClient against backendURL. ttl must be in
// [1s, 5s] per the spec; it is not clamped here so that tests can exercise
// edge values, but production wiring should respect the range.
func New(backendURL string, ttl time.Duration) (*PrometheusClient, error) {
	client, err := promapi.NewClient(promapi.Config{Address: backendURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMetricsUnavailable, err)
	}

	return &PrometheusClient{
		api:               promv1.NewAPI(client),
		cpuCache:          newTTLCache(ttl, time.Now),
		memCache:          newTTLCache(ttl, time.Now),
		perAttemptTimeout: defaultPerAttemptTimeout,
	}, nil
}

func (c *PrometheusClient) CPUPercent(ctx context.Context, containerID string) (float64, error) {
	query := fmt.Sprintf(`rate(container_cpu_usage_seconds_total{id=~"/docker/%s.*"}[%s]) * 100`, containerID, rateWindow)
	return c.queryCached(ctx, c.cpuCache, containerID, query)
}

func (c *PrometheusClient) MemoryPercent(ctx context.Context, containerID string) (float64, error) {
	query := fmt.Sprintf(
		`(container_memory_usage_bytes{id=~"/docker/%s.*"} / container_spec_memory_limit_bytes{id=~"/docker/%s.*"}) * 100`,
		containerID, containerID,
	)
	return c.queryCached(ctx, c.memCache, containerID, query)
}

func (c *PrometheusClient) queryCached(ctx context.Context, cache *ttlCache, containerID, query string) (float64, error) {
	if v, ok := cache.get(containerID); ok {
		return v, nil
	}

	v, err := c.queryWithRetry(ctx, query)
	if err != nil {
		return 0, err
	}

	cache.set(containerID, v)
	return v, nil
}

func (c *PrometheusClient) queryWithRetry(ctx context.Context, query string) (float64, error) {
	backoff := retry.New(retryBaseSeconds, retryRate)

	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(backoff.Next() * float64(time.Second))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return 0, fmt.Errorf("%w: %v", errs.ErrMetricsUnavailable, ctx.Err())
			}
		}

		v, err := c.queryOnce(ctx, query)
		if err == nil {
			return v, nil
		}

		lastErr = err
		logrus.Warnf("metrics query attempt %d/%d failed: %v", attempt+1, retryAttempts, err)
	}

	return 0, fmt.Errorf("%w: %v", errs.ErrMetricsUnavailable, lastErr)
}

func (c *PrometheusClient) queryOnce(ctx context.Context, query string) (float64, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.perAttemptTimeout)
	defer cancel()

	result, warnings, err := c.api.Query(attemptCtx, query, time.Now())
	if err != nil {
		return 0, err
	}
	for _, w := range warnings {
		logrus.Debugf("prometheus query warning: %s", w)
	}

	return scalarFrom(result)
}

func scalarFrom(value model.Value) (float64, error) {
	vector, ok := value.(model.Vector)
	if !ok || len(vector) == 0 {
		return 0, fmt.Errorf("no sample in query result")
	}

	return float64(vector[0].Value), nil
}
