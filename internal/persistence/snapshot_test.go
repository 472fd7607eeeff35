package persistence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoscaler/internal/config"
	"autoscaler/internal/pool"
)

func TestSnapshotRoundTrip(t *testing.T) {
	cfg := config.MonitoringConfig{
		CPUOverloadThreshold:    80.0,
		MemoryOverloadThreshold: 90.0,
		CooldownCPUThreshold:    10.0,
		CooldownDuration:        5 * time.Minute,
		PollInterval:            10 * time.Second,
	}

	p := pool.New("f1", 1, 3, cfg)
	now := time.Unix(1700000000, 0)
	require.NoError(t, p.AddContainer(now, pool.ContainerInfo{ID: "c1", Name: "f1-abc", ContainerPort: 8080}))
	p.UpdateMetrics(now, "c1", 0.0, 0.0)

	toUnixFn := func(tm time.Time) int64 { return tm.Unix() }
	snapshot := ToSnapshot(p, toUnixFn, now.Unix())

	blob, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var decoded PoolSnapshot
	require.NoError(t, json.Unmarshal(blob, &decoded))

	assert.Equal(t, snapshot.FunctionName, decoded.FunctionName)
	assert.Equal(t, snapshot.Containers, decoded.Containers)
	assert.Equal(t, snapshot.MinContainers, decoded.MinContainers)
	assert.Equal(t, snapshot.MaxContainers, decoded.MaxContainers)
	assert.Equal(t, snapshot.Config, decoded.Config)

	reconstructed := FromSnapshot(decoded, func(sec int64) time.Time { return time.Unix(sec, 0) })
	assert.Equal(t, p.FunctionKey, reconstructed.FunctionKey)
	assert.Len(t, reconstructed.Containers, 1)
	assert.Equal(t, "c1", reconstructed.Containers[0].ID)
	assert.Equal(t, pool.Idle, reconstructed.Containers[0].Status)
}
