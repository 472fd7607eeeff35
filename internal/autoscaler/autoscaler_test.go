package autoscaler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"autoscaler/internal/clock"
	"autoscaler/internal/config"
	"autoscaler/internal/errs"
	"autoscaler/internal/mocks"
	"autoscaler/internal/persistence"
	"autoscaler/internal/pool"
	"autoscaler/internal/runtimeadapter"
)

func testFunctionSpec(min, max uint) FunctionSpec {
	return FunctionSpec{
		Image: "example/fn:latest",
		Port:  8080,
		Monitoring: config.MonitoringConfig{
			CPUOverloadThreshold:    80.0,
			MemoryOverloadThreshold: 100.0,
			CooldownCPUThreshold:    0.0,
			CooldownDuration:        15 * time.Second,
			PollInterval:            10 * time.Second,
		},
		MinContainers: min,
		MaxContainers: max,
	}
}

// S1 — cold start under load: an empty pool's first Route call starts a
// container and returns it.
func TestRoute_ColdStartScalesUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	runtime := mocks.NewMockAdapter(ctrl)
	metrics := mocks.NewMockMetricsClient(ctrl)

	runtime.EXPECT().Start(gomock.Any(), gomock.Any()).Return("container-1", nil)

	scaler := New(runtime, metrics, nil, clock.NewReal(), config.Defaults())
	t.Cleanup(scaler.Shutdown)

	details, err := scaler.Route(context.Background(), "f1", testFunctionSpec(0, 3))
	require.NoError(t, err)
	assert.Equal(t, "container-1", details.ID)

	p, ok := scaler.lookupPool("f1")
	require.True(t, ok)
	assert.Len(t, p.Containers, 1)
	assert.Equal(t, pool.Healthy, p.Containers[0].Status)
}

// S2 — scale up on saturation: once every container in the pool is
// reported as overloaded, the same tick that observes it also grows the
// pool.
func TestTick_ScalesUpWhenEveryContainerOverloaded(t *testing.T) {
	ctrl := gomock.NewController(t)
	runtime := mocks.NewMockAdapter(ctrl)
	metrics := mocks.NewMockMetricsClient(ctrl)

	scaler := New(runtime, metrics, nil, clock.NewReal(), config.Defaults())
	t.Cleanup(scaler.Shutdown)
	fnSpec := testFunctionSpec(1, 3)
	p := scaler.GetOrCreatePool("f2", fnSpec)
	require.NoError(t, p.AddContainer(time.Now(), pool.ContainerInfo{ID: "c1", ContainerPort: 8080}))

	metrics.EXPECT().CPUPercent(gomock.Any(), "c1").Return(95.0, nil)
	metrics.EXPECT().MemoryPercent(gomock.Any(), "c1").Return(50.0, nil)
	runtime.EXPECT().Start(gomock.Any(), gomock.Any()).Return("c2", nil)

	scaler.tick(context.Background(), "f2", p, fnSpec)

	assert.Equal(t, pool.Overloaded, p.Containers[0].Status)
	assert.Len(t, p.Containers, 2)
}

// S3 — scale down after cooldown: an idle container past cooldown is
// stopped and removed.
func TestScaleDown_StopsAndRemovesCooledDownContainer(t *testing.T) {
	ctrl := gomock.NewController(t)
	runtime := mocks.NewMockAdapter(ctrl)
	metrics := mocks.NewMockMetricsClient(ctrl)

	scaler := New(runtime, metrics, nil, clock.NewReal(), config.Defaults())
	t.Cleanup(scaler.Shutdown)
	fnSpec := testFunctionSpec(0, 3)
	fnSpec.Monitoring.CooldownCPUThreshold = 0.0
	fnSpec.Monitoring.CooldownDuration = 15 * time.Second

	p := scaler.GetOrCreatePool("f3", fnSpec)
	t0 := time.Now()
	require.NoError(t, p.AddContainer(t0, pool.ContainerInfo{ID: "c1"}))
	require.NoError(t, p.AddContainer(t0, pool.ContainerInfo{ID: "c2"}))

	p.UpdateMetrics(t0, "c1", 0.0, 0.0)
	p.UpdateMetrics(t0, "c2", 50.0, 0.0)

	runtime.EXPECT().Stop(gomock.Any(), "c1").Return(nil)

	scaler.clock = clock.NewFake(t0.Add(16 * time.Second))
	scaler.ScaleDown(context.Background(), "f3")

	assert.Len(t, p.Containers, 1)
	assert.Equal(t, "c2", p.Containers[0].ID)
}

// S4 — no scale-down below min: an idle container past cooldown is kept
// when removing it would breach min_containers.
func TestScaleDown_NeverDipsBelowMin(t *testing.T) {
	ctrl := gomock.NewController(t)
	runtime := mocks.NewMockAdapter(ctrl)
	metrics := mocks.NewMockMetricsClient(ctrl)

	scaler := New(runtime, metrics, nil, clock.NewReal(), config.Defaults())
	t.Cleanup(scaler.Shutdown)
	fnSpec := testFunctionSpec(1, 3)

	p := scaler.GetOrCreatePool("f4", fnSpec)
	t0 := time.Now()
	require.NoError(t, p.AddContainer(t0, pool.ContainerInfo{ID: "c1"}))
	p.UpdateMetrics(t0, "c1", 0.0, 0.0)

	scaler.clock = clock.NewFake(t0.Add(time.Hour))
	scaler.ScaleDown(context.Background(), "f4")

	assert.Len(t, p.Containers, 1)
}

// S5 — recovery with a dead container: a snapshot listing [A, B] where B
// is no longer running is reconciled down to [A] and re-saved.
func TestRecover_DropsDeadContainers(t *testing.T) {
	ctrl := gomock.NewController(t)
	runtime := mocks.NewMockAdapter(ctrl)
	metrics := mocks.NewMockMetricsClient(ctrl)
	store := mocks.NewMockStore(ctrl)

	layer := persistence.New(store, "autoscaler", 50, 86400)
	snapshot := persistence.PoolSnapshot{
		FunctionName:  "f5",
		MinContainers: 0,
		MaxContainers: 3,
		Config: config.MonitoringConfig{
			CPUOverloadThreshold:    80.0,
			MemoryOverloadThreshold: 90.0,
			CooldownDuration:        15 * time.Second,
			PollInterval:            10 * time.Second,
		},
		Containers: []persistence.ContainerSnapshot{
			{ID: "A", Status: "healthy"},
			{ID: "B", Status: "healthy"},
		},
	}
	blob, err := json.Marshal(snapshot)
	require.NoError(t, err)

	store.EXPECT().Scan(gomock.Any(), "autoscaler:pool:").Return([]string{"autoscaler:pool:f5"}, nil)
	store.EXPECT().Get(gomock.Any(), "autoscaler:pool:f5").Return(blob, nil)

	runtime.EXPECT().Inspect(gomock.Any(), "A").Return(runtimeadapter.RuntimeState{ID: "A", Running: true}, nil)
	runtime.EXPECT().Inspect(gomock.Any(), "B").Return(runtimeadapter.RuntimeState{}, errs.ErrNotFound)

	// Recovery re-saves the pool; the restarted loop saves it once more
	// when Shutdown (registered as cleanup below) cancels it.
	store.EXPECT().Set(gomock.Any(), "autoscaler:pool:f5", gomock.Any(), gomock.Any()).Return(nil).MinTimes(1)
	store.EXPECT().Set(gomock.Any(), "autoscaler:metadata", gomock.Any(), gomock.Any()).Return(nil)

	scaler := New(runtime, metrics, layer, clock.NewReal(), config.Defaults())
	t.Cleanup(scaler.Shutdown)
	scaler.Recover(context.Background(), nil)

	p, ok := scaler.lookupPool("f5")
	require.True(t, ok)
	require.Len(t, p.Containers, 1)
	assert.Equal(t, "A", p.Containers[0].ID)
}

// S6 — metrics unavailable: a failed metrics query leaves the container's
// status untouched and triggers no scale action that tick.
func TestTick_MetricsUnavailableSkipsContainer(t *testing.T) {
	ctrl := gomock.NewController(t)
	runtime := mocks.NewMockAdapter(ctrl)
	metrics := mocks.NewMockMetricsClient(ctrl)

	scaler := New(runtime, metrics, nil, clock.NewReal(), config.Defaults())
	t.Cleanup(scaler.Shutdown)
	fnSpec := testFunctionSpec(0, 3)

	p := scaler.GetOrCreatePool("f6", fnSpec)
	t0 := time.Now()
	require.NoError(t, p.AddContainer(t0, pool.ContainerInfo{ID: "c1"}))

	metrics.EXPECT().CPUPercent(gomock.Any(), "c1").Return(0.0, errs.ErrMetricsUnavailable)

	scaler.tick(context.Background(), "f6", p, fnSpec)

	assert.Equal(t, pool.Healthy, p.Containers[0].Status)
	assert.False(t, p.NeedsScaleUp())
	assert.Empty(t, p.ScaledownCandidates(t0))
}
