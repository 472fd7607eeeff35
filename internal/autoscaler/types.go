// Package autoscaler is the multi-pool orchestrator from §4.G: the pool
// registry, invocation routing, scale-up/down, the periodic per-pool
// scaling loop, and startup recovery.
package autoscaler

import (
	"sync"

	"github.com/google/uuid"

	"autoscaler/internal/clock"
	"autoscaler/internal/config"
	"autoscaler/internal/metricsclient"
	"autoscaler/internal/persistence"
	"autoscaler/internal/pool"
	"autoscaler/internal/runtimeadapter"
)

// ContainerDetails is what a caller gets back from Route: enough to
// forward an HTTP request to the chosen container.
type ContainerDetails struct {
	ID   string
	Name string
	Port uint32
}

// FunctionSpec is the per-function configuration the registry needs to
// create a pool on first reference: the image to start on scale-up plus
// the monitoring/bounds policy for that function's pool.
type FunctionSpec struct {
	Image         string
	Port          uint32
	Env           []string
	MinContainers uint
	MaxContainers uint
	Monitoring    config.MonitoringConfig
}

// Autoscaler owns the pools map exclusively, per §3's ownership rules.
// Readers (routing) take a read share of poolsMu; mutators (get-or-create,
// delete-on-empty) take the write share. Scale actions for a given pool
// are additionally serialized by that pool's entry in scaleMu, kept
// distinct from poolsMu so that routing reads never block behind a
// scale-up's runtime call.
type Autoscaler struct {
	poolsMu    sync.RWMutex
	pools      map[string]*pool.Pool
	specsByKey map[string]specEntry

	scaleMuMu sync.Mutex
	scaleMu   map[string]*sync.Mutex

	runtime     runtimeadapter.Adapter
	metrics     metricsclient.Client
	persistence *persistence.Layer
	clock       clock.Clock
	cfg         config.AutoscalerConfig
	networkName string

	loopsMu sync.Mutex
	cancel  map[string]func()
}

// New wires an Autoscaler from its already-constructed collaborators,
// following the teacher's builder convention of assembling components
// rather than having them self-construct.
func New(runtime runtimeadapter.Adapter, metrics metricsclient.Client, persistence *persistence.Layer, clk clock.Clock, cfg config.AutoscalerConfig) *Autoscaler {
	return &Autoscaler{
		pools:       make(map[string]*pool.Pool),
		specsByKey:  make(map[string]specEntry),
		scaleMu:     make(map[string]*sync.Mutex),
		runtime:     runtime,
		metrics:     metrics,
		persistence: persistence,
		clock:       clk,
		cfg:         cfg,
		networkName: cfg.NetworkName,
		cancel:      make(map[string]func()),
	}
}

func newContainerLabel(functionKey string) string {
	return functionKey + "-" + uuid.NewString()
}
