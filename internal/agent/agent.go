// Package agent adapts the inference engine to a host application's lifecycle.
//
// A host creates an agent, calls Initialize once with its configuration,
// calls Step once per simulation tick and Shutdown when done:
//
//	a := agent.New("cartpole", agent.WithLogger(log))
//	if err := a.Initialize(ctx, cfg); err != nil {
//		return err
//	}
//	defer a.Shutdown()
//	for tick := range ticks {
//		action, err := a.Step(observation)
//		...
//	}
//
// Initialize fetches and loads the weights; Step never performs I/O.
package agent

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/born-ml/rtpolicy/internal/backend"
	"github.com/born-ml/rtpolicy/internal/config"
	"github.com/born-ml/rtpolicy/internal/metrics"
	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/serialization"
	"github.com/born-ml/rtpolicy/internal/session"
	"github.com/born-ml/rtpolicy/internal/storage"
)

// Agent is the host lifecycle contract.
type Agent interface {
	// Initialize loads the model described by cfg. It may block on I/O.
	Initialize(ctx context.Context, cfg *config.Config) error

	// Step evaluates one observation. The returned slice is valid until the
	// next Step.
	Step(observation []float32) ([]float32, error)

	// Shutdown releases the model and stops background work.
	Shutdown() error
}

// model is one loaded network with the session serving it.
type model struct {
	uri      string
	session  *session.Session
	report   *serialization.LoadReport
	loadedAt time.Time
}

// PolicyAgent serves a feed-forward policy loaded from storage.
//
// Step may be called from one goroutine at a time. When watching is
// enabled a background goroutine replaces the model after the file changes;
// the next Step uses the new model and the previous one keeps serving if
// the reload fails.
type PolicyAgent struct {
	name    string
	opts    options
	log     logr.Logger
	storage *storage.Storage

	current atomic.Pointer[model]
	metrics atomic.Pointer[metrics.Metrics] // nil records nothing
	cfg     atomic.Pointer[config.Config]

	mu      sync.Mutex // serializes Initialize and Shutdown
	watcher *watcher
}

var _ Agent = (*PolicyAgent)(nil)

// New returns an uninitialized agent.
func New(name string, opts ...Option) *PolicyAgent {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.storage == nil {
		o.storage = storage.New(storage.WithLogger(o.log))
	}

	return &PolicyAgent{
		name:    name,
		opts:    o,
		log:     o.log.WithValues("agent", name),
		storage: o.storage,
	}
}

// Name returns the agent name.
func (a *PolicyAgent) Name() string {
	return a.name
}

// Initialize validates cfg, loads the model and, if cfg.Watch is set and the
// model is a local file, starts watching it for changes.
func (a *PolicyAgent) Initialize(ctx context.Context, cfg *config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cfg.Load() != nil {
		return ErrAlreadyInitialized
	}

	cfg.Default()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if a.opts.registerer != nil {
		m, err := metrics.New(a.opts.registerer, a.name)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		a.metrics.Store(m)
	}

	m, err := a.load(ctx, cfg, cfg.ModelPath)
	if err != nil {
		a.metrics.Swap(nil).Unregister(a.opts.registerer)
		return err
	}
	a.current.Store(m)
	a.cfg.Store(cfg)

	if cfg.Watch {
		if err := a.startWatching(cfg.ModelPath); err != nil {
			a.log.Error(err, "model hot reload disabled", "uri", cfg.ModelPath)
		}
	}

	a.log.Info("agent initialized",
		"uri", cfg.ModelPath,
		"architecture", m.report.Architecture.String(),
		"parameters", m.report.Parameters,
		"session", m.session.ID().String())
	return nil
}

// load fetches uri and builds a fresh network and session from it.
func (a *PolicyAgent) load(ctx context.Context, cfg *config.Config, uri string) (*model, error) {
	m, err := a.loadModel(ctx, cfg, uri)
	if err != nil {
		a.metrics.Load().ObserveLoad(0, err)
		return nil, err
	}
	a.metrics.Load().ObserveLoad(m.report.Parameters, nil)
	return m, nil
}

func (a *PolicyAgent) loadModel(ctx context.Context, cfg *config.Config, uri string) (*model, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout.Duration)
	defer cancel()

	blob, err := a.storage.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	be, err := backend.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	build := func(arch nn.Architecture) (*nn.Network, error) {
		return nn.Build(arch, be)
	}
	loadOpts := []serialization.LoadOption{
		serialization.WithLogger(a.log),
		serialization.WithExpectedChecksum(cfg.Checksum),
	}

	var net *nn.Network
	var report *serialization.LoadReport
	if len(cfg.Architecture) > 0 {
		if net, err = build(cfg.Architecture); err != nil {
			return nil, err
		}
		report, err = serialization.Load(blob, net, loadOpts...)
	} else {
		net, report, err = serialization.LoadNew(blob, build, loadOpts...)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", uri, err)
	}

	// The session is only created once the network holds valid weights.
	sess, err := session.New(net, append(cfg.SessionOptions(), session.WithLogger(a.log))...)
	if err != nil {
		return nil, err
	}

	return &model{
		uri:      uri,
		session:  sess,
		report:   report,
		loadedAt: time.Now(),
	}, nil
}

// Step evaluates one observation with the current model.
//
// Returns ErrNotLoaded before Initialize or after Shutdown, and an
// *nn.DimensionMismatchError for observations of the wrong length.
func (a *PolicyAgent) Step(observation []float32) ([]float32, error) {
	obs := a.metrics.Load()
	m := a.current.Load()
	if m == nil {
		obs.ObserveStep(0, ErrNotLoaded)
		return nil, ErrNotLoaded
	}

	start := time.Now()
	action, err := m.session.Step(observation)
	obs.ObserveStep(time.Since(start), err)
	return action, err
}

// LoadPolicy replaces the current model with the blob at uri using the
// initialized configuration. On failure the current model keeps serving.
func (a *PolicyAgent) LoadPolicy(ctx context.Context, uri string) error {
	cfg := a.cfg.Load()
	if cfg == nil {
		return ErrNotLoaded
	}

	m, err := a.load(ctx, cfg, uri)
	if err != nil {
		return err
	}
	a.current.Store(m)
	a.log.Info("policy loaded", "uri", uri, "sha256", m.report.Checksum)
	return nil
}

// SavePolicy writes the current model's weights to path.
func (a *PolicyAgent) SavePolicy(path string) error {
	m := a.current.Load()
	if m == nil {
		return ErrNotLoaded
	}
	return serialization.WriteFile(path, m.session.Network())
}

// Reload fetches the model from its current URI again. It does nothing when
// the blob is unchanged.
func (a *PolicyAgent) Reload(ctx context.Context) error {
	cfg := a.cfg.Load()
	prev := a.current.Load()
	if cfg == nil || prev == nil {
		return ErrNotLoaded
	}

	m, err := a.load(ctx, cfg, prev.uri)
	if err != nil {
		return err
	}
	if m.report.Checksum == prev.report.Checksum {
		a.log.V(1).Info("model unchanged, keeping current session", "sha256", m.report.Checksum)
		return nil
	}
	if !a.current.CompareAndSwap(prev, m) {
		// Shut down or replaced concurrently.
		return nil
	}
	a.log.Info("model reloaded",
		"uri", m.uri,
		"sha256", m.report.Checksum,
		"architecture", m.report.Architecture.String())
	return nil
}

// Initialized reports whether a model is loaded.
func (a *PolicyAgent) Initialized() bool {
	return a.current.Load() != nil
}

// Network returns the serving network, or nil before Initialize.
func (a *PolicyAgent) Network() *nn.Network {
	if m := a.current.Load(); m != nil {
		return m.session.Network()
	}
	return nil
}

// Checksum returns the SHA-256 of the serving blob, or "" before Initialize.
func (a *PolicyAgent) Checksum() string {
	if m := a.current.Load(); m != nil {
		return m.report.Checksum
	}
	return ""
}

// Shutdown stops the watcher and releases the model. Calling it more than
// once, or before Initialize, is harmless. The agent may be initialized
// again afterwards.
func (a *PolicyAgent) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.watcher != nil {
		err = a.watcher.stop()
		a.watcher = nil
	}
	if a.current.Swap(nil) != nil {
		a.log.Info("agent shut down")
	}
	a.metrics.Swap(nil).Unregister(a.opts.registerer)
	a.cfg.Store(nil)
	return err
}
