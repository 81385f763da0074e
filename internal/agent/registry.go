package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"

	"github.com/born-ml/rtpolicy/internal/config"
)

// Registry manages named agents for hosts that run several policies.
type Registry struct {
	mu      sync.RWMutex
	agents  map[string]*PolicyAgent
	pending map[string]struct{} // names reserved by an in-flight Configure
	opts    []Option
	log     logr.Logger
}

// NewRegistry returns an empty registry. opts are applied to every agent it
// creates.
func NewRegistry(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry{
		agents:  make(map[string]*PolicyAgent),
		pending: make(map[string]struct{}),
		opts:    opts,
		log:     o.log,
	}
}

// Configure creates and initializes an agent under name. Names must be
// unique; a failed initialization registers nothing.
//
// The model is fetched without holding the registry lock, so Step on other
// agents is not delayed while name loads.
func (r *Registry) Configure(ctx context.Context, name string, cfg *config.Config) error {
	if name == "" {
		return ErrInvalidName
	}

	r.mu.Lock()
	_, exists := r.agents[name]
	_, loading := r.pending[name]
	if exists || loading {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, name)
	}
	r.pending[name] = struct{}{}
	r.mu.Unlock()

	a := New(name, r.opts...)
	err := a.Initialize(ctx, cfg)

	r.mu.Lock()
	delete(r.pending, name)
	if err == nil {
		r.agents[name] = a
	}
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("initialize agent %s: %w", name, err)
	}
	r.log.Info("agent created", "agent", name)
	return nil
}

// Remove shuts the named agent down and forgets it.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	a, ok := r.agents[name]
	delete(r.agents, name)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	r.log.Info("agent removed", "agent", name)
	return a.Shutdown()
}

// Get returns the named agent.
func (r *Registry) Get(name string) (*PolicyAgent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Step evaluates observation with the named agent.
func (r *Registry) Step(name string, observation []float32) ([]float32, error) {
	a, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	return a.Step(observation)
}

// LoadPolicy replaces the named agent's model with the blob at uri.
func (r *Registry) LoadPolicy(ctx context.Context, name, uri string) error {
	a, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	return a.LoadPolicy(ctx, uri)
}

// SavePolicy writes the named agent's weights to path.
func (r *Registry) SavePolicy(name, path string) error {
	a, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAgent, name)
	}
	return a.SavePolicy(path)
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shutdown shuts every agent down and empties the registry.
func (r *Registry) Shutdown() error {
	r.mu.Lock()
	agents := r.agents
	r.agents = make(map[string]*PolicyAgent)
	r.mu.Unlock()

	var errs []error
	for name, a := range agents {
		if err := a.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown agent %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
