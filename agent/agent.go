// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package agent hosts trained policies behind a tick-driven lifecycle.
//
// An Agent is initialized once from a Config, stepped once per control tick
// and shut down when the host is done with it. A Registry manages several
// named agents side by side.
//
// Example usage:
//
//	cfg, err := agent.LoadConfig("policy.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := agent.New("cartpole")
//	if err := a.Initialize(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Shutdown()
//
//	for tick := range ticks {
//	    action, err := a.Step(tick.Observation)
//	    ...
//	}
package agent

import (
	"github.com/born-ml/rtpolicy/internal/agent"
	"github.com/born-ml/rtpolicy/internal/config"
	"github.com/born-ml/rtpolicy/internal/session"
)

// Agent is the host-facing lifecycle of a policy.
type Agent = agent.Agent

// PolicyAgent is the Agent implementation backed by a feed-forward network.
type PolicyAgent = agent.PolicyAgent

// Registry manages named agents.
type Registry = agent.Registry

// Option configures agents.
type Option = agent.Option

// Config is the configuration passed to Initialize.
type Config = config.Config

// NormalizationParams configures observation or action normalization.
type NormalizationParams = session.NormalizationParams

// Errors reported by agents and registries.
var (
	ErrNotLoaded          = agent.ErrNotLoaded
	ErrAlreadyInitialized = agent.ErrAlreadyInitialized
	ErrDuplicateAgent     = agent.ErrDuplicateAgent
	ErrUnknownAgent       = agent.ErrUnknownAgent
	ErrInvalidName        = agent.ErrInvalidName
	ErrInvalidConfig      = config.ErrInvalidConfig
)

// Logging, storage, metrics and reload options.
var (
	WithLogger      = agent.WithLogger
	WithStorage     = agent.WithStorage
	WithRegisterer  = agent.WithRegisterer
	WithReloadDelay = agent.WithReloadDelay
)

// New creates an uninitialized agent.
func New(name string, opts ...Option) *PolicyAgent {
	return agent.New(name, opts...)
}

// NewRegistry creates an empty registry. opts apply to every agent it creates.
func NewRegistry(opts ...Option) *Registry {
	return agent.NewRegistry(opts...)
}

// LoadConfig reads a YAML configuration, applies RTPOLICY_* environment
// overrides and defaults, and validates it. An empty path reads only the
// environment.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// ParseConfig decodes and validates a YAML or JSON configuration.
func ParseConfig(data []byte) (*Config, error) {
	return config.Parse(data)
}
