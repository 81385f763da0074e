package agent

import (
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/rtpolicy/internal/storage"
)

// DefaultReloadDelay is how long the watcher waits after the last change
// before reloading, so that a file written in several chunks loads once.
const DefaultReloadDelay = 200 * time.Millisecond

// Option configures a PolicyAgent.
type Option func(*options)

type options struct {
	log         logr.Logger
	storage     *storage.Storage
	registerer  prometheus.Registerer
	reloadDelay time.Duration
}

func defaultOptions() options {
	return options{
		log:         logr.Discard(),
		reloadDelay: DefaultReloadDelay,
	}
}

// WithLogger sets the agent logger.
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithStorage sets the storage used to fetch weight blobs.
func WithStorage(s *storage.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithRegisterer registers the agent's metrics with reg on Initialize.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithReloadDelay overrides DefaultReloadDelay.
func WithReloadDelay(d time.Duration) Option {
	return func(o *options) {
		o.reloadDelay = d
	}
}
