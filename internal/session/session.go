// Package session runs per-tick inference against a loaded network.
//
// A Session owns every buffer it writes: the observation input, one scratch
// buffer per layer boundary and, when actions are denormalized, the action
// output. Many sessions may share one loaded network across goroutines; a
// single session must only be used from one goroutine at a time.
package session

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/born-ml/rtpolicy/internal/nn"
	"github.com/born-ml/rtpolicy/internal/tensor"
)

// Session evaluates one observation per Step.
type Session struct {
	id      uuid.UUID
	net     *nn.Network
	input   *tensor.Buffer
	scratch *nn.Scratch
	output  *tensor.Buffer // last action; aliases scratch unless actions are denormalized
	action  *tensor.Buffer // nil unless actions are denormalized
	obsNorm *affine
	actNorm *affine
	steps   uint64
	log     logr.Logger
}

// Option configures a Session.
type Option func(*options)

type options struct {
	log         logr.Logger
	observation NormalizationParams
	action      NormalizationParams
}

// WithObservationNormalization normalizes each observation in place before
// evaluation.
func WithObservationNormalization(p NormalizationParams) Option {
	return func(o *options) {
		o.observation = p
	}
}

// WithActionNormalization maps each raw network output through x*std+mean.
func WithActionNormalization(p NormalizationParams) Option {
	return func(o *options) {
		o.action = p
	}
}

// WithLogger sets the logger used for lifecycle messages. Step never logs.
func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// New allocates a session for net. All buffers are allocated here so that
// Step never allocates.
//
// New does not require net to be loaded; Step does.
func New(net *nn.Network, opts ...Option) (*Session, error) {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	obsNorm, err := resolve(o.observation, net.InputWidth())
	if err != nil {
		return nil, fmt.Errorf("observation normalization: %w", err)
	}
	actNorm, err := resolve(o.action, net.OutputWidth())
	if err != nil {
		return nil, fmt.Errorf("action normalization: %w", err)
	}

	input, err := tensor.New(tensor.Shape{net.InputWidth()})
	if err != nil {
		return nil, err
	}
	scratch, err := net.NewScratch()
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:      uuid.New(),
		net:     net,
		input:   input,
		scratch: scratch,
		output:  scratch.Output(),
		obsNorm: obsNorm,
		actNorm: actNorm,
	}
	if actNorm != nil {
		if s.action, err = tensor.New(tensor.Shape{net.OutputWidth()}); err != nil {
			return nil, err
		}
		s.output = s.action
	}
	s.log = o.log.WithValues("session", s.id.String())
	s.log.V(1).Info("session created",
		"architecture", net.Architecture().String(),
		"normalizeObservations", obsNorm != nil,
		"denormalizeActions", actNorm != nil)

	return s, nil
}

// Step copies observation into the session's input buffer, evaluates the
// network and returns the action.
//
// The returned slice is owned by the session and is overwritten by the next
// Step; callers must copy it to retain it. Step performs no allocation on
// success.
//
// Returns ErrNotLoaded before the network holds valid weights, and an
// *nn.DimensionMismatchError if observation has the wrong length. Neither
// error modifies the session's buffers.
func (s *Session) Step(observation []float32) ([]float32, error) {
	if err := s.check(len(observation)); err != nil {
		return nil, err
	}
	copy(s.input.Data(), observation)
	return s.run()
}

// StepBuffer is Step for observations held in a tensor buffer. Only the
// element count must match the network's input width.
func (s *Session) StepBuffer(observation *tensor.Buffer) ([]float32, error) {
	if err := s.check(observation.NumElements()); err != nil {
		return nil, err
	}
	copy(s.input.Data(), observation.Data())
	return s.run()
}

func (s *Session) check(n int) error {
	if !s.net.Loaded() {
		return ErrNotLoaded
	}
	if want := s.net.InputWidth(); n != want {
		return &nn.DimensionMismatchError{Layer: -1, What: "observation", Want: want, Got: n}
	}
	return nil
}

func (s *Session) run() ([]float32, error) {
	if s.obsNorm != nil {
		s.obsNorm.normalize(s.input.Data())
	}

	out, err := s.net.EvaluateWith(s.scratch, s.input)
	if err != nil {
		return nil, err
	}
	if s.actNorm != nil {
		s.actNorm.denormalize(s.action.Data(), out.Data())
	}

	s.steps++
	return s.output.Data(), nil
}

// Output returns the buffer holding the most recent action.
func (s *Session) Output() *tensor.Buffer {
	return s.output
}

// Network returns the network the session evaluates.
func (s *Session) Network() *nn.Network {
	return s.net
}

// ID returns the session identifier used in log messages.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Steps returns the number of successful steps.
func (s *Session) Steps() uint64 {
	return s.steps
}
