package agent

import (
	"errors"

	"github.com/born-ml/rtpolicy/internal/session"
)

// Common errors.
var (
	// ErrNotLoaded is returned by Step before a successful Initialize or
	// after Shutdown. It is the same error a Session returns for a network
	// without weights.
	ErrNotLoaded = session.ErrNotLoaded

	ErrAlreadyInitialized = errors.New("agent already initialized")
	ErrDuplicateAgent     = errors.New("agent already exists")
	ErrUnknownAgent       = errors.New("agent not found")
	ErrInvalidName        = errors.New("agent name must not be empty")
)
