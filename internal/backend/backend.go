// Package backend resolves a configured backend selector to a numerical backend.
package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/born-ml/rtpolicy/internal/backend/cpu"
	"github.com/born-ml/rtpolicy/internal/tensor"
)

// ErrUnknownBackend is returned for selectors with no registered backend.
var ErrUnknownBackend = errors.New("unknown backend")

// Default is the selector used when none is configured.
const Default = cpu.Name

var factories = map[string]func() tensor.Backend{
	cpu.Name: func() tensor.Backend { return cpu.New() },
}

// New returns the backend registered under name. Matching is case-insensitive
// and an empty name selects Default.
func New(name string) (tensor.Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(Available(), ", "))
	}
	return factory(), nil
}

// Available lists the registered selectors in sorted order.
func Available() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
