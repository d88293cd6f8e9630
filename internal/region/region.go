// Package region maps region codes to the storage handles serving them.
package region

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownRegion = errors.New("region not found")
	ErrDuplicate     = errors.New("region already registered")
)

// Local is reported when no deployment region can be determined
const Local = "local"

// Registry resolves region codes to handles. It is filled once at startup and
// is read-only afterwards, so concurrent Resolve calls need no locking.
type Registry[T any] struct {
	codes   []string
	handles map[string]T
}

// NewRegistry creates an empty registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{handles: make(map[string]T)}
}

// Register adds a handle under code, keeping registration order
func (r *Registry[T]) Register(code string, handle T) error {
	if _, exists := r.handles[code]; exists {
		return fmt.Errorf("%s: %w", code, ErrDuplicate)
	}
	r.codes = append(r.codes, code)
	r.handles[code] = handle
	return nil
}

// Resolve returns the handle for code or ErrUnknownRegion
func (r *Registry[T]) Resolve(code string) (T, error) {
	handle, ok := r.handles[code]
	if !ok {
		var zero T
		return zero, fmt.Errorf("invalid region code %q: %w", code, ErrUnknownRegion)
	}
	return handle, nil
}

// Codes lists the registered region codes in registration order
func (r *Registry[T]) Codes() []string {
	return append([]string(nil), r.codes...)
}

// Default returns the first registered code, or "" for an empty registry
func (r *Registry[T]) Default() string {
	if len(r.codes) == 0 {
		return ""
	}
	return r.codes[0]
}

// Len returns the number of registered regions
func (r *Registry[T]) Len() int {
	return len(r.codes)
}

// FromDeploymentID extracts the region from an edge deployment id of the form
// "{region}::{identifier}" (e.g. "iad1::cwtlb-1743699480801-778d98ff31ce").
func FromDeploymentID(id string) string {
	if id == "" {
		return Local
	}
	region, _, _ := strings.Cut(id, "::")
	if region == "" {
		return Local
	}
	return region
}
