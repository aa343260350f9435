// Package flags holds the runtime feature flag registry. Flags are
// process-local toggles; flipping one takes effect immediately and is
// lost on restart.
package flags

import (
	"errors"
	"sort"
	"sync"
)

const (
	// ChartV2 switches the usage chart to the line renderer.
	ChartV2 = "chartV2"
	// ModernColors switches the rendered chart palette.
	ModernColors = "modernColors"
)

// ErrUnknownFlag marks a name the registry does not carry.
var ErrUnknownFlag = errors.New("unknown feature flag")

// Flag is one named toggle and its current state.
type Flag struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Registry is a concurrency-safe flag set with remembered defaults.
type Registry struct {
	mu       sync.RWMutex
	flags    map[string]bool
	defaults map[string]bool
}

// NewRegistry builds the registry with the known flags at the given
// default states.
func NewRegistry(chartV2, modernColors bool) *Registry {
	defaults := map[string]bool{
		ChartV2:      chartV2,
		ModernColors: modernColors,
	}
	flags := make(map[string]bool, len(defaults))
	for name, v := range defaults {
		flags[name] = v
	}
	return &Registry{flags: flags, defaults: defaults}
}

// Enabled reports the current state of a flag. Unknown names read as
// disabled.
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flags[name]
}

// Toggle flips a flag and returns its new state.
func (r *Registry) Toggle(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flags[name]; !ok {
		return false, ErrUnknownFlag
	}
	r.flags[name] = !r.flags[name]
	return r.flags[name], nil
}

// Set forces a flag to a specific state.
func (r *Registry) Set(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flags[name]; !ok {
		return ErrUnknownFlag
	}
	r.flags[name] = enabled
	return nil
}

// Reset restores every flag to its default.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, v := range r.defaults {
		r.flags[name] = v
	}
}

// Snapshot lists all flags in name order.
func (r *Registry) Snapshot() []Flag {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Flag, 0, len(r.flags))
	for name, enabled := range r.flags {
		out = append(out, Flag{Name: name, Enabled: enabled})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
