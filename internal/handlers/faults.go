package handlers

import (
	"math/rand"
	"sync"
)

// FaultInjector simulates transient backend failures on the usage read
// endpoints so clients exercise their retry paths. Roughly one request
// in ten fails when enabled.
type FaultInjector struct {
	mu      sync.Mutex
	enabled bool
	rate    float64
	roll    func() float64
}

func NewFaultInjector(enabled bool, rate float64) *FaultInjector {
	return &FaultInjector{
		enabled: enabled,
		rate:    rate,
		roll:    rand.Float64,
	}
}

// NewFaultInjectorWithRoll pins the random source; used by tests.
func NewFaultInjectorWithRoll(enabled bool, rate float64, roll func() float64) *FaultInjector {
	return &FaultInjector{enabled: enabled, rate: rate, roll: roll}
}

// Hit reports whether this request should fail.
func (f *FaultInjector) Hit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.enabled || f.rate <= 0 {
		return false
	}
	return f.roll() < f.rate
}
