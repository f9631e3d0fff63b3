// Package collector defines the contract every status source implements and the
// registry that assigns each source its slot in the status line.
package collector

import (
	"context"

	"codeberg.org/mutker/ministatus/internal/logger"
)

// Collector produces at most one text fragment per tick.
//
// An empty string with a nil error means there is nothing to show this tick.
// Implementations must return quickly: anything that may block has to bound
// itself. A resource that is permanently absent should make the constructor
// fail instead of failing every tick.
type Collector interface {
	Produce(ctx context.Context) (string, error)
}

// Func adapts a plain function to the Collector interface
type Func func(ctx context.Context) (string, error)

func (f Func) Produce(ctx context.Context) (string, error) {
	return f(ctx)
}

// Slot is a collector's fixed position in the status line
type Slot struct {
	Index     int
	Name      string
	Collector Collector
}

// Registry holds the registered collectors in display order
type Registry struct {
	slots []Slot
	log   logger.Logger
}

func NewRegistry(log logger.Logger) *Registry {
	return &Registry{log: log}
}

// Register appends c as the next slot
func (r *Registry) Register(name string, c Collector) Slot {
	slot := Slot{
		Index:     len(r.slots),
		Name:      name,
		Collector: c,
	}
	r.slots = append(r.slots, slot)

	r.log.Debug().
		Int("index", slot.Index).
		Str("collector", name).
		Msg("Collector registered")

	return slot
}

// RegisterFunc builds a collector and registers it. A constructor error
// disables the collector: it is logged and nothing is registered.
func (r *Registry) RegisterFunc(name string, build func() (Collector, error)) bool {
	c, err := build()
	if err != nil {
		r.log.Warn().
			Str("collector", name).
			Err(err).
			Msg("Collector disabled")
		return false
	}

	r.Register(name, c)

	return true
}

// Slots returns the registered slots in registration order
func (r *Registry) Slots() []Slot {
	out := make([]Slot, len(r.slots))
	copy(out, r.slots)

	return out
}

// Len returns the number of registered slots
func (r *Registry) Len() int {
	return len(r.slots)
}
