// Package commands is the in-process command bus components use to poke each other.
package commands

import (
	"context"
	"fmt"
	"sync"
)

// UpdateStatusBar asks the status indicator to re-read the active IDE.
const UpdateStatusBar = "editorjumper.updateStatusBar"

// Handler runs a command.
type Handler func(ctx context.Context, args ...any) error

type registration struct {
	id      int
	handler Handler
}

// Registry maps command ids to handlers. Several handlers may share an id;
// Execute runs them in registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]registration
	nextID   int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string][]registration)}
}

// Register adds handler for id and returns a function that removes it.
func (r *Registry) Register(id string, handler Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	regID := r.nextID
	r.handlers[id] = append(r.handlers[id], registration{id: regID, handler: handler})

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		regs := r.handlers[id]
		for i, reg := range regs {
			if reg.id == regID {
				r.handlers[id] = append(regs[:i:i], regs[i+1:]...)
				break
			}
		}
		if len(r.handlers[id]) == 0 {
			delete(r.handlers, id)
		}
	}
}

// Execute runs every handler registered for id and stops at the first error.
func (r *Registry) Execute(ctx context.Context, id string, args ...any) error {
	r.mu.RLock()
	regs := append([]registration(nil), r.handlers[id]...)
	r.mu.RUnlock()

	if len(regs) == 0 {
		return fmt.Errorf("command %q not found", id)
	}

	for _, reg := range regs {
		if err := reg.handler(ctx, args...); err != nil {
			return fmt.Errorf("command %q: %w", id, err)
		}
	}
	return nil
}

// Has reports whether id has at least one handler.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[id]) > 0
}
