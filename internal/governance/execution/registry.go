// Package execution applies approved configuration changes. A registry maps
// (domain, change type) to a handler; changes whose type has no handler stay
// approved and untouched, so an operator can register the handler and retry.
package execution

import (
	"context"
	"sync"

	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance"
	"github.com/realassetcoin-RAC/ignite-rewards/internal/governance/models"
)

// Handler applies one approved change to the live platform configuration.
//
// Handlers run inside the engine's execution critical section: they are
// invoked at most once per change, and a handler error leaves the change
// approved for retry.
type Handler interface {
	Apply(ctx context.Context, rec *models.ChangeRecord) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, rec *models.ChangeRecord) error

func (f HandlerFunc) Apply(ctx context.Context, rec *models.ChangeRecord) error {
	return f(ctx, rec)
}

type handlerKey struct {
	domain     models.Domain
	changeType models.ChangeType
}

// Registry routes approved changes to their handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[handlerKey]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[handlerKey]Handler)}
}

// Register installs the handler for a (domain, change type) pair,
// replacing any previous registration.
func (r *Registry) Register(domain models.Domain, changeType models.ChangeType, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[handlerKey{domain, changeType}] = h
}

// Dispatch applies the change via its registered handler. Returns
// ErrUnsupportedChangeType when no handler is registered.
func (r *Registry) Dispatch(ctx context.Context, rec *models.ChangeRecord) error {
	r.mu.RLock()
	h, ok := r.handlers[handlerKey{rec.Domain, rec.ChangeType}]
	r.mu.RUnlock()

	if !ok {
		return governance.ErrUnsupportedChangeType
	}
	return h.Apply(ctx, rec)
}

// Supports reports whether a handler is registered for the pair.
func (r *Registry) Supports(domain models.Domain, changeType models.ChangeType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[handlerKey{domain, changeType}]
	return ok
}
