package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

var _ ports.EventPublisher = (*EventRecorder)(nil)

// EventRecorder publicador que guarda los eventos en memoria.
type EventRecorder struct {
	mu     sync.Mutex
	events []entity.DomainEvent
}

// Publish agrega los eventos.
func (r *EventRecorder) Publish(_ context.Context, events ...entity.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

// Events copia de los eventos publicados.
func (r *EventRecorder) Events() []entity.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// OfType eventos de un tipo.
func (r *EventRecorder) OfType(t string) []entity.DomainEvent {
	var out []entity.DomainEvent
	for _, e := range r.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
