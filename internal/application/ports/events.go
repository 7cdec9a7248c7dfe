package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// NewEvent construye un evento de dominio con ID nuevo.
func NewEvent(eventType, companyID, entityID string, at time.Time, data map[string]string) entity.DomainEvent {
	return entity.DomainEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		CompanyID:  companyID,
		EntityID:   entityID,
		OccurredAt: at,
		Data:       data,
	}
}

// Notify publica eventos después del commit. Un fallo se registra y no revierte la operación.
func Notify(ctx context.Context, pub EventPublisher, log *logger.Logger, events ...entity.DomainEvent) {
	if pub == nil || len(events) == 0 {
		return
	}
	if err := pub.Publish(ctx, events...); err != nil {
		log.Warn().Err(err).Int("events", len(events)).Str("type", events[0].Type).Msg("no se pudieron publicar eventos")
	}
}
