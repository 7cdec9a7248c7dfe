package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ ports.EventPublisher = (*LogPublisher)(nil)
)

// DefaultEventsChannel canal Pub/Sub de eventos de dominio.
const DefaultEventsChannel = "seguros:events"

// PubSub comando de publicación; *goredis.Client lo cumple.
type PubSub interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

// Publisher envía cada evento como JSON al canal configurado.
type Publisher struct {
	client  PubSub
	channel string
}

// NewPublisher construye el publicador.
func NewPublisher(client PubSub, channel string) *Publisher {
	if channel == "" {
		channel = DefaultEventsChannel
	}
	return &Publisher{client: client, channel: channel}
}

// Publish se detiene en el primer evento que falle.
func (p *Publisher) Publish(ctx context.Context, events ...entity.DomainEvent) error {
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("serializar evento %s: %w", e.Type, err)
		}
		if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
			return fmt.Errorf("publicar evento %s: %w", e.Type, err)
		}
	}
	return nil
}

// LogPublisher alternativa sin Redis: los eventos solo quedan en el log.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador de log.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Component("events")}
}

func (p *LogPublisher) Publish(_ context.Context, events ...entity.DomainEvent) error {
	for _, e := range events {
		p.log.Info().
			Str("event_id", e.ID).
			Str("type", e.Type).
			Str("company_id", e.CompanyID).
			Str("entity_id", e.EntityID).
			Interface("data", e.Data).
			Msg("evento de dominio")
	}
	return nil
}
