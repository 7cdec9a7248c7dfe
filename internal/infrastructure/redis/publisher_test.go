package redis_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/redis"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

type published struct {
	channel string
	payload []byte
}

type fakePubSub struct {
	sent    []published
	failAt  int
	failErr error
}

func (f *fakePubSub) Publish(_ context.Context, channel string, message any) *goredis.IntCmd {
	if f.failErr != nil && len(f.sent) == f.failAt {
		return goredis.NewIntResult(0, f.failErr)
	}
	f.sent = append(f.sent, published{channel: channel, payload: message.([]byte)})
	return goredis.NewIntResult(1, nil)
}

var at = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPublisher_PublicaJSON(t *testing.T) {
	ps := &fakePubSub{}
	pub := redis.NewPublisher(ps, "")

	e1 := ports.NewEvent(entity.EventPolicyCreated, "co-a", "pol-1", at, map[string]string{"premium": "6000"})
	e2 := ports.NewEvent(entity.EventRenewalCreated, "co-a", "ren-1", at, nil)
	require.NoError(t, pub.Publish(context.Background(), e1, e2))

	require.Len(t, ps.sent, 2)
	assert.Equal(t, redis.DefaultEventsChannel, ps.sent[0].channel)

	var got entity.DomainEvent
	require.NoError(t, json.Unmarshal(ps.sent[0].payload, &got))
	assert.Equal(t, e1.ID, got.ID)
	assert.Equal(t, entity.EventPolicyCreated, got.Type)
	assert.Equal(t, "co-a", got.CompanyID)
	assert.Equal(t, "6000", got.Data["premium"])
	assert.True(t, at.Equal(got.OccurredAt))
}

func TestPublisher_FalloSeDetiene(t *testing.T) {
	ps := &fakePubSub{failAt: 1, failErr: errors.New("broken pipe")}
	pub := redis.NewPublisher(ps, "canal")

	err := pub.Publish(context.Background(),
		ports.NewEvent(entity.EventPaymentSettled, "co-a", "p1", at, nil),
		ports.NewEvent(entity.EventPaymentSettled, "co-a", "p2", at, nil),
		ports.NewEvent(entity.EventPaymentSettled, "co-a", "p3", at, nil),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Len(t, ps.sent, 1)
	assert.Equal(t, "canal", ps.sent[0].channel)
}

func TestLogPublisher_NuncaFalla(t *testing.T) {
	pub := redis.NewLogPublisher(logger.Nop())
	err := pub.Publish(context.Background(), ports.NewEvent(entity.EventRenewalOverdue, "co-a", "r1", at, nil))
	assert.NoError(t, err)
}
