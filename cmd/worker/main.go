package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/jobs"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Seguros-api/internal/infrastructure/redis"
	"github.com/jhoicas/Seguros-api/migrations"
	"github.com/jhoicas/Seguros-api/pkg/config"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, migrations.Files); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	var events ports.EventPublisher = infraredis.NewLogPublisher(log)
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		events = infraredis.NewPublisher(rdb, cfg.Redis.EventsChannel)
	}

	txRunner := postgres.NewTxRunner(pool)
	// las tareas del sistema no pasan por el evaluador, pero los casos de uso lo exigen
	evaluator := access.NewEvaluator(postgres.NewPermissionRepository(pool))
	renewalUC := renewals.NewUseCase(txRunner, postgres.NewPolicyRepository(pool), postgres.NewRenewalRepository(pool), evaluator, events, time.Now, log)
	paymentUC := payments.NewUseCase(txRunner, postgres.NewPaymentRepository(pool), evaluator, events, time.Now, log)

	runner := jobs.NewRunner(renewalUC, paymentUC, cfg.Jobs.RenewalLookaheadDays, time.Now, log)
	log.Info().
		Int("lookahead_days", cfg.Jobs.RenewalLookaheadDays).
		Int("run_at_hour", cfg.Jobs.RunAtHour).
		Msg("iniciando worker")
	runner.Loop(ctx, cfg.Jobs.RunAtHour, cfg.Jobs.Interval)
}
