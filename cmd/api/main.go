package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/auth"
	"github.com/jhoicas/Seguros-api/internal/application/commissions"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Seguros-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Seguros-api/internal/interfaces/http"
	"github.com/jhoicas/Seguros-api/migrations"
	"github.com/jhoicas/Seguros-api/pkg/config"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, migrations.Files); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	policyRepo := postgres.NewPolicyRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	renewalRepo := postgres.NewRenewalRepository(pool)
	ruleRepo := postgres.NewCommissionRuleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Redis es opcional: sin REDIS_ADDR los permisos se leen directo de la base
	// y los eventos solo quedan en el log.
	var permRepo repository.PermissionRepository = postgres.NewPermissionRepository(pool)
	var events ports.EventPublisher = infraredis.NewLogPublisher(log)
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		permRepo = infraredis.NewCachedPermissions(permRepo, rdb, cfg.Redis.PermissionTTL, log)
		events = infraredis.NewPublisher(rdb, cfg.Redis.EventsChannel)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis habilitado")
	}

	evaluator := access.NewEvaluator(permRepo)
	tenants := access.NewTenantResolver(userRepo, companyRepo, membershipRepo, log)
	permissionSvc := access.NewPermissionService(permRepo, evaluator)

	policyUC := policies.NewUseCase(txRunner, policyRepo, paymentRepo, renewalRepo, evaluator, events, time.Now, log)
	paymentUC := payments.NewUseCase(txRunner, paymentRepo, evaluator, events, time.Now, log)
	commissionUC := commissions.NewUseCase(txRunner, policyRepo, ruleRepo, evaluator, events, time.Now, log)
	renewalUC := renewals.NewUseCase(txRunner, policyRepo, renewalRepo, evaluator, events, time.Now, log)
	authUC := auth.NewAuthUseCase(userRepo, tenants, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Seguros API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Tenants:       tenants,
		Permissions:   permissionSvc,
		Evaluator:     evaluator,
		PolicyUC:      policyUC,
		PaymentUC:     paymentUC,
		CommissionUC:  commissionUC,
		RenewalUC:     renewalUC,
		Users:         userRepo,
		JWTSecret:     cfg.JWT.Secret,
		LookaheadDays: cfg.Jobs.RenewalLookaheadDays,
		Now:           time.Now,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
