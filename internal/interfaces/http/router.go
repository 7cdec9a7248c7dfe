package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/auth"
	"github.com/jhoicas/Seguros-api/internal/application/commissions"
	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/policies"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Tenants       *access.TenantResolver
	Permissions   *access.PermissionService
	Evaluator     *access.Evaluator
	PolicyUC      *policies.UseCase
	PaymentUC     *payments.UseCase
	CommissionUC  *commissions.UseCase
	RenewalUC     *renewals.UseCase
	Users         userLoader
	JWTSecret     string
	LookaheadDays int
	Now           func() time.Time
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: Bearer Token y empresa activa resuelta en cada petición
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.Users), TenantMiddleware(deps.Tenants))

	protected.Get("/me", authHandler.Me)
	protected.Get("/me/companies", authHandler.Companies)

	permissionHandler := NewPermissionHandler(deps.Permissions, deps.Evaluator)
	perms := protected.Group("/permissions")
	perms.Get("/check", permissionHandler.Check)
	perms.Get("/:role", permissionHandler.List)
	perms.Put("/:role/:module", permissionHandler.Set)

	policyHandler := NewPolicyHandler(deps.PolicyUC)
	pols := protected.Group("/policies")
	pols.Post("/", policyHandler.Create)
	pols.Get("/", policyHandler.List)
	pols.Get("/:id", policyHandler.GetByID)
	pols.Patch("/:id/status", policyHandler.ChangeStatus)
	pols.Patch("/:id/installments", policyHandler.UpdateInstallments)
	pols.Delete("/:id", policyHandler.Delete)

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	pays := protected.Group("/payments")
	pays.Post("/:id/settle", paymentHandler.Settle)
	pays.Post("/:id/annul", paymentHandler.Annul)

	commissionHandler := NewCommissionHandler(deps.CommissionUC)
	comms := protected.Group("/commissions")
	comms.Post("/", commissionHandler.Create)
	comms.Get("/rate", commissionHandler.Rate)
	comms.Post("/:id/pay", commissionHandler.MarkPaid)
	comms.Post("/:id/annul", commissionHandler.Annul)
	protected.Post("/commission-rules", commissionHandler.CreateRule)
	protected.Get("/commission-rules", commissionHandler.ListRules)

	renewalHandler := NewRenewalHandler(deps.RenewalUC, deps.LookaheadDays, deps.Now)
	rens := protected.Group("/renewals")
	rens.Post("/generate", renewalHandler.Generate)
	rens.Get("/overdue", renewalHandler.ListOverdue)
	rens.Post("/expire", renewalHandler.Expire)
	rens.Post("/:id/process", renewalHandler.Process)
	rens.Post("/:id/reject", renewalHandler.Reject)
}
