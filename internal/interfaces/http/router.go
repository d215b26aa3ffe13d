package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	appanalytics "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/auth"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/usecase"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	LeadUC        *crm.LeadUseCase
	ActivityUC    *crm.ActivityUseCase
	CustomerUC    *billing.CustomerUseCase
	DealUC        *sales.DealUseCase
	PaymentUC     *billing.PaymentUseCase
	InvoiceUC     *billing.InvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	LeaderboardUC *appanalytics.LeaderboardUseCase
	ReportsUC     *appanalytics.ReportsUseCase
	Users         userLookup
	Limiter       *limiter.Limiter // nil = sin rate limit
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.Limiter != nil {
		api.Use(RateLimit(deps.Limiter))
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register-company", authHandler.RegisterCompany)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + usuario activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveUser(deps.Users))
	protected.Get("/auth/me", authHandler.Me)

	superAdmin := RequireRole(entity.RoleSuperAdmin)
	managers := RequireRole(entity.RoleSuperAdmin, entity.RoleManager)

	// Company
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", superAdmin, companyHandler.Update)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users")
	users.Get("/", managers, userHandler.List)
	users.Post("/", superAdmin, userHandler.Create)
	users.Get("/:id", managers, userHandler.GetByID)
	users.Put("/:id", superAdmin, userHandler.Update)
	users.Put("/:id/manager", superAdmin, userHandler.AssignManager)
	users.Delete("/:id", superAdmin, userHandler.Deactivate)
	users.Get("/:id/reports", managers, userHandler.Reports)

	// Leads
	leadHandler := NewLeadHandler(deps.LeadUC)
	leads := protected.Group("/leads")
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Put("/:id", leadHandler.Update)
	leads.Delete("/:id", leadHandler.Delete)
	leads.Patch("/:id/status", leadHandler.UpdateStatus)

	// Activities
	activityHandler := NewActivityHandler(deps.ActivityUC)
	activities := protected.Group("/activities")
	activities.Get("/", activityHandler.List)
	activities.Post("/", activityHandler.Create)
	activities.Get("/:id", activityHandler.GetByID)
	activities.Patch("/:id/complete", activityHandler.Complete)
	activities.Patch("/:id/cancel", activityHandler.Cancel)

	// Customers
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers")
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Deals (/stats antes de /:id)
	dealHandler := NewDealHandler(deps.DealUC)
	deals := protected.Group("/deals")
	deals.Get("/", dealHandler.List)
	deals.Post("/", dealHandler.Create)
	deals.Get("/stats", dealHandler.Stats)
	deals.Get("/:id", dealHandler.GetByID)
	deals.Put("/:id", dealHandler.Update)
	deals.Delete("/:id", dealHandler.Delete)
	deals.Patch("/:id/stage", dealHandler.UpdateStage)

	// Payments
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments := protected.Group("/payments")
	payments.Get("/", paymentHandler.List)
	payments.Post("/", paymentHandler.Create)
	payments.Get("/stats", paymentHandler.Stats)
	payments.Get("/:id", paymentHandler.GetByID)
	payments.Put("/:id", paymentHandler.Update)
	payments.Delete("/:id", paymentHandler.Delete)

	// Invoices
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Leaderboard
	leaderboardHandler := NewLeaderboardHandler(deps.LeaderboardUC)
	leaderboard := protected.Group("/leaderboard")
	leaderboard.Get("/", leaderboardHandler.Global)
	leaderboard.Get("/team", managers, leaderboardHandler.Team)
	leaderboard.Get("/me", leaderboardHandler.Me)

	// Reports
	reportHandler := NewReportHandler(deps.ReportsUC)
	reports := protected.Group("/reports")
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/sales-performance", reportHandler.SalesPerformance)
	reports.Get("/employee-productivity", managers, reportHandler.EmployeeProductivity)
	reports.Get("/overdue-followups", reportHandler.OverdueFollowUps)
	reports.Get("/lead-sources", reportHandler.LeadSources)
}
