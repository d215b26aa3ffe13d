// Package bootstrap construye repositorios y casos de uso a partir de la configuración.
// Lo comparten cmd/api y cmd/seed.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	appanalytics "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/auth"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/usecase"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/memory"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/postgres"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/seed"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/config"
)

// Repositories adaptadores de persistencia elegidos por DB_DRIVER.
type Repositories struct {
	Companies  repository.CompanyRepository
	Users      repository.UserRepository
	Leads      repository.LeadRepository
	Activities repository.ActivityRepository
	Customers  repository.CustomerRepository
	Deals      repository.DealRepository
	Payments   repository.PaymentRepository
	Invoices   repository.InvoiceRepository
	Tx         billing.BillingTxRunner

	close func()
}

// Close libera el pool de conexiones (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories abre la base configurada. Con postgres aplica migraciones si DB_RUN_MIGRATIONS.
func OpenRepositories(ctx context.Context, cfg config.DBConfig) (*Repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &Repositories{
			Companies:  store.Companies(),
			Users:      store.Users(),
			Leads:      store.Leads(),
			Activities: store.Activities(),
			Customers:  store.Customers(),
			Deals:      store.Deals(),
			Payments:   store.Payments(),
			Invoices:   store.Invoices(),
			Tx:         store.TxRunner(),
		}, nil
	case config.DriverPostgres:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg); err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgresRepositories(pool), nil
	default:
		return nil, fmt.Errorf("driver %q no soportado", cfg.Driver)
	}
}

func postgresRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Companies:  postgres.NewCompanyRepository(pool),
		Users:      postgres.NewUserRepository(pool),
		Leads:      postgres.NewLeadRepository(pool),
		Activities: postgres.NewActivityRepository(pool),
		Customers:  postgres.NewCustomerRepository(pool),
		Deals:      postgres.NewDealRepository(pool),
		Payments:   postgres.NewPaymentRepository(pool),
		Invoices:   postgres.NewInvoiceRepository(pool),
		Tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}
}

// UseCases casos de uso de la aplicación.
type UseCases struct {
	Auth        *auth.AuthUseCase
	Company     *usecase.CompanyUseCase
	Users       *usecase.UserUseCase
	Leads       *crm.LeadUseCase
	Activities  *crm.ActivityUseCase
	Customers   *billing.CustomerUseCase
	Deals       *sales.DealUseCase
	Payments    *billing.PaymentUseCase
	Invoices    *billing.InvoiceUseCase
	InvoicePDF  *billing.PDFUseCase
	Leaderboard *appanalytics.LeaderboardUseCase
	Reports     *appanalytics.ReportsUseCase
}

// PDFDeps piezas opcionales de la generación de PDF.
type PDFDeps struct {
	Generator billing.InvoicePDFGenerator
	Store     billing.DocumentStore // nil = sin archivo
}

// NewUseCases cablea todos los casos de uso sobre repos.
func NewUseCases(cfg *config.Config, repos *Repositories, pdf PDFDeps) *UseCases {
	resolver := scope.NewResolver(repos.Users)
	gst := decimal.NewFromFloat(cfg.Billing.DefaultGSTPercentage)

	return &UseCases{
		Auth: auth.NewAuthUseCase(repos.Users, repos.Companies, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Company:    usecase.NewCompanyUseCase(repos.Companies),
		Users:      usecase.NewUserUseCase(repos.Users, resolver),
		Leads:      crm.NewLeadUseCase(repos.Leads, repos.Users, resolver),
		Activities: crm.NewActivityUseCase(repos.Activities, repos.Leads, repos.Users, resolver),
		Customers:  billing.NewCustomerUseCase(repos.Customers, repos.Users, resolver),
		Deals:      sales.NewDealUseCase(repos.Deals, repos.Customers, repos.Leads, repos.Users, resolver),
		Payments:   billing.NewPaymentUseCase(repos.Tx, repos.Payments, repos.Customers, repos.Invoices, resolver, gst),
		Invoices:   billing.NewInvoiceUseCase(repos.Tx, repos.Invoices, repos.Customers, resolver, gst),
		InvoicePDF: billing.NewPDFUseCase(
			repos.Invoices, repos.Companies, repos.Customers, repos.Payments, resolver,
			pdf.Generator, pdf.Store,
			billing.BankDetails{
				BankName:  cfg.Billing.BankName,
				AccountNo: cfg.Billing.BankAccount,
				IFSC:      cfg.Billing.IFSC,
			},
		),
		Leaderboard: appanalytics.NewLeaderboardUseCase(
			repos.Users, repos.Deals, repos.Activities, repos.Leads, resolver,
			cfg.Billing.LeaderboardParallelism,
		),
		Reports: appanalytics.NewReportsUseCase(repos.Users, repos.Leads, repos.Activities, repos.Customers, resolver),
	}
}

// SeedUseCases subconjunto que usa el seeder de demo.
func (u *UseCases) SeedUseCases() seed.UseCases {
	return seed.UseCases{
		Auth:       u.Auth,
		Users:      u.Users,
		Leads:      u.Leads,
		Activities: u.Activities,
		Customers:  u.Customers,
		Deals:      u.Deals,
		Payments:   u.Payments,
		Invoices:   u.Invoices,
	}
}
