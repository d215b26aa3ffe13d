package seed_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/bootstrap"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/seed"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/config"
)

func TestRun_MemoryStore(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DB:      config.DBConfig{Driver: config.DriverMemory},
		JWT:     config.JWTConfig{Secret: "seed-secret", Expiration: 60, Issuer: "seed-test"},
		Billing: config.BillingConfig{DefaultGSTPercentage: 18, LeaderboardParallelism: 2},
	}
	repos, err := bootstrap.OpenRepositories(ctx, cfg.DB)
	require.NoError(t, err)
	defer repos.Close()
	uc := bootstrap.NewUseCases(cfg, repos, bootstrap.PDFDeps{})

	opts := seed.Options{CompanyName: "Demo Tenders", Domain: "demo.test", Password: "demo12345"}
	res, err := seed.Run(ctx, uc.SeedUseCases(), opts)
	require.NoError(t, err)
	require.Len(t, res.Users, 5)
	assert.Equal(t, "SUPER_ADMIN", res.Users["admin@demo.test"])
	assert.Equal(t, "MANAGER", res.Users["manager@demo.test"])

	login, err := uc.Auth.Login(ctx, dto.LoginRequest{Email: "admin@demo.test", Password: "demo12345"})
	require.NoError(t, err)
	admin := scope.Actor{UserID: login.User.ID, CompanyID: login.User.CompanyID, Role: entity.Role(login.User.Role)}

	dash, err := uc.Reports.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 9, dash.TotalLeads)
	assert.Equal(t, 4, dash.TotalCustomers)
	assert.Equal(t, 9, dash.OverdueActivities)

	deals, err := uc.Deals.Stats(ctx, admin, "")
	require.NoError(t, err)
	assert.Equal(t, 4, deals.WonDeals)
	assert.True(t, decimal.NewFromInt(1150000).Equal(deals.WonValue))

	pays, err := uc.Payments.Stats(ctx, admin, dto.PaymentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, pays.TotalPayments)
	assert.True(t, decimal.NewFromInt(94400).Equal(pays.GrandTotal))

	invoices, err := uc.Invoices.List(ctx, admin, dto.InvoiceListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, invoices.Page.Total)

	// segunda ejecución: la empresa ya existe
	_, err = seed.Run(ctx, uc.SeedUseCases(), opts)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
