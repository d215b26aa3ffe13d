package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/auth"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/usecase"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/memory"
	apphttp "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/interfaces/http"
	pkgjwt "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de test: router completo sobre los adaptadores en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) GenerateInvoicePDF(ctx context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-1.4 " + doc.Invoice.InvoiceNumber), nil
}

type testEnv struct {
	app       *fiber.App
	store     *memory.Store
	companyID string
	admin     *entity.User
	manager   *entity.User
	employee  *entity.User // reporta a manager
	outsider  *entity.User // EMPLOYEE sin manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	users := store.Users()
	resolver := scope.NewResolver(users)
	gst := decimal.NewFromInt(18)

	deps := apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(users, store.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CompanyUC:     usecase.NewCompanyUseCase(store.Companies()),
		UserUC:        usecase.NewUserUseCase(users, resolver),
		LeadUC:        crm.NewLeadUseCase(store.Leads(), users, resolver),
		ActivityUC:    crm.NewActivityUseCase(store.Activities(), store.Leads(), users, resolver),
		CustomerUC:    billing.NewCustomerUseCase(store.Customers(), users, resolver),
		DealUC:        sales.NewDealUseCase(store.Deals(), store.Customers(), store.Leads(), users, resolver),
		PaymentUC:     billing.NewPaymentUseCase(store.TxRunner(), store.Payments(), store.Customers(), store.Invoices(), resolver, gst),
		InvoiceUC:     billing.NewInvoiceUseCase(store.TxRunner(), store.Invoices(), store.Customers(), resolver, gst),
		InvoicePDF:    billing.NewPDFUseCase(store.Invoices(), store.Companies(), store.Customers(), store.Payments(), resolver, fakePDF{}, nil, billing.BankDetails{}),
		LeaderboardUC: appanalytics.NewLeaderboardUseCase(users, store.Deals(), store.Activities(), store.Leads(), resolver, 2),
		ReportsUC:     appanalytics.NewReportsUseCase(users, store.Leads(), store.Activities(), store.Customers(), resolver),
		Users:         users,
		JWTSecret:     testJWTSecret,
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, deps)

	env := &testEnv{app: app, store: store, companyID: uuid.NewString()}
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: env.companyID, Name: "Grow Tenders", CreatedAt: now, UpdatedAt: now}))

	mk := func(email string, role entity.Role, managerID *string) *entity.User {
		u := &entity.User{
			ID: uuid.NewString(), CompanyID: env.companyID, Email: email, Name: email,
			Role: role, ManagerID: managerID, IsActive: true, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	env.admin = mk("admin@crm.test", entity.RoleSuperAdmin, nil)
	env.manager = mk("manager@crm.test", entity.RoleManager, nil)
	env.employee = mk("employee@crm.test", entity.RoleEmployee, &env.manager.ID)
	env.outsider = mk("outsider@crm.test", entity.RoleEmployee, nil)
	return env
}

func (e *testEnv) token(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Subject{
		UserID: u.ID, CompanyID: u.CompanyID, Role: string(u.Role), ManagerID: u.ManagerIDValue(),
	}, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, u *entity.User, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(t, u))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (e *testEnv) seedDeal(t *testing.T, owner *entity.User, title string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, e.store.Deals().Create(context.Background(), &entity.Deal{
		ID: uuid.NewString(), CompanyID: e.companyID, Title: title, Value: decimal.NewFromInt(100),
		Stage: entity.StageQualification, Probability: 10, OwnerID: owner.ID, CreatedAt: now, UpdatedAt: now,
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_RegistroLoginYMe(t *testing.T) {
	env := newTestEnv(t)

	req := dto.RegisterCompanyRequest{
		CompanyName: "Acme Tenders", AdminName: "Asha", Email: "asha@acme.test", Password: "supersecret",
	}
	resp, body := env.do(t, http.MethodPost, "/api/auth/register-company", nil, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodPost, "/api/auth/login", nil, dto.LoginRequest{Email: "ASHA@acme.test", Password: "supersecret"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	assert.Equal(t, "SUPER_ADMIN", login.User.Role)

	httpReq := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	httpReq.Header.Set("Authorization", "Bearer "+login.Token)
	meResp, err := env.app.Test(httpReq, -1)
	require.NoError(t, err)
	defer meResp.Body.Close()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
	var me dto.MeResponse
	require.NoError(t, json.NewDecoder(meResp.Body).Decode(&me))
	assert.Equal(t, "Acme Tenders", me.Company.Name)
}

func TestRouter_LoginCredencialesInvalidas_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/auth/login", nil, dto.LoginRequest{Email: "nobody@crm.test", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "UNAUTHORIZED")
}

func TestRouter_RegistroSinEmail_Retorna400Validation(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/auth/register-company", nil, map[string]string{"company_name": "X Co", "password": "12345678"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas de rol y usuario activo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_EmployeeNoGestionaUsuarios(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/users", env.employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/leaderboard/team", env.employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/api/reports/employee-productivity", env.employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_UsuarioDesactivado_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodDelete, "/api/users/"+env.outsider.ID, env.admin, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))

	resp, body = env.do(t, http.MethodGet, "/api/leads", env.outsider, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "USER_INACTIVE")
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/deals", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Scope y mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ManagerVeSusDealsYLosDeSusReportes(t *testing.T) {
	env := newTestEnv(t)
	env.seedDeal(t, env.manager, "m1")
	env.seedDeal(t, env.employee, "e1")
	env.seedDeal(t, env.outsider, "o1")

	resp, body := env.do(t, http.MethodGet, "/api/deals", env.manager, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list dto.ListResponse[dto.DealResponse]
	require.NoError(t, json.Unmarshal(body, &list))

	titles := make([]string, 0, len(list.Items))
	for _, d := range list.Items {
		titles = append(titles, d.Title)
	}
	assert.ElementsMatch(t, []string{"m1", "e1"}, titles)
	assert.Equal(t, 2, list.Page.Total)
}

func TestRouter_RecursoInexistente_Retorna404(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/deals/"+uuid.NewString(), env.admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestRouter_RecursoFueraDeScope_Retorna403(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/leads", env.outsider, dto.CreateLeadRequest{Title: "Tender", Source: "WEBSITE"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var lead dto.LeadResponse
	require.NoError(t, json.Unmarshal(body, &lead))

	resp, _ = env.do(t, http.MethodGet, "/api/leads/"+lead.ID, env.employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos y facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_CrearPagoConGST(t *testing.T) {
	env := newTestEnv(t)
	pct := decimal.NewFromInt(18)
	name := "Walk-in"
	in := dto.CreatePaymentRequest{
		ReferenceType: "EXTERNAL", CustomerName: &name, Amount: decimal.NewFromInt(1000),
		GSTType: "WITH_GST", GSTPercentage: &pct, PaymentMethod: "UPI",
	}
	resp, body := env.do(t, http.MethodPost, "/api/payments", env.employee, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var p dto.PaymentResponse
	require.NoError(t, json.Unmarshal(body, &p))
	assert.True(t, p.GSTAmount.Equal(decimal.NewFromInt(180)), "gst = %s", p.GSTAmount)
	assert.True(t, p.TotalAmount.Equal(decimal.NewFromInt(1180)), "total = %s", p.TotalAmount)
	assert.Equal(t, "PAY-0001", p.PaymentNumber)
}

func TestRouter_PagoInternalSinCliente_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	in := dto.CreatePaymentRequest{
		ReferenceType: "INTERNAL", Amount: decimal.NewFromInt(10), GSTType: "WITHOUT_GST", PaymentMethod: "CASH",
	}
	resp, body := env.do(t, http.MethodPost, "/api/payments", env.employee, in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
}

func TestRouter_FacturaYDescargaPDF(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/customers", env.employee, dto.CreateCustomerRequest{Name: "Bharat Infra"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var customer dto.CustomerResponse
	require.NoError(t, json.Unmarshal(body, &customer))

	in := dto.CreateInvoiceRequest{
		CustomerID: customer.ID,
		GSTType:    "WITH_GST",
		Items: []dto.InvoiceItemRequest{
			{Description: "Tender consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(500)},
		},
	}
	resp, body = env.do(t, http.MethodPost, "/api/invoices", env.employee, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(1180)), "total = %s", inv.TotalAmount)

	resp, body = env.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", env.employee, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-0001")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Analítica
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LeaderboardVentanaInvertida_Retorna400(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/leaderboard?start_date=2026-02-01&end_date=2026-01-01", env.employee, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_DashboardDisponibleParaTodosLosRoles(t *testing.T) {
	env := newTestEnv(t)
	for _, u := range []*entity.User{env.admin, env.manager, env.employee} {
		resp, body := env.do(t, http.MethodGet, "/api/reports/dashboard", u, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}
}
