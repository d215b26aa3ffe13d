package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Entorno
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	ctx        context.Context
	store      *memory.Store
	companyID  string
	manager    scope.Actor
	employee   scope.Actor // reporta a manager
	outsider   scope.Actor
	customerID string
	payments   *billing.PaymentUseCase
	invoices   *billing.InvoiceUseCase
	customers  *billing.CustomerUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Users()
	resolver := scope.NewResolver(users)
	now := time.Now()
	e := &env{ctx: ctx, store: store, companyID: uuid.NewString()}
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: e.companyID, Name: "Grow Tenders", CreatedAt: now, UpdatedAt: now}))

	mk := func(role entity.Role, managerID string) scope.Actor {
		u := &entity.User{ID: uuid.NewString(), CompanyID: e.companyID, Email: uuid.NewString() + "@crm.test", Name: "u", Role: role, IsActive: true, CreatedAt: now, UpdatedAt: now}
		if managerID != "" {
			u.ManagerID = &managerID
		}
		require.NoError(t, users.Create(ctx, u))
		return scope.Actor{UserID: u.ID, CompanyID: e.companyID, Role: role, ManagerID: managerID}
	}
	e.manager = mk(entity.RoleManager, "")
	e.employee = mk(entity.RoleEmployee, e.manager.UserID)
	e.outsider = mk(entity.RoleEmployee, "")

	gst := decimal.NewFromInt(18)
	e.payments = billing.NewPaymentUseCase(store.TxRunner(), store.Payments(), store.Customers(), store.Invoices(), resolver, gst)
	e.invoices = billing.NewInvoiceUseCase(store.TxRunner(), store.Invoices(), store.Customers(), resolver, gst)
	e.customers = billing.NewCustomerUseCase(store.Customers(), users, resolver)

	c, err := e.customers.Create(ctx, e.employee, dto.CreateCustomerRequest{Name: "Acme Infra"})
	require.NoError(t, err)
	e.customerID = c.ID
	return e
}

func (e *env) internalPayment(amount int64, gstType entity.GSTType) dto.CreatePaymentRequest {
	id := e.customerID
	return dto.CreatePaymentRequest{
		ReferenceType: string(entity.ReferenceInternal),
		CustomerID:    &id,
		Amount:        decimal.NewFromInt(amount),
		GSTType:       string(gstType),
		PaymentMethod: string(entity.MethodUPI),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestPayment_Create_GST(t *testing.T) {
	e := newEnv(t)

	p, err := e.payments.Create(e.ctx, e.employee, e.internalPayment(1000, entity.WithGST))
	require.NoError(t, err)
	assert.Equal(t, "PAY-0001", p.PaymentNumber)
	assert.True(t, dec("180").Equal(p.GSTAmount), "gst %s", p.GSTAmount)
	assert.True(t, dec("1180").Equal(p.TotalAmount))
	assert.Equal(t, "Acme Infra", p.CustomerName)

	in := e.internalPayment(1000, entity.WithoutGST)
	p, err = e.payments.Create(e.ctx, e.employee, in)
	require.NoError(t, err)
	assert.Equal(t, "PAY-0002", p.PaymentNumber)
	assert.True(t, p.GSTAmount.IsZero())
	assert.True(t, dec("1000").Equal(p.TotalAmount))

	five := dec("5")
	in = e.internalPayment(999, entity.WithGST)
	in.GSTPercentage = &five
	p, err = e.payments.Create(e.ctx, e.employee, in)
	require.NoError(t, err)
	assert.True(t, dec("49.95").Equal(p.GSTAmount))
	assert.True(t, dec("1048.95").Equal(p.TotalAmount))
}

func TestPayment_Create_Validation(t *testing.T) {
	e := newEnv(t)
	missing := uuid.NewString()
	blank := "  "
	over := dec("101")

	cases := map[string]struct {
		mutate func(*dto.CreatePaymentRequest)
		want   error
	}{
		"amount cero":            {func(in *dto.CreatePaymentRequest) { in.Amount = decimal.Zero }, domain.ErrInvalidInput},
		"gst fuera de rango":     {func(in *dto.CreatePaymentRequest) { in.GSTPercentage = &over }, domain.ErrInvalidInput},
		"internal sin cliente":   {func(in *dto.CreatePaymentRequest) { in.CustomerID = nil }, domain.ErrInvalidInput},
		"external sin nombre":    {func(in *dto.CreatePaymentRequest) { in.ReferenceType = "EXTERNAL"; in.CustomerName = &blank }, domain.ErrInvalidInput},
		"método desconocido":     {func(in *dto.CreatePaymentRequest) { in.PaymentMethod = "CRYPTO" }, domain.ErrInvalidInput},
		"cliente inexistente":    {func(in *dto.CreatePaymentRequest) { in.CustomerID = &missing }, domain.ErrNotFound},
		"factura inexistente":    {func(in *dto.CreatePaymentRequest) { in.InvoiceID = &missing }, domain.ErrNotFound},
		"fecha de pago inválida": {func(in *dto.CreatePaymentRequest) { in.PaymentDate = "31/12/2026" }, domain.ErrInvalidInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := e.internalPayment(100, entity.WithGST)
			tc.mutate(&in)
			_, err := e.payments.Create(e.ctx, e.employee, in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// ningún intento fallido consumió número
	p, err := e.payments.Create(e.ctx, e.employee, e.internalPayment(100, entity.WithGST))
	require.NoError(t, err)
	assert.Equal(t, "PAY-0001", p.PaymentNumber)
}

func TestPayment_Create_External(t *testing.T) {
	e := newEnv(t)
	name := "  Walk-in Client "
	p, err := e.payments.Create(e.ctx, e.employee, dto.CreatePaymentRequest{
		ReferenceType: "EXTERNAL",
		CustomerName:  &name,
		Amount:        dec("250"),
		GSTType:       "WITHOUT_GST",
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	assert.Nil(t, p.CustomerID)
	assert.Equal(t, "Walk-in Client", p.CustomerName)
}

func TestPayment_ConcurrentNumbering(t *testing.T) {
	e := newEnv(t)
	const n = 40

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]struct{}, n)
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := e.payments.Create(e.ctx, e.employee, e.internalPayment(100, entity.WithGST))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[p.PaymentNumber] = struct{}{}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, n)
	assert.Contains(t, numbers, "PAY-0001")
	assert.Contains(t, numbers, "PAY-0040")
}

func TestPayment_Update_RecalculatesGST(t *testing.T) {
	e := newEnv(t)
	p, err := e.payments.Create(e.ctx, e.employee, e.internalPayment(1000, entity.WithoutGST))
	require.NoError(t, err)

	withGST := "WITH_GST"
	out, err := e.payments.Update(e.ctx, e.employee, p.ID, dto.UpdatePaymentRequest{GSTType: &withGST})
	require.NoError(t, err)
	assert.True(t, dec("180").Equal(out.GSTAmount))
	assert.True(t, dec("1180").Equal(out.TotalAmount))
	assert.Equal(t, p.PaymentNumber, out.PaymentNumber)

	amount := dec("2000")
	out, err = e.payments.Update(e.ctx, e.employee, p.ID, dto.UpdatePaymentRequest{Amount: &amount})
	require.NoError(t, err)
	assert.True(t, dec("2360").Equal(out.TotalAmount))

	notes := "ajuste"
	out, err = e.payments.Update(e.ctx, e.employee, p.ID, dto.UpdatePaymentRequest{Notes: &notes})
	require.NoError(t, err)
	assert.True(t, dec("2360").Equal(out.TotalAmount), "sin cambio de montos no se recalcula")
}

func TestPayment_Scope(t *testing.T) {
	e := newEnv(t)
	p, err := e.payments.Create(e.ctx, e.employee, e.internalPayment(100, entity.WithGST))
	require.NoError(t, err)

	_, err = e.payments.Get(e.ctx, e.manager, p.ID)
	assert.NoError(t, err, "el manager ve los pagos de su reporte")

	_, err = e.payments.Get(e.ctx, e.outsider, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = e.payments.Delete(e.ctx, e.outsider, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.payments.Get(e.ctx, e.manager, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := e.payments.List(e.ctx, e.outsider, dto.PaymentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)

	require.NoError(t, e.payments.Delete(e.ctx, e.employee, p.ID))
	_, err = e.payments.Get(e.ctx, e.employee, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayment_Stats(t *testing.T) {
	e := newEnv(t)
	_, err := e.payments.Create(e.ctx, e.employee, e.internalPayment(1000, entity.WithGST))
	require.NoError(t, err)
	_, err = e.payments.Create(e.ctx, e.employee, e.internalPayment(500, entity.WithoutGST))
	require.NoError(t, err)

	st, err := e.payments.Stats(e.ctx, e.manager, dto.PaymentListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalPayments)
	assert.True(t, dec("1500").Equal(st.TotalAmount))
	assert.True(t, dec("180").Equal(st.TotalGST))
	assert.True(t, dec("1680").Equal(st.GrandTotal))
	require.Len(t, st.ByMethod, 1)
	assert.Equal(t, "UPI", st.ByMethod[0].Method)
	assert.Len(t, st.ByGSTType, 2)

	st, err = e.payments.Stats(e.ctx, e.manager, dto.PaymentListQuery{GSTType: "WITH_GST"})
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalPayments)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func (e *env) invoiceRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID: e.customerID,
		GSTType:    "WITH_GST",
		Items: []dto.InvoiceItemRequest{
			{Description: "Tender documentation", Quantity: dec("1"), UnitPrice: dec("25000")},
			{Description: "Bid submission", Quantity: dec("3"), UnitPrice: dec("4500")},
		},
	}
}

func TestInvoice_Create_Totals(t *testing.T) {
	e := newEnv(t)
	inv, err := e.invoices.Create(e.ctx, e.employee, e.invoiceRequest())
	require.NoError(t, err)

	assert.Equal(t, "INV-0001", inv.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusDraft, inv.Status)
	assert.True(t, dec("38500").Equal(inv.Subtotal))
	assert.True(t, dec("6930").Equal(inv.GSTAmount))
	assert.True(t, dec("45430").Equal(inv.TotalAmount))
	require.Len(t, inv.Items, 2)
	assert.True(t, dec("13500").Equal(inv.Items[1].Amount))
	assert.Equal(t, "Acme Infra", inv.CustomerName)

	// la numeración de facturas es independiente de la de pagos
	_, err = e.payments.Create(e.ctx, e.employee, e.internalPayment(10, entity.WithGST))
	require.NoError(t, err)
	inv2, err := e.invoices.Create(e.ctx, e.employee, e.invoiceRequest())
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", inv2.InvoiceNumber)

	got, err := e.invoices.Get(e.ctx, e.manager, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestInvoice_Create_Validation(t *testing.T) {
	e := newEnv(t)

	in := e.invoiceRequest()
	in.Items = nil
	_, err := e.invoices.Create(e.ctx, e.employee, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = e.invoiceRequest()
	in.Items[0].Quantity = decimal.Zero
	_, err = e.invoices.Create(e.ctx, e.employee, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = e.invoiceRequest()
	in.IssueDate, in.DueDate = "2026-03-10", "2026-03-01"
	_, err = e.invoices.Create(e.ctx, e.employee, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = e.invoiceRequest()
	in.CustomerID = uuid.NewString()
	_, err = e.invoices.Create(e.ctx, e.employee, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoice_UpdateStatus(t *testing.T) {
	e := newEnv(t)
	inv, err := e.invoices.Create(e.ctx, e.employee, e.invoiceRequest())
	require.NoError(t, err)

	_, err = e.invoices.UpdateStatus(e.ctx, e.employee, inv.ID, "ARCHIVED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := e.invoices.UpdateStatus(e.ctx, e.employee, inv.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, out.Status)

	out, err = e.invoices.UpdateStatus(e.ctx, e.manager, inv.ID, entity.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)

	// mismo estado: sin cambios ni error
	_, err = e.invoices.UpdateStatus(e.ctx, e.employee, inv.ID, entity.InvoiceStatusPaid)
	assert.NoError(t, err)

	_, err = e.invoices.UpdateStatus(e.ctx, e.employee, inv.ID, entity.InvoiceStatusDraft)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = e.invoices.UpdateStatus(e.ctx, e.outsider, inv.ID, entity.InvoiceStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

type captureGenerator struct {
	doc billing.InvoiceDocument
}

func (g *captureGenerator) GenerateInvoicePDF(ctx context.Context, doc billing.InvoiceDocument) ([]byte, error) {
	g.doc = doc
	return []byte("%PDF"), nil
}

type recordingStore struct {
	keys []string
	err  error
}

func (s *recordingStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	s.keys = append(s.keys, key)
	return "s3://bucket/" + key, s.err
}

func (e *env) pdf(gen billing.InvoicePDFGenerator, store billing.DocumentStore) *billing.PDFUseCase {
	users := e.store.Users()
	return billing.NewPDFUseCase(e.store.Invoices(), e.store.Companies(), e.store.Customers(), e.store.Payments(),
		scope.NewResolver(users), gen, store, billing.BankDetails{BankName: "HDFC", AccountNo: "5010001", IFSC: "HDFC0000001"})
}

func TestPDF_Download(t *testing.T) {
	e := newEnv(t)
	inv, err := e.invoices.Create(e.ctx, e.employee, e.invoiceRequest())
	require.NoError(t, err)
	in := e.internalPayment(20000, entity.WithoutGST)
	in.InvoiceID = &inv.ID
	_, err = e.payments.Create(e.ctx, e.employee, in)
	require.NoError(t, err)

	gen := &captureGenerator{}
	store := &recordingStore{}
	body, filename, err := e.pdf(gen, store).DownloadInvoicePDF(e.ctx, e.employee, inv.ID)
	require.NoError(t, err)

	assert.Equal(t, "INV-0001.pdf", filename)
	assert.Equal(t, []byte("%PDF"), body)
	assert.True(t, dec("20000").Equal(gen.doc.Paid))
	assert.Len(t, gen.doc.Items, 2)
	assert.Equal(t, "HDFC", gen.doc.Bank.BankName, "sin datos bancarios de empresa se usan los configurados")
	assert.Equal(t, "Grow Tenders", gen.doc.Bank.AccountName)
	assert.Equal(t, []string{e.companyID + "/INV-0001.pdf"}, store.keys)
}

func TestPDF_StoreFailureDoesNotFail(t *testing.T) {
	e := newEnv(t)
	inv, err := e.invoices.Create(e.ctx, e.employee, e.invoiceRequest())
	require.NoError(t, err)

	_, _, err = e.pdf(&captureGenerator{}, &recordingStore{err: errors.New("s3 caído")}).DownloadInvoicePDF(e.ctx, e.employee, inv.ID)
	assert.NoError(t, err)
}

func TestPDF_Rules(t *testing.T) {
	e := newEnv(t)
	inv, err := e.invoices.Create(e.ctx, e.employee, e.invoiceRequest())
	require.NoError(t, err)
	uc := e.pdf(&captureGenerator{}, nil)

	_, _, err = uc.DownloadInvoicePDF(e.ctx, e.outsider, inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.DownloadInvoicePDF(e.ctx, e.employee, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.invoices.UpdateStatus(e.ctx, e.employee, inv.ID, entity.InvoiceStatusCancelled)
	require.NoError(t, err)
	_, _, err = uc.DownloadInvoicePDF(e.ctx, e.employee, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
