package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	salesrules "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// InvoiceUseCase crea y consulta facturas. La cabecera, sus líneas y el número INV-NNNN
// se escriben en una sola transacción.
type InvoiceUseCase struct {
	txRunner   BillingTxRunner
	invoices   repository.InvoiceRepository
	customers  repository.CustomerRepository
	resolver   *scope.Resolver
	defaultGST decimal.Decimal
	now        func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoices repository.InvoiceRepository,
	customers repository.CustomerRepository,
	resolver *scope.Resolver,
	defaultGST decimal.Decimal,
) *InvoiceUseCase {
	if defaultGST.IsNegative() || defaultGST.GreaterThan(hundred) {
		defaultGST = salesrules.DefaultGSTPercentage
	}
	return &InvoiceUseCase{
		txRunner:   txRunner,
		invoices:   invoices,
		customers:  customers,
		resolver:   resolver,
		defaultGST: defaultGST,
		now:        time.Now,
	}
}

// Create crea la factura en DRAFT con sus líneas y totales (subtotal + GST).
func (uc *InvoiceUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if _, err := uc.resolver.Resolve(ctx, actor); err != nil {
		return nil, err
	}
	gstType := entity.GSTType(in.GSTType)
	if !gstType.Valid() {
		return nil, fmt.Errorf("%w: gst_type %q", domain.ErrInvalidInput, in.GSTType)
	}
	pct := uc.defaultGST
	if in.GSTPercentage != nil {
		pct = *in.GSTPercentage
	}
	if err := validatePercentage(pct); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura debe tener al menos una línea", domain.ErrInvalidInput)
	}
	now := uc.now()
	issueDate := now
	if in.IssueDate != "" {
		d, err := dto.ParseDate(in.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		issueDate = *d
	}
	dueDate, err := dto.ParseDate(in.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if dueDate != nil && dueDate.Before(issueDate) {
		return nil, fmt.Errorf("%w: due_date anterior a issue_date", domain.ErrInvalidInput)
	}
	customer, err := uc.customers.GetByID(ctx, actor.CompanyID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}

	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		CustomerID: customer.ID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Status:     entity.InvoiceStatusDraft,
		GSTType:    gstType,
		Notes:      in.Notes,
		CreatedBy:  actor.UserID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	items := make([]*entity.InvoiceItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d: quantity debe ser mayor que cero", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d: unit_price negativo", domain.ErrInvalidInput, i+1)
		}
		amount := it.Quantity.Mul(it.UnitPrice).RoundBank(2)
		subtotal = subtotal.Add(amount)
		items = append(items, &entity.InvoiceItem{
			ID:          uuid.New().String(),
			InvoiceID:   inv.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      amount,
			Position:    i + 1,
		})
	}
	g := salesrules.ComputeGST(subtotal, gstType, pct)
	inv.Subtotal = subtotal
	inv.GSTPercentage = g.GSTPercentage
	inv.GSTAmount = g.GSTAmount
	inv.TotalAmount = g.TotalAmount

	err = uc.txRunner.RunBilling(ctx, func(seqRepo repository.SequenceRepository, _ repository.PaymentRepository, invoiceRepo repository.InvoiceRepository) error {
		n, err := seqRepo.Next(ctx, actor.CompanyID, salesrules.InvoiceSequence)
		if err != nil {
			return fmt.Errorf("numerar factura: %w", err)
		}
		inv.InvoiceNumber = salesrules.FormatInvoiceNumber(n)
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, it := range items {
			if err := invoiceRepo.CreateItem(ctx, it); err != nil {
				return fmt.Errorf("crear línea: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("invoice_id", inv.ID).
		Str("invoice_number", inv.InvoiceNumber).
		Str("total_amount", inv.TotalAmount.String()).
		Msg("factura creada")
	return toInvoiceResponse(inv, items, customer.Name), nil
}

// Get obtiene una factura visible con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, actor scope.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoices.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	name := ""
	if c, err := uc.customers.GetByID(ctx, actor.CompanyID, inv.CustomerID); err == nil && c != nil {
		name = c.Name
	}
	return toInvoiceResponse(inv, items, name), nil
}

// List lista facturas del scope (por creador).
func (uc *InvoiceUseCase) List(ctx context.Context, actor scope.Actor, q dto.InvoiceListQuery) (*dto.ListResponse[dto.InvoiceResponse], error) {
	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	if q.Status != "" && !entity.ValidInvoiceStatus(q.Status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
	}
	q.DefaultPage()
	filter := repository.InvoiceFilter{
		Scope:      s,
		Status:     q.Status,
		CustomerID: q.CustomerID,
		Page:       repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	list, err := uc.invoices.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoices.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv, nil, ""))
	}
	return &dto.ListResponse[dto.InvoiceResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// UpdateStatus cambia el estado. PAID y CANCELLED son finales.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, actor scope.Actor, id, status string) (*dto.InvoiceResponse, error) {
	if !entity.ValidInvoiceStatus(status) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	inv, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == status {
		return toInvoiceResponse(inv, nil, ""), nil
	}
	if inv.Status == entity.InvoiceStatusPaid || inv.Status == entity.InvoiceStatusCancelled {
		return nil, fmt.Errorf("%w: la factura está %s", domain.ErrConflict, inv.Status)
	}
	inv.Status = status
	inv.UpdatedAt = uc.now()
	if err := uc.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, nil, ""), nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	if err := uc.resolver.Authorize(ctx, actor, inv.CreatedBy); err != nil {
		return nil, err
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem, customerName string) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  customerName,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		GSTType:       string(inv.GSTType),
		GSTPercentage: inv.GSTPercentage,
		GSTAmount:     inv.GSTAmount,
		TotalAmount:   inv.TotalAmount,
		Notes:         inv.Notes,
		CreatedBy:     inv.CreatedBy,
		CreatedAt:     inv.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return out
}
