package billing

import (
	"context"
	"fmt"
	"strings"
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

var hundred = decimal.NewFromInt(100)

// PaymentUseCase casos de uso de pagos. El número PAY-NNNN sale de una secuencia atómica
// consumida en la misma transacción que el insert.
type PaymentUseCase struct {
	txRunner   BillingTxRunner
	payments   repository.PaymentRepository
	customers  repository.CustomerRepository
	invoices   repository.InvoiceRepository
	resolver   *scope.Resolver
	defaultGST decimal.Decimal
	now        func() time.Time
}

// NewPaymentUseCase construye el caso de uso. defaultGST se aplica cuando el request no trae gst_percentage.
func NewPaymentUseCase(
	txRunner BillingTxRunner,
	payments repository.PaymentRepository,
	customers repository.CustomerRepository,
	invoices repository.InvoiceRepository,
	resolver *scope.Resolver,
	defaultGST decimal.Decimal,
) *PaymentUseCase {
	if defaultGST.IsNegative() || defaultGST.GreaterThan(hundred) {
		defaultGST = salesrules.DefaultGSTPercentage
	}
	return &PaymentUseCase{
		txRunner:   txRunner,
		payments:   payments,
		customers:  customers,
		invoices:   invoices,
		resolver:   resolver,
		defaultGST: defaultGST,
		now:        time.Now,
	}
}

// Create valida, numera y persiste un pago.
//
// Orden de validación (el primero que falla aborta sin efectos):
//  1. enums y montos
//  2. INTERNAL exige customer_id; EXTERNAL exige customer_name
//  3. cliente y factura referenciados existen (ErrNotFound)
func (uc *PaymentUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if _, err := uc.resolver.Resolve(ctx, actor); err != nil {
		return nil, err
	}
	refType := entity.ReferenceType(in.ReferenceType)
	gstType := entity.GSTType(in.GSTType)
	method := entity.PaymentMethod(in.PaymentMethod)
	if err := validateEnums(refType, gstType, method); err != nil {
		return nil, err
	}
	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount debe ser mayor que cero", domain.ErrInvalidInput)
	}
	pct := uc.defaultGST
	if in.GSTPercentage != nil {
		pct = *in.GSTPercentage
	}
	if err := validatePercentage(pct); err != nil {
		return nil, err
	}
	paymentDate := uc.now()
	if in.PaymentDate != "" {
		d, err := dto.ParseDate(in.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		paymentDate = *d
	}

	p := &entity.Payment{
		ID:             uuid.New().String(),
		CompanyID:      actor.CompanyID,
		ReferenceType:  refType,
		Amount:         in.Amount,
		GSTType:        gstType,
		PaymentMethod:  method,
		PaymentDate:    paymentDate,
		TransactionRef: in.TransactionRef,
		Notes:          in.Notes,
		CreatedBy:      actor.UserID,
	}
	if err := uc.applyReference(ctx, actor.CompanyID, p, refType, in.CustomerID, in.CustomerName); err != nil {
		return nil, err
	}
	if err := uc.applyInvoice(ctx, actor.CompanyID, p, in.InvoiceID); err != nil {
		return nil, err
	}
	applyGST(p, pct)

	now := uc.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	err := uc.txRunner.RunBilling(ctx, func(seqRepo repository.SequenceRepository, paymentRepo repository.PaymentRepository, _ repository.InvoiceRepository) error {
		n, err := seqRepo.Next(ctx, actor.CompanyID, salesrules.PaymentSequence)
		if err != nil {
			return fmt.Errorf("numerar pago: %w", err)
		}
		p.PaymentNumber = salesrules.FormatPaymentNumber(n)
		return paymentRepo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("payment_id", p.ID).
		Str("payment_number", p.PaymentNumber).
		Str("total_amount", p.TotalAmount.String()).
		Msg("pago registrado")
	return toPaymentResponse(p), nil
}

// Get obtiene un pago visible.
func (uc *PaymentUseCase) Get(ctx context.Context, actor scope.Actor, id string) (*dto.PaymentResponse, error) {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// List lista pagos del scope con filtros (método, tipo de GST, referencia, cliente, ventana de fechas).
func (uc *PaymentUseCase) List(ctx context.Context, actor scope.Actor, q dto.PaymentListQuery) (*dto.ListResponse[dto.PaymentResponse], error) {
	filter, err := uc.filter(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	filter.Page = repository.Page{Limit: q.Limit, Offset: q.Offset}
	list, err := uc.payments.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.payments.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toPaymentResponse(p))
	}
	return &dto.ListResponse[dto.PaymentResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update actualización parcial. Los campos no enviados no cambian; si cambia amount, gst_type
// o gst_percentage se recalculan gst_amount y total_amount con los valores nuevos sobre los existentes.
func (uc *PaymentUseCase) Update(ctx context.Context, actor scope.Actor, id string, in dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	refType := p.ReferenceType
	if in.ReferenceType != nil {
		refType = entity.ReferenceType(*in.ReferenceType)
	}
	gstType := p.GSTType
	if in.GSTType != nil {
		gstType = entity.GSTType(*in.GSTType)
	}
	method := p.PaymentMethod
	if in.PaymentMethod != nil {
		method = entity.PaymentMethod(*in.PaymentMethod)
	}
	if err := validateEnums(refType, gstType, method); err != nil {
		return nil, err
	}
	amount := p.Amount
	if in.Amount != nil {
		if in.Amount.Sign() <= 0 {
			return nil, fmt.Errorf("%w: amount debe ser mayor que cero", domain.ErrInvalidInput)
		}
		amount = *in.Amount
	}
	pct := p.GSTPercentage
	if in.GSTPercentage != nil {
		pct = *in.GSTPercentage
	}
	if err := validatePercentage(pct); err != nil {
		return nil, err
	}
	var paymentDate *time.Time
	if in.PaymentDate != nil {
		if paymentDate, err = dto.ParseDate(*in.PaymentDate); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	// Referencia: se valida el par resultante (tipo nuevo + cliente nuevo o existente).
	if in.ReferenceType != nil || in.CustomerID != nil || in.CustomerName != nil {
		customerID := p.CustomerID
		if in.CustomerID != nil {
			customerID = in.CustomerID
		}
		customerName := &p.CustomerName
		if in.CustomerName != nil {
			customerName = in.CustomerName
		}
		if err := uc.applyReference(ctx, actor.CompanyID, p, refType, customerID, customerName); err != nil {
			return nil, err
		}
	}
	if in.InvoiceID != nil {
		if err := uc.applyInvoice(ctx, actor.CompanyID, p, in.InvoiceID); err != nil {
			return nil, err
		}
	}

	p.ReferenceType = refType
	p.PaymentMethod = method
	if in.Amount != nil || in.GSTType != nil || in.GSTPercentage != nil {
		p.Amount = amount
		p.GSTType = gstType
		applyGST(p, pct)
	}
	if paymentDate != nil {
		p.PaymentDate = *paymentDate
	}
	if in.TransactionRef != nil {
		p.TransactionRef = *in.TransactionRef
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	p.UpdatedAt = uc.now()
	if err := uc.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// Delete borra el pago (sin borrado lógico).
func (uc *PaymentUseCase) Delete(ctx context.Context, actor scope.Actor, id string) error {
	p, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.payments.Delete(ctx, actor.CompanyID, p.ID); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Str("payment_number", p.PaymentNumber).Msg("pago eliminado")
	return nil
}

// Stats totales del scope y desglose por método y por tipo de GST.
func (uc *PaymentUseCase) Stats(ctx context.Context, actor scope.Actor, q dto.PaymentListQuery) (*dto.PaymentStatsResponse, error) {
	filter, err := uc.filter(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	rows, err := uc.payments.Breakdown(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentStatsResponse{
		TotalAmount: decimal.Zero,
		TotalGST:    decimal.Zero,
		GrandTotal:  decimal.Zero,
		ByMethod:    []dto.PaymentMethodStatDTO{},
		ByGSTType:   []dto.GSTTypeStatDTO{},
	}
	methodIdx := map[entity.PaymentMethod]int{}
	gstIdx := map[entity.GSTType]int{}
	for _, r := range rows {
		out.TotalPayments += r.Count
		out.TotalAmount = out.TotalAmount.Add(r.Amount)
		out.TotalGST = out.TotalGST.Add(r.GSTAmount)
		out.GrandTotal = out.GrandTotal.Add(r.TotalAmount)

		i, ok := methodIdx[r.Method]
		if !ok {
			i = len(out.ByMethod)
			methodIdx[r.Method] = i
			out.ByMethod = append(out.ByMethod, dto.PaymentMethodStatDTO{Method: string(r.Method), Amount: decimal.Zero, TotalAmount: decimal.Zero})
		}
		m := &out.ByMethod[i]
		m.Count += r.Count
		m.Amount = m.Amount.Add(r.Amount)
		m.TotalAmount = m.TotalAmount.Add(r.TotalAmount)

		j, ok := gstIdx[r.GSTType]
		if !ok {
			j = len(out.ByGSTType)
			gstIdx[r.GSTType] = j
			out.ByGSTType = append(out.ByGSTType, dto.GSTTypeStatDTO{GSTType: string(r.GSTType), Amount: decimal.Zero, GSTAmount: decimal.Zero, TotalAmount: decimal.Zero})
		}
		g := &out.ByGSTType[j]
		g.Count += r.Count
		g.Amount = g.Amount.Add(r.Amount)
		g.GSTAmount = g.GSTAmount.Add(r.GSTAmount)
		g.TotalAmount = g.TotalAmount.Add(r.TotalAmount)
	}
	return out, nil
}

func (uc *PaymentUseCase) filter(ctx context.Context, actor scope.Actor, q dto.PaymentListQuery) (repository.PaymentFilter, error) {
	s, err := uc.resolver.ResolveFiltered(ctx, actor, q.OwnerID)
	if err != nil {
		return repository.PaymentFilter{}, err
	}
	from, err := dto.ParseDate(q.StartDate)
	if err != nil {
		return repository.PaymentFilter{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	to, err := dto.ParseEndDate(q.EndDate)
	if err != nil {
		return repository.PaymentFilter{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return repository.PaymentFilter{
		Scope:         s,
		Method:        entity.PaymentMethod(q.PaymentMethod),
		GSTType:       entity.GSTType(q.GSTType),
		ReferenceType: entity.ReferenceType(q.ReferenceType),
		CustomerID:    q.CustomerID,
		Date:          repository.DateRange{From: from, To: to},
	}, nil
}

func (uc *PaymentUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.Payment, error) {
	p, err := uc.payments.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: pago %s", domain.ErrNotFound, id)
	}
	if err := uc.resolver.Authorize(ctx, actor, p.CreatedBy); err != nil {
		return nil, err
	}
	return p, nil
}

// applyReference valida el par tipo/cliente y fija CustomerID/CustomerName en p.
func (uc *PaymentUseCase) applyReference(ctx context.Context, companyID string, p *entity.Payment, refType entity.ReferenceType, customerID, customerName *string) error {
	switch refType {
	case entity.ReferenceInternal:
		if customerID == nil || *customerID == "" {
			return fmt.Errorf("%w: un pago INTERNAL requiere customer_id", domain.ErrInvalidInput)
		}
		c, err := uc.customers.GetByID(ctx, companyID, *customerID)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *customerID)
		}
		id := c.ID
		p.CustomerID = &id
		p.CustomerName = c.Name
	case entity.ReferenceExternal:
		if customerName == nil || strings.TrimSpace(*customerName) == "" {
			return fmt.Errorf("%w: un pago EXTERNAL requiere customer_name", domain.ErrInvalidInput)
		}
		p.CustomerID = nil
		p.CustomerName = strings.TrimSpace(*customerName)
	default:
		return fmt.Errorf("%w: reference_type %q", domain.ErrInvalidInput, refType)
	}
	return nil
}

// applyInvoice verifica que la factura exista; id vacío desvincula.
func (uc *PaymentUseCase) applyInvoice(ctx context.Context, companyID string, p *entity.Payment, invoiceID *string) error {
	if invoiceID == nil || *invoiceID == "" {
		p.InvoiceID = nil
		return nil
	}
	inv, err := uc.invoices.GetByID(ctx, companyID, *invoiceID)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, *invoiceID)
	}
	id := inv.ID
	p.InvoiceID = &id
	return nil
}

func applyGST(p *entity.Payment, pct decimal.Decimal) {
	g := salesrules.ComputeGST(p.Amount, p.GSTType, pct)
	p.GSTPercentage = g.GSTPercentage
	p.GSTAmount = g.GSTAmount
	p.TotalAmount = g.TotalAmount
}

func validateEnums(refType entity.ReferenceType, gstType entity.GSTType, method entity.PaymentMethod) error {
	if refType != entity.ReferenceInternal && refType != entity.ReferenceExternal {
		return fmt.Errorf("%w: reference_type %q", domain.ErrInvalidInput, refType)
	}
	if !gstType.Valid() {
		return fmt.Errorf("%w: gst_type %q", domain.ErrInvalidInput, gstType)
	}
	if !method.Valid() {
		return fmt.Errorf("%w: payment_method %q", domain.ErrInvalidInput, method)
	}
	return nil
}

func validatePercentage(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: gst_percentage debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	return nil
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:             p.ID,
		PaymentNumber:  p.PaymentNumber,
		ReferenceType:  string(p.ReferenceType),
		CustomerID:     p.CustomerID,
		CustomerName:   p.CustomerName,
		Amount:         p.Amount,
		GSTType:        string(p.GSTType),
		GSTPercentage:  p.GSTPercentage,
		GSTAmount:      p.GSTAmount,
		TotalAmount:    p.TotalAmount,
		PaymentMethod:  string(p.PaymentMethod),
		PaymentDate:    p.PaymentDate,
		InvoiceID:      p.InvoiceID,
		TransactionRef: p.TransactionRef,
		Notes:          p.Notes,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
