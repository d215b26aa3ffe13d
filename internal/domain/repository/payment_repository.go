package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/shopspring/decimal"
)

// PaymentFilter filtros de listado/agregación. Scope se aplica sobre created_by;
// Date filtra por payment_date.
type PaymentFilter struct {
	Scope         scope.Scope
	Method        entity.PaymentMethod
	GSTType       entity.GSTType
	ReferenceType entity.ReferenceType
	CustomerID    string
	InvoiceID     string
	Date          DateRange
	Page
}

// PaymentBreakdown fila agrupada por (método, tipo de GST).
type PaymentBreakdown struct {
	Method      entity.PaymentMethod
	GSTType     entity.GSTType
	Count       int
	Amount      decimal.Decimal
	GSTAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// PaymentRepository define el puerto de persistencia para Payment.
// Create devuelve domain.ErrDuplicate si el número de pago ya existe.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Payment, error)
	List(ctx context.Context, companyID string, filter PaymentFilter) ([]*entity.Payment, error)
	Count(ctx context.Context, companyID string, filter PaymentFilter) (int, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, companyID, id string) error

	Breakdown(ctx context.Context, companyID string, filter PaymentFilter) ([]PaymentBreakdown, error)
}
