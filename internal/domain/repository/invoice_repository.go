package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// InvoiceFilter filtros de listado. Scope se aplica sobre created_by.
type InvoiceFilter struct {
	Scope      scope.Scope
	Status     string
	CustomerID string
	Page
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, companyID string, filter InvoiceFilter) ([]*entity.Invoice, error)
	Count(ctx context.Context, companyID string, filter InvoiceFilter) (int, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
}
