package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// CustomerFilter filtros de listado. Scope se aplica sobre assignee_id.
type CustomerFilter struct {
	Scope  scope.Scope
	Search string
	Page
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error)
	List(ctx context.Context, companyID string, filter CustomerFilter) ([]*entity.Customer, error)
	Count(ctx context.Context, companyID string, filter CustomerFilter) (int, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
