package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (tenant).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
}
