package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// UserFilter filtros de listado. Scope se aplica sobre el id del usuario.
type UserFilter struct {
	Scope      scope.Scope
	Role       entity.Role
	ManagerID  string
	ActiveOnly bool
	Search     string
	Page
}

// UserRepository define el puerto de persistencia para User (DIP).
// GetByID/GetByEmail devuelven (nil, nil) si no existe.
type UserRepository interface {
	scope.DirectReportLister

	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, companyID string, filter UserFilter) ([]*entity.User, error)
	Count(ctx context.Context, companyID string, filter UserFilter) (int, error)
	Update(ctx context.Context, user *entity.User) error
}
