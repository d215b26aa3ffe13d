// Package owner decide a quién se asigna un registro nuevo o reasignado.
package owner

import (
	"context"
	"fmt"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// Users subconjunto del repositorio de usuarios que se necesita aquí.
type Users interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
}

var _ Users = (repository.UserRepository)(nil)

// Assignable devuelve el owner efectivo para un registro.
// EMPLOYEE siempre se asigna a sí mismo (lo pedido se ignora). Sin petición, el owner es el actor.
// En otro caso el owner pedido debe estar dentro del scope (ErrForbidden) y ser un usuario
// activo de la empresa (ErrNotFound / ErrInvalidInput).
func Assignable(ctx context.Context, resolver *scope.Resolver, users Users, actor scope.Actor, requested string) (string, error) {
	if actor.Role == entity.RoleEmployee || requested == "" || requested == actor.UserID {
		if _, err := resolver.Resolve(ctx, actor); err != nil {
			return "", err
		}
		return actor.UserID, nil
	}
	if err := resolver.Authorize(ctx, actor, requested); err != nil {
		return "", err
	}
	u, err := users.GetByID(ctx, actor.CompanyID, requested)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", fmt.Errorf("%w: usuario %s", domain.ErrNotFound, requested)
	}
	if !u.IsActive {
		return "", fmt.Errorf("%w: el usuario %s está inactivo", domain.ErrInvalidInput, requested)
	}
	return u.ID, nil
}
