// Package scope traduce la identidad del usuario que actúa en el conjunto de
// owners cuyos registros puede ver u operar.
//
//	EMPLOYEE    -> solo sus propios registros
//	MANAGER     -> los suyos + los de sus reportes directos (un solo nivel)
//	SUPER_ADMIN -> todos los registros de la empresa
//
// Todos los listados, lecturas puntuales, mutaciones y reportes pasan por Resolve.
package scope

import (
	"context"
	"fmt"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
)

// Actor identidad ya verificada por la autenticación.
type Actor struct {
	UserID    string
	CompanyID string
	Role      entity.Role
	ManagerID string
}

// DirectReportLister consulta los usuarios cuyo manager es managerID.
type DirectReportLister interface {
	ListDirectReportIDs(ctx context.Context, companyID, managerID string) ([]string, error)
}

// Scope predicado de visibilidad por owner.
// All=true no restringe; en otro caso solo se ven los registros cuyo owner está en OwnerIDs
// (OwnerIDs vacío con All=false no deja ver nada).
type Scope struct {
	All      bool
	OwnerIDs []string
}

// Unrestricted scope de SUPER_ADMIN.
func Unrestricted() Scope { return Scope{All: true} }

// Owners scope limitado a los ids indicados.
func Owners(ids ...string) Scope {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Scope{OwnerIDs: out}
}

// Allows indica si un registro del owner dado es visible.
func (s Scope) Allows(ownerID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.OwnerIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}

// IsEmpty true cuando el scope no deja ver ningún registro.
func (s Scope) IsEmpty() bool {
	return !s.All && len(s.OwnerIDs) == 0
}

// WithOwnerFilter aplica el filtro ownerId pedido por el cliente.
// Un EMPLOYEE siempre queda forzado a su propio id (se ignora lo pedido).
// Para MANAGER y SUPER_ADMIN el filtro se respeta, intersectado con el scope.
func (s Scope) WithOwnerFilter(actor Actor, requestedOwnerID string) Scope {
	if actor.Role == entity.RoleEmployee {
		return Owners(actor.UserID)
	}
	if requestedOwnerID == "" {
		return s
	}
	if s.Allows(requestedOwnerID) {
		return Owners(requestedOwnerID)
	}
	return Scope{OwnerIDs: []string{}}
}

// Resolver calcula el Scope de un actor.
type Resolver struct {
	users DirectReportLister
}

// NewResolver construye el resolver con el puerto de usuarios.
func NewResolver(users DirectReportLister) *Resolver {
	return &Resolver{users: users}
}

// Resolve devuelve el scope del actor. Un rol desconocido nunca cae en "sin restricción".
func (r *Resolver) Resolve(ctx context.Context, actor Actor) (Scope, error) {
	if actor.UserID == "" || actor.CompanyID == "" {
		return Scope{}, domain.ErrUnauthorized
	}
	switch actor.Role {
	case entity.RoleSuperAdmin:
		return Unrestricted(), nil
	case entity.RoleManager:
		reports, err := r.users.ListDirectReportIDs(ctx, actor.CompanyID, actor.UserID)
		if err != nil {
			return Scope{}, fmt.Errorf("scope: reportes directos: %w", err)
		}
		return Owners(append([]string{actor.UserID}, reports...)...), nil
	case entity.RoleEmployee:
		return Owners(actor.UserID), nil
	default:
		return Scope{}, fmt.Errorf("%w: rol %q", domain.ErrForbidden, actor.Role)
	}
}

// ResolveFiltered combina Resolve y WithOwnerFilter.
func (r *Resolver) ResolveFiltered(ctx context.Context, actor Actor, requestedOwnerID string) (Scope, error) {
	s, err := r.Resolve(ctx, actor)
	if err != nil {
		return Scope{}, err
	}
	return s.WithOwnerFilter(actor, requestedOwnerID), nil
}

// Authorize devuelve ErrForbidden si el owner del registro no es visible para el actor.
func (r *Resolver) Authorize(ctx context.Context, actor Actor, ownerID string) error {
	s, err := r.Resolve(ctx, actor)
	if err != nil {
		return err
	}
	if !s.Allows(ownerID) {
		return domain.ErrForbidden
	}
	return nil
}
