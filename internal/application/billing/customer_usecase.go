package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/owner"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/gstin"
)

// CustomerUseCase casos de uso para clientes.
type CustomerUseCase struct {
	repo     repository.CustomerRepository
	users    repository.UserRepository
	resolver *scope.Resolver
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, users repository.UserRepository, resolver *scope.Resolver) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, users: users, resolver: resolver}
}

// Create crea un nuevo cliente asignado al actor (o a quien indique un MANAGER/SUPER_ADMIN).
func (uc *CustomerUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	assignee, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, in.AssigneeID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  actor.CompanyID,
		Name:       strings.TrimSpace(in.Name),
		GSTIN:      gstin.Normalize(in.GSTIN),
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		AssigneeID: assignee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get obtiene un cliente visible.
func (uc *CustomerUseCase) Get(ctx context.Context, actor scope.Actor, id string) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// List lista clientes del scope (por assignee).
func (uc *CustomerUseCase) List(ctx context.Context, actor scope.Actor, q dto.CustomerListQuery) (*dto.ListResponse[dto.CustomerResponse], error) {
	s, err := uc.resolver.ResolveFiltered(ctx, actor, q.AssigneeID)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	filter := repository.CustomerFilter{Scope: s, Search: q.Search, Page: repository.Page{Limit: q.Limit, Offset: q.Offset}}
	list, err := uc.repo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return &dto.ListResponse[dto.CustomerResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update actualización parcial de un cliente visible.
func (uc *CustomerUseCase) Update(ctx context.Context, actor scope.Actor, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.AssigneeID != nil && *in.AssigneeID != c.AssigneeID {
		if actor.Role == entity.RoleEmployee {
			return nil, fmt.Errorf("%w: un EMPLOYEE no puede reasignar clientes", domain.ErrForbidden)
		}
		assignee, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, *in.AssigneeID)
		if err != nil {
			return nil, err
		}
		c.AssigneeID = assignee
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.GSTIN != nil {
		c.GSTIN = gstin.Normalize(*in.GSTIN)
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

func (uc *CustomerUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	if err := uc.resolver.Authorize(ctx, actor, c.AssigneeID); err != nil {
		return nil, err
	}
	return c, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		GSTIN:      c.GSTIN,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		AssigneeID: c.AssigneeID,
		CreatedAt:  c.CreatedAt,
	}
}
