// Package crm casos de uso de leads y actividades de seguimiento.
package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/owner"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// LeadUseCase casos de uso de leads.
type LeadUseCase struct {
	leads    repository.LeadRepository
	users    repository.UserRepository
	resolver *scope.Resolver
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(leads repository.LeadRepository, users repository.UserRepository, resolver *scope.Resolver) *LeadUseCase {
	return &LeadUseCase{leads: leads, users: users, resolver: resolver}
}

// Create crea un lead. EMPLOYEE siempre queda como assignee.
func (uc *LeadUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	source := entity.LeadSource(in.Source)
	if !source.Valid() {
		return nil, fmt.Errorf("%w: origen %q", domain.ErrInvalidInput, in.Source)
	}
	status := entity.LeadNew
	if in.Status != "" {
		status = entity.LeadStatus(in.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
		}
	}
	assignee, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, in.AssigneeID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		Title:        in.Title,
		ContactName:  in.ContactName,
		Email:        in.Email,
		Phone:        in.Phone,
		Organization: in.Organization,
		Status:       status,
		Source:       source,
		AssigneeID:   assignee,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyConversion(lead, status, now)
	if err := uc.leads.Create(ctx, lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// Get obtiene un lead visible para el actor.
func (uc *LeadUseCase) Get(ctx context.Context, actor scope.Actor, id string) (*dto.LeadResponse, error) {
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// List lista leads del scope con filtros opcionales.
func (uc *LeadUseCase) List(ctx context.Context, actor scope.Actor, q dto.LeadListQuery) (*dto.ListResponse[dto.LeadResponse], error) {
	s, err := uc.resolver.ResolveFiltered(ctx, actor, q.AssigneeID)
	if err != nil {
		return nil, err
	}
	filter := repository.LeadFilter{Scope: s, Search: q.Search}
	if q.Status != "" {
		st := entity.LeadStatus(q.Status)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, q.Status)
		}
		filter.Statuses = []entity.LeadStatus{st}
	}
	if q.Source != "" {
		src := entity.LeadSource(q.Source)
		if !src.Valid() {
			return nil, fmt.Errorf("%w: origen %q", domain.ErrInvalidInput, q.Source)
		}
		filter.Source = src
	}
	q.DefaultPage()
	filter.Page = repository.Page{Limit: q.Limit, Offset: q.Offset}

	leads, err := uc.leads.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.leads.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, *toLeadResponse(l))
	}
	return &dto.ListResponse[dto.LeadResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update actualización parcial de campos. La reasignación respeta el scope.
func (uc *LeadUseCase) Update(ctx context.Context, actor scope.Actor, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Source != nil {
		src := entity.LeadSource(*in.Source)
		if !src.Valid() {
			return nil, fmt.Errorf("%w: origen %q", domain.ErrInvalidInput, *in.Source)
		}
		lead.Source = src
	}
	if in.AssigneeID != nil && *in.AssigneeID != lead.AssigneeID {
		if actor.Role == entity.RoleEmployee {
			return nil, fmt.Errorf("%w: un EMPLOYEE no puede reasignar leads", domain.ErrForbidden)
		}
		assignee, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, *in.AssigneeID)
		if err != nil {
			return nil, err
		}
		lead.AssigneeID = assignee
	}
	if in.Title != nil {
		lead.Title = *in.Title
	}
	if in.ContactName != nil {
		lead.ContactName = *in.ContactName
	}
	if in.Email != nil {
		lead.Email = *in.Email
	}
	if in.Phone != nil {
		lead.Phone = *in.Phone
	}
	if in.Organization != nil {
		lead.Organization = *in.Organization
	}
	lead.UpdatedAt = time.Now()
	if err := uc.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	return toLeadResponse(lead), nil
}

// UpdateStatus cambia el estado. Entrar en CLOSED_LEAD/WON fija converted_at; salir lo limpia.
func (uc *LeadUseCase) UpdateStatus(ctx context.Context, actor scope.Actor, id, status string) (*dto.LeadResponse, error) {
	st := entity.LeadStatus(status)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	applyConversion(lead, st, now)
	lead.Status = st
	lead.UpdatedAt = now
	if err := uc.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	if st.IsConverted() {
		zerolog.Ctx(ctx).Info().Str("lead_id", lead.ID).Str("status", string(st)).Msg("lead convertido")
	}
	return toLeadResponse(lead), nil
}

// Delete elimina un lead visible para el actor.
func (uc *LeadUseCase) Delete(ctx context.Context, actor scope.Actor, id string) error {
	lead, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	return uc.leads.Delete(ctx, actor.CompanyID, lead.ID)
}

func (uc *LeadUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.Lead, error) {
	lead, err := uc.leads.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, fmt.Errorf("%w: lead %s", domain.ErrNotFound, id)
	}
	if err := uc.resolver.Authorize(ctx, actor, lead.AssigneeID); err != nil {
		return nil, err
	}
	return lead, nil
}

func applyConversion(lead *entity.Lead, next entity.LeadStatus, now time.Time) {
	switch {
	case next.IsConverted() && lead.ConvertedAt == nil:
		t := now
		lead.ConvertedAt = &t
	case !next.IsConverted():
		lead.ConvertedAt = nil
	}
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:           l.ID,
		Title:        l.Title,
		ContactName:  l.ContactName,
		Email:        l.Email,
		Phone:        l.Phone,
		Organization: l.Organization,
		Status:       string(l.Status),
		Source:       string(l.Source),
		AssigneeID:   l.AssigneeID,
		ConvertedAt:  l.ConvertedAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
