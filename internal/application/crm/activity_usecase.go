package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/owner"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// ActivityUseCase casos de uso de actividades (llamadas, reuniones, seguimientos).
type ActivityUseCase struct {
	activities repository.ActivityRepository
	leads      repository.LeadRepository
	users      repository.UserRepository
	resolver   *scope.Resolver
	now        func() time.Time
}

// NewActivityUseCase construye el caso de uso.
func NewActivityUseCase(activities repository.ActivityRepository, leads repository.LeadRepository, users repository.UserRepository, resolver *scope.Resolver) *ActivityUseCase {
	return &ActivityUseCase{activities: activities, leads: leads, users: users, resolver: resolver, now: time.Now}
}

// Create programa una actividad. Si referencia un lead, este debe existir y ser visible.
func (uc *ActivityUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	typ := entity.ActivityType(in.Type)
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, in.Type)
	}
	scheduledAt, err := dto.ParseDate(in.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if scheduledAt == nil {
		return nil, fmt.Errorf("%w: scheduled_at es obligatorio", domain.ErrInvalidInput)
	}
	if in.LeadID != nil && *in.LeadID != "" {
		lead, err := uc.leads.GetByID(ctx, actor.CompanyID, *in.LeadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, fmt.Errorf("%w: lead %s", domain.ErrNotFound, *in.LeadID)
		}
		if err := uc.resolver.Authorize(ctx, actor, lead.AssigneeID); err != nil {
			return nil, err
		}
	}
	assignee, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, in.AssigneeID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	a := &entity.Activity{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		AssigneeID:  assignee,
		LeadID:      in.LeadID,
		Type:        typ,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      entity.ActivityScheduled,
		ScheduledAt: *scheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	return toActivityResponse(a, now), nil
}

// Get obtiene una actividad visible.
func (uc *ActivityUseCase) Get(ctx context.Context, actor scope.Actor, id string) (*dto.ActivityResponse, error) {
	a, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toActivityResponse(a, uc.now()), nil
}

// List lista actividades del scope; overdue=true restringe a vencidas.
func (uc *ActivityUseCase) List(ctx context.Context, actor scope.Actor, q dto.ActivityListQuery) (*dto.ListResponse[dto.ActivityResponse], error) {
	s, err := uc.resolver.ResolveFiltered(ctx, actor, q.AssigneeID)
	if err != nil {
		return nil, err
	}
	from, err := dto.ParseDate(q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	to, err := dto.ParseEndDate(q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	filter := repository.ActivityFilter{
		Scope:     s,
		LeadID:    q.LeadID,
		Scheduled: repository.DateRange{From: from, To: to},
	}
	if q.Status != "" {
		filter.Status = entity.ActivityStatus(q.Status)
	}
	if q.Overdue {
		filter.OverdueAt = &now
	}
	q.DefaultPage()
	filter.Page = repository.Page{Limit: q.Limit, Offset: q.Offset}

	list, err := uc.activities.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.activities.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, *toActivityResponse(a, now))
	}
	return &dto.ListResponse[dto.ActivityResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Complete marca la actividad como COMPLETED. Solo desde SCHEDULED u OVERDUE.
func (uc *ActivityUseCase) Complete(ctx context.Context, actor scope.Actor, id string) (*dto.ActivityResponse, error) {
	return uc.transition(ctx, actor, id, entity.ActivityCompleted)
}

// Cancel marca la actividad como CANCELLED. Solo desde SCHEDULED u OVERDUE.
func (uc *ActivityUseCase) Cancel(ctx context.Context, actor scope.Actor, id string) (*dto.ActivityResponse, error) {
	return uc.transition(ctx, actor, id, entity.ActivityCancelled)
}

func (uc *ActivityUseCase) transition(ctx context.Context, actor scope.Actor, id string, next entity.ActivityStatus) (*dto.ActivityResponse, error) {
	a, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if a.Status != entity.ActivityScheduled && a.Status != entity.ActivityOverdue {
		return nil, fmt.Errorf("%w: la actividad ya está %s", domain.ErrConflict, a.Status)
	}
	now := uc.now()
	a.Status = next
	if next == entity.ActivityCompleted {
		t := now
		a.CompletedAt = &t
	}
	a.UpdatedAt = now
	if err := uc.activities.Update(ctx, a); err != nil {
		return nil, err
	}
	return toActivityResponse(a, now), nil
}

func (uc *ActivityUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.Activity, error) {
	a, err := uc.activities.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: actividad %s", domain.ErrNotFound, id)
	}
	if err := uc.resolver.Authorize(ctx, actor, a.AssigneeID); err != nil {
		return nil, err
	}
	return a, nil
}

// ToActivityResponse mapea una actividad calculando si está vencida en now.
func ToActivityResponse(a *entity.Activity, now time.Time) dto.ActivityResponse {
	return *toActivityResponse(a, now)
}

func toActivityResponse(a *entity.Activity, now time.Time) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		ID:          a.ID,
		AssigneeID:  a.AssigneeID,
		LeadID:      a.LeadID,
		Type:        string(a.Type),
		Subject:     a.Subject,
		Description: a.Description,
		Status:      string(a.Status),
		Overdue:     a.IsOverdue(now),
		ScheduledAt: a.ScheduledAt,
		CompletedAt: a.CompletedAt,
		CreatedAt:   a.CreatedAt,
	}
}
