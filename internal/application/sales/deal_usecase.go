// Package sales casos de uso del embudo de ventas (deals).
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/owner"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	salesrules "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// DealUseCase casos de uso de deals.
type DealUseCase struct {
	deals     repository.DealRepository
	customers repository.CustomerRepository
	leads     repository.LeadRepository
	users     repository.UserRepository
	resolver  *scope.Resolver
	now       func() time.Time
}

// NewDealUseCase construye el caso de uso.
func NewDealUseCase(
	deals repository.DealRepository,
	customers repository.CustomerRepository,
	leads repository.LeadRepository,
	users repository.UserRepository,
	resolver *scope.Resolver,
) *DealUseCase {
	return &DealUseCase{deals: deals, customers: customers, leads: leads, users: users, resolver: resolver, now: time.Now}
}

// Create crea un deal. Sin etapa empieza en QUALIFICATION; sin probabilidad explícita se toma la de la etapa.
func (uc *DealUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreateDealRequest) (*dto.DealResponse, error) {
	if in.Value.IsNegative() {
		return nil, fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
	}
	stage := entity.StageQualification
	if in.Stage != "" {
		stage = entity.DealStage(in.Stage)
		if !stage.Valid() {
			return nil, fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, in.Stage)
		}
	}
	expected, err := dto.ParseDate(in.ExpectedCloseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := uc.checkCustomer(ctx, actor.CompanyID, in.CustomerID); err != nil {
		return nil, err
	}
	if err := uc.checkLead(ctx, actor.CompanyID, in.LeadID); err != nil {
		return nil, err
	}
	ownerID, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, in.OwnerID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	deal := &entity.Deal{
		ID:                uuid.New().String(),
		CompanyID:         actor.CompanyID,
		Title:             in.Title,
		Value:             in.Value,
		OwnerID:           ownerID,
		CustomerID:        nonEmpty(in.CustomerID),
		LeadID:            nonEmpty(in.LeadID),
		ExpectedCloseDate: expected,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	salesrules.ApplyStageTransition(deal, stage, now)
	if in.Probability != nil {
		deal.Probability = *in.Probability
	}
	if err := uc.deals.Create(ctx, deal); err != nil {
		return nil, err
	}
	return toDealResponse(deal), nil
}

// Get obtiene un deal visible.
func (uc *DealUseCase) Get(ctx context.Context, actor scope.Actor, id string) (*dto.DealResponse, error) {
	deal, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toDealResponse(deal), nil
}

// List lista deals del scope. owner_id se respeta para MANAGER/SUPER_ADMIN (intersectado con el scope).
func (uc *DealUseCase) List(ctx context.Context, actor scope.Actor, q dto.DealListQuery) (*dto.ListResponse[dto.DealResponse], error) {
	filter, err := uc.filter(ctx, actor, q.OwnerID, q.Stage)
	if err != nil {
		return nil, err
	}
	filter.CustomerID = q.CustomerID
	filter.Search = q.Search
	q.DefaultPage()
	filter.Page = repository.Page{Limit: q.Limit, Offset: q.Offset}

	deals, err := uc.deals.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.deals.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DealResponse, 0, len(deals))
	for _, d := range deals {
		out = append(out, *toDealResponse(d))
	}
	return &dto.ListResponse[dto.DealResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update actualización general. Una probabilidad explícita prevalece; un cambio de etapa
// sin ella usa la tabla. Entrar en CLOSED_* fija actual_close_date; salir (reapertura) la limpia.
func (uc *DealUseCase) Update(ctx context.Context, actor scope.Actor, id string, in dto.UpdateDealRequest) (*dto.DealResponse, error) {
	deal, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	var stage *entity.DealStage
	if in.Stage != nil {
		st := entity.DealStage(*in.Stage)
		if !st.Valid() {
			return nil, fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, *in.Stage)
		}
		stage = &st
	}
	if in.Value != nil && in.Value.IsNegative() {
		return nil, fmt.Errorf("%w: value no puede ser negativo", domain.ErrInvalidInput)
	}
	var expected *time.Time
	if in.ExpectedCloseDate != nil {
		if expected, err = dto.ParseDate(*in.ExpectedCloseDate); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}
	if in.CustomerID != nil {
		if err := uc.checkCustomer(ctx, actor.CompanyID, in.CustomerID); err != nil {
			return nil, err
		}
	}
	if in.OwnerID != nil && *in.OwnerID != deal.OwnerID {
		if actor.Role == entity.RoleEmployee {
			return nil, fmt.Errorf("%w: un EMPLOYEE no puede reasignar deals", domain.ErrForbidden)
		}
		ownerID, err := owner.Assignable(ctx, uc.resolver, uc.users, actor, *in.OwnerID)
		if err != nil {
			return nil, err
		}
		deal.OwnerID = ownerID
	}

	now := uc.now()
	wasWon := deal.Stage == entity.StageClosedWon
	salesrules.ApplyFieldUpdate(deal, stage, in.Probability, now)
	if in.Title != nil {
		deal.Title = *in.Title
	}
	if in.Value != nil {
		deal.Value = *in.Value
	}
	if in.CustomerID != nil {
		deal.CustomerID = nonEmpty(in.CustomerID)
	}
	if in.ExpectedCloseDate != nil {
		deal.ExpectedCloseDate = expected
	}
	if in.Notes != nil {
		deal.Notes = *in.Notes
	}
	deal.UpdatedAt = now
	if err := uc.deals.Update(ctx, deal); err != nil {
		return nil, err
	}
	logStageChange(ctx, deal, wasWon)
	return toDealResponse(deal), nil
}

// UpdateStage cambio de etapa dedicado: la probabilidad siempre sale de la tabla.
func (uc *DealUseCase) UpdateStage(ctx context.Context, actor scope.Actor, id, stage string) (*dto.DealResponse, error) {
	st := entity.DealStage(stage)
	if !st.Valid() {
		return nil, fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, stage)
	}
	deal, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	wasWon := deal.Stage == entity.StageClosedWon
	salesrules.ApplyStageTransition(deal, st, now)
	deal.UpdatedAt = now
	if err := uc.deals.Update(ctx, deal); err != nil {
		return nil, err
	}
	logStageChange(ctx, deal, wasWon)
	return toDealResponse(deal), nil
}

// Delete elimina un deal visible.
func (uc *DealUseCase) Delete(ctx context.Context, actor scope.Actor, id string) error {
	deal, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	return uc.deals.Delete(ctx, actor.CompanyID, deal.ID)
}

// Stats agregados del embudo sobre el scope: totales, por etapa (las seis, con ceros) y ganados.
func (uc *DealUseCase) Stats(ctx context.Context, actor scope.Actor, ownerID string) (*dto.DealStatsResponse, error) {
	filter, err := uc.filter(ctx, actor, ownerID, "")
	if err != nil {
		return nil, err
	}
	rows, err := uc.deals.StatsByStage(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	byStage := make(map[entity.DealStage]repository.StageStats, len(rows))
	for _, r := range rows {
		byStage[r.Stage] = r
	}
	out := &dto.DealStatsResponse{
		TotalValue: decimal.Zero,
		WonValue:   decimal.Zero,
		ByStage:    make([]dto.StageStatDTO, 0, len(entity.DealStages)),
	}
	for _, st := range entity.DealStages {
		r, ok := byStage[st]
		if !ok {
			r = repository.StageStats{Stage: st, Value: decimal.Zero}
		}
		out.ByStage = append(out.ByStage, dto.StageStatDTO{Stage: string(st), Count: r.Count, Value: r.Value})
		out.TotalDeals += r.Count
		out.TotalValue = out.TotalValue.Add(r.Value)
		if st == entity.StageClosedWon {
			out.WonDeals = r.Count
			out.WonValue = r.Value
		}
	}
	return out, nil
}

func (uc *DealUseCase) filter(ctx context.Context, actor scope.Actor, ownerID, stage string) (repository.DealFilter, error) {
	s, err := uc.resolver.ResolveFiltered(ctx, actor, ownerID)
	if err != nil {
		return repository.DealFilter{}, err
	}
	f := repository.DealFilter{Scope: s}
	if stage != "" {
		st := entity.DealStage(stage)
		if !st.Valid() {
			return repository.DealFilter{}, fmt.Errorf("%w: etapa %q", domain.ErrInvalidInput, stage)
		}
		f.Stage = st
	}
	return f, nil
}

func (uc *DealUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.Deal, error) {
	deal, err := uc.deals.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, fmt.Errorf("%w: deal %s", domain.ErrNotFound, id)
	}
	if err := uc.resolver.Authorize(ctx, actor, deal.OwnerID); err != nil {
		return nil, err
	}
	return deal, nil
}

func (uc *DealUseCase) checkCustomer(ctx context.Context, companyID string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	c, err := uc.customers.GetByID(ctx, companyID, *id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *id)
	}
	return nil
}

func (uc *DealUseCase) checkLead(ctx context.Context, companyID string, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	l, err := uc.leads.GetByID(ctx, companyID, *id)
	if err != nil {
		return err
	}
	if l == nil {
		return fmt.Errorf("%w: lead %s", domain.ErrNotFound, *id)
	}
	return nil
}

func logStageChange(ctx context.Context, deal *entity.Deal, wasWon bool) {
	if deal.Stage == entity.StageClosedWon && !wasWon {
		zerolog.Ctx(ctx).Info().
			Str("deal_id", deal.ID).
			Str("owner_id", deal.OwnerID).
			Str("value", deal.Value.String()).
			Msg("deal ganado")
	}
}

func nonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}

func toDealResponse(d *entity.Deal) *dto.DealResponse {
	return &dto.DealResponse{
		ID:                d.ID,
		Title:             d.Title,
		Value:             d.Value,
		Stage:             string(d.Stage),
		Probability:       d.Probability,
		OwnerID:           d.OwnerID,
		CustomerID:        d.CustomerID,
		LeadID:            d.LeadID,
		ExpectedCloseDate: d.ExpectedCloseDate,
		ActualCloseDate:   d.ActualCloseDate,
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
