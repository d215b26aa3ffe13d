package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	salesrules "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// LeaderboardUseCase calcula el ranking de ventas.
//
// Ventana [start_date, end_date]:
//   - deals: actual_close_date
//   - actividades: scheduled_at
//   - leads: created_at
type LeaderboardUseCase struct {
	users       repository.UserRepository
	deals       repository.DealRepository
	activities  repository.ActivityRepository
	leads       repository.LeadRepository
	resolver    *scope.Resolver
	parallelism int
}

// NewLeaderboardUseCase construye el caso de uso. parallelism acota las consultas
// concurrentes por petición.
func NewLeaderboardUseCase(
	users repository.UserRepository,
	deals repository.DealRepository,
	activities repository.ActivityRepository,
	leads repository.LeadRepository,
	resolver *scope.Resolver,
	parallelism int,
) *LeaderboardUseCase {
	if parallelism < 1 {
		parallelism = 1
	}
	return &LeaderboardUseCase{
		users:       users,
		deals:       deals,
		activities:  activities,
		leads:       leads,
		resolver:    resolver,
		parallelism: parallelism,
	}
}

// Global ranking de todos los usuarios activos que no son SUPER_ADMIN.
func (uc *LeaderboardUseCase) Global(ctx context.Context, actor scope.Actor, q dto.LeaderboardQuery) (res *dto.LeaderboardResponse, err error) {
	ctx, span := tracer.Start(ctx, "leaderboard.global")
	defer func() { endSpan(span, err) }()

	if _, err = uc.resolver.Resolve(ctx, actor); err != nil {
		return nil, err
	}
	window, err := parseWindow(q.DateRangeQuery)
	if err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx, actor.CompanyID, repository.UserFilter{Scope: scope.Unrestricted(), ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	ranked := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if u.Role != entity.RoleSuperAdmin {
			ranked = append(ranked, u)
		}
	}
	span.SetAttributes(attribute.Int("leaderboard.users", len(ranked)))
	entries, err := uc.rank(ctx, actor.CompanyID, ranked, window)
	if err != nil {
		return nil, err
	}
	return &dto.LeaderboardResponse{StartDate: q.StartDate, EndDate: q.EndDate, Entries: entries}, nil
}

// Team ranking de los reportes directos activos de un manager. Un MANAGER siempre ve
// su propio equipo; un SUPER_ADMIN indica manager_id.
func (uc *LeaderboardUseCase) Team(ctx context.Context, actor scope.Actor, q dto.LeaderboardQuery) (res *dto.LeaderboardResponse, err error) {
	ctx, span := tracer.Start(ctx, "leaderboard.team")
	defer func() { endSpan(span, err) }()

	if _, err = uc.resolver.Resolve(ctx, actor); err != nil {
		return nil, err
	}
	managerID := ""
	switch actor.Role {
	case entity.RoleManager:
		managerID = actor.UserID
	case entity.RoleSuperAdmin:
		if q.ManagerID == "" {
			return nil, fmt.Errorf("%w: manager_id requerido", domain.ErrInvalidInput)
		}
		m, gErr := uc.users.GetByID(ctx, actor.CompanyID, q.ManagerID)
		if gErr != nil {
			return nil, gErr
		}
		if m == nil {
			return nil, fmt.Errorf("%w: manager %s", domain.ErrNotFound, q.ManagerID)
		}
		if m.Role != entity.RoleManager {
			return nil, fmt.Errorf("%w: el usuario %s no es MANAGER", domain.ErrInvalidInput, q.ManagerID)
		}
		managerID = m.ID
	default:
		return nil, domain.ErrForbidden
	}
	window, err := parseWindow(q.DateRangeQuery)
	if err != nil {
		return nil, err
	}
	team, err := uc.users.List(ctx, actor.CompanyID, repository.UserFilter{
		Scope:      scope.Unrestricted(),
		ManagerID:  managerID,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("leaderboard.manager_id", managerID), attribute.Int("leaderboard.users", len(team)))
	entries, err := uc.rank(ctx, actor.CompanyID, team, window)
	if err != nil {
		return nil, err
	}
	return &dto.LeaderboardResponse{StartDate: q.StartDate, EndDate: q.EndDate, Entries: entries}, nil
}

// Me métricas del propio actor con su posición en el ranking global.
func (uc *LeaderboardUseCase) Me(ctx context.Context, actor scope.Actor, q dto.LeaderboardQuery) (*dto.LeaderboardEntryDTO, error) {
	global, err := uc.Global(ctx, actor, q)
	if err != nil {
		return nil, err
	}
	for _, e := range global.Entries {
		if e.UserID == actor.UserID {
			return &e, nil
		}
	}
	// Fuera del ranking (SUPER_ADMIN o inactivo): métricas sin posición.
	u, err := uc.users.GetByID(ctx, actor.CompanyID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	window, err := parseWindow(q.DateRangeQuery)
	if err != nil {
		return nil, err
	}
	entries, err := uc.collect(ctx, actor.CompanyID, []*entity.User{u}, window)
	if err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// rank calcula métricas, ordena (revenue desc, deals_won desc, user_id asc) y asigna 1..N.
func (uc *LeaderboardUseCase) rank(ctx context.Context, companyID string, users []*entity.User, window repository.DateRange) ([]dto.LeaderboardEntryDTO, error) {
	entries, err := uc.collect(ctx, companyID, users, window)
	if err != nil {
		return nil, err
	}
	SortLeaderboard(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// SortLeaderboard orden total: revenue desc, deals_won desc, user_id asc.
func SortLeaderboard(entries []dto.LeaderboardEntryDTO) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if c := a.RevenueClosed.Cmp(b.RevenueClosed); c != 0 {
			return c > 0
		}
		if a.DealsWon != b.DealsWon {
			return a.DealsWon > b.DealsWon
		}
		return a.UserID < b.UserID
	})
}

// collect lanza las tres consultas agrupadas en paralelo (acotado por parallelism)
// y arma una entrada por usuario en el orden recibido.
func (uc *LeaderboardUseCase) collect(ctx context.Context, companyID string, users []*entity.User, window repository.DateRange) ([]dto.LeaderboardEntryDTO, error) {
	if len(users) == 0 {
		return []dto.LeaderboardEntryDTO{}, nil
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	s := scope.Owners(ids...)

	var (
		won        []repository.OwnerWonStats
		activities []repository.AssigneeActivityStats
		leads      []repository.AssigneeLeadStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.parallelism)
	g.Go(func() error {
		var err error
		won, err = uc.deals.WonByOwner(gctx, companyID, repository.DealFilter{Scope: s, Closed: window})
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = uc.activities.StatsByAssignee(gctx, companyID, repository.ActivityFilter{Scope: s, Scheduled: window})
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = uc.leads.StatsByAssignee(gctx, companyID, repository.LeadFilter{Scope: s, Created: window})
		return err
	})
	if err := g.Wait(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("leaderboard: error en consultas agrupadas")
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	wonBy := make(map[string]repository.OwnerWonStats, len(won))
	for _, w := range won {
		wonBy[w.OwnerID] = w
	}
	actBy := make(map[string]repository.AssigneeActivityStats, len(activities))
	for _, a := range activities {
		actBy[a.AssigneeID] = a
	}
	leadBy := make(map[string]repository.AssigneeLeadStats, len(leads))
	for _, l := range leads {
		leadBy[l.AssigneeID] = l
	}

	out := make([]dto.LeaderboardEntryDTO, 0, len(users))
	for _, u := range users {
		w, a, l := wonBy[u.ID], actBy[u.ID], leadBy[u.ID]
		out = append(out, dto.LeaderboardEntryDTO{
			UserID:                 u.ID,
			Name:                   u.Name,
			Email:                  u.Email,
			Role:                   string(u.Role),
			RevenueClosed:          w.Revenue,
			DealsWon:               w.DealsWon,
			ActivitiesCompleted:    a.Completed,
			TotalActivities:        a.Total,
			FollowUpCompletionRate: salesrules.Rate(a.Completed, a.Total),
			LeadsAssigned:          l.Assigned,
			LeadsConverted:         l.Converted,
			LeadConversionRate:     salesrules.Rate(l.Converted, l.Assigned),
		})
	}
	return out, nil
}
