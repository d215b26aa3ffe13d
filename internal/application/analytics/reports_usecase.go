package analytics

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	salesrules "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/sales"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// trailingMonths meses de la serie de ventas (incluye el mes en curso).
const trailingMonths = 12

// ReportsUseCase reportes de negocio, siempre acotados al scope del actor.
type ReportsUseCase struct {
	users      repository.UserRepository
	leads      repository.LeadRepository
	activities repository.ActivityRepository
	customers  repository.CustomerRepository
	resolver   *scope.Resolver
	now        func() time.Time
}

// NewReportsUseCase construye el caso de uso.
func NewReportsUseCase(
	users repository.UserRepository,
	leads repository.LeadRepository,
	activities repository.ActivityRepository,
	customers repository.CustomerRepository,
	resolver *scope.Resolver,
) *ReportsUseCase {
	return &ReportsUseCase{
		users:      users,
		leads:      leads,
		activities: activities,
		customers:  customers,
		resolver:   resolver,
		now:        time.Now,
	}
}

// Dashboard cinco contadores en paralelo.
//
//  1. total de leads
//  2. leads creados este mes
//  3. total de clientes
//  4. actividades programadas hoy
//  5. actividades vencidas
func (uc *ReportsUseCase) Dashboard(ctx context.Context, actor scope.Actor) (res *dto.DashboardDTO, err error) {
	ctx, span := tracer.Start(ctx, "reports.dashboard")
	defer func() { endSpan(span, err) }()

	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	// Hoy: 00:00:00.000 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := &dto.DashboardDTO{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.leads.Count(gctx, actor.CompanyID, repository.LeadFilter{Scope: s})
		out.TotalLeads = n
		return err
	})
	g.Go(func() error {
		n, err := uc.leads.Count(gctx, actor.CompanyID, repository.LeadFilter{
			Scope:   s,
			Created: repository.DateRange{From: &monthStart},
		})
		out.NewLeadsThisMonth = n
		return err
	})
	g.Go(func() error {
		n, err := uc.customers.Count(gctx, actor.CompanyID, repository.CustomerFilter{Scope: s})
		out.TotalCustomers = n
		return err
	})
	g.Go(func() error {
		n, err := uc.activities.Count(gctx, actor.CompanyID, repository.ActivityFilter{
			Scope:     s,
			Scheduled: repository.DateRange{From: &todayStart, To: &todayEnd},
		})
		out.ActivitiesToday = n
		return err
	})
	g.Go(func() error {
		n, err := uc.activities.Count(gctx, actor.CompanyID, repository.ActivityFilter{Scope: s, OverdueAt: &now})
		out.OverdueActivities = n
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SalesPerformance leads totales y convertidos (ventana opcional sobre created_at)
// más la serie de conversiones de los últimos 12 meses calendario.
func (uc *ReportsUseCase) SalesPerformance(ctx context.Context, actor scope.Actor, q dto.DateRangeQuery) (res *dto.SalesPerformanceDTO, err error) {
	ctx, span := tracer.Start(ctx, "reports.sales_performance")
	defer func() { endSpan(span, err) }()

	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	window, err := parseWindow(q)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	months := TrailingMonths(now, trailingMonths)
	seriesStart, _ := time.Parse("2006-01", months[0])

	var (
		total, closed int
		byMonth       []repository.MonthCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = uc.leads.Count(gctx, actor.CompanyID, repository.LeadFilter{Scope: s, Created: window})
		return err
	})
	g.Go(func() error {
		var err error
		closed, err = uc.leads.Count(gctx, actor.CompanyID, repository.LeadFilter{Scope: s, Created: window, ConvertedOnly: true})
		return err
	})
	g.Go(func() error {
		var err error
		byMonth, err = uc.leads.ConvertedByMonth(gctx, actor.CompanyID, repository.LeadFilter{
			Scope:     s,
			Converted: repository.DateRange{From: &seriesStart, To: &now},
		})
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(byMonth))
	for _, m := range byMonth {
		counts[m.Month] = m.Count
	}
	series := make([]dto.MonthlyCountDTO, 0, len(months))
	for _, m := range months {
		series = append(series, dto.MonthlyCountDTO{Month: m, Count: counts[m]})
	}
	return &dto.SalesPerformanceDTO{
		TotalLeads:     total,
		ClosedLeads:    closed,
		ConversionRate: salesrules.Rate(closed, total),
		Monthly:        series,
	}, nil
}

// TrailingMonths devuelve n claves YYYY-MM terminando en el mes de now, en orden cronológico.
func TrailingMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddDate(0, i-(n-1), 0).Format("2006-01")
	}
	return out
}

// EmployeeProductivity métricas por EMPLOYEE visible (solo MANAGER y SUPER_ADMIN).
// Orden: leads_converted desc, user_id asc.
func (uc *ReportsUseCase) EmployeeProductivity(ctx context.Context, actor scope.Actor, q dto.DateRangeQuery) (res []dto.EmployeeProductivityDTO, err error) {
	ctx, span := tracer.Start(ctx, "reports.employee_productivity")
	defer func() { endSpan(span, err) }()

	if actor.Role != entity.RoleManager && actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	window, err := parseWindow(q)
	if err != nil {
		return nil, err
	}
	employees, err := uc.users.List(ctx, actor.CompanyID, repository.UserFilter{
		Scope:      s,
		Role:       entity.RoleEmployee,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("reports.employees", len(employees)))
	if len(employees) == 0 {
		return []dto.EmployeeProductivityDTO{}, nil
	}
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	es := scope.Owners(ids...)

	var (
		leads      []repository.AssigneeLeadStats
		activities []repository.AssigneeActivityStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = uc.leads.StatsByAssignee(gctx, actor.CompanyID, repository.LeadFilter{Scope: es, Created: window})
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = uc.activities.StatsByAssignee(gctx, actor.CompanyID, repository.ActivityFilter{Scope: es, Scheduled: window})
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	leadBy := make(map[string]repository.AssigneeLeadStats, len(leads))
	for _, l := range leads {
		leadBy[l.AssigneeID] = l
	}
	actBy := make(map[string]repository.AssigneeActivityStats, len(activities))
	for _, a := range activities {
		actBy[a.AssigneeID] = a
	}

	out := make([]dto.EmployeeProductivityDTO, 0, len(employees))
	for _, e := range employees {
		l, a := leadBy[e.ID], actBy[e.ID]
		out = append(out, dto.EmployeeProductivityDTO{
			UserID:              e.ID,
			Name:                e.Name,
			Email:               e.Email,
			LeadsAssigned:       l.Assigned,
			LeadsConverted:      l.Converted,
			ConversionRate:      salesrules.Rate(l.Converted, l.Assigned),
			ActivitiesTotal:     a.Total,
			ActivitiesCompleted: a.Completed,
			CompletionRate:      salesrules.Rate(a.Completed, a.Total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LeadsConverted != out[j].LeadsConverted {
			return out[i].LeadsConverted > out[j].LeadsConverted
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

// OverdueFollowUps actividades vencidas agrupadas por responsable.
// Grupos ordenados por cantidad desc y assignee_id asc; dentro del grupo por scheduled_at.
func (uc *ReportsUseCase) OverdueFollowUps(ctx context.Context, actor scope.Actor) (res []dto.OverdueGroupDTO, err error) {
	ctx, span := tracer.Start(ctx, "reports.overdue_followups")
	defer func() { endSpan(span, err) }()

	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	list, err := uc.activities.List(ctx, actor.CompanyID, repository.ActivityFilter{Scope: s, OverdueAt: &now})
	if err != nil {
		return nil, err
	}
	users, err := uc.users.List(ctx, actor.CompanyID, repository.UserFilter{Scope: s})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	groups := make(map[string]*dto.OverdueGroupDTO)
	for _, a := range list {
		g, ok := groups[a.AssigneeID]
		if !ok {
			g = &dto.OverdueGroupDTO{AssigneeID: a.AssigneeID, AssigneeName: names[a.AssigneeID], Oldest: a.ScheduledAt}
			groups[a.AssigneeID] = g
		}
		g.Count++
		if a.ScheduledAt.Before(g.Oldest) {
			g.Oldest = a.ScheduledAt
		}
		g.Activities = append(g.Activities, crm.ToActivityResponse(a, now))
	}
	out := make([]dto.OverdueGroupDTO, 0, len(groups))
	for _, g := range groups {
		sort.SliceStable(g.Activities, func(i, j int) bool {
			return g.Activities[i].ScheduledAt.Before(g.Activities[j].ScheduledAt)
		})
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].AssigneeID < out[j].AssigneeID
	})
	span.SetAttributes(attribute.Int("reports.overdue", len(list)))
	return out, nil
}

// LeadSources total y convertidos por origen. Orden: total desc, origen asc.
func (uc *ReportsUseCase) LeadSources(ctx context.Context, actor scope.Actor, q dto.DateRangeQuery) (res []dto.LeadSourceDTO, err error) {
	ctx, span := tracer.Start(ctx, "reports.lead_sources")
	defer func() { endSpan(span, err) }()

	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	window, err := parseWindow(q)
	if err != nil {
		return nil, err
	}
	stats, err := uc.leads.StatsBySource(ctx, actor.CompanyID, repository.LeadFilter{Scope: s, Created: window})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LeadSourceDTO, 0, len(stats))
	for _, st := range stats {
		out = append(out, dto.LeadSourceDTO{
			Source:         string(st.Source),
			Total:          st.Total,
			Converted:      st.Converted,
			ConversionRate: salesrules.Rate(st.Converted, st.Total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Source < out[j].Source
	})
	return out, nil
}
