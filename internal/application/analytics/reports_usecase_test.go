package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

func (f *fixture) reports() *analytics.ReportsUseCase {
	users := f.store.Users()
	return analytics.NewReportsUseCase(users, f.store.Leads(), f.store.Activities(), f.store.Customers(), scope.NewResolver(users))
}

func (f *fixture) customer(assignee *entity.User) {
	c := &entity.Customer{ID: uuid.NewString(), CompanyID: f.companyID, Name: "cliente", AssigneeID: assignee.ID, CreatedAt: f.now, UpdatedAt: f.now}
	require.NoError(f.t, f.store.Customers().Create(f.ctx, c))
}

func TestTrailingMonths(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	months := analytics.TrailingMonths(now, 12)
	require.Len(t, months, 12)
	assert.Equal(t, "2025-03", months[0])
	assert.Equal(t, "2025-12", months[9])
	assert.Equal(t, "2026-02", months[11])

	assert.Equal(t, []string{"2026-01"}, analytics.TrailingMonths(time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC), 1))
}

func TestReports_Dashboard_ScopedCounts(t *testing.T) {
	f := newFixture(t)
	f.lead(f.e1, entity.LeadNew, entity.SourceWebsite)
	f.lead(f.e2, entity.LeadNew, entity.SourceWebsite)
	f.lead(f.e3, entity.LeadNew, entity.SourceWebsite)
	f.customer(f.e1)
	f.customer(f.e3)
	f.activity(f.e1, entity.ActivityScheduled, f.now.Add(-48*time.Hour)) // vencida
	f.activity(f.e2, entity.ActivityCompleted, f.now.Add(-48*time.Hour)) // completada: no vence
	f.activity(f.e3, entity.ActivityScheduled, f.now.Add(-48*time.Hour))

	rep := f.reports()

	t.Run("employee ve solo lo propio", func(t *testing.T) {
		d, err := rep.Dashboard(f.ctx, f.actor(f.e1))
		require.NoError(t, err)
		assert.Equal(t, 1, d.TotalLeads)
		assert.Equal(t, 1, d.NewLeadsThisMonth)
		assert.Equal(t, 1, d.TotalCustomers)
		assert.Equal(t, 1, d.OverdueActivities)
	})

	t.Run("manager ve su equipo", func(t *testing.T) {
		d, err := rep.Dashboard(f.ctx, f.actor(f.m1))
		require.NoError(t, err)
		assert.Equal(t, 2, d.TotalLeads)
		assert.Equal(t, 1, d.TotalCustomers)
		assert.Equal(t, 1, d.OverdueActivities)
	})

	t.Run("super admin ve todo", func(t *testing.T) {
		d, err := rep.Dashboard(f.ctx, f.actor(f.admin))
		require.NoError(t, err)
		assert.Equal(t, 3, d.TotalLeads)
		assert.Equal(t, 2, d.TotalCustomers)
		assert.Equal(t, 2, d.OverdueActivities)
	})
}

func TestReports_SalesPerformance(t *testing.T) {
	f := newFixture(t)
	f.lead(f.e1, entity.LeadWon, entity.SourceWebsite)
	f.lead(f.e1, entity.LeadNew, entity.SourceWebsite)
	f.lead(f.e1, entity.LeadQualified, entity.SourceWebsite)

	out, err := f.reports().SalesPerformance(f.ctx, f.actor(f.e1), dto.DateRangeQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalLeads)
	assert.Equal(t, 1, out.ClosedLeads)
	assert.Equal(t, 33, out.ConversionRate)
	require.Len(t, out.Monthly, 12)
	last := out.Monthly[11]
	assert.Equal(t, f.now.Format("2006-01"), last.Month)
	assert.Equal(t, 1, last.Count)
}

func TestReports_EmployeeProductivity(t *testing.T) {
	f := newFixture(t)
	f.lead(f.e2, entity.LeadWon, entity.SourceReferral)
	f.lead(f.e2, entity.LeadClosed, entity.SourceReferral)
	f.lead(f.e1, entity.LeadWon, entity.SourceReferral)
	f.activity(f.e1, entity.ActivityCompleted, f.now)
	f.activity(f.e1, entity.ActivityScheduled, f.now)

	rep := f.reports()

	t.Run("employee no tiene acceso", func(t *testing.T) {
		_, err := rep.EmployeeProductivity(f.ctx, f.actor(f.e1), dto.DateRangeQuery{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("manager: empleados de su equipo ordenados por conversiones", func(t *testing.T) {
		out, err := rep.EmployeeProductivity(f.ctx, f.actor(f.m1), dto.DateRangeQuery{})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, f.e2.ID, out[0].UserID)
		assert.Equal(t, 2, out[0].LeadsConverted)
		assert.Equal(t, 100, out[0].ConversionRate)
		assert.Equal(t, f.e1.ID, out[1].UserID)
		assert.Equal(t, 50, out[1].CompletionRate)
	})

	t.Run("super admin: todos los empleados", func(t *testing.T) {
		out, err := rep.EmployeeProductivity(f.ctx, f.actor(f.admin), dto.DateRangeQuery{})
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})
}

func TestReports_OverdueFollowUps_Grouped(t *testing.T) {
	f := newFixture(t)
	f.activity(f.e1, entity.ActivityScheduled, f.now.Add(-2*time.Hour))
	f.activity(f.e1, entity.ActivityScheduled, f.now.Add(-72*time.Hour))
	f.activity(f.e2, entity.ActivityScheduled, f.now.Add(-5*time.Hour))
	f.activity(f.e2, entity.ActivityScheduled, f.now.Add(5*time.Hour)) // futura

	out, err := f.reports().OverdueFollowUps(f.ctx, f.actor(f.m1))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, f.e1.ID, out[0].AssigneeID)
	assert.Equal(t, "e1", out[0].AssigneeName)
	assert.Equal(t, 2, out[0].Count)
	require.Len(t, out[0].Activities, 2)
	assert.True(t, out[0].Activities[0].ScheduledAt.Before(out[0].Activities[1].ScheduledAt))
	assert.Equal(t, 1, out[1].Count)
}

func TestReports_LeadSources(t *testing.T) {
	f := newFixture(t)
	f.lead(f.e1, entity.LeadWon, entity.SourceReferral)
	f.lead(f.e1, entity.LeadNew, entity.SourceReferral)
	f.lead(f.e1, entity.LeadNew, entity.SourceWebsite)
	f.lead(f.e1, entity.LeadNew, entity.SourceColdCall)

	out, err := f.reports().LeadSources(f.ctx, f.actor(f.e1), dto.DateRangeQuery{})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "REFERRAL", out[0].Source)
	assert.Equal(t, 2, out[0].Total)
	assert.Equal(t, 50, out[0].ConversionRate)
	// empate en total: orden alfabético
	assert.Equal(t, "COLD_CALL", out[1].Source)
	assert.Equal(t, "WEBSITE", out[2].Source)
}

func TestReports_InvertedWindow(t *testing.T) {
	f := newFixture(t)
	q := dto.DateRangeQuery{StartDate: "2026-05-01", EndDate: "2026-04-01"}
	_, err := f.reports().LeadSources(f.ctx, f.actor(f.admin), q)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
