package analytics_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: admin, manager m1 con e1 y e2, e3 sin manager
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	companyID string
	now       time.Time
	admin     *entity.User
	m1        *entity.User
	e1        *entity.User
	e2        *entity.User
	e3        *entity.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		store:     memory.NewStore(),
		companyID: uuid.NewString(),
		now:       time.Now().UTC(),
	}
	require.NoError(t, f.store.Companies().Create(f.ctx, &entity.Company{ID: f.companyID, Name: "Grow Tenders", CreatedAt: f.now, UpdatedAt: f.now}))
	f.admin = f.user("admin", entity.RoleSuperAdmin, nil)
	f.m1 = f.user("m1", entity.RoleManager, nil)
	f.e1 = f.user("e1", entity.RoleEmployee, &f.m1.ID)
	f.e2 = f.user("e2", entity.RoleEmployee, &f.m1.ID)
	f.e3 = f.user("e3", entity.RoleEmployee, nil)
	return f
}

func (f *fixture) user(name string, role entity.Role, managerID *string) *entity.User {
	u := &entity.User{
		ID: uuid.NewString(), CompanyID: f.companyID, Email: name + "@crm.test", Name: name,
		Role: role, ManagerID: managerID, IsActive: true, CreatedAt: f.now, UpdatedAt: f.now,
	}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) actor(u *entity.User) scope.Actor {
	a := scope.Actor{UserID: u.ID, CompanyID: f.companyID, Role: u.Role}
	if u.ManagerID != nil {
		a.ManagerID = *u.ManagerID
	}
	return a
}

func (f *fixture) wonDeal(owner *entity.User, value int64, closedAt time.Time) {
	d := &entity.Deal{
		ID: uuid.NewString(), CompanyID: f.companyID, Title: "deal", Value: decimal.NewFromInt(value),
		Stage: entity.StageClosedWon, Probability: 100, OwnerID: owner.ID,
		ActualCloseDate: &closedAt, CreatedAt: f.now, UpdatedAt: f.now,
	}
	require.NoError(f.t, f.store.Deals().Create(f.ctx, d))
}

func (f *fixture) openDeal(owner *entity.User, value int64) {
	d := &entity.Deal{
		ID: uuid.NewString(), CompanyID: f.companyID, Title: "open", Value: decimal.NewFromInt(value),
		Stage: entity.StageProposal, Probability: 50, OwnerID: owner.ID, CreatedAt: f.now, UpdatedAt: f.now,
	}
	require.NoError(f.t, f.store.Deals().Create(f.ctx, d))
}

func (f *fixture) activity(assignee *entity.User, status entity.ActivityStatus, at time.Time) {
	a := &entity.Activity{
		ID: uuid.NewString(), CompanyID: f.companyID, AssigneeID: assignee.ID, Type: entity.ActivityCall,
		Subject: "call", Status: status, ScheduledAt: at, CreatedAt: f.now, UpdatedAt: f.now,
	}
	if status == entity.ActivityCompleted {
		a.CompletedAt = &at
	}
	require.NoError(f.t, f.store.Activities().Create(f.ctx, a))
}

func (f *fixture) lead(assignee *entity.User, status entity.LeadStatus, source entity.LeadSource) {
	l := &entity.Lead{
		ID: uuid.NewString(), CompanyID: f.companyID, Title: "lead", Status: status, Source: source,
		AssigneeID: assignee.ID, CreatedAt: f.now, UpdatedAt: f.now,
	}
	if status.IsConverted() {
		l.ConvertedAt = &f.now
	}
	require.NoError(f.t, f.store.Leads().Create(f.ctx, l))
}

func (f *fixture) leaderboard() *analytics.LeaderboardUseCase {
	users := f.store.Users()
	return analytics.NewLeaderboardUseCase(users, f.store.Deals(), f.store.Activities(), f.store.Leads(), scope.NewResolver(users), 3)
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestLeaderboard_Me_EmployeeMetrics(t *testing.T) {
	f := newFixture(t)
	f.wonDeal(f.e1, 100, f.now)
	f.wonDeal(f.e1, 200, f.now)
	f.openDeal(f.e1, 999)
	f.activity(f.e1, entity.ActivityCompleted, f.now.Add(-time.Hour))
	f.activity(f.e1, entity.ActivityCompleted, f.now.Add(-2*time.Hour))
	f.activity(f.e1, entity.ActivityScheduled, f.now.Add(time.Hour))

	me, err := f.leaderboard().Me(f.ctx, f.actor(f.e1), dto.LeaderboardQuery{})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(300).Equal(me.RevenueClosed), "revenue %s", me.RevenueClosed)
	assert.Equal(t, 2, me.DealsWon)
	assert.Equal(t, 2, me.ActivitiesCompleted)
	assert.Equal(t, 3, me.TotalActivities)
	assert.Equal(t, 67, me.FollowUpCompletionRate)
	assert.Equal(t, 1, me.Rank)
}

func TestLeaderboard_Me_NoData_ZeroRates(t *testing.T) {
	f := newFixture(t)
	me, err := f.leaderboard().Me(f.ctx, f.actor(f.e3), dto.LeaderboardQuery{})
	require.NoError(t, err)
	assert.True(t, me.RevenueClosed.IsZero())
	assert.Equal(t, 0, me.FollowUpCompletionRate)
	assert.Equal(t, 0, me.LeadConversionRate)
}

func TestLeaderboard_Me_SuperAdminHasNoRank(t *testing.T) {
	f := newFixture(t)
	f.wonDeal(f.admin, 50, f.now)

	me, err := f.leaderboard().Me(f.ctx, f.actor(f.admin), dto.LeaderboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, me.Rank)
	assert.True(t, decimal.NewFromInt(50).Equal(me.RevenueClosed))
}

func TestLeaderboard_LeadConversion(t *testing.T) {
	f := newFixture(t)
	f.lead(f.e2, entity.LeadWon, entity.SourceWebsite)
	f.lead(f.e2, entity.LeadClosed, entity.SourceReferral)
	f.lead(f.e2, entity.LeadNew, entity.SourceReferral)

	me, err := f.leaderboard().Me(f.ctx, f.actor(f.e2), dto.LeaderboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, me.LeadsAssigned)
	assert.Equal(t, 2, me.LeadsConverted)
	assert.Equal(t, 67, me.LeadConversionRate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ranking
// ──────────────────────────────────────────────────────────────────────────────

func TestLeaderboard_Global_OrderAndExcludesSuperAdmin(t *testing.T) {
	f := newFixture(t)
	f.wonDeal(f.admin, 10_000, f.now)
	f.wonDeal(f.e2, 500, f.now)
	f.wonDeal(f.e1, 300, f.now)
	f.wonDeal(f.e3, 300, f.now)
	f.wonDeal(f.e3, 0, f.now) // mismo revenue que e1, más deals

	res, err := f.leaderboard().Global(f.ctx, f.actor(f.e1), dto.LeaderboardQuery{})
	require.NoError(t, err)
	require.Len(t, res.Entries, 4) // m1, e1, e2, e3

	ids := make([]string, 0, len(res.Entries))
	for i, e := range res.Entries {
		assert.Equal(t, i+1, e.Rank)
		assert.NotEqual(t, f.admin.ID, e.UserID)
		ids = append(ids, e.UserID)
	}
	assert.Equal(t, []string{f.e2.ID, f.e3.ID, f.e1.ID, f.m1.ID}, ids)
}

func TestLeaderboard_Global_SkipsInactiveUsers(t *testing.T) {
	f := newFixture(t)
	f.e3.IsActive = false
	require.NoError(t, f.store.Users().Update(f.ctx, f.e3))

	res, err := f.leaderboard().Global(f.ctx, f.actor(f.m1), dto.LeaderboardQuery{})
	require.NoError(t, err)
	for _, e := range res.Entries {
		assert.NotEqual(t, f.e3.ID, e.UserID)
	}
	assert.Len(t, res.Entries, 3)
}

func TestLeaderboard_Window(t *testing.T) {
	f := newFixture(t)
	f.wonDeal(f.e1, 100, time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	f.wonDeal(f.e1, 200, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))

	q := dto.LeaderboardQuery{DateRangeQuery: dto.DateRangeQuery{StartDate: "2026-01-01", EndDate: "2026-01-31"}}
	me, err := f.leaderboard().Me(f.ctx, f.actor(f.e1), q)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(me.RevenueClosed))
	assert.Equal(t, 1, me.DealsWon)
}

func TestLeaderboard_InvertedWindow(t *testing.T) {
	f := newFixture(t)
	q := dto.LeaderboardQuery{DateRangeQuery: dto.DateRangeQuery{StartDate: "2026-02-01", EndDate: "2026-01-01"}}
	_, err := f.leaderboard().Global(f.ctx, f.actor(f.e1), q)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLeaderboard_Team(t *testing.T) {
	f := newFixture(t)
	lb := f.leaderboard()

	t.Run("manager ve sus reportes directos", func(t *testing.T) {
		res, err := lb.Team(f.ctx, f.actor(f.m1), dto.LeaderboardQuery{})
		require.NoError(t, err)
		got := []string{}
		for _, e := range res.Entries {
			got = append(got, e.UserID)
		}
		assert.ElementsMatch(t, []string{f.e1.ID, f.e2.ID}, got)
	})

	t.Run("super admin indica manager_id", func(t *testing.T) {
		res, err := lb.Team(f.ctx, f.actor(f.admin), dto.LeaderboardQuery{ManagerID: f.m1.ID})
		require.NoError(t, err)
		assert.Len(t, res.Entries, 2)
	})

	t.Run("super admin sin manager_id", func(t *testing.T) {
		_, err := lb.Team(f.ctx, f.actor(f.admin), dto.LeaderboardQuery{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("manager_id que no es MANAGER", func(t *testing.T) {
		_, err := lb.Team(f.ctx, f.actor(f.admin), dto.LeaderboardQuery{ManagerID: f.e1.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("employee no tiene equipo", func(t *testing.T) {
		_, err := lb.Team(f.ctx, f.actor(f.e1), dto.LeaderboardQuery{})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del orden
// ──────────────────────────────────────────────────────────────────────────────

func TestSortLeaderboard_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	entriesGen := gen.SliceOf(gen.IntRange(0, 5)).Map(func(vals []int) []dto.LeaderboardEntryDTO {
		out := make([]dto.LeaderboardEntryDTO, len(vals))
		for i, v := range vals {
			out[i] = dto.LeaderboardEntryDTO{
				UserID:        fmt.Sprintf("u%03d", (i*37)%101),
				RevenueClosed: decimal.NewFromInt(int64(v * 100)),
				DealsWon:      (v + i) % 3,
			}
		}
		return out
	})

	properties.Property("orden total y ranks 1..N", prop.ForAll(
		func(entries []dto.LeaderboardEntryDTO) bool {
			before := make([]string, len(entries))
			for i, e := range entries {
				before[i] = e.UserID
			}
			analytics.SortLeaderboard(entries)

			after := make([]string, len(entries))
			for i, e := range entries {
				after[i] = e.UserID
			}
			sort.Strings(before)
			sorted := append([]string(nil), after...)
			sort.Strings(sorted)
			if fmt.Sprint(before) != fmt.Sprint(sorted) {
				return false // no es permutación
			}
			for i := 1; i < len(entries); i++ {
				a, b := entries[i-1], entries[i]
				c := a.RevenueClosed.Cmp(b.RevenueClosed)
				switch {
				case c < 0:
					return false
				case c == 0 && a.DealsWon < b.DealsWon:
					return false
				case c == 0 && a.DealsWon == b.DealsWon && a.UserID > b.UserID:
					return false
				}
			}
			return true
		},
		entriesGen,
	))

	properties.TestingRun(t)
}
