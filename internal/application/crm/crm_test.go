package crm_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/crm"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/infrastructure/memory"
)

type fixture struct {
	ctx        context.Context
	companyID  string
	admin      scope.Actor
	manager    scope.Actor
	employee   scope.Actor // reporta a manager
	other      scope.Actor // sin manager
	inactiveID string
	leads      *crm.LeadUseCase
	activities *crm.ActivityUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := store.Users()
	f := &fixture{ctx: ctx, companyID: uuid.NewString()}
	now := time.Now()

	mk := func(role entity.Role, managerID string, active bool) scope.Actor {
		u := &entity.User{ID: uuid.NewString(), CompanyID: f.companyID, Email: uuid.NewString() + "@crm.test", Name: string(role), Role: role, IsActive: active, CreatedAt: now, UpdatedAt: now}
		if managerID != "" {
			u.ManagerID = &managerID
		}
		require.NoError(t, users.Create(ctx, u))
		return scope.Actor{UserID: u.ID, CompanyID: f.companyID, Role: role, ManagerID: managerID}
	}
	f.admin = mk(entity.RoleSuperAdmin, "", true)
	f.manager = mk(entity.RoleManager, "", true)
	f.employee = mk(entity.RoleEmployee, f.manager.UserID, true)
	f.other = mk(entity.RoleEmployee, "", true)
	f.inactiveID = mk(entity.RoleEmployee, f.manager.UserID, false).UserID

	resolver := scope.NewResolver(users)
	f.leads = crm.NewLeadUseCase(store.Leads(), users, resolver)
	f.activities = crm.NewActivityUseCase(store.Activities(), store.Leads(), users, resolver)
	return f
}

func (f *fixture) newLead(t *testing.T, actor scope.Actor, title string) *dto.LeadResponse {
	t.Helper()
	l, err := f.leads.Create(f.ctx, actor, dto.CreateLeadRequest{Title: title, Source: "TENDER_PORTAL"})
	require.NoError(t, err)
	return l
}

func TestLead_Create_Assignment(t *testing.T) {
	f := newFixture(t)

	t.Run("employee queda como assignee aunque pida otro", func(t *testing.T) {
		l, err := f.leads.Create(f.ctx, f.employee, dto.CreateLeadRequest{Title: "Metro tender", Source: "WEBSITE", AssigneeID: f.other.UserID})
		require.NoError(t, err)
		assert.Equal(t, f.employee.UserID, l.AssigneeID)
		assert.Equal(t, "NEW", l.Status)
		assert.Nil(t, l.ConvertedAt)
	})

	t.Run("manager asigna a su reporte", func(t *testing.T) {
		l, err := f.leads.Create(f.ctx, f.manager, dto.CreateLeadRequest{Title: "Rail tender", Source: "REFERRAL", AssigneeID: f.employee.UserID})
		require.NoError(t, err)
		assert.Equal(t, f.employee.UserID, l.AssigneeID)
	})

	t.Run("manager fuera de su equipo", func(t *testing.T) {
		_, err := f.leads.Create(f.ctx, f.manager, dto.CreateLeadRequest{Title: "x", Source: "REFERRAL", AssigneeID: f.other.UserID})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("usuario inactivo", func(t *testing.T) {
		_, err := f.leads.Create(f.ctx, f.admin, dto.CreateLeadRequest{Title: "x", Source: "REFERRAL", AssigneeID: f.inactiveID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("origen inválido", func(t *testing.T) {
		_, err := f.leads.Create(f.ctx, f.employee, dto.CreateLeadRequest{Title: "x", Source: "BILLBOARD"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("creado ya ganado fija converted_at", func(t *testing.T) {
		l, err := f.leads.Create(f.ctx, f.employee, dto.CreateLeadRequest{Title: "x", Source: "OTHER", Status: "WON"})
		require.NoError(t, err)
		assert.NotNil(t, l.ConvertedAt)
	})
}

func TestLead_UpdateStatus_Conversion(t *testing.T) {
	f := newFixture(t)
	l := f.newLead(t, f.employee, "Water works")

	out, err := f.leads.UpdateStatus(f.ctx, f.employee, l.ID, "CLOSED_LEAD")
	require.NoError(t, err)
	require.NotNil(t, out.ConvertedAt)
	first := *out.ConvertedAt

	// entre estados convertidos se conserva la fecha original
	out, err = f.leads.UpdateStatus(f.ctx, f.employee, l.ID, "WON")
	require.NoError(t, err)
	require.NotNil(t, out.ConvertedAt)
	assert.True(t, first.Equal(*out.ConvertedAt))

	out, err = f.leads.UpdateStatus(f.ctx, f.employee, l.ID, "NEGOTIATION")
	require.NoError(t, err)
	assert.Nil(t, out.ConvertedAt)

	_, err = f.leads.UpdateStatus(f.ctx, f.employee, l.ID, "LOST")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLead_Scope(t *testing.T) {
	f := newFixture(t)
	own := f.newLead(t, f.employee, "Bridge repair")
	f.newLead(t, f.other, "Highway lighting")
	f.newLead(t, f.manager, "Bridge audit")

	_, err := f.leads.Get(f.ctx, f.other, own.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.leads.Get(f.ctx, f.manager, own.ID)
	assert.NoError(t, err)

	_, err = f.leads.Get(f.ctx, f.admin, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.leads.List(f.ctx, f.manager, dto.LeadListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)

	list, err = f.leads.List(f.ctx, f.admin, dto.LeadListQuery{Search: "bridge"})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)

	// filtro fuera del scope: lista vacía
	list, err = f.leads.List(f.ctx, f.manager, dto.LeadListQuery{AssigneeID: f.other.UserID})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)

	_, err = f.leads.List(f.ctx, f.admin, dto.LeadListQuery{Status: "LOST"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, f.leads.Delete(f.ctx, f.other, own.ID), domain.ErrForbidden)
	require.NoError(t, f.leads.Delete(f.ctx, f.employee, own.ID))
	_, err = f.leads.Get(f.ctx, f.employee, own.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLead_Update_Reassign(t *testing.T) {
	f := newFixture(t)
	l := f.newLead(t, f.employee, "Port dredging")
	target := f.other.UserID

	_, err := f.leads.Update(f.ctx, f.employee, l.ID, dto.UpdateLeadRequest{AssigneeID: &target})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	title := "Port dredging phase 2"
	out, err := f.leads.Update(f.ctx, f.admin, l.ID, dto.UpdateLeadRequest{AssigneeID: &target, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, f.other.UserID, out.AssigneeID)
	assert.Equal(t, title, out.Title)

	_, err = f.leads.Get(f.ctx, f.employee, l.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestActivity_Lifecycle(t *testing.T) {
	f := newFixture(t)
	lead := f.newLead(t, f.employee, "Hospital tender")
	past := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339)

	a, err := f.activities.Create(f.ctx, f.employee, dto.CreateActivityRequest{Type: "FOLLOW_UP", Subject: "Send BOQ", ScheduledAt: past, LeadID: &lead.ID})
	require.NoError(t, err)
	assert.Equal(t, "SCHEDULED", a.Status)
	assert.True(t, a.Overdue)

	overdue, err := f.activities.List(f.ctx, f.manager, dto.ActivityListQuery{Overdue: true})
	require.NoError(t, err)
	assert.Equal(t, 1, overdue.Page.Total)

	done, err := f.activities.Complete(f.ctx, f.employee, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.False(t, done.Overdue)

	_, err = f.activities.Cancel(f.ctx, f.employee, a.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	overdue, err = f.activities.List(f.ctx, f.manager, dto.ActivityListQuery{Overdue: true})
	require.NoError(t, err)
	assert.Equal(t, 0, overdue.Page.Total)
}

func TestActivity_Create_Validation(t *testing.T) {
	f := newFixture(t)
	foreign := f.newLead(t, f.other, "Airport fencing")
	missing := uuid.NewString()
	when := "2030-11-02"

	_, err := f.activities.Create(f.ctx, f.employee, dto.CreateActivityRequest{Type: "VISIT", Subject: "x", ScheduledAt: when})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.activities.Create(f.ctx, f.employee, dto.CreateActivityRequest{Type: "CALL", Subject: "x", ScheduledAt: "mañana"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.activities.Create(f.ctx, f.employee, dto.CreateActivityRequest{Type: "CALL", Subject: "x", ScheduledAt: when, LeadID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.activities.Create(f.ctx, f.employee, dto.CreateActivityRequest{Type: "CALL", Subject: "x", ScheduledAt: when, LeadID: &foreign.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	a, err := f.activities.Create(f.ctx, f.manager, dto.CreateActivityRequest{Type: "MEETING", Subject: "Pre-bid", ScheduledAt: when, AssigneeID: f.employee.UserID})
	require.NoError(t, err)
	assert.Equal(t, f.employee.UserID, a.AssigneeID)
	assert.False(t, a.Overdue)

	got, err := f.activities.Get(f.ctx, f.employee, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pre-bid", got.Subject)

	_, err = f.activities.Get(f.ctx, f.other, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
