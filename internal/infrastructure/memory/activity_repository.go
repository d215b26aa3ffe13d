package memory

import (
	"context"
	"sort"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// ActivityRepository actividades en memoria.
type ActivityRepository struct {
	s *Store
}

func cloneActivity(a *entity.Activity) *entity.Activity {
	cp := *a
	cp.LeadID = cloneString(a.LeadID)
	cp.CompletedAt = cloneTime(a.CompletedAt)
	return &cp
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.activities[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.activities[a.ID] = cloneActivity(a)
	return nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.activities[id]
	if !ok || a.CompanyID != companyID {
		return nil, nil
	}
	return cloneActivity(a), nil
}

func matchActivity(companyID string, f repository.ActivityFilter, a *entity.Activity) bool {
	if a.CompanyID != companyID || !f.Scope.Allows(a.AssigneeID) {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.LeadID != "" && (a.LeadID == nil || *a.LeadID != f.LeadID) {
		return false
	}
	if !f.Scheduled.Contains(a.ScheduledAt) {
		return false
	}
	if f.OverdueAt != nil && !a.IsOverdue(*f.OverdueAt) {
		return false
	}
	return true
}

func (r *ActivityRepository) filter(companyID string, f repository.ActivityFilter) []*entity.Activity {
	out := make([]*entity.Activity, 0)
	for _, a := range r.s.activities {
		if matchActivity(companyID, f, a) {
			out = append(out, a)
		}
	}
	return out
}

// List ordena por scheduled_at asc (la agenda se lee en orden cronológico).
func (r *ActivityRepository) List(ctx context.Context, companyID string, f repository.ActivityFilter) ([]*entity.Activity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := r.filter(companyID, f)
	out := make([]*entity.Activity, 0, len(matched))
	for _, a := range matched {
		out = append(out, cloneActivity(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page), nil
}

func (r *ActivityRepository) Count(ctx context.Context, companyID string, f repository.ActivityFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(companyID, f)), nil
}

func (r *ActivityRepository) Update(ctx context.Context, a *entity.Activity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.activities[a.ID]
	if !ok || existing.CompanyID != a.CompanyID {
		return domain.ErrNotFound
	}
	r.s.activities[a.ID] = cloneActivity(a)
	return nil
}

func (r *ActivityRepository) StatsByAssignee(ctx context.Context, companyID string, f repository.ActivityFilter) ([]repository.AssigneeActivityStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byUser := make(map[string]*repository.AssigneeActivityStats)
	for _, a := range r.filter(companyID, f) {
		st, ok := byUser[a.AssigneeID]
		if !ok {
			st = &repository.AssigneeActivityStats{AssigneeID: a.AssigneeID}
			byUser[a.AssigneeID] = st
		}
		st.Total++
		if a.Status == entity.ActivityCompleted {
			st.Completed++
		}
	}
	out := make([]repository.AssigneeActivityStats, 0, len(byUser))
	for _, st := range byUser {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssigneeID < out[j].AssigneeID })
	return out, nil
}

