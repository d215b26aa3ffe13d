package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// LeadRepository leads en memoria.
type LeadRepository struct {
	s *Store
}

func cloneLead(l *entity.Lead) *entity.Lead {
	cp := *l
	cp.ConvertedAt = cloneTime(l.ConvertedAt)
	return &cp
}

func (r *LeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[l.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.leads[l.ID] = cloneLead(l)
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	return cloneLead(l), nil
}

func matchLead(companyID string, f repository.LeadFilter, l *entity.Lead) bool {
	if l.CompanyID != companyID || !f.Scope.Allows(l.AssigneeID) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if st == l.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Source != "" && l.Source != f.Source {
		return false
	}
	if f.Search != "" && !containsFold(l.Title, f.Search) && !containsFold(l.ContactName, f.Search) &&
		!containsFold(l.Organization, f.Search) && !containsFold(l.Email, f.Search) {
		return false
	}
	if !f.Created.Contains(l.CreatedAt) {
		return false
	}
	if f.ConvertedOnly && !l.Status.IsConverted() {
		return false
	}
	if f.Converted.From != nil || f.Converted.To != nil {
		if l.ConvertedAt == nil || !f.Converted.Contains(*l.ConvertedAt) {
			return false
		}
	}
	return true
}

func (r *LeadRepository) filter(companyID string, f repository.LeadFilter) []*entity.Lead {
	out := make([]*entity.Lead, 0)
	for _, l := range r.s.leads {
		if matchLead(companyID, f, l) {
			out = append(out, l)
		}
	}
	return out
}

func (r *LeadRepository) List(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := r.filter(companyID, f)
	out := make([]*entity.Lead, 0, len(matched))
	for _, l := range matched {
		out = append(out, cloneLead(l))
	}
	newestFirst(out, func(l *entity.Lead) time.Time { return l.CreatedAt }, func(l *entity.Lead) string { return l.ID })
	return paginate(out, f.Page), nil
}

func (r *LeadRepository) Count(ctx context.Context, companyID string, f repository.LeadFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(companyID, f)), nil
}

func (r *LeadRepository) Update(ctx context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.leads[l.ID]
	if !ok || existing.CompanyID != l.CompanyID {
		return domain.ErrNotFound
	}
	r.s.leads[l.ID] = cloneLead(l)
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.leads[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.leads, id)
	return nil
}

func (r *LeadRepository) StatsByAssignee(ctx context.Context, companyID string, f repository.LeadFilter) ([]repository.AssigneeLeadStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byUser := make(map[string]*repository.AssigneeLeadStats)
	for _, l := range r.filter(companyID, f) {
		st, ok := byUser[l.AssigneeID]
		if !ok {
			st = &repository.AssigneeLeadStats{AssigneeID: l.AssigneeID}
			byUser[l.AssigneeID] = st
		}
		st.Assigned++
		if l.Status.IsConverted() {
			st.Converted++
		}
	}
	out := make([]repository.AssigneeLeadStats, 0, len(byUser))
	for _, st := range byUser {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssigneeID < out[j].AssigneeID })
	return out, nil
}

func (r *LeadRepository) StatsBySource(ctx context.Context, companyID string, f repository.LeadFilter) ([]repository.SourceLeadStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bySource := make(map[entity.LeadSource]*repository.SourceLeadStats)
	for _, l := range r.filter(companyID, f) {
		st, ok := bySource[l.Source]
		if !ok {
			st = &repository.SourceLeadStats{Source: l.Source}
			bySource[l.Source] = st
		}
		st.Total++
		if l.Status.IsConverted() {
			st.Converted++
		}
	}
	out := make([]repository.SourceLeadStats, 0, len(bySource))
	for _, st := range bySource {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

func (r *LeadRepository) ConvertedByMonth(ctx context.Context, companyID string, f repository.LeadFilter) ([]repository.MonthCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byMonth := make(map[string]int)
	for _, l := range r.filter(companyID, f) {
		if !l.Status.IsConverted() || l.ConvertedAt == nil {
			continue
		}
		byMonth[l.ConvertedAt.UTC().Format("2006-01")]++
	}
	out := make([]repository.MonthCount, 0, len(byMonth))
	for m, n := range byMonth {
		out = append(out, repository.MonthCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}
