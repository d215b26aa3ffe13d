package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// DealRepository deals en memoria.
type DealRepository struct {
	s *Store
}

func cloneDeal(d *entity.Deal) *entity.Deal {
	cp := *d
	cp.CustomerID = cloneString(d.CustomerID)
	cp.LeadID = cloneString(d.LeadID)
	cp.ExpectedCloseDate = cloneTime(d.ExpectedCloseDate)
	cp.ActualCloseDate = cloneTime(d.ActualCloseDate)
	return &cp
}

func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.deals[d.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.deals[d.ID] = cloneDeal(d)
	return nil
}

func (r *DealRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Deal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.deals[id]
	if !ok || d.CompanyID != companyID {
		return nil, nil
	}
	return cloneDeal(d), nil
}

func matchDeal(companyID string, f repository.DealFilter, d *entity.Deal) bool {
	if d.CompanyID != companyID || !f.Scope.Allows(d.OwnerID) {
		return false
	}
	if f.Stage != "" && d.Stage != f.Stage {
		return false
	}
	if f.CustomerID != "" && (d.CustomerID == nil || *d.CustomerID != f.CustomerID) {
		return false
	}
	if f.Search != "" && !containsFold(d.Title, f.Search) && !containsFold(d.Notes, f.Search) {
		return false
	}
	if f.Closed.From != nil || f.Closed.To != nil {
		if d.ActualCloseDate == nil || !f.Closed.Contains(*d.ActualCloseDate) {
			return false
		}
	}
	return true
}

func (r *DealRepository) filter(companyID string, f repository.DealFilter) []*entity.Deal {
	out := make([]*entity.Deal, 0)
	for _, d := range r.s.deals {
		if matchDeal(companyID, f, d) {
			out = append(out, d)
		}
	}
	return out
}

func (r *DealRepository) List(ctx context.Context, companyID string, f repository.DealFilter) ([]*entity.Deal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := r.filter(companyID, f)
	out := make([]*entity.Deal, 0, len(matched))
	for _, d := range matched {
		out = append(out, cloneDeal(d))
	}
	newestFirst(out, func(d *entity.Deal) time.Time { return d.CreatedAt }, func(d *entity.Deal) string { return d.ID })
	return paginate(out, f.Page), nil
}

func (r *DealRepository) Count(ctx context.Context, companyID string, f repository.DealFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(companyID, f)), nil
}

func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.deals[d.ID]
	if !ok || existing.CompanyID != d.CompanyID {
		return domain.ErrNotFound
	}
	r.s.deals[d.ID] = cloneDeal(d)
	return nil
}

func (r *DealRepository) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.deals[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.deals, id)
	return nil
}

func (r *DealRepository) StatsByStage(ctx context.Context, companyID string, f repository.DealFilter) ([]repository.StageStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byStage := make(map[entity.DealStage]*repository.StageStats)
	for _, d := range r.filter(companyID, f) {
		st, ok := byStage[d.Stage]
		if !ok {
			st = &repository.StageStats{Stage: d.Stage, Value: decimal.Zero}
			byStage[d.Stage] = st
		}
		st.Count++
		st.Value = st.Value.Add(d.Value)
	}
	out := make([]repository.StageStats, 0, len(byStage))
	for _, st := range byStage {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stage < out[j].Stage })
	return out, nil
}

func (r *DealRepository) WonByOwner(ctx context.Context, companyID string, f repository.DealFilter) ([]repository.OwnerWonStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f.Stage = entity.StageClosedWon
	byOwner := make(map[string]*repository.OwnerWonStats)
	for _, d := range r.filter(companyID, f) {
		st, ok := byOwner[d.OwnerID]
		if !ok {
			st = &repository.OwnerWonStats{OwnerID: d.OwnerID, Revenue: decimal.Zero}
			byOwner[d.OwnerID] = st
		}
		st.DealsWon++
		st.Revenue = st.Revenue.Add(d.Value)
	}
	out := make([]repository.OwnerWonStats, 0, len(byOwner))
	for _, st := range byOwner {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out, nil
}
