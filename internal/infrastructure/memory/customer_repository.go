package memory

import (
	"context"
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// CustomerRepository clientes en memoria.
type CustomerRepository struct {
	s *Store
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok || c.CompanyID != companyID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func matchCustomer(companyID string, f repository.CustomerFilter, c *entity.Customer) bool {
	if c.CompanyID != companyID || !f.Scope.Allows(c.AssigneeID) {
		return false
	}
	if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.Email, f.Search) && !containsFold(c.GSTIN, f.Search) {
		return false
	}
	return true
}

func (r *CustomerRepository) List(ctx context.Context, companyID string, f repository.CustomerFilter) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Customer, 0)
	for _, c := range r.s.customers {
		if matchCustomer(companyID, f, c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	newestFirst(out, func(c *entity.Customer) time.Time { return c.CreatedAt }, func(c *entity.Customer) string { return c.ID })
	return paginate(out, f.Page), nil
}

func (r *CustomerRepository) Count(ctx context.Context, companyID string, f repository.CustomerFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, c := range r.s.customers {
		if matchCustomer(companyID, f, c) {
			n++
		}
	}
	return n, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.customers[c.ID]
	if !ok || existing.CompanyID != c.CompanyID {
		return domain.ErrNotFound
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}
