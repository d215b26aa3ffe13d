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

// PaymentRepository pagos en memoria. payment_number es único por empresa.
type PaymentRepository struct {
	s *Store
}

func clonePayment(p *entity.Payment) *entity.Payment {
	cp := *p
	cp.CustomerID = cloneString(p.CustomerID)
	cp.InvoiceID = cloneString(p.InvoiceID)
	return &cp
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.ID == p.ID || (existing.CompanyID == p.CompanyID && existing.PaymentNumber == p.PaymentNumber) {
			return domain.ErrDuplicate
		}
	}
	r.s.payments[p.ID] = clonePayment(p)
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	return clonePayment(p), nil
}

func matchPayment(companyID string, f repository.PaymentFilter, p *entity.Payment) bool {
	if p.CompanyID != companyID || !f.Scope.Allows(p.CreatedBy) {
		return false
	}
	if f.Method != "" && p.PaymentMethod != f.Method {
		return false
	}
	if f.GSTType != "" && p.GSTType != f.GSTType {
		return false
	}
	if f.ReferenceType != "" && p.ReferenceType != f.ReferenceType {
		return false
	}
	if f.CustomerID != "" && (p.CustomerID == nil || *p.CustomerID != f.CustomerID) {
		return false
	}
	if f.InvoiceID != "" && (p.InvoiceID == nil || *p.InvoiceID != f.InvoiceID) {
		return false
	}
	return f.Date.Contains(p.PaymentDate)
}

func (r *PaymentRepository) filter(companyID string, f repository.PaymentFilter) []*entity.Payment {
	out := make([]*entity.Payment, 0)
	for _, p := range r.s.payments {
		if matchPayment(companyID, f, p) {
			out = append(out, p)
		}
	}
	return out
}

func (r *PaymentRepository) List(ctx context.Context, companyID string, f repository.PaymentFilter) ([]*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := r.filter(companyID, f)
	out := make([]*entity.Payment, 0, len(matched))
	for _, p := range matched {
		out = append(out, clonePayment(p))
	}
	newestFirst(out, func(p *entity.Payment) time.Time { return p.PaymentDate }, func(p *entity.Payment) string { return p.ID })
	return paginate(out, f.Page), nil
}

func (r *PaymentRepository) Count(ctx context.Context, companyID string, f repository.PaymentFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(companyID, f)), nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.payments[p.ID]
	if !ok || existing.CompanyID != p.CompanyID {
		return domain.ErrNotFound
	}
	r.s.payments[p.ID] = clonePayment(p)
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.payments[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.payments, id)
	return nil
}

type breakdownKey struct {
	method  entity.PaymentMethod
	gstType entity.GSTType
}

func (r *PaymentRepository) Breakdown(ctx context.Context, companyID string, f repository.PaymentFilter) ([]repository.PaymentBreakdown, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	groups := make(map[breakdownKey]*repository.PaymentBreakdown)
	for _, p := range r.filter(companyID, f) {
		k := breakdownKey{method: p.PaymentMethod, gstType: p.GSTType}
		row, ok := groups[k]
		if !ok {
			row = &repository.PaymentBreakdown{
				Method:      p.PaymentMethod,
				GSTType:     p.GSTType,
				Amount:      decimal.Zero,
				GSTAmount:   decimal.Zero,
				TotalAmount: decimal.Zero,
			}
			groups[k] = row
		}
		row.Count++
		row.Amount = row.Amount.Add(p.Amount)
		row.GSTAmount = row.GSTAmount.Add(p.GSTAmount)
		row.TotalAmount = row.TotalAmount.Add(p.TotalAmount)
	}
	out := make([]repository.PaymentBreakdown, 0, len(groups))
	for _, row := range groups {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Method != out[j].Method {
			return out[i].Method < out[j].Method
		}
		return out[i].GSTType < out[j].GSTType
	})
	return out, nil
}
