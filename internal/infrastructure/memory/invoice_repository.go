package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// InvoiceRepository facturas y sus líneas en memoria.
type InvoiceRepository struct {
	s *Store
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.DueDate = cloneTime(inv.DueDate)
	return &cp
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.ID == inv.ID || (existing.CompanyID == inv.CompanyID && existing.InvoiceNumber == inv.InvoiceNumber) {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepository) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[item.InvoiceID]; !ok {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.InvoiceID] = append(r.s.items[item.InvoiceID], &cp)
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok || inv.CompanyID != companyID {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepository) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	src := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(src))
	for _, it := range src {
		cp := *it
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func matchInvoice(companyID string, f repository.InvoiceFilter, inv *entity.Invoice) bool {
	if inv.CompanyID != companyID || !f.Scope.Allows(inv.CreatedBy) {
		return false
	}
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	return f.CustomerID == "" || inv.CustomerID == f.CustomerID
}

func (r *InvoiceRepository) List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Invoice, 0)
	for _, inv := range r.s.invoices {
		if matchInvoice(companyID, f, inv) {
			out = append(out, cloneInvoice(inv))
		}
	}
	newestFirst(out, func(inv *entity.Invoice) time.Time { return inv.IssueDate }, func(inv *entity.Invoice) string { return inv.ID })
	return paginate(out, f.Page), nil
}

func (r *InvoiceRepository) Count(ctx context.Context, companyID string, f repository.InvoiceFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, inv := range r.s.invoices {
		if matchInvoice(companyID, f, inv) {
			n++
		}
	}
	return n, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.invoices[inv.ID]
	if !ok || existing.CompanyID != inv.CompanyID {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}
