// Package memory implementa los puertos de persistencia en memoria de proceso.
// Se usa en los tests de casos de uso y con DB_DRIVER=memory (demo / desarrollo local).
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

type seqKey struct {
	companyID string
	name      string
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	companies  map[string]*entity.Company
	users      map[string]*entity.User
	customers  map[string]*entity.Customer
	leads      map[string]*entity.Lead
	activities map[string]*entity.Activity
	deals      map[string]*entity.Deal
	payments   map[string]*entity.Payment
	invoices   map[string]*entity.Invoice
	items      map[string][]*entity.InvoiceItem
	sequences  map[seqKey]int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies:  make(map[string]*entity.Company),
		users:      make(map[string]*entity.User),
		customers:  make(map[string]*entity.Customer),
		leads:      make(map[string]*entity.Lead),
		activities: make(map[string]*entity.Activity),
		deals:      make(map[string]*entity.Deal),
		payments:   make(map[string]*entity.Payment),
		invoices:   make(map[string]*entity.Invoice),
		items:      make(map[string][]*entity.InvoiceItem),
		sequences:  make(map[seqKey]int64),
	}
}

// Repositorios atados al store.
func (s *Store) Companies() *CompanyRepository { return &CompanyRepository{s: s} }
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s: s} }
func (s *Store) Leads() *LeadRepository { return &LeadRepository{s: s} }
func (s *Store) Activities() *ActivityRepository { return &ActivityRepository{s: s} }
func (s *Store) Deals() *DealRepository { return &DealRepository{s: s} }
func (s *Store) Payments() *PaymentRepository { return &PaymentRepository{s: s} }
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{s: s} }
func (s *Store) Sequences() *SequenceRepository { return &SequenceRepository{s: s} }
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return items[:0]
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// newestFirst ordena por created_at desc e id asc (mismo orden que los listados SQL).
func newestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) < id(items[j])
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
