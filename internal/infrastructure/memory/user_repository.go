package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// UserRepository usuarios en memoria. El email es único (case-insensitive).
type UserRepository struct {
	s *Store
}

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.ManagerID = cloneString(u.ManagerID)
	return &cp
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, companyID, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok || u.CompanyID != companyID {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) match(companyID string, f repository.UserFilter, u *entity.User) bool {
	if u.CompanyID != companyID || !f.Scope.Allows(u.ID) {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.ManagerID != "" && u.ManagerIDValue() != f.ManagerID {
		return false
	}
	if f.ActiveOnly && !u.IsActive {
		return false
	}
	if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) {
		return false
	}
	return true
}

func (r *UserRepository) List(ctx context.Context, companyID string, f repository.UserFilter) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.User, 0)
	for _, u := range r.s.users {
		if r.match(companyID, f, u) {
			out = append(out, cloneUser(u))
		}
	}
	newestFirst(out, func(u *entity.User) time.Time { return u.CreatedAt }, func(u *entity.User) string { return u.ID })
	return paginate(out, f.Page), nil
}

func (r *UserRepository) Count(ctx context.Context, companyID string, f repository.UserFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, u := range r.s.users {
		if r.match(companyID, f, u) {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[u.ID]
	if !ok || existing.CompanyID != u.CompanyID {
		return domain.ErrUserNotFound
	}
	for _, other := range r.s.users {
		if other.ID != u.ID && strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

// ListDirectReportIDs usuarios cuyo manager es managerID (un solo nivel).
func (r *UserRepository) ListDirectReportIDs(ctx context.Context, companyID, managerID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ids := make([]string, 0)
	for _, u := range r.s.users {
		if u.CompanyID == companyID && u.ManagerIDValue() == managerID {
			ids = append(ids, u.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
