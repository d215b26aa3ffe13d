package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

const activityColumns = `id, company_id, assignee_id, lead_id, type, subject, description, status, scheduled_at, completed_at, created_at, updated_at`

// ActivityRepo implementación de ActivityRepository.
type ActivityRepo struct {
	q Querier
}

// NewActivityRepository construye el adaptador.
func NewActivityRepository(q Querier) *ActivityRepo {
	return &ActivityRepo{q: q}
}

// Create persiste una actividad.
func (r *ActivityRepo) Create(ctx context.Context, a *entity.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.CompanyID, a.AssigneeID, a.LeadID, a.Type, a.Subject, a.Description,
		a.Status, a.ScheduledAt, a.CompletedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// GetByID obtiene una actividad de la empresa.
func (r *ActivityRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE company_id = $1 AND id = $2`
	a, err := scanActivity(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

// List lista actividades por scheduled_at ascendente.
func (r *ActivityRepo) List(ctx context.Context, companyID string, f repository.ActivityFilter) ([]*entity.Activity, error) {
	w := activityWhere(companyID, f)
	query := `SELECT ` + activityColumns + ` FROM activities` + w.String() + ` ORDER BY scheduled_at, id`
	query += w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	var list []*entity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Count cuenta actividades con los filtros de List.
func (r *ActivityRepo) Count(ctx context.Context, companyID string, f repository.ActivityFilter) (int, error) {
	return count(ctx, r.q, "activities", activityWhere(companyID, f))
}

// Update actualiza una actividad.
func (r *ActivityRepo) Update(ctx context.Context, a *entity.Activity) error {
	query := `
		UPDATE activities SET assignee_id = $3, lead_id = $4, type = $5, subject = $6, description = $7,
			status = $8, scheduled_at = $9, completed_at = $10, updated_at = $11
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		a.CompanyID, a.ID, a.AssigneeID, a.LeadID, a.Type, a.Subject, a.Description,
		a.Status, a.ScheduledAt, a.CompletedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StatsByAssignee total y completadas por usuario en una sola consulta.
func (r *ActivityRepo) StatsByAssignee(ctx context.Context, companyID string, f repository.ActivityFilter) ([]repository.AssigneeActivityStats, error) {
	w := activityWhere(companyID, f)
	w.args = append(w.args, string(entity.ActivityCompleted))
	query := fmt.Sprintf(`
		SELECT assignee_id,
		       COUNT(*)                               AS total,
		       COUNT(*) FILTER (WHERE status = $%d)   AS completed
		FROM activities%s
		GROUP BY assignee_id
		ORDER BY assignee_id`, len(w.args), w.String())
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("activity stats by assignee: %w", err)
	}
	defer rows.Close()
	var out []repository.AssigneeActivityStats
	for rows.Next() {
		var s repository.AssigneeActivityStats
		if err := rows.Scan(&s.AssigneeID, &s.Total, &s.Completed); err != nil {
			return nil, fmt.Errorf("scan activity stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func activityWhere(companyID string, f repository.ActivityFilter) *where {
	w := newWhere("company_id", companyID)
	w.scope("assignee_id", f.Scope)
	w.eq("status", string(f.Status))
	w.eq("lead_id", f.LeadID)
	w.between("scheduled_at", f.Scheduled)
	if f.OverdueAt != nil {
		w.add("(status = ? OR (status = ? AND scheduled_at < ?))",
			string(entity.ActivityOverdue), string(entity.ActivityScheduled), *f.OverdueAt)
	}
	return w
}

func scanActivity(row pgx.Row) (*entity.Activity, error) {
	var a entity.Activity
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.AssigneeID, &a.LeadID, &a.Type, &a.Subject, &a.Description,
		&a.Status, &a.ScheduledAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
