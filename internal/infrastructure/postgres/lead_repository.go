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

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, company_id, title, contact_name, email, phone, organization, status, source, assignee_id, converted_at, created_at, updated_at`

// convertedStatuses estados que cuentan como conversión.
var convertedStatuses = []string{string(entity.LeadClosed), string(entity.LeadWon)}

// LeadRepo implementación de LeadRepository.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Create persiste un lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.Title, l.ContactName, l.Email, l.Phone, l.Organization,
		l.Status, l.Source, l.AssigneeID, l.ConvertedAt, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead de la empresa.
func (r *LeadRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1 AND id = $2`
	l, err := scanLead(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// List lista leads (más recientes primero).
func (r *LeadRepo) List(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	w := leadWhere(companyID, f)
	query := `SELECT ` + leadColumns + ` FROM leads` + w.String() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Count cuenta leads con los filtros de List.
func (r *LeadRepo) Count(ctx context.Context, companyID string, f repository.LeadFilter) (int, error) {
	return count(ctx, r.q, "leads", leadWhere(companyID, f))
}

// Update actualiza un lead.
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET title = $3, contact_name = $4, email = $5, phone = $6, organization = $7,
			status = $8, source = $9, assignee_id = $10, converted_at = $11, updated_at = $12
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		l.CompanyID, l.ID, l.Title, l.ContactName, l.Email, l.Phone, l.Organization,
		l.Status, l.Source, l.AssigneeID, l.ConvertedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un lead.
func (r *LeadRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM leads WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StatsByAssignee una sola consulta agrupada para todos los usuarios del scope.
func (r *LeadRepo) StatsByAssignee(ctx context.Context, companyID string, f repository.LeadFilter) ([]repository.AssigneeLeadStats, error) {
	w := leadWhere(companyID, f)
	w.args = append(w.args, convertedStatuses)
	query := fmt.Sprintf(`
		SELECT assignee_id,
		       COUNT(*)                                          AS assigned,
		       COUNT(*) FILTER (WHERE status = ANY($%d::text[])) AS converted
		FROM leads%s
		GROUP BY assignee_id
		ORDER BY assignee_id`, len(w.args), w.String())
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("lead stats by assignee: %w", err)
	}
	defer rows.Close()
	var out []repository.AssigneeLeadStats
	for rows.Next() {
		var s repository.AssigneeLeadStats
		if err := rows.Scan(&s.AssigneeID, &s.Assigned, &s.Converted); err != nil {
			return nil, fmt.Errorf("scan lead stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StatsBySource agrupa por origen.
func (r *LeadRepo) StatsBySource(ctx context.Context, companyID string, f repository.LeadFilter) ([]repository.SourceLeadStats, error) {
	w := leadWhere(companyID, f)
	w.args = append(w.args, convertedStatuses)
	query := fmt.Sprintf(`
		SELECT source,
		       COUNT(*)                                          AS total,
		       COUNT(*) FILTER (WHERE status = ANY($%d::text[])) AS converted
		FROM leads%s
		GROUP BY source
		ORDER BY source`, len(w.args), w.String())
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("lead stats by source: %w", err)
	}
	defer rows.Close()
	var out []repository.SourceLeadStats
	for rows.Next() {
		var s repository.SourceLeadStats
		if err := rows.Scan(&s.Source, &s.Total, &s.Converted); err != nil {
			return nil, fmt.Errorf("scan source stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ConvertedByMonth cuenta conversiones por mes calendario (UTC) de converted_at.
func (r *LeadRepo) ConvertedByMonth(ctx context.Context, companyID string, f repository.LeadFilter) ([]repository.MonthCount, error) {
	w := leadWhere(companyID, f)
	w.add("converted_at IS NOT NULL")
	query := `
		SELECT TO_CHAR(converted_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month, COUNT(*)
		FROM leads` + w.String() + `
		GROUP BY month
		ORDER BY month`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("converted by month: %w", err)
	}
	defer rows.Close()
	var out []repository.MonthCount
	for rows.Next() {
		var m repository.MonthCount
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("scan month: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func leadWhere(companyID string, f repository.LeadFilter) *where {
	w := newWhere("company_id", companyID)
	w.scope("assignee_id", f.Scope)
	if len(f.Statuses) > 0 {
		st := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			st = append(st, string(s))
		}
		w.add("status = ANY(?::text[])", st)
	}
	w.eq("source", string(f.Source))
	w.search(f.Search, "title", "contact_name", "organization", "email")
	w.between("created_at", f.Created)
	if f.ConvertedOnly {
		w.add("status = ANY(?::text[])", convertedStatuses)
	}
	w.between("converted_at", f.Converted)
	return w
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.Title, &l.ContactName, &l.Email, &l.Phone, &l.Organization,
		&l.Status, &l.Source, &l.AssigneeID, &l.ConvertedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
