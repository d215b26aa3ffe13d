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

var _ repository.DealRepository = (*DealRepo)(nil)

const dealColumns = `id, company_id, title, value, stage, probability, owner_id, customer_id, lead_id, expected_close_date, actual_close_date, notes, created_at, updated_at`

// DealRepo implementación de DealRepository.
type DealRepo struct {
	q Querier
}

// NewDealRepository construye el adaptador.
func NewDealRepository(q Querier) *DealRepo {
	return &DealRepo{q: q}
}

// Create persiste un deal.
func (r *DealRepo) Create(ctx context.Context, d *entity.Deal) error {
	query := `INSERT INTO deals (` + dealColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.Title, d.Value, d.Stage, d.Probability, d.OwnerID, d.CustomerID, d.LeadID,
		d.ExpectedCloseDate, d.ActualCloseDate, d.Notes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID obtiene un deal de la empresa.
func (r *DealRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE company_id = $1 AND id = $2`
	d, err := scanDeal(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal: %w", err)
	}
	return d, nil
}

// List lista deals (más recientes primero).
func (r *DealRepo) List(ctx context.Context, companyID string, f repository.DealFilter) ([]*entity.Deal, error) {
	w := dealWhere(companyID, f)
	query := `SELECT ` + dealColumns + ` FROM deals` + w.String() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Count cuenta deals con los filtros de List.
func (r *DealRepo) Count(ctx context.Context, companyID string, f repository.DealFilter) (int, error) {
	return count(ctx, r.q, "deals", dealWhere(companyID, f))
}

// Update actualiza un deal (last write wins).
func (r *DealRepo) Update(ctx context.Context, d *entity.Deal) error {
	query := `
		UPDATE deals SET title = $3, value = $4, stage = $5, probability = $6, owner_id = $7,
			customer_id = $8, lead_id = $9, expected_close_date = $10, actual_close_date = $11,
			notes = $12, updated_at = $13
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		d.CompanyID, d.ID, d.Title, d.Value, d.Stage, d.Probability, d.OwnerID,
		d.CustomerID, d.LeadID, d.ExpectedCloseDate, d.ActualCloseDate, d.Notes, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un deal.
func (r *DealRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM deals WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StatsByStage conteo y valor por etapa.
func (r *DealRepo) StatsByStage(ctx context.Context, companyID string, f repository.DealFilter) ([]repository.StageStats, error) {
	w := dealWhere(companyID, f)
	query := `
		SELECT stage, COUNT(*), COALESCE(SUM(value), 0)
		FROM deals` + w.String() + `
		GROUP BY stage
		ORDER BY stage`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("deal stats by stage: %w", err)
	}
	defer rows.Close()
	var out []repository.StageStats
	for rows.Next() {
		var s repository.StageStats
		if err := rows.Scan(&s.Stage, &s.Count, &s.Value); err != nil {
			return nil, fmt.Errorf("scan stage stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// WonByOwner deals CLOSED_WON y revenue por owner en una sola consulta.
func (r *DealRepo) WonByOwner(ctx context.Context, companyID string, f repository.DealFilter) ([]repository.OwnerWonStats, error) {
	f.Stage = entity.StageClosedWon
	w := dealWhere(companyID, f)
	query := `
		SELECT owner_id, COUNT(*), COALESCE(SUM(value), 0)
		FROM deals` + w.String() + `
		GROUP BY owner_id
		ORDER BY owner_id`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("won deals by owner: %w", err)
	}
	defer rows.Close()
	var out []repository.OwnerWonStats
	for rows.Next() {
		var s repository.OwnerWonStats
		if err := rows.Scan(&s.OwnerID, &s.DealsWon, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan won stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func dealWhere(companyID string, f repository.DealFilter) *where {
	w := newWhere("company_id", companyID)
	w.scope("owner_id", f.Scope)
	w.eq("stage", string(f.Stage))
	w.eq("customer_id", f.CustomerID)
	w.search(f.Search, "title", "notes")
	w.between("actual_close_date", f.Closed)
	return w
}

func scanDeal(row pgx.Row) (*entity.Deal, error) {
	var d entity.Deal
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.Title, &d.Value, &d.Stage, &d.Probability, &d.OwnerID,
		&d.CustomerID, &d.LeadID, &d.ExpectedCloseDate, &d.ActualCloseDate, &d.Notes,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
