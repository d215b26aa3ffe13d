package postgres

import (
	"context"
	"fmt"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador atómico por (company_id, name).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Usar con la tx del alta numerada.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el siguiente valor (1 para la primera llamada).
func (r *SequenceRepo) Next(ctx context.Context, companyID, name string) (int64, error) {
	const query = `
		INSERT INTO sequences (company_id, name, value) VALUES ($1, $2, 1)
		ON CONFLICT (company_id, name) DO UPDATE SET value = sequences.value + 1
		RETURNING value`
	var v int64
	if err := r.q.QueryRow(ctx, query, companyID, name).Scan(&v); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return v, nil
}
