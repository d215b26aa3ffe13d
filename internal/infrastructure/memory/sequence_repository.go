package memory

import "context"

// SequenceRepository contador por (empresa, nombre) protegido por el mutex del store.
type SequenceRepository struct {
	s *Store
}

// Next incrementa y devuelve el siguiente valor.
func (r *SequenceRepository) Next(ctx context.Context, companyID, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := seqKey{companyID: companyID, name: name}
	r.s.sequences[k]++
	return r.s.sequences[k], nil
}
