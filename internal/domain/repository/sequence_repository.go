package repository

import "context"

// SequenceRepository contador atómico por (empresa, nombre).
// Next incrementa y devuelve el nuevo valor; dos llamadas concurrentes nunca
// obtienen el mismo número. Debe ejecutarse en la misma transacción que el insert
// que consume el número.
type SequenceRepository interface {
	Next(ctx context.Context, companyID, name string) (int64, error)
}
