package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios sirven dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// where arma cláusulas WHERE con placeholders $n en orden.
type where struct {
	conds []string
	args  []any
}

// newWhere siempre filtra por company_id: ninguna consulta cruza empresas.
func newWhere(companyColumn, companyID string) *where {
	w := &where{}
	w.add(companyColumn+" = ?", companyID)
	return w
}

// add agrega una condición; cada ? se reemplaza por el siguiente $n.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

// scope restringe column a los owners visibles. Scope vacío no deja pasar nada.
func (w *where) scope(column string, s scope.Scope) {
	if s.All {
		return
	}
	if len(s.OwnerIDs) == 0 {
		w.conds = append(w.conds, "FALSE")
		return
	}
	w.add(column+" = ANY(?::uuid[])", s.OwnerIDs)
}

// eq agrega column = v si v no es vacío.
func (w *where) eq(column, v string) {
	if v != "" {
		w.add(column+" = ?", v)
	}
}

// between aplica una ventana inclusiva sobre column.
func (w *where) between(column string, r repository.DateRange) {
	if r.From != nil {
		w.add(column+" >= ?", *r.From)
	}
	if r.To != nil {
		w.add(column+" <= ?", *r.To)
	}
}

// search ILIKE sobre varias columnas (OR).
func (w *where) search(term string, columns ...string) {
	if term == "" {
		return
	}
	w.args = append(w.args, "%"+escapeLike(term)+"%")
	n := len(w.args)
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, n))
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page devuelve LIMIT/OFFSET; Limit 0 significa sin límite.
func (w *where) page(p repository.Page) string {
	var b strings.Builder
	if p.Limit > 0 {
		w.args = append(w.args, p.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(w.args))
	}
	if p.Offset > 0 {
		w.args = append(w.args, p.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(w.args))
	}
	return b.String()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// count ejecuta SELECT COUNT(*) con el filtro armado.
func count(ctx context.Context, q Querier, table string, w *where) (int, error) {
	var n int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+table+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
