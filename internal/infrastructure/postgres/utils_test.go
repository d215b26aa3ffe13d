package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

func TestWhere_NumeraPlaceholdersEnOrden(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w := newWhere("company_id", "c1")
	w.scope("owner_id", scope.Owners("u1", "u2"))
	w.eq("stage", "PROPOSAL")
	w.eq("customer_id", "")
	w.between("actual_close_date", repository.DateRange{From: &from})
	page := w.page(repository.Page{Limit: 10, Offset: 20})

	assert.Equal(t,
		" WHERE company_id = $1 AND owner_id = ANY($2::uuid[]) AND stage = $3 AND actual_close_date >= $4",
		w.String())
	assert.Equal(t, " LIMIT $5 OFFSET $6", page)
	assert.Equal(t, []any{"c1", []string{"u1", "u2"}, "PROPOSAL", from, 10, 20}, w.args)
}

func TestWhere_ScopeVacioNoDejaPasarNada(t *testing.T) {
	w := newWhere("company_id", "c1")
	w.scope("owner_id", scope.Owners())
	assert.Equal(t, " WHERE company_id = $1 AND FALSE", w.String())
}

func TestWhere_ScopeSinRestriccion(t *testing.T) {
	w := newWhere("company_id", "c1")
	w.scope("owner_id", scope.Unrestricted())
	assert.Equal(t, " WHERE company_id = $1", w.String())
}

func TestWhere_SearchEscapaComodines(t *testing.T) {
	w := newWhere("company_id", "c1")
	w.search("50%_off", "title", "notes")
	assert.Equal(t, " WHERE company_id = $1 AND (title ILIKE $2 OR notes ILIKE $2)", w.String())
	assert.Equal(t, `%50\%\_off%`, w.args[1])
}

func TestWhere_PageSinLimite(t *testing.T) {
	w := newWhere("company_id", "c1")
	assert.Empty(t, w.page(repository.Page{}))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
