package repository

import "time"

// DateRange ventana opcional [From, To]. Un extremo nil no restringe.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains indica si t cae dentro de la ventana.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Page paginación para listados (Limit=0 sin límite).
type Page struct {
	Limit  int
	Offset int
}
