// Package analytics contiene el leaderboard de ventas y los reportes de negocio.
// Todas las métricas se calculan con consultas agrupadas (una por entidad) en lugar
// de una consulta por usuario.
package analytics

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/analytics")

// parseWindow convierte la ventana de la query. start > end es entrada inválida.
func parseWindow(q dto.DateRangeQuery) (repository.DateRange, error) {
	from, err := dto.ParseDate(q.StartDate)
	if err != nil {
		return repository.DateRange{}, fmt.Errorf("%w: start_date: %v", domain.ErrInvalidInput, err)
	}
	to, err := dto.ParseEndDate(q.EndDate)
	if err != nil {
		return repository.DateRange{}, fmt.Errorf("%w: end_date: %v", domain.ErrInvalidInput, err)
	}
	if from != nil && to != nil && from.After(*to) {
		return repository.DateRange{}, fmt.Errorf("%w: start_date posterior a end_date", domain.ErrInvalidInput)
	}
	return repository.DateRange{From: from, To: to}, nil
}

// endSpan cierra el span marcando el error si lo hubo.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
