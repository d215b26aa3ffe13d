package repository

import (
	"context"
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// ActivityFilter filtros de listado/conteo. Scope se aplica sobre assignee_id.
// OverdueAt != nil restringe a actividades vencidas en ese instante
// (OVERDUE, o SCHEDULED con scheduled_at anterior).
type ActivityFilter struct {
	Scope     scope.Scope
	Status    entity.ActivityStatus
	LeadID    string
	Scheduled DateRange
	OverdueAt *time.Time
	Page
}

// AssigneeActivityStats actividades totales y completadas por usuario.
type AssigneeActivityStats struct {
	AssigneeID string
	Total      int
	Completed  int
}

// ActivityRepository define el puerto de persistencia para Activity.
type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Activity, error)
	List(ctx context.Context, companyID string, filter ActivityFilter) ([]*entity.Activity, error)
	Count(ctx context.Context, companyID string, filter ActivityFilter) (int, error)
	Update(ctx context.Context, activity *entity.Activity) error

	// StatsByAssignee agrupa por assignee las actividades programadas en la ventana.
	StatsByAssignee(ctx context.Context, companyID string, filter ActivityFilter) ([]AssigneeActivityStats, error)
}
