package repository

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/shopspring/decimal"
)

// DealFilter filtros de listado/agregación. Scope se aplica sobre owner_id;
// Closed filtra por actual_close_date.
type DealFilter struct {
	Scope      scope.Scope
	Stage      entity.DealStage
	CustomerID string
	Search     string
	Closed     DateRange
	Page
}

// StageStats conteo y suma de valor por etapa.
type StageStats struct {
	Stage entity.DealStage
	Count int
	Value decimal.Decimal
}

// OwnerWonStats deals CLOSED_WON y revenue por owner.
type OwnerWonStats struct {
	OwnerID  string
	DealsWon int
	Revenue  decimal.Decimal
}

// DealRepository define el puerto de persistencia para Deal.
type DealRepository interface {
	Create(ctx context.Context, deal *entity.Deal) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Deal, error)
	List(ctx context.Context, companyID string, filter DealFilter) ([]*entity.Deal, error)
	Count(ctx context.Context, companyID string, filter DealFilter) (int, error)
	Update(ctx context.Context, deal *entity.Deal) error
	Delete(ctx context.Context, companyID, id string) error

	// StatsByStage agrupa por etapa el conjunto filtrado.
	StatsByStage(ctx context.Context, companyID string, filter DealFilter) ([]StageStats, error)
	// WonByOwner agrupa por owner los deals CLOSED_WON del conjunto filtrado.
	WonByOwner(ctx context.Context, companyID string, filter DealFilter) ([]OwnerWonStats, error)
}
