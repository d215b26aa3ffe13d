package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDealRequest body para POST /api/deals. owner_id se ignora para EMPLOYEE.
type CreateDealRequest struct {
	Title             string          `json:"title" validate:"required,min=1,max=200"`
	Value             decimal.Decimal `json:"value"`
	Stage             string          `json:"stage" validate:"omitempty,oneof=QUALIFICATION NEEDS_ANALYSIS PROPOSAL NEGOTIATION CLOSED_WON CLOSED_LOST"`
	Probability       *int            `json:"probability,omitempty" validate:"omitempty,min=0,max=100"`
	OwnerID           string          `json:"owner_id" validate:"omitempty,uuid"`
	CustomerID        *string         `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	LeadID            *string         `json:"lead_id,omitempty" validate:"omitempty,uuid"`
	ExpectedCloseDate string          `json:"expected_close_date" validate:"omitempty"`
	Notes             string          `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateDealRequest actualización general. Una probability explícita prevalece sobre la de la etapa.
type UpdateDealRequest struct {
	Title             *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Value             *decimal.Decimal `json:"value,omitempty"`
	Stage             *string          `json:"stage,omitempty" validate:"omitempty,oneof=QUALIFICATION NEEDS_ANALYSIS PROPOSAL NEGOTIATION CLOSED_WON CLOSED_LOST"`
	Probability       *int             `json:"probability,omitempty" validate:"omitempty,min=0,max=100"`
	OwnerID           *string          `json:"owner_id,omitempty" validate:"omitempty,uuid"`
	CustomerID        *string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	ExpectedCloseDate *string          `json:"expected_close_date,omitempty"`
	Notes             *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateDealStageRequest body de PATCH /api/deals/:id/stage.
type UpdateDealStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=QUALIFICATION NEEDS_ANALYSIS PROPOSAL NEGOTIATION CLOSED_WON CLOSED_LOST"`
}

// DealListQuery filtros de GET /api/deals.
type DealListQuery struct {
	Stage      string `query:"stage"`
	OwnerID    string `query:"owner_id"`
	CustomerID string `query:"customer_id"`
	Search     string `query:"search"`
	PageRequest
}

// DealResponse deal en respuestas.
type DealResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Value             decimal.Decimal `json:"value"`
	Stage             string          `json:"stage"`
	Probability       int             `json:"probability"`
	OwnerID           string          `json:"owner_id"`
	OwnerName         string          `json:"owner_name,omitempty"`
	CustomerID        *string         `json:"customer_id,omitempty"`
	LeadID            *string         `json:"lead_id,omitempty"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time      `json:"actual_close_date,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StageStatDTO conteo y valor de una etapa.
type StageStatDTO struct {
	Stage string          `json:"stage"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// DealStatsResponse respuesta de GET /api/deals/stats.
type DealStatsResponse struct {
	TotalDeals int             `json:"total_deals"`
	TotalValue decimal.Decimal `json:"total_value"`
	WonDeals   int             `json:"won_deals"`
	WonValue   decimal.Decimal `json:"won_value"`
	ByStage    []StageStatDTO  `json:"by_stage"`
}
