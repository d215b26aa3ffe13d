package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealStage posición del deal en el embudo de ventas.
type DealStage string

// Etapas del embudo.
const (
	StageQualification DealStage = "QUALIFICATION"
	StageNeedsAnalysis DealStage = "NEEDS_ANALYSIS"
	StageProposal      DealStage = "PROPOSAL"
	StageNegotiation   DealStage = "NEGOTIATION"
	StageClosedWon     DealStage = "CLOSED_WON"
	StageClosedLost    DealStage = "CLOSED_LOST"
)

// DealStages orden canónico del embudo (usado para rellenar estadísticas por etapa).
var DealStages = []DealStage{
	StageQualification,
	StageNeedsAnalysis,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// Valid indica si la etapa existe.
func (s DealStage) Valid() bool {
	for _, st := range DealStages {
		if st == s {
			return true
		}
	}
	return false
}

// IsClosed indica si la etapa es CLOSED_WON o CLOSED_LOST.
func (s DealStage) IsClosed() bool {
	return s == StageClosedWon || s == StageClosedLost
}

// Deal oportunidad de venta de un owner.
type Deal struct {
	ID                string
	CompanyID         string
	Title             string
	Value             decimal.Decimal
	Stage             DealStage
	Probability       int
	OwnerID           string
	CustomerID        *string
	LeadID            *string
	ExpectedCloseDate *time.Time
	ActualCloseDate   *time.Time
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
