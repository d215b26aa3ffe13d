// Package sales contiene las reglas de negocio puras del CRM: probabilidad por
// etapa, cálculo de GST, numeración secuencial y tasas porcentuales.
package sales

import (
	"time"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
)

// stageProbability tabla fija etapa -> probabilidad (total sobre las seis etapas).
var stageProbability = map[entity.DealStage]int{
	entity.StageQualification: 10,
	entity.StageNeedsAnalysis: 20,
	entity.StageProposal:      50,
	entity.StageNegotiation:   75,
	entity.StageClosedWon:     100,
	entity.StageClosedLost:    0,
}

// ProbabilityFor devuelve la probabilidad de la etapa; ok=false si la etapa no existe.
func ProbabilityFor(stage entity.DealStage) (int, bool) {
	p, ok := stageProbability[stage]
	return p, ok
}

// ApplyStageTransition mueve el deal a la etapa indicada con la regla del cambio de etapa:
// la probabilidad siempre sale de la tabla. Entrar en CLOSED_* fija ActualCloseDate=now;
// salir de CLOSED_* (reapertura) la limpia.
func ApplyStageTransition(d *entity.Deal, stage entity.DealStage, now time.Time) {
	p, _ := ProbabilityFor(stage)
	d.Probability = p
	applyCloseDate(d, stage, now)
	d.Stage = stage
}

// ApplyFieldUpdate aplica un cambio de etapa/probabilidad desde la actualización general.
// Una probabilidad explícita tiene precedencia; sin ella, un cambio de etapa usa la tabla.
func ApplyFieldUpdate(d *entity.Deal, stage *entity.DealStage, probability *int, now time.Time) {
	if stage != nil && *stage != d.Stage {
		p, _ := ProbabilityFor(*stage)
		d.Probability = p
		applyCloseDate(d, *stage, now)
		d.Stage = *stage
	}
	if probability != nil {
		d.Probability = *probability
	}
}

func applyCloseDate(d *entity.Deal, next entity.DealStage, now time.Time) {
	switch {
	case next.IsClosed():
		t := now
		d.ActualCloseDate = &t
	case d.Stage.IsClosed():
		d.ActualCloseDate = nil
	}
}
