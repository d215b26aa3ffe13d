package sales_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/sales"
)

// ──────────────────────────────────────────────────────────────────────────────
// GST
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeGST_ConGSTPorDefecto(t *testing.T) {
	g := sales.ComputeGST(decimal.NewFromInt(1000), entity.WithGST, sales.PercentageOrDefault(nil))

	assert.True(t, g.GSTPercentage.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "180", g.GSTAmount.String())
	assert.Equal(t, "1180", g.TotalAmount.String())
}

func TestComputeGST_SinGST(t *testing.T) {
	g := sales.ComputeGST(decimal.NewFromInt(1000), entity.WithoutGST, decimal.NewFromInt(18))

	assert.True(t, g.GSTAmount.IsZero())
	assert.Equal(t, "1000", g.TotalAmount.String())
}

func TestComputeGST_RedondeoBancario(t *testing.T) {
	// 0.25 * 18% = 0.045 -> 0.04 (mitad al par)
	g := sales.ComputeGST(decimal.RequireFromString("0.25"), entity.WithGST, decimal.NewFromInt(18))
	assert.Equal(t, "0.04", g.GSTAmount.String())

	// 0.75 * 18% = 0.135 -> 0.14
	g = sales.ComputeGST(decimal.RequireFromString("0.75"), entity.WithGST, decimal.NewFromInt(18))
	assert.Equal(t, "0.14", g.GSTAmount.String())
}

func TestProperty_GSTTotalEsMontoMasImpuesto(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("total = amount + gst, gst >= 0", prop.ForAll(
		func(paise int64, pct int64) bool {
			amount := decimal.New(paise, -2)
			g := sales.ComputeGST(amount, entity.WithGST, decimal.NewFromInt(pct))
			return g.TotalAmount.Equal(amount.Add(g.GSTAmount)) && !g.GSTAmount.IsNegative()
		},
		gen.Int64Range(1, 1_000_000_000),
		gen.Int64Range(0, 28),
	))

	// Con montos enteros y tarifa entera el impuesto es exacto, por lo que es lineal.
	properties.Property("gst(a+b) = gst(a) + gst(b) en montos enteros", prop.ForAll(
		func(a, b int64, pct int64) bool {
			p := decimal.NewFromInt(pct)
			ga := sales.ComputeGST(decimal.NewFromInt(a), entity.WithGST, p).GSTAmount
			gb := sales.ComputeGST(decimal.NewFromInt(b), entity.WithGST, p).GSTAmount
			gab := sales.ComputeGST(decimal.NewFromInt(a+b), entity.WithGST, p).GSTAmount
			return gab.Equal(ga.Add(gb))
		},
		gen.Int64Range(1, 10_000_000),
		gen.Int64Range(1, 10_000_000),
		gen.Int64Range(0, 28),
	))

	properties.TestingRun(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rate
// ──────────────────────────────────────────────────────────────────────────────

func TestRate_Casos(t *testing.T) {
	assert.Equal(t, 67, sales.Rate(2, 3))
	assert.Equal(t, 50, sales.Rate(1, 2))
	assert.Equal(t, 13, sales.Rate(1, 8))
	assert.Equal(t, 0, sales.Rate(5, 0))
	assert.Equal(t, 100, sales.Rate(4, 4))
	assert.Equal(t, 100, sales.Rate(9, 4))
}

func TestProperty_RateEnRango(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("0 <= rate <= 100", prop.ForAll(
		func(num, den int) bool {
			r := sales.Rate(num, den)
			return r >= 0 && r <= 100
		},
		gen.IntRange(-10, 100_000),
		gen.IntRange(-10, 100_000),
	))

	properties.TestingRun(t)
}

// ──────────────────────────────────────────────────────────────────────────────
// Etapas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyStageTransition_CerrarFijaFechaYProbabilidad(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	d := &entity.Deal{Stage: entity.StageProposal, Probability: 50}

	sales.ApplyStageTransition(d, entity.StageClosedWon, now)

	assert.Equal(t, entity.StageClosedWon, d.Stage)
	assert.Equal(t, 100, d.Probability)
	require.NotNil(t, d.ActualCloseDate)
	assert.Equal(t, now, *d.ActualCloseDate)
}

func TestApplyStageTransition_ReabrirLimpiaFecha(t *testing.T) {
	closed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &entity.Deal{Stage: entity.StageClosedLost, ActualCloseDate: &closed}

	sales.ApplyStageTransition(d, entity.StageNegotiation, time.Now())

	assert.Equal(t, 75, d.Probability)
	assert.Nil(t, d.ActualCloseDate)
}

func TestApplyFieldUpdate_ProbabilidadExplicitaGana(t *testing.T) {
	d := &entity.Deal{Stage: entity.StageQualification, Probability: 10}
	stage := entity.StageNegotiation
	p := 60

	sales.ApplyFieldUpdate(d, &stage, &p, time.Now())

	assert.Equal(t, entity.StageNegotiation, d.Stage)
	assert.Equal(t, 60, d.Probability)
}

func TestApplyFieldUpdate_CambioDeEtapaUsaTabla(t *testing.T) {
	d := &entity.Deal{Stage: entity.StageQualification, Probability: 33}
	stage := entity.StageProposal

	sales.ApplyFieldUpdate(d, &stage, nil, time.Now())

	assert.Equal(t, 50, d.Probability)
	assert.Nil(t, d.ActualCloseDate)
}

func TestProbabilityFor_TodasLasEtapas(t *testing.T) {
	for _, st := range entity.DealStages {
		_, ok := sales.ProbabilityFor(st)
		assert.True(t, ok, st)
	}
	_, ok := sales.ProbabilityFor("WHATEVER")
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatSequenceNumber(t *testing.T) {
	assert.Equal(t, "PAY-0001", sales.FormatPaymentNumber(1))
	assert.Equal(t, "INV-0042", sales.FormatInvoiceNumber(42))
	assert.Equal(t, "PAY-12345", sales.FormatPaymentNumber(12345))

	n, err := sales.ParseSequenceNumber("PAY-0042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = sales.ParseSequenceNumber("PAY-")
	assert.Error(t, err)
}
