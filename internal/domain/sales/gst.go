package sales

import (
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DefaultGSTPercentage tarifa aplicada cuando el request no indica una.
var DefaultGSTPercentage = decimal.NewFromInt(18)

var hundred = decimal.NewFromInt(100)

// GST desglose calculado sobre un monto base.
type GST struct {
	GSTPercentage decimal.Decimal
	GSTAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
}

// ComputeGST calcula GST y total.
//
//	WITHOUT_GST: gstAmount = 0, total = amount
//	WITH_GST:    gstAmount = amount * pct / 100 (redondeo bancario a 2 decimales), total = amount + gstAmount
//
// El porcentaje se devuelve tal cual para que un cambio posterior a WITH_GST lo conserve.
func ComputeGST(amount decimal.Decimal, gstType entity.GSTType, pct decimal.Decimal) GST {
	if gstType != entity.WithGST {
		return GST{GSTPercentage: pct, GSTAmount: decimal.Zero, TotalAmount: amount}
	}
	gstAmount := amount.Mul(pct).Div(hundred).RoundBank(2)
	return GST{
		GSTPercentage: pct,
		GSTAmount:     gstAmount,
		TotalAmount:   amount.Add(gstAmount),
	}
}

// PercentageOrDefault devuelve pct o la tarifa por defecto si es nil.
func PercentageOrDefault(pct *decimal.Decimal) decimal.Decimal {
	if pct == nil {
		return DefaultGSTPercentage
	}
	return *pct
}
