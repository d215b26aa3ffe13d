package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType indica si quien paga es un Customer registrado o un tercero por nombre.
type ReferenceType string

const (
	ReferenceInternal ReferenceType = "INTERNAL"
	ReferenceExternal ReferenceType = "EXTERNAL"
)

// GSTType si el pago incluye GST.
type GSTType string

const (
	WithGST    GSTType = "WITH_GST"
	WithoutGST GSTType = "WITHOUT_GST"
)

// Valid indica si el tipo de GST existe.
func (t GSTType) Valid() bool { return t == WithGST || t == WithoutGST }

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodUPI          PaymentMethod = "UPI"
	MethodCheque       PaymentMethod = "CHEQUE"
	MethodCard         PaymentMethod = "CARD"
	MethodOther        PaymentMethod = "OTHER"
)

// Valid indica si el medio existe.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodUPI, MethodCheque, MethodCard, MethodOther:
		return true
	}
	return false
}

// Payment pago recibido. GSTAmount y TotalAmount son derivados de Amount/GSTType/GSTPercentage.
type Payment struct {
	ID             string
	CompanyID      string
	PaymentNumber  string // PAY-0001
	ReferenceType  ReferenceType
	CustomerID     *string
	CustomerName   string
	Amount         decimal.Decimal
	GSTType        GSTType
	GSTPercentage  decimal.Decimal
	GSTAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentMethod  PaymentMethod
	PaymentDate    time.Time
	InvoiceID      *string
	TransactionRef string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
