package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusSent      = "SENT"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// ValidInvoiceStatus indica si el estado existe.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice cabecera de factura con totales ya calculados.
type Invoice struct {
	ID            string
	CompanyID     string
	InvoiceNumber string // INV-0001
	CustomerID    string
	IssueDate     time.Time
	DueDate       *time.Time
	Status        string
	Subtotal      decimal.Decimal
	GSTType       GSTType
	GSTPercentage decimal.Decimal
	GSTAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceItem línea de la factura.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal // Quantity * UnitPrice
	Position    int
}
