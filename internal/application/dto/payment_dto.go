package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest body para POST /api/payments.
// INTERNAL exige customer_id; EXTERNAL exige customer_name.
type CreatePaymentRequest struct {
	ReferenceType  string           `json:"reference_type" validate:"required,oneof=INTERNAL EXTERNAL"`
	CustomerID     *string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName   *string          `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	Amount         decimal.Decimal  `json:"amount"`
	GSTType        string           `json:"gst_type" validate:"required,oneof=WITH_GST WITHOUT_GST"`
	GSTPercentage  *decimal.Decimal `json:"gst_percentage,omitempty"`
	PaymentMethod  string           `json:"payment_method" validate:"required,oneof=CASH BANK_TRANSFER UPI CHEQUE CARD OTHER"`
	PaymentDate    string           `json:"payment_date" validate:"omitempty"`
	InvoiceID      *string          `json:"invoice_id,omitempty" validate:"omitempty,uuid"`
	TransactionRef string           `json:"transaction_ref" validate:"omitempty,max=100"`
	Notes          string           `json:"notes" validate:"omitempty,max=2000"`
}

// UpdatePaymentRequest actualización parcial; GST se recalcula si cambian amount, gst_type o gst_percentage.
type UpdatePaymentRequest struct {
	ReferenceType  *string          `json:"reference_type,omitempty" validate:"omitempty,oneof=INTERNAL EXTERNAL"`
	CustomerID     *string          `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerName   *string          `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	GSTType        *string          `json:"gst_type,omitempty" validate:"omitempty,oneof=WITH_GST WITHOUT_GST"`
	GSTPercentage  *decimal.Decimal `json:"gst_percentage,omitempty"`
	PaymentMethod  *string          `json:"payment_method,omitempty" validate:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE CARD OTHER"`
	PaymentDate    *string          `json:"payment_date,omitempty"`
	InvoiceID      *string          `json:"invoice_id,omitempty" validate:"omitempty,uuid"`
	TransactionRef *string          `json:"transaction_ref,omitempty" validate:"omitempty,max=100"`
	Notes          *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// PaymentListQuery filtros de GET /api/payments (ventana sobre payment_date).
type PaymentListQuery struct {
	PaymentMethod string `query:"payment_method"`
	GSTType       string `query:"gst_type"`
	ReferenceType string `query:"reference_type"`
	CustomerID    string `query:"customer_id"`
	OwnerID       string `query:"owner_id"`
	DateRangeQuery
	PageRequest
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID             string          `json:"id"`
	PaymentNumber  string          `json:"payment_number"`
	ReferenceType  string          `json:"reference_type"`
	CustomerID     *string         `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	GSTType        string          `json:"gst_type"`
	GSTPercentage  decimal.Decimal `json:"gst_percentage"`
	GSTAmount      decimal.Decimal `json:"gst_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentDate    time.Time       `json:"payment_date"`
	InvoiceID      *string         `json:"invoice_id,omitempty"`
	TransactionRef string          `json:"transaction_ref,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PaymentMethodStatDTO totales por método de pago.
type PaymentMethodStatDTO struct {
	Method      string          `json:"payment_method"`
	Count       int             `json:"count"`
	Amount      decimal.Decimal `json:"amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// GSTTypeStatDTO totales por tipo de GST.
type GSTTypeStatDTO struct {
	GSTType     string          `json:"gst_type"`
	Count       int             `json:"count"`
	Amount      decimal.Decimal `json:"amount"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PaymentStatsResponse respuesta de GET /api/payments/stats.
type PaymentStatsResponse struct {
	TotalPayments int                    `json:"total_payments"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	TotalGST      decimal.Decimal        `json:"total_gst"`
	GrandTotal    decimal.Decimal        `json:"grand_total"`
	ByMethod      []PaymentMethodStatDTO `json:"by_method"`
	ByGSTType     []GSTTypeStatDTO       `json:"by_gst_type"`
}
