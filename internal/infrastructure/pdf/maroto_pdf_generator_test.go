package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "Rs. 0.00",
		"999.5":    "Rs. 999.50",
		"1180":     "Rs. 1,180.00",
		"1234567":  "Rs. 1,234,567.00",
		"-25000.5": "Rs. -25,000.50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF_DevuelvePDF(t *testing.T) {
	due := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	doc := appbilling.InvoiceDocument{
		Invoice: &entity.Invoice{
			InvoiceNumber: "INV-0001",
			IssueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			DueDate:       &due,
			Status:        entity.InvoiceStatusSent,
			Subtotal:      decimal.NewFromInt(1000),
			GSTType:       entity.WithGST,
			GSTPercentage: decimal.NewFromInt(18),
			GSTAmount:     decimal.NewFromInt(180),
			TotalAmount:   decimal.NewFromInt(1180),
		},
		Items: []*entity.InvoiceItem{{
			Description: "Suscripción portal de licitaciones",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(1000),
			Amount:      decimal.NewFromInt(1000),
			Position:    1,
		}},
		Company:  &entity.Company{Name: "Grow Tenders", GSTIN: "27AAAAA0000A1Z5"},
		Customer: &entity.Customer{Name: "Acme Infra"},
		Bank:     appbilling.BankDetails{BankName: "HDFC", AccountNo: "0001", IFSC: "HDFC0000001", AccountName: "Grow Tenders"},
		Paid:     decimal.NewFromInt(500),
	}

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), doc)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateInvoicePDF_DocumentoIncompleto(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), appbilling.InvoiceDocument{})
	assert.Error(t, err)
}
