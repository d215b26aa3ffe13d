package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de numeración y facturación.
// La secuencia y el insert que la consume comparten transacción: si fn falla, el número no se consume.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		seqRepo repository.SequenceRepository,
		paymentRepo repository.PaymentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoiceDocument datos estructurados que consume el renderizador de PDF.
type InvoiceDocument struct {
	Invoice  *entity.Invoice
	Items    []*entity.InvoiceItem
	Company  *entity.Company
	Customer *entity.Customer
	Bank     BankDetails
	Paid     decimal.Decimal // suma de pagos asociados a la factura
}

// BankDetails datos bancarios impresos al pie de la factura.
type BankDetails struct {
	BankName    string
	AccountNo   string
	IFSC        string
	AccountName string
}

// InvoicePDFGenerator puerto del renderizador de PDF (implementación en infrastructure/pdf).
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// DocumentStore almacenamiento de objetos para archivar PDFs generados.
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (location string, err error)
}
