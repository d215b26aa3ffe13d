package billing

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// PDFUseCase genera el PDF de una factura y, si hay DocumentStore, lo archiva.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
	resolver     *scope.Resolver
	generator    InvoicePDFGenerator
	store        DocumentStore // opcional
	bank         BankDetails   // por defecto si la empresa no tiene datos bancarios
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias. store puede ser nil.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	resolver *scope.Resolver,
	generator InvoicePDFGenerator,
	store DocumentStore,
	bank BankDetails,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		resolver:     resolver,
		generator:    generator,
		store:        store,
		bank:         bank,
	}
}

// DownloadInvoicePDF recupera los datos de la factura y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura está fuera del scope del actor.
//   - domain.ErrInvalidInput     si la factura está CANCELLED.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, actor scope.Actor, invoiceID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar factura ─────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, actor.CompanyID, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if err := uc.resolver.Authorize(ctx, actor, inv.CreatedBy); err != nil {
		return nil, "", err
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, "", fmt.Errorf("%w: la factura %s está anulada", domain.ErrInvalidInput, inv.InvoiceNumber)
	}

	// ── 2. Empresa y cliente ──────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, actor.CompanyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(ctx, actor.CompanyID, inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}

	// ── 3. Líneas y pagos aplicados ───────────────────────────────────────────
	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	rows, err := uc.paymentRepo.Breakdown(ctx, actor.CompanyID, repository.PaymentFilter{Scope: scope.Unrestricted(), InvoiceID: inv.ID})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener pagos: %w", err)
	}
	paid := decimal.Zero
	for _, r := range rows {
		paid = paid.Add(r.TotalAmount)
	}

	bank := uc.bank
	if company.BankAccount != "" {
		bank = BankDetails{BankName: company.BankName, AccountNo: company.BankAccount, IFSC: company.IFSC}
	}
	bank.AccountName = company.Name

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoiceDocument{
		Invoice:  inv,
		Items:    items,
		Company:  company,
		Customer: customer,
		Bank:     bank,
		Paid:     paid,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("%s.pdf", inv.InvoiceNumber)

	// ── 5. Archivar (best effort) ─────────────────────────────────────────────
	if uc.store != nil {
		key := path.Join(actor.CompanyID, filename)
		loc, sErr := uc.store.Put(ctx, key, "application/pdf", pdfBytes)
		if sErr != nil {
			zerolog.Ctx(ctx).Warn().Err(sErr).Str("invoice_number", inv.InvoiceNumber).Msg("no se pudo archivar el PDF")
		} else {
			zerolog.Ctx(ctx).Debug().Str("location", loc).Msg("PDF archivado")
		}
	}
	return pdfBytes, filename, nil
}
