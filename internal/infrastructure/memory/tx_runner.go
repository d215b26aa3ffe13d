package memory

import (
	"context"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/billing"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

// TxRunner ejecuta fn con los repositorios del store. No hay rollback: los
// casos de uso validan antes de mutar y la secuencia es atómica por sí sola.
type TxRunner struct {
	s *Store
}

// RunBilling ver postgres.TxRunner.RunBilling.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	seqRepo repository.SequenceRepository,
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(r.s.Sequences(), r.s.Payments(), r.s.Invoices())
}

var _ billing.BillingTxRunner = (*TxRunner)(nil)
