package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, company_id, payment_number, reference_type, customer_id, customer_name, amount,
	gst_type, gst_percentage, gst_amount, total_amount, payment_method, payment_date, invoice_id,
	transaction_ref, notes, created_by, created_at, updated_at`

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago. Número repetido en la empresa → domain.ErrDuplicate.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.PaymentNumber, p.ReferenceType, p.CustomerID, p.CustomerName, p.Amount,
		p.GSTType, p.GSTPercentage, p.GSTAmount, p.TotalAmount, p.PaymentMethod, p.PaymentDate, p.InvoiceID,
		p.TransactionRef, p.Notes, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de pago %s", domain.ErrDuplicate, p.PaymentNumber)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago de la empresa.
func (r *PaymentRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE company_id = $1 AND id = $2`
	p, err := scanPayment(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List lista pagos por payment_date descendente.
func (r *PaymentRepo) List(ctx context.Context, companyID string, f repository.PaymentFilter) ([]*entity.Payment, error) {
	w := paymentWhere(companyID, f)
	query := `SELECT ` + paymentColumns + ` FROM payments` + w.String() + ` ORDER BY payment_date DESC, id`
	query += w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count cuenta pagos con los filtros de List.
func (r *PaymentRepo) Count(ctx context.Context, companyID string, f repository.PaymentFilter) (int, error) {
	return count(ctx, r.q, "payments", paymentWhere(companyID, f))
}

// Update actualiza un pago (el número no cambia).
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments SET reference_type = $3, customer_id = $4, customer_name = $5, amount = $6,
			gst_type = $7, gst_percentage = $8, gst_amount = $9, total_amount = $10, payment_method = $11,
			payment_date = $12, invoice_id = $13, transaction_ref = $14, notes = $15, updated_at = $16
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		p.CompanyID, p.ID, p.ReferenceType, p.CustomerID, p.CustomerName, p.Amount,
		p.GSTType, p.GSTPercentage, p.GSTAmount, p.TotalAmount, p.PaymentMethod,
		p.PaymentDate, p.InvoiceID, p.TransactionRef, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pago (borrado físico).
func (r *PaymentRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM payments WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Breakdown agrupa por (método, tipo GST) con conteo y sumas.
func (r *PaymentRepo) Breakdown(ctx context.Context, companyID string, f repository.PaymentFilter) ([]repository.PaymentBreakdown, error) {
	w := paymentWhere(companyID, f)
	query := `
		SELECT payment_method, gst_type, COUNT(*),
		       COALESCE(SUM(amount), 0), COALESCE(SUM(gst_amount), 0), COALESCE(SUM(total_amount), 0)
		FROM payments` + w.String() + `
		GROUP BY payment_method, gst_type
		ORDER BY payment_method, gst_type`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("payment breakdown: %w", err)
	}
	defer rows.Close()
	var out []repository.PaymentBreakdown
	for rows.Next() {
		var b repository.PaymentBreakdown
		if err := rows.Scan(&b.Method, &b.GSTType, &b.Count, &b.Amount, &b.GSTAmount, &b.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func paymentWhere(companyID string, f repository.PaymentFilter) *where {
	w := newWhere("company_id", companyID)
	w.scope("created_by", f.Scope)
	w.eq("payment_method", string(f.Method))
	w.eq("gst_type", string(f.GSTType))
	w.eq("reference_type", string(f.ReferenceType))
	w.eq("customer_id", f.CustomerID)
	w.eq("invoice_id", f.InvoiceID)
	w.between("payment_date", f.Date)
	return w
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.PaymentNumber, &p.ReferenceType, &p.CustomerID, &p.CustomerName, &p.Amount,
		&p.GSTType, &p.GSTPercentage, &p.GSTAmount, &p.TotalAmount, &p.PaymentMethod, &p.PaymentDate, &p.InvoiceID,
		&p.TransactionRef, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
