package sales

import (
	"fmt"
	"strconv"
	"strings"
)

// Nombres de secuencia y prefijos públicos.
const (
	PaymentSequence = "payment"
	InvoiceSequence = "invoice"

	PaymentPrefix = "PAY"
	InvoicePrefix = "INV"
)

// FormatSequenceNumber arma el número público: PAY-0001, INV-0042, PAY-12345.
func FormatSequenceNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

// FormatPaymentNumber atajo para pagos.
func FormatPaymentNumber(n int64) string { return FormatSequenceNumber(PaymentPrefix, n) }

// FormatInvoiceNumber atajo para facturas.
func FormatInvoiceNumber(n int64) string { return FormatSequenceNumber(InvoicePrefix, n) }

// ParseSequenceNumber extrae el entero final de "PAY-0042" -> 42.
func ParseSequenceNumber(s string) (int64, error) {
	i := strings.LastIndex(s, "-")
	if i < 0 || i == len(s)-1 {
		return 0, fmt.Errorf("número de secuencia inválido: %q", s)
	}
	n, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("número de secuencia inválido: %q", s)
	}
	return n, nil
}
