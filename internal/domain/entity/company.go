package entity

import "time"

// Company representa una organización/tenant del sistema.
// Los datos bancarios se imprimen en el PDF de las facturas.
type Company struct {
	ID          string
	Name        string
	GSTIN       string
	Address     string
	Phone       string
	Email       string
	BankName    string
	BankAccount string
	IFSC        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
