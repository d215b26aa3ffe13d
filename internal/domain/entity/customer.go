package entity

import "time"

// Customer representa un cliente de la empresa (facturación y pagos INTERNAL).
type Customer struct {
	ID         string
	CompanyID  string
	Name       string
	GSTIN      string
	Email      string
	Phone      string
	Address    string
	AssigneeID string // usuario responsable de la cuenta
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
