package dto

import "time"

// CompanyResponse empresa (tenant) en respuestas.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	GSTIN       string    `json:"gstin,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	BankName    string    `json:"bank_name,omitempty"`
	BankAccount string    `json:"bank_account,omitempty"`
	IFSC        string    `json:"ifsc,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateCompanyRequest actualización parcial del perfil de la empresa (PUT /api/company).
type UpdateCompanyRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	GSTIN       *string `json:"gstin,omitempty" validate:"omitempty,gstin"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	BankName    *string `json:"bank_name,omitempty" validate:"omitempty,max=200"`
	BankAccount *string `json:"bank_account,omitempty" validate:"omitempty,max=50"`
	IFSC        *string `json:"ifsc,omitempty" validate:"omitempty,len=11"`
}
