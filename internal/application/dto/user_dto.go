package dto

import "time"

// RegisterCompanyRequest alta de empresa (tenant) con su primer SUPER_ADMIN.
type RegisterCompanyRequest struct {
	CompanyName  string `json:"company_name" validate:"required,min=2,max=200"`
	GSTIN        string `json:"gstin" validate:"omitempty,gstin"`
	Address      string `json:"address" validate:"omitempty,max=500"`
	Phone        string `json:"phone" validate:"omitempty,max=30"`
	CompanyEmail string `json:"company_email" validate:"omitempty,email"`
	AdminName    string `json:"admin_name" validate:"required,min=1,max=200"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Phone     string  `json:"phone" validate:"omitempty,max=30"`
	Role      string  `json:"role" validate:"required,oneof=SUPER_ADMIN MANAGER EMPLOYEE"`
	ManagerID *string `json:"manager_id,omitempty" validate:"omitempty,uuid"`
}

// UpdateUserRequest actualización parcial. manager_id "" desasigna el manager.
type UpdateUserRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=SUPER_ADMIN MANAGER EMPLOYEE"`
	ManagerID *string `json:"manager_id,omitempty" validate:"omitempty,uuid"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

// AssignManagerRequest body de PUT /api/users/:id/manager. Vacío desasigna.
type AssignManagerRequest struct {
	ManagerID string `json:"manager_id" validate:"omitempty,uuid"`
}

// UserListQuery filtros de GET /api/users.
type UserListQuery struct {
	Role      string `query:"role" validate:"omitempty,oneof=SUPER_ADMIN MANAGER EMPLOYEE"`
	ManagerID string `query:"manager_id"`
	Search    string `query:"search"`
	Active    bool   `query:"active"`
	PageRequest
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	ManagerID *string   `json:"manager_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MeResponse usuario autenticado con su empresa.
type MeResponse struct {
	User    UserResponse    `json:"user"`
	Company CompanyResponse `json:"company"`
}
