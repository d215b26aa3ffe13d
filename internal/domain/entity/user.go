package entity

import "time"

// Role rol de un usuario dentro de su empresa.
type Role string

// Roles válidos para User.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
)

// Valid indica si el rol es uno de los tres conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
// La jerarquía es de dos niveles: EMPLOYEE -> MANAGER. Un MANAGER no tiene manager.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Phone        string
	Role         Role
	ManagerID    *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ManagerIDValue devuelve el ManagerID o "" si no tiene.
func (u *User) ManagerIDValue() string {
	if u.ManagerID == nil {
		return ""
	}
	return *u.ManagerID
}
