package entity

import (
	"fmt"
	"time"
)

// Role rol global de un usuario. Enumeración cerrada: los valores desconocidos
// se rechazan al construirlos con ParseRole.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleAdministrador Role = "ADMINISTRADOR"
	RoleEjecutivo     Role = "EJECUTIVO"
	RoleContabilidad  Role = "CONTABILIDAD"
	RoleSoloLectura   Role = "SOLO_LECTURA"
	RoleCliente       Role = "CLIENTE"
)

var allRoles = []Role{
	RoleSuperAdmin, RoleAdministrador, RoleEjecutivo,
	RoleContabilidad, RoleSoloLectura, RoleCliente,
}

// Roles devuelve todos los roles globales.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole convierte un string en Role; falla si no pertenece a la enumeración.
func ParseRole(s string) (Role, error) {
	for _, r := range allRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBlocked  = "blocked"
)

// User representa un usuario del sistema. Puede pertenecer a cero, una o varias empresas
// mediante CompanyMembership.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	Name                string
	Role                Role
	Status              string
	LastActiveCompanyID *string // empresa resuelta en la última petición
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsSuperAdmin informa si el usuario ignora permisos y membresías.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}
