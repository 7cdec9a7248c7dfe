package entity

import (
	"fmt"
	"time"
)

// CompanyStatus estado comercial de una empresa (tenant).
type CompanyStatus string

const (
	CompanyActivo     CompanyStatus = "ACTIVO"
	CompanyTrial      CompanyStatus = "TRIAL"
	CompanySuspendido CompanyStatus = "SUSPENDIDO"
	CompanyCancelado  CompanyStatus = "CANCELADO"
)

// Available informa si la empresa puede ofrecerse como empresa activa.
func (s CompanyStatus) Available() bool {
	return s == CompanyActivo || s == CompanyTrial
}

// Company representa una organización/tenant. Es dueña de clientes, pólizas y registros financieros.
type Company struct {
	ID        string
	Name      string
	Slug      string // único, apto para URL
	Status    CompanyStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipRole rol de un usuario dentro de una empresa concreta.
type MembershipRole string

const (
	MemberAdministrador MembershipRole = "ADMINISTRADOR"
	MemberEjecutivo     MembershipRole = "EJECUTIVO"
	MemberContabilidad  MembershipRole = "CONTABILIDAD"
	MemberSoloLectura   MembershipRole = "SOLO_LECTURA"
)

// ParseMembershipRole valida el rol de membresía.
func ParseMembershipRole(s string) (MembershipRole, error) {
	switch r := MembershipRole(s); r {
	case MemberAdministrador, MemberEjecutivo, MemberContabilidad, MemberSoloLectura:
		return r, nil
	}
	return "", fmt.Errorf("rol de empresa desconocido: %q", s)
}

// CompanyMembership asigna a un usuario un rol dentro de una empresa.
// Único por (UserID, CompanyID).
type CompanyMembership struct {
	ID        string
	UserID    string
	CompanyID string
	Role      MembershipRole
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipWithCompany membresía junto con la empresa a la que apunta.
type MembershipWithCompany struct {
	Membership CompanyMembership
	Company    Company
}
