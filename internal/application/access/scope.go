// Package access reúne la resolución de empresa activa y la evaluación de permisos:
// el punto único por el que pasa toda operación antes de tocar datos de un tenant.
package access

import (
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// GlobalCompany valor de X-Company-ID con el que SUPER_ADMIN pide la vista sin empresa.
const GlobalCompany = "global"

// Scope contexto resuelto de una petición: quién actúa y sobre qué empresa.
// CompanyID vacío y Global=false equivale a "ninguna empresa seleccionada".
type Scope struct {
	User      *entity.User
	CompanyID string
	Global    bool
}

// NoCompanySelected informa si la resolución no encontró empresa.
func (s Scope) NoCompanySelected() bool {
	return s.CompanyID == "" && !s.Global
}

// RequireCompany exige una empresa concreta (operaciones de escritura que crean filas de tenant).
func (s Scope) RequireCompany() (string, error) {
	if s.CompanyID == "" {
		return "", domain.ErrNoCompanySelected
	}
	return s.CompanyID, nil
}

// Sees informa si una fila de la empresa companyID es visible. Las filas de otra empresa
// se reportan como no encontradas para no revelar su existencia.
func (s Scope) Sees(companyID string) bool {
	if s.Global {
		return true
	}
	return s.CompanyID != "" && s.CompanyID == companyID
}

// CompanyFilter empresa a usar en listados: vacío en la vista global.
func (s Scope) CompanyFilter() (string, error) {
	if s.Global {
		return "", nil
	}
	return s.RequireCompany()
}
