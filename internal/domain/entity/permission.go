package entity

import "fmt"

// Module área funcional usada como unidad de permisos.
type Module string

const (
	ModuleDashboard   Module = "DASHBOARD"
	ModuleClients     Module = "CLIENTS"
	ModulePolicies    Module = "POLICIES"
	ModuleInsurers    Module = "INSURERS"
	ModuleClaims      Module = "CLAIMS"
	ModulePayments    Module = "PAYMENTS"
	ModuleRenewals    Module = "RENEWALS"
	ModuleCommissions Module = "COMMISSIONS"
	ModuleReports     Module = "REPORTS"
	ModuleUsers       Module = "USERS"
	ModuleCompanies   Module = "COMPANIES"
	ModuleSettings    Module = "SETTINGS"
	ModuleCalendar    Module = "CALENDAR"
	ModuleTasks       Module = "TASKS"
)

var allModules = []Module{
	ModuleDashboard, ModuleClients, ModulePolicies, ModuleInsurers, ModuleClaims,
	ModulePayments, ModuleRenewals, ModuleCommissions, ModuleReports, ModuleUsers,
	ModuleCompanies, ModuleSettings, ModuleCalendar, ModuleTasks,
}

// Modules devuelve la enumeración completa de módulos en orden estable.
func Modules() []Module {
	out := make([]Module, len(allModules))
	copy(out, allModules)
	return out
}

// ParseModule valida el nombre de un módulo.
func ParseModule(s string) (Module, error) {
	for _, m := range allModules {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("módulo desconocido: %q", s)
}

// Action operación que se autoriza sobre un módulo.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ParseAction valida la acción.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionView, ActionCreate, ActionEdit, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("acción desconocida: %q", s)
}

// Permissions los cuatro indicadores de un par (rol, módulo).
type Permissions struct {
	CanView   bool
	CanCreate bool
	CanEdit   bool
	CanDelete bool
}

// Allows informa si la acción está concedida.
func (p Permissions) Allows(a Action) bool {
	switch a {
	case ActionView:
		return p.CanView
	case ActionCreate:
		return p.CanCreate
	case ActionEdit:
		return p.CanEdit
	case ActionDelete:
		return p.CanDelete
	}
	return false
}

// AllPermissions concede las cuatro acciones (usado para SUPER_ADMIN, que nunca se persiste).
var AllPermissions = Permissions{CanView: true, CanCreate: true, CanEdit: true, CanDelete: true}

// ModulePermission fila de la matriz (rol global, módulo) -> permisos.
type ModulePermission struct {
	Role   Role
	Module Module
	Permissions
}
