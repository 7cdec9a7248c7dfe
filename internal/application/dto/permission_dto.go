package dto

// PermissionRequest sobrescritura completa de los cuatro indicadores de (rol, módulo).
type PermissionRequest struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// PermissionResponse fila de la matriz.
type PermissionResponse struct {
	Role      string `json:"role"`
	Module    string `json:"module"`
	CanView   bool   `json:"can_view"`
	CanCreate bool   `json:"can_create"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// PermissionCheckResponse resultado de isAllowed para el usuario de la sesión.
type PermissionCheckResponse struct {
	Module  string `json:"module"`
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
}
