package dto

import "time"

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	Status              string    `json:"status"`
	LastActiveCompanyID *string   `json:"last_active_company_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token de sesión y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MeResponse usuario de la sesión, empresa resuelta para esta petición y empresas disponibles.
type MeResponse struct {
	User            UserResponse            `json:"user"`
	ActiveCompanyID string                  `json:"active_company_id,omitempty"`
	Global          bool                    `json:"global"`
	Companies       []CompanyOptionResponse `json:"companies"`
}
