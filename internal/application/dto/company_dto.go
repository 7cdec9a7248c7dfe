package dto

// CompanyOptionResponse empresa seleccionable y el rol del usuario en ella.
type CompanyOptionResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Role   string `json:"role,omitempty"`
}
