package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Claim reclamo (siniestro) asociado a una póliza.
type Claim struct {
	ID          string
	CompanyID   string
	PolicyID    string
	Number      string
	Description string
	Amount      decimal.Decimal
	Status      string
	ReportedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
