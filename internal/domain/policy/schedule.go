// Package policy reglas puras del ciclo de vida de una póliza: plan de pagos,
// transiciones de estado y estados efectivos.
package policy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/calendar"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

// ScheduleEntry cuota calculada del plan de pagos.
type ScheduleEntry struct {
	Number  int // 1-based
	DueDate time.Time
	Amount  decimal.Decimal
}

// GenerateSchedule divide la prima en cuotas mensuales.
// La cuota i vence en startDate + i meses de calendario. Todas las cuotas valen
// round(premium/installments, 2) salvo la última, que absorbe la diferencia para que
// la suma sea exactamente la prima: 1000 en 3 cuotas => 333.33, 333.33, 333.34.
func GenerateSchedule(premium decimal.Decimal, installments int, startDate time.Time) ([]ScheduleEntry, error) {
	if installments < entity.MinInstallments || installments > entity.MaxInstallments {
		return nil, domain.Invalid("number_of_installments", "debe estar entre 1 y 6")
	}
	if !premium.IsPositive() {
		return nil, domain.Invalid("premium", "debe ser mayor que cero")
	}
	if !premium.Equal(premium.Round(2)) {
		return nil, domain.Invalid("premium", "admite como máximo 2 decimales")
	}

	start := calendar.DateOnly(startDate)
	share := premium.Div(decimal.NewFromInt(int64(installments))).Round(2)
	entries := make([]ScheduleEntry, installments)
	allocated := decimal.Zero
	for i := 0; i < installments; i++ {
		amount := share
		if i == installments-1 {
			amount = premium.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		entries[i] = ScheduleEntry{
			Number:  i + 1,
			DueDate: calendar.AddMonths(start, i),
			Amount:  amount,
		}
	}
	if !entries[installments-1].Amount.IsPositive() {
		return nil, domain.Invalid("premium", "es demasiado baja para el número de cuotas")
	}
	return entries, nil
}

// Sum total de las cuotas.
func Sum(entries []ScheduleEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
