// Package calendar aritmética de fechas de calendario (sin hora) usada por los motores.
package calendar

import "time"

// DateOnly trunca t a la medianoche UTC de su fecha de calendario.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysIn devuelve la cantidad de días del mes.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths suma n meses de calendario. Si el día no existe en el mes destino se
// ajusta al último día (31 ene + 1 mes = 28/29 feb), a diferencia de time.AddDate
// que desborda al mes siguiente.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// AddDays suma n días a una fecha de calendario.
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}
