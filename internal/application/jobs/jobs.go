// Package jobs tareas diarias del worker: generación de renovaciones y avisos de atraso.
package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Seguros-api/internal/application/payments"
	"github.com/jhoicas/Seguros-api/internal/application/renewals"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// Summary resultado de una corrida.
type Summary struct {
	RenewalsScanned  int
	RenewalsCreated  int
	RenewalsExisting int
	RenewalsOverdue  int
	PaymentsOverdue  int
}

// Runner ejecuta las tareas sobre todas las empresas. Cada paso es idempotente,
// así que una corrida repetida o concurrente no duplica renovaciones.
type Runner struct {
	renewals  *renewals.UseCase
	payments  *payments.UseCase
	lookahead int
	now       func() time.Time
	log       *logger.Logger
}

// NewRunner construye el runner.
func NewRunner(r *renewals.UseCase, p *payments.UseCase, lookaheadDays int, now func() time.Time, log *logger.Logger) *Runner {
	if now == nil {
		now = time.Now
	}
	return &Runner{renewals: r, payments: p, lookahead: lookaheadDays, now: now, log: log.Component("jobs")}
}

// RunOnce corre los tres pasos. Un paso fallido no impide los siguientes; los errores se
// devuelven juntos.
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	var sum Summary
	var errs []error
	start := r.now()

	gen, err := r.renewals.Generate(ctx, "", r.lookahead)
	if gen != nil {
		sum.RenewalsScanned, sum.RenewalsCreated, sum.RenewalsExisting = gen.Scanned, gen.Created, gen.Existing
	}
	if err != nil {
		errs = append(errs, err)
	}
	if sum.RenewalsOverdue, err = r.renewals.ReportOverdue(ctx, start); err != nil {
		errs = append(errs, err)
	}
	if sum.PaymentsOverdue, err = r.payments.ReportOverdue(ctx, start); err != nil {
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	ev := r.log.Info()
	if err != nil {
		ev = r.log.Error().Err(err)
	}
	ev.Int("renewals_created", sum.RenewalsCreated).
		Int("renewals_existing", sum.RenewalsExisting).
		Int("renewals_overdue", sum.RenewalsOverdue).
		Int("payments_overdue", sum.PaymentsOverdue).
		Dur("elapsed", r.now().Sub(start)).
		Msg("corrida de tareas diarias")
	return sum, err
}

// NextRun primera hora hour:00 estrictamente posterior a now, en la zona de now.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Loop espera a la primera corrida a las hour:00 y luego repite cada interval hasta que
// ctx se cancele.
func (r *Runner) Loop(ctx context.Context, hour int, interval time.Duration) {
	first := NextRun(r.now(), hour)
	r.log.Info().Time("next_run", first).Dur("interval", interval).Msg("worker programado")

	timer := time.NewTimer(first.Sub(r.now()))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("worker detenido")
			return
		case <-timer.C:
			_, _ = r.RunOnce(ctx)
			timer.Reset(interval)
		}
	}
}
