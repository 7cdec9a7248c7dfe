package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Seguros-api/internal/domain"
)

// Querier lo común entre *pgxpool.Pool y pgx.Tx: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// opFailed envuelve un fallo de infraestructura: errors.Is(err, domain.ErrOperationFailed)
// y el error original siguen accesibles.
func opFailed(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrOperationFailed, err))
}

// rowScanner pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
