package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrValidation        = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbiddenCompany  = errors.New("acceso denegado a la empresa")
	ErrForbiddenAction   = errors.New("acción no permitida")
	ErrNoCompanySelected = errors.New("no hay empresa activa seleccionada")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrAlreadyTerminal   = errors.New("el registro ya está en un estado final")
	ErrScheduleLocked    = errors.New("el plan de pagos está bloqueado: existen pagos activos")
	ErrNoRateFound       = errors.New("no se encontró tasa de comisión aplicable")
	ErrImmutableRole     = errors.New("los permisos de SUPER_ADMIN no se pueden modificar")
	ErrOperationFailed   = errors.New("la operación falló")
)

// TransitionError describe un movimiento ilegal en una máquina de estados.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: transición inválida %s -> %s", e.Entity, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// NewTransitionError construye el error con el estado actual y el solicitado.
func NewTransitionError(entity, from, to string) error {
	return &TransitionError{Entity: entity, From: from, To: to}
}

// ValidationError indica qué campo de la entrada es inválido.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid atajo para construir un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ActionError se devuelve cuando el rol global no tiene permiso sobre el módulo.
type ActionError struct {
	Module string
	Action string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("acción %s no permitida en el módulo %s", e.Action, e.Module)
}

func (e *ActionError) Unwrap() error { return ErrForbiddenAction }

// TerminalError se devuelve al intentar mover un registro que ya está en estado final.
type TerminalError struct {
	Entity string
	Status string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("%s ya está en estado final %s", e.Entity, e.Status)
}

func (e *TerminalError) Unwrap() error { return ErrAlreadyTerminal }
