package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto de concurrencia")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInsufficientBatchStock = errors.New("cantidad insuficiente en el lote")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrInvalidReference       = errors.New("referencia cruzada inconsistente")
)

// ValidationError señala un campo de entrada malformado.
// errors.Is(err, ErrInvalidInput) == true para mantener el mapeo HTTP por centinela.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un error de validación para un campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InsufficientStockError: el retiro pedido supera el stock activo disponible.
// Resultado de negocio esperado; se devuelve, no se reintenta.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

// Shortfall devuelve cuántas unidades faltaron para satisfacer el retiro.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en %s: pedido %s, disponible %s (faltan %s)",
		e.ProductID, e.LocationID, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InsufficientBatchQuantityError: un delta dejaría el remanente de un lote en negativo.
// Es una violación de invariante interna, no un resultado de negocio.
type InsufficientBatchQuantityError struct {
	BatchID   string
	Remaining decimal.Decimal
	Delta     decimal.Decimal
}

func (e *InsufficientBatchQuantityError) Error() string {
	return fmt.Sprintf("lote %s: remanente %s no admite delta %s", e.BatchID, e.Remaining, e.Delta)
}

func (e *InsufficientBatchQuantityError) Is(target error) bool {
	return target == ErrInsufficientBatchStock
}

// InvalidStateTransitionError: movimiento ilegal en una máquina de estados de workflow.
type InvalidStateTransitionError struct {
	Entity string // stock_transfer | replenishment_request
	ID     string
	From   string
	To     string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("%s %s: transición %s → %s no permitida", e.Entity, e.ID, e.From, e.To)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// InvalidReferenceError: una entidad enlazada no coincide con lo que el vínculo promete
// (ej. la transferencia ligada a una reposición difiere en producto, cantidad o destino).
type InvalidReferenceError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("referencia inconsistente en %s: se esperaba %s, llegó %s", e.Field, e.Expected, e.Actual)
}

func (e *InvalidReferenceError) Is(target error) bool { return target == ErrInvalidReference }

// PersistenceError envuelve un fallo de almacenamiento con el contexto de la operación.
// El núcleo no lo reintenta; sube con la causa encadenada.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
