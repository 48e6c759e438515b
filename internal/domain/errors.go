package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrInsufficientStock: el movimiento dejaría la cantidad negativa.
	// Normalmente llega envuelto en InsufficientStockError con el detalle.
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrEmptyTransaction: venta/compra/traslado sin líneas.
	ErrEmptyTransaction = errors.New("la transacción no tiene líneas")

	// ErrInvalidTransfer: tienda origen igual a destino, o tienda/producto inexistente.
	ErrInvalidTransfer = errors.New("traslado inválido")

	// ErrSequenceConflict: dos commits compitieron por el mismo consecutivo y la
	// base no pudo serializarlos; el caller debe reintentar la transacción completa.
	ErrSequenceConflict = errors.New("conflicto de consecutivo de orden")

	// ErrConcurrencyConflict: la base abortó la transacción por conflicto de
	// concurrencia sobre una fila de stock; el caller debe reintentar.
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia sobre stock")

	// ErrStoreReferenced / ErrProductReferenced: borrado rechazado mientras
	// existan filas de stock, movimientos o transacciones que los referencien.
	ErrStoreReferenced   = errors.New("la tienda tiene stock o transacciones asociadas")
	ErrProductReferenced = errors.New("el producto tiene stock o transacciones asociadas")
)

// InsufficientStockError detalla un faltante de stock: qué par (tienda,
// producto) falló, cuánto se pidió y cuánto había. errors.Is(err,
// ErrInsufficientStock) funciona sobre este tipo.
type InsufficientStockError struct {
	StoreID   string
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en tienda %s (solicitado %d, disponible %d)",
		e.ProductID, e.StoreID, e.Requested, e.Available)
}

// Is hace que el error detallado responda al centinela ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
