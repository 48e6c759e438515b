package repository

import (
	"time"

	"github.com/tu-usuario/multistock/internal/domain/entity"
)

// MovementRepository puerto de persistencia del log de movimientos (append-only).
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// SumDeltas suma todos los deltas del par (tienda, producto); debe coincidir
	// siempre con StockEntry.Quantity (invariante libro/log).
	SumDeltas(storeID, productID string) (int64, error)
}
