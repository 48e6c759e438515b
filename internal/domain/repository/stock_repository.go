package repository

import "github.com/tu-usuario/multistock/internal/domain/entity"

// StockRepository puerto para consultar/actualizar el libro de stock por
// (tienda, producto). Las escrituras siempre ocurren dentro de una transacción.
type StockRepository interface {
	// Get devuelve la fila actual; si no existe, una fila con Quantity 0 sin
	// efectos secundarios.
	Get(storeID, productID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// transacciones concurrentes sobre el mismo par; si la fila no existe la
	// crea en cero dentro de la transacción, de modo que el bloqueo siempre
	// recae sobre una fila real.
	GetForUpdate(storeID, productID string) (*entity.StockEntry, error)
	Upsert(entry *entity.StockEntry) error
	// TotalByProduct suma la cantidad del producto en todas las tiendas
	// (lectura derivada; nunca un campo materializado fuera de transacción).
	TotalByProduct(productID string) (int64, error)
	ListByStore(storeID string, limit, offset int) ([]*entity.StockEntry, error)
	ListByProduct(productID string) ([]*entity.StockEntry, error)
}
