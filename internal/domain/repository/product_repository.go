package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/multistock/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
// Delete debe fallar con domain.ErrProductReferenced mientras existan filas de
// stock, movimientos o líneas de transacción que referencien el producto.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdatePurchasePrice actualiza solo el costo de referencia (lo usa el motor
	// al registrar compras; informativo, no participa en invariantes).
	UpdatePurchasePrice(productID string, cost decimal.Decimal) error
	Delete(id string) error
}
