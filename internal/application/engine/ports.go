package engine

import (
	"context"

	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que cubre el libro de
// stock, el log de movimientos, el contador de consecutivos y las cabeceras de
// venta/compra. Validación, acuñado del order id, deltas y persistencia de la
// transacción comparten este único alcance atómico: o se confirma todo, o nada.
type TxRunner interface {
	RunTransaction(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
		saleRepo repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
	) error) error
}
