package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// StockLedger es el único punto de mutación del libro de stock. Cada Adjust
// bloquea la fila (SELECT FOR UPDATE), verifica no-negatividad y escribe
// exactamente una entrada en el log de movimientos, todo en la misma
// transacción. Las lecturas (Get, TotalStock, LowStock) no tienen efectos.
type StockLedger struct {
	txRunner  TxRunner
	stockRepo repository.StockRepository
	movRepo   repository.MovementRepository
}

// NewStockLedger construye el libro. stockRepo y movRepo van atados al pool
// (solo lecturas); las escrituras pasan por txRunner.
func NewStockLedger(txRunner TxRunner, stockRepo repository.StockRepository, movRepo repository.MovementRepository) *StockLedger {
	return &StockLedger{txRunner: txRunner, stockRepo: stockRepo, movRepo: movRepo}
}

// AdjustInput entrada para un ajuste de stock.
type AdjustInput struct {
	StoreID   string
	ProductID string
	Delta     int64 // con signo: positivo entrada, negativo salida
	Actor     string
	Reason    string
	Action    string // entity.ActionAdd, ActionSale, ActionTransferOut, ...
}

// Get devuelve la cantidad actual del par (tienda, producto); 0 si no hay fila.
func (l *StockLedger) Get(ctx context.Context, storeID, productID string) (int64, error) {
	entry, err := l.stockRepo.Get(storeID, productID)
	if err != nil {
		return 0, err
	}
	return entry.Quantity, nil
}

// TotalStock devuelve la suma del producto en todas las tiendas (lectura derivada).
func (l *StockLedger) TotalStock(ctx context.Context, productID string) (int64, error) {
	return l.stockRepo.TotalByProduct(productID)
}

// IsLowStock indica si el total del producto en todas las tiendas está en o
// bajo su umbral de alerta.
func (l *StockLedger) IsLowStock(ctx context.Context, product *entity.Product) (bool, error) {
	total, err := l.stockRepo.TotalByProduct(product.ID)
	if err != nil {
		return false, err
	}
	return product.IsLowStock(total), nil
}

// Adjust aplica un delta en su propia transacción. Es el punto de entrada
// directo sancionado para cargas masivas (action ADD, reason "Bulk Import");
// ventas, compras y traslados pasan por el motor de transacciones, que usa
// AdjustInTx dentro de su propio alcance atómico.
func (l *StockLedger) Adjust(ctx context.Context, in AdjustInput) (int64, error) {
	if in.StoreID == "" || in.ProductID == "" || in.Delta == 0 || in.Action == "" {
		return 0, domain.ErrInvalidInput
	}
	var newQty int64
	err := l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movRepo repository.MovementRepository) error {
		var err error
		newQty, err = l.AdjustInTx(stockRepo, movRepo, in, time.Now())
		return err
	})
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// AdjustInTx aplica el delta usando los repositorios del caller (misma
// transacción). Bloquea la fila (el repositorio la crea en cero si el par es
// nuevo, así el bloqueo siempre existe), calcula la nueva cantidad, rechaza
// con InsufficientStockError si quedaría negativa, persiste la cantidad y
// agrega exactamente un movimiento con el delta dado. Devuelve la nueva
// cantidad.
func (l *StockLedger) AdjustInTx(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	in AdjustInput,
	now time.Time,
) (int64, error) {
	entry, err := stockRepo.GetForUpdate(in.StoreID, in.ProductID)
	if err != nil {
		return 0, err
	}
	newQty := entry.Quantity + in.Delta
	if newQty < 0 {
		return 0, &domain.InsufficientStockError{
			StoreID:   in.StoreID,
			ProductID: in.ProductID,
			Requested: -in.Delta,
			Available: entry.Quantity,
		}
	}
	entry.Quantity = newQty
	entry.UpdatedAt = now
	if err := stockRepo.Upsert(entry); err != nil {
		return 0, err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		StoreID:   in.StoreID,
		Actor:     in.Actor,
		Action:    in.Action,
		Delta:     in.Delta,
		Reason:    in.Reason,
		CreatedAt: now,
	}
	if err := movRepo.Create(mov); err != nil {
		return 0, err
	}
	return newQty, nil
}

// Movements lista el historial de movimientos de un producto (solo lectura).
func (l *StockLedger) Movements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return l.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// MovementsByStore lista el historial de movimientos de una tienda (solo lectura).
func (l *StockLedger) MovementsByStore(ctx context.Context, storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return l.movRepo.ListByStore(storeID, from, to, limit, offset)
}
