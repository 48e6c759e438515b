package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/multistock/internal/application/ledger"
	"github.com/tu-usuario/multistock/internal/application/sequence"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// TransactionEngine orquesta ventas, compras y traslados: valida la entrada,
// bloquea las filas de stock necesarias en orden determinista, aplica los
// deltas a través del StockLedger, persiste cabecera y líneas y acuña el order
// id, todo como una unidad atómica. Es el único componente autorizado a mutar
// el libro fuera del punto de entrada directo de carga masiva.
type TransactionEngine struct {
	txRunner        TxRunner
	ledger          *ledger.StockLedger
	seqGen          *sequence.Generator
	storeRepo       repository.StoreRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	salesPersonRepo repository.SalesPersonRepository
}

// NewTransactionEngine construye el motor.
func NewTransactionEngine(
	txRunner TxRunner,
	stockLedger *ledger.StockLedger,
	seqGen *sequence.Generator,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	salesPersonRepo repository.SalesPersonRepository,
) *TransactionEngine {
	return &TransactionEngine{
		txRunner:        txRunner,
		ledger:          stockLedger,
		seqGen:          seqGen,
		storeRepo:       storeRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		salesPersonRepo: salesPersonRepo,
	}
}

// Line una línea de transacción: producto, cantidad y precio/costo unitario.
// En traslados UnitPrice se ignora y se fuerza a cero.
type Line struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// SaleInput entrada para RecordSale. Las líneas son un valor con alcance de
// request (el carrito vive en el caller); el motor no guarda estado de sesión.
type SaleInput struct {
	SourceStoreID string
	CustomerID    *string
	SalesPersonID *string
	Actor         string
	Lines         []Line
}

// PurchaseInput entrada para RecordPurchase.
type PurchaseInput struct {
	DestinationStoreID string
	Supplier           string
	Note               string
	Actor              string
	Lines              []Line
}

// TransferInput entrada para RecordTransfer.
type TransferInput struct {
	SourceStoreID      string
	DestinationStoreID string
	Actor              string
	Lines              []Line
}

// SaleResult venta o traslado confirmado, con sus líneas.
type SaleResult struct {
	Sale  *entity.Sale
	Items []*entity.SaleItem
}

// PurchaseResult compra confirmada, con sus líneas.
type PurchaseResult struct {
	Purchase *entity.Purchase
	Items    []*entity.PurchaseItem
}

// lockKey identifica una fila del libro a bloquear. El orden (StoreID,
// ProductID) es el orden canónico de adquisición: todas las transacciones
// bloquean en la misma secuencia, lo que evita deadlocks entre transacciones
// que tocan varias filas.
type lockKey struct {
	StoreID   string
	ProductID string
}

func sortedLockKeys(set map[lockKey]struct{}) []lockKey {
	keys := make([]lockKey, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StoreID != keys[j].StoreID {
			return keys[i].StoreID < keys[j].StoreID
		}
		return keys[i].ProductID < keys[j].ProductID
	})
	return keys
}

// RecordSale registra una venta: verifica stock suficiente en la tienda origen
// para cada línea, acuña el order id SO-, descuenta el stock línea a línea
// (una entrada de log por línea) y persiste cabecera e ítems. Cualquier fallo
// revierte todo, incluido el consecutivo.
func (e *TransactionEngine) RecordSale(ctx context.Context, in SaleInput) (*SaleResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyTransaction
	}
	if err := e.validateLines(in.Lines); err != nil {
		return nil, err
	}
	store, err := e.storeRepo.GetByID(in.SourceStoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if in.CustomerID != nil {
		customer, err := e.customerRepo.GetByID(*in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.SalesPersonID != nil {
		sp, err := e.salesPersonRepo.GetByID(*in.SalesPersonID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, domain.ErrNotFound
		}
	}
	if err := e.checkProductsExist(in.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *SaleResult
	err = e.txRunner.RunTransaction(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.ProductRepository,
	) error {
		// Bloqueo + verificación de suficiencia bajo el mismo alcance que la
		// mutación: validar y mutar en alcances separados reabre la carrera de
		// doble venta.
		if err := e.lockAndCheck(stockRepo, in.SourceStoreID, in.Lines, nil); err != nil {
			return err
		}

		orderID, err := e.seqGen.Next(seqRepo, sequence.FamilySale)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Lines {
			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}
		sale := &entity.Sale{
			ID:            uuid.New().String(),
			OrderID:       orderID,
			CustomerID:    in.CustomerID,
			SalesPersonID: in.SalesPersonID,
			SourceStoreID: in.SourceStoreID,
			IsTransfer:    false,
			TotalAmount:   total,
			CreatedBy:     in.Actor,
			CreatedAt:     now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		items := make([]*entity.SaleItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			if _, err := e.ledger.AdjustInTx(stockRepo, movRepo, ledger.AdjustInput{
				StoreID:   in.SourceStoreID,
				ProductID: line.ProductID,
				Delta:     -line.Quantity,
				Actor:     in.Actor,
				Reason:    "Sale " + orderID,
				Action:    entity.ActionSale,
			}, now); err != nil {
				return err
			}
			item := &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
			}
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		result = &SaleResult{Sale: sale, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordPurchase registra una compra: acuña el order id PO-, suma el stock en
// la tienda destino línea a línea y actualiza el costo de referencia del
// producto al último costo unitario (informativo).
func (e *TransactionEngine) RecordPurchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyTransaction
	}
	if err := e.validateLines(in.Lines); err != nil {
		return nil, err
	}
	store, err := e.storeRepo.GetByID(in.DestinationStoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	if err := e.checkProductsExist(in.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	var result *PurchaseResult
	err = e.txRunner.RunTransaction(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
		productRepo repository.ProductRepository,
	) error {
		// Una compra nunca es insuficiente, pero sus filas se bloquean en el
		// mismo orden canónico que ventas y traslados para no cruzarse en
		// deadlock con una transacción concurrente sobre los mismos pares.
		keys := make(map[lockKey]struct{}, len(in.Lines))
		for _, line := range in.Lines {
			keys[lockKey{StoreID: in.DestinationStoreID, ProductID: line.ProductID}] = struct{}{}
		}
		if _, err := e.lockRows(stockRepo, keys); err != nil {
			return err
		}

		orderID, err := e.seqGen.Next(seqRepo, sequence.FamilyPurchase)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Lines {
			total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
		}
		purchase := &entity.Purchase{
			ID:                 uuid.New().String(),
			OrderID:            orderID,
			Supplier:           in.Supplier,
			DestinationStoreID: in.DestinationStoreID,
			TotalAmount:        total,
			Note:               in.Note,
			CreatedBy:          in.Actor,
			CreatedAt:          now,
		}
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}

		items := make([]*entity.PurchaseItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			if _, err := e.ledger.AdjustInTx(stockRepo, movRepo, ledger.AdjustInput{
				StoreID:   in.DestinationStoreID,
				ProductID: line.ProductID,
				Delta:     line.Quantity,
				Actor:     in.Actor,
				Reason:    "Purchase " + orderID,
				Action:    entity.ActionPurchase,
			}, now); err != nil {
				return err
			}
			if err := productRepo.UpdatePurchasePrice(line.ProductID, line.UnitPrice); err != nil {
				return err
			}
			item := &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: purchase.ID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitPrice,
				Subtotal:   line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)),
			}
			if err := purchaseRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		result = &PurchaseResult{Purchase: purchase, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordTransfer registra un traslado entre tiendas: verifica stock en la
// tienda origen, acuña el order id TR- y por cada línea descuenta en origen y
// suma en destino (dos entradas de log por línea). Precio forzado a cero,
// total cero. La cantidad total del producto en el sistema no cambia.
func (e *TransactionEngine) RecordTransfer(ctx context.Context, in TransferInput) (*SaleResult, error) {
	if in.SourceStoreID == in.DestinationStoreID {
		return nil, domain.ErrInvalidTransfer
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyTransaction
	}
	if err := e.validateLines(in.Lines); err != nil {
		return nil, err
	}
	source, err := e.storeRepo.GetByID(in.SourceStoreID)
	if err != nil {
		return nil, err
	}
	dest, err := e.storeRepo.GetByID(in.DestinationStoreID)
	if err != nil {
		return nil, err
	}
	if source == nil || dest == nil {
		return nil, domain.ErrInvalidTransfer
	}
	if err := e.checkProductsExist(in.Lines); err != nil {
		return nil, err
	}

	now := time.Now()
	destID := in.DestinationStoreID
	var result *SaleResult
	err = e.txRunner.RunTransaction(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.ProductRepository,
	) error {
		// Bloquea también las filas destino: el traslado toca ambas tiendas y
		// los bloqueos se adquieren en el orden canónico global.
		destKeys := make(map[lockKey]struct{}, len(in.Lines))
		for _, line := range in.Lines {
			destKeys[lockKey{StoreID: destID, ProductID: line.ProductID}] = struct{}{}
		}
		if err := e.lockAndCheck(stockRepo, in.SourceStoreID, in.Lines, destKeys); err != nil {
			return err
		}

		orderID, err := e.seqGen.Next(seqRepo, sequence.FamilyTransfer)
		if err != nil {
			return err
		}

		sale := &entity.Sale{
			ID:                 uuid.New().String(),
			OrderID:            orderID,
			SourceStoreID:      in.SourceStoreID,
			DestinationStoreID: &destID,
			IsTransfer:         true,
			TotalAmount:        decimal.Zero,
			CreatedBy:          in.Actor,
			CreatedAt:          now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		items := make([]*entity.SaleItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			if _, err := e.ledger.AdjustInTx(stockRepo, movRepo, ledger.AdjustInput{
				StoreID:   in.SourceStoreID,
				ProductID: line.ProductID,
				Delta:     -line.Quantity,
				Actor:     in.Actor,
				Reason:    "Transfer " + orderID,
				Action:    entity.ActionTransferOut,
			}, now); err != nil {
				return err
			}
			if _, err := e.ledger.AdjustInTx(stockRepo, movRepo, ledger.AdjustInput{
				StoreID:   destID,
				ProductID: line.ProductID,
				Delta:     line.Quantity,
				Actor:     in.Actor,
				Reason:    "Transfer " + orderID,
				Action:    entity.ActionTransferIn,
			}, now); err != nil {
				return err
			}
			item := &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: decimal.Zero,
				Subtotal:  decimal.Zero,
			}
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
			items = append(items, item)
		}
		result = &SaleResult{Sale: sale, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateLines verifica cantidades positivas y precios no negativos.
func (e *TransactionEngine) validateLines(lines []Line) error {
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 || line.UnitPrice.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// checkProductsExist verifica que cada producto referenciado exista (lectura
// fuera de la tx; la suficiencia de stock se verifica de nuevo bajo bloqueo).
func (e *TransactionEngine) checkProductsExist(lines []Line) error {
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		product, err := e.productRepo.GetByID(line.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// lockRows adquiere los bloqueos de fila en orden canónico y devuelve la
// cantidad disponible de cada par. Toda transacción del motor pasa por aquí
// antes de mutar: adquirir en otro orden abre deadlocks entre transacciones
// que tocan las mismas filas.
func (e *TransactionEngine) lockRows(
	stockRepo repository.StockRepository,
	keys map[lockKey]struct{},
) (map[lockKey]int64, error) {
	available := make(map[lockKey]int64, len(keys))
	for _, k := range sortedLockKeys(keys) {
		entry, err := stockRepo.GetForUpdate(k.StoreID, k.ProductID)
		if err != nil {
			return nil, err
		}
		available[k] = entry.Quantity
	}
	return available, nil
}

// lockAndCheck adquiere los bloqueos de fila en orden canónico (origen +
// extraKeys) y verifica que la tienda origen cubra la cantidad acumulada de
// cada línea. Reporta el faltante de la primera línea que falla, en el orden
// de entrada. Debe llamarse dentro de la transacción que luego muta.
func (e *TransactionEngine) lockAndCheck(
	stockRepo repository.StockRepository,
	sourceStoreID string,
	lines []Line,
	extraKeys map[lockKey]struct{},
) error {
	keys := make(map[lockKey]struct{}, len(lines)+len(extraKeys))
	for _, line := range lines {
		keys[lockKey{StoreID: sourceStoreID, ProductID: line.ProductID}] = struct{}{}
	}
	for k := range extraKeys {
		keys[k] = struct{}{}
	}

	available, err := e.lockRows(stockRepo, keys)
	if err != nil {
		return err
	}

	// Suficiencia en orden de entrada, acumulando por producto (el mismo
	// producto puede aparecer en varias líneas).
	needed := make(map[string]int64, len(lines))
	for _, line := range lines {
		needed[line.ProductID] += line.Quantity
		avail := available[lockKey{StoreID: sourceStoreID, ProductID: line.ProductID}]
		if needed[line.ProductID] > avail {
			return &domain.InsufficientStockError{
				StoreID:   sourceStoreID,
				ProductID: line.ProductID,
				Requested: needed[line.ProductID],
				Available: avail,
			}
		}
	}
	return nil
}
