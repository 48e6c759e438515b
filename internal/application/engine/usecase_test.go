package engine_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/multistock/internal/application/engine"
	"github.com/tu-usuario/multistock/internal/application/ledger"
	"github.com/tu-usuario/multistock/internal/application/sequence"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// memDB: base en memoria con semántica transaccional.
//
// El fakeTxRunner toma el mutex durante toda la transacción (serializa los
// commits, como haría el bloqueo de fila del contador) y restaura un snapshot
// si la función falla, como un ROLLBACK: ni stock, ni movimientos, ni
// cabeceras, ni consecutivo sobreviven a una transacción abortada.
// ──────────────────────────────────────────────────────────────────────────────

type stockKey struct {
	storeID   string
	productID string
}

type memDB struct {
	mu sync.Mutex

	stock         map[stockKey]int64
	movs          []*entity.StockMovement
	seq           map[string]int64
	sales         []*entity.Sale
	saleItems     []*entity.SaleItem
	purchases     []*entity.Purchase
	purchaseItems []*entity.PurchaseItem

	stores      map[string]*entity.Store
	products    map[string]*entity.Product
	customers   map[string]*entity.Customer
	salesPeople map[string]*entity.SalesPerson

	// failNextSaleItem hace fallar el próximo CreateItem de venta, para
	// verificar que un fallo a mitad de transacción revierte todo.
	failNextSaleItem bool

	// lockOrder registra cada GetForUpdate, en orden, para comprobar que
	// todos los tipos de transacción bloquean filas en el mismo orden.
	lockOrder []stockKey
}

func newMemDB() *memDB {
	return &memDB{
		stock:       make(map[stockKey]int64),
		seq:         make(map[string]int64),
		stores:      make(map[string]*entity.Store),
		products:    make(map[string]*entity.Product),
		customers:   make(map[string]*entity.Customer),
		salesPeople: make(map[string]*entity.SalesPerson),
	}
}

type dbSnapshot struct {
	stock          map[stockKey]int64
	seq            map[string]int64
	productPrices  map[string]decimal.Decimal
	nMovs          int
	nSales         int
	nSaleItems     int
	nPurchases     int
	nPurchaseItems int
}

func (db *memDB) snapshot() dbSnapshot {
	s := dbSnapshot{
		stock:          make(map[stockKey]int64, len(db.stock)),
		seq:            make(map[string]int64, len(db.seq)),
		productPrices:  make(map[string]decimal.Decimal, len(db.products)),
		nMovs:          len(db.movs),
		nSales:         len(db.sales),
		nSaleItems:     len(db.saleItems),
		nPurchases:     len(db.purchases),
		nPurchaseItems: len(db.purchaseItems),
	}
	for k, v := range db.stock {
		s.stock[k] = v
	}
	for k, v := range db.seq {
		s.seq[k] = v
	}
	for id, p := range db.products {
		s.productPrices[id] = p.PurchasePrice
	}
	return s
}

func (db *memDB) restore(s dbSnapshot) {
	db.stock = s.stock
	db.seq = s.seq
	db.movs = db.movs[:s.nMovs]
	db.sales = db.sales[:s.nSales]
	db.saleItems = db.saleItems[:s.nSaleItems]
	db.purchases = db.purchases[:s.nPurchases]
	db.purchaseItems = db.purchaseItems[:s.nPurchaseItems]
	for id, price := range s.productPrices {
		db.products[id].PurchasePrice = price
	}
}

// ── repos fake ────────────────────────────────────────────────────────────────

type fakeStockRepo struct{ db *memDB }

func (r *fakeStockRepo) Get(storeID, productID string) (*entity.StockEntry, error) {
	return &entity.StockEntry{StoreID: storeID, ProductID: productID, Quantity: r.db.stock[stockKey{storeID, productID}]}, nil
}
func (r *fakeStockRepo) GetForUpdate(storeID, productID string) (*entity.StockEntry, error) {
	r.db.lockOrder = append(r.db.lockOrder, stockKey{storeID, productID})
	return r.Get(storeID, productID)
}
func (r *fakeStockRepo) Upsert(entry *entity.StockEntry) error {
	r.db.stock[stockKey{entry.StoreID, entry.ProductID}] = entry.Quantity
	return nil
}
func (r *fakeStockRepo) TotalByProduct(productID string) (int64, error) {
	var total int64
	for k, qty := range r.db.stock {
		if k.productID == productID {
			total += qty
		}
	}
	return total, nil
}
func (r *fakeStockRepo) ListByStore(storeID string, limit, offset int) ([]*entity.StockEntry, error) {
	return nil, nil
}
func (r *fakeStockRepo) ListByProduct(productID string) ([]*entity.StockEntry, error) {
	return nil, nil
}

type fakeMovementRepo struct{ db *memDB }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	m.Seq = int64(len(r.db.movs) + 1)
	r.db.movs = append(r.db.movs, m)
	return nil
}
func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) ListByStore(storeID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) SumDeltas(storeID, productID string) (int64, error) {
	var sum int64
	for _, m := range r.db.movs {
		if m.StoreID == storeID && m.ProductID == productID {
			sum += m.Delta
		}
	}
	return sum, nil
}

type fakeSeqRepo struct{ db *memDB }

func (r *fakeSeqRepo) Next(family string) (int64, error) {
	r.db.seq[family]++
	return r.db.seq[family], nil
}
func (r *fakeSeqRepo) Current(family string) (int64, error) { return r.db.seq[family], nil }

type fakeSaleRepo struct{ db *memDB }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	for _, s := range r.db.sales {
		if s.OrderID == sale.OrderID {
			return domain.ErrSequenceConflict
		}
	}
	r.db.sales = append(r.db.sales, sale)
	return nil
}
func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	if r.db.failNextSaleItem {
		r.db.failNextSaleItem = false
		return fmt.Errorf("fallo inyectado al insertar línea")
	}
	r.db.saleItems = append(r.db.saleItems, item)
	return nil
}
func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.db.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}
func (r *fakeSaleRepo) GetByOrderID(orderID string) (*entity.Sale, error) {
	for _, s := range r.db.sales {
		if s.OrderID == orderID {
			return s, nil
		}
	}
	return nil, nil
}
func (r *fakeSaleRepo) ItemsBySale(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.db.saleItems {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *fakeSaleRepo) List(isTransfer *bool, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.db.sales {
		if isTransfer == nil || s.IsTransfer == *isTransfer {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakePurchaseRepo struct{ db *memDB }

func (r *fakePurchaseRepo) Create(p *entity.Purchase) error {
	for _, existing := range r.db.purchases {
		if existing.OrderID == p.OrderID {
			return domain.ErrSequenceConflict
		}
	}
	r.db.purchases = append(r.db.purchases, p)
	return nil
}
func (r *fakePurchaseRepo) CreateItem(item *entity.PurchaseItem) error {
	r.db.purchaseItems = append(r.db.purchaseItems, item)
	return nil
}
func (r *fakePurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	for _, p := range r.db.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePurchaseRepo) GetByOrderID(orderID string) (*entity.Purchase, error) {
	for _, p := range r.db.purchases {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakePurchaseRepo) ItemsByPurchase(purchaseID string) ([]*entity.PurchaseItem, error) {
	var out []*entity.PurchaseItem
	for _, it := range r.db.purchaseItems {
		if it.PurchaseID == purchaseID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *fakePurchaseRepo) List(limit, offset int) ([]*entity.Purchase, error) {
	return r.db.purchases, nil
}

type fakeStoreRepo struct{ db *memDB }

func (r *fakeStoreRepo) Create(s *entity.Store) error { r.db.stores[s.ID] = s; return nil }
func (r *fakeStoreRepo) GetByID(id string) (*entity.Store, error) {
	return r.db.stores[id], nil
}
func (r *fakeStoreRepo) GetByName(name string) (*entity.Store, error) { return nil, nil }
func (r *fakeStoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	return nil, nil
}
func (r *fakeStoreRepo) Update(s *entity.Store) error { return nil }
func (r *fakeStoreRepo) Delete(id string) error       { return nil }

type fakeProductRepo struct{ db *memDB }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.db.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.db.products[id], nil
}
func (r *fakeProductRepo) GetByCode(code string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }
func (r *fakeProductRepo) UpdatePurchasePrice(productID string, cost decimal.Decimal) error {
	p, ok := r.db.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.PurchasePrice = cost
	return nil
}
func (r *fakeProductRepo) Delete(id string) error { return nil }

type fakeCustomerRepo struct{ db *memDB }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.db.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.db.customers[id], nil
}
func (r *fakeCustomerRepo) GetByPhone(phone string) (*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) Delete(id string) error          { return nil }

type fakeSalesPersonRepo struct{ db *memDB }

func (r *fakeSalesPersonRepo) Create(sp *entity.SalesPerson) error {
	r.db.salesPeople[sp.ID] = sp
	return nil
}
func (r *fakeSalesPersonRepo) GetByID(id string) (*entity.SalesPerson, error) {
	return r.db.salesPeople[id], nil
}
func (r *fakeSalesPersonRepo) ListActive() ([]*entity.SalesPerson, error) { return nil, nil }
func (r *fakeSalesPersonRepo) Update(sp *entity.SalesPerson) error        { return nil }

// fakeTxRunner implementa tanto el runner del libro como el del motor.
type fakeTxRunner struct{ db *memDB }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
) error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	snap := t.db.snapshot()
	if err := fn(&fakeStockRepo{t.db}, &fakeMovementRepo{t.db}); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

func (t *fakeTxRunner) RunTransaction(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	snap := t.db.snapshot()
	err := fn(&fakeStockRepo{t.db}, &fakeMovementRepo{t.db}, &fakeSeqRepo{t.db},
		&fakeSaleRepo{t.db}, &fakePurchaseRepo{t.db}, &fakeProductRepo{t.db})
	if err != nil {
		t.db.restore(snap)
	}
	return err
}

// ── fixture ──────────────────────────────────────────────────────────────────

func buildEngine() (*engine.TransactionEngine, *memDB) {
	db := newMemDB()
	db.stores["tienda-centro"] = &entity.Store{ID: "tienda-centro", Name: "Centro"}
	db.stores["tienda-norte"] = &entity.Store{ID: "tienda-norte", Name: "Norte"}
	db.products["prod-cafe"] = &entity.Product{
		ID: "prod-cafe", Code: "CAFE-500", Name: "Café 500g",
		SellingPrice: decimal.RequireFromString("5.00"), MinStockAlert: 5,
	}
	db.products["prod-azucar"] = &entity.Product{
		ID: "prod-azucar", Code: "AZU-1000", Name: "Azúcar 1kg",
		SellingPrice: decimal.RequireFromString("2.50"), MinStockAlert: 10,
	}
	db.customers["cli-1"] = &entity.Customer{ID: "cli-1", Name: "Cliente Uno", Phone: "3001112233"}
	db.salesPeople["vend-1"] = &entity.SalesPerson{ID: "vend-1", Name: "Vendedor Uno", IsActive: true}

	tx := &fakeTxRunner{db}
	stockLedger := ledger.NewStockLedger(tx, &fakeStockRepo{db}, &fakeMovementRepo{db})
	eng := engine.NewTransactionEngine(
		tx, stockLedger, sequence.NewGenerator(),
		&fakeStoreRepo{db}, &fakeProductRepo{db}, &fakeCustomerRepo{db}, &fakeSalesPersonRepo{db},
	)
	return eng, db
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Tests RecordPurchase
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPurchase_SumaStockYAcunaConsecutivoPO(t *testing.T) {
	eng, db := buildEngine()

	res, err := eng.RecordPurchase(context.Background(), engine.PurchaseInput{
		DestinationStoreID: "tienda-centro",
		Supplier:           "Proveedor Andino",
		Actor:              "user-1",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 10, UnitPrice: price("3.20")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-0001", res.Purchase.OrderID)
	assert.True(t, res.Purchase.TotalAmount.Equal(price("32.00")))
	assert.Equal(t, int64(10), db.stock[stockKey{"tienda-centro", "prod-cafe"}])

	require.Len(t, db.movs, 1)
	assert.Equal(t, entity.ActionPurchase, db.movs[0].Action)
	assert.Equal(t, int64(10), db.movs[0].Delta)

	// El costo de referencia del producto se actualiza al último costo de compra.
	assert.True(t, db.products["prod-cafe"].PurchasePrice.Equal(price("3.20")))

	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].Subtotal.Equal(price("32.00")))
}

func TestRecordPurchase_UltimaLineaFijaElCostoDeReferencia(t *testing.T) {
	eng, db := buildEngine()

	_, err := eng.RecordPurchase(context.Background(), engine.PurchaseInput{
		DestinationStoreID: "tienda-centro",
		Supplier:           "Proveedor Andino",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 5, UnitPrice: price("4.00")},
			{ProductID: "prod-cafe", Quantity: 5, UnitPrice: price("6.00")},
		},
	})
	require.NoError(t, err)

	assert.True(t, db.products["prod-cafe"].PurchasePrice.Equal(price("6.00")))
	assert.Equal(t, int64(10), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
}

func TestRecordPurchase_TiendaInexistente(t *testing.T) {
	eng, _ := buildEngine()

	_, err := eng.RecordPurchase(context.Background(), engine.PurchaseInput{
		DestinationStoreID: "tienda-fantasma",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 1, UnitPrice: price("1.00")}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RecordSale
// ──────────────────────────────────────────────────────────────────────────────

func seedStock(db *memDB, storeID, productID string, qty int64) {
	db.stock[stockKey{storeID, productID}] = qty
	db.movs = append(db.movs, &entity.StockMovement{
		ID: "seed-" + storeID + "-" + productID, StoreID: storeID, ProductID: productID,
		Action: entity.ActionAdd, Delta: qty, Reason: "Bulk Import",
	})
}

func TestRecordSale_DescuentaStockYAcunaConsecutivoSO(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)
	cliente := "cli-1"
	vendedor := "vend-1"

	res, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		CustomerID:    &cliente,
		SalesPersonID: &vendedor,
		Actor:         "user-1",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 3, UnitPrice: price("5.00")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "SO-0001", res.Sale.OrderID)
	assert.False(t, res.Sale.IsTransfer)
	assert.True(t, res.Sale.TotalAmount.Equal(price("15.00")))
	assert.Equal(t, int64(7), db.stock[stockKey{"tienda-centro", "prod-cafe"}])

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(3), res.Items[0].Quantity)
	assert.True(t, res.Items[0].Subtotal.Equal(price("15.00")))

	// Una entrada de log por línea, con delta negativo.
	ultimo := db.movs[len(db.movs)-1]
	assert.Equal(t, entity.ActionSale, ultimo.Action)
	assert.Equal(t, int64(-3), ultimo.Delta)
	assert.Equal(t, "Sale SO-0001", ultimo.Reason)
}

func TestRecordSale_MultilineaCalculaElTotal(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)
	seedStock(db, "tienda-centro", "prod-azucar", 20)

	res, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 2, UnitPrice: price("5.00")},
			{ProductID: "prod-azucar", Quantity: 4, UnitPrice: price("2.50")},
		},
	})
	require.NoError(t, err)

	assert.True(t, res.Sale.TotalAmount.Equal(price("20.00")), "10.00 + 10.00")
	assert.Equal(t, int64(8), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
	assert.Equal(t, int64(16), db.stock[stockKey{"tienda-centro", "prod-azucar"}])
	assert.Len(t, res.Items, 2)
}

func TestRecordSale_StockInsuficiente_NoDejaRastro(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 2)
	movsAntes := len(db.movs)

	_, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 5, UnitPrice: price("5.00")}},
	})
	require.Error(t, err)

	var insuf *domain.InsufficientStockError
	require.True(t, errors.As(err, &insuf))
	assert.Equal(t, int64(5), insuf.Requested)
	assert.Equal(t, int64(2), insuf.Available)

	// Nada sobrevive al aborto: ni venta, ni movimientos, ni stock tocado.
	assert.Empty(t, db.sales)
	assert.Empty(t, db.saleItems)
	assert.Len(t, db.movs, movsAntes)
	assert.Equal(t, int64(2), db.stock[stockKey{"tienda-centro", "prod-cafe"}])

	// El consecutivo tampoco se consume: la siguiente venta exitosa toma SO-0001.
	res, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 1, UnitPrice: price("5.00")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SO-0001", res.Sale.OrderID)
}

func TestRecordSale_LineasRepetidasAcumulanLaDemanda(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 5)

	_, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 3, UnitPrice: price("5.00")},
			{ProductID: "prod-cafe", Quantity: 3, UnitPrice: price("5.00")},
		},
	})
	require.Error(t, err)

	var insuf *domain.InsufficientStockError
	require.True(t, errors.As(err, &insuf))
	assert.Equal(t, int64(6), insuf.Requested, "la demanda del mismo producto se acumula entre líneas")
	assert.Equal(t, int64(5), insuf.Available)
}

func TestRecordSale_ValidacionDeEntrada(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)
	fantasma := "cli-fantasma"

	_, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
	})
	assert.True(t, errors.Is(err, domain.ErrEmptyTransaction), "venta sin líneas")

	_, err = eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 0, UnitPrice: price("5.00")}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad cero")

	_, err = eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-fantasma",
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 1, UnitPrice: price("5.00")}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "tienda inexistente")

	_, err = eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		CustomerID:    &fantasma,
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 1, UnitPrice: price("5.00")}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "cliente inexistente")

	_, err = eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines:         []engine.Line{{ProductID: "prod-fantasma", Quantity: 1, UnitPrice: price("5.00")}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "producto inexistente")
}

func TestRecordSale_FalloIntermedioRevierteTodo(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)
	movsAntes := len(db.movs)
	db.failNextSaleItem = true

	_, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 3, UnitPrice: price("5.00")}},
	})
	require.Error(t, err)

	// El stock ya había sido descontado dentro de la tx; el rollback lo devuelve.
	assert.Equal(t, int64(10), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
	assert.Empty(t, db.sales)
	assert.Empty(t, db.saleItems)
	assert.Len(t, db.movs, movsAntes)
	assert.Zero(t, db.seq[sequence.FamilySale])
}

func TestRecordSale_ConcurrentesObtienenConsecutivosDistintos(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 1000)

	const n = 20
	ids := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := eng.RecordSale(context.Background(), engine.SaleInput{
				SourceStoreID: "tienda-centro",
				Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 1, UnitPrice: price("5.00")}},
			})
			if err == nil {
				ids[i] = res.Sale.OrderID
			}
		}(i)
	}
	wg.Wait()

	vistos := make(map[string]bool, n)
	for _, id := range ids {
		require.NotEmpty(t, id, "las %d ventas deben confirmarse", n)
		assert.False(t, vistos[id], "order id repetido: %s", id)
		vistos[id] = true
	}
	assert.Equal(t, int64(980), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
	assert.Equal(t, int64(n), db.seq[sequence.FamilySale])

	// Invariante libro/log tras los commits concurrentes.
	sum, err := (&fakeMovementRepo{db}).SumDeltas("tienda-centro", "prod-cafe")
	require.NoError(t, err)
	assert.Equal(t, int64(980), sum)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RecordTransfer
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordTransfer_MueveStockSinCambiarElTotal(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)

	res, err := eng.RecordTransfer(context.Background(), engine.TransferInput{
		SourceStoreID:      "tienda-centro",
		DestinationStoreID: "tienda-norte",
		Actor:              "user-1",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 4}},
	})
	require.NoError(t, err)

	assert.Equal(t, "TR-0001", res.Sale.OrderID)
	assert.True(t, res.Sale.IsTransfer)
	require.NotNil(t, res.Sale.DestinationStoreID)
	assert.Equal(t, "tienda-norte", *res.Sale.DestinationStoreID)
	assert.True(t, res.Sale.TotalAmount.IsZero(), "un traslado no factura")

	assert.Equal(t, int64(6), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
	assert.Equal(t, int64(4), db.stock[stockKey{"tienda-norte", "prod-cafe"}])

	total, err := (&fakeStockRepo{db}).TotalByProduct("prod-cafe")
	require.NoError(t, err)
	assert.Equal(t, int64(10), total, "el total global del producto se conserva")

	// Dos entradas de log por línea: salida en origen, entrada en destino.
	salida := db.movs[len(db.movs)-2]
	entrada := db.movs[len(db.movs)-1]
	assert.Equal(t, entity.ActionTransferOut, salida.Action)
	assert.Equal(t, int64(-4), salida.Delta)
	assert.Equal(t, "tienda-centro", salida.StoreID)
	assert.Equal(t, entity.ActionTransferIn, entrada.Action)
	assert.Equal(t, int64(4), entrada.Delta)
	assert.Equal(t, "tienda-norte", entrada.StoreID)

	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].UnitPrice.IsZero())
	assert.True(t, res.Items[0].Subtotal.IsZero())
}

func TestRecordTransfer_MismaTiendaEsInvalido(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)

	_, err := eng.RecordTransfer(context.Background(), engine.TransferInput{
		SourceStoreID:      "tienda-centro",
		DestinationStoreID: "tienda-centro",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransfer))
}

func TestRecordTransfer_TiendaDestinoInexistente(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)

	_, err := eng.RecordTransfer(context.Background(), engine.TransferInput{
		SourceStoreID:      "tienda-centro",
		DestinationStoreID: "tienda-fantasma",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransfer))
}

func TestRecordTransfer_StockInsuficienteEnOrigen(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 2)

	_, err := eng.RecordTransfer(context.Background(), engine.TransferInput{
		SourceStoreID:      "tienda-centro",
		DestinationStoreID: "tienda-norte",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 3}},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Equal(t, int64(2), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
	assert.Zero(t, db.stock[stockKey{"tienda-norte", "prod-cafe"}])
	assert.Zero(t, db.seq[sequence.FamilyTransfer], "un traslado abortado no consume consecutivo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Familias de consecutivo
// ──────────────────────────────────────────────────────────────────────────────

func TestFamiliasDeConsecutivoSonDisjuntas(t *testing.T) {
	eng, db := buildEngine()
	ctx := context.Background()

	compra, err := eng.RecordPurchase(ctx, engine.PurchaseInput{
		DestinationStoreID: "tienda-centro",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 20, UnitPrice: price("3.00")}},
	})
	require.NoError(t, err)

	venta, err := eng.RecordSale(ctx, engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Lines:         []engine.Line{{ProductID: "prod-cafe", Quantity: 1, UnitPrice: price("5.00")}},
	})
	require.NoError(t, err)

	traslado, err := eng.RecordTransfer(ctx, engine.TransferInput{
		SourceStoreID:      "tienda-centro",
		DestinationStoreID: "tienda-norte",
		Lines:              []engine.Line{{ProductID: "prod-cafe", Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO-0001", compra.Purchase.OrderID)
	assert.Equal(t, "SO-0001", venta.Sale.OrderID)
	assert.Equal(t, "TR-0001", traslado.Sale.OrderID,
		"ventas y traslados comparten tabla pero numeran desde secuencias disjuntas")

	assert.Equal(t, int64(14), db.stock[stockKey{"tienda-centro", "prod-cafe"}])
	assert.Equal(t, int64(5), db.stock[stockKey{"tienda-norte", "prod-cafe"}])
}

// Las compras adquieren sus filas en el mismo orden canónico (tienda,
// producto) que ventas y traslados, sin importar el orden de las líneas; de
// lo contrario dos transacciones sobre los mismos productos podrían
// bloquearse mutuamente.
func TestRecordPurchase_BloqueaFilasEnOrdenCanonico(t *testing.T) {
	eng, db := buildEngine()

	// Las líneas llegan en orden inverso al canónico: "prod-azucar" < "prod-cafe".
	_, err := eng.RecordPurchase(context.Background(), engine.PurchaseInput{
		DestinationStoreID: "tienda-centro",
		Supplier:           "Proveedor Andino",
		Actor:              "user-1",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 5, UnitPrice: price("3.20")},
			{ProductID: "prod-azucar", Quantity: 8, UnitPrice: price("1.10")},
		},
	})
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(db.lockOrder), 2)
	assert.Equal(t, stockKey{"tienda-centro", "prod-azucar"}, db.lockOrder[0])
	assert.Equal(t, stockKey{"tienda-centro", "prod-cafe"}, db.lockOrder[1])
}

// Los movimientos de una misma transacción comparten created_at; el campo
// Seq, asignado por el almacenamiento, conserva el orden de inserción para
// que el historial sea determinista.
func TestRecordSale_MovimientosConservanElOrdenDeInsercion(t *testing.T) {
	eng, db := buildEngine()
	seedStock(db, "tienda-centro", "prod-cafe", 10)
	seedStock(db, "tienda-centro", "prod-azucar", 10)

	_, err := eng.RecordSale(context.Background(), engine.SaleInput{
		SourceStoreID: "tienda-centro",
		Actor:         "user-1",
		Lines: []engine.Line{
			{ProductID: "prod-cafe", Quantity: 2, UnitPrice: price("5.00")},
			{ProductID: "prod-azucar", Quantity: 3, UnitPrice: price("2.00")},
		},
	})
	require.NoError(t, err)

	require.Len(t, db.movs, 2)
	assert.Equal(t, "prod-cafe", db.movs[0].ProductID)
	assert.Equal(t, "prod-azucar", db.movs[1].ProductID)
	assert.Equal(t, db.movs[0].CreatedAt, db.movs[1].CreatedAt,
		"ambos movimientos llevan la marca de tiempo de la transacción")
	assert.Less(t, db.movs[0].Seq, db.movs[1].Seq,
		"el desempate entre movimientos simultáneos es el orden de inserción")
}
