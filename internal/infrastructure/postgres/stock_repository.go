package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del libro de stock sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila de stock de un producto en una tienda. Si no existe
// devuelve una fila en cero sin crearla.
func (r *StockRepo) Get(storeID, productID string) (*entity.StockEntry, error) {
	query := `
		SELECT store_id, product_id, quantity, updated_at
		FROM stock_entries WHERE store_id = $1 AND product_id = $2`
	var s entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, storeID, productID).Scan(
		&s.StoreID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockEntry{StoreID: storeID, ProductID: productID, Quantity: 0}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE) para
// serializar transacciones concurrentes sobre el mismo par. Si la fila aún no
// existe la materializa en cero antes de bloquear: sin fila no hay nada que
// bloquear y dos transacciones concurrentes sobre un par nuevo partirían ambas
// de cero, perdiendo una de las dos actualizaciones.
func (r *StockRepo) GetForUpdate(storeID, productID string) (*entity.StockEntry, error) {
	query := `
		SELECT store_id, product_id, quantity, updated_at
		FROM stock_entries WHERE store_id = $1 AND product_id = $2
		FOR UPDATE`
	var s entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, storeID, productID).Scan(
		&s.StoreID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}

	// El ON CONFLICT cubre la carrera con otra transacción creando el mismo
	// par: quien pierda la inserción espera y relee la fila ya confirmada.
	insert := `
		INSERT INTO stock_entries (store_id, product_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (store_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, storeID, productID); err != nil {
		return nil, fmt.Errorf("init stock row: %w", err)
	}
	err = r.q.QueryRow(context.Background(), query, storeID, productID).Scan(
		&s.StoreID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad (por tienda y producto). En el camino
// normal la fila ya existe y está bloqueada por el GetForUpdate previo.
func (r *StockRepo) Upsert(entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (store_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, entry.StoreID, entry.ProductID, entry.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// TotalByProduct suma la cantidad del producto en todas las tiendas.
func (r *StockRepo) TotalByProduct(productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(quantity), 0) FROM stock_entries WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total stock by product: %w", err)
	}
	return total, nil
}

// ListByStore lista las filas de stock de una tienda con paginación.
func (r *StockRepo) ListByStore(storeID string, limit, offset int) ([]*entity.StockEntry, error) {
	query := `
		SELECT store_id, product_id, quantity, updated_at
		FROM stock_entries WHERE store_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, storeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by store: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.StoreID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// ListByProduct lista las filas de stock de un producto en todas las tiendas.
func (r *StockRepo) ListByProduct(productID string) ([]*entity.StockEntry, error) {
	query := `
		SELECT store_id, product_id, quantity, updated_at
		FROM stock_entries WHERE product_id = $1
		ORDER BY store_id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockEntry
	for rows.Next() {
		var s entity.StockEntry
		if err := rows.Scan(&s.StoreID, &s.ProductID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
