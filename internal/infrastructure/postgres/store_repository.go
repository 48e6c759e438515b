package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación de StoreRepository sobre PostgreSQL (usable con pool o tx).
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de tiendas. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// Create persiste una nueva tienda.
func (r *StoreRepo) Create(store *entity.Store) error {
	query := `
		INSERT INTO stores (id, name, location, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		store.ID, store.Name, store.Location, store.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// GetByID obtiene una tienda por ID.
func (r *StoreRepo) GetByID(id string) (*entity.Store, error) {
	query := `SELECT id, name, location, created_at FROM stores WHERE id = $1`
	var s entity.Store
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// GetByName obtiene una tienda por nombre (único global).
func (r *StoreRepo) GetByName(name string) (*entity.Store, error) {
	query := `SELECT id, name, location, created_at FROM stores WHERE name = $1`
	var s entity.Store
	err := r.q.QueryRow(context.Background(), query, name).Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store by name: %w", err)
	}
	return &s, nil
}

// List lista tiendas con paginación.
func (r *StoreRepo) List(limit, offset int) ([]*entity.Store, error) {
	query := `SELECT id, name, location, created_at FROM stores ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update actualiza una tienda.
func (r *StoreRepo) Update(store *entity.Store) error {
	query := `UPDATE stores SET name = $2, location = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, store.ID, store.Name, store.Location)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update store: %w", err)
	}
	return nil
}

// Delete elimina una tienda. Guardia explícita: falla con ErrStoreReferenced
// mientras existan filas de stock, movimientos o transacciones que la
// referencien (no se delega en cascadas del motor).
func (r *StoreRepo) Delete(id string) error {
	var referenced bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS (SELECT 1 FROM stock_movements WHERE store_id = $1)
		    OR EXISTS (SELECT 1 FROM stock_entries WHERE store_id = $1 AND quantity > 0)
		    OR EXISTS (SELECT 1 FROM sales WHERE source_store_id = $1 OR destination_store_id = $1)
		    OR EXISTS (SELECT 1 FROM purchases WHERE destination_store_id = $1)`,
		id,
	).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("check store references: %w", err)
	}
	if referenced {
		return domain.ErrStoreReferenced
	}
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM stores WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrStoreReferenced
		}
		return fmt.Errorf("delete store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
