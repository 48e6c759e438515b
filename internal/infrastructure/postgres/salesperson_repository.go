package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

var _ repository.SalesPersonRepository = (*SalesPersonRepo)(nil)

// SalesPersonRepo implementación de SalesPersonRepository sobre PostgreSQL (usable con pool o tx).
type SalesPersonRepo struct {
	q Querier
}

// NewSalesPersonRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesPersonRepository(q Querier) *SalesPersonRepo {
	return &SalesPersonRepo{q: q}
}

// Create persiste un nuevo vendedor.
func (r *SalesPersonRepo) Create(sp *entity.SalesPerson) error {
	query := `
		INSERT INTO sales_people (id, name, phone, email, is_active)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query, sp.ID, sp.Name, sp.Phone, sp.Email, sp.IsActive)
	if err != nil {
		return fmt.Errorf("insert sales person: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor por ID.
func (r *SalesPersonRepo) GetByID(id string) (*entity.SalesPerson, error) {
	query := `SELECT id, name, phone, email, is_active FROM sales_people WHERE id = $1`
	var sp entity.SalesPerson
	err := r.q.QueryRow(context.Background(), query, id).Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Email, &sp.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales person: %w", err)
	}
	return &sp, nil
}

// ListActive lista los vendedores activos.
func (r *SalesPersonRepo) ListActive() ([]*entity.SalesPerson, error) {
	query := `SELECT id, name, phone, email, is_active FROM sales_people WHERE is_active ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list sales people: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesPerson
	for rows.Next() {
		var sp entity.SalesPerson
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Phone, &sp.Email, &sp.IsActive); err != nil {
			return nil, fmt.Errorf("scan sales person: %w", err)
		}
		list = append(list, &sp)
	}
	return list, rows.Err()
}

// Update actualiza un vendedor (incluye activar/desactivar).
func (r *SalesPersonRepo) Update(sp *entity.SalesPerson) error {
	query := `UPDATE sales_people SET name = $2, phone = $3, email = $4, is_active = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, sp.ID, sp.Name, sp.Phone, sp.Email, sp.IsActive)
	if err != nil {
		return fmt.Errorf("update sales person: %w", err)
	}
	return nil
}
