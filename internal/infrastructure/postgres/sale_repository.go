package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
// Ventas y traslados comparten tabla, discriminados por is_transfer. Solo
// inserta: las cabeceras confirmadas nunca se modifican ni se borran.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta o traslado. La unicidad de
// order_id (índice único) respalda al contador de consecutivos: un duplicado
// se mapea a ErrSequenceConflict y aborta la transacción.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, order_id, customer_id, sales_person_id, source_store_id, destination_store_id, is_transfer, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.OrderID, sale.CustomerID, sale.SalesPersonID,
		sale.SourceStoreID, sale.DestinationStoreID, sale.IsTransfer,
		sale.TotalAmount, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSequenceConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta/traslado.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta/traslado por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, order_id, customer_id, sales_person_id, source_store_id, destination_store_id, is_transfer, total_amount, created_by, created_at
		FROM sales WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get sale")
}

// GetByOrderID obtiene una venta/traslado por su consecutivo (SO-0001, TR-0001...).
func (r *SaleRepo) GetByOrderID(orderID string) (*entity.Sale, error) {
	query := `
		SELECT id, order_id, customer_id, sales_person_id, source_store_id, destination_store_id, is_transfer, total_amount, created_by, created_at
		FROM sales WHERE order_id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, orderID), "get sale by order id")
}

// ItemsBySale lista las líneas de una venta/traslado.
func (r *SaleRepo) ItemsBySale(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista ventas/traslados: isTransfer nil = todo, false = ventas, true = traslados.
func (r *SaleRepo) List(isTransfer *bool, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, order_id, customer_id, sales_person_id, source_store_id, destination_store_id, is_transfer, total_amount, created_by, created_at
		FROM sales`
	args := []any{}
	pos := 1
	if isTransfer != nil {
		query += fmt.Sprintf(" WHERE is_transfer = $%d", pos)
		args = append(args, *isTransfer)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.OrderID, &s.CustomerID, &s.SalesPersonID, &s.SourceStoreID,
			&s.DestinationStoreID, &s.IsTransfer, &s.TotalAmount, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *SaleRepo) scanOne(row pgx.Row, op string) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.OrderID, &s.CustomerID, &s.SalesPersonID, &s.SourceStoreID,
		&s.DestinationStoreID, &s.IsTransfer, &s.TotalAmount, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
