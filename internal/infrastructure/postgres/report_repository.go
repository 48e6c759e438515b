package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura para el tablero.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Totals agregados desde la fecha dada (cero = histórico completo).
func (r *ReportRepo) Totals(ctx context.Context, from time.Time) (*repository.DashboardTotals, error) {
	t := &repository.DashboardTotals{
		SalesTotal:    decimal.Zero,
		PurchaseTotal: decimal.Zero,
	}

	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE NOT is_transfer),
			COALESCE(SUM(total_amount) FILTER (WHERE NOT is_transfer), 0),
			COUNT(*) FILTER (WHERE is_transfer)
		FROM sales WHERE created_at >= $1`,
		from,
	).Scan(&t.SalesCount, &t.SalesTotal, &t.TransferCount)
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM purchases WHERE created_at >= $1`,
		from,
	).Scan(&t.PurchaseCount, &t.PurchaseTotal)
	if err != nil {
		return nil, fmt.Errorf("purchase totals: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM stores),
			(SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1)`,
		from,
	).Scan(&t.ProductCount, &t.StoreCount, &t.MovementCount)
	if err != nil {
		return nil, fmt.Errorf("catalog totals: %w", err)
	}

	return t, nil
}

// LowStockProducts productos cuyo total sobre todas las tiendas está en o bajo
// su umbral de alerta. El total es derivado aquí mismo, nunca un campo
// materializado de products.
func (r *ReportRepo) LowStockProducts(ctx context.Context) ([]repository.LowStockItem, error) {
	query := `
		SELECT p.id, p.code, p.name, COALESCE(SUM(se.quantity), 0) AS total, p.min_stock_alert
		FROM products p
		LEFT JOIN stock_entries se ON se.product_id = p.id
		GROUP BY p.id, p.code, p.name, p.min_stock_alert
		HAVING COALESCE(SUM(se.quantity), 0) <= p.min_stock_alert
		ORDER BY total, p.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()
	var list []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.Code, &it.Name, &it.TotalStock, &it.MinStockAlert); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
