package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardTotals agregados para el tablero (consumidor de solo lectura).
type DashboardTotals struct {
	SalesCount    int64
	SalesTotal    decimal.Decimal
	PurchaseCount int64
	PurchaseTotal decimal.Decimal
	TransferCount int64
	ProductCount  int64
	StoreCount    int64
	MovementCount int64
}

// LowStockItem producto cuyo total en todas las tiendas está en o bajo su umbral.
type LowStockItem struct {
	ProductID     string
	Code          string
	Name          string
	TotalStock    int64
	MinStockAlert int64
}

// ReportRepository consultas de solo lectura para tablero y reportes.
// Nunca muta el libro ni el log.
type ReportRepository interface {
	Totals(ctx context.Context, from time.Time) (*DashboardTotals, error)
	LowStockProducts(ctx context.Context) ([]LowStockItem, error)
}
