package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU vendible (multi-tienda).
// El stock NO vive aquí: la cantidad por tienda está en StockEntry y el total
// global es siempre un agregado derivado (suma sobre tiendas), nunca un campo.
type Product struct {
	ID            string
	Code          string // código de barras / código único global
	Name          string
	CategoryID    *string
	PurchasePrice decimal.Decimal // costo de referencia (se actualiza con la última compra)
	SellingPrice  decimal.Decimal
	MinStockAlert int64 // alerta cuando el total en todas las tiendas queda en o bajo este nivel
	Description   string
	SupplierName  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el total dado (suma sobre tiendas) está en o bajo el umbral de alerta.
func (p *Product) IsLowStock(totalStock int64) bool {
	return totalStock <= p.MinStockAlert
}
