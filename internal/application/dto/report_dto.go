package dto

import "github.com/shopspring/decimal"

// DashboardResponse agregados del tablero (solo lectura).
type DashboardResponse struct {
	SalesCount    int64                  `json:"sales_count"`
	SalesTotal    decimal.Decimal        `json:"sales_total"`
	PurchaseCount int64                  `json:"purchase_count"`
	PurchaseTotal decimal.Decimal        `json:"purchase_total"`
	TransferCount int64                  `json:"transfer_count"`
	ProductCount  int64                  `json:"product_count"`
	StoreCount    int64                  `json:"store_count"`
	MovementCount int64                  `json:"movement_count"`
	LowStock      []LowStockItemResponse `json:"low_stock"`
}

// LowStockItemResponse producto bajo su umbral de alerta (total sobre tiendas).
type LowStockItemResponse struct {
	ProductID     string `json:"product_id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	TotalStock    int64  `json:"total_stock"`
	MinStockAlert int64  `json:"min_stock_alert"`
}
