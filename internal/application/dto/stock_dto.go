package dto

import "time"

// AdjustStockRequest body para el ajuste directo de stock (carga masiva /
// ajustes manuales). Action debe ser ADD, REMOVE o ADJUST; ventas, compras y
// traslados pasan por sus propios endpoints.
type AdjustStockRequest struct {
	StoreID   string `json:"store_id"`
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
	Action    string `json:"action"`
}

// StockEntryResponse fila del libro en respuestas.
type StockEntryResponse struct {
	StoreID   string    `json:"store_id"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementResponse entrada del log de movimientos.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	StoreID   string    `json:"store_id"`
	Actor     string    `json:"actor,omitempty"`
	Action    string    `json:"action"`
	Delta     int64     `json:"delta"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
