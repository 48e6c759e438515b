package entity

import "time"

// StockEntry es la fila autoritativa del libro de stock: cantidad actual de un
// producto en una tienda. Par (StoreID, ProductID) único; Quantity nunca es
// negativa. La fila se crea de forma perezosa con el primer movimiento y no se
// borra mientras existan movimientos que la referencien (puede quedar en cero).
type StockEntry struct {
	StoreID   string
	ProductID string
	Quantity  int64
	UpdatedAt time.Time
}
