package entity

import "time"

// Store representa una tienda o punto de venta con inventario propio (multi-tienda).
// Name es único a nivel global.
type Store struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
}
