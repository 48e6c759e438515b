package entity

import "time"

// Customer cliente del punto de venta. Phone es único.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Address   string
	Email     string
	CreatedAt time.Time
}
