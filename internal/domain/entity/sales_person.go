package entity

// SalesPerson vendedor asignable a una venta (opcional, para comisiones/reportes).
type SalesPerson struct {
	ID       string
	Name     string
	Phone    string
	Email    string
	IsActive bool
}
