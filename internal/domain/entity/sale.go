package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es la cabecera de una venta o de un traslado entre tiendas.
// Los traslados comparten tabla con las ventas (esquema heredado): IsTransfer
// en true, DestinationStoreID presente, precios forzados a cero y OrderID con
// prefijo TR- de una secuencia disjunta a la de SO-.
// Una vez confirmada, la cabecera y sus líneas son inmutables y el OrderID
// asignado no se reutiliza jamás.
type Sale struct {
	ID                 string
	OrderID            string // SO-0001, TR-0001... asignado al confirmar
	CustomerID         *string
	SalesPersonID      *string
	SourceStoreID      string
	DestinationStoreID *string // solo traslados
	IsTransfer         bool
	TotalAmount        decimal.Decimal // Σ subtotal; 0 en traslados
	CreatedBy          string
	CreatedAt          time.Time
}

// SaleItem línea de una venta/traslado. UnitPrice es el precio al momento de
// la venta (0 si traslado); Subtotal = Quantity * UnitPrice.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
