package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase cabecera de una compra a proveedor: entrada de stock en la tienda
// destino. OrderID con prefijo PO- de su propia secuencia.
type Purchase struct {
	ID                 string
	OrderID            string
	Supplier           string
	DestinationStoreID string
	TotalAmount        decimal.Decimal
	Note               string
	CreatedBy          string
	CreatedAt          time.Time
}

// PurchaseItem línea de compra. UnitCost es el costo al momento de la compra;
// Subtotal = Quantity * UnitCost.
type PurchaseItem struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitCost   decimal.Decimal
	Subtotal   decimal.Decimal
}
