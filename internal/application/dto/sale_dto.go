package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta enviada por el POS.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales. Las líneas son el carrito
// resuelto por el caller (valor con alcance de request, sin estado de sesión).
type CreateSaleRequest struct {
	SourceStoreID string            `json:"source_store_id"`
	CustomerID    *string           `json:"customer_id,omitempty"`
	SalesPersonID *string           `json:"sales_person_id,omitempty"`
	Lines         []SaleLineRequest `json:"lines"`
}

// TransferLineRequest línea de traslado (sin precio: se fuerza a cero).
type TransferLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceStoreID      string                `json:"source_store_id"`
	DestinationStoreID string                `json:"destination_store_id"`
	Lines              []TransferLineRequest `json:"lines"`
}

// SaleItemResponse línea confirmada.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta o traslado confirmado.
type SaleResponse struct {
	ID                 string             `json:"id"`
	OrderID            string             `json:"order_id"`
	CustomerID         *string            `json:"customer_id,omitempty"`
	SalesPersonID      *string            `json:"sales_person_id,omitempty"`
	SourceStoreID      string             `json:"source_store_id"`
	DestinationStoreID *string            `json:"destination_store_id,omitempty"`
	IsTransfer         bool               `json:"is_transfer"`
	TotalAmount        decimal.Decimal    `json:"total_amount"`
	CreatedAt          time.Time          `json:"created_at"`
	Items              []SaleItemResponse `json:"items"`
}
