package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest body para POST /api/purchases.
type CreatePurchaseRequest struct {
	DestinationStoreID string                `json:"destination_store_id"`
	Supplier           string                `json:"supplier"`
	Note               string                `json:"note"`
	Lines              []PurchaseLineRequest `json:"lines"`
}

// PurchaseItemResponse línea de compra confirmada.
type PurchaseItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse compra confirmada.
type PurchaseResponse struct {
	ID                 string                 `json:"id"`
	OrderID            string                 `json:"order_id"`
	Supplier           string                 `json:"supplier"`
	DestinationStoreID string                 `json:"destination_store_id"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	Note               string                 `json:"note,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	Items              []PurchaseItemResponse `json:"items"`
}
