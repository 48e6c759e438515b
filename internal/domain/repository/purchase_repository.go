package repository

import "github.com/tu-usuario/multistock/internal/domain/entity"

// PurchaseRepository puerto de persistencia para compras. Solo inserciones.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	CreateItem(item *entity.PurchaseItem) error
	GetByID(id string) (*entity.Purchase, error)
	GetByOrderID(orderID string) (*entity.Purchase, error)
	ItemsByPurchase(purchaseID string) ([]*entity.PurchaseItem, error)
	List(limit, offset int) ([]*entity.Purchase, error)
}
