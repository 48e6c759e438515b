package repository

import "github.com/tu-usuario/multistock/internal/domain/entity"

// SaleRepository puerto de persistencia para ventas y traslados (misma tabla,
// discriminados por IsTransfer). Solo inserciones: una venta confirmada nunca
// se modifica ni se borra físicamente.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetByOrderID(orderID string) (*entity.Sale, error)
	ItemsBySale(saleID string) ([]*entity.SaleItem, error)
	// List filtra por tipo: isTransfer nil = todo, false = ventas, true = traslados.
	List(isTransfer *bool, limit, offset int) ([]*entity.Sale, error)
}
