package repository

import "github.com/tu-usuario/multistock/internal/domain/entity"

// SalesPersonRepository puerto de persistencia para vendedores.
type SalesPersonRepository interface {
	Create(sp *entity.SalesPerson) error
	GetByID(id string) (*entity.SalesPerson, error)
	ListActive() ([]*entity.SalesPerson, error)
	Update(sp *entity.SalesPerson) error
}
