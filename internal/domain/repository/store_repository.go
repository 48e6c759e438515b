package repository

import "github.com/tu-usuario/multistock/internal/domain/entity"

// StoreRepository puerto de persistencia para tiendas.
// Delete debe fallar con domain.ErrStoreReferenced mientras existan filas de
// stock, movimientos o transacciones que referencien la tienda (guardia
// explícita, no cascada del motor de base de datos).
type StoreRepository interface {
	Create(store *entity.Store) error
	GetByID(id string) (*entity.Store, error)
	GetByName(name string) (*entity.Store, error)
	List(limit, offset int) ([]*entity.Store, error)
	Update(store *entity.Store) error
	Delete(id string) error
}
