package usecase

import (
	"github.com/google/uuid"
	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// SalesPersonUseCase casos de uso para vendedores.
type SalesPersonUseCase struct {
	repo repository.SalesPersonRepository
}

func NewSalesPersonUseCase(repo repository.SalesPersonRepository) *SalesPersonUseCase {
	return &SalesPersonUseCase{repo: repo}
}

// Create crea un vendedor activo.
func (uc *SalesPersonUseCase) Create(in dto.CreateSalesPersonRequest) (*dto.SalesPersonResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	sp := &entity.SalesPerson{
		ID:       uuid.New().String(),
		Name:     in.Name,
		Phone:    in.Phone,
		Email:    in.Email,
		IsActive: true,
	}
	if err := uc.repo.Create(sp); err != nil {
		return nil, err
	}
	return toSalesPersonResponse(sp), nil
}

// GetByID obtiene un vendedor.
func (uc *SalesPersonUseCase) GetByID(id string) (*dto.SalesPersonResponse, error) {
	sp, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, nil
	}
	return toSalesPersonResponse(sp), nil
}

// ListActive lista los vendedores activos.
func (uc *SalesPersonUseCase) ListActive() ([]dto.SalesPersonResponse, error) {
	list, err := uc.repo.ListActive()
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesPersonResponse, 0, len(list))
	for _, sp := range list {
		items = append(items, *toSalesPersonResponse(sp))
	}
	return items, nil
}

// Deactivate marca un vendedor como inactivo. No se borran filas: las ventas
// históricas conservan la referencia.
func (uc *SalesPersonUseCase) Deactivate(id string) error {
	sp, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if sp == nil {
		return domain.ErrNotFound
	}
	sp.IsActive = false
	return uc.repo.Update(sp)
}

func toSalesPersonResponse(sp *entity.SalesPerson) *dto.SalesPersonResponse {
	return &dto.SalesPersonResponse{
		ID:       sp.ID,
		Name:     sp.Name,
		Phone:    sp.Phone,
		Email:    sp.Email,
		IsActive: sp.IsActive,
	}
}
