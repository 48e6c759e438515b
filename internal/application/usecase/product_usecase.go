package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Las respuestas incluyen
// TotalStock e IsLowStock, ambas derivadas del libro de stock en el momento
// de la lectura; nunca se materializan en la tabla de productos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	stockRepo repository.StockRepository
}

func NewProductUseCase(repo repository.ProductRepository, stockRepo repository.StockRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea un producto. El código es único: devuelve ErrDuplicate si ya existe.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PurchasePrice.IsNegative() || in.SellingPrice.IsNegative() || in.MinStockAlert < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		CategoryID:    in.CategoryID,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
		MinStockAlert: in.MinStockAlert,
		Description:   in.Description,
		SupplierName:  in.SupplierName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	// Producto recién creado: total 0 por definición.
	return uc.toProductResponse(product, 0), nil
}

// GetByID obtiene un producto con su total derivado sobre todas las tiendas.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	total, err := uc.stockRepo.TotalByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(product, total), nil
}

// GetByCode obtiene un producto por su código de barras.
func (uc *ProductUseCase) GetByCode(code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	total, err := uc.stockRepo.TotalByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(product, total), nil
}

// List lista productos con paginación, cada uno con su total derivado.
func (uc *ProductUseCase) List(limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		total, err := uc.stockRepo.TotalByProduct(p.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *uc.toProductResponse(p, total))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza un producto (campos opcionales). El código no es editable.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.MinStockAlert != nil {
		if *in.MinStockAlert < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.MinStockAlert = *in.MinStockAlert
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.SupplierName != nil {
		product.SupplierName = *in.SupplierName
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	total, err := uc.stockRepo.TotalByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(product, total), nil
}

// Delete elimina un producto. Propaga ErrProductReferenced si existen filas de
// stock, movimientos o líneas de transacción que lo referencien.
func (uc *ProductUseCase) Delete(id string) error {
	return uc.repo.Delete(id)
}

func (uc *ProductUseCase) toProductResponse(p *entity.Product, totalStock int64) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		MinStockAlert: p.MinStockAlert,
		Description:   p.Description,
		SupplierName:  p.SupplierName,
		TotalStock:    totalStock,
		IsLowStock:    p.IsLowStock(totalStock),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
