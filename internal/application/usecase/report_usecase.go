package usecase

import (
	"context"
	"time"

	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// ReportUseCase consultas de solo lectura para el tablero. Nunca escribe el
// libro ni el log de movimientos.
type ReportUseCase struct {
	repo repository.ReportRepository
}

func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// Dashboard agregados desde la fecha dada (cero = sin filtro temporal).
func (uc *ReportUseCase) Dashboard(ctx context.Context, from time.Time) (*dto.DashboardResponse, error) {
	totals, err := uc.repo.Totals(ctx, from)
	if err != nil {
		return nil, err
	}
	low, err := uc.repo.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemResponse, 0, len(low))
	for _, it := range low {
		items = append(items, dto.LowStockItemResponse{
			ProductID:     it.ProductID,
			Code:          it.Code,
			Name:          it.Name,
			TotalStock:    it.TotalStock,
			MinStockAlert: it.MinStockAlert,
		})
	}
	return &dto.DashboardResponse{
		SalesCount:    totals.SalesCount,
		SalesTotal:    totals.SalesTotal,
		PurchaseCount: totals.PurchaseCount,
		PurchaseTotal: totals.PurchaseTotal,
		TransferCount: totals.TransferCount,
		ProductCount:  totals.ProductCount,
		StoreCount:    totals.StoreCount,
		MovementCount: totals.MovementCount,
		LowStock:      items,
	}, nil
}

// LowStock lista productos cuyo total sobre todas las tiendas está en o bajo
// su umbral de alerta.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	low, err := uc.repo.LowStockProducts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemResponse, 0, len(low))
	for _, it := range low {
		items = append(items, dto.LowStockItemResponse{
			ProductID:     it.ProductID,
			Code:          it.Code,
			Name:          it.Name,
			TotalStock:    it.TotalStock,
			MinStockAlert: it.MinStockAlert,
		})
	}
	return items, nil
}
