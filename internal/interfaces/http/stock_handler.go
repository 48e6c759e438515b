package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/application/ledger"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// StockHandler maneja consultas del libro de stock, ajustes directos y el
// historial de movimientos (protegido).
type StockHandler struct {
	ledger    *ledger.StockLedger
	stockRepo repository.StockRepository
}

// NewStockHandler construye el handler.
func NewStockHandler(l *ledger.StockLedger, stockRepo repository.StockRepository) *StockHandler {
	return &StockHandler{ledger: l, stockRepo: stockRepo}
}

// Get godoc
// @Summary      Stock actual de un producto en una tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        store_id    query  string  true  "ID de la tienda"
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	storeID := c.Query("store_id")
	productID := c.Query("product_id")
	if storeID == "" || productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id y product_id son requeridos"})
	}
	entry, err := h.stockRepo.Get(storeID, productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toStockEntryResponse(entry))
}

// ListByStore godoc
// @Summary      Stock de todos los productos de una tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tienda"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.StockEntryResponse
// @Router       /api/stock/store/{id} [get]
func (h *StockHandler) ListByStore(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	entries, err := h.stockRepo.ListByStore(c.Params("id"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toStockEntryResponse(e))
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Stock de un producto en todas las tiendas, más el total derivado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/stock/product/{id} [get]
func (h *StockHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	entries, err := h.stockRepo.ListByProduct(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	total, err := h.stockRepo.TotalByProduct(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	list := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		list = append(list, toStockEntryResponse(e))
	}
	return c.JSON(fiber.Map{"entries": list, "total_stock": total})
}

// Adjust godoc
// @Summary      Ajuste directo de stock (carga masiva / correcciones)
// @Description  Solo acciones ADD, REMOVE o ADJUST; ventas, compras y traslados
//
//	tienen sus propios endpoints. El ajuste escribe fila y movimiento
//	en la misma transacción.
//
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "store_id, product_id, delta con signo, action, reason"
// @Success      200   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	switch in.Action {
	case entity.ActionAdd, entity.ActionRemove, entity.ActionAdjust:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "action debe ser ADD, REMOVE o ADJUST"})
	}
	newQty, err := h.ledger.Adjust(c.Context(), ledger.AdjustInput{
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Actor:     GetUserID(c),
		Reason:    in.Reason,
		Action:    in.Action,
	})
	if err != nil {
		var insErr *domain.InsufficientStockError
		if errors.As(err, &insErr) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insErr.Error()})
		}
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "store_id, product_id, delta y action son requeridos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.StockEntryResponse{
		StoreID:   in.StoreID,
		ProductID: in.ProductID,
		Quantity:  newQty,
		UpdatedAt: time.Now(),
	})
}

// MovementsByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements/product/{id} [get]
func (h *StockHandler) MovementsByProduct(c *fiber.Ctx) error {
	from, to, err := rangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
	}
	limit, offset := pageParams(c)
	movs, err := h.ledger.Movements(c.Context(), c.Params("id"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMovementResponses(movs))
}

// MovementsByStore godoc
// @Summary      Historial de movimientos de una tienda
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la tienda"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements/store/{id} [get]
func (h *StockHandler) MovementsByStore(c *fiber.Ctx) error {
	from, to, err := rangeParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
	}
	limit, offset := pageParams(c)
	movs, err := h.ledger.MovementsByStore(c.Context(), c.Params("id"), from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toMovementResponses(movs))
}

// rangeParams parsea from/to opcionales en RFC3339.
func rangeParams(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}

func toStockEntryResponse(e *entity.StockEntry) dto.StockEntryResponse {
	return dto.StockEntryResponse{
		StoreID:   e.StoreID,
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		UpdatedAt: e.UpdatedAt,
	}
}

func toMovementResponses(movs []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			StoreID:   m.StoreID,
			Actor:     m.Actor,
			Action:    m.Action,
			Delta:     m.Delta,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
