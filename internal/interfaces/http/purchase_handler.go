package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/application/engine"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// PurchaseHandler maneja compras (protegido).
type PurchaseHandler struct {
	engine       *engine.TransactionEngine
	purchaseRepo repository.PurchaseRepository
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(eng *engine.TransactionEngine, purchaseRepo repository.PurchaseRepository) *PurchaseHandler {
	return &PurchaseHandler{engine: eng, purchaseRepo: purchaseRepo}
}

// Create godoc
// @Summary      Registrar compra
// @Description  Suma stock en la tienda destino, acuña el consecutivo PO- y
//
//	actualiza el costo de referencia de cada producto al último
//	costo unitario.
//
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "destination_store_id, supplier, lines"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]engine.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, engine.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitCost})
	}
	result, err := h.engine.RecordPurchase(c.Context(), engine.PurchaseInput{
		DestinationStoreID: in.DestinationStoreID,
		Supplier:           in.Supplier,
		Note:               in.Note,
		Actor:              GetUserID(c),
		Lines:              lines,
	})
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPurchaseResponse(result))
}

// GetByID godoc
// @Summary      Obtener compra por ID, con sus líneas
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	purchase, err := h.purchaseRepo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if purchase == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "compra no encontrada"})
	}
	items, err := h.purchaseRepo.ItemsByPurchase(purchase.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toPurchaseResponse(&engine.PurchaseResult{Purchase: purchase, Items: items}))
}

// GetByOrderID godoc
// @Summary      Obtener compra por consecutivo (PO-xxxx)
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        orderID  path  string  true  "Consecutivo de la orden"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/order/{orderID} [get]
func (h *PurchaseHandler) GetByOrderID(c *fiber.Ctx) error {
	purchase, err := h.purchaseRepo.GetByOrderID(c.Params("orderID"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if purchase == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	items, err := h.purchaseRepo.ItemsByPurchase(purchase.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toPurchaseResponse(&engine.PurchaseResult{Purchase: purchase, Items: items}))
}

// List godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	purchases, err := h.purchaseRepo.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, *toPurchaseResponse(&engine.PurchaseResult{Purchase: p}))
	}
	return c.JSON(out)
}

func toPurchaseResponse(r *engine.PurchaseResult) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, toPurchaseItemResponse(it))
	}
	return &dto.PurchaseResponse{
		ID:                 r.Purchase.ID,
		OrderID:            r.Purchase.OrderID,
		Supplier:           r.Purchase.Supplier,
		DestinationStoreID: r.Purchase.DestinationStoreID,
		TotalAmount:        r.Purchase.TotalAmount,
		Note:               r.Purchase.Note,
		CreatedAt:          r.Purchase.CreatedAt,
		Items:              items,
	}
}

func toPurchaseItemResponse(it *entity.PurchaseItem) dto.PurchaseItemResponse {
	return dto.PurchaseItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitCost:  it.UnitCost,
		Subtotal:  it.Subtotal,
	}
}
