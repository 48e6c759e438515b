package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/multistock/internal/application/dto"
	"github.com/tu-usuario/multistock/internal/application/engine"
	"github.com/tu-usuario/multistock/internal/domain"
	"github.com/tu-usuario/multistock/internal/domain/entity"
	"github.com/tu-usuario/multistock/internal/domain/repository"
)

// SaleHandler maneja ventas y traslados (protegido). Las escrituras pasan por
// el motor de transacciones; las lecturas van directo al repositorio.
type SaleHandler struct {
	engine   *engine.TransactionEngine
	saleRepo repository.SaleRepository
}

// NewSaleHandler construye el handler.
func NewSaleHandler(eng *engine.TransactionEngine, saleRepo repository.SaleRepository) *SaleHandler {
	return &SaleHandler{engine: eng, saleRepo: saleRepo}
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Descuenta stock de la tienda origen, acuña el consecutivo SO- y
//
//	persiste cabecera y líneas como unidad atómica. 409 si alguna
//	línea excede el stock disponible.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "source_store_id, lines; customer_id y sales_person_id opcionales"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]engine.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, engine.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	result, err := h.engine.RecordSale(c.Context(), engine.SaleInput{
		SourceStoreID: in.SourceStoreID,
		CustomerID:    in.CustomerID,
		SalesPersonID: in.SalesPersonID,
		Actor:         GetUserID(c),
		Lines:         lines,
	})
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(result))
}

// CreateTransfer godoc
// @Summary      Registrar traslado entre tiendas
// @Description  Descuenta en la tienda origen y suma en la destino en la misma
//
//	transacción (dos movimientos por línea); consecutivo TR-, total cero.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "source_store_id, destination_store_id, lines"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *SaleHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]engine.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, engine.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	result, err := h.engine.RecordTransfer(c.Context(), engine.TransferInput{
		SourceStoreID:      in.SourceStoreID,
		DestinationStoreID: in.DestinationStoreID,
		Actor:              GetUserID(c),
		Lines:              lines,
	})
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSaleResponse(result))
}

// GetByID godoc
// @Summary      Obtener venta o traslado por ID, con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.saleRepo.GetByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	items, err := h.saleRepo.ItemsBySale(sale.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toSaleResponse(&engine.SaleResult{Sale: sale, Items: items}))
}

// GetByOrderID godoc
// @Summary      Obtener venta o traslado por consecutivo (SO-xxxx / TR-xxxx)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        orderID  path  string  true  "Consecutivo de la orden"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/order/{orderID} [get]
func (h *SaleHandler) GetByOrderID(c *fiber.Ctx) error {
	sale, err := h.saleRepo.GetByOrderID(c.Params("orderID"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "orden no encontrada"})
	}
	items, err := h.saleRepo.ItemsBySale(sale.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toSaleResponse(&engine.SaleResult{Sale: sale, Items: items}))
}

// List godoc
// @Summary      Listar ventas o traslados
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "sale | transfer (vacío = todo)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var isTransfer *bool
	switch c.Query("type") {
	case "sale":
		v := false
		isTransfer = &v
	case "transfer":
		v := true
		isTransfer = &v
	case "":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser sale o transfer"})
	}
	limit, offset := pageParams(c)
	sales, err := h.saleRepo.List(isTransfer, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *toSaleResponse(&engine.SaleResult{Sale: s}))
	}
	return c.JSON(out)
}

// transactionError mapea los errores del motor a códigos HTTP.
func transactionError(c *fiber.Ctx, err error) error {
	var insErr *domain.InsufficientStockError
	if errors.As(err, &insErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: insErr.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrEmptyTransaction):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_TRANSACTION", Message: "la transacción no tiene líneas"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "líneas inválidas: cantidad positiva y precio no negativo"})
	case errors.Is(err, domain.ErrInvalidTransfer):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_TRANSFER", Message: "tiendas origen/destino inválidas o iguales"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tienda, producto, cliente o vendedor no encontrado"})
	case errors.Is(err, domain.ErrSequenceConflict), errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de concurrencia, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toSaleResponse(r *engine.SaleResult) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, toSaleItemResponse(it))
	}
	return &dto.SaleResponse{
		ID:                 r.Sale.ID,
		OrderID:            r.Sale.OrderID,
		CustomerID:         r.Sale.CustomerID,
		SalesPersonID:      r.Sale.SalesPersonID,
		SourceStoreID:      r.Sale.SourceStoreID,
		DestinationStoreID: r.Sale.DestinationStoreID,
		IsTransfer:         r.Sale.IsTransfer,
		TotalAmount:        r.Sale.TotalAmount,
		CreatedAt:          r.Sale.CreatedAt,
		Items:              items,
	}
}

func toSaleItemResponse(it *entity.SaleItem) dto.SaleItemResponse {
	return dto.SaleItemResponse{
		ID:        it.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Subtotal:  it.Subtotal,
	}
}
