package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/inventory"
)

// InventoryHandler trata as movimentações de stock (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler constrói o handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Aplicar movimentação de stock
// @Description  Entrada soma, saída subtrai. A quantidade nunca fica
// @Description  negativa: uma saída maior do que o stock é rejeitada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "productId, type, quantityMoved"
// @Success      201
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.uc.ApplyStockMovementFromRequest(c.Context(), companyID, in, GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ListMovements godoc
// @Summary      Listar movimentações da empresa ativa
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	out, err := h.uc.ListMovements(companyID, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(out))
}
