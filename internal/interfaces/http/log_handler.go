package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/membership"
)

// LogHandler trata o log de atividades da empresa ativa (protegido).
type LogHandler struct {
	uc *membership.UseCase
}

// NewLogHandler constrói o handler.
func NewLogHandler(uc *membership.UseCase) *LogHandler {
	return &LogHandler{uc: uc}
}

// List godoc
// @Summary      Listar o log de atividades da empresa ativa
// @Description  Exige função Gerente ou superior. Mais recentes primeiro.
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ActivityLogResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *LogHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	out, err := h.uc.ListActivityLogs(companyID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toLogResponses(out))
}
