package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/membership"
)

// UserHandler trata os membros da empresa ativa (protegido).
type UserHandler struct {
	uc *membership.UseCase
}

// NewUserHandler constrói o handler.
func NewUserHandler(uc *membership.UseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar membros da empresa ativa
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MemberResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	out, err := h.uc.ListUsers(companyID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMemberResponses(companyID, out))
}

// ChangeRole godoc
// @Summary      Alterar a função de um membro
// @Description  Nunca a própria função nem a do Dono; Administrador só pode
// @Description  ser atribuído pelo Dono.
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        uid   path  string  true  "UID do membro"
// @Param        body  body  dto.ChangeRoleRequest  true  "role"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/{uid}/role [put]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.uc.ChangeUserRole(c.Context(), companyID, c.Params("uid"), in.Role, GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Remove godoc
// @Summary      Remover um membro da empresa ativa
// @Description  Com o próprio UID é sair da empresa; permitido a qualquer
// @Description  membro. Remover outro exige Administrador ou Dono. O Dono
// @Description  nunca pode ser removido.
// @Tags         users
// @Security     Bearer
// @Param        uid  path  string  true  "UID do membro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users/{uid} [delete]
func (h *UserHandler) Remove(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	if err := h.uc.RemoveUserFromCompany(c.Context(), companyID, c.Params("uid"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
