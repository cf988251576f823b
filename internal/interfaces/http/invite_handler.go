package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/auth"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/membership"
)

// InviteHandler trata convites: os da empresa ativa e os dirigidos ao
// próprio utilizador.
type InviteHandler struct {
	uc   *membership.UseCase
	auth *auth.UseCase
}

// NewInviteHandler constrói o handler.
func NewInviteHandler(uc *membership.UseCase, authUC *auth.UseCase) *InviteHandler {
	return &InviteHandler{uc: uc, auth: authUC}
}

// Create godoc
// @Summary      Convidar um email para a empresa ativa
// @Tags         invites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInviteRequest  true  "email, displayName, role"
// @Success      201   {object}  dto.InviteResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invites [post]
func (h *InviteHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	var in dto.CreateInviteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.CreateInvite(companyID, in, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInviteResponse(out))
}

// ListPending godoc
// @Summary      Listar convites pendentes da empresa ativa
// @Tags         invites
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InviteResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/invites [get]
func (h *InviteHandler) ListPending(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	out, err := h.uc.ListPendingInvites(companyID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInviteResponses(out))
}

// Cancel godoc
// @Summary      Cancelar um convite pendente da empresa ativa
// @Tags         invites
// @Security     Bearer
// @Param        id  path  string  true  "ID do convite"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invites/{id} [delete]
func (h *InviteHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sem empresa ativa"})
	}
	if err := h.uc.CancelInvite(companyID, c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMine godoc
// @Summary      Listar convites dirigidos ao utilizador autenticado
// @Tags         invites
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InviteResponse
// @Router       /api/me/invites [get]
func (h *InviteHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListInvitesForActor(GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInviteResponses(out))
}

// Accept godoc
// @Summary      Aceitar um convite
// @Description  Adere à empresa, torna-a a ativa e consome o convite, tudo
// @Description  numa transação. Uma segunda aceitação concorrente falha com
// @Description  404 sem adesão dupla.
// @Tags         invites
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do convite"
// @Success      200  {object}  dto.AuthResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/me/invites/{id}/accept [post]
func (h *InviteHandler) Accept(c *fiber.Ctx) error {
	uid := GetUserID(c)
	if err := h.uc.AcceptInvite(c.Context(), uid, c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	out, err := h.auth.Refresh(uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rejeitar um convite
// @Tags         invites
// @Security     Bearer
// @Param        id  path  string  true  "ID do convite"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/me/invites/{id}/reject [post]
func (h *InviteHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.RejectInvite(c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
