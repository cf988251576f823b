package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/auth"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/membership"
)

// CompanyHandler trata empresas: criação, definições, transferência de
// propriedade, remoção e troca de empresa ativa.
type CompanyHandler struct {
	uc   *membership.UseCase
	auth *auth.UseCase
}

// NewCompanyHandler constrói o handler. auth emite tokens novos quando a
// empresa ativa muda.
func NewCompanyHandler(uc *membership.UseCase, authUC *auth.UseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc, auth: authUC}
}

// Create godoc
// @Summary      Criar empresa
// @Description  O ator fica Dono e a empresa passa a ser a ativa dele.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCompanyRequest  true  "name, cnpj"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if _, err := h.uc.CreateCompany(c.Context(), in, GetActor(c)); err != nil {
		return respondError(c, err)
	}
	// A empresa ativa mudou; o token antigo ficou obsoleto.
	out, err := h.auth.Refresh(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obter empresa
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetCompany(c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCompanyResponse(out))
}

// Update godoc
// @Summary      Atualizar definições da empresa
// @Description  Só o Dono. Escritas concorrentes resolvem por última escrita.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da empresa"
// @Param        body  body  dto.UpdateCompanyRequest  true  "name, cnpj"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.UpdateCompanyDetails(c.Params("id"), in, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toCompanyResponse(out))
}

// Transfer godoc
// @Summary      Transferir propriedade da empresa
// @Description  O Dono atual passa a Administrador e o novo membro a Dono,
// @Description  numa única transação. Nunca há zero nem dois Donos.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da empresa"
// @Param        body  body  dto.TransferOwnershipRequest  true  "newOwnerId"
// @Success      204
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/transfer [post]
func (h *CompanyHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferOwnershipRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.NewOwnerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "newOwnerId é obrigatório"})
	}
	err := h.uc.TransferOwnership(c.Context(), c.Params("id"), GetUserID(c), in.NewOwnerID, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete godoc
// @Summary      Apagar empresa
// @Description  Só o Dono. Remove a empresa e a adesão de todos os membros
// @Description  de forma atómica.
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da empresa"
// @Success      200  {object}  dto.AuthResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteCompany(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	out, err := h.auth.Refresh(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SwitchActive godoc
// @Summary      Trocar a empresa ativa
// @Description  No-op silencioso se o utilizador não for membro da empresa.
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da empresa"
// @Success      200  {object}  dto.AuthResponse
// @Router       /api/companies/{id}/activate [post]
func (h *CompanyHandler) SwitchActive(c *fiber.Ctx) error {
	if _, err := h.uc.SwitchActiveCompany(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	out, err := h.auth.Refresh(GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
