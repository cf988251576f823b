package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/pkg/jwt"
)

// Locals keys para os dados do token em Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalActor     = "actor"
)

// AuthMiddleware valida o Bearer Token JWT e extrai UserID, CompanyID e
// Role para c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		userID, companyID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalCompanyID, companyID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// ActorMiddleware carrega o snapshot do utilizador autenticado para
// c.Locals. Corre depois de AuthMiddleware; é este snapshot que fica
// gravado em movimentações e no log de atividades.
func ActorMiddleware(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := GetUserID(c)
		if uid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token sem utilizador"})
		}
		user, err := users.GetByUID(uid)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "BACKEND_UNAVAILABLE", Message: "serviço de dados indisponível"})
		}
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNKNOWN_USER", Message: "utilizador não existe"})
		}
		c.Locals(LocalActor, user.Actor())
		return c.Next()
	}
}

// RequirePermission antecipa a política de autorização com a função do
// token. Os motores voltam a verificar a adesão atual antes de qualquer
// mutação; este middleware só poupa o round-trip nos casos óbvios.
func RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "sem empresa ativa"})
		}
		if !policy.Allows(role, permission) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "a sua função não permite esta operação"})
		}
		return c.Next()
	}
}

// GetUserID devolve o UserID do contexto (depois do middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetCompanyID devolve o CompanyID ativo do contexto.
func GetCompanyID(c *fiber.Ctx) string {
	v := c.Locals(LocalCompanyID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devolve a função na empresa ativa no momento da emissão do token.
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetActor devolve o snapshot do ator carregado pelo ActorMiddleware.
// Sem o middleware devolve um ator só com o UID do token.
func GetActor(c *fiber.Ctx) entity.Actor {
	if a, ok := c.Locals(LocalActor).(entity.Actor); ok {
		return a
	}
	return entity.Actor{UID: GetUserID(c)}
}
