package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intellistock/api/internal/application/auth"
	"github.com/intellistock/api/internal/application/inventory"
	"github.com/intellistock/api/internal/application/membership"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	InventoryUC  *inventory.UseCase
	MembershipUC *membership.UseCase
	Events       *watch.Broker
	Users        repository.UserRepository
	JWTSecret    string
}

// Router regista as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (Bearer Token + snapshot do ator)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ActorMiddleware(deps.Users))

	// Perfil e convites do próprio utilizador
	inviteHandler := NewInviteHandler(deps.MembershipUC, deps.AuthUC)
	me := protected.Group("/me")
	me.Get("/", authHandler.Me)
	me.Put("/", authHandler.UpdateMe)
	me.Get("/invites", inviteHandler.ListMine)
	me.Post("/invites/:id/accept", inviteHandler.Accept)
	me.Post("/invites/:id/reject", inviteHandler.Reject)

	// Empresas
	companyHandler := NewCompanyHandler(deps.MembershipUC, deps.AuthUC)
	companies := protected.Group("/companies")
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.Get)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", companyHandler.Delete)
	companies.Post("/:id/transfer", companyHandler.Transfer)
	companies.Post("/:id/activate", companyHandler.SwitchActive)

	// Produtos
	productHandler := NewProductHandler(deps.InventoryUC)
	products := protected.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequirePermission(policy.PermEditProducts), productHandler.Update)
	products.Delete("/:id", RequirePermission(policy.PermEditProducts), productHandler.Delete)

	// Fornecedores
	supplierHandler := NewSupplierHandler(deps.InventoryUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", RequirePermission(policy.PermEditProducts), supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Put("/:id", RequirePermission(policy.PermEditProducts), supplierHandler.Update)
	suppliers.Delete("/:id", RequirePermission(policy.PermEditProducts), supplierHandler.Delete)

	// Movimentações de stock
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Membros da empresa ativa
	userHandler := NewUserHandler(deps.MembershipUC)
	users := protected.Group("/users")
	users.Get("/", RequirePermission(policy.PermManageUsers), userHandler.List)
	users.Put("/:uid/role", RequirePermission(policy.PermManageUsers), userHandler.ChangeRole)
	users.Delete("/:uid", userHandler.Remove)

	// Convites da empresa ativa
	invites := protected.Group("/invites")
	invites.Post("/", RequirePermission(policy.PermManageUsers), inviteHandler.Create)
	invites.Get("/", RequirePermission(policy.PermManageUsers), inviteHandler.ListPending)
	invites.Delete("/:id", RequirePermission(policy.PermManageUsers), inviteHandler.Cancel)

	// Log de atividades
	logHandler := NewLogHandler(deps.MembershipUC)
	protected.Get("/logs", RequirePermission(policy.PermViewLogs), logHandler.List)

	// Atualizações em tempo real. A rota estática fica antes da
	// paramétrica; os convites do destinatário são subscritos por email,
	// mesmo sem empresa ativa.
	streamHandler := NewStreamHandler(deps.Events)
	protected.Get("/stream/me/invites", streamHandler.SubscribeMyInvites)
	protected.Get("/stream/:topic", streamHandler.Subscribe)
}
