package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/intellistock/api/internal/application/audit"
	"github.com/intellistock/api/internal/application/auth"
	"github.com/intellistock/api/internal/application/inventory"
	"github.com/intellistock/api/internal/application/membership"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/infrastructure/memory"
	"github.com/intellistock/api/internal/infrastructure/postgres"
	httpRouter "github.com/intellistock/api/internal/interfaces/http"
	"github.com/intellistock/api/internal/watch"
	"github.com/intellistock/api/pkg/config"
	"github.com/intellistock/api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("a iniciar aplicação")

	ctx := context.Background()

	var (
		repos    repository.Repos
		txRunner repository.TxRunner
	)
	switch cfg.Store.Driver {
	case "memory":
		store := memory.NewStore()
		repos = store.Repos()
		txRunner = store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("ligação a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar schema")
		}
		repos = repository.Repos{
			Users:     postgres.NewUserRepository(pool),
			Companies: postgres.NewCompanyRepository(pool),
			Products:  postgres.NewProductRepository(pool),
			Suppliers: postgres.NewSupplierRepository(pool),
			Movements: postgres.NewStockMovementRepository(pool),
			Invites:   postgres.NewInviteRepository(pool),
			Logs:      postgres.NewActivityLogRepository(pool),
		}
		txRunner = postgres.NewTxRunner(pool)
	}

	events := watch.NewBroker()
	recorder := audit.NewRecorder(repos.Logs, events, log)

	authUC := auth.NewUseCase(txRunner, repos.Users, repos.Invites, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	inventoryUC := inventory.NewUseCase(
		txRunner, repos.Users, repos.Products, repos.Suppliers, repos.Movements,
		recorder, events,
	)
	membershipUC := membership.NewUseCase(
		txRunner, repos.Users, repos.Companies, repos.Invites,
		recorder, events,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	mountSwagger(app, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		InventoryUC:  inventoryUC,
		MembershipUC: membershipUC,
		Events:       events,
		Users:        repos.Users,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP terminado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de paragem recebido, a fechar o servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("paragem do servidor")
	}

	log.Info().Msg("aplicação parada")
}

// swaggerFile é gerado por swag init e não acompanha o binário em todos os
// ambientes (o modo memory arranca sem ele).
const swaggerFile = "./docs/swagger.json"

// mountSwagger liga o UI de documentação em /docs quando o swagger.json
// existe. Sem o ficheiro a API arranca na mesma, apenas sem o UI; o
// middleware lê o ficheiro no arranque e entraria em pânico com ele ausente.
func mountSwagger(app *fiber.App, log *logger.Logger) {
	if _, err := os.Stat(swaggerFile); err != nil {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json não encontrado, UI de docs desativado")
		return
	}
	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: swaggerFile,
		Path:     "docs",
		Title:    "IntelliStock API",
	}))
}
