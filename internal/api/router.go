package api

import (
	"resellscan/internal/api/handlers"
	"resellscan/pkg/auth"
	"resellscan/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	scanHandler *handlers.ScanHandler,
	inventoryHandler *handlers.InventoryHandler,
	sessionHandler *handlers.SessionHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	user := app.Group("/user")
	authGroup := user.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	// Scan routes
	protected.Post("/scan", scanHandler.Scan)
	protected.Get("/scans", scanHandler.RecentScans)

	// Inventory routes
	inventory := protected.Group("/inventory")
	inventory.Post("", inventoryHandler.CreateItem)
	inventory.Get("", inventoryHandler.ListItems)
	inventory.Patch("/:id", inventoryHandler.UpdateItem)
	inventory.Delete("/:id", inventoryHandler.DeleteItem)

	// Session registry routes
	sessions := protected.Group("/sessions")
	sessions.Get("/:userId", sessionHandler.GetSession)
	sessions.Put("/:userId", sessionHandler.RegisterSession)
	sessions.Delete("/:userId", sessionHandler.DeleteSession)

	return app
}
