package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"retail-admin/config"
	"retail-admin/handlers"
	"retail-admin/middleware"
	"retail-admin/services"
	"retail-admin/store"
	"retail-admin/store/memory"
	mongostore "retail-admin/store/mongo"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize the data store
	var st store.Store
	switch cfg.StoreDriver {
	case "memory":
		slog.Warn("Using in-memory store; data will not survive a restart")
		st = memory.New()
	default:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer client.Disconnect(context.Background())

		ms := mongostore.New(client.Database(cfg.DatabaseName))
		if err := ms.EnsureIndexes(ctx); err != nil {
			slog.Error("Failed to create indexes", "error", err)
			os.Exit(1)
		}
		st = ms
	}

	services.Init(st)

	// One-time idempotent bootstrap: initial super admin plus the
	// super-admin tenant repair.
	if err := services.Bootstrap(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		slog.Error("Bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Start background session cleanup
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	services.StartSessionCleanup(cleanupCtx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": "internal server error",
			})
		},
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Edge gatekeeper: cookie presence only, full resolution happens
	// per handler.
	app.Use(middleware.Gatekeeper)

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", handlers.GetCurrentUser)
	auth.Post("/change-password", middleware.RequireAuth, handlers.ChangePassword)

	// Public chat widget surface
	widget := app.Group("/widget")
	widget.Post("/:tenantID/messages", handlers.PostWidgetMessage)
	widget.Get("/:tenantID/messages/:conversationID", handlers.GetWidgetConversation)

	// Tenant-scoped API
	api := app.Group("/api", middleware.RequireAuth, middleware.RequireTenant)
	api.Get("/categories", handlers.ListCategories)
	api.Post("/categories", handlers.CreateCategory)
	api.Get("/categories/:categoryID", handlers.GetCategory)
	api.Put("/categories/:categoryID", handlers.UpdateCategory)
	api.Delete("/categories/:categoryID", handlers.DeleteCategory)

	api.Get("/clients", handlers.ListClients)
	api.Post("/clients", handlers.CreateClient)
	api.Get("/clients/:clientID", handlers.GetClient)
	api.Put("/clients/:clientID", handlers.UpdateClient)
	api.Delete("/clients/:clientID", handlers.DeleteClient)

	api.Get("/messages", handlers.ListMessages)
	api.Get("/messages/:conversationID", handlers.GetConversation)
	api.Post("/messages/:conversationID/reply", handlers.PostAgentReply)

	// Dashboard WebSocket (requires authentication and tenant scope)
	api.Get("/dashboard/ws", handlers.WebSocketUpgrade, websocket.New(handlers.HandleWebSocket))

	// Admin surface (super admin only)
	admin := app.Group("/admin", middleware.RequireAuth, middleware.RequireSuperAdmin)
	admin.Get("/tenants", handlers.ListTenants)
	admin.Post("/tenants", handlers.CreateTenant)
	admin.Get("/tenants/:tenantID", handlers.GetTenant)
	admin.Put("/tenants/:tenantID/activation", handlers.UpdateTenantActivation)
	admin.Get("/users", handlers.ListUsers)
	admin.Post("/users", handlers.CreateUser)
	admin.Put("/users/:userID/role", handlers.UpdateUserRole)
	admin.Put("/users/:userID/status", handlers.UpdateUserStatus)
	admin.Post("/repair", handlers.RepairSuperAdmins)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "retail-admin",
		})
	})

	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
