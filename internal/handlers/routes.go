package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/propmarket/backend/internal/config"
	"github.com/propmarket/backend/internal/metrics"
	"github.com/propmarket/backend/internal/middleware"
	"github.com/propmarket/backend/internal/services"
	"github.com/propmarket/backend/internal/storage"
	"gorm.io/gorm"
)

// Dependencies is everything the HTTP layer needs. Verifier and OAuth may be
// nil when Google sign-in is not configured; Metrics may be nil to disable
// instrumentation.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Store    storage.ImageStore
	Verifier services.IdentityVerifier
	OAuth    *services.GoogleOAuth
	Metrics  *metrics.HTTPMetrics
}

func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:   "propmarket",
		BodyLimit: cfg.Server.BodyLimitMB * 1024 * 1024,
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.FrontendURL))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
	}
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	RegisterRoutes(app, deps)
	return app
}

func RegisterRoutes(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	users := services.NewUserService(deps.DB)
	properties := services.NewPropertyService(deps.DB, deps.Store)
	interests := services.NewInterestService(deps.DB)

	authHandler := NewAuthHandler(users, deps.Verifier, deps.OAuth, cfg.Server.FrontendURL, cfg.Server.SecureCookies)
	propertiesHandler := NewPropertiesHandler(properties, interests, deps.Metrics)
	authMiddleware := middleware.NewAuthMiddleware(deps.DB)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	api := app.Group("/api")
	api.Get("/version", GetVersion)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/signup", authHandler.Signup)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/google", authHandler.GoogleLogin)
	authRoutes.Get("/google/url", authHandler.GoogleURL)
	authRoutes.Get("/google/callback", authHandler.GoogleCallback)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	propertyRoutes := api.Group("/property")
	propertyRoutes.Post("/create", authMiddleware.RequireAuth, propertiesHandler.Create)
	propertyRoutes.Post("/interest", propertiesHandler.CreateInterest)
	propertyRoutes.Get("/all", propertiesHandler.All)
	propertyRoutes.Get("/user/properties", authMiddleware.RequireAuth, propertiesHandler.Mine)

	adminRoutes := propertyRoutes.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/properties", propertiesHandler.AdminList)
	adminRoutes.Put("/status/:id", propertiesHandler.UpdateStatus)
	adminRoutes.Get("/history/:id", propertiesHandler.History)

	propertyRoutes.Get("/:id/interests", authMiddleware.RequireAuth, propertiesHandler.ListInterests)
	propertyRoutes.Get("/:id", authMiddleware.OptionalAuth, propertiesHandler.Get)
	propertyRoutes.Patch("/:id", authMiddleware.RequireAuth, propertiesHandler.Update)
	propertyRoutes.Delete("/:id", authMiddleware.RequireAuth, propertiesHandler.Delete)
}
