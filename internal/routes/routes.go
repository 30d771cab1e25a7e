package routes

import (
	"github.com/arunanksharan/rivo/internal/config"
	"github.com/arunanksharan/rivo/internal/handlers"
	"github.com/arunanksharan/rivo/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	propertyHandler *handlers.PropertyHandler,
	userHandler *handlers.UserHandler,
	voiceHandler *handlers.VoiceHandler,
	templateHandler *handlers.TemplateHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	jwtAuth := middleware.JWTProtected(cfg)
	// Reads resolve visibility per caller, so auth is optional there.
	optAuth := middleware.OptionalAuth(cfg)
	loadUser := middleware.LoadCurrentUser(db)

	// Auth — public except /me
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh-token", authHandler.Refresh)
	auth.Get("/google/auth-url", authHandler.GoogleAuthURL)
	auth.Post("/google/callback", authHandler.GoogleCallback)
	auth.Get("/me", jwtAuth, loadUser, authHandler.Me)

	// Properties
	properties := api.Group("/properties")
	properties.Get("/", optAuth, loadUser, propertyHandler.List)
	properties.Post("/", jwtAuth, loadUser, propertyHandler.Create)
	properties.Get("/:id", optAuth, loadUser, propertyHandler.Get)
	properties.Put("/:id", jwtAuth, loadUser, propertyHandler.Update)
	properties.Delete("/:id", jwtAuth, loadUser, propertyHandler.Delete)

	properties.Get("/:id/images", optAuth, loadUser, propertyHandler.ListImages)
	properties.Post("/:id/images", jwtAuth, loadUser, propertyHandler.UploadImage)
	properties.Delete("/:id/images/:imageId", jwtAuth, loadUser, propertyHandler.DeleteImage)
	properties.Post("/:id/images/:imageId/voice-note", jwtAuth, loadUser, propertyHandler.AttachVoiceNote)

	// Users
	users := api.Group("/users", jwtAuth, loadUser)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)

	// Voice assistant
	voice := api.Group("/voice", jwtAuth, loadUser)
	voice.Get("/settings", voiceHandler.GetSettings)
	voice.Post("/settings", voiceHandler.CreateSettings)
	voice.Put("/settings", voiceHandler.UpdateSettings)
	voice.Post("/command", voiceHandler.Command)

	// Email templates
	templates := api.Group("/email-templates", jwtAuth, loadUser)
	templates.Get("/", templateHandler.List)
	templates.Post("/", templateHandler.Create)
	templates.Get("/:id", templateHandler.Get)
	templates.Put("/:id", templateHandler.Update)
	templates.Delete("/:id", templateHandler.Delete)
}
