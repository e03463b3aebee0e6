package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"github.com/heartbeam/photo-service/config"
	v1 "github.com/heartbeam/photo-service/internal/controller/restapi/v1"
	"github.com/heartbeam/photo-service/internal/infrastructure/auth"
	"github.com/heartbeam/photo-service/internal/usecase"
	"github.com/heartbeam/photo-service/pkg/logger"
)

// @title Photo service
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, photos usecase.PhotoUseCase, tokens *auth.TokenManager, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewPhotoRoutes(apiV1Group, photos, tokens, cfg.Photo.MaxUploadBytes, l)
	}
}
