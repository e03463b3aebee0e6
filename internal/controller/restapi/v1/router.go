package v1

import (
	"github.com/gofiber/fiber/v2"

	"github.com/heartbeam/photo-service/internal/controller/restapi/v1/validate"
	"github.com/heartbeam/photo-service/internal/infrastructure/auth"
	"github.com/heartbeam/photo-service/internal/usecase"
	"github.com/heartbeam/photo-service/pkg/logger"
)

func NewPhotoRoutes(apiV1Group fiber.Router, photos usecase.PhotoUseCase, tokens *auth.TokenManager, maxUploadBytes int64, l logger.Interface) {
	if maxUploadBytes <= 0 {
		maxUploadBytes = validate.DefaultMaxFileSize
	}

	r := &V1{photos: photos, maxUploadBytes: maxUploadBytes, logger: l}

	apiV1Group.Use(authMiddleware(tokens))

	{
		apiV1Group.Post("/profiles/:id/photos", r.submitPhotos)
		apiV1Group.Get("/profiles/:id/photos", r.listPhotos)
		apiV1Group.Put("/profiles/:id/photos/order", r.reorderPhotos)

		apiV1Group.Delete("/photos/:id", r.deletePhoto)
		apiV1Group.Put("/photos/:id/primary", r.setPrimaryPhoto)
	}
}
