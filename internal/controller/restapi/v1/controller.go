package v1

import (
	"github.com/heartbeam/photo-service/internal/usecase"
	"github.com/heartbeam/photo-service/pkg/logger"
)

type V1 struct {
	photos         usecase.PhotoUseCase
	maxUploadBytes int64
	logger         logger.Interface
}
