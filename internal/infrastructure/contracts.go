package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
)

type (
	// ImageProcessor validates, optimizes and fingerprints picked images.
	ImageProcessor interface {
		Validate(ctx context.Context, data []byte) (*dto.ImageInfo, error)
		Optimize(ctx context.Context, data []byte, opts dto.OptimizeOptions) (*dto.Optimized, error)
		Thumbnail(ctx context.Context, data []byte, blur bool) ([]byte, error)
		Fingerprint(data []byte) string
	}

	// ModerationGateway calls the external classification procedure.
	// A returned error means the service itself failed, not that the
	// photo was rejected.
	ModerationGateway interface {
		Check(ctx context.Context, req dto.ModerationRequest) (*entity.Verdict, error)
	}

	// EntitlementProvider reports the owner's current subscription tier.
	EntitlementProvider interface {
		Snapshot(ctx context.Context, profileID uuid.UUID) (*entity.Entitlement, error)
	}

	EventsSender interface {
		SendEvents(ctx context.Context, events []*entity.OutboxEvent) error
		Close() error
	}
)
