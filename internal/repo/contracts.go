package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/entity"
)

type (
	// ObjectRepo is durable object storage for photo bytes.
	// Upload overwrites an existing object under the same key, so a retry
	// of a partially failed submission never errors on a name collision.
	ObjectRepo interface {
		Upload(ctx context.Context, key string, data []byte, contentType string) error
		PublicURL(key string) string
		Delete(ctx context.Context, key string) error
	}

	// PhotoMetadataRepo is the photos table.
	PhotoMetadataRepo interface {
		// Create inserts the row; a (owner_profile_id, content_hash) conflict
		// is reported as created=false with no error.
		Create(ctx context.Context, photo *entity.Photo) (created bool, err error)
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error)
		GetByOwnerAndHash(ctx context.Context, owner uuid.UUID, hash string) (*entity.Photo, error)
		ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.Photo, error)
		CountByOwner(ctx context.Context, owner uuid.UUID) (int, error)
		// UpdateStatus applies from -> to and fails with ErrRecordNotFound
		// when the row is absent or no longer in the from status.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.ModerationStatus) error
		Delete(ctx context.Context, id uuid.UUID) error
		ClearPrimary(ctx context.Context, owner uuid.UUID) error
		MarkPrimary(ctx context.Context, owner, id uuid.UUID) error
		// ShiftOrdersAfter closes the display_order gap left by a delete.
		ShiftOrdersAfter(ctx context.Context, owner uuid.UUID, deletedOrder int) error
		UpdateOrder(ctx context.Context, owner, id uuid.UUID, order int) error
	}

	ProfileRepo interface {
		GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	}

	OutboxReviewRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		DeleteOldProcessedAndFailed(ctx context.Context) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
