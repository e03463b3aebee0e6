package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
)

type (
	PhotoUseCase interface {
		// SubmitBatch runs the submission pipeline over the staged photos,
		// strictly in array order. The first fatal item stops the batch;
		// already accepted items are kept.
		SubmitBatch(
			ctx context.Context,
			owner uuid.UUID,
			items []dto.StagedUpload,
			progress dto.ProgressFunc,
		) (*dto.BatchResult, error)

		ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.Photo, error)
		Delete(ctx context.Context, owner, photoID uuid.UUID) error
		SetPrimary(ctx context.Context, owner, photoID uuid.UUID) error
		Reorder(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) error

		// ResolveReview applies an asynchronous review verdict to a photo
		// still in pending. Late verdicts for resolved photos are no-ops.
		ResolveReview(ctx context.Context, photoID uuid.UUID, verdict entity.Verdict) error

		// Review outbox, consumed by the relay worker.
		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}
)
