package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/internal/infrastructure"
	"github.com/heartbeam/photo-service/internal/repo"
	"github.com/heartbeam/photo-service/pkg/logger"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

// Limits are the per-tier photo allowances and the optimizer byte budget.
type Limits struct {
	MaxOutputBytes int64
	FreeLimit      int
	PremiumLimit   int
}

type UseCase struct {
	objects  repo.ObjectRepo
	metadata repo.PhotoMetadataRepo
	profiles repo.ProfileRepo
	outbox   repo.OutboxReviewRepo

	transactor repo.Transactor

	processor   infrastructure.ImageProcessor
	moderation  infrastructure.ModerationGateway
	entitlement infrastructure.EntitlementProvider

	limits Limits

	logger logger.Interface
}

func New(
	objects repo.ObjectRepo,
	metadata repo.PhotoMetadataRepo,
	profiles repo.ProfileRepo,
	outbox repo.OutboxReviewRepo,
	transactor repo.Transactor,
	processor infrastructure.ImageProcessor,
	moderation infrastructure.ModerationGateway,
	entitlement infrastructure.EntitlementProvider,
	limits Limits,
	l logger.Interface,
) *UseCase {
	return &UseCase{
		objects:     objects,
		metadata:    metadata,
		profiles:    profiles,
		outbox:      outbox,
		transactor:  transactor,
		processor:   processor,
		moderation:  moderation,
		entitlement: entitlement,
		limits:      limits,
		logger:      l,
	}
}

func (uc *UseCase) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.Photo, error) {
	photos, err := uc.metadata.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - ListByOwner - uc.metadata.ListByOwner: %w", err)
	}

	return photos, nil
}

func (uc *UseCase) Delete(ctx context.Context, owner, photoID uuid.UUID) error {
	photo, err := uc.metadata.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - Delete - uc.metadata.GetByID: %w", err)
	}

	if photo.OwnerProfileID != owner {
		return fmt.Errorf("PhotoUseCase - Delete: %w", errs.ErrNotOwner)
	}

	// 1. row first, then close the display order gap, in one transaction
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.metadata.Delete(ctx, photo.ID); err != nil {
			return fmt.Errorf("PhotoUseCase - Delete - uc.metadata.Delete: %w", err)
		}

		if err := uc.metadata.ShiftOrdersAfter(ctx, owner, photo.DisplayOrder); err != nil {
			return fmt.Errorf("PhotoUseCase - Delete - uc.metadata.ShiftOrdersAfter: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("PhotoUseCase - Delete - uc.transactor.WithinTransaction: %w", err)
	}

	// 2. objects are best-effort once the row is gone
	uc.deleteObjects(ctx, photo.StorageKey, photo.ThumbnailKey)

	return nil
}

func (uc *UseCase) SetPrimary(ctx context.Context, owner, photoID uuid.UUID) error {
	photo, err := uc.metadata.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - SetPrimary - uc.metadata.GetByID: %w", err)
	}

	if photo.OwnerProfileID != owner {
		return fmt.Errorf("PhotoUseCase - SetPrimary: %w", errs.ErrNotOwner)
	}

	// clear-then-set in one transaction keeps at most one primary per owner
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := uc.metadata.ClearPrimary(ctx, owner); err != nil {
			return fmt.Errorf("PhotoUseCase - SetPrimary - uc.metadata.ClearPrimary: %w", err)
		}

		if err := uc.metadata.MarkPrimary(ctx, owner, photoID); err != nil {
			return fmt.Errorf("PhotoUseCase - SetPrimary - uc.metadata.MarkPrimary: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("PhotoUseCase - SetPrimary - uc.transactor.WithinTransaction: %w", err)
	}

	return nil
}

// Reorder re-packs the owner's photos into the given order. The id list
// must be a permutation of the owner's current photos.
func (uc *UseCase) Reorder(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) error {
	photos, err := uc.metadata.ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("PhotoUseCase - Reorder - uc.metadata.ListByOwner: %w", err)
	}

	if len(ids) != len(photos) {
		return fmt.Errorf("PhotoUseCase - Reorder: %w", errs.ErrInvalidReorder)
	}

	owned := make(map[uuid.UUID]struct{}, len(photos))
	for _, p := range photos {
		owned[p.ID] = struct{}{}
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := owned[id]; !ok {
			return fmt.Errorf("PhotoUseCase - Reorder: %w", errs.ErrInvalidReorder)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("PhotoUseCase - Reorder: %w", errs.ErrInvalidReorder)
		}
		seen[id] = struct{}{}
	}

	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for order, id := range ids {
			if err := uc.metadata.UpdateOrder(ctx, owner, id, order); err != nil {
				return fmt.Errorf("PhotoUseCase - Reorder - uc.metadata.UpdateOrder: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("PhotoUseCase - Reorder - uc.transactor.WithinTransaction: %w", err)
	}

	return nil
}

// ResolveReview applies an asynchronous review verdict. Verdicts for
// photos that no longer exist or are already resolved are no-ops: the
// review tooling may answer long after the user deleted the photo.
func (uc *UseCase) ResolveReview(ctx context.Context, photoID uuid.UUID, verdict entity.Verdict) error {
	photo, err := uc.metadata.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("PhotoUseCase - ResolveReview - uc.metadata.GetByID: %w", err)
	}

	if photo.Status != entity.ModerationPending {
		return nil
	}

	if verdict.Approved {
		err := uc.metadata.UpdateStatus(ctx, photo.ID, entity.ModerationPending, entity.ModerationApproved)
		if err != nil {
			if errors.Is(err, errs.ErrRecordNotFound) {
				// lost the race with another resolver
				return nil
			}
			return fmt.Errorf("PhotoUseCase - ResolveReview - uc.metadata.UpdateStatus: %w", err)
		}
		return nil
	}

	if !verdict.Rejecting() {
		// ambiguous verdict, leave the photo pending
		return nil
	}

	if err := uc.metadata.Delete(ctx, photo.ID); err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("PhotoUseCase - ResolveReview - uc.metadata.Delete: %w", err)
	}

	uc.deleteObjects(ctx, photo.StorageKey, photo.ThumbnailKey)

	return nil
}

func (uc *UseCase) deleteObjects(ctx context.Context, key string, thumbKey *string) {
	if err := uc.objects.Delete(ctx, key); err != nil {
		uc.logger.Warn("failed to delete key=%s, error=%v", key, err)
	}

	if thumbKey != nil {
		if err := uc.objects.Delete(ctx, *thumbKey); err != nil {
			uc.logger.Warn("failed to delete key=%s, error=%v", *thumbKey, err)
		}
	}
}
