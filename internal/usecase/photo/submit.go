package photo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

const _jpegContentType = "image/jpeg"

type dupResult int

const (
	dupNo dupResult = iota
	dupYes
	dupUnknown
)

// SubmitBatch runs the submission pipeline over the staged photos,
// strictly in array order: photo i+1 is not started until photo i fully
// resolved. The first fatal item stops the batch; photos accepted before
// it are kept and reported in the result together with the failed index.
func (uc *UseCase) SubmitBatch(
	ctx context.Context,
	owner uuid.UUID,
	items []dto.StagedUpload,
	progress dto.ProgressFunc,
) (*dto.BatchResult, error) {
	result := &dto.BatchResult{Total: len(items)}
	if len(items) == 0 {
		return result, nil
	}

	profile, err := uc.profiles.GetByID(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - SubmitBatch - uc.profiles.GetByID: %w", err)
	}

	existing, err := uc.metadata.CountByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("PhotoUseCase - SubmitBatch - uc.metadata.CountByOwner: %w", err)
	}

	if existing+len(items) > uc.allowance(ctx, owner) {
		return nil, fmt.Errorf("PhotoUseCase - SubmitBatch: %w", errs.ErrPhotoLimitReached)
	}

	staged := make(map[string]struct{}, len(items))

	// display orders continue from what is already persisted
	nextOrder := existing

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("PhotoUseCase - SubmitBatch - ctx.Err: %w", err)
		}

		photo, created, failure := uc.submitOne(ctx, profile, item, nextOrder, staged)
		if failure != nil {
			failure.Index = i
			result.Failed = failure
			break
		}

		// only a freshly inserted row consumes the order slot; a conflict
		// resolved to an existing row keeps the orders dense
		if created {
			nextOrder++
		}

		staged[photo.ContentHash] = struct{}{}
		result.Submitted = append(result.Submitted, photo)

		if progress != nil {
			progress(len(result.Submitted), result.Total)
		}
	}

	return result, nil
}

func (uc *UseCase) submitOne(
	ctx context.Context,
	profile *entity.Profile,
	item dto.StagedUpload,
	order int,
	staged map[string]struct{},
) (*entity.Photo, bool, *dto.ItemFailure) {
	// 1. validate before any expensive processing
	if _, err := uc.processor.Validate(ctx, item.Data); err != nil {
		return nil, false, &dto.ItemFailure{Kind: dto.FailureInvalid, Message: userMessage(err)}
	}

	// 2. optimize under the byte budget
	optimized, err := uc.processor.Optimize(ctx, item.Data, dto.OptimizeOptions{MaxBytes: uc.limits.MaxOutputBytes})
	if err != nil {
		uc.logger.Error(err, "PhotoUseCase - submitOne - uc.processor.Optimize")
		return nil, false, &dto.ItemFailure{Kind: dto.FailureInvalid, Message: "could not process the image"}
	}

	thumb, err := uc.processor.Thumbnail(ctx, optimized.Data, profile.PhotoBlurEnabled)
	if err != nil {
		uc.logger.Error(err, "PhotoUseCase - submitOne - uc.processor.Thumbnail")
		return nil, false, &dto.ItemFailure{Kind: dto.FailureInvalid, Message: "could not process the image"}
	}

	// 3. fingerprint, then the cheap local check before the remote one
	hash := uc.processor.Fingerprint(optimized.Data)

	if _, ok := staged[hash]; ok {
		return nil, false, &dto.ItemFailure{Kind: dto.FailureDuplicate, Message: "this photo is already in the batch"}
	}

	switch uc.lookupDuplicate(ctx, profile.ID, hash) {
	case dupYes:
		return nil, false, &dto.ItemFailure{Kind: dto.FailureDuplicate, Message: "you already uploaded this photo"}
	case dupUnknown:
		// lookup failed; proceed optimistically, the unique constraint on
		// (owner_profile_id, content_hash) is the backstop
	}

	// 4. upload both objects; PutObject overwrites, so a retry of the same
	// step never collides
	now := time.Now()
	key := fmt.Sprintf("photos/%s/%d.jpg", profile.ID, now.UnixNano())
	thumbKey := fmt.Sprintf("photos/%s/%d_thumb.jpg", profile.ID, now.UnixNano())

	if err := uc.objects.Upload(ctx, key, optimized.Data, _jpegContentType); err != nil {
		uc.logger.Error(err, "PhotoUseCase - submitOne - uc.objects.Upload")
		return nil, false, &dto.ItemFailure{Kind: dto.FailureStorage, Message: "could not upload the photo"}
	}

	if err := uc.objects.Upload(ctx, thumbKey, thumb, _jpegContentType); err != nil {
		uc.logger.Error(err, "PhotoUseCase - submitOne - uc.objects.Upload thumbnail")
		uc.deleteObjects(ctx, key, nil)
		return nil, false, &dto.ItemFailure{Kind: dto.FailureStorage, Message: "could not upload the photo"}
	}

	photo := &entity.Photo{
		ID:             uuid.New(),
		OwnerProfileID: profile.ID,
		StorageKey:     key,
		ThumbnailKey:   &thumbKey,
		URL:            uc.objects.PublicURL(key),
		ContentHash:    hash,
		ContentType:    _jpegContentType,
		Size:           int64(len(optimized.Data)),
		Width:          optimized.Width,
		Height:         optimized.Height,
		DisplayOrder:   order,
		Status:         entity.ModerationPending,
		CreatedAt:      now,
	}

	// 5. insert metadata; a hash conflict means another attempt already
	// recorded this content, the existing row stays authoritative
	created, err := uc.metadata.Create(ctx, photo)
	if err != nil {
		uc.deleteObjects(ctx, key, &thumbKey)
		uc.logger.Error(err, "PhotoUseCase - submitOne - uc.metadata.Create")
		return nil, false, &dto.ItemFailure{Kind: dto.FailureStorage, Message: "could not save the photo"}
	}

	if !created {
		// the conflict proves the row exists, so the item is a success no
		// matter what; a failing fetch of the persisted row must not undo
		// that. The staged copy then stands in, keeping its fresh objects so
		// the returned URL stays live.
		authoritative, err := uc.metadata.GetByOwnerAndHash(ctx, profile.ID, hash)
		if err != nil {
			uc.logger.Warn("PhotoUseCase - submitOne - conflict row fetch failed, reporting staged copy for photo %s: %v", photo.ID, err)
			return photo, false, nil
		}

		uc.deleteObjects(ctx, key, &thumbKey)

		return authoritative, false, nil
	}

	// 6. moderation gate
	photo, failure := uc.moderate(ctx, photo)

	return photo, true, failure
}

// moderate runs the synchronous moderation gate. An explicit rejection
// reverses the upload; a degraded moderation service leaves the photo
// pending and queues it for asynchronous review instead of blocking the
// user.
func (uc *UseCase) moderate(ctx context.Context, photo *entity.Photo) (*entity.Photo, *dto.ItemFailure) {
	verdict, err := uc.moderation.Check(ctx, dto.ModerationRequest{
		PhotoID:        photo.ID,
		OwnerProfileID: photo.OwnerProfileID,
		URL:            photo.URL,
	})
	if err != nil {
		uc.logger.Warn("PhotoUseCase - moderate - service unavailable, photo %s left pending: %v", photo.ID, err)
		uc.enqueueReview(ctx, photo)
		return photo, nil
	}

	if verdict.Approved {
		err := uc.metadata.UpdateStatus(ctx, photo.ID, entity.ModerationPending, entity.ModerationApproved)
		if err != nil {
			// the photo stays pending, the review path will settle it
			uc.logger.Error(err, "PhotoUseCase - moderate - uc.metadata.UpdateStatus")
			uc.enqueueReview(ctx, photo)
			return photo, nil
		}

		photo.Status = entity.ModerationApproved
		return photo, nil
	}

	if !verdict.Rejecting() {
		// soft verdict, keep pending for review
		uc.enqueueReview(ctx, photo)
		return photo, nil
	}

	// explicit rejection: reverse the upload completely
	if err := uc.metadata.Delete(ctx, photo.ID); err != nil {
		uc.logger.Error(err, "PhotoUseCase - moderate - uc.metadata.Delete")
	}
	uc.deleteObjects(ctx, photo.StorageKey, photo.ThumbnailKey)

	return nil, &dto.ItemFailure{Kind: dto.FailureRejected, Message: "this photo contains inappropriate content"}
}

func (uc *UseCase) lookupDuplicate(ctx context.Context, owner uuid.UUID, hash string) dupResult {
	_, err := uc.metadata.GetByOwnerAndHash(ctx, owner, hash)
	if err == nil {
		return dupYes
	}

	if errors.Is(err, errs.ErrRecordNotFound) {
		return dupNo
	}

	uc.logger.Warn("PhotoUseCase - lookupDuplicate - remote check failed: %v", err)

	return dupUnknown
}

func (uc *UseCase) allowance(ctx context.Context, owner uuid.UUID) int {
	snapshot, err := uc.entitlement.Snapshot(ctx, owner)
	if err != nil {
		// billing outage must not block uploads, fall back to the free tier
		uc.logger.Warn("PhotoUseCase - allowance - entitlement unavailable, using free limit: %v", err)
		return uc.limits.FreeLimit
	}

	if snapshot.Tier == entity.TierPremium {
		return uc.limits.PremiumLimit
	}

	return uc.limits.FreeLimit
}

func userMessage(err error) string {
	if errors.Is(err, errs.ErrInvalidImage) {
		return "the selected file is not a usable photo"
	}

	return "could not process the image"
}
