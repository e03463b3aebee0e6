package photo

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

// --- logger ---

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

// --- object storage ---

type fakeObjects struct {
	uploads map[string][]byte
	deleted []string
	failKey string // Upload fails when the key contains this
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{uploads: map[string][]byte{}}
}

func (f *fakeObjects) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.failKey != "" && strings.Contains(key, f.failKey) {
		return fmt.Errorf("upload failed")
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeObjects) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	delete(f.uploads, key)
	f.deleted = append(f.deleted, key)
	return nil
}

// --- photo metadata ---

type fakeMetadata struct {
	photos map[uuid.UUID]*entity.Photo

	lookupErr      error // every lookup fails
	lookupFailures int   // only the next N lookups fail
	lookupCalls    int
	createErr      error
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{photos: map[uuid.UUID]*entity.Photo{}}
}

func (f *fakeMetadata) Create(ctx context.Context, photo *entity.Photo) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	for _, p := range f.photos {
		if p.OwnerProfileID == photo.OwnerProfileID && p.ContentHash == photo.ContentHash {
			return false, nil
		}
	}
	f.photos[photo.ID] = photo
	return true, nil
}

func (f *fakeMetadata) GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error) {
	p, ok := f.photos[id]
	if !ok {
		return nil, fmt.Errorf("fakeMetadata - GetByID: %w", errs.ErrRecordNotFound)
	}
	return p, nil
}

func (f *fakeMetadata) GetByOwnerAndHash(ctx context.Context, owner uuid.UUID, hash string) (*entity.Photo, error) {
	f.lookupCalls++
	if f.lookupFailures > 0 {
		f.lookupFailures--
		return nil, fmt.Errorf("fakeMetadata - GetByOwnerAndHash: connection reset")
	}
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, p := range f.photos {
		if p.OwnerProfileID == owner && p.ContentHash == hash {
			return p, nil
		}
	}
	return nil, fmt.Errorf("fakeMetadata - GetByOwnerAndHash: %w", errs.ErrRecordNotFound)
}

func (f *fakeMetadata) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.Photo, error) {
	var photos []*entity.Photo
	for _, p := range f.photos {
		if p.OwnerProfileID == owner {
			photos = append(photos, p)
		}
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].DisplayOrder < photos[j].DisplayOrder })
	return photos, nil
}

func (f *fakeMetadata) CountByOwner(ctx context.Context, owner uuid.UUID) (int, error) {
	count := 0
	for _, p := range f.photos {
		if p.OwnerProfileID == owner {
			count++
		}
	}
	return count, nil
}

func (f *fakeMetadata) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.ModerationStatus) error {
	p, ok := f.photos[id]
	if !ok || p.Status != from {
		return fmt.Errorf("fakeMetadata - UpdateStatus: %w", errs.ErrRecordNotFound)
	}
	if !from.CanTransition(to) {
		return fmt.Errorf("fakeMetadata - UpdateStatus: %w", errs.ErrIllegalTransition)
	}
	p.Status = to
	return nil
}

func (f *fakeMetadata) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.photos[id]; !ok {
		return fmt.Errorf("fakeMetadata - Delete: %w", errs.ErrRecordNotFound)
	}
	delete(f.photos, id)
	return nil
}

func (f *fakeMetadata) ClearPrimary(ctx context.Context, owner uuid.UUID) error {
	for _, p := range f.photos {
		if p.OwnerProfileID == owner {
			p.IsPrimary = false
		}
	}
	return nil
}

func (f *fakeMetadata) MarkPrimary(ctx context.Context, owner, id uuid.UUID) error {
	p, ok := f.photos[id]
	if !ok || p.OwnerProfileID != owner {
		return fmt.Errorf("fakeMetadata - MarkPrimary: %w", errs.ErrRecordNotFound)
	}
	p.IsPrimary = true
	return nil
}

func (f *fakeMetadata) ShiftOrdersAfter(ctx context.Context, owner uuid.UUID, deletedOrder int) error {
	for _, p := range f.photos {
		if p.OwnerProfileID == owner && p.DisplayOrder > deletedOrder {
			p.DisplayOrder--
		}
	}
	return nil
}

func (f *fakeMetadata) UpdateOrder(ctx context.Context, owner, id uuid.UUID, order int) error {
	p, ok := f.photos[id]
	if !ok || p.OwnerProfileID != owner {
		return fmt.Errorf("fakeMetadata - UpdateOrder: %w", errs.ErrRecordNotFound)
	}
	p.DisplayOrder = order
	return nil
}

// --- profiles ---

type fakeProfiles struct {
	profile *entity.Profile
	err     error
}

func (f *fakeProfiles) GetByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// --- review outbox ---

type fakeOutbox struct {
	events    []*entity.OutboxEvent
	createErr error
}

func (f *fakeOutbox) Create(ctx context.Context, event *entity.OutboxEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	var pending []*entity.OutboxEvent
	for _, e := range f.events {
		if e.Status == entity.OutboxPending && e.RetryCount < maxRetries {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (f *fakeOutbox) MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return f.mark(IDs, entity.OutboxProcessing)
}

func (f *fakeOutbox) MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return f.mark(IDs, entity.OutboxProcessed)
}

func (f *fakeOutbox) mark(IDs uuid.UUIDs, status entity.OutboxStatus) error {
	for _, e := range f.events {
		for _, id := range IDs {
			if e.ID == id {
				e.Status = status
			}
		}
	}
	return nil
}

func (f *fakeOutbox) IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error {
	for _, e := range f.events {
		for _, id := range IDs {
			if e.ID == id {
				e.RetryCount++
				e.Status = entity.OutboxPending
			}
		}
	}
	return nil
}

func (f *fakeOutbox) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	for _, e := range f.events {
		if e.Status == entity.OutboxPending && e.RetryCount >= maxRetries {
			e.Status = entity.OutboxFailed
		}
	}
	return nil
}

func (f *fakeOutbox) DeleteOldProcessedAndFailed(ctx context.Context) (int64, error) {
	var kept []*entity.OutboxEvent
	var removed int64
	for _, e := range f.events {
		if e.Status == entity.OutboxProcessed || e.Status == entity.OutboxFailed {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.events = kept
	return removed, nil
}

// --- transactor ---

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

// --- processor ---

// fakeProcessor avoids real image codecs: input starting with "bad" fails
// validation, optimization prefixes the bytes, the fingerprint is a real
// sha256 so identical inputs collide exactly like in production.
type fakeProcessor struct{}

func (fakeProcessor) Validate(ctx context.Context, data []byte) (*dto.ImageInfo, error) {
	if bytes.HasPrefix(data, []byte("bad")) {
		return nil, fmt.Errorf("fakeProcessor - Validate: %w", errs.ErrInvalidImage)
	}
	return &dto.ImageInfo{Width: 800, Height: 600, Size: int64(len(data))}, nil
}

func (fakeProcessor) Optimize(ctx context.Context, data []byte, opts dto.OptimizeOptions) (*dto.Optimized, error) {
	return &dto.Optimized{Data: append([]byte("opt:"), data...), Width: 400, Height: 300}, nil
}

func (fakeProcessor) Thumbnail(ctx context.Context, data []byte, blur bool) ([]byte, error) {
	if blur {
		return []byte("thumb-blurred"), nil
	}
	return []byte("thumb"), nil
}

func (fakeProcessor) Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// --- moderation ---

type moderationResult struct {
	verdict *entity.Verdict
	err     error
}

type fakeModeration struct {
	results []moderationResult
	calls   int
}

func (f *fakeModeration) Check(ctx context.Context, req dto.ModerationRequest) (*entity.Verdict, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.results) {
		return &entity.Verdict{Approved: true}, nil
	}
	r := f.results[idx]
	return r.verdict, r.err
}

// --- entitlement ---

type fakeEntitlement struct {
	tier entity.Tier
	err  error
}

func (f *fakeEntitlement) Snapshot(ctx context.Context, profileID uuid.UUID) (*entity.Entitlement, error) {
	if f.err != nil {
		return nil, f.err
	}
	tier := f.tier
	if tier == "" {
		tier = entity.TierFree
	}
	return &entity.Entitlement{Tier: tier}, nil
}
