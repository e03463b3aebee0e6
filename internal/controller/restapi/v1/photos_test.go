package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/internal/infrastructure/auth"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

type nopLogger struct{}

func (nopLogger) Debug(message interface{}, args ...interface{}) {}
func (nopLogger) Info(message string, args ...interface{})       {}
func (nopLogger) Warn(message string, args ...interface{})       {}
func (nopLogger) Error(message interface{}, args ...interface{}) {}
func (nopLogger) Fatal(message interface{}, args ...interface{}) {}

// fakePhotos stubs the use case behind the handlers; only the function
// fields a test sets are expected to be called.
type fakePhotos struct {
	submitFn     func(owner uuid.UUID, items []dto.StagedUpload) (*dto.BatchResult, error)
	listFn       func(owner uuid.UUID) ([]*entity.Photo, error)
	deleteFn     func(owner, photoID uuid.UUID) error
	setPrimaryFn func(owner, photoID uuid.UUID) error
	reorderFn    func(owner uuid.UUID, ids []uuid.UUID) error
}

func (f *fakePhotos) SubmitBatch(ctx context.Context, owner uuid.UUID, items []dto.StagedUpload, progress dto.ProgressFunc) (*dto.BatchResult, error) {
	return f.submitFn(owner, items)
}

func (f *fakePhotos) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entity.Photo, error) {
	return f.listFn(owner)
}

func (f *fakePhotos) Delete(ctx context.Context, owner, photoID uuid.UUID) error {
	return f.deleteFn(owner, photoID)
}

func (f *fakePhotos) SetPrimary(ctx context.Context, owner, photoID uuid.UUID) error {
	return f.setPrimaryFn(owner, photoID)
}

func (f *fakePhotos) Reorder(ctx context.Context, owner uuid.UUID, ids []uuid.UUID) error {
	return f.reorderFn(owner, ids)
}

func (f *fakePhotos) ResolveReview(ctx context.Context, photoID uuid.UUID, verdict entity.Verdict) error {
	return nil
}

func (f *fakePhotos) GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	return nil, nil
}

func (f *fakePhotos) MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}

func (f *fakePhotos) MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}

func (f *fakePhotos) IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	return nil
}

func (f *fakePhotos) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error { return nil }
func (f *fakePhotos) CleanupOutbox(ctx context.Context) error                          { return nil }

func newTestApp(t *testing.T, photos *fakePhotos) (*fiber.App, *auth.TokenManager) {
	return newTestAppWithLimit(t, photos, 0)
}

func newTestAppWithLimit(t *testing.T, photos *fakePhotos, maxUploadBytes int64) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	app := fiber.New()
	tokens := auth.NewTokenManager("test-secret")
	NewPhotoRoutes(app.Group("/v1"), photos, tokens, maxUploadBytes, nopLogger{})

	return app, tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, profileID uuid.UUID) string {
	t.Helper()

	token, err := tokens.Issue(profileID, time.Minute)
	require.NoError(t, err)

	return "Bearer " + token
}

func multipartPhotos(t *testing.T, names ...string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range names {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photos"; filename="%s.jpg"`, name))
		h.Set("Content-Type", "image/jpeg")

		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("image bytes " + name))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t, &fakePhotos{})

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+uuid.NewString()+"/photos", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListOtherProfileForbidden(t *testing.T) {
	app, tokens := newTestApp(t, &fakePhotos{})

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+uuid.NewString()+"/photos", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListPhotos(t *testing.T) {
	owner := uuid.New()
	photos := &fakePhotos{
		listFn: func(got uuid.UUID) ([]*entity.Photo, error) {
			assert.Equal(t, owner, got)
			return []*entity.Photo{
				{ID: uuid.New(), OwnerProfileID: owner, Status: entity.ModerationApproved, CreatedAt: time.Now()},
				{ID: uuid.New(), OwnerProfileID: owner, Status: entity.ModerationPending, DisplayOrder: 1, CreatedAt: time.Now()},
			}, nil
		},
	}
	app, tokens := newTestApp(t, photos)

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles/"+owner.String()+"/photos", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, owner))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body, 2)
}

func TestSubmitPhotos(t *testing.T) {
	owner := uuid.New()
	photos := &fakePhotos{
		submitFn: func(got uuid.UUID, items []dto.StagedUpload) (*dto.BatchResult, error) {
			assert.Equal(t, owner, got)
			require.Len(t, items, 2)
			assert.Equal(t, "one.jpg", items[0].OriginalName)

			return &dto.BatchResult{
				Submitted: []*entity.Photo{
					{ID: uuid.New(), OwnerProfileID: owner, Status: entity.ModerationApproved, CreatedAt: time.Now()},
					{ID: uuid.New(), OwnerProfileID: owner, Status: entity.ModerationApproved, DisplayOrder: 1, CreatedAt: time.Now()},
				},
				Total: 2,
			}, nil
		},
	}
	app, tokens := newTestApp(t, photos)

	body, contentType := multipartPhotos(t, "one", "two")
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/"+owner.String()+"/photos", body)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, owner))
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSubmitPhotosConfiguredSizeCap(t *testing.T) {
	owner := uuid.New()

	// the cap comes from configuration, not a compiled-in constant; the use
	// case must never be reached for an oversized file
	app, tokens := newTestAppWithLimit(t, &fakePhotos{}, 8)

	body, contentType := multipartPhotos(t, "oversized")
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/"+owner.String()+"/photos", body)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, owner))
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestSubmitPhotosLimitReached(t *testing.T) {
	owner := uuid.New()
	photos := &fakePhotos{
		submitFn: func(uuid.UUID, []dto.StagedUpload) (*dto.BatchResult, error) {
			return nil, fmt.Errorf("submit: %w", errs.ErrPhotoLimitReached)
		},
	}
	app, tokens := newTestApp(t, photos)

	body, contentType := multipartPhotos(t, "one")
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/"+owner.String()+"/photos", body)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, owner))
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSubmitPhotosAllRejected(t *testing.T) {
	owner := uuid.New()
	photos := &fakePhotos{
		submitFn: func(uuid.UUID, []dto.StagedUpload) (*dto.BatchResult, error) {
			return &dto.BatchResult{
				Failed: &dto.ItemFailure{Index: 0, Kind: dto.FailureRejected, Message: "this photo contains inappropriate content"},
				Total:  1,
			}, nil
		},
	}
	app, tokens := newTestApp(t, photos)

	body, contentType := multipartPhotos(t, "one")
	req := httptest.NewRequest(http.MethodPost, "/v1/profiles/"+owner.String()+"/photos", body)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, owner))
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeletePhotoNotOwner(t *testing.T) {
	caller := uuid.New()
	photos := &fakePhotos{
		deleteFn: func(owner, photoID uuid.UUID) error {
			assert.Equal(t, caller, owner)
			return fmt.Errorf("delete: %w", errs.ErrNotOwner)
		},
	}
	app, tokens := newTestApp(t, photos)

	req := httptest.NewRequest(http.MethodDelete, "/v1/photos/"+uuid.NewString(), nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, caller))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSetPrimaryNotFound(t *testing.T) {
	photos := &fakePhotos{
		setPrimaryFn: func(owner, photoID uuid.UUID) error {
			return fmt.Errorf("set primary: %w", errs.ErrRecordNotFound)
		},
	}
	app, tokens := newTestApp(t, photos)

	req := httptest.NewRequest(http.MethodPut, "/v1/photos/"+uuid.NewString()+"/primary", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, uuid.New()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReorderInvalid(t *testing.T) {
	owner := uuid.New()
	photos := &fakePhotos{
		reorderFn: func(uuid.UUID, []uuid.UUID) error {
			return fmt.Errorf("reorder: %w", errs.ErrInvalidReorder)
		},
	}
	app, tokens := newTestApp(t, photos)

	payload, err := json.Marshal(reorderRequest{PhotoIDs: []uuid.UUID{uuid.New()}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/v1/profiles/"+owner.String()+"/photos/order", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tokens, owner))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
