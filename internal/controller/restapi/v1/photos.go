package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/controller/restapi/v1/response"
	"github.com/heartbeam/photo-service/internal/controller/restapi/v1/validate"
	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

// @Summary  	Submit a batch of photos
// @Description Validates, optimizes and uploads the photos in order, running each through the moderation gate
// @Tags 		photos
// @Accept 		mpfd
// @Produce 	json
// @Param 		id 	   path 	 string true "Profile ID(uuid)"
// @Param 		photos formData file   true "Image files(jpg, png, webp)"
// @Success 	201 {object} response.SubmitBatch
// @Failure 	400 {object} response.Error "No files or invalid image"
// @Failure 	403 {object} response.Error "Not your profile"
// @Failure 	409 {object} response.Error "Duplicate photo or photo limit reached"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	415 {object} response.Error "Unsupported format"
// @Failure 	422 {object} response.Error "Photo rejected by moderation"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/profiles/{id}/photos [post]
func (r *V1) submitPhotos(ctx *fiber.Ctx) error {
	owner, ok := ownProfileID(ctx)
	if !ok {
		return nil
	}

	// 1. collect the files
	form, err := ctx.MultipartForm()
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "multipart form is required")
	}

	files := form.File["photos"]
	if len(files) == 0 {
		return errorResponse(ctx, http.StatusBadRequest, "at least one photo is required")
	}

	if len(files) > validate.MaxBatchFiles {
		return errorResponse(ctx, http.StatusBadRequest,
			fmt.Sprintf("at most %d photos per request", validate.MaxBatchFiles))
	}

	// 2. cheap per-file validation before any bytes are read
	items := make([]dto.StagedUpload, 0, len(files))

	for _, file := range files {
		if file.Size == 0 {
			return errorResponse(ctx, http.StatusBadRequest, "file is empty")
		}

		if file.Size > r.maxUploadBytes {
			return errorResponse(ctx, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file size cant be more than %d bytes", r.maxUploadBytes))
		}

		contentType := file.Header.Get("Content-Type")
		if !validate.AllowedContentTypes[contentType] {
			return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported file type. Allowed: jpeg, png, webp")
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !validate.AllowedExtensions[ext] {
			return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported file extension. Allowed: .jpg, .jpeg, .png, .webp")
		}

		reader, err := file.Open()
		if err != nil {
			r.logger.Error(err, "restapi - v1 - submitPhotos")

			return errorResponse(ctx, http.StatusInternalServerError, "problems with opening the file")
		}

		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			r.logger.Error(err, "restapi - v1 - submitPhotos")

			return errorResponse(ctx, http.StatusInternalServerError, "problems with reading the file")
		}

		items = append(items, dto.StagedUpload{
			Data:         data,
			OriginalName: file.Filename,
			ContentType:  contentType,
		})
	}

	// 3. run the pipeline
	result, err := r.photos.SubmitBatch(ctx.UserContext(), owner, items, nil)
	if err != nil {
		if errors.Is(err, errs.ErrPhotoLimitReached) {
			return errorResponse(ctx, http.StatusConflict, "photo limit reached")
		}
		r.logger.Error(err, "restapi - v1 - submitPhotos")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	// 4. a batch that produced nothing reports the failure directly
	if result.Failed != nil && len(result.Submitted) == 0 {
		return errorResponse(ctx, failureStatus(result.Failed.Kind), result.Failed.Message)
	}

	return ctx.Status(http.StatusCreated).JSON(response.NewSubmitBatch(result))
}

// @Summary 	List profile photos
// @Description Returns the profile's photos ordered by display order
// @Tags 		photos
// @Produce 	json
// @Param 		id path string true "Profile ID(uuid)"
// @Success 	200 {array}  response.Photo
// @Failure 	403 {object} response.Error "Not your profile"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/profiles/{id}/photos [get]
func (r *V1) listPhotos(ctx *fiber.Ctx) error {
	owner, ok := ownProfileID(ctx)
	if !ok {
		return nil
	}

	photos, err := r.photos.ListByOwner(ctx.UserContext(), owner)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - listPhotos")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.Status(http.StatusOK).JSON(response.NewPhotos(photos))
}

// @Summary 	Delete photo
// @Description Deletes the photo and closes the display order gap
// @Tags 		photos
// @Param		id 	path	 string true "Photo ID(uuid)"
// @Success		204 "Deleted"
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	403 {object} response.Error "Not your photo"
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/photos/{id} [delete]
func (r *V1) deletePhoto(ctx *fiber.Ctx) error {
	session := sessionFrom(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	err = r.photos.Delete(ctx.UserContext(), session.ProfileID, id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrRecordNotFound):
			return errorResponse(ctx, http.StatusNotFound, "photo not found")
		case errors.Is(err, errs.ErrNotOwner):
			return errorResponse(ctx, http.StatusForbidden, "not your photo")
		}
		r.logger.Error(err, "restapi - v1 - deletePhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

// @Summary 	Set primary photo
// @Description Makes the photo the profile's primary, demoting the previous one
// @Tags 		photos
// @Param		id 	path	 string true "Photo ID(uuid)"
// @Success		204 "Updated"
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	403 {object} response.Error "Not your photo"
// @Failure 	404 {object} response.Error "Photo not found"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/photos/{id}/primary [put]
func (r *V1) setPrimaryPhoto(ctx *fiber.Ctx) error {
	session := sessionFrom(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	err = r.photos.SetPrimary(ctx.UserContext(), session.ProfileID, id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrRecordNotFound):
			return errorResponse(ctx, http.StatusNotFound, "photo not found")
		case errors.Is(err, errs.ErrNotOwner):
			return errorResponse(ctx, http.StatusForbidden, "not your photo")
		}
		r.logger.Error(err, "restapi - v1 - setPrimaryPhoto")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

type reorderRequest struct {
	PhotoIDs []uuid.UUID `json:"photo_ids"`
}

// @Summary 	Reorder photos
// @Description Re-packs the profile's photos into the given order. The list must be a permutation of the current photos
// @Tags 		photos
// @Accept 		json
// @Param 		id 		path string 		 true "Profile ID(uuid)"
// @Param 		request body reorderRequest true "New photo order"
// @Success		204 "Updated"
// @Failure 	400 {object} response.Error "Not a permutation of the current photos"
// @Failure 	403 {object} response.Error "Not your profile"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/profiles/{id}/photos/order [put]
func (r *V1) reorderPhotos(ctx *fiber.Ctx) error {
	owner, ok := ownProfileID(ctx)
	if !ok {
		return nil
	}

	var req reorderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid body")
	}

	err := r.photos.Reorder(ctx.UserContext(), owner, req.PhotoIDs)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidReorder) {
			return errorResponse(ctx, http.StatusBadRequest, "photo_ids must list each of your photos exactly once")
		}
		r.logger.Error(err, "restapi - v1 - reorderPhotos")

		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return ctx.SendStatus(http.StatusNoContent)
}

// ownProfileID parses the profile id from the path and checks it against
// the session. Profiles can only manage their own photos. Writes the
// error response itself when the check fails.
func ownProfileID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	session := sessionFrom(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		errorResponse(ctx, http.StatusBadRequest, "invalid id")

		return uuid.Nil, false
	}

	if session == nil || session.ProfileID != id {
		errorResponse(ctx, http.StatusForbidden, "not your profile")

		return uuid.Nil, false
	}

	return id, true
}

func failureStatus(kind dto.FailureKind) int {
	switch kind {
	case dto.FailureInvalid:
		return http.StatusBadRequest
	case dto.FailureDuplicate:
		return http.StatusConflict
	case dto.FailureRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
