package response

import (
	"time"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
)

type Photo struct {
	PhotoID      string `json:"photo_id"`
	URL          string `json:"url"`
	ContentType  string `json:"content_type"`
	Size         int    `json:"size"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func NewPhoto(photo *entity.Photo) Photo {
	return Photo{
		PhotoID:      photo.ID.String(),
		URL:          photo.URL,
		ContentType:  photo.ContentType,
		Size:         int(photo.Size),
		Width:        photo.Width,
		Height:       photo.Height,
		DisplayOrder: photo.DisplayOrder,
		IsPrimary:    photo.IsPrimary,
		Status:       string(photo.Status),
		CreatedAt:    photo.CreatedAt.Format(time.RFC3339),
	}
}

func NewPhotos(photos []*entity.Photo) []Photo {
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		out = append(out, NewPhoto(p))
	}

	return out
}

type BatchFailure struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type SubmitBatch struct {
	Photos []Photo       `json:"photos"`
	Failed *BatchFailure `json:"failed,omitempty"`
	Total  int           `json:"total"`
}

func NewSubmitBatch(result *dto.BatchResult) SubmitBatch {
	resp := SubmitBatch{
		Photos: NewPhotos(result.Submitted),
		Total:  result.Total,
	}

	if result.Failed != nil {
		resp.Failed = &BatchFailure{
			Index:   result.Failed.Index,
			Kind:    string(result.Failed.Kind),
			Message: result.Failed.Message,
		}
	}

	return resp
}
