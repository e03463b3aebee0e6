package dto

import (
	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/entity"
)

// StagedUpload is a picked, not yet persisted image.
type StagedUpload struct {
	Data         []byte
	OriginalName string
	ContentType  string
}

type ImageInfo struct {
	Width  int
	Height int
	Size   int64
}

type Optimized struct {
	Data   []byte
	Width  int
	Height int
}

type OptimizeOptions struct {
	MaxBytes     int64
	MaxDimension int
}

// FailureKind classifies why a batch item failed.
type FailureKind string

const (
	FailureInvalid   FailureKind = "invalid"
	FailureDuplicate FailureKind = "duplicate"
	FailureRejected  FailureKind = "rejected"
	FailureStorage   FailureKind = "storage"
)

// ItemFailure names the position of the failed photo in the submitted batch.
type ItemFailure struct {
	Index   int         `json:"index"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// BatchResult reports which photos made it in before the batch stopped.
// Submitted keeps array order; Failed is nil when every item succeeded.
type BatchResult struct {
	Submitted []*entity.Photo `json:"submitted"`
	Failed    *ItemFailure    `json:"failed,omitempty"`
	Total     int             `json:"total"`
}

type ModerationRequest struct {
	PhotoID        uuid.UUID
	OwnerProfileID uuid.UUID
	URL            string
}

// ProgressFunc reports completedCount/totalCount for UI feedback.
type ProgressFunc func(completed, total int)
