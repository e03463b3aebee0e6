package entity

import (
	"time"

	"github.com/google/uuid"
)

type Photo struct {
	ID             uuid.UUID `json:"id"`
	OwnerProfileID uuid.UUID `json:"owner_profile_id"`

	StorageKey   string  `json:"storage_key"`
	ThumbnailKey *string `json:"thumbnail_key,omitempty"`
	URL          string  `json:"url"`

	ContentHash string `json:"content_hash"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`

	DisplayOrder int              `json:"display_order"`
	IsPrimary    bool             `json:"is_primary"`
	Status       ModerationStatus `json:"status"` // pending, approved, rejected

	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
