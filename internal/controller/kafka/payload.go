package kafka

import (
	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/entity"
)

// VerdictPayload is the message the review tooling publishes once a
// human or the recovered moderation service settles a pending photo.
type VerdictPayload struct {
	PhotoID  uuid.UUID           `json:"photo_id"`
	Approved bool                `json:"approved"`
	Reason   entity.RejectReason `json:"reason,omitempty"`
}
