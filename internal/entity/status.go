package entity

// ModerationStatus is the lifecycle of a single photo.
// Allowed transitions: pending -> approved, pending -> rejected.
// A rejected photo is deleted (row and objects), it is never served.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) CanTransition(to ModerationStatus) bool {
	if s != ModerationPending {
		return false
	}
	return to == ModerationApproved || to == ModerationRejected
}

// OutboxStatus is the lifecycle of a review-outbox event.
type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxProcessed  OutboxStatus = "processed"
	OutboxFailed     OutboxStatus = "failed"
)
