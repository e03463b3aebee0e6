package entity

type RejectReason string

const (
	ReasonExplicitContent RejectReason = "explicit_content"
	ReasonNeedsReview     RejectReason = "needs_review"
)

// Verdict is an explicit answer from the moderation service.
// A transport or service failure is not a Verdict, it is an error.
type Verdict struct {
	Approved bool         `json:"approved"`
	Reason   RejectReason `json:"reason,omitempty"`
}

// Rejecting reports whether the verdict requires the photo to be removed.
func (v Verdict) Rejecting() bool {
	if v.Approved {
		return false
	}
	return v.Reason == ReasonExplicitContent || v.Reason == ReasonNeedsReview
}
