package entity

import "github.com/google/uuid"

type Profile struct {
	ID               uuid.UUID `json:"id"`
	PhotoBlurEnabled bool      `json:"photo_blur_enabled"`
}

// Tier is the subscription tier reported by the entitlement provider.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

type Entitlement struct {
	Tier Tier `json:"tier"`
}
