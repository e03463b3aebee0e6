package errs

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrDuplicatePhoto     = errors.New("duplicate photo")
	ErrInvalidImage       = errors.New("invalid image")
	ErrPhotoRejected      = errors.New("photo rejected by moderation")
	ErrPhotoLimitReached  = errors.New("photo limit reached")
	ErrIllegalTransition  = errors.New("illegal moderation status transition")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrNotOwner           = errors.New("photo does not belong to profile")
	ErrInvalidReorder     = errors.New("reorder list is not a permutation of the profile photos")
)
