package hasher

import "errors"

var (
	ErrNilReader     = errors.New("hasher: nil reader")
	ErrFailedToHash  = errors.New("hasher: failed to hash content")
	ErrInvalidDigest = errors.New("hasher: invalid digest")
)
