package ballot

import "errors"

// Sentinel error kinds for ballot files.
var (
	ErrReadBallot    = errors.New("read ballot failed")
	ErrInvalidBallot = errors.New("invalid ballot")
	ErrWriteBallot   = errors.New("write ballot failed")
)
