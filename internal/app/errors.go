package service

import (
	"errors"

	"github.com/yildocan/volley/internal/adapters/repository"
	"github.com/yildocan/volley/internal/domain/balance"
	"github.com/yildocan/volley/internal/domain/model"
	"github.com/yildocan/volley/internal/domain/tally"
)

// Sentinel kinds for the guards applied before teams are generated.
var (
	ErrNotEnoughVoters = errors.New("not enough completed voters")
	ErrOddVoters       = errors.New("odd completed voter count")
)

// GuardError carries the message shown to the caller for a refused request.
// It unwraps to one of the package sentinels.
type GuardError struct {
	Kind error
	Msg  string
}

func (e *GuardError) Error() string { return e.Msg }

func (e *GuardError) Unwrap() error { return e.Kind }

var clientErrors = []error{
	ErrNotEnoughVoters,
	ErrOddVoters,
	balance.ErrInvalidInput,
	tally.ErrNotEnoughParticipants,
	model.ErrInvalidGender,
	repository.ErrEventNotFound,
	repository.ErrPlayerNotFound,
	repository.ErrInvalidPlayer,
	repository.ErrDuplicatePlayer,
	repository.ErrNoParticipants,
	repository.ErrNotParticipant,
	repository.ErrSelfVote,
	repository.ErrInvalidScore,
	repository.ErrDuplicateVote,
}

// IsClientError reports whether err was caused by the request rather than
// by a fault, so the caller should not retry it unchanged.
func IsClientError(err error) bool {
	for _, kind := range clientErrors {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// reason maps a generation error to a metrics label.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotEnoughVoters):
		return "not_enough_voters"
	case errors.Is(err, ErrOddVoters):
		return "odd_voters"
	case errors.Is(err, balance.ErrInvalidInput):
		return "invalid_input"
	case IsClientError(err):
		return "client"
	default:
		return "store"
	}
}
