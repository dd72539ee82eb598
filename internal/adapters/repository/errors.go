package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrInvalidPlayer   = errors.New("invalid player")
	ErrDuplicatePlayer = errors.New("player already exists")
	ErrNoParticipants  = errors.New("participants not configured")
	ErrNotParticipant  = errors.New("player is not in this event")
	ErrSelfVote        = errors.New("cannot vote for yourself")
	ErrInvalidScore    = errors.New("score out of range")
	ErrDuplicateVote   = errors.New("vote already exists")
)

// rejectReason maps a vote validation error to a metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, ErrNotParticipant):
		return "not_participant"
	case errors.Is(err, ErrSelfVote):
		return "self_vote"
	case errors.Is(err, ErrInvalidScore):
		return "invalid_score"
	case errors.Is(err, ErrDuplicateVote):
		return "duplicate"
	default:
		return "other"
	}
}
