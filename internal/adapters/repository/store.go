// Package repository holds the player, event and vote records the team
// service reads from.
package repository

import (
	"context"

	"github.com/yildocan/volley/internal/domain/model"
)

// Store is the read side the team service depends on. Implementations must
// be safe for concurrent use.
type Store interface {
	// Participants returns the players registered for an event, in registration order.
	// Returns ErrEventNotFound if the event is unknown.
	Participants(ctx context.Context, eventID string) ([]model.Player, error)

	// CompletedVoters returns the ids of participants who rated every other participant.
	// Returns ErrNoParticipants if none are registered.
	CompletedVoters(ctx context.Context, eventID string) ([]string, error)

	// AverageScores returns the average received score of each player in voterIDs,
	// counting only votes exchanged among voterIDs. Order follows registration.
	AverageScores(ctx context.Context, eventID string, voterIDs []string) ([]model.PlayerScore, error)
}
