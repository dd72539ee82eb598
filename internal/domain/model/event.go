// Package model contains domain models passed between layers.
package model

import "time"

// Event represents a recurring match day whose participants rate each other.
type Event struct {
	ID             string    // unique event id
	Date           time.Time // match day
	Weekly         bool      // repeats every week
	ParticipantIDs []string  // players taking part, in registration order
}

// Vote is a single rating cast by one participant for another.
type Vote struct {
	EventID  string
	VoterID  string
	TargetID string
	Score    int
}

// HasParticipant reports whether playerID takes part in the event.
func (e Event) HasParticipant(playerID string) bool {
	for _, id := range e.ParticipantIDs {
		if id == playerID {
			return true
		}
	}
	return false
}
