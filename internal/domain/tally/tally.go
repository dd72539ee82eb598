// Package tally aggregates raw votes into completed voters and average scores.
package tally

import (
	"errors"

	"github.com/yildocan/volley/internal/domain/model"
)

// ErrNotEnoughParticipants is returned when an event has fewer than two participants.
var ErrNotEnoughParticipants = errors.New("not enough participants")

// CompletedVoters returns the participants who rated every other participant.
// Votes cast by non-participants are ignored. The result keeps participant order.
func CompletedVoters(participants []string, votes []model.Vote) ([]string, error) {
	if len(participants) < 2 {
		return nil, ErrNotEnoughParticipants
	}
	isParticipant := make(map[string]bool, len(participants))
	for _, id := range participants {
		isParticipant[id] = true
	}

	cast := make(map[string]int, len(participants))
	for _, v := range votes {
		if isParticipant[v.VoterID] {
			cast[v.VoterID]++
		}
	}

	required := len(participants) - 1
	completed := make([]string, 0, len(participants))
	for _, id := range participants {
		if cast[id] == required {
			completed = append(completed, id)
		}
	}
	return completed, nil
}

// Averages computes, for every completed player, the mean score received from
// other completed voters. Players without a qualifying vote are left out.
// The result follows the order of players.
func Averages(players []model.Player, votes []model.Vote, completed []string) []model.PlayerScore {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	type acc struct {
		sum   int
		count int
	}
	received := make(map[string]*acc, len(completed))
	for _, v := range votes {
		if !done[v.VoterID] || !done[v.TargetID] {
			continue
		}
		a, ok := received[v.TargetID]
		if !ok {
			a = &acc{}
			received[v.TargetID] = a
		}
		a.sum += v.Score
		a.count++
	}

	scores := make([]model.PlayerScore, 0, len(received))
	for _, p := range players {
		a, ok := received[p.ID]
		if !ok {
			continue
		}
		scores = append(scores, model.PlayerScore{
			ID:           p.ID,
			Name:         p.Name,
			Gender:       p.Gender,
			AverageScore: float64(a.sum) / float64(a.count),
		})
	}
	return scores
}
