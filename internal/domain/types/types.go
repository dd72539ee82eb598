// Package types contains the response shapes handed to callers of the service.
package types

import "math"

// ScoreOut is a player with their rounded average score.
type ScoreOut struct {
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	Gender       string  `json:"gender"`
	AverageScore float64 `json:"average_score"`
}

// TeamSummary aggregates one team.
type TeamSummary struct {
	TotalScore   float64        `json:"total_score"`
	AverageScore float64        `json:"average_score"`
	GenderCounts map[string]int `json:"gender_counts"`
}

// Summary holds the per-team aggregates of a split.
type Summary struct {
	TeamA TeamSummary `json:"team_a"`
	TeamB TeamSummary `json:"team_b"`
}

// TeamResponse is the full result of a team generation.
type TeamResponse struct {
	TeamA   []ScoreOut `json:"team_a"`
	TeamB   []ScoreOut `json:"team_b"`
	Summary Summary    `json:"summary"`
}

// Progress reports how far voting has come for an event.
type Progress struct {
	CompletedVoters int  `json:"completed_voters"`
	RequiredVoters  int  `json:"required_voters"`
	CanShowResults  bool `json:"can_show_results"`
}

// Round2 rounds v half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
