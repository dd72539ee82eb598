package ballot

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/yildocan/volley/internal/domain/model"
)

// GenerateOptions controls synthetic ballot generation.
type GenerateOptions struct {
	Players  int
	Seed     int64
	Date     time.Time
	ScoreMin int
	ScoreMax int
}

// Generate builds a fully voted ballot. Every player has a hidden skill and
// voters rate each other around it with a little noise. The same options
// always produce the same ballot.
func Generate(opts GenerateOptions) (File, error) {
	if opts.Players < 2 {
		return File{}, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidBallot, opts.Players)
	}
	if opts.ScoreMin == 0 && opts.ScoreMax == 0 {
		opts.ScoreMin, opts.ScoreMax = 1, 10
	}
	if opts.ScoreMin > opts.ScoreMax {
		return File{}, fmt.Errorf("%w: score range %d..%d", ErrInvalidBallot, opts.ScoreMin, opts.ScoreMax)
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now().UTC()
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	span := opts.ScoreMax - opts.ScoreMin + 1

	f := File{
		Date:    opts.Date.Format(DateLayout),
		Weekly:  true,
		Players: make([]Player, opts.Players),
		Votes:   make([]Vote, 0, opts.Players*(opts.Players-1)),
	}
	skills := make([]int, opts.Players)
	for i := range f.Players {
		g := model.GenderMale
		if rng.Intn(2) == 1 {
			g = model.GenderFemale
		}
		f.Players[i] = Player{Name: fmt.Sprintf("player%02d", i+1), Gender: string(g)}
		skills[i] = opts.ScoreMin + rng.Intn(span)
	}

	for v := range f.Players {
		for t := range f.Players {
			if v == t {
				continue
			}
			score := skills[t] + rng.Intn(3) - 1
			score = min(opts.ScoreMax, max(opts.ScoreMin, score))
			f.Votes = append(f.Votes, Vote{
				Voter:  f.Players[v].Name,
				Target: f.Players[t].Name,
				Score:  score,
			})
		}
	}
	return f, nil
}
