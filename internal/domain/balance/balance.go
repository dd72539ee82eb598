// Package balance splits a roster of scored players into two equal-sized
// teams balanced on total score and gender composition.
//
// The split is built in two phases. A constructive pass walks the players
// from highest to lowest score and places each one, honoring team size and
// per-gender quotas before minimizing the imbalance objective. A bounded
// local search then swaps cross-team pairs while that strictly lowers the
// objective. The result is deterministic for a given input order.
package balance

import (
	"math"
	"sort"

	"github.com/yildocan/volley/internal/domain/model"
)

// Tuning constants. Changing them changes observable team assignments.
const (
	// MinPlayers is the smallest roster the balancer accepts.
	MinPlayers = 12
	// SwapEpsilon is the improvement a swap must exceed to be committed.
	SwapEpsilon = 0.01
	// MaxRefinementPasses caps the swap-refinement phase.
	MaxRefinementPasses = 2

	genderWeight = 2.0
	sizeWeight   = 0.5
)

// Team is an ordered roster. Order follows assignment and later swaps.
type Team []model.PlayerScore

// Report describes how a split was reached.
type Report struct {
	// InitialImbalance is the objective right after the constructive pass.
	InitialImbalance float64
	// FinalImbalance is the objective of the returned teams.
	FinalImbalance float64
	// Swaps counts committed refinement swaps.
	Swaps int
	// Passes counts refinement passes run, including the converging one.
	Passes int
}

// TeamResult holds the two generated teams.
type TeamResult struct {
	TeamA  Team
	TeamB  Team
	Report Report
}

// Imbalance scores how uneven two teams are; lower is better.
// Gender imbalance is measured on the male count and weighs twice a score
// point, size imbalance weighs half a score point.
func Imbalance(a, b Team) float64 {
	totalA, countsA := summarize(a)
	totalB, countsB := summarize(b)
	scoreDiff := math.Abs(totalA - totalB)
	maleDiff := math.Abs(float64(countsA[model.GenderMale] - countsB[model.GenderMale]))
	sizeDiff := math.Abs(float64(len(a) - len(b)))
	return scoreDiff + genderWeight*maleDiff + sizeWeight*sizeDiff
}

// Generate splits players into two teams of len(players)/2.
// The roster must be even and hold at least MinPlayers players, otherwise an
// *InputError is returned. The input slice is not modified.
func Generate(players []model.PlayerScore) (TeamResult, error) {
	if len(players) < MinPlayers || len(players)%2 != 0 {
		return TeamResult{}, &InputError{Count: len(players)}
	}

	sorted := make([]model.PlayerScore, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageScore > sorted[j].AverageScore
	})

	c := newConstructor(sorted)
	for _, p := range sorted {
		c.place(p)
	}

	report := Report{InitialImbalance: Imbalance(c.a, c.b)}
	report.Swaps, report.Passes = refine(c.a, c.b)
	report.FinalImbalance = Imbalance(c.a, c.b)

	return TeamResult{TeamA: c.a, TeamB: c.b, Report: report}, nil
}

// constructor carries the state of the greedy assignment pass.
type constructor struct {
	teamSize int
	a, b     Team
	quotaA   map[model.Gender]int
	quotaB   map[model.Gender]int
	countA   map[model.Gender]int
	countB   map[model.Gender]int
}

func newConstructor(players []model.PlayerScore) *constructor {
	c := &constructor{
		teamSize: len(players) / 2,
		a:        make(Team, 0, len(players)/2),
		b:        make(Team, 0, len(players)/2),
		quotaA:   make(map[model.Gender]int),
		quotaB:   make(map[model.Gender]int),
		countA:   make(map[model.Gender]int),
		countB:   make(map[model.Gender]int),
	}
	for g, n := range countGenders(players) {
		c.quotaA[g] = n / 2
		c.quotaB[g] = n - n/2
	}
	return c
}

func (c *constructor) place(p model.PlayerScore) {
	if c.joinsA(p) {
		c.a = append(c.a, p)
		c.countA[p.Gender]++
		return
	}
	c.b = append(c.b, p)
	c.countB[p.Gender]++
}

// joinsA applies the placement rules in order: size cap, gender quota,
// objective, then smaller team, then team A.
func (c *constructor) joinsA(p model.PlayerScore) bool {
	switch {
	case len(c.a) >= c.teamSize:
		return false
	case len(c.b) >= c.teamSize:
		return true
	}

	g := p.Gender
	if c.countA[g] >= c.quotaA[g] && c.countB[g] < c.quotaB[g] {
		return false
	}
	if c.countB[g] >= c.quotaB[g] && c.countA[g] < c.quotaA[g] {
		return true
	}

	// Full slice expressions force a copy so the candidates never share
	// backing arrays with the teams being built.
	withA := Imbalance(append(c.a[:len(c.a):len(c.a)], p), c.b)
	withB := Imbalance(c.a, append(c.b[:len(c.b):len(c.b)], p))
	switch {
	case withA < withB:
		return true
	case withB < withA:
		return false
	default:
		return len(c.a) <= len(c.b)
	}
}

// refine runs first-improvement pairwise swaps in place and returns the
// number of committed swaps and passes run.
func refine(a, b Team) (swaps, passes int) {
	for passes < MaxRefinementPasses {
		passes++
		improved := false
		baseline := Imbalance(a, b)
		for i := range a {
			for j := range b {
				a[i], b[j] = b[j], a[i]
				candidate := Imbalance(a, b)
				if candidate+SwapEpsilon < baseline {
					baseline = candidate
					swaps++
					improved = true
					continue
				}
				a[i], b[j] = b[j], a[i]
			}
		}
		if !improved {
			break
		}
	}
	return swaps, passes
}
