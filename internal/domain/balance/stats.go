package balance

import "github.com/yildocan/volley/internal/domain/model"

// TeamStats holds the statistics derived from a team roster.
type TeamStats struct {
	Total        float64
	Mean         float64
	GenderCounts map[model.Gender]int
}

// Stats derives total, mean and gender counts for a team. Every known gender
// is present in GenderCounts, zero when absent from the roster.
func Stats(t Team) TeamStats {
	total, counts := summarize(t)
	st := TeamStats{Total: total, GenderCounts: counts}
	if len(t) > 0 {
		st.Mean = total / float64(len(t))
	}
	return st
}

func summarize(t Team) (float64, map[model.Gender]int) {
	counts := make(map[model.Gender]int, len(model.Genders()))
	for _, g := range model.Genders() {
		counts[g] = 0
	}
	total := 0.0
	for _, p := range t {
		total += p.AverageScore
		counts[p.Gender]++
	}
	return total, counts
}

func countGenders(players []model.PlayerScore) map[model.Gender]int {
	_, counts := summarize(players)
	return counts
}
