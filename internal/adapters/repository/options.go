package repository

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithScoreRange sets the inclusive range of accepted vote scores.
func WithScoreRange(minScore, maxScore int) Option {
	return func(s *InMemoryStore) {
		if minScore <= maxScore {
			s.minScore = minScore
			s.maxScore = maxScore
		}
	}
}

// WithIDGenerator replaces the uuid generator used for new players and events.
func WithIDGenerator(gen func() string) Option {
	return func(s *InMemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
