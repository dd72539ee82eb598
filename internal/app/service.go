// Package service turns collected votes into progress reports, score tables
// and balanced teams.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yildocan/volley/internal/adapters/repository"
	"github.com/yildocan/volley/internal/domain/balance"
	"github.com/yildocan/volley/internal/domain/model"
	"github.com/yildocan/volley/internal/domain/types"
	"github.com/yildocan/volley/pkg/logger"
	"github.com/yildocan/volley/pkg/metrics"
)

const (
	// DefaultMinVoters is the completed voter count required before results are shown.
	DefaultMinVoters = 12
	// minVotersFloor is the smallest accepted MinVoters setting.
	minVotersFloor = 2
)

// Service answers result queries for events.
type Service struct {
	store     repository.Store
	minVoters int
	logger    logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the store votes and players are read from.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithMinVoters sets the completed voter count required before results are
// shown. Values below 2 are raised to 2.
func WithMinVoters(n int) Option {
	return func(s *Service) {
		s.minVoters = max(minVotersFloor, n)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Without WithStore it reads from an empty
// in-memory store.
func New(opts ...Option) *Service {
	s := &Service{minVoters: DefaultMinVoters}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewInMemoryStore()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("service")
	return s
}

// MinVoters returns the configured completed voter requirement.
func (s *Service) MinVoters() int { return s.minVoters }

// Progress reports how many participants have finished voting.
func (s *Service) Progress(ctx context.Context, eventID string) (types.Progress, error) {
	completed, err := s.store.CompletedVoters(ctx, eventID)
	if err != nil {
		return types.Progress{}, fmt.Errorf("progress of %s: %w", eventID, err)
	}
	metrics.UpdateCompletedVoters(len(completed))
	return types.Progress{
		CompletedVoters: len(completed),
		RequiredVoters:  s.minVoters,
		CanShowResults:  len(completed) >= s.minVoters,
	}, nil
}

// Scores returns the average score of every completed voter, ordered by name.
func (s *Service) Scores(ctx context.Context, eventID string) ([]types.ScoreOut, error) {
	completed, err := s.requireCompleted(ctx, eventID)
	if err != nil {
		return nil, err
	}
	players, err := s.store.AverageScores(ctx, eventID, completed)
	if err != nil {
		return nil, fmt.Errorf("scores of %s: %w", eventID, err)
	}

	sort.SliceStable(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	out := make([]types.ScoreOut, len(players))
	for i, p := range players {
		out[i] = toScoreOut(p)
	}
	return out, nil
}

// Teams splits the completed voters of an event into two balanced teams.
func (s *Service) Teams(ctx context.Context, eventID string) (types.TeamResponse, error) {
	start := time.Now()
	resp, err := s.teams(ctx, eventID, start)
	if err != nil {
		metrics.RecordGenerationError(reason(err))
		s.logger.Warn(ctx, "team generation refused",
			logger.String("event", eventID),
			logger.Error(err),
		)
	}
	return resp, err
}

func (s *Service) teams(ctx context.Context, eventID string, start time.Time) (types.TeamResponse, error) {
	completed, err := s.requireCompleted(ctx, eventID)
	if err != nil {
		return types.TeamResponse{}, err
	}
	if len(completed)%2 != 0 {
		return types.TeamResponse{}, &GuardError{
			Kind: ErrOddVoters,
			Msg:  "Completed voter count must be even to split teams evenly",
		}
	}

	players, err := s.store.AverageScores(ctx, eventID, completed)
	if err != nil {
		return types.TeamResponse{}, fmt.Errorf("teams of %s: %w", eventID, err)
	}
	result, err := balance.Generate(players)
	if err != nil {
		return types.TeamResponse{}, err
	}

	elapsed := time.Since(start)
	metrics.RecordGeneration(metrics.Generation{
		InitialImbalance: result.Report.InitialImbalance,
		FinalImbalance:   result.Report.FinalImbalance,
		Swaps:            result.Report.Swaps,
		Passes:           result.Report.Passes,
		LatencyMs:        float64(elapsed.Microseconds()) / 1000,
	})
	s.logger.Info(ctx, "teams generated",
		logger.String("event", eventID),
		logger.Int("players", len(players)),
		logger.Float64("initialImbalance", result.Report.InitialImbalance),
		logger.Float64("finalImbalance", result.Report.FinalImbalance),
		logger.Int("swaps", result.Report.Swaps),
		logger.Int("passes", result.Report.Passes),
		logger.Duration("elapsed", elapsed),
	)

	return types.TeamResponse{
		TeamA: toScoreOuts(result.TeamA),
		TeamB: toScoreOuts(result.TeamB),
		Summary: types.Summary{
			TeamA: toSummary(result.TeamA),
			TeamB: toSummary(result.TeamB),
		},
	}, nil
}

// requireCompleted returns the completed voters, refusing events that have
// not reached the configured minimum yet.
func (s *Service) requireCompleted(ctx context.Context, eventID string) ([]string, error) {
	completed, err := s.store.CompletedVoters(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("completed voters of %s: %w", eventID, err)
	}
	metrics.UpdateCompletedVoters(len(completed))
	if len(completed) < s.minVoters {
		return nil, &GuardError{
			Kind: ErrNotEnoughVoters,
			Msg: fmt.Sprintf("Completed voters: %d/%d. At least %d completed voters required before computing teams",
				len(completed), s.minVoters, s.minVoters),
		}
	}
	return completed, nil
}

func toScoreOut(p model.PlayerScore) types.ScoreOut {
	return types.ScoreOut{
		UserID:       p.ID,
		Username:     p.Name,
		Gender:       string(p.Gender),
		AverageScore: types.Round2(p.AverageScore),
	}
}

func toScoreOuts(t balance.Team) []types.ScoreOut {
	out := make([]types.ScoreOut, len(t))
	for i, p := range t {
		out[i] = toScoreOut(p)
	}
	return out
}

func toSummary(t balance.Team) types.TeamSummary {
	st := balance.Stats(t)
	counts := make(map[string]int, len(st.GenderCounts))
	for g, n := range st.GenderCounts {
		counts[string(g)] = n
	}
	return types.TeamSummary{
		TotalScore:   types.Round2(st.Total),
		AverageScore: types.Round2(st.Mean),
		GenderCounts: counts,
	}
}
