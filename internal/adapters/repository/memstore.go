package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yildocan/volley/internal/domain/model"
	"github.com/yildocan/volley/internal/domain/tally"
	"github.com/yildocan/volley/pkg/metrics"
)

const (
	defaultMinScore = 1
	defaultMaxScore = 10
	dateKeyLayout   = "2006-01-02"
)

type voteKey struct {
	eventID  string
	voterID  string
	targetID string
}

// InMemoryStore keeps players, events and votes in process memory.
// Votes are kept in insertion order per event.
type InMemoryStore struct {
	mu sync.RWMutex

	players     map[string]model.Player
	playerNames map[string]string // lower-cased name -> id
	events      map[string]*model.Event
	eventDates  map[string]string // date key -> event id
	votes       map[string][]model.Vote
	cast        map[voteKey]struct{}

	minScore int
	maxScore int
	newID    func() string
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		players:     make(map[string]model.Player),
		playerNames: make(map[string]string),
		events:      make(map[string]*model.Event),
		eventDates:  make(map[string]string),
		votes:       make(map[string][]model.Vote),
		cast:        make(map[voteKey]struct{}),
		minScore:    defaultMinScore,
		maxScore:    defaultMaxScore,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddPlayer registers a player. Names are unique, case-insensitively.
func (s *InMemoryStore) AddPlayer(_ context.Context, name string, gender model.Gender) (model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Player{}, fmt.Errorf("%w: empty name", ErrInvalidPlayer)
	}
	if _, err := model.ParseGender(string(gender)); err != nil {
		return model.Player{}, fmt.Errorf("%w: %w", ErrInvalidPlayer, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := s.playerNames[key]; ok {
		return model.Player{}, fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
	}
	p := model.Player{ID: s.newID(), Name: name, Gender: gender}
	s.players[p.ID] = p
	s.playerNames[key] = p.ID
	return p, nil
}

// PlayerByName looks a player up by name, case-insensitively.
func (s *InMemoryStore) PlayerByName(_ context.Context, name string) (model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.playerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return model.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	return s.players[id], nil
}

// CreateEvent creates the event for a date, or returns the existing one.
func (s *InMemoryStore) CreateEvent(_ context.Context, date time.Time, weekly bool) (model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := date.Format(dateKeyLayout)
	if id, ok := s.eventDates[key]; ok {
		return copyEvent(s.events[id]), nil
	}
	e := &model.Event{ID: s.newID(), Date: date, Weekly: weekly}
	s.events[e.ID] = e
	s.eventDates[key] = e.ID
	return copyEvent(e), nil
}

// Event returns an event by id.
func (s *InMemoryStore) Event(_ context.Context, eventID string) (model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[eventID]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return copyEvent(e), nil
}

// SetParticipants replaces the participant list of an event. Repeated ids
// are collapsed, keeping the first occurrence.
func (s *InMemoryStore) SetParticipants(_ context.Context, eventID string, playerIDs []string) ([]model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	seen := make(map[string]bool, len(playerIDs))
	ids := make([]string, 0, len(playerIDs))
	players := make([]model.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if seen[id] {
			continue
		}
		p, ok := s.players[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
		}
		seen[id] = true
		ids = append(ids, id)
		players = append(players, p)
	}
	e.ParticipantIDs = ids
	return players, nil
}

// RecordVote stores a rating. Each voter may rate each other participant once.
func (s *InMemoryStore) RecordVote(_ context.Context, v model.Vote) error {
	err := s.recordVote(v)
	if err != nil {
		metrics.RecordVoteRejected(rejectReason(err))
		return err
	}
	metrics.RecordVoteRecorded()
	return nil
}

func (s *InMemoryStore) recordVote(v model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[v.EventID]
	switch {
	case !ok:
		return fmt.Errorf("%w: %s", ErrEventNotFound, v.EventID)
	case !e.HasParticipant(v.VoterID):
		return fmt.Errorf("%w: voter %s", ErrNotParticipant, v.VoterID)
	case v.VoterID == v.TargetID:
		return ErrSelfVote
	case !e.HasParticipant(v.TargetID):
		return fmt.Errorf("%w: target %s", ErrNotParticipant, v.TargetID)
	case v.Score < s.minScore || v.Score > s.maxScore:
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidScore, v.Score, s.minScore, s.maxScore)
	}

	key := voteKey{eventID: v.EventID, voterID: v.VoterID, targetID: v.TargetID}
	if _, dup := s.cast[key]; dup {
		return ErrDuplicateVote
	}
	s.cast[key] = struct{}{}
	s.votes[v.EventID] = append(s.votes[v.EventID], v)
	return nil
}

// Votes returns a copy of the votes cast for an event.
func (s *InMemoryStore) Votes(_ context.Context, eventID string) ([]model.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.events[eventID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return append([]model.Vote(nil), s.votes[eventID]...), nil
}

// Participants implements Store.
func (s *InMemoryStore) Participants(_ context.Context, eventID string) ([]model.Player, error) {
	defer observe("participants", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return s.participantsLocked(e), nil
}

// CompletedVoters implements Store.
func (s *InMemoryStore) CompletedVoters(_ context.Context, eventID string) ([]string, error) {
	defer observe("completed_voters", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	if len(e.ParticipantIDs) == 0 {
		return nil, ErrNoParticipants
	}
	completed, err := tally.CompletedVoters(e.ParticipantIDs, s.votes[eventID])
	if err != nil {
		return nil, fmt.Errorf("completed voters of %s: %w", eventID, err)
	}
	return completed, nil
}

// AverageScores implements Store.
func (s *InMemoryStore) AverageScores(_ context.Context, eventID string, voterIDs []string) ([]model.PlayerScore, error) {
	defer observe("average_scores", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[eventID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	return tally.Averages(s.participantsLocked(e), s.votes[eventID], voterIDs), nil
}

func (s *InMemoryStore) participantsLocked(e *model.Event) []model.Player {
	players := make([]model.Player, 0, len(e.ParticipantIDs))
	for _, id := range e.ParticipantIDs {
		players = append(players, s.players[id])
	}
	return players
}

func copyEvent(e *model.Event) model.Event {
	out := *e
	out.ParticipantIDs = append([]string(nil), e.ParticipantIDs...)
	return out
}

func observe(operation string, start time.Time) {
	metrics.RecordRepositoryQueryLatency(operation, float64(time.Since(start).Microseconds())/1000)
}
