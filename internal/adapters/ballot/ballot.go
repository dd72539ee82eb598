// Package ballot reads and writes YAML ballot files: a roster, one event
// and the votes cast for it.
package ballot

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/yildocan/volley/internal/adapters/repository"
	"github.com/yildocan/volley/internal/domain/model"
)

// DateLayout is the layout of the event date field.
const DateLayout = "2006-01-02"

// File is the on-disk shape of a ballot.
type File struct {
	// Date of the event, DateLayout. Empty means today (UTC).
	Date   string `koanf:"date" yaml:"date,omitempty"`
	Weekly bool   `koanf:"weekly" yaml:"weekly"`

	Players []Player `koanf:"players" yaml:"players"`

	// Participants lists player names enrolled in the event.
	// Empty enrolls every player.
	Participants []string `koanf:"participants" yaml:"participants,omitempty"`

	Votes []Vote `koanf:"votes" yaml:"votes"`
}

// Player is a roster entry.
type Player struct {
	Name   string `koanf:"name" yaml:"name"`
	Gender string `koanf:"gender" yaml:"gender"`
}

// Vote is one score given by Voter to Target, both by player name.
type Vote struct {
	Voter  string `koanf:"voter" yaml:"voter"`
	Target string `koanf:"target" yaml:"target"`
	Score  int    `koanf:"score" yaml:"score"`
}

// Read parses the ballot at path.
func Read(path string) (File, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return File{}, fmt.Errorf("%w: %s: %w", ErrReadBallot, path, err)
	}
	var f File
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return File{}, fmt.Errorf("%w: %s: %w", ErrReadBallot, path, err)
	}
	return f, nil
}

// Write encodes f as YAML.
func Write(w io.Writer, f File) error {
	enc := yamlv3.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteBallot, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteBallot, err)
	}
	return nil
}

// Apply registers the ballot's players, event and votes in store and
// returns the event.
func Apply(ctx context.Context, store *repository.InMemoryStore, f File) (model.Event, error) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if f.Date != "" {
		d, err := time.Parse(DateLayout, f.Date)
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: date %q: %w", ErrInvalidBallot, f.Date, err)
		}
		date = d
	}

	ids := make(map[string]string, len(f.Players))
	order := make([]string, 0, len(f.Players))
	for _, p := range f.Players {
		g, err := model.ParseGender(p.Gender)
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: player %q: %w", ErrInvalidBallot, p.Name, err)
		}
		added, err := store.AddPlayer(ctx, p.Name, g)
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: player %q: %w", ErrInvalidBallot, p.Name, err)
		}
		ids[p.Name] = added.ID
		order = append(order, added.ID)
	}

	if len(f.Participants) > 0 {
		order = order[:0]
		for _, name := range f.Participants {
			id, err := lookup(ctx, store, ids, name)
			if err != nil {
				return model.Event{}, err
			}
			order = append(order, id)
		}
	}

	event, err := store.CreateEvent(ctx, date, f.Weekly)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: %w", ErrInvalidBallot, err)
	}
	if _, err := store.SetParticipants(ctx, event.ID, order); err != nil {
		return model.Event{}, fmt.Errorf("%w: %w", ErrInvalidBallot, err)
	}

	for i, v := range f.Votes {
		voter, err := lookup(ctx, store, ids, v.Voter)
		if err != nil {
			return model.Event{}, err
		}
		target, err := lookup(ctx, store, ids, v.Target)
		if err != nil {
			return model.Event{}, err
		}
		err = store.RecordVote(ctx, model.Vote{
			EventID:  event.ID,
			VoterID:  voter,
			TargetID: target,
			Score:    v.Score,
		})
		if err != nil {
			return model.Event{}, fmt.Errorf("%w: vote %d (%s -> %s): %w", ErrInvalidBallot, i+1, v.Voter, v.Target, err)
		}
	}

	return store.Event(ctx, event.ID)
}

// lookup resolves a player name, exact first, then case-insensitively.
func lookup(ctx context.Context, store *repository.InMemoryStore, ids map[string]string, name string) (string, error) {
	if id, ok := ids[name]; ok {
		return id, nil
	}
	p, err := store.PlayerByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidBallot, name, err)
	}
	return p.ID, nil
}
