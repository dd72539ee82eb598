package ballot_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yildocan/volley/internal/adapters/ballot"
	"github.com/yildocan/volley/internal/adapters/repository"
	"github.com/yildocan/volley/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `
date: "2025-12-25"
weekly: true
players:
  - name: alpha
    gender: M
  - name: bravo
    gender: f
  - name: charlie
    gender: M
votes:
  - {voter: alpha, target: bravo, score: 6}
  - {voter: alpha, target: charlie, score: 8}
  - {voter: bravo, target: alpha, score: 4}
  - {voter: bravo, target: charlie, score: 10}
  - {voter: charlie, target: alpha, score: 5}
  - {voter: charlie, target: bravo, score: 7}
`

func writeFile(dir, content string) string {
	path := filepath.Join(dir, "ballot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		panic(err)
	}
	return path
}

func TestRead(t *testing.T) {
	Convey("Given a ballot file on disk", t, func() {
		path := writeFile(t.TempDir(), sample)

		Convey("When reading it", func() {
			f, err := ballot.Read(path)

			Convey("Then every section is decoded", func() {
				So(err, ShouldBeNil)
				So(f.Date, ShouldEqual, "2025-12-25")
				So(f.Weekly, ShouldBeTrue)
				So(f.Players, ShouldResemble, []ballot.Player{
					{Name: "alpha", Gender: "M"},
					{Name: "bravo", Gender: "f"},
					{Name: "charlie", Gender: "M"},
				})
				So(len(f.Votes), ShouldEqual, 6)
				So(f.Votes[3], ShouldResemble, ballot.Vote{Voter: "bravo", Target: "charlie", Score: 10})
			})
		})
	})

	Convey("Given a path that does not exist", t, func() {
		_, err := ballot.Read(filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("Then a read error is returned", func() {
			So(errors.Is(err, ballot.ErrReadBallot), ShouldBeTrue)
		})
	})
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	Convey("Given a decoded ballot", t, func() {
		f, err := ballot.Read(writeFile(t.TempDir(), sample))
		So(err, ShouldBeNil)
		store := repository.NewInMemoryStore()

		Convey("When applying it to a store", func() {
			event, err := ballot.Apply(ctx, store, f)
			So(err, ShouldBeNil)

			Convey("Then the event holds every player", func() {
				So(event.Date, ShouldEqual, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC))
				So(len(event.ParticipantIDs), ShouldEqual, 3)
				bravo, err := store.PlayerByName(ctx, "bravo")
				So(err, ShouldBeNil)
				So(bravo.Gender, ShouldEqual, model.GenderFemale)
			})

			Convey("And the votes produce the expected averages", func() {
				completed, err := store.CompletedVoters(ctx, event.ID)
				So(err, ShouldBeNil)
				scores, err := store.AverageScores(ctx, event.ID, completed)
				So(err, ShouldBeNil)
				So(scores[0].AverageScore, ShouldEqual, 4.5)
				So(scores[1].AverageScore, ShouldEqual, 6.5)
				So(scores[2].AverageScore, ShouldEqual, 9.0)
			})
		})
	})

	Convey("Given a ballot with a restricted participant list", t, func() {
		f, err := ballot.Read(writeFile(t.TempDir(), sample))
		So(err, ShouldBeNil)
		f.Participants = []string{"charlie", "alpha"}
		f.Votes = f.Votes[:0]
		store := repository.NewInMemoryStore()

		Convey("When applying it", func() {
			event, err := ballot.Apply(ctx, store, f)

			Convey("Then only those players take part, in that order", func() {
				So(err, ShouldBeNil)
				players, err := store.Participants(ctx, event.ID)
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 2)
				So(players[0].Name, ShouldEqual, "charlie")
				So(players[1].Name, ShouldEqual, "alpha")
			})
		})
	})

	Convey("Given malformed ballots", t, func() {
		base := func() ballot.File {
			return ballot.File{
				Date:    "2025-12-25",
				Players: []ballot.Player{{Name: "alpha", Gender: "M"}, {Name: "bravo", Gender: "F"}},
			}
		}

		Convey("Then an unparsable date is rejected", func() {
			f := base()
			f.Date = "25/12/2025"
			_, err := ballot.Apply(ctx, repository.NewInMemoryStore(), f)
			So(errors.Is(err, ballot.ErrInvalidBallot), ShouldBeTrue)
		})

		Convey("Then an unknown gender is rejected", func() {
			f := base()
			f.Players[1].Gender = "X"
			_, err := ballot.Apply(ctx, repository.NewInMemoryStore(), f)
			So(errors.Is(err, ballot.ErrInvalidBallot), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidGender), ShouldBeTrue)
		})

		Convey("Then a vote naming an unknown player is rejected", func() {
			f := base()
			f.Votes = []ballot.Vote{{Voter: "alpha", Target: "zulu", Score: 5}}
			_, err := ballot.Apply(ctx, repository.NewInMemoryStore(), f)
			So(errors.Is(err, repository.ErrPlayerNotFound), ShouldBeTrue)
		})

		Convey("Then a self vote is rejected", func() {
			f := base()
			f.Votes = []ballot.Vote{{Voter: "alpha", Target: "alpha", Score: 5}}
			_, err := ballot.Apply(ctx, repository.NewInMemoryStore(), f)
			So(errors.Is(err, repository.ErrSelfVote), ShouldBeTrue)
		})
	})
}

func TestGenerate(t *testing.T) {
	date := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

	Convey("Given generation options", t, func() {
		opts := ballot.GenerateOptions{Players: 12, Seed: 7, Date: date}

		Convey("When generating twice with the same seed", func() {
			first, err1 := ballot.Generate(opts)
			second, err2 := ballot.Generate(opts)

			Convey("Then both ballots are identical and complete", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(first.Date, ShouldEqual, "2025-12-25")
				So(len(first.Players), ShouldEqual, 12)
				So(len(first.Votes), ShouldEqual, 12*11)
				for _, v := range first.Votes {
					So(v.Voter, ShouldNotEqual, v.Target)
					So(v.Score, ShouldBeBetweenOrEqual, 1, 10)
				}
			})
		})

		Convey("When writing and reading the ballot back", func() {
			f, err := ballot.Generate(opts)
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			So(ballot.Write(&buf, f), ShouldBeNil)
			path := writeFile(t.TempDir(), buf.String())
			back, err := ballot.Read(path)

			Convey("Then it applies cleanly and every player completed voting", func() {
				So(err, ShouldBeNil)
				So(back.Players, ShouldResemble, f.Players)
				store := repository.NewInMemoryStore()
				event, err := ballot.Apply(context.Background(), store, back)
				So(err, ShouldBeNil)
				completed, err := store.CompletedVoters(context.Background(), event.ID)
				So(err, ShouldBeNil)
				So(len(completed), ShouldEqual, 12)
			})
		})

		Convey("When asking for too few players", func() {
			_, err := ballot.Generate(ballot.GenerateOptions{Players: 1})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ballot.ErrInvalidBallot), ShouldBeTrue)
			})
		})

		Convey("When the score range is inverted", func() {
			_, err := ballot.Generate(ballot.GenerateOptions{Players: 4, ScoreMin: 9, ScoreMax: 2})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ballot.ErrInvalidBallot), ShouldBeTrue)
			})
		})
	})
}
