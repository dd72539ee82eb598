package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yildocan/volley/internal/adapters/repository"
	service "github.com/yildocan/volley/internal/app"
	"github.com/yildocan/volley/internal/domain/model"
	"github.com/yildocan/volley/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

type seeded struct {
	store   *repository.InMemoryStore
	eventID string
	players []model.Player
}

// seedRoster registers player01.. with the given genders and enrolls them in one event.
func seedRoster(genders string) seeded {
	ctx := context.Background()
	store := repository.NewInMemoryStore()

	ids := make([]string, 0, len(genders))
	players := make([]model.Player, 0, len(genders))
	for i, g := range genders {
		p, err := store.AddPlayer(ctx, fmt.Sprintf("player%02d", i+1), model.Gender(string(g)))
		So(err, ShouldBeNil)
		ids = append(ids, p.ID)
		players = append(players, p)
	}
	event, err := store.CreateEvent(ctx, time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), true)
	So(err, ShouldBeNil)
	_, err = store.SetParticipants(ctx, event.ID, ids)
	So(err, ShouldBeNil)
	return seeded{store: store, eventID: event.ID, players: players}
}

// voteAll makes every voter give each target the target's fixed score.
func (s seeded) voteAll(voters []int, scores []int) {
	ctx := context.Background()
	for _, v := range voters {
		for t, target := range s.players {
			if t == v {
				continue
			}
			err := s.store.RecordVote(ctx, model.Vote{
				EventID:  s.eventID,
				VoterID:  s.players[v].ID,
				TargetID: target.ID,
				Score:    scores[t],
			})
			So(err, ShouldBeNil)
		}
	}
}

func names(team []types.ScoreOut) []string {
	out := make([]string, len(team))
	for i, p := range team {
		out[i] = p.Username
	}
	return out
}

func TestServiceIntegration_Teams(t *testing.T) {
	Convey("Given twelve players who all rated each other", t, func() {
		s := seedRoster("MMMMMMFFFFFF")
		s.voteAll([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 10, 9})
		svc := service.New(service.WithStore(s.store))
		ctx := context.Background()

		Convey("When checking progress", func() {
			progress, err := svc.Progress(ctx, s.eventID)

			Convey("Then everyone has completed", func() {
				So(err, ShouldBeNil)
				So(progress, ShouldResemble, types.Progress{CompletedVoters: 12, RequiredVoters: 12, CanShowResults: true})
			})
		})

		Convey("When generating teams", func() {
			resp, err := svc.Teams(ctx, s.eventID)
			So(err, ShouldBeNil)

			Convey("Then the teams match the balanced split", func() {
				So(names(resp.TeamA), ShouldResemble, []string{"player01", "player12", "player03", "player06", "player07", "player10"})
				So(names(resp.TeamB), ShouldResemble, []string{"player11", "player02", "player04", "player05", "player08", "player09"})
			})

			Convey("And the summary reports level totals and genders", func() {
				for _, sum := range []types.TeamSummary{resp.Summary.TeamA, resp.Summary.TeamB} {
					So(sum.TotalScore, ShouldEqual, 37)
					So(sum.AverageScore, ShouldEqual, 6.17)
					So(sum.GenderCounts, ShouldResemble, map[string]int{"M": 3, "F": 3})
				}
			})

			Convey("And members carry their rounded averages", func() {
				So(resp.TeamA[0].AverageScore, ShouldEqual, 10)
				So(resp.TeamA[0].Gender, ShouldEqual, "M")
				So(resp.TeamA[0].UserID, ShouldEqual, s.players[0].ID)
			})
		})

		Convey("When generating teams twice", func() {
			first, err1 := svc.Teams(ctx, s.eventID)
			second, err2 := svc.Teams(ctx, s.eventID)

			Convey("Then both answers are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})
	})

	Convey("Given fourteen participants of whom two never voted", t, func() {
		s := seedRoster("MMMMMMFFFFFFMF")
		s.voteAll([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 10, 9, 1, 1})
		svc := service.New(service.WithStore(s.store))

		Convey("When generating teams", func() {
			resp, err := svc.Teams(context.Background(), s.eventID)

			Convey("Then only the completed voters are split", func() {
				So(err, ShouldBeNil)
				all := append(names(resp.TeamA), names(resp.TeamB)...)
				So(len(all), ShouldEqual, 12)
				So(all, ShouldNotContain, "player13")
				So(all, ShouldNotContain, "player14")
			})
		})
	})

	Convey("Given an event where nobody finished voting", t, func() {
		s := seedRoster("MMMMMMFFFFFF")
		svc := service.New(service.WithStore(s.store))

		Convey("When generating teams", func() {
			_, err := svc.Teams(context.Background(), s.eventID)

			Convey("Then the request is refused as a client error", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldEqual, "Completed voters: 0/12. At least 12 completed voters required before computing teams")
				So(service.IsClientError(err), ShouldBeTrue)
			})
		})
	})
}
