// Command ballot-gen writes a synthetic, fully voted ballot file.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/yildocan/volley/internal/adapters/ballot"
	"github.com/yildocan/volley/pkg/logger"
)

const (
	defaultPlayers = 12
	defaultSeed    = 1
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ballot-gen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		players  = fs.Int("players", defaultPlayers, "Number of players on the roster")
		seed     = fs.Int64("seed", defaultSeed, "Random seed; equal seeds produce equal ballots")
		date     = fs.String("date", "", "Event date (YYYY-MM-DD, default today)")
		scoreMin = fs.Int("score-min", 1, "Lowest score a voter may give")
		scoreMax = fs.Int("score-max", 10, "Highest score a voter may give")
		out      = fs.String("out", "", "Output file (default stdout)")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := logger.Init(logger.WithWriter(stderr)); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return 1
	}
	log := logger.Get().Named("ballot-gen")

	opts := ballot.GenerateOptions{Players: *players, Seed: *seed, ScoreMin: *scoreMin, ScoreMax: *scoreMax}
	if *date != "" {
		d, err := time.Parse(ballot.DateLayout, *date)
		if err != nil {
			log.Error(ctx, "invalid date", logger.String("date", *date), logger.Error(err))
			return 2
		}
		opts.Date = d
	}

	f, err := ballot.Generate(opts)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		return 2
	}

	w := stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			log.Error(ctx, "cannot create output", logger.String("path", *out), logger.Error(err))
			return 1
		}
		defer func() { _ = file.Close() }()
		w = file
	}
	if err := ballot.Write(w, f); err != nil {
		log.Error(ctx, "write failed", logger.Error(err))
		return 1
	}

	log.Info(ctx, "ballot written",
		logger.Int("players", len(f.Players)),
		logger.Int("votes", len(f.Votes)),
		logger.String("date", f.Date),
	)
	return 0
}
