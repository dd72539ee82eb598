// Command volley reads a ballot file and prints vote progress, player
// scores or balanced teams as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/yildocan/volley/internal/adapters/ballot"
	"github.com/yildocan/volley/internal/adapters/repository"
	service "github.com/yildocan/volley/internal/app"
	"github.com/yildocan/volley/internal/config"
	"github.com/yildocan/volley/pkg/logger"
	"github.com/yildocan/volley/pkg/metrics"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitClientError = 2
)

// Output modes.
const (
	modeTeams    = "teams"
	modeScores   = "scores"
	modeProgress = "progress"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("volley", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		ballotPath = fs.String("ballot", "", "Ballot YAML file to read (required)")
		mode       = fs.String("mode", modeTeams, "Output: teams, scores or progress")
	)
	if err := fs.Parse(args); err != nil {
		return exitClientError
	}
	if *ballotPath == "" {
		_, _ = io.WriteString(stderr, "volley: -ballot is required\n")
		fs.Usage()
		return exitClientError
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = io.WriteString(stderr, "failed to load config: "+err.Error()+"\n")
		return exitFailure
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = io.WriteString(stderr, "failed to initialize logging: "+err.Error()+"\n")
		return exitFailure
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	out, err := execute(ctx, cfg, *ballotPath, *mode)

	if cfg.MetricsFile != "" {
		if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
			log.Error(ctx, "failed to write metrics", logger.String("path", cfg.MetricsFile), logger.Error(werr))
		}
	}

	if err != nil {
		log.Error(ctx, "command failed", logger.String("mode", *mode), logger.Error(err))
		_, _ = io.WriteString(stderr, err.Error()+"\n")
		if isClientError(err) {
			return exitClientError
		}
		return exitFailure
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Error(ctx, "failed to encode output", logger.Error(err))
		return exitFailure
	}
	return exitOK
}

// execute loads the ballot and answers the requested mode.
func execute(ctx context.Context, cfg *config.Config, path, mode string) (any, error) {
	switch mode {
	case modeTeams, modeScores, modeProgress:
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", errUsage, mode)
	}

	f, err := ballot.Read(path)
	if err != nil {
		return nil, err
	}
	store := repository.NewInMemoryStore(repository.WithScoreRange(cfg.ScoreMin, cfg.ScoreMax))
	event, err := ballot.Apply(ctx, store, f)
	if err != nil {
		return nil, err
	}
	logger.Get().Debug(ctx, "ballot loaded",
		logger.String("event", event.ID),
		logger.Int("participants", len(event.ParticipantIDs)),
		logger.Int("votes", len(f.Votes)),
	)

	svc := service.New(
		service.WithStore(store),
		service.WithMinVoters(cfg.MinVoters),
	)
	switch mode {
	case modeScores:
		return svc.Scores(ctx, event.ID)
	case modeProgress:
		return svc.Progress(ctx, event.ID)
	default:
		return svc.Teams(ctx, event.ID)
	}
}

func isClientError(err error) bool {
	return errors.Is(err, errUsage) ||
		errors.Is(err, ballot.ErrInvalidBallot) ||
		errors.Is(err, ballot.ErrReadBallot) ||
		service.IsClientError(err)
}
