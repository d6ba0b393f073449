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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DanielD2004/Baseball-Optimizer/internal/optimizer"
	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
	"github.com/DanielD2004/Baseball-Optimizer/pkg/config"
	"github.com/DanielD2004/Baseball-Optimizer/pkg/logger"
)

// errNoSchedule is returned when the optimizer ran but produced no schedule.
// The result JSON has already been written at that point.
var errNoSchedule = errors.New("no schedule produced")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errNoSchedule) {
			fmt.Fprintf(os.Stderr, "optimize: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("optimize", flag.ContinueOnError)
	rosterPath := fs.String("roster", "", "roster JSON file, or - for stdin")
	innings := fs.Int("innings", 0, "innings per game (overrides INNINGS)")
	timeout := fs.Duration("timeout", 0, "solve time limit (overrides SOLVER_TIME_LIMIT)")
	lpPath := fs.String("lp", "", "also write the model in LP format to this file")
	logLevel := fs.String("log-level", "", "log level (overrides LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rosterPath == "" {
		return errors.New("-roster is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	log := logger.InitLogger(level, cfg.IsDevelopment())

	settings := optimizer.SettingsFromConfig(cfg)
	if *innings > 0 {
		settings.Innings = *innings
	}
	if *timeout > 0 {
		settings.TimeLimit = *timeout
	}

	roster, err := readRoster(*rosterPath, stdin)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"roster":      *rosterPath,
		"players":     len(roster.Players),
		"innings":     settings.Innings,
		"time_limit":  settings.TimeLimit.String(),
		"environment": cfg.Env,
	}).Info("Roster loaded")

	start := time.Now()
	result := optimizer.NewOptimizer(settings, optimizer.WithLogger(log)).
		Optimize(ctx, roster.Players, roster.Importance)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	// Only rosters that got as far as a built model have one to export.
	if *lpPath != "" && result.Model != nil {
		if err := writeLP(*lpPath, roster, settings); err != nil {
			return err
		}
		log.WithField("path", *lpPath).Info("Model written in LP format")
	}

	if !result.Success() {
		log.WithFields(logrus.Fields{
			"kind":   result.Failure.Kind,
			"status": result.Failure.Status,
		}).Error(result.Failure.Message)
		return errNoSchedule
	}
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Schedule written")
	return nil
}

func readRoster(path string, stdin io.Reader) (*types.Roster, error) {
	if path == "-" {
		return types.DecodeRoster(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()
	return types.DecodeRoster(f)
}

// writeLP dumps the model the optimizer will solve, for replay in an external
// MIP solver.
func writeLP(path string, roster *types.Roster, settings optimizer.Settings) error {
	model, err := optimizer.BuildModel(roster.Players, roster.Importance, settings)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create LP file: %w", err)
	}
	if err := model.MIP.WriteLP(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write LP file: %w", err)
	}
	return f.Close()
}
