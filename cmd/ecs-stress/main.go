package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, eris.ToString(err, false))
		os.Exit(2)
	}

	logger := newLogger(cfg.LogLevel)

	switch cfg.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	if err := run(cfg, logger); err != nil {
		logger.Error().Str("error", eris.ToString(err, true)).Msg("stress test failed")
		os.Exit(1)
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

func run(cfg Config, logger zerolog.Logger) error {
	runID := uuid.New().String()
	logger = logger.With().Str("run_id", runID).Logger()
	logger.Info().Msg("Starting ECS stress test...")

	// 1. Setup world, stores, archetypes and systems
	s, err := newSim(cfg, logger)
	if err != nil {
		return eris.Wrap(err, "building world")
	}

	// 2. Populate the world with initial entities
	logger.Info().Int("entities", cfg.Entities).Msg("Populating world...")
	if err := s.populate(cfg.Entities); err != nil {
		return err
	}
	logger.Info().Msg("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		RunID:          runID,
		Duration:       cfg.Duration,
		Entities:       cfg.Entities,
		Capacity:       cfg.Capacity,
		Components:     cfg.Components,
		Archetypes:     s.world.Archetypes().Len(),
		Systems:        cfg.Systems,
		Churn:          cfg.Churn,
		GCPauseMetrics: cfg.GCPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Dur("duration", cfg.Duration).Msg("Running simulation...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			s.scheduler.Once(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.World = s.world.CollectStats()
	report.setSystems(s.scheduler.GetStats(), 5)
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info().Int64("updates", totalUpdates).Msg("Simulation finished.")

	// 4. Generate Report to Console
	if cfg.Format == "json" {
		if err := report.WriteJSON(os.Stdout); err != nil {
			return eris.Wrap(err, "encoding report")
		}
	} else {
		fmt.Println("\n\n--- Stress Test Report ---")
		if err := report.Generate(os.Stdout); err != nil {
			return eris.Wrap(err, "generating report")
		}
		fmt.Println("--- End of Report ---")
	}

	logger.Info().Msg("Stress test complete.")
	return nil
}
