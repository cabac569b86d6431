package main

import (
	"flag"
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config drives a stress run. Every field can be set from the environment and
// overridden on the command line.
type Config struct {
	Duration       time.Duration `config:"ECS_STRESS_DURATION"`
	Entities       int           `config:"ECS_STRESS_ENTITIES"`
	Capacity       int           `config:"ECS_STRESS_CAPACITY"`
	Components     int           `config:"ECS_STRESS_COMPONENTS"`
	Archetypes     int           `config:"ECS_STRESS_ARCHETYPES"`
	Systems        int           `config:"ECS_STRESS_SYSTEMS"`
	Churn          int           `config:"ECS_STRESS_CHURN"`
	Seed           uint64        `config:"ECS_STRESS_SEED"`
	Profile        string        `config:"ECS_STRESS_PROFILE"`
	LogLevel       string        `config:"ECS_STRESS_LOG_LEVEL"`
	Format         string        `config:"ECS_STRESS_FORMAT"`
	GCPauseMetrics bool          `config:"ECS_STRESS_GC_PAUSE_METRICS"`
}

func defaultConfig() Config {
	return Config{
		Duration:   10 * time.Second,
		Entities:   10000,
		Capacity:   1 << 16,
		Components: 32,
		Archetypes: 24,
		Systems:    16,
		Churn:      100,
		Seed:       1,
		LogLevel:   "info",
		Format:     "markdown",
	}
}

// loadConfig layers defaults, then ECS_STRESS_* variables, then flags.
func loadConfig(args []string) (Config, error) {
	cfg := defaultConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "reading environment")
	}

	fs := flag.NewFlagSet("ecs-stress", flag.ContinueOnError)
	fs.DurationVar(&cfg.Duration, "duration", cfg.Duration, "The total duration the test should run for.")
	fs.IntVar(&cfg.Entities, "entities", cfg.Entities, "The initial number of entities to create.")
	fs.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "Entity handle capacity of the world.")
	fs.IntVar(&cfg.Components, "components", cfg.Components, "Number of component kinds to register (at most 64).")
	fs.IntVar(&cfg.Archetypes, "archetypes", cfg.Archetypes, "Number of random archetypes to spawn from.")
	fs.IntVar(&cfg.Systems, "systems", cfg.Systems, "Number of drift systems to run each frame.")
	fs.IntVar(&cfg.Churn, "churn", cfg.Churn, "Entities destroyed and respawned per frame.")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed.")
	fs.StringVar(&cfg.Profile, "profile", cfg.Profile, "Write a profile: cpu or mem.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error).")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Report format: markdown or json.")
	fs.BoolVar(&cfg.GCPauseMetrics, "gc-pause-metrics", cfg.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Duration <= 0:
		return eris.Errorf("duration must be positive, got %s", c.Duration)
	case c.Capacity <= 0:
		return eris.Errorf("capacity must be positive, got %d", c.Capacity)
	case c.Entities < 0 || c.Entities > c.Capacity:
		return eris.Errorf("entities must be in [0, %d], got %d", c.Capacity, c.Entities)
	case c.Components < 1 || c.Components > 64:
		return eris.Errorf("components must be in [1, 64], got %d", c.Components)
	case c.Archetypes < 1:
		return eris.Errorf("archetypes must be positive, got %d", c.Archetypes)
	case c.Systems < 0:
		return eris.Errorf("systems must not be negative, got %d", c.Systems)
	case c.Churn < 0:
		return eris.Errorf("churn must not be negative, got %d", c.Churn)
	case c.Profile != "" && c.Profile != "cpu" && c.Profile != "mem":
		return eris.Errorf("profile must be cpu or mem, got %q", c.Profile)
	case c.Format != "markdown" && c.Format != "json":
		return eris.Errorf("format must be markdown or json, got %q", c.Format)
	}
	return nil
}
