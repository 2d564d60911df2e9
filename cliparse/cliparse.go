// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              int
	DatabaseURL       string
	DatabaseType      string
	AdminKeySalt      string
	ElectionSlugSalt  string
	SchedulerInterval time.Duration
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("lucky-ballot", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or memory)")
	fs.DurationVar(&cfg.SchedulerInterval, "scheduler-interval", 0, "Scheduled lottery sweep interval")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.ElectionSlugSalt, "slug-salt", "", "Election slug salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3419 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	switch cfg.DatabaseType {
	case "postgres", "sqlite", "memory":
	default:
		return Config{}, errors.New("DATABASE_TYPE must be postgres, sqlite or memory")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" && cfg.DatabaseType != "memory" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.SchedulerInterval == 0 {
		if intervalStr := os.Getenv("SCHEDULER_INTERVAL"); intervalStr != "" {
			interval, err := time.ParseDuration(intervalStr)
			if err != nil {
				return Config{}, errors.New("invalid SCHEDULER_INTERVAL env variable")
			}
			cfg.SchedulerInterval = interval
		} else {
			cfg.SchedulerInterval = time.Minute
		}
	}
	if cfg.SchedulerInterval < 0 {
		return Config{}, errors.New("scheduler interval must not be negative")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.ElectionSlugSalt == "" {
		cfg.ElectionSlugSalt = os.Getenv("ELECTION_SLUG_SALT")
	}
	if cfg.ElectionSlugSalt == "" {
		return Config{}, errors.New("ELECTION_SLUG_SALT required")
	}

	return cfg, nil
}
