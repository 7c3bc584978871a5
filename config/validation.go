package config

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap/zapcore"

	"github.com/pageza/pantrymatch/backend/internal/matching"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []error
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		fail("server.port", fmt.Sprintf("invalid port %q", cfg.Server.Port))
	}

	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Path == "" {
			fail("db.path", "required for the sqlite driver")
		}
	case "postgres":
		if cfg.Database.Host == "" {
			fail("db.host", "required for the postgres driver")
		}
		if cfg.Database.Name == "" {
			fail("db.name", "required for the postgres driver")
		}
		if cfg.Database.User == "" {
			fail("db.user", "required for the postgres driver")
		}
		// In production sensitive values must come from docker secrets or the environment
		if cfg.Env.IsProduction() && cfg.Database.Password == "" {
			fail("db.password", "db_password secret is required in production")
		}
	default:
		fail("db.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver))
	}

	if cfg.Suggest.DefaultMaxResults < 0 {
		fail("suggest.default_max_results", "must not be negative")
	}
	if cfg.Suggest.MaxResultsCap < 1 {
		fail("suggest.max_results_cap", "must be at least 1")
	}
	if _, err := matching.ParsePolicy(cfg.Suggest.SubstitutionPolicy); err != nil {
		fail("suggest.substitution_policy", err.Error())
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Requests <= 0 {
			fail("rate_limit.requests", "must be positive when rate limiting is enabled")
		}
		if cfg.RateLimit.Window <= 0 {
			fail("rate_limit.window", "must be positive when rate limiting is enabled")
		}
	}

	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		fail("log.level", err.Error())
	}
	switch cfg.Log.Format {
	case "", "json", "console":
	default:
		fail("log.format", fmt.Sprintf("unsupported format %q", cfg.Log.Format))
	}

	return errors.Join(errs...)
}
