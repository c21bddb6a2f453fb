package config

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
)

// Option is a function that modifies a Config. Options validate inputs
// and reject invalid values with warnings.
type Option func(*Config)

func warnInvalid(field string, val any) {
	gn.Warn(fmt.Sprintf(
		"<warn>Ignoring invalid value %v for %s</warn>", val, field,
	))
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s == "" {
			warnInvalid("Database Host", s)
			return
		}
		c.Database.Host = s
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if i <= 0 || i > 65535 {
			warnInvalid("Database Port", i)
			return
		}
		c.Database.Port = i
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s == "" {
			warnInvalid("Database User", s)
			return
		}
		c.Database.User = s
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	return func(c *Config) {
		if s == "" {
			return
		}
		c.Database.Password = s
	}
}

// OptDatabaseName sets the PostgreSQL database name to connect to.
func OptDatabaseName(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s == "" {
			warnInvalid("Database Name", s)
			return
		}
		c.Database.Database = s
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "disable", "require", "verify-ca", "verify-full":
			c.Database.SSLMode = s
		default:
			warnInvalid("Database SSLMode", s)
		}
	}
}

// OptDatabaseBatchSize sets the number of records per bulk operation.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if i <= 0 {
			warnInvalid("Database BatchSize", i)
			return
		}
		c.Database.BatchSize = i
	}
}

// OptPrimaryKey sets the artist-tag source API key.
func OptPrimaryKey(s string) Option {
	return func(c *Config) {
		c.Enrich.PrimaryKey = strings.TrimSpace(s)
	}
}

// OptPrimaryRPS sets the primary source request-per-second ceiling.
func OptPrimaryRPS(f float64) Option {
	return func(c *Config) {
		if f <= 0 || f > 50 {
			warnInvalid("Enrich PrimaryRPS", f)
			return
		}
		c.Enrich.PrimaryRPS = f
	}
}

// OptSecondaryRPS sets the secondary source request-per-second ceiling.
func OptSecondaryRPS(f float64) Option {
	return func(c *Config) {
		if f <= 0 || f > 50 {
			warnInvalid("Enrich SecondaryRPS", f)
			return
		}
		c.Enrich.SecondaryRPS = f
	}
}

// OptSecondaryToken sets the release-database credential. An empty token
// is a valid state: the secondary source is then skipped.
func OptSecondaryToken(s string) Option {
	return func(c *Config) {
		c.Enrich.SecondaryToken = strings.TrimSpace(s)
	}
}

// OptMaxRetries bounds retry attempts on transient source errors.
func OptMaxRetries(i int) Option {
	return func(c *Config) {
		if i < 0 || i > 10 {
			warnInvalid("Enrich MaxRetries", i)
			return
		}
		c.Enrich.MaxRetries = i
	}
}

// OptCacheBackend selects the enrichment-cache implementation.
func OptCacheBackend(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "badger", "sqlite":
			c.Enrich.CacheBackend = s
		default:
			warnInvalid("Enrich CacheBackend", s)
		}
	}
}

// OptMinCountryFill sets the non-critical country fill-rate threshold.
func OptMinCountryFill(f float64) Option {
	return func(c *Config) {
		if f < 0 || f > 1 {
			warnInvalid("Validate MinCountryFill", f)
			return
		}
		c.Validate.MinCountryFill = f
	}
}

// OptMinGenreFill sets the non-critical genre fill-rate threshold.
func OptMinGenreFill(f float64) Option {
	return func(c *Config) {
		if f < 0 || f > 1 {
			warnInvalid("Validate MinGenreFill", f)
			return
		}
		c.Validate.MinGenreFill = f
	}
}

// OptYearRange sets the projection X-axis year range.
func OptYearRange(min, max int) Option {
	return func(c *Config) {
		if min <= 0 || max <= min {
			warnInvalid("Projection YearRange", fmt.Sprintf("%d-%d", min, max))
			return
		}
		c.Projection.MinYear = min
		c.Projection.MaxYear = max
	}
}

// OptCanvas sets the virtual canvas size.
func OptCanvas(w, h float64) Option {
	return func(c *Config) {
		if w <= 0 || h <= 0 {
			warnInvalid("Projection Canvas", fmt.Sprintf("%.0fx%.0f", w, h))
			return
		}
		c.Projection.Width = w
		c.Projection.Height = h
	}
}

// OptDataDir overrides the snapshot/report directory.
func OptDataDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if s != "" {
			c.DataDir = s
		}
	}
}

// OptHomeDir sets the base directory for config, cache and logs.
func OptHomeDir(s string) Option {
	return func(c *Config) {
		if s != "" {
			c.HomeDir = s
		}
	}
}

// OptLogLevel sets the log level.
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "debug", "info", "warn", "error":
			c.Log.Level = s
		default:
			warnInvalid("Log Level", s)
		}
	}
}

// OptLogFormat sets the log format.
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "json", "text":
			c.Log.Format = s
		default:
			warnInvalid("Log Format", s)
		}
	}
}

// OptLogDestination sets where logs are written.
func OptLogDestination(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "file", "stdout", "stderr":
			c.Log.Destination = s
		default:
			warnInvalid("Log Destination", s)
		}
	}
}
