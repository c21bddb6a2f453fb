// Package config provides configuration management for amdb.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Precedence (highest to lowest): CLI flags > env vars >
// amdb.yaml > defaults.
//
// Default config (from New()) is always valid. All mutations go through
// Option functions; invalid option inputs are rejected with gn.Warn()
// and the config remains in a valid state.
package config

// Config represents the complete amdb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings for the album
	// store (dedup, projection persistence, schema management).
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Enrich contains settings for the external enrichment sources.
	Enrich EnrichConfig `mapstructure:"enrich" yaml:"enrich"`

	// Validate contains fill-rate thresholds for the reporter.
	Validate ValidateConfig `mapstructure:"validate" yaml:"validate"`

	// Projection fixes the virtual canvas shared by rendering clients.
	Projection ProjectionConfig `mapstructure:"projection" yaml:"projection"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// DataDir is where pipeline snapshots and reports are written.
	// Empty means {HomeDir}/.local/share/amdb/data.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// HomeDir determines where config, cache and log directories
	// reside. Set by the CLI during init; no default.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode is one of "disable", "require", "verify-ca",
	// "verify-full".
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of records per bulk operation.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// EnrichConfig contains settings for the two external source tiers.
type EnrichConfig struct {
	// PrimaryKey is the API key for the artist-tag source.
	PrimaryKey string `mapstructure:"primary_key" yaml:"primary_key"`

	// PrimaryRPS caps requests per second against the artist-tag
	// source (published limit: 1 request/second).
	PrimaryRPS float64 `mapstructure:"primary_rps" yaml:"primary_rps"`

	// SecondaryRPS caps requests per second against the release
	// database source (published limit: ~0.9 requests/second).
	SecondaryRPS float64 `mapstructure:"secondary_rps" yaml:"secondary_rps"`

	// SecondaryToken is the release-database credential. When empty the
	// secondary source is skipped entirely and the skip is recorded.
	SecondaryToken string `mapstructure:"secondary_token" yaml:"secondary_token"`

	// MaxRetries bounds retry attempts on transient source errors
	// before the lookup degrades to "not found" for that source.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// CacheBackend selects the durable cache implementation:
	// "badger" (default) or "sqlite".
	CacheBackend string `mapstructure:"cache_backend" yaml:"cache_backend"`
}

// ValidateConfig contains reporter thresholds. Region-bucket fill is not
// configurable: anything under 100% is always a critical failure.
type ValidateConfig struct {
	// MinCountryFill warns when country fill rate drops below this
	// fraction.
	MinCountryFill float64 `mapstructure:"min_country_fill" yaml:"min_country_fill"`

	// MinGenreFill warns when genre-family fill rate drops below this
	// fraction.
	MinGenreFill float64 `mapstructure:"min_genre_fill" yaml:"min_genre_fill"`

	// TopN limits distribution tables in the report.
	TopN int `mapstructure:"top_n" yaml:"top_n"`
}

// ProjectionConfig fixes the virtual canvas and year range.
type ProjectionConfig struct {
	Width   float64 `mapstructure:"width" yaml:"width"`
	Height  float64 `mapstructure:"height" yaml:"height"`
	MinYear int     `mapstructure:"min_year" yaml:"min_year"`
	MaxYear int     `mapstructure:"max_year" yaml:"max_year"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "json" or "text".
	Format string `mapstructure:"format" yaml:"format"`

	// Destination is "file", "stdout" or "stderr".
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New returns the default configuration. The result is always valid.
func New() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "albummap",
			SSLMode:   "disable",
			BatchSize: 5000,
		},
		Enrich: EnrichConfig{
			PrimaryRPS:   1.0,
			SecondaryRPS: 0.9,
			MaxRetries:   3,
			CacheBackend: "badger",
		},
		Validate: ValidateConfig{
			MinCountryFill: 0.7,
			MinGenreFill:   0.6,
			TopN:           10,
		},
		Projection: ProjectionConfig{
			Width:   4000,
			Height:  2400,
			MinYear: 1950,
			MaxYear: 2024,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "json",
			Destination: "file",
		},
	}
}

// Update applies options in order. Options validate their own inputs, so
// the config stays valid whatever the caller passes.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}
