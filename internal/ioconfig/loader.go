// Package ioconfig loads amdb configuration from files, environment
// variables and flags. This is an impure package; the pure config model
// lives in pkg/config.
package ioconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/albummap/amdb/pkg/config"
	"github.com/spf13/viper"
)

// LoadResult contains the loaded configuration and metadata about where
// it came from.
type LoadResult struct {
	Config     *config.Config
	SourcePath string // config file used, empty when running on defaults
	Source     string // "file", "defaults", or "defaults+env"
}

// Load reads configuration from a YAML file with environment overrides.
// When configPath is empty it searches ./amdb.yaml and then
// ~/.config/amdb/amdb.yaml. Precedence: env vars > config file >
// defaults; CLI flags are applied later by the commands themselves.
func Load(configPath, homeDir string) (*LoadResult, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix(strings.ToUpper(config.AppName))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Defaults registered before reading: AutomaticEnv only consults
	// keys viper already knows about.
	defaults := config.New()
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.ssl_mode", defaults.Database.SSLMode)
	v.SetDefault("database.batch_size", defaults.Database.BatchSize)
	v.SetDefault("enrich.primary_key", defaults.Enrich.PrimaryKey)
	v.SetDefault("enrich.primary_rps", defaults.Enrich.PrimaryRPS)
	v.SetDefault("enrich.secondary_rps", defaults.Enrich.SecondaryRPS)
	v.SetDefault("enrich.secondary_token", defaults.Enrich.SecondaryToken)
	v.SetDefault("enrich.max_retries", defaults.Enrich.MaxRetries)
	v.SetDefault("enrich.cache_backend", defaults.Enrich.CacheBackend)
	v.SetDefault("validate.min_country_fill", defaults.Validate.MinCountryFill)
	v.SetDefault("validate.min_genre_fill", defaults.Validate.MinGenreFill)
	v.SetDefault("validate.top_n", defaults.Validate.TopN)
	v.SetDefault("projection.width", defaults.Projection.Width)
	v.SetDefault("projection.height", defaults.Projection.Height)
	v.SetDefault("projection.min_year", defaults.Projection.MinYear)
	v.SetDefault("projection.max_year", defaults.Projection.MaxYear)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.destination", defaults.Log.Destination)
	v.SetDefault("data_dir", defaults.DataDir)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		for _, candidate := range []string{
			config.AppName + ".yaml",
			config.ConfigFilePath(homeDir),
		} {
			if _, err := os.Stat(candidate); err == nil {
				v.SetConfigFile(candidate)
				break
			}
		}
	}

	configFileRead := false
	usedPath := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if configPath != "" {
				return nil, fmt.Errorf("config file not found: %s", configPath)
			}
		} else if configPath != "" || v.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileRead = true
		usedPath = v.ConfigFileUsed()
	}

	cfg := config.New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	source := "defaults"
	if configFileRead {
		source = "file"
	} else if hasEnvVars() {
		source = "defaults+env"
	}

	return &LoadResult{Config: cfg, SourcePath: usedPath, Source: source}, nil
}

// hasEnvVars reports whether any AMDB_* variable is set.
func hasEnvVars() bool {
	prefix := strings.ToUpper(config.AppName) + "_"
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}
