// Package config loads service settings from a YAML file and the environment.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/stakestar/nodelyzer/engine"
)

type ServerConfig struct {
	Address      string        `yaml:"address" env:"SERVER_ADDRESS" env-description:"HTTP listen address" env-default:":8080"`
	RateLimit    int64         `yaml:"rateLimit" env:"SERVER_RATE_LIMIT" env-description:"Requests allowed per client and period" env-default:"60"`
	RatePeriod   time.Duration `yaml:"ratePeriod" env:"SERVER_RATE_PERIOD" env-description:"Rate limit period" env-default:"1m"`
	CacheTTL     time.Duration `yaml:"cacheTTL" env:"SERVER_CACHE_TTL" env-description:"TTL of cached GET responses" env-default:"1m"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes" env:"SERVER_MAX_BODY_BYTES" env-description:"Maximum request body size" env-default:"33554432"`
}

type Config struct {
	Server        ServerConfig      `yaml:"server"`
	DbPath        string            `yaml:"dbPath" env:"DB_PATH" env-description:"Path to database file" env-default:"data/analyses.db"`
	GeoDataDbPath string            `yaml:"geoDataDbPath" env:"GEO_DATA_DB_PATH" env-description:"Path to GeoLite2 database file, empty disables IP lookups"`
	CountriesPath string            `yaml:"countriesPath" env:"COUNTRIES_PATH" env-description:"Path to a countries YAML file, empty uses the bundled ISO 3166 list"`
	Thresholds    engine.Thresholds `yaml:"thresholds"`
}

// Load reads the config file at path, or only the environment when path is
// empty. A .env file in the working directory is applied first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "reading config from environment")
	}
	return &cfg, nil
}
