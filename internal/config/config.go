// Package config loads service and CLI settings from defaults, an optional YAML
// file and environment variables, in that order of precedence (last wins).
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/denisok6893-rgb/fuzzy-catalog-ranking/internal/logging"
)

// ConfigPathEnvVar names the variable that points at a YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched when neither an explicit path nor CONFIG_PATH is set.
var DefaultConfigPaths = []string{"config.yaml", "configs/config.yaml"}

// Source drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Source  SourceConfig  `koanf:"source"`
	Ranking RankingConfig `koanf:"ranking"`
	Logging LoggingConfig `koanf:"logging"`
}

type ServerConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// SourceConfig selects where catalog items come from.
type SourceConfig struct {
	Driver      string `koanf:"driver" validate:"oneof=file sqlite postgres"`
	ItemsPath   string `koanf:"items_path"`
	SQLitePath  string `koanf:"sqlite_path"`
	DatabaseURL string `koanf:"database_url"`
	// Seed loads ItemsPath into an empty SQLite database on startup.
	Seed bool `koanf:"seed"`
}

type RankingConfig struct {
	WeightsPath       string `koanf:"weights_path"`
	MaxRows           int    `koanf:"max_rows" validate:"min=1"`
	TopN              int    `koanf:"top_n" validate:"min=1"`
	TextCandidates    int    `koanf:"text_candidates" validate:"min=1"`
	Workers           int    `koanf:"workers" validate:"min=1,max=256"`
	ParallelThreshold int    `koanf:"parallel_threshold" validate:"min=1"`
	Similarity        string `koanf:"similarity" validate:"oneof=token edit"`
	SoftThresholds    bool   `koanf:"soft_thresholds"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"loglevel"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Address: ":8080"},
		Source: SourceConfig{
			Driver:     DriverFile,
			ItemsPath:  "data/movies.json",
			SQLitePath: "data/movies.db",
		},
		Ranking: RankingConfig{
			WeightsPath:       "configs/weights.json",
			MaxRows:           50000,
			TopN:              20,
			TextCandidates:    5000,
			Workers:           1,
			ParallelThreshold: 20000,
			Similarity:        "token",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads configuration. path may be empty, in which case CONFIG_PATH and then
// DefaultConfigPaths are tried; a missing default file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, errors.Wrap(err, "load environment variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"api_address":        "server.address",
	"source_driver":      "source.driver",
	"items_path":         "source.items_path",
	"sqlite_path":        "source.sqlite_path",
	"database_url":       "source.database_url",
	"seed_items":         "source.seed",
	"weights_path":       "ranking.weights_path",
	"max_rows":           "ranking.max_rows",
	"top_n":              "ranking.top_n",
	"text_candidates":    "ranking.text_candidates",
	"rank_workers":       "ranking.workers",
	"parallel_threshold": "ranking.parallel_threshold",
	"text_similarity":    "ranking.similarity",
	"soft_thresholds":    "ranking.soft_thresholds",
	"log_level":          "logging.level",
	"log_format":         "logging.format",
}

// envTransformFunc maps known environment variables to config paths.
// Unknown variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		return logging.ValidLevel(fl.Field().String())
	})
	return v
}

// Validate checks field constraints and the driver-specific requirements.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Ranking.Similarity = strings.ToLower(c.Ranking.Similarity)
	c.Source.Driver = strings.ToLower(c.Source.Driver)

	if err := validate.Struct(c); err != nil {
		return err
	}
	switch c.Source.Driver {
	case DriverFile:
		if c.Source.ItemsPath == "" {
			return errors.New("source.items_path is required for the file driver")
		}
	case DriverSQLite:
		if c.Source.SQLitePath == "" {
			return errors.New("source.sqlite_path is required for the sqlite driver")
		}
		if c.Source.Seed && c.Source.ItemsPath == "" {
			return errors.New("source.items_path is required when seeding sqlite")
		}
	case DriverPostgres:
		if c.Source.DatabaseURL == "" {
			return errors.New("source.database_url is required for the postgres driver")
		}
	}
	return nil
}
