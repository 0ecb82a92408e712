// Package config loads the tracker's settings from .ft.yaml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/chriserin/ftgrammar/internal/keywords"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".ft.yaml"

// ErrInvalidConfig is returned when a configuration value cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the tracker settings.
type Config struct {
	Dir      string `yaml:"dir"`      // directory holding the .ft files
	Database string `yaml:"database"` // SQLite database path
	Language string `yaml:"language"` // default document language
	Keywords string `yaml:"keywords"` // optional keyword table merged over the embedded one
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Dir:      "fts",
		Database: filepath.Join("fts", "ft.db"),
		Language: keywords.DefaultLanguage,
	}
}

// Load reads the configuration at path. A missing file yields the defaults.
// Values are then overridden by FT_DIR, FT_DATABASE, FT_LANGUAGE and
// FT_KEYWORDS, which may also come from a .env file in the working
// directory.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	config := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		var fromFile Config
		if err := yaml.UnmarshalWithOptions(data, &fromFile, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		merge(config, &fromFile)
	}

	applyEnv(config)
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// KeywordTable returns the embedded keyword table, with the configured
// keyword file merged over it.
func (c *Config) KeywordTable() (keywords.Table, error) {
	table := keywords.Default()
	if c.Keywords == "" {
		return table, nil
	}
	extra, err := keywords.LoadFile(c.Keywords)
	if err != nil {
		return nil, fmt.Errorf("loading keywords %s: %w", c.Keywords, err)
	}
	return table.Merge(extra), nil
}

func (c *Config) validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: dir must not be empty", ErrInvalidConfig)
	}
	if c.Database == "" {
		return fmt.Errorf("%w: database must not be empty", ErrInvalidConfig)
	}
	table, err := c.KeywordTable()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, _, err := table.Resolve(c.Language); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func merge(dst, src *Config) {
	if src.Dir != "" {
		dst.Dir = src.Dir
	}
	if src.Database != "" {
		dst.Database = src.Database
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
	if src.Keywords != "" {
		dst.Keywords = src.Keywords
	}
}

func applyEnv(c *Config) {
	for name, field := range map[string]*string{
		"FT_DIR":      &c.Dir,
		"FT_DATABASE": &c.Database,
		"FT_LANGUAGE": &c.Language,
		"FT_KEYWORDS": &c.Keywords,
	} {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}
	return nil
}
