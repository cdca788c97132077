// Package config loads bible2ppt settings from an optional YAML file with
// BIBLE2PPT_* environment overrides.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/irron2004/bible2ppt/core/errors"
	"github.com/irron2004/bible2ppt/internal/logging"
)

// Supported source encodings.
const (
	EncodingUTF8  = "utf-8"
	EncodingEUCKR = "euc-kr"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BIBLE2PPT_"

// Config holds bible2ppt configuration.
type Config struct {
	BiblePath      string    `yaml:"bible_path"`    // Scripture dump; empty = search defaults
	Encoding       string    `yaml:"encoding"`      // Source encoding of the dump
	DatabasePath   string    `yaml:"database_path"` // SQLite store file
	Log            LogConfig `yaml:"log"`
	ResolveWorkers int       `yaml:"resolve_workers"` // Concurrent ranges per query
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Encoding:     EncodingUTF8,
		DatabasePath: "bible2ppt.db",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		ResolveWorkers: 4,
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIO("read config", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &errors.ParseError{Format: "config", Path: path, Message: err.Error(), Err: err}
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from BIBLE2PPT_BIBLE_PATH, BIBLE2PPT_ENCODING,
// BIBLE2PPT_DATABASE_PATH, BIBLE2PPT_LOG_LEVEL, BIBLE2PPT_LOG_FORMAT and
// BIBLE2PPT_RESOLVE_WORKERS.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BIBLE_PATH":    &c.BiblePath,
		"ENCODING":      &c.Encoding,
		"DATABASE_PATH": &c.DatabasePath,
		"LOG_LEVEL":     &c.Log.Level,
		"LOG_FORMAT":    &c.Log.Format,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "RESOLVE_WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &errors.ValidationError{
				Field:   EnvPrefix + "RESOLVE_WORKERS",
				Value:   v,
				Message: "must be an integer",
				Err:     err,
			}
		}
		c.ResolveWorkers = n
	}
	return nil
}

// Validate checks the configuration and normalizes the encoding name.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Encoding)) {
	case "", "utf8", EncodingUTF8:
		c.Encoding = EncodingUTF8
	case "euckr", EncodingEUCKR, "cp949":
		c.Encoding = EncodingEUCKR
	default:
		return &errors.ValidationError{
			Field:   "encoding",
			Value:   c.Encoding,
			Message: fmt.Sprintf("must be %s or %s", EncodingUTF8, EncodingEUCKR),
		}
	}

	if c.ResolveWorkers < 1 {
		return errors.NewValidation("resolve_workers", "must be at least 1")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return errors.NewValidation("database_path", "must not be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &errors.ValidationError{Field: "log.level", Value: c.Log.Level, Message: err.Error()}
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return &errors.ValidationError{Field: "log.format", Value: c.Log.Format, Message: err.Error()}
	}
	return nil
}

// InitLogging configures the global logger from c.Log, writing to w.
func (c *Config) InitLogging(w io.Writer) error {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return err
	}
	logging.Init(w, level, format)
	return nil
}
