// Package config loads editor settings from defaults, an optional TOML file,
// NETEDIT_ environment variables and command line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. NETEDIT_UNDO__LIMIT maps to undo.limit.
const EnvPrefix = "NETEDIT_"

var defaults = map[string]any{
	"log.level":     "info",
	"log.caller":    false,
	"undo.limit":    100,
	"strict":        false,
	"network.file":  "",
	"elements.file": "",
	"output.format": "yaml",
}

type Config struct {
	LogLevel     log.Level
	LogCaller    bool
	UndoLimit    int
	Strict       bool
	NetworkFile  string
	ElementsFile string
	OutputFormat string
}

// Load merges every configuration layer. cliflags uses dotted keys such as "network.file".
func Load(configFile string, cliflags map[string]any) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading defaults: %w", err)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "__", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("error loading config from env: %w", err)
	}
	if len(cliflags) > 0 {
		if err := k.Load(confmap.Provider(cliflags, "."), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}
	return k, nil
}

// NewConfig reads the settings out of a loaded koanf tree
func NewConfig(k *koanf.Koanf) (*Config, error) {
	var c Config
	level, err := log.ParseLevel(k.String("log.level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	c.LogLevel = level
	c.LogCaller = k.Bool("log.caller")
	c.UndoLimit = k.Int("undo.limit")
	c.Strict = k.Bool("strict")
	c.NetworkFile = k.String("network.file")
	c.ElementsFile = k.String("elements.file")
	c.OutputFormat = k.String("output.format")
	return &c, nil
}

func (c *Config) Validate() error {
	if c.UndoLimit < 0 {
		return errors.New("undo limit must not be negative")
	}
	switch c.OutputFormat {
	case "yaml", "msgpack":
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	return nil
}

// Logger builds the logger every component of the editor shares
func (c *Config) Logger() *log.Logger {
	logger := log.Default().With()
	logger.SetLevel(c.LogLevel)
	logger.SetReportCaller(c.LogCaller)
	logger.SetPrefix("netedit")
	return logger
}
