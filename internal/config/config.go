// Package config reads the client's slice of the corky service config. The
// client and the service share ~/.corky/config.toml so the endpoint and
// subscriber-list names only live in one place; unknown keys in the file
// (bot token, owner chat) are ignored.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultEndpoint    = "tcp://127.0.0.1:6565"
	DefaultDestination = "telegram"
	DefaultIdentity    = "test-client"
)

// Config is the client-relevant subset of the corky config file.
type Config struct {
	Telegram TelegramSettings `toml:"telegram"`
	Client   ClientSettings   `toml:"client"`
}

// TelegramSettings mirrors the service's [telegram] section.
type TelegramSettings struct {
	ZMQEndpoint     string             `toml:"zmq_endpoint"`
	SubscriberLists map[string][]int64 `toml:"subscriber_lists"`
}

// ClientSettings is the client-only [client] section.
type ClientSettings struct {
	Identity      string `toml:"identity"`
	Destination   string `toml:"destination"`
	History       bool   `toml:"history"`
	HistoryDBPath string `toml:"history_db_path"`
}

// Defaults returns the configuration used when no config file exists.
func Defaults() *Config {
	return &Config{
		Telegram: TelegramSettings{
			ZMQEndpoint: DefaultEndpoint,
		},
		Client: ClientSettings{
			Identity:      DefaultIdentity,
			Destination:   DefaultDestination,
			HistoryDBPath: filepath.Join(DefaultConfigDir(), "corkyctl.db"),
		},
	}
}

// DefaultConfigDir returns the shared corky config directory (~/.corky).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".corky"
	}
	return filepath.Join(home, ".corky")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// IsNotExist reports whether err is a missing-config-file error, which
// callers treat as "use defaults" rather than fatal.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Load reads and parses the config file at path. ~ and ${VAR} /
// ${VAR:-default} references are expanded before parsing.
func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.Client.HistoryDBPath = ExpandPath(cfg.Client.HistoryDBPath)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate checks that the config has usable values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Telegram.ZMQEndpoint == "" {
		errs = append(errs, "telegram.zmq_endpoint must not be empty")
	}
	if cfg.Client.Identity == "" {
		errs = append(errs, "client.identity must not be empty")
	}
	if cfg.Client.Destination == "" {
		errs = append(errs, "client.destination must not be empty")
	}
	if cfg.Client.History && cfg.Client.HistoryDBPath == "" {
		errs = append(errs, "client.history_db_path is required when client.history is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// KnownList reports whether name appears in the service's subscriber lists.
// With no lists configured the client cannot judge, so any name passes.
func (c *Config) KnownList(name string) bool {
	if len(c.Telegram.SubscriberLists) == 0 {
		return true
	}
	_, ok := c.Telegram.SubscriberLists[name]
	return ok
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match
		}
		return val
	})
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
