// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/messagely/internal/xdg"
	"github.com/holomush/messagely/pkg/errutil"
)

// Environment variables that override file and flag values.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvSecretKey   = "MESSAGELY_SECRET_KEY"
)

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	EnvDatabaseURL: "database.url",
	EnvSecretKey:   "auth.secret_key",
}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are not configuration.
var flagKeys = map[string]string{
	"http-addr":       "http.addr",
	"request-timeout": "http.request_timeout",
	"metrics-addr":    "metrics.addr",
	"database-url":    "database.url",
	"auto-migrate":    "database.auto_migrate",
	"token-ttl":       "auth.token_ttl",
	"log-format":      "log.format",
	"log-level":       "log.level",
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Loader assembles a Config from its sources.
type Loader struct {
	// Path is the YAML file. When empty, DefaultPath is used if it exists.
	Path string
	// Flags holds parsed command-line flags. Only flags named in flagKeys
	// are read.
	Flags *pflag.FlagSet
	// Getenv reads the environment. Defaults to os.Getenv.
	Getenv func(string) string
	// Check validates the result. Defaults to Config.Validate; commands
	// that need only part of the configuration pass a narrower check.
	Check func(*Config) error
}

// Load reads configuration from path, flags, and the process environment.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	return (&Loader{Path: path, Flags: flags}).Load()
}

// Load builds and validates the configuration. Later sources win: the
// file, then changed flags, then the environment.
func (l *Loader) Load() (*Config, error) {
	k := koanf.New(".")

	path, err := l.resolvePath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if l.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(l.Flags, ".", k, flagKey), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
		}
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	for env, key := range envKeys {
		if v := getenv(env); v != "" {
			if err := k.Set(key, v); err != nil {
				return nil, oops.Code("CONFIG_ENV_INVALID").With("env", env).Wrap(err)
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE_FAILED").With("path", path).Wrap(err)
	}
	check := l.Check
	if check == nil {
		check = func(c *Config) error { return c.Validate() }
	}
	if err := check(cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("path", path).Wrap(err)
	}
	return cfg, nil
}

func (l *Loader) resolvePath() (string, error) {
	if l.Path != "" {
		if _, err := os.Stat(l.Path); err != nil {
			return "", oops.Code("CONFIG_NOT_FOUND").With("path", l.Path).Wrap(err)
		}
		return l.Path, nil
	}
	def, err := DefaultPath()
	if err != nil {
		return "", nil //nolint:nilerr // no home directory means no default file
	}
	if _, err := os.Stat(def); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", oops.Code("CONFIG_NOT_FOUND").With("path", def).Wrap(err)
	}
	return def, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is operator-supplied
	if err != nil {
		return oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
	}
	if err := ValidateSchema(data); err != nil {
		return oops.Code("CONFIG_SCHEMA_INVALID").
			With("path", path).
			Wrap(errors.Join(errutil.ErrValidation, err))
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

func flagKey(f *pflag.Flag) (string, any) {
	key, ok := flagKeys[f.Name]
	if !ok {
		return "", nil
	}
	return key, strings.TrimSpace(f.Value.String())
}
