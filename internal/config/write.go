// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/holomush/messagely/internal/xdg"
)

// ErrExists is returned by WriteFile when the target exists and overwrite
// was not requested.
var ErrExists = errors.New("config file already exists")

// Marshal renders cfg as YAML accepted by ValidateSchema.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, oops.Code("CONFIG_MARSHAL_FAILED").Wrap(err)
	}
	return data, nil
}

// GenerateSecret returns a random hex signing key.
func GenerateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.Code("CONFIG_SECRET_FAILED").Wrap(err)
	}
	return hex.EncodeToString(buf), nil
}

// WriteFile writes cfg to path with owner-only permissions, creating the
// parent directory. It refuses to replace an existing file unless
// overwrite is set.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return oops.Code("CONFIG_EXISTS").With("path", path).Wrap(ErrExists)
		}
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return oops.Code("CONFIG_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
