// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package xdg provides XDG Base Directory paths for Messagely.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "messagely"

// ConfigDir returns the Messagely config directory. Checks XDG_CONFIG_HOME
// first, falls back to ~/.config.
func ConfigDir() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appName), nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", oops.Code("XDG_NO_HOME").Errorf("neither XDG_CONFIG_HOME nor HOME is set")
	}
	return filepath.Join(home, ".config", appName), nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.Code("XDG_MKDIR_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
