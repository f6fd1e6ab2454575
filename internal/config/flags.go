// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package config

import (
	"github.com/spf13/pflag"
)

// RegisterFlags adds the server configuration flags to fs. Flag defaults
// mirror Default so an unset flag never overrides the file.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("http-addr", d.HTTP.Addr, "API listen address")
	fs.Duration("request-timeout", d.HTTP.RequestTimeout, "per-request timeout (0 = none)")
	fs.String("metrics-addr", d.Metrics.Addr, "metrics/health HTTP address (empty = disabled)")
	fs.String("database-url", d.Database.URL, "PostgreSQL connection URL (env: "+EnvDatabaseURL+")")
	fs.Bool("auto-migrate", d.Database.AutoMigrate, "apply pending migrations on startup")
	fs.Duration("token-ttl", d.Auth.TokenTTL, "token lifetime (0 = tokens never expire)")
	fs.String("log-format", d.Log.Format, "log format (json or text)")
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
}
