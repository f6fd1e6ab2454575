// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package config loads Messagely configuration from a YAML file, command-line
// flags, and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/crypto/bcrypt"

	"github.com/holomush/messagely/pkg/errutil"
)

// Config is the complete server configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http" yaml:"http" json:"http,omitempty" jsonschema:"description=Public API listener"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics" json:"metrics,omitempty" jsonschema:"description=Metrics and health probe listener"`
	Database DatabaseConfig `koanf:"database" yaml:"database" json:"database,omitempty"`
	Auth     AuthConfig     `koanf:"auth" yaml:"auth" json:"auth,omitempty"`
	Log      LogConfig      `koanf:"log" yaml:"log" json:"log,omitempty"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr              string        `koanf:"addr" yaml:"addr" json:"addr,omitempty"`
	RequestTimeout    time.Duration `koanf:"request_timeout" yaml:"request_timeout" json:"request_timeout,omitempty" jsonschema:"type=string,example=10s"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout" json:"read_header_timeout,omitempty" jsonschema:"type=string,example=5s"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout,omitempty" jsonschema:"type=string,example=10s"`
}

// MetricsConfig configures the observability server. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr" json:"addr,omitempty"`
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL            string        `koanf:"url" yaml:"url" json:"url,omitempty"`
	MaxConns       int32         `koanf:"max_conns" yaml:"max_conns" json:"max_conns,omitempty" jsonschema:"minimum=1"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" yaml:"connect_timeout" json:"connect_timeout,omitempty" jsonschema:"type=string,example=30s"`
	AutoMigrate    bool          `koanf:"auto_migrate" yaml:"auto_migrate" json:"auto_migrate,omitempty"`
}

// AuthConfig configures credentials and tokens.
type AuthConfig struct {
	SecretKey   string        `koanf:"secret_key" yaml:"secret_key" json:"secret_key,omitempty"`
	TokenTTL    time.Duration `koanf:"token_ttl" yaml:"token_ttl" json:"token_ttl,omitempty" jsonschema:"type=string,example=0s"`
	Issuer      string        `koanf:"issuer" yaml:"issuer" json:"issuer,omitempty"`
	BcryptCost  int           `koanf:"bcrypt_cost" yaml:"bcrypt_cost" json:"bcrypt_cost,omitempty" jsonschema:"minimum=4,maximum=31"`
	PhoneRegion string        `koanf:"phone_region" yaml:"phone_region" json:"phone_region,omitempty" jsonschema:"minLength=2,maxLength=2"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" yaml:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Defaults.
const (
	DefaultHTTPAddr          = ":3000"
	DefaultMetricsAddr       = "127.0.0.1:9100"
	DefaultDatabaseURL       = "postgres://localhost:5432/messagely?sslmode=disable"
	DefaultMaxConns          = 10
	DefaultIssuer            = "messagely"
	DefaultBcryptCost        = 12
	DefaultPhoneRegion       = "US"
	DefaultRequestTimeout    = 10 * time.Second
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultConnectTimeout    = 30 * time.Second
)

// Default returns a Config populated with defaults. SecretKey has no
// default and must be supplied.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:              DefaultHTTPAddr,
			RequestTimeout:    DefaultRequestTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Database: DatabaseConfig{
			URL:            DefaultDatabaseURL,
			MaxConns:       DefaultMaxConns,
			ConnectTimeout: DefaultConnectTimeout,
		},
		Auth: AuthConfig{
			Issuer:      DefaultIssuer,
			BcryptCost:  DefaultBcryptCost,
			PhoneRegion: DefaultPhoneRegion,
		},
		Log: LogConfig{Format: "json", Level: "info"},
	}
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.HTTP),
		validation.Field(&c.Metrics),
		validation.Field(&c.Database),
		validation.Field(&c.Auth),
		validation.Field(&c.Log),
	)
	if err != nil {
		return errors.Join(errutil.ErrValidation, err)
	}
	return nil
}

// ValidateDatabase checks only the database settings, for commands that
// never serve requests.
func (c Config) ValidateDatabase() error {
	if err := c.Database.Validate(); err != nil {
		return errors.Join(errutil.ErrValidation, validation.Errors{"database": err})
	}
	return nil
}

// Validate checks the HTTP settings.
func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.RequestTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ReadHeaderTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

// Validate checks the metrics settings.
func (c MetricsConfig) Validate() error {
	return nil
}

// Validate checks the database settings.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.MaxConns, validation.Min(1)),
		validation.Field(&c.ConnectTimeout, validation.Min(time.Duration(0))),
	)
}

// MinSecretKeyLength is the shortest accepted signing key, in bytes.
const MinSecretKeyLength = 16

// Validate checks the auth settings.
func (c AuthConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SecretKey,
			validation.Required.Error("is required (set auth.secret_key or MESSAGELY_SECRET_KEY)"),
			validation.Length(MinSecretKeyLength, 0),
		),
		validation.Field(&c.TokenTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.Issuer, validation.Required),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.PhoneRegion, validation.Required, validation.By(supportedRegion)),
	)
}

// Validate checks the log settings.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Format, validation.In("json", "text")),
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error")),
	)
}

func supportedRegion(value any) error {
	region, _ := value.(string)
	if region == "" {
		return nil
	}
	if !phonenumbers.GetSupportedRegions()[region] {
		return errors.New("is not a supported region code")
	}
	return nil
}
