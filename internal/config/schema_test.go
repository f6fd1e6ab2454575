// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/messagely/internal/config"
)

func TestGenerateSchema(t *testing.T) {
	raw, err := config.GenerateSchema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, config.SchemaID, doc["$id"])
	assert.Equal(t, false, doc["additionalProperties"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"http", "metrics", "database", "auth", "log"} {
		assert.Contains(t, props, key)
	}

	httpProps := props["http"].(map[string]any)["properties"].(map[string]any)
	timeout := httpProps["request_timeout"].(map[string]any)
	assert.Equal(t, "string", timeout["type"], "durations are written as strings")
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"empty document", "", false},
		{"partial", "http:\n  addr: ':3000'\n", false},
		{"full", `
http: {addr: ":3000", request_timeout: "10s", read_header_timeout: "5s", shutdown_timeout: "10s"}
metrics: {addr: ""}
database: {url: "postgres://x/y", max_conns: 5, connect_timeout: "30s", auto_migrate: true}
auth: {secret_key: "abc", token_ttl: "0s", issuer: "me", bcrypt_cost: 10, phone_region: "US"}
log: {format: json, level: info}
`, false},
		{"unknown top-level key", "cache: {size: 1}\n", true},
		{"unknown nested key", "auth: {pepper: x}\n", true},
		{"integer duration", "http: {request_timeout: 10}\n", true},
		{"cost out of range", "auth: {bcrypt_cost: 99}\n", true},
		{"bad level", "log: {level: chatty}\n", true},
		{"malformed yaml", "http: [\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidateSchema([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
