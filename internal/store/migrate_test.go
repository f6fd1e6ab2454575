// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

package store

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/messagely/pkg/errutil"
)

func TestNewMigrator_InvalidURL(t *testing.T) {
	_, err := NewMigrator("badscheme://localhost:5432/testdb")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "MIGRATION_INIT_FAILED")
}

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://u:p@host:5432/db?sslmode=disable", "pgx5://u:p@host:5432/db?sslmode=disable"},
		{"postgresql://host/db", "pgx5://host/db"},
		{"pgx5://host/db", "pgx5://host/db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, migrateURL(tt.in))
	}
}

// mockMigrate implements migrateIface for testing.
type mockMigrate struct {
	upErr          error
	downErr        error
	stepsErr       error
	versionVal     uint
	versionErr     error
	dirty          bool
	forceErr       error
	closeSourceErr error
	closeDbErr     error
}

func (m *mockMigrate) Up() error                    { return m.upErr }
func (m *mockMigrate) Down() error                  { return m.downErr }
func (m *mockMigrate) Steps(_ int) error            { return m.stepsErr }
func (m *mockMigrate) Version() (uint, bool, error) { return m.versionVal, m.dirty, m.versionErr }
func (m *mockMigrate) Force(_ int) error            { return m.forceErr }
func (m *mockMigrate) Close() (error, error)        { return m.closeSourceErr, m.closeDbErr }

func TestMigrator_Up(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Up())
	require.NoError(t, (&Migrator{m: &mockMigrate{upErr: migrate.ErrNoChange}}).Up(),
		"ErrNoChange should be treated as success")

	err := (&Migrator{m: &mockMigrate{upErr: errors.New("database locked")}}).Up()
	errutil.AssertErrorCode(t, err, "MIGRATION_UP_FAILED")
}

func TestMigrator_Down(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Down())
	require.NoError(t, (&Migrator{m: &mockMigrate{downErr: migrate.ErrNoChange}}).Down())

	err := (&Migrator{m: &mockMigrate{downErr: errors.New("constraint violation")}}).Down()
	errutil.AssertErrorCode(t, err, "MIGRATION_DOWN_FAILED")
}

func TestMigrator_Steps(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Steps(1))
	require.NoError(t, (&Migrator{m: &mockMigrate{stepsErr: migrate.ErrNoChange}}).Steps(0))

	err := (&Migrator{m: &mockMigrate{stepsErr: errors.New("invalid step")}}).Steps(5)
	errutil.AssertErrorCode(t, err, "MIGRATION_STEPS_FAILED")
	errutil.AssertErrorContext(t, err, "steps", 5)
}

func TestMigrator_Version(t *testing.T) {
	t.Run("reports version and dirty flag", func(t *testing.T) {
		version, dirty, err := (&Migrator{m: &mockMigrate{versionVal: 2, dirty: true}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), version)
		assert.True(t, dirty)
	})

	t.Run("nil version is zero", func(t *testing.T) {
		version, dirty, err := (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Version()
		require.NoError(t, err)
		assert.Equal(t, uint(0), version)
		assert.False(t, dirty)
	})

	t.Run("error", func(t *testing.T) {
		_, _, err := (&Migrator{m: &mockMigrate{versionErr: errors.New("connection lost")}}).Version()
		errutil.AssertErrorCode(t, err, "MIGRATION_VERSION_FAILED")
	})
}

func TestMigrator_Force(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Force(1))

	err := (&Migrator{m: &mockMigrate{}}).Force(-1)
	errutil.AssertErrorCode(t, err, "INVALID_VERSION")

	err = (&Migrator{m: &mockMigrate{forceErr: errors.New("invalid version")}}).Force(5)
	errutil.AssertErrorCode(t, err, "MIGRATION_FORCE_FAILED")
}

func TestMigrator_Close(t *testing.T) {
	require.NoError(t, (&Migrator{m: &mockMigrate{}}).Close())

	err := (&Migrator{m: &mockMigrate{closeSourceErr: errors.New("source")}}).Close()
	errutil.AssertErrorContext(t, err, "component", "source")

	err = (&Migrator{m: &mockMigrate{closeDbErr: errors.New("db")}}).Close()
	errutil.AssertErrorContext(t, err, "component", "database")

	err = (&Migrator{m: &mockMigrate{closeSourceErr: errors.New("source"), closeDbErr: errors.New("db")}}).Close()
	errutil.AssertErrorCode(t, err, "MIGRATION_CLOSE_FAILED")
	errutil.AssertErrorContext(t, err, "component", "both")
	assert.Contains(t, err.Error(), "source")
	assert.Contains(t, err.Error(), "db")
}

func TestMigrator_Status(t *testing.T) {
	all, err := migrationVersions()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(all), 2)

	t.Run("fresh database", func(t *testing.T) {
		st, err := (&Migrator{m: &mockMigrate{versionErr: migrate.ErrNilVersion}}).Status()
		require.NoError(t, err)
		assert.Equal(t, uint(0), st.Current)
		assert.Empty(t, st.Applied)
		assert.Equal(t, all, st.Pending)
	})

	t.Run("partially migrated", func(t *testing.T) {
		st, err := (&Migrator{m: &mockMigrate{versionVal: 1}}).Status()
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, st.Applied)
		assert.Equal(t, all[1:], st.Pending)
	})

	t.Run("fully migrated", func(t *testing.T) {
		latest := all[len(all)-1]
		st, err := (&Migrator{m: &mockMigrate{versionVal: latest}}).Status()
		require.NoError(t, err)
		assert.Equal(t, all, st.Applied)
		assert.Empty(t, st.Pending)
	})

	t.Run("version error", func(t *testing.T) {
		_, err := (&Migrator{m: &mockMigrate{versionErr: errors.New("down")}}).Status()
		require.Error(t, err)
	})
}

func TestMigrationName(t *testing.T) {
	name, err := MigrationName(1)
	require.NoError(t, err)
	assert.Equal(t, "000001_create_users", name)

	name, err = MigrationName(2)
	require.NoError(t, err)
	assert.Equal(t, "000002_create_messages", name)

	name, err = MigrationName(999)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestMigrationVersions_ReturnsCopy(t *testing.T) {
	first, err := migrationVersions()
	require.NoError(t, err)
	first[0] = 42

	second, err := migrationVersions()
	require.NoError(t, err)
	assert.Equal(t, uint(1), second[0])
}
