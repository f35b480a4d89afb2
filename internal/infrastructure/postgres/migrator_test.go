package postgres

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "migrations")
}

func TestRunMigrationsRejectsBadDatabaseURL(t *testing.T) {
	err := RunMigrations("not-a-database://", migrationsDir(t))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create migrate instance")
}

func TestRunMigrationsDownRejectsMissingSource(t *testing.T) {
	err := RunMigrationsDown("postgres://localhost:1/db?sslmode=disable", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
