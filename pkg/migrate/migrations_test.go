package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardchase/location-portal/pkg/migrate"
)

func readMigrations(t *testing.T) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	var all strings.Builder
	for _, path := range matches {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		all.Write(data)
	}
	return all.String()
}

func TestMigrationsCreateEveryTable(t *testing.T) {
	content := readMigrations(t)
	for _, table := range []string{
		"users",
		"locations",
		"location_staff",
		"location_events",
		"location_blocked_times",
		"trade_requests",
		"trade_schedules",
		"location_followers",
		"user_devices",
	} {
		assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS "+table+" (", table)
	}
}

func TestMigrationsCarryLifecycleConstraints(t *testing.T) {
	content := readMigrations(t)
	checks := []string{
		"CONSTRAINT location_staff_location_id_user_id_key UNIQUE (location_id, user_id)",
		"CHECK (subscription_tier BETWEEN 0 AND 3)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_locations_owner_id",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower",
		"status text NOT NULL CHECK (status IN ('confirmed', 'cancelled'))",
	}
	for _, sub := range checks {
		assert.Contains(t, content, sub)
	}
}

func TestValidateDir(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	assert.Error(t, migrate.ValidateDir(dir))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Event Photos")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_event_photos.sql"))
	require.NoError(t, migrate.ValidateDir(dir))
}

func TestValidateDirRejectsUnbalancedBlocks(t *testing.T) {
	dir := t.TempDir()
	body := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n\n-- +goose Down\nSELECT 1;\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_broken.sql"), []byte(body), 0o644))
	assert.Error(t, migrate.ValidateDir(dir))
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	require.NoError(t, migrate.ValidateDir(migrate.DefaultDir))

	fsys, err := migrate.Source(migrate.DefaultDir)
	require.NoError(t, err)
	embedded, err := fs.Glob(fsys, "*.sql")
	require.NoError(t, err)
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)
	assert.Len(t, embedded, len(onDisk))
}

func TestSourceRejectsMissingDir(t *testing.T) {
	_, err := migrate.Source(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
