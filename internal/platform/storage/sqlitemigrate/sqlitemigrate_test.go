package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsOnce(t *testing.T) {
	migrationFS := fstest.MapFS{
		"001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE games (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE games;
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("applied migrations = %d, want 1", count)
	}

	if _, err := sqlDB.Exec("INSERT INTO games (id) VALUES ('g1')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
}

func TestApplyMigrationsOrdersLexically(t *testing.T) {
	migrationFS := fstest.MapFS{
		"002_players.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE players (game_id TEXT NOT NULL REFERENCES games(id));
`)},
		"001_games.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE games (id TEXT PRIMARY KEY);
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "no markers returns everything",
			content: "CREATE TABLE x (id TEXT);",
			want:    "CREATE TABLE x (id TEXT);",
		},
		{
			name:    "up only",
			content: "-- +migrate Up\nCREATE TABLE x (id TEXT);",
			want:    "\nCREATE TABLE x (id TEXT);",
		},
		{
			name:    "up and down",
			content: "-- +migrate Up\nCREATE TABLE x (id TEXT);\n-- +migrate Down\nDROP TABLE x;",
			want:    "\nCREATE TABLE x (id TEXT);\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractUpMigration(tt.content); got != tt.want {
				t.Fatalf("ExtractUpMigration = %q, want %q", got, tt.want)
			}
		})
	}
}
