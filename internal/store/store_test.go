package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pragma(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	var value string
	if err := db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		t.Fatalf("PRAGMA %s: %v", name, err)
	}
	return value
}

func hasIndex(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", name).Scan(&n)
	if err != nil {
		t.Fatalf("sqlite_master: %v", err)
	}
	return n == 1
}

func TestOpen_CreatesArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("archive file not created: %v", err)
	}
	for _, table := range []string{"games", "plays", "guesses", "snapshots"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q missing: %v", table, err)
		}
	}
}

func TestOpen_ConnectionSettings(t *testing.T) {
	s := createTestStore(t)

	want := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, value := range want {
		if got := pragma(t, s.db, name); got != value {
			t.Errorf("PRAGMA %s = %q, want %q", name, got, value)
		}
	}
}

func TestOpen_MigratesOldArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	// Roll the archive back to an unversioned one without the index.
	if _, err := s.db.Exec("DROP INDEX idx_plays_team"); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatalf("reset user_version: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	if !hasIndex(t, s.db, "idx_plays_team") {
		t.Error("migration did not recreate idx_plays_team")
	}
	if got, want := pragma(t, s.db, "user_version"), "1"; got != want {
		t.Errorf("user_version = %s, want %s", got, want)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		if got := pragma(t, s.db, "user_version"); got != "1" {
			t.Errorf("iteration %d: user_version = %s", i, got)
		}
		s.Close()
	}
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "games.db"))
	if err == nil {
		t.Fatal("Open() into a missing directory should fail")
	}
}

func TestDSN(t *testing.T) {
	got := dsn("/tmp/games.db")
	if !strings.HasPrefix(got, "file:/tmp/games.db?") {
		t.Errorf("dsn = %q, want a file URI for the path", got)
	}
	for _, param := range []string{"_journal_mode=WAL", "_foreign_keys=on", "_busy_timeout=5000"} {
		if !strings.Contains(got, param) {
			t.Errorf("dsn = %q, missing %s", got, param)
		}
	}
}

func TestClose_EmptyStore(t *testing.T) {
	s := &Store{}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on empty store: %v", err)
	}
}
