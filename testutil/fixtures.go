package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TempTokenPath returns a credentials file path inside a fresh temp
// directory.
func TempTokenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credentials.yaml")
}

// TempHistoryPath returns a history database path inside a fresh temp
// directory.
func TempHistoryPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history.db")
}

// SetConfigHome points RAKSHANETRA_HOME at a fresh temp directory so
// tests never touch the real config.
func SetConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, had := os.LookupEnv("RAKSHANETRA_HOME")
	if err := os.Setenv("RAKSHANETRA_HOME", dir); err != nil {
		t.Fatalf("Failed to set RAKSHANETRA_HOME: %v", err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv("RAKSHANETRA_HOME", old)
		} else {
			_ = os.Unsetenv("RAKSHANETRA_HOME")
		}
	})
	return dir
}

// BaseTime is a fixed reference time for session fixtures.
var BaseTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
