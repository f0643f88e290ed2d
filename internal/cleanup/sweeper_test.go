package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("GIF89a"), 0644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Now().Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSweepDeletesExpired(t *testing.T) {
	dir := t.TempDir()
	s := NewSweeper(dir, 10*time.Minute)

	old := touch(t, dir, "old.gif", 11*time.Minute)
	young := touch(t, dir, "young.gif", 9*time.Minute)

	s.Sweep()

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("file older than retention survived the sweep")
	}
	if _, err := os.Stat(young); err != nil {
		t.Error("file younger than retention was deleted")
	}
}

func TestSweepMissingDirIsNoop(t *testing.T) {
	s := NewSweeper(filepath.Join(t.TempDir(), "does-not-exist"), 10*time.Minute)
	// Must not panic or create the directory.
	s.Sweep()
	if _, err := os.Stat(s.Dir); !os.IsNotExist(err) {
		t.Error("sweep created the missing directory")
	}
}

func TestSweepSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "keep")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	os.Chtimes(sub, old, old)

	s := NewSweeper(dir, 10*time.Minute)
	s.Sweep()

	if _, err := os.Stat(sub); err != nil {
		t.Error("sweep removed a subdirectory")
	}
}
