package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/aisync/internal/model"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

// createTestStore creates a new file-backed store in a temp dir with a fixed clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestArtifact creates a claude-sourced artifact with minimal required fields.
func createTestArtifact(name string, typ model.ArtifactType, content string) model.Artifact {
	a := model.NewArtifact(model.SystemClaude, typ, name, content)
	a.SourcePath = "/project/.claude/" + string(typ) + "s/" + name
	a.LastModified = testNow
	return a
}
