package backup

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apperr "github.com/julianstephens/glowup/internal/errors"
)

type recordingImporter struct {
	mu       sync.Mutex
	imported []string
}

func (r *recordingImporter) ImportData(data []byte) error {
	if !json.Valid(data) {
		return errors.New("not json")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imported = append(r.imported, string(data))
	return nil
}

func (r *recordingImporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.imported)
}

// unsavedImporter applies snapshots but fails to save the first failures of them
type unsavedImporter struct {
	failures int
	calls    int
}

func (u *unsavedImporter) ImportData(data []byte) error {
	u.calls++
	if u.calls <= u.failures {
		return &apperr.PersistenceError{Op: "set", Key: "doc", Err: errors.New("disk full")}
	}
	return nil
}

func TestInbox_UnsavedImportStaysInInbox(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	imp := &unsavedImporter{failures: 1}
	inbox, err := NewInbox(dir, imp)
	if err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "snap.json")
	if err := os.WriteFile(src, []byte(`{"habits":[]}`), 0600); err != nil {
		t.Fatal(err)
	}

	if n, err := inbox.ProcessPending(); n != 0 || err != nil {
		t.Fatalf("first ProcessPending() = %d, %v, want 0, nil", n, err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("unsaved snapshot left the inbox: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FailedDirName, "snap.json")); !os.IsNotExist(err) {
		t.Errorf("unsaved snapshot moved to failed/: %v", err)
	}

	if n, err := inbox.ProcessPending(); n != 1 || err != nil {
		t.Fatalf("retry ProcessPending() = %d, %v, want 1, nil", n, err)
	}
	if _, err := os.Stat(filepath.Join(dir, ProcessedDirName, "snap.json")); err != nil {
		t.Errorf("retried snapshot not in processed/: %v", err)
	}
}

func TestInbox_ProcessPending(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	imp := &recordingImporter{}
	inbox, err := NewInbox(dir, imp)
	if err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"a.json":    `{"habits":[]}`,
		"b.json":    `broken`,
		"notes.txt": `ignored`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0600); err != nil {
			t.Fatal(err)
		}
	}

	n, err := inbox.ProcessPending()
	if err != nil || n != 1 {
		t.Fatalf("ProcessPending() = %d, %v, want 1", n, err)
	}
	checks := []string{
		filepath.Join(dir, ProcessedDirName, "a.json"),
		filepath.Join(dir, FailedDirName, "b.json"),
		filepath.Join(dir, "notes.txt"),
	}
	for _, p := range checks {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}

	// a second file with the same name does not overwrite the processed one
	os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{}`), 0600)
	if n, _ := inbox.ProcessPending(); n != 1 {
		t.Errorf("ProcessPending() = %d, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(dir, ProcessedDirName, "a-1.json")); err != nil {
		t.Errorf("renamed duplicate missing: %v", err)
	}
}

func TestInbox_Watch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	imp := &recordingImporter{}
	inbox, err := NewInbox(dir, imp)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "early.json"), []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inbox.Watch(ctx) }()

	waitFor(t, func() bool { return imp.count() == 1 })

	if err := os.WriteFile(filepath.Join(dir, "dropped.json"), []byte(`{"version":"1.0.0"}`), 0600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return imp.count() == 2 })

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch() did not return after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
