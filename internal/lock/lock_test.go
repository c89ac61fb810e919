package lock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/glowup/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withProcesses(t *testing.T, self int, procs map[int]string) {
	t.Helper()
	oldFind, oldPID := findProcessFunc, currentPID
	t.Cleanup(func() { findProcessFunc, currentPID = oldFind, oldPID })
	currentPID = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := procs[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestAcquire(t *testing.T) {
	exe := executableName()
	tests := []struct {
		name     string
		existing string
		procs    map[int]string
		wantHeld bool
	}{
		{name: "no lockfile"},
		{name: "live holder", existing: "4242|" + exe, procs: map[int]string{4242: exe}, wantHeld: true},
		{name: "dead holder", existing: "4242|" + exe},
		{name: "pid reused by another program", existing: "4242|" + exe, procs: map[int]string{4242: "bash"}},
		{name: "pid only", existing: "4242", procs: map[int]string{4242: exe}, wantHeld: true},
		{name: "garbage", existing: "not a pid"},
		{name: "our own pid", existing: "100|" + exe, procs: map[int]string{100: exe}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProcesses(t, 100, tt.procs)
			dir := t.TempDir()
			path := filepath.Join(dir, constants.LockFileName)
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0600); err != nil {
					t.Fatal(err)
				}
			}

			l, err := Acquire(dir)
			var held *HeldError
			if tt.wantHeld {
				if !errors.As(err, &held) || held.PID != 4242 {
					t.Fatalf("Acquire() error = %v, want HeldError for 4242", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Acquire() error = %v", err)
			}
			content, _ := os.ReadFile(path)
			if string(content) != "100|"+exe {
				t.Errorf("lockfile = %q", content)
			}
			if err := l.Release(); err != nil {
				t.Fatalf("Release() error = %v", err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("lockfile still present after Release()")
			}
		})
	}
}

func TestRelease_NotOurs(t *testing.T) {
	withProcesses(t, 100, nil)
	dir := t.TempDir()
	l, err := Acquire(dir)
	if err != nil {
		t.Fatal(err)
	}
	// another process took over after we lost the file
	if err := os.WriteFile(l.Path(), []byte("200|other"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Error("Release() removed a lockfile it does not own")
	}
}
