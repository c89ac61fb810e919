// Package lock makes one process the owner of a data directory.
package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/glowup/internal/constants"
	"github.com/julianstephens/glowup/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	currentPID      = os.Getpid
)

// HeldError reports that another live process owns the directory
type HeldError struct {
	PID        int
	Executable string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("data directory is in use by %s (pid %d)", e.Executable, e.PID)
}

// Lock is a held lockfile. The file holds "<pid>|<executable>".
type Lock struct {
	path    string
	content string
}

func executableName() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(exe)
}

// Acquire takes the lock in dir. A lockfile left by a process that is no longer running,
// or whose pid now belongs to a different program, is taken over.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockFileName)
	content := fmt.Sprintf("%d|%s", currentPID(), executableName())

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(content)
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, content: content}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		if held := checkHolder(path); held != nil {
			return nil, held
		}
		logger.Warn("removing stale lockfile", "path", path)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, errors.New("failed to acquire lockfile")
}

// checkHolder returns a HeldError when the lockfile names a live process of the same
// program, and nil when the lock is stale.
func checkHolder(path string) *HeldError {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	pidStr, exe, _ := strings.Cut(strings.TrimSpace(string(content)), "|")
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return nil
	}
	if pid == currentPID() {
		// a lock from this very process was not released; treat it as ours
		return nil
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return nil
	}
	if exe != "" && process.Executable() != exe {
		return nil
	}
	return &HeldError{PID: pid, Executable: process.Executable()}
}

// Release removes the lockfile if it is still ours
func (l *Lock) Release() error {
	content, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if string(content) != l.content {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func (l *Lock) Path() string { return l.path }
