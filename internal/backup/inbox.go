package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	apperr "github.com/julianstephens/glowup/internal/errors"
	"github.com/julianstephens/glowup/internal/logger"
)

const (
	ProcessedDirName = "processed"
	FailedDirName    = "failed"

	// settle is how long the inbox must be quiet before dropped files are read, so a file
	// still being written is not imported half-done
	settle = 250 * time.Millisecond
	// retryAfter spaces out imports that were applied but could not be saved
	retryAfter = 5 * time.Second
)

// Importer receives snapshot documents
type Importer interface {
	ImportData(data []byte) error
}

// Inbox imports *.json snapshots dropped into a directory. Imported files move to
// processed/ and rejected ones to failed/. A snapshot that was applied but could not be
// saved stays in the inbox for the next pass.
type Inbox struct {
	dir      string
	importer Importer
}

func NewInbox(dir string, importer Importer) (*Inbox, error) {
	for _, d := range []string{dir, filepath.Join(dir, ProcessedDirName), filepath.Join(dir, FailedDirName)} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return nil, fmt.Errorf("failed to create inbox directory: %w", err)
		}
	}
	return &Inbox{dir: dir, importer: importer}, nil
}

func (i *Inbox) Dir() string { return i.dir }

func (i *Inbox) pending() ([]string, error) {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ProcessPending imports every snapshot currently in the inbox, oldest name first, and
// returns how many were imported.
func (i *Inbox) ProcessPending() (int, error) {
	names, err := i.pending()
	if err != nil {
		return 0, err
	}
	imported := 0
	for _, name := range names {
		src := filepath.Join(i.dir, name)
		data, err := os.ReadFile(src)
		if err != nil {
			logger.Warn("failed to read inbox file", "file", name, "error", err)
			continue
		}

		dest := ProcessedDirName
		if err := i.importer.ImportData(data); err != nil {
			var perr *apperr.PersistenceError
			if errors.As(err, &perr) {
				logger.Warn("inbox snapshot applied but not saved, will retry", "file", name, "error", err)
				continue
			}
			logger.Warn("inbox snapshot rejected", "file", name, "error", err)
			dest = FailedDirName
		} else {
			imported++
			logger.Info("inbox snapshot imported", "file", name)
		}
		if err := os.Rename(src, uniquePath(filepath.Join(i.dir, dest), name)); err != nil {
			return imported, fmt.Errorf("failed to move %s out of the inbox: %w", name, err)
		}
	}
	return imported, nil
}

// uniquePath avoids overwriting an earlier file of the same name
func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return path
	}
	base := strings.TrimSuffix(name, ".json")
	for n := 1; ; n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.json", base, n))
		if _, err := os.Stat(path); err != nil {
			return path
		}
	}
}

// Watch processes what is already in the inbox, then imports new snapshots as they
// arrive until ctx is done.
func (i *Inbox) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(i.dir); err != nil {
		return fmt.Errorf("failed to watch inbox %s: %w", i.dir, err)
	}
	if _, err := i.ProcessPending(); err != nil {
		logger.Warn("inbox processing failed", "error", err)
	}

	timer := time.NewTimer(settle)
	timer.Stop()
	if left, err := i.pending(); err == nil && len(left) > 0 {
		timer.Reset(retryAfter)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Dir(ev.Name) != filepath.Clean(i.dir) || !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				timer.Reset(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox watcher error", "error", err)
		case <-timer.C:
			if _, err := i.ProcessPending(); err != nil {
				logger.Warn("inbox processing failed", "error", err)
			}
			if left, err := i.pending(); err == nil && len(left) > 0 {
				timer.Reset(retryAfter)
			}
		}
	}
}
