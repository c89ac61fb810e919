package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const ExportFilePrefix = "glowup-export-"

// WriteExport writes a document snapshot into dir, named after now, and returns its path.
func WriteExport(dir string, snapshot []byte, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	name := ExportFilePrefix + now.Format(stampFormat) + ".json"
	path := filepath.Join(dir, name)
	if err := writeFileAtomic(path, snapshot); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
