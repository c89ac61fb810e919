package errors

import (
	"fmt"
	"os"

	"github.com/julianstephens/glowup/internal/logger"
)

// Format renders err for the terminal with an "Error: " prefix and, for the domain errors a user
// can act on, a short hint.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := "Error: " + err.Error()
	if h := hint(err); h != "" {
		msg += "\n  " + h
	}
	return msg
}

func hint(err error) string {
	switch {
	case Is(err, ErrOffline):
		return "the remote is unreachable; local data is unchanged and stays queued"
	case IsPersistence(err):
		return "the change was applied in memory but could not be written to disk"
	case Is(err, ErrStoreNotLoaded):
		return "run 'glowup init' to create the data directory"
	}
	return ""
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil error is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(1)
}
