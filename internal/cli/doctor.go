package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/glowup/internal/keyring"
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/storage"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*Context) error
	// warnOnly failures do not fail the command
	warnOnly bool
}

var doctorChecks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion},
	{name: "Data validation", run: checkValidation},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Sync queue", run: checkSyncQueue, warnOnly: true},
	{name: "Remote reachable", run: checkRemote, warnOnly: true},
	{name: "Keyring", run: checkKeyring, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.printf("Running diagnostics...\n\n")

	hasError := false
	reachable := true
	for _, chk := range doctorChecks {
		if !reachable && chk.name != "Database reachable" && chk.name != "Clock/timezone" {
			ctx.printf("⊘ %s: SKIPPED (database not reachable)\n", chk.name)
			continue
		}
		err := chk.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", chk.name)
		case chk.warnOnly:
			ctx.printf("⚠ %s: WARNING\n   %v\n", chk.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", chk.name, err)
			hasError = true
			if chk.name == "Database reachable" {
				reachable = false
			}
		}
	}

	ctx.printf("\n")
	if hasError {
		ctx.printf("Diagnostics completed with errors.\n")
		return errors.New("one or more health checks failed")
	}
	ctx.printf("All diagnostics passed!\n")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if sqliteStore, ok := ctx.KV.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return errors.New("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	sqliteStore, ok := ctx.KV.(*storage.SQLiteStore)
	if !ok {
		// file and memory stores have no schema
		return nil
	}
	current, latest, err := sqliteStore.SchemaVersion(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkValidation looks for duplicate ids and completions of habits that no longer exist
func checkValidation(ctx *Context) error {
	doc, err := ctx.Store.Snapshot()
	if err != nil {
		return err
	}
	if err := uniqueIDs("habit", doc.Habits); err != nil {
		return err
	}
	if err := uniqueIDs("flashcard", doc.Study.Flashcards); err != nil {
		return err
	}
	if err := uniqueIDs("vocabulary word", doc.Study.Vocabulary); err != nil {
		return err
	}
	if err := uniqueIDs("vice", doc.Vices); err != nil {
		return err
	}
	habits := make(map[string]bool, len(doc.Habits))
	for _, h := range doc.Habits {
		habits[h.ID] = true
	}
	for _, c := range doc.HabitCompletions {
		if !habits[c.HabitID] {
			return fmt.Errorf("completion %s references missing habit %s", c.ID, c.HabitID)
		}
	}
	return nil
}

func uniqueIDs[T interface{ GetID() string }](kind string, items []T) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := item.GetID()
		if seen[id] {
			return fmt.Errorf("duplicate %s ID found: %s", kind, id)
		}
		seen[id] = true
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return nil
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'glowup backup create'")
	}
	return nil
}

func checkSyncQueue(ctx *Context) error {
	for _, e := range ctx.Queue.Entries() {
		if e.LastError != "" {
			return fmt.Errorf("entry %s failed %d times: %s", e.ID, e.Attempts, e.LastError)
		}
	}
	return nil
}

func checkRemote(ctx *Context) error {
	if len(ctx.Config.RemoteDrivers()) == 0 {
		return nil
	}
	bg, cancel := context.WithTimeout(context.Background(), ctx.Config.Remote.Timeout)
	defer cancel()
	backend, err := ctx.Backend(bg)
	if err != nil {
		return err
	}
	defer backend.Close()
	return backend.Ping(bg)
}

func checkKeyring(ctx *Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Clock.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", models.FormatTimestamp(now))
	}
	if _, offset := now.Zone(); offset == 0 && now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC\n")
	}
	return nil
}
