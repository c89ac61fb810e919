package constants

import "time"

const (
	AppName           = "glowup"
	Version           = "v0.3.0"
	DefaultDataDir    = "~/.config/glowup"
	DefaultConfigName = "glowup"
	EnvPrefix         = "GLOWUP"

	// DefaultKeyringUser is the keyring account holding the remote connection secret
	DefaultKeyringUser = "remote-connection"

	// DateFormat is the calendar date format used in documents and keys (YYYY-MM-DD)
	DateFormat = "2006-01-02"
	// MonthFormat keys monthly charts (YYYY-MM)
	MonthFormat = "2006-01"
	// TimestampFormat is used for createdAt/updatedAt/enqueuedAt fields
	TimestampFormat = time.RFC3339Nano

	// Storage keys
	DocumentKey     = "glow-up-organizer-data"
	DocumentVersion = "1.0.0"
	LastSeenKey     = "glowup-last-seen-date"
	SyncQueueKey    = "glowup-sync-queue"
	AuditLogKey     = "glowup-audit-log"
	AuditLogLimit   = 200

	// Local database
	DatabaseFileName = "glowup.db"
	LockFileName     = "glowup.lock"
	LogFileName      = "glowup.log"

	// Directories under the data dir
	BlobDirName   = "blobs"
	ExportDirName = "exports"
	InboxDirName  = "inbox"

	// Daily stats
	CompletedDayThreshold = 80

	// Records
	RecordsProgressTarget = 300

	DefaultArchiveInterval = time.Minute
	DefaultProbeInterval   = 30 * time.Second
	DefaultRemoteTimeout   = 10 * time.Second
	DefaultServerAddr      = ":8787"
)
