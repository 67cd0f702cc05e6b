package constants

import "time"

const (
	AppName            = "habyss"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habyss/habyss.db"
	Version            = "v0.3.0"

	// DateFormat is the calendar-day format used for completions and schedule bounds (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habyss-"
	BackupFileSuffix = ".db"

	// Completion defaults
	DefaultCompletionValue = 1.0

	// Habit defaults, matching the creation sheet of the mobile client
	DefaultCategory = "body"
	DefaultColor    = "#6B46C1"
	DefaultType     = "build"
	DefaultUnit     = "count"

	// HTTP API defaults
	DefaultHTTPAddr       = "127.0.0.1:8787"
	DefaultRateLimit      = 5
	DefaultRateBurst      = 30
	VisitorTTL            = 3 * time.Minute
	RequestTimeout        = 5 * time.Second
	ShutdownTimeout       = 10 * time.Second
	MaxRequestBodyBytes   = 1 << 20
	DefaultLogWindowDays  = 14
	MaxHabitNameLength    = 120
	MaxHabitDetailsLength = 2000
)
