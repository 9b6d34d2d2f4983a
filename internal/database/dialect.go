package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"strings"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB, config DialectConfig) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertSettingQuery returns an insert-or-update for the settings table
	// taking (key, value) arguments.
	UpsertSettingQuery() string

	// InsertIgnore turns a plain "INSERT INTO ..." into one that silently
	// skips rows violating a unique constraint.
	InsertIgnore(query string) string

	// LockForUpdate turns a SELECT into one that row-locks what it reads
	// until the transaction ends.
	LockForUpdate(query string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

func appendForUpdate(query string) string {
	return strings.TrimSuffix(strings.TrimSpace(query), ";") + " FOR UPDATE"
}

// replaceInsertVerb swaps the leading INSERT keyword of query for verb.
func replaceInsertVerb(query, verb string) string {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) >= len("INSERT") && strings.EqualFold(trimmed[:len("INSERT")], "INSERT") {
		return verb + trimmed[len("INSERT"):]
	}
	return query
}
