// Package migrations embeds the per-dialect schema files so the server and
// backup tool work without a migrations directory on disk.
package migrations

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS

// Source returns the migration files under dir when that directory exists,
// and the embedded copies otherwise.
func Source(dir string) fs.FS {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir)
	}
	return FS
}
