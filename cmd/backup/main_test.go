package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "versequest.db"))
	t.Setenv("MIGRATIONS_PATH", filepath.Join(dir, "no-such-dir"))

	backupPath := filepath.Join(dir, "out", "backup.json")
	_, err := run(t, "", "export", "--output", backupPath)
	require.NoError(t, err)

	content, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"version": "1"`)

	_, err = run(t, "", "import", "--input", backupPath)
	require.NoError(t, err)

	// Declining the prompt leaves the data alone.
	out, err := run(t, "no\n", "import", "--input", backupPath, "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Type 'yes' to confirm")

	_, err = run(t, "", "import", "--input", backupPath, "--clear", "--yes")
	require.NoError(t, err)
}

func TestImportRequiresInput(t *testing.T) {
	_, err := run(t, "", "import")
	assert.Error(t, err)

	_, err = run(t, "", "import", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "input file")
}
