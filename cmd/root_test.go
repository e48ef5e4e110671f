package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/notes-go/internal/buildinfo"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := RootCommand(buildinfo.NewContext("9.9.9", "2026-02-03", "deadbeef"))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "notes-go 9.9.9")
	assert.Contains(t, out, "deadbeef")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yaml")

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "webserver:")

	_, err = execute(t, "config", "init", path)
	require.Error(t, err, "existing file is not overwritten without --force")

	_, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)
}

func TestMigrateAndShow(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "data", "notes.db")

	_, err := execute(t, "config", "init", configPath)
	require.NoError(t, err)

	dbURL := "sqlite:///" + dbPath
	out, err := execute(t, "migrate", "--config", configPath, "--database-url", dbURL)
	require.NoError(t, err)
	assert.Contains(t, out, "Database schema is up to date (sqlite)")
	assert.FileExists(t, dbPath)

	out, err = execute(t, "config", "show", "--config", configPath, "--port", "9191")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)
	assert.Contains(t, out, "port: \"9191\"")
}
