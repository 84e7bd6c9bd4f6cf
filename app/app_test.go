package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	content := `Title = "MediaTek Formation"

[DB]
GormEngine = "sqlite"
SQLitePath = "` + filepath.ToSlash(filepath.Join(dir, "app.db")) + `"

[Webserver]
Port = 8080
URL = "http://localhost:8080"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(content), 0o600))

	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestDumpConfig(t *testing.T) {
	dir := writeConfig(t)

	out, err := run(t, "dump-config", "--config", dir)
	require.NoError(t, err)
	assert.Contains(t, out, `GormEngine = "sqlite"`)
	assert.Contains(t, out, `Email = "admin@mediatekformation.fr"`)

	out, err = run(t, "dump-config", "--config", dir, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"GormEngine": "sqlite"`)
}

func TestDumpConfig_MissingFile(t *testing.T) {
	_, err := run(t, "dump-config", "--config", t.TempDir())
	assert.Error(t, err)
}

func TestCreateAdmin(t *testing.T) {
	dir := writeConfig(t)

	out, err := run(t, "create-admin", "--config", dir, "--email", "boss@mediatekformation.fr", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "admin boss@mediatekformation.fr saved")
}
