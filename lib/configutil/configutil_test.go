package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name   string   `json:"name"`
	Count  int      `json:"count"`
	Labels []string `json:"labels"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "config.local.json5", localPath("config.json5"))
	require.Equal(t, filepath.Join("a", "b", "telemetry.local.json5"), localPath(filepath.Join("a", "b", "telemetry.json5")))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	writeFile(t, path, `{
		// comments are allowed
		name: "default",
		count: 1,
		labels: ["a"],
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ count: 5 }`)

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 5, cfg.Count)
	require.Equal(t, []string{"a"}, cfg.Labels)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ name: "local" }`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	writeFile(t, path, `{ name: `)

	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	writeFile(t, filepath.Join(root, "telemetry.json5"), `{ name: "found" }`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := ReadRecursively[testConfig]("telemetry.json5")
	require.NoError(t, err)
	require.Equal(t, "found", cfg.Name)
}

func TestReadConfigLocalOverridesPointer(t *testing.T) {
	type flagConfig struct {
		Enabled *bool `json:"enabled"`
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	writeFile(t, path, `{ enabled: true }`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{ enabled: false }`)

	cfg, err := ReadConfig[flagConfig](path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Enabled)
	require.False(t, *cfg.Enabled)
}
