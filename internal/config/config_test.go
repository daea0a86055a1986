package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"apigrader/internal/helpers"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFilesGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, helpers.DefaultUserAgent, cfg.UserAgent)
}

func TestLoadMergesLocalOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apigrader.json5"), []byte(`{
		// общий конфиг группы
		outDir: "grades",
		timeout: "10s",
		db: "runs.db",
	}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apigrader.local.json5"), []byte(`{
		timeout: "3s",
		port: 9090,
	}`), 0o644))

	cfg, err := Load(filepath.Join(dir, "apigrader.json5"))
	require.NoError(t, err)

	require.Equal(t, "grades", cfg.OutDir)
	require.Equal(t, "runs.db", cfg.DB)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "grading_results.csv", cfg.CSVName)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, d)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apigrader.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{timeout: "soon"}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apigrader.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{outDir: `), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestTimeoutDurationEmpty(t *testing.T) {
	d, err := Config{}.TimeoutDuration()
	require.NoError(t, err)
	require.Zero(t, d)
}
