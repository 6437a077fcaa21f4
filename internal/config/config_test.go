package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "mp3", cfg.Export.Format)
	assert.True(t, cfg.Scan.PrependPartNames)
	assert.Equal(t, '_', cfg.Sanitize.SeparatorRune())
	assert.Equal(t, '|', cfg.Sanitize.FieldSeparatorRune())
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	// Point the user config dir somewhere empty.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Export.Format, cfg.Export.Format)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[export]\nformat = \"ogg\"\nlimit = 3\n\n[sanitize]\nseparator = \"-\"\nbanned_characters = \"/\"\nfield_separator = \"|\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ogg", cfg.Export.Format)
	assert.Equal(t, 3, cfg.Export.Limit)
	assert.Equal(t, '-', cfg.Sanitize.SeparatorRune())
	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[export]\nformat = \"ogg\"\n"), 0o644))
	t.Setenv("TIMESTAMPER_FORMAT", "opus")
	t.Setenv("TIMESTAMPER_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "opus", cfg.Export.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[logging]\nlevel = \"loud\"\n\n[sanitize]\nseparator = \"__\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	require.NoError(t, WriteSample(path))

	// The sample must itself load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// Refuses to overwrite.
	assert.Error(t, WriteSample(path))
}
