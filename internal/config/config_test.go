package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftgrammar/internal/keywords"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	config, err := Load(FileName)
	require.NoError(t, err)
	assert.Equal(t, "fts", config.Dir)
	assert.Equal(t, filepath.Join("fts", "ft.db"), config.Database)
	assert.Equal(t, keywords.DefaultLanguage, config.Language)
}

func TestLoad_File(t *testing.T) {
	inTempDir(t)
	writeFile(t, FileName, "dir: features\nlanguage: fr\n")

	config, err := Load(FileName)
	require.NoError(t, err)
	assert.Equal(t, "features", config.Dir)
	assert.Equal(t, "fr", config.Language)
	assert.Equal(t, filepath.Join("fts", "ft.db"), config.Database)
}

func TestLoad_UnknownFieldIsRejected(t *testing.T) {
	inTempDir(t)
	writeFile(t, FileName, "dirr: features\n")

	_, err := Load(FileName)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoad_UnknownLanguage(t *testing.T) {
	inTempDir(t)
	writeFile(t, FileName, "language: tlh\n")

	_, err := Load(FileName)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, keywords.ErrUnknownLanguage)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, FileName, "dir: features\n")
	t.Setenv("FT_DIR", "specs")
	t.Setenv("FT_LANGUAGE", "de")

	config, err := Load(FileName)
	require.NoError(t, err)
	assert.Equal(t, "specs", config.Dir)
	assert.Equal(t, "de", config.Language)
}

func TestLoad_DotEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("FT_DATABASE", "")
	os.Unsetenv("FT_DATABASE")
	writeFile(t, ".env", "FT_DATABASE=tracker.db\n")

	config, err := Load(FileName)
	require.NoError(t, err)
	assert.Equal(t, "tracker.db", config.Database)
}

func TestConfig_KeywordTable(t *testing.T) {
	inTempDir(t)
	writeFile(t, "keywords.yaml", "en:\n  scenario: [\"Case\"]\n")
	writeFile(t, FileName, "keywords: keywords.yaml\n")

	config, err := Load(FileName)
	require.NoError(t, err)

	table, err := config.KeywordTable()
	require.NoError(t, err)
	assert.Equal(t, []string{"Case"}, table["en"].Keywords(keywords.Scenario))
	assert.Contains(t, table["en"].Keywords(keywords.Feature), "Feature")
}

func TestConfig_MissingKeywordFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, FileName, "keywords: missing.yaml\n")

	_, err := Load(FileName)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
