package keywords

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasBuiltInLanguages(t *testing.T) {
	table := Default()
	assert.Equal(t, []string{"de", "en", "es", "fr"}, table.Languages())
	assert.Contains(t, table["en"].Keywords(Scenario), "Scenario")
	assert.Contains(t, table["fr"].Keywords(Scenario), "Scénario")
}

func TestDefault_ReturnsCopy(t *testing.T) {
	table := Default()
	table["en"][Feature] = []string{"Changed"}
	delete(table, "fr")

	fresh := Default()
	assert.Contains(t, fresh["en"].Keywords(Feature), "Feature")
	assert.Contains(t, fresh, "fr")
}

func TestParse_KeepsDeclaredOrder(t *testing.T) {
	table, err := Parse([]byte(`
xx:
  given: ["G ", "Given that ", "Given "]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"G ", "Given that ", "Given "}, table["xx"].Keywords(Given))
	assert.Equal(t, "G ", table["xx"].Primary(Given))
	assert.Equal(t, "", table["xx"].Primary(Feature))
}

func TestDefault_PrimaryKeywords(t *testing.T) {
	en := Default()["en"]
	assert.Equal(t, "Feature", en.Primary(Feature))
	assert.Equal(t, "Scenario", en.Primary(Scenario))
	assert.Equal(t, "Given ", en.Primary(Given))
}

func TestParse_UnknownCategory(t *testing.T) {
	_, err := Parse([]byte(`
xx:
  scenarioo: ["Scenario"]
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestParse_EmptyKeyword(t *testing.T) {
	_, err := Parse([]byte(`
xx:
  feature: ["  "]
`))
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("xx: [unclosed"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pirate:\n  feature: [\"Ahoy matey!\"]\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ahoy matey!"}, table["pirate"].Keywords(Feature))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMerge_OverridesPerCategory(t *testing.T) {
	extra := Table{"en": Dialect{Feature: {"Capability"}}}
	merged := Default().Merge(extra)

	assert.Equal(t, []string{"Capability"}, merged["en"].Keywords(Feature))
	assert.Contains(t, merged["en"].Keywords(Scenario), "Scenario")
	assert.Contains(t, Default()["en"].Keywords(Feature), "Feature")
}

func TestMerge_AddsLanguage(t *testing.T) {
	merged := Default().Merge(Table{"xx": Dialect{Scenario: {"S"}}})
	assert.Contains(t, merged.Languages(), "xx")
}

func TestResolve(t *testing.T) {
	table := Default()

	tests := []struct {
		name string
		code string
		want string
	}{
		{"exact", "fr", "fr"},
		{"upper case", "DE", "de"},
		{"region falls back to base", "de-CH", "de"},
		{"underscore region", "es_MX", "es"},
		{"surrounding space", " en ", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, dialect, err := table.Resolve(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, dialect.Keywords(Feature))
		})
	}
}

func TestResolve_Unknown(t *testing.T) {
	_, _, err := Default().Resolve("tlh")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
