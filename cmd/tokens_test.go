package cmd

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokensFixture = "Feature: Login\n  Scenario: ok\n    Given x\n"

func runTokens(t *testing.T, path string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunTokens(&buf, path))
	return buf.String()
}

func TestTokens_PrintsEveryToken(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/login.ft", []byte(tokensFixture), 0o644))

	out := runTokens(t, "fts/login.ft")

	assert.Contains(t, out, `Feature "Feature" "Feature:"`)
	assert.Contains(t, out, `Description "Login"`)
	assert.Contains(t, out, `Given "Given " "Given "`)
	assert.Contains(t, out, `Description "x"`)
	assert.Contains(t, out, "EndOfFile")
	assert.True(t, strings.HasPrefix(out, "   1:1  "), out)
}

func TestTokens_NestedTokensAreDeeper(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/login.ft", []byte(tokensFixture), 0o644))

	out := runTokens(t, "fts/login.ft")

	depths := map[string]int{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.GreaterOrEqual(t, len(fields), 3, line)
		d, err := strconv.Atoi(fields[1])
		require.NoError(t, err, line)
		if _, seen := depths[fields[2]]; !seen {
			depths[fields[2]] = d
		}
	}
	assert.Less(t, depths["Feature"], depths["Scenario"])
	assert.Less(t, depths["Scenario"], depths["Given"])
}

func TestTokens_PrintsTokensBeforeError(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/bad.ft", []byte("Feature: Bad\n  Scenario: no steps\n"), 0o644))

	var buf bytes.Buffer
	err := RunTokens(&buf, "fts/bad.ft")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fts/bad.ft:")
	assert.Contains(t, buf.String(), `Feature "Feature" "Feature:"`)
}

func TestTokens_MissingFile(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	err := RunTokens(&buf, "fts/missing.ft")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading fts/missing.ft")
}
