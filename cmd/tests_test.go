package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoScenarios = `Feature: Cart
  Scenario: Add item
    Given an empty cart

  Scenario: Remove item
    Given a full cart
`

func runTests(t *testing.T, id string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunTests(&buf, id))
	return buf.String()
}

// writeTree writes files relative to the working directory, creating
// parent directories as needed.
func writeTree(t *testing.T, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func syncedCart(t *testing.T) {
	t.Helper()
	inTempDir(t)
	runInit(t)
	writeTree(t, map[string]string{"fts/cart.ft": twoScenarios})
	runSync(t)
}

func TestTests_ListsLinksAcrossToolchains(t *testing.T) {
	syncedCart(t)
	writeTree(t, map[string]string{
		"cart/cart_test.go":      "package cart\n\n// @ft:1\nfunc TestAdd(t *testing.T) {}\n",
		"web/cart.spec.ts":       "// @ft:1 adds to cart\nit('adds', () => {})\n",
		"web/cart.test.js":       "test('adds', () => {}) // @ft:1\n",
		"py/test_cart.py":        "\n\n\n# @ft:1\ndef test_add(): pass\n",
		"cart/cart.go":           "package cart // @ft:1 is not a test file\n",
		"docs/cart_notes_test.x": "no references here\n",
	})
	runSync(t)

	out := runTests(t, "@ft:1")

	for _, want := range []string{"cart/cart_test.go:3", "web/cart.spec.ts:1", "web/cart.test.js:1", "py/test_cart.py:4"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "cart/cart.go")
	assert.NotContains(t, out, "@ft:2")
}

func TestTests_SeveralReferencesOnOneLine(t *testing.T) {
	syncedCart(t)
	writeTree(t, map[string]string{
		"cart/cart_test.go": "package cart\n// covers @ft:1 and @ft:2\n",
	})
	runSync(t)

	assert.Contains(t, runTests(t, "1"), "cart/cart_test.go:2")
	assert.Contains(t, runTests(t, "2"), "cart/cart_test.go:2")
}

func TestTests_SkipsHiddenAndVendoredDirectories(t *testing.T) {
	syncedCart(t)
	writeTree(t, map[string]string{
		".cache/cart_test.go":         "// @ft:1\n",
		"vendor/x/cart_test.go":       "// @ft:1\n",
		"node_modules/x/cart.test.js": "// @ft:1\n",
	})
	runSync(t)

	assert.Equal(t, "no linked tests for @ft:1\n", runTests(t, "1"))
}

func TestTests_IgnoresUnknownScenarios(t *testing.T) {
	syncedCart(t)
	writeTree(t, map[string]string{
		"cart/cart_test.go": "// @ft:99\n// @ft:2\n",
	})
	runSync(t)

	assert.Contains(t, runTests(t, "2"), "cart/cart_test.go:2")

	var buf bytes.Buffer
	err := RunTests(&buf, "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario 99 not found")
}

func TestTests_LinksFollowTheTree(t *testing.T) {
	syncedCart(t)
	writeTree(t, map[string]string{"cart/cart_test.go": "// @ft:1\n"})
	runSync(t)
	require.Contains(t, runTests(t, "1"), "cart/cart_test.go:1")

	require.NoError(t, os.Remove("cart/cart_test.go"))
	runSync(t)

	assert.Equal(t, "no linked tests for @ft:1\n", runTests(t, "1"))
}

func TestTests_InvalidID(t *testing.T) {
	syncedCart(t)

	var buf bytes.Buffer
	err := RunTests(&buf, "@ft:abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario ID")
}

func TestTests_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunTests(&buf, "1")

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "ft init"), err.Error())
}
