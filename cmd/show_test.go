package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShowHistory(t *testing.T, id string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShowHistory(&buf, id))
	return buf.String()
}

func runShow(t *testing.T, id string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, id))
	return buf.String()
}

func TestShow_RendersScenario(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, loginFeature)

	out := runShow(t, "1")

	assert.Equal(t, "@ft:1  login.ft\nStatus: no-activity\n\n  @ft:1\n  Scenario: User logs in\n    Given a user\n", out)
}

func TestShow_NormalizesStepSpacing(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, `Feature: Login
  Scenario: User logs in
    Given the user is on the login page
    When  the user enters valid credentials
    Then   the user sees the dashboard
`)

	out := runShow(t, "@ft:1")

	assert.Contains(t, out, "    Given the user is on the login page\n")
	assert.Contains(t, out, "    When the user enters valid credentials\n")
	assert.Contains(t, out, "    Then the user sees the dashboard\n")
}

func TestShow_OnlyTheRequestedScenario(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, `Feature: Login
  Scenario: User logs in
    When they enter valid credentials

  @smoke
  Scenario: User fails login
    When they enter wrong credentials
`)

	first := runShow(t, "1")
	assert.Contains(t, first, "they enter valid credentials")
	assert.NotContains(t, first, "User fails login")

	second := runShow(t, "2")
	assert.Contains(t, second, "  @smoke @ft:2\n  Scenario: User fails login\n")
	assert.NotContains(t, second, "User logs in")
}

func TestShow_FeatureBackground(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, `Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When they log in
    Then they see the dashboard
`)

	out := runShow(t, "1")

	assert.Contains(t, out, "\n  Background:\n    Given a registered user\n\n  @ft:1\n  Scenario: User logs in\n")
}

func TestShow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		init    bool
		wantErr string
	}{
		{"unknown id", "999", true, "999"},
		{"not a number", "notanumber", true, "invalid scenario ID"},
		{"zero", "@ft:0", true, "invalid scenario ID"},
		{"not initialized", "1", false, "run `ft init` first"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			if tt.init {
				runInit(t)
			}

			var buf bytes.Buffer
			require.ErrorContains(t, RunShow(&buf, tt.id), tt.wantErr)
			require.ErrorContains(t, RunShowHistory(&buf, tt.id), tt.wantErr)
		})
	}
}

func TestShow_HistoryOnly(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, loginFeature)
	runStatusUpdate(t, "1", "accepted")
	runStatusUpdate(t, "1", "in-progress")

	out := runShowHistory(t, "1")

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "@ft:1  login.ft", lines[0])
	assert.Equal(t, "User logs in", lines[1])
	assert.Equal(t, "History:", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "  in-progress  "), lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "  accepted     "), lines[5])
	assert.NotContains(t, out, "Scenario:")
}

func TestShow_HistoryOnlyWithoutChanges(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, loginFeature)

	out := runShowHistory(t, "1")

	assert.Equal(t, "@ft:1  login.ft\nUser logs in\n\nHistory:\n  no-activity\n", out)
}

func TestShow_LinkedTests(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, loginFeature)

	out := runShow(t, "1")
	assert.NotContains(t, out, "Tests:")

	writeTree(t, map[string]string{
		"auth/login_test.go": "package auth\n\n// @ft:1\nfunc TestLogin(t *testing.T) {}\n",
		"web/login.spec.ts":  "// @ft:1\n",
	})
	runSync(t)

	out = runShow(t, "1")
	assert.True(t, strings.HasSuffix(out, "\n\nTests:\n  auth/login_test.go:3\n  web/login.spec.ts:1\n"), out)
}

func TestShow_RemovedScenarioUsesStoredContent(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, `Feature: Login
  Scenario: User logs in
    Given the user is on the login page
    When  the user enters valid credentials
`)
	runStatusUpdate(t, "1", "accepted")

	setupScenario(t, "Feature: Login\n")

	out := runShow(t, "1")

	assert.Contains(t, out, "Status: removed")
	assert.Contains(t, out, "\n  Scenario: User logs in\n    Given the user is on the login page\n")
	assert.Contains(t, out, "When  the user enters valid credentials", "stored text is shown as written")
}

func TestShow_BackgroundsInOrder(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/cart.ft", []byte(`Feature: Cart
  Background:
    Given a shop

  Rule: Adding
    Background:
      Given an empty cart

    Scenario: Add one item
      When one item is added
      Then the cart holds 1 item
`), 0o644))
	runSync(t)

	out := runShow(t, "1")

	shop := strings.Index(out, "Given a shop")
	cart := strings.Index(out, "Given an empty cart")
	scenario := strings.Index(out, "Scenario: Add one item")
	require.True(t, shop >= 0 && cart >= 0 && scenario >= 0, out)
	assert.True(t, shop < cart, "feature background comes first")
	assert.True(t, cart < scenario, "rule background comes before the scenario")
	assert.Contains(t, out, "  @ft:1\n")
}

func TestShow_OutlineWithExamples(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/eat.ft", []byte(`Feature: Eating
  Scenario Outline: Eat <n> cucumbers
    Given there are 12 cucumbers
    When I eat <n> cucumbers

    Examples: Small
      | n |
      | 5 |
`), 0o644))
	runSync(t)

	out := runShow(t, "1")

	assert.Contains(t, out, "Scenario Outline: Eat <n> cucumbers")
	assert.Contains(t, out, "Examples: Small")
	assert.Contains(t, out, "| n |")
	assert.Contains(t, out, "| 5 |")
}

func TestShow_ExamplesExpandOutline(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/eat.ft", []byte(`Feature: Eating
  Scenario Outline: Eat <n> cucumbers
    Given there are <start> cucumbers
    When I eat <n> cucumbers

    Examples:
      | start | n |
      | 12    | 5 |
      | 20    | 7 |
`), 0o644))
	runSync(t)

	var buf bytes.Buffer
	require.NoError(t, RunShowExamples(&buf, "@ft:1"))

	assert.Equal(t, `@ft:1  eat.ft
Eat <n> cucumbers

  Eat 5 cucumbers (line 9)
    Given there are 12 cucumbers
    When I eat 5 cucumbers

  Eat 7 cucumbers (line 10)
    Given there are 20 cucumbers
    When I eat 7 cucumbers
`, buf.String())
}

func TestShow_ExamplesRequireOutline(t *testing.T) {
	inTempDir(t)
	runInit(t)
	setupScenario(t, loginFeature)

	var buf bytes.Buffer
	err := RunShowExamples(&buf, "1")

	require.Error(t, err)
	assert.Equal(t, "@ft:1 is not a scenario outline", err.Error())
	assert.Empty(t, buf.String())
}

func TestShow_StepArguments(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/login.ft", []byte(`Feature: Login
  Scenario: User logs in
    Given the users
      | name  | role  |
      | alice | admin |
    And a welcome message
      """
      Hello
      """
    Then alice can log in
`), 0o644))
	runSync(t)

	out := runShow(t, "1")

	assert.Contains(t, out, "| name  | role  |")
	assert.Contains(t, out, "| alice | admin |")
	assert.Contains(t, out, "And a welcome message")
	assert.Contains(t, out, "Hello")
}

func TestShow_InvalidFileUsesStoredContent(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/login.ft", []byte(`Feature: Login
  Scenario: User logs in
    Given a user
`), 0o644))
	runSync(t)

	require.NoError(t, os.WriteFile("fts/login.ft", []byte("Feature: Login\n  Feature: broken\n"), 0o644))

	out := runShow(t, "1")

	assert.Contains(t, out, "Scenario: User logs in")
	assert.Contains(t, out, "Given a user")
}
