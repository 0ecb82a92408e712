package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const accountFeature = `Feature: Account
  Scenario: Sign up
    Given a visitor

  Scenario: Sign in
    Given a member

  Scenario: Close account
    Given a member
`

func runList(t *testing.T, includes ...string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, includes, nil))
	return buf.String()
}

func listLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestList_Rows(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/account.ft", []byte(accountFeature), 0o644))
	require.NoError(t, os.WriteFile("fts/billing.ft", []byte("Feature: Billing\n  Scenario: Pay an invoice\n    Given an invoice\n"), 0o644))
	runSync(t)

	lines := listLines(runList(t))

	require.Len(t, lines, 4)
	assert.Equal(t, "@ft:1  account.ft  Sign up         no-activity", lines[0])
	assert.Equal(t, "@ft:2  account.ft  Sign in         no-activity", lines[1])
	assert.Equal(t, "@ft:3  account.ft  Close account   no-activity", lines[2])
	assert.Equal(t, "@ft:4  billing.ft  Pay an invoice  no-activity", lines[3])
}

func TestList_OrderedByFileThenLine(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/zoo.ft", []byte("Feature: Zoo\n  Scenario: Feed\n    Given food\n"), 0o644))
	runSync(t)
	require.NoError(t, os.WriteFile("fts/aquarium.ft", []byte("Feature: Aquarium\n  Scenario: Clean\n    Given water\n"), 0o644))
	runSync(t)

	// Move the tagged scenario below a new one; line order wins over id order.
	require.NoError(t, os.WriteFile("fts/zoo.ft", []byte(`Feature: Zoo
  Scenario: Open gates
    Given a keeper

  @ft:1
  Scenario: Feed
    Given food
`), 0o644))
	runSync(t)

	lines := listLines(runList(t))

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "aquarium.ft")
	assert.Contains(t, lines[1], "Open gates")
	assert.Contains(t, lines[2], "Feed")
}

func TestList_StatusFilters(t *testing.T) {
	tests := []struct {
		name     string
		includes []string
		excludes []string
		want     []string
	}{
		{"no filter", nil, nil, []string{"Sign up", "Sign in", "Close account"}},
		{"single status", []string{"accepted"}, nil, []string{"Sign up"}},
		{"several statuses", []string{"accepted", "in-progress"}, nil, []string{"Sign up", "Sign in"}},
		{"no activity", []string{"no-activity"}, nil, []string{"Close account"}},
		{"excluded status", nil, []string{"accepted"}, []string{"Sign in", "Close account"}},
		{"several exclusions", nil, []string{"accepted", "no-activity"}, []string{"Sign in"}},
		{"include and exclude", []string{"accepted", "in-progress"}, []string{"in-progress"}, []string{"Sign up"}},
		{"nothing matches", []string{"done"}, nil, nil},
	}

	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/account.ft", []byte(accountFeature), 0o644))
	runSync(t)
	runStatusUpdate(t, "1", "accepted")
	runStatusUpdate(t, "2", "in-progress")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RunList(&buf, tt.includes, tt.excludes))

			var got []string
			for _, line := range listLines(buf.String()) {
				for _, name := range []string{"Sign up", "Sign in", "Close account"} {
					if strings.Contains(line, name) {
						got = append(got, name)
					}
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestList_CommandFlags(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/account.ft", []byte(accountFeature), 0o644))
	runSync(t)
	runStatusUpdate(t, "1", "accepted")

	var buf bytes.Buffer
	listCmd.SetOut(&buf)
	t.Cleanup(func() {
		listCmd.SetOut(nil)
		statusFlags, noActivityFlag = nil, false
	})

	statusFlags = []string{"~accepted"}
	noActivityFlag = true
	require.NoError(t, listCmd.RunE(listCmd, nil))

	lines := listLines(buf.String())
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Sign in")
	assert.Contains(t, lines[1], "Close account")
}

func TestList_RemovedScenariosKeepTheirRow(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/account.ft", []byte(accountFeature), 0o644))
	runSync(t)

	require.NoError(t, os.WriteFile("fts/account.ft", []byte("Feature: Account\n  @ft:1\n  Scenario: Sign up\n    Given a visitor\n"), 0o644))
	runSync(t)

	assert.Len(t, listLines(runList(t, "removed")), 2)

	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, nil, []string{"removed"}))
	assert.Equal(t, []string{"@ft:1  account.ft  Sign up  no-activity"}, listLines(buf.String()))
}

func TestList_RuleScenariosInDocumentOrder(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/cart.ft", []byte(`Feature: Cart
  Rule: Adding
    Scenario: Add one item
      Given an empty cart
      When one item is added
      Then the cart holds 1 item

  Rule: Removing
    Scenario: Remove last item
      Given a cart with 1 item
      When it is removed
      Then the cart is empty
`), 0o644))
	runSync(t)

	lines := listLines(runList(t))

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Add one item")
	assert.Contains(t, lines[1], "Remove last item")
}

func TestList_OutlineIsOneRow(t *testing.T) {
	inTempDir(t)
	runInit(t)
	require.NoError(t, os.WriteFile("fts/eat.ft", []byte(`Feature: Eating
  Scenario Outline: Eat <n> cucumbers
    Given there are 12 cucumbers
    When I eat <n> cucumbers

    Examples:
      | n |
      | 5 |
      | 7 |
`), 0o644))
	runSync(t)

	lines := listLines(runList(t))

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Eat <n> cucumbers")
}

func TestList_EmptyProject(t *testing.T) {
	inTempDir(t)
	runInit(t)

	assert.Empty(t, runList(t))
}

func TestList_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	require.ErrorContains(t, RunList(&buf, nil, nil), "run `ft init` first")
}

func TestSplitStatusFilters(t *testing.T) {
	includes, excludes := splitStatusFilters([]string{"ready", "~removed", "done", "~no-activity"})
	assert.Equal(t, []string{"ready", "done"}, includes)
	assert.Equal(t, []string{"removed", "no-activity"}, excludes)
}
