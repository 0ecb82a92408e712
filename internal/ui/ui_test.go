package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummaryLine(t *testing.T) {
	var buf bytes.Buffer
	SummaryLine(&buf, 2, 5)
	assert.Equal(t, "synced 2 files, 5 scenarios\n", buf.String())
}

func TestErrDetail_WithExpected(t *testing.T) {
	var buf bytes.Buffer
	ErrDetail(&buf, 4, "unexpected Feature:", []string{"Scenario:", "<end of file>"})
	assert.Contains(t, buf.String(), "line 4: unexpected Feature:")
	assert.Contains(t, buf.String(), "expected Scenario:, <end of file>")
}

func TestErrDetail_WithoutExpected(t *testing.T) {
	var buf bytes.Buffer
	ErrDetail(&buf, 1, "bad", nil)
	assert.NotContains(t, buf.String(), "expected")
}

func TestListRow_PadsColumns(t *testing.T) {
	var buf bytes.Buffer
	ListRow(&buf, 1, "a.ft", "Short", "done", 6, 8, 10)
	assert.Equal(t, "@ft:1   a.ft      Short       done\n", buf.String())
}

func TestStatusConfirm_NoPreviousStatus(t *testing.T) {
	var buf bytes.Buffer
	StatusConfirm(&buf, 3, "", "accepted")
	assert.Equal(t, "@ft:3  no-activity -> accepted\n", buf.String())
}

func TestShowTable_AlignsCells(t *testing.T) {
	var buf bytes.Buffer
	ShowTable(&buf, 2, [][]string{{"name", "age"}, {"Alexandra", "7"}})
	assert.Equal(t, "  | name      | age |\n  | Alexandra | 7   |\n", buf.String())
}

func TestShowKeywordLine(t *testing.T) {
	var buf bytes.Buffer
	ShowKeywordLine(&buf, 4, "Given ", "a user")
	assert.Equal(t, "    Given a user\n", buf.String())
}

func TestTokenRow_IndentsByDepth(t *testing.T) {
	var buf bytes.Buffer
	TokenRow(&buf, 2, 3, 2, "Scenario", "Scenario", "Scenario: A")
	assert.Equal(t, "   2:3   2     Scenario \"Scenario\" \"Scenario: A\"\n", buf.String())
}

func TestHistoryEntry_PadsStatus(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 30, 0, 0, time.Local)
	var buf bytes.Buffer
	HistoryEntry(&buf, "accepted", at, 11)
	HistoryEntry(&buf, "in-progress", at, 11)
	assert.Equal(t, "  accepted     Mar 4, 2026 09:30\n  in-progress  Mar 4, 2026 09:30\n", buf.String())
}

func TestScenarioLines_UseTrackerTag(t *testing.T) {
	var buf bytes.Buffer
	ScenarioLine(&buf, 12, "Sign up")
	RemovedLine(&buf, 13, "Sign in")
	ShowHeader(&buf, 14, "account.ft")

	assert.Equal(t, "     @ft:12 Sign up\n     @ft:13 Sign in (removed)\n@ft:14  account.ft\n", buf.String())
}

func TestNodeRow(t *testing.T) {
	var buf bytes.Buffer
	NodeRow(&buf, 3, 5, "Step", "7")
	assert.Equal(t, "     3:5   Step             7\n", buf.String())
}
