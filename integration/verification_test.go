//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportFromCSV(t *testing.T) {
	out, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)

	records := decodeReport(t, out)
	require.Len(t, records, 2)

	manual := records[0]
	assert.Equal(t, "TASK-1", manual.Task)
	assert.Equal(t, schema.ManualMode, manual.Mode)
	assert.Equal(t, "Mia Maker", manual.UserName)
	assert.Equal(t, "maker@corp.com", manual.UserEmail)
	assert.Equal(t, "2024-01-01T09:00:00.000Z", manual.CreatedTime)
	assert.Equal(t, "2024-01-01T09:05:00.000Z", manual.AssignedTime)
	assert.Equal(t, "2024-01-01T09:35:00.000Z", manual.MakerCompleteTime)
	assert.Equal(t, "2024-01-01T09:01:00.000Z", manual.OpenTime)
	require.NotNil(t, manual.WaitingTime)
	require.NotNil(t, manual.ProductiveTime)
	assert.Equal(t, 5, *manual.WaitingTime)
	assert.Equal(t, 30, *manual.ProductiveTime)

	auto := records[1]
	assert.Equal(t, "TASK-2", auto.Task)
	assert.Equal(t, schema.AutoMode, auto.Mode)
	assert.Equal(t, "checker@corp.com", auto.UserEmail)
	assert.Equal(t, "2024-01-02T08:10:00.000Z", auto.AssignedTime)
	require.NotNil(t, auto.WaitingTime)
	assert.Equal(t, 10, *auto.WaitingTime)
	assert.Nil(t, auto.ProductiveTime)
}

func TestReportJSONMatchesCSV(t *testing.T) {
	csvOut, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)
	jsonOut, err := runTaskrecon(t, nil, "report", fixtureDir(t, "json"), "--source-backend", "json", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, decodeReport(t, csvOut), decodeReport(t, jsonOut))
}

func TestReportModeFilterAndEnv(t *testing.T) {
	env := map[string]string{"TASKRECON_MODE": "auto"}
	out, err := runTaskrecon(t, env, "report", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)

	records := decodeReport(t, out)
	require.Len(t, records, 1)
	assert.Equal(t, "TASK-2", records[0].Task)
}

func TestReportCSVFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.csv")
	_, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--output", "csv", "--output-file", target)
	require.NoError(t, err)

	rows := readCSV(t, target)
	require.Len(t, rows, 3)
	assert.Equal(t, "task", rows[0][0])
	assert.Equal(t, "", rows[2][3], "missing productive time is empty")
}

func TestReportTextOutput(t *testing.T) {
	out, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--color", "no", "--width", "200")
	require.NoError(t, err)
	assert.Contains(t, out, "TASK-1")
	assert.Contains(t, out, "Showing 2 tasks (auto: 1, manual: 1, unknown: 0)")
}

func TestScreenOpenFromCSV(t *testing.T) {
	out, err := runTaskrecon(t, nil, "screen-open", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)

	var rows []schema.ScreenOpenRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "TASK-2", rows[0].TaskID)
	assert.Equal(t, "2024-01-02T08:25:00.000Z", rows[0].FirstScreenOpenTime)
	require.NotNil(t, rows[0].TimeToOpenMinutes)
	assert.Equal(t, 15, *rows[0].TimeToOpenMinutes)
	assert.Equal(t, 1, rows[0].ScreenOpenCount)
}

func TestTaskExplain(t *testing.T) {
	out, err := runTaskrecon(t, nil, "task", "TASK-1", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)

	var exp schema.TaskExplanation
	require.NoError(t, json.Unmarshal([]byte(out), &exp))
	assert.Equal(t, "TASK-1", exp.Record.Task)
	assert.Equal(t, 2, exp.TaskActionCount)
	assert.Equal(t, 3, exp.HistoryEntryCount)
	assert.Equal(t, []string{"30"}, exp.ReportedProductive)

	_, err = runTaskrecon(t, nil, "task", "NOPE", fixtureDir(t, "csv"))
	assert.Error(t, err)
}

func TestInvalidInputsFail(t *testing.T) {
	_, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--mode", "robotic")
	assert.Error(t, err)

	_, err = runTaskrecon(t, nil, "report", t.TempDir())
	assert.Error(t, err, "an empty directory has none of the source files")
}

func TestSQLiteStagingRoundTrip(t *testing.T) {
	env := map[string]string{
		"TASKRECON_SOURCE_BACKEND":    "sqlite",
		"TASKRECON_SOURCE_DB_CONNECT": filepath.Join(t.TempDir(), "staging.db"),
	}
	fromDB := stageAndReport(t, env)

	out, err := runTaskrecon(t, nil, "report", fixtureDir(t, "csv"), "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, decodeReport(t, out), fromDB)
}

func TestVersion(t *testing.T) {
	// Version details are printed to stderr.
	out, err := runTaskrecon(t, nil, "version")
	require.NoError(t, err)
	assert.False(t, strings.Contains(out, "Runtime:"))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
