package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/internal/outwriter"
	"github.com/huangsam/taskrecon/internal/source"
	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietContext() context.Context {
	return WithSuppressHeader(context.Background())
}

func TestEngineDiagnostics(t *testing.T) {
	snap := scenarioSnapshot()
	snap.TaskActions = append(snap.TaskActions, schema.TaskAction{TaskID: "  "})
	snap.TaskHistory = append(snap.TaskHistory,
		schema.TaskHistoryEntry{TaskID: "BAD", MCStatus: "PMA", Action: "IN", ActionTimestamp: "not a date"},
		schema.TaskHistoryEntry{TaskID: "BAD", MCStatus: "PME", Action: "AS", ActionTimestamp: "not a date"},
	)
	snap.MalformedPayloads = 2

	engine := NewEngine(snap, schema.MCStatusField)
	records := engine.Report(schema.AllFilter, 0)
	require.Len(t, records, 4)

	bad := recordFor(t, records, "BAD")
	assert.Empty(t, bad.CreatedTime)
	assert.Nil(t, bad.WaitingTime)

	d := engine.Diagnostics()
	assert.Equal(t, 1, d.DroppedTaskActions)
	assert.Equal(t, 2, d.MalformedPayloads)
	assert.Equal(t, 1, d.UnparsableDates, "one distinct raw value however often it is resolved")

	engine.Report(schema.AllFilter, 0)
	assert.Equal(t, 1, engine.Diagnostics().UnparsableDates)
}

func TestEngineCountsUnparsableAutoAssignmentTimestamps(t *testing.T) {
	snap := scenarioSnapshot()
	snap.AutoAssignmentLogs = append(snap.AutoAssignmentLogs,
		schema.AutoAssignmentLog{Timestamp: "whenever", Message: "Task LATE auto assigned to svc@x.com"},
	)

	engine := NewEngine(snap, schema.MCStatusField)
	d := engine.Diagnostics()
	assert.Equal(t, 1, d.DroppedAutoAssigns)
	assert.Equal(t, 1, d.UnparsableDates)
	assert.Len(t, engine.Report(schema.AllFilter, 0), 3)
}

func TestEngineConcurrentQueries(t *testing.T) {
	engine := NewEngine(scenarioSnapshot(), schema.MCStatusField)
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			assert.Len(t, engine.Report(schema.AllFilter, 0), 3)
		}()
		go func() {
			defer wg.Done()
			assert.Len(t, engine.ScreenOpen(""), 1)
		}()
		go func() {
			defer wg.Done()
			_, err := engine.Explain("TASK-3")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, engine.TaskCount())
}

func TestExecuteTaskReport(t *testing.T) {
	cfg := &contract.Config{ModeFilter: schema.ManualFilter, ResultLimit: 1, StatusField: schema.MCStatusField}

	loader := &source.MockSourceLoader{}
	loader.On("Load", mock.Anything).Return(scenarioSnapshot(), nil)
	loader.On("Describe").Return("mock source")

	writer := &outwriter.MockReportWriter{}
	writer.On("WriteReport", mock.MatchedBy(func(records []schema.ReportRecord) bool {
		return len(records) == 1 && records[0].Task == "TASK-1"
	}), cfg, mock.AnythingOfType("time.Duration")).Return(nil)

	require.NoError(t, ExecuteTaskReport(quietContext(), cfg, loader, writer))
	loader.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestExecuteTaskReportLoadFailure(t *testing.T) {
	cfg := &contract.Config{ModeFilter: schema.AllFilter}

	loader := &source.MockSourceLoader{}
	loader.On("Load", mock.Anything).Return(nil, source.ErrUnreadableSource)
	loader.On("Describe").Return("mock source")

	writer := &outwriter.MockReportWriter{}

	err := ExecuteTaskReport(quietContext(), cfg, loader, writer)
	require.Error(t, err)
	assert.ErrorIs(t, err, source.ErrUnreadableSource)
	writer.AssertNotCalled(t, "WriteReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestExecuteScreenOpenReport(t *testing.T) {
	cfg := &contract.Config{ModeFilter: schema.AllFilter}

	loader := &source.MockSourceLoader{}
	loader.On("Load", mock.Anything).Return(screenSnapshot(), nil)
	loader.On("Describe").Return("mock source")

	writer := &outwriter.MockReportWriter{}
	writer.On("WriteScreenOpen", mock.MatchedBy(func(rows []schema.ScreenOpenRow) bool {
		return len(rows) == 2 && rows[0].TaskID == "TASK-2"
	}), cfg, mock.AnythingOfType("time.Duration")).Return(nil)

	require.NoError(t, ExecuteScreenOpenReport(quietContext(), cfg, loader, writer))
	writer.AssertExpectations(t)
}

func TestExecuteTaskExplain(t *testing.T) {
	cfg := &contract.Config{ModeFilter: schema.AllFilter, StatusField: schema.MCStatusField}

	loader := &source.MockSourceLoader{}
	loader.On("Load", mock.Anything).Return(scenarioSnapshot(), nil)
	loader.On("Describe").Return("mock source")

	writer := &outwriter.MockReportWriter{}
	writer.On("WriteExplanation", mock.MatchedBy(func(exp schema.TaskExplanation) bool {
		return exp.Record.Task == "TASK-3"
	}), cfg).Return(nil)

	require.NoError(t, ExecuteTaskExplain(quietContext(), cfg, loader, writer, "TASK-3"))
	writer.AssertExpectations(t)

	err := ExecuteTaskExplain(quietContext(), cfg, loader, writer, "NOPE")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestLoadEngineWrapsError(t *testing.T) {
	loader := &source.MockSourceLoader{}
	loader.On("Load", mock.Anything).Return(nil, assert.AnError)
	loader.On("Describe").Return("flaky source")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := LoadEngine(ctx, loader, schema.MCStatusField)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flaky source")
	assert.ErrorIs(t, err, assert.AnError)
}
