package core

import (
	"testing"

	"github.com/huangsam/taskrecon/core/index"
	"github.com/huangsam/taskrecon/core/instant"
	"github.com/huangsam/taskrecon/core/phase"
	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFor(snap *schema.Snapshot) (*index.Indexes, *phase.Resolver) {
	idx := index.Build(snap)
	return idx, phase.NewResolver(idx)
}

func recordFor(t *testing.T, records []schema.ReportRecord, id string) schema.ReportRecord {
	t.Helper()
	for _, rec := range records {
		if rec.Task == id {
			return rec
		}
	}
	require.Failf(t, "missing record", "no record for %s", id)
	return schema.ReportRecord{}
}

func scenarioSnapshot() *schema.Snapshot {
	return &schema.Snapshot{
		TaskActions: []schema.TaskAction{
			{TaskID: "TASK-1", LoginEmail: "b@x.com"},
			{TaskID: "TASK-3", LoginEmail: "maker@x.com", ProductiveTime: "999"},
		},
		TaskHistory: []schema.TaskHistoryEntry{
			{TaskID: "TASK-3", MCStatus: "PMA", Action: "IN", ActionTimestamp: "2024-01-01T10:00:00.000Z"},
			{TaskID: "TASK-3", MCStatus: "PME", Action: "AS", ActionTimestamp: "2024-01-01T10:30:00.000Z"},
			{TaskID: "TASK-3", MCStatus: "PCA", Action: "SC", ActionTimestamp: "2024-01-01T12:00:00.000Z"},
		},
		Users: []schema.User{
			{UserPrincipalName: "Maker@X.com", DisplayName: "Mia Maker"},
		},
		AutoAssignmentLogs: []schema.AutoAssignmentLog{
			{Message: "Task TASK-2 auto assigned to svc@x.com at 2024-01-02T08:00:00.000Z"},
		},
		OpenTimeEvents: []schema.OpenTimeEvent{
			{TaskID: "TASK-3", Timestamp: "1/1/2024 10:05"},
			{TaskID: "ORPHAN", Timestamp: "2024-01-01T10:00:00.000Z"},
		},
	}
}

func TestBuildReportScenarios(t *testing.T) {
	records := BuildReport(buildFor(scenarioSnapshot()))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"TASK-1", "TASK-3", "TASK-2"}, []string{records[0].Task, records[1].Task, records[2].Task})

	manual := recordFor(t, records, "TASK-1")
	assert.Equal(t, schema.ManualMode, manual.Mode)
	assert.Equal(t, "b@x.com", manual.UserName, "unmatched users mirror the email")
	assert.Equal(t, "b@x.com", manual.UserEmail)
	assert.Empty(t, manual.CreatedTime)
	assert.Nil(t, manual.WaitingTime)
	assert.Nil(t, manual.ProductiveTime)

	auto := recordFor(t, records, "TASK-2")
	assert.Equal(t, schema.AutoMode, auto.Mode)
	assert.Equal(t, "2024-01-02T08:00:00.000Z", auto.AssignedTime)
	assert.Equal(t, "svc@x.com", auto.UserEmail)
	assert.Nil(t, auto.WaitingTime, "no creation entry means no waiting time")

	full := recordFor(t, records, "TASK-3")
	assert.Equal(t, schema.ManualMode, full.Mode)
	assert.Equal(t, "Mia Maker", full.UserName)
	assert.Equal(t, "maker@x.com", full.UserEmail)
	assert.Equal(t, "2024-01-01T10:00:00.000Z", full.CreatedTime)
	assert.Equal(t, "2024-01-01T10:30:00.000Z", full.AssignedTime)
	assert.Equal(t, "2024-01-01T12:00:00.000Z", full.MakerCompleteTime)
	assert.Equal(t, "2024-01-01T10:05:00.000Z", full.OpenTime)
	require.NotNil(t, full.WaitingTime)
	require.NotNil(t, full.ProductiveTime)
	assert.Equal(t, 30, *full.WaitingTime)
	assert.Equal(t, 90, *full.ProductiveTime, "exported productive time is never trusted")
}

func TestBuildReportExcludesOpenTimeOnlyTasks(t *testing.T) {
	for _, rec := range BuildReport(buildFor(scenarioSnapshot())) {
		assert.NotEqual(t, "ORPHAN", rec.Task)
	}
}

func TestBuildReportEmptySnapshot(t *testing.T) {
	records := BuildReport(buildFor(&schema.Snapshot{}))
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

// Productive time is derived from the millisecond text of the draft, so
// sub-millisecond precision in the source can tip the minute count.
func TestProductiveTimeUsesDraftText(t *testing.T) {
	const assigned = "2024-01-01T10:00:59.9999Z"
	const complete = "2024-01-01T10:01:59.9995Z"
	snap := &schema.Snapshot{
		TaskActions: []schema.TaskAction{{TaskID: "TASK-9", LoginEmail: "m@x.com"}},
		TaskHistory: []schema.TaskHistoryEntry{
			{TaskID: "TASK-9", MCStatus: "PME", Action: "AS", ActionTimestamp: assigned},
			{TaskID: "TASK-9", MCStatus: "PCA", Action: "SC", ActionTimestamp: complete},
		},
	}
	records := BuildReport(buildFor(snap))
	require.Len(t, records, 1)
	require.NotNil(t, records[0].ProductiveTime)
	assert.Equal(t, 1, *records[0].ProductiveTime)

	direct := instant.ElapsedMinutes(instant.ParsePtr(assigned), instant.ParsePtr(complete))
	require.NotNil(t, direct)
	assert.Equal(t, 0, *direct)
}

func TestBuildReportUserFallbacks(t *testing.T) {
	snap := &schema.Snapshot{
		TaskActions: []schema.TaskAction{
			{TaskID: "BLANK-LOGIN", LoginEmail: " "},
			{TaskID: "NOBODY", LoginEmail: ""},
		},
		AutoAssignmentLogs: []schema.AutoAssignmentLog{
			{Message: "Task BLANK-LOGIN auto assigned to svc@x.com at 2024-01-02T08:00:00.000Z"},
		},
	}
	records := BuildReport(buildFor(snap))

	blank := recordFor(t, records, "BLANK-LOGIN")
	assert.Equal(t, "svc@x.com", blank.UserEmail)

	nobody := recordFor(t, records, "NOBODY")
	assert.Equal(t, schema.UnknownUser, nobody.UserName)
	assert.Equal(t, schema.UnknownUser, nobody.UserEmail)
}

func TestResolveIdentity(t *testing.T) {
	idx := index.Build(&schema.Snapshot{
		Users: []schema.User{
			{UserPrincipalName: "ada@x.com", DisplayName: "Ada Lovelace"},
			{UserPrincipalName: "blank@x.com", DisplayName: ""},
		},
	})

	assert.Equal(t, schema.UserIdentity{Name: "Ada Lovelace", Email: "ADA@x.com"}, ResolveIdentity(idx, "ADA@x.com"))
	assert.Equal(t, schema.UserIdentity{Name: "blank@x.com", Email: "blank@x.com"}, ResolveIdentity(idx, "blank@x.com"))
	assert.Equal(t, schema.UserIdentity{Name: "z@x.com", Email: "z@x.com"}, ResolveIdentity(idx, " z@x.com "))
	assert.Equal(t, schema.UserIdentity{Name: schema.UnknownUser, Email: schema.UnknownUser}, ResolveIdentity(idx, ""))
}

func TestFilterRecords(t *testing.T) {
	records := []schema.ReportRecord{
		{Task: "A", Mode: schema.AutoMode},
		{Task: "B", Mode: schema.ManualMode},
		{Task: "C", Mode: schema.AutoMode},
		{Task: "D", Mode: schema.UnknownMode},
	}

	assert.Len(t, FilterRecords(records, schema.AllFilter, 0), 4)
	assert.Len(t, FilterRecords(records, schema.AllFilter, 2), 2)

	auto := FilterRecords(records, schema.AutoFilter, 0)
	require.Len(t, auto, 2)
	assert.Equal(t, "C", auto[1].Task)

	assert.Len(t, FilterRecords(records, schema.UnknownFilter, 5), 1)
	assert.Empty(t, FilterRecords(nil, schema.ManualFilter, 0))
}

func TestBuildReportModeIsTotal(t *testing.T) {
	records := BuildReport(buildFor(scenarioSnapshot()))
	for _, rec := range records {
		assert.Contains(t, []schema.AssignmentMode{schema.AutoMode, schema.ManualMode, schema.UnknownMode}, rec.Mode)
	}
}
