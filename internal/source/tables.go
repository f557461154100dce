package source

import (
	"fmt"

	"github.com/huangsam/taskrecon/internal/contract"
)

// Staging table names, one per source collection.
const (
	TaskActionsTable       = "src_task_actions"
	TaskHistoryTable       = "src_task_history"
	UsersTable             = "src_users"
	AutoAssignmentLogTable = "src_auto_assignment_log"
	OpenTimeTable          = "src_open_time_telemetry"
	ScreenOpenTable        = "src_screen_open_telemetry"
)

// stagingColumn maps a staging column to the aliases that feed it on import.
type stagingColumn struct {
	name    string
	aliases []string
}

// stagingTable describes one collection in its file and SQL forms.
// migration is the schema version that creates the table.
type stagingTable struct {
	name      string
	migration uint
	file      func(contract.SourceFiles) string
	columns   []stagingColumn
}

// stagingTables is in collection order. Every table also has a leading seq
// column that preserves ingestion order.
var stagingTables = []stagingTable{
	{
		name:      TaskActionsTable,
		migration: 1,
		file:      func(f contract.SourceFiles) string { return f.TaskActions },
		columns: []stagingColumn{
			{"created_on", colCreatedOn},
			{"action", colAction},
			{"productive_time", colProductiveTime},
			{"task_id", colTaskID},
			{"login_email", colLoginEmail},
			{"task_open_time", colTaskOpenTime},
		},
	},
	{
		name:      TaskHistoryTable,
		migration: 2,
		file:      func(f contract.SourceFiles) string { return f.TaskHistory },
		columns: []stagingColumn{
			{"task_id", colTaskID},
			{"work_status", colWorkStatus},
			{"mc_status", colMCStatus},
			{"action", colAction},
			{"action_timestamp", colActionTimestamp},
			{"last_modified_by_user", colLastModifiedBy},
		},
	},
	{
		name:      UsersTable,
		migration: 3,
		file:      func(f contract.SourceFiles) string { return f.Users },
		columns: []stagingColumn{
			{"user_principal_name", colPrincipal},
			{"display_name", colDisplayName},
		},
	},
	{
		name:      AutoAssignmentLogTable,
		migration: 4,
		file:      func(f contract.SourceFiles) string { return f.AutoAssignment },
		columns: []stagingColumn{
			{"logged_at", colLoggedAt},
			{"message", colMessage},
		},
	},
	{
		name:      OpenTimeTable,
		migration: 5,
		file:      func(f contract.SourceFiles) string { return f.OpenTime },
		columns: []stagingColumn{
			{"logged_at", colLoggedAt},
			{"custom_dimensions", colDimensions},
			{"tasknum", colTaskNum},
		},
	},
	{
		name:      ScreenOpenTable,
		migration: 6,
		file:      func(f contract.SourceFiles) string { return f.ScreenOpen },
		columns: []stagingColumn{
			{"logged_at", colLoggedAt},
			{"email", colEmail},
			{"custom_dimensions", colDimensions},
		},
	},
}

func collectionError(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadableSource, name, err)
}
