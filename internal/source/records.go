package source

import (
	"github.com/huangsam/taskrecon/schema"
)

// Column aliases, already normalized. The first alias of each group is the
// staging table's column name without underscores.
var (
	colCreatedOn       = []string{"createdon", "created", "createdat"}
	colAction          = []string{"action", "actioncode", "actionlabel"}
	colProductiveTime  = []string{"productivetime"}
	colTaskID          = []string{"taskid", "task", "tasknum"}
	colLoginEmail      = []string{"loginemail", "useremail", "email"}
	colTaskOpenTime    = []string{"taskopentime", "opentime"}
	colWorkStatus      = []string{"workstatus"}
	colMCStatus        = []string{"mcstatus"}
	colActionTimestamp = []string{"actiontimestamp", "timestamp"}
	colLastModifiedBy  = []string{"lastmodifiedbyuser", "modifiedby"}
	colPrincipal       = []string{"userprincipalname", "upn", "email"}
	colDisplayName     = []string{"displayname", "name"}
	colLoggedAt        = []string{"loggedat", "timestamp", "time"}
	colMessage         = []string{"message", "msg", "text"}
	colDimensions      = []string{"customdimensions", "dimensions", "payload"}
	colEmail           = []string{"email", "useremail", "user"}
	colTaskNum         = []string{"tasknum", "taskid"}
)

// Keys looked up inside telemetry payloads.
var (
	payloadTaskKeys  = []string{"tasknum", "taskNum", "taskId", "taskid"}
	payloadEmailKeys = []string{"email", "userEmail", "useremail", "user"}
)

func decodeTaskActions(t *table) ([]schema.TaskAction, error) {
	if err := t.require(colTaskID); err != nil {
		return nil, err
	}
	out := make([]schema.TaskAction, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, schema.TaskAction{
			CreatedOn:      t.get(row, colCreatedOn),
			Action:         t.get(row, colAction),
			ProductiveTime: t.get(row, colProductiveTime),
			TaskID:         t.get(row, colTaskID),
			LoginEmail:     t.get(row, colLoginEmail),
			TaskOpenTime:   t.get(row, colTaskOpenTime),
		})
	}
	return out, nil
}

func decodeTaskHistory(t *table) ([]schema.TaskHistoryEntry, error) {
	if err := t.require(colTaskID, colAction); err != nil {
		return nil, err
	}
	out := make([]schema.TaskHistoryEntry, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, schema.TaskHistoryEntry{
			TaskID:             t.get(row, colTaskID),
			WorkStatus:         t.get(row, colWorkStatus),
			MCStatus:           t.get(row, colMCStatus),
			Action:             t.get(row, colAction),
			ActionTimestamp:    t.get(row, colActionTimestamp),
			LastModifiedByUser: t.get(row, colLastModifiedBy),
		})
	}
	return out, nil
}

func decodeUsers(t *table) ([]schema.User, error) {
	if err := t.require(colPrincipal); err != nil {
		return nil, err
	}
	out := make([]schema.User, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, schema.User{
			UserPrincipalName: t.get(row, colPrincipal),
			DisplayName:       t.get(row, colDisplayName),
		})
	}
	return out, nil
}

func decodeAutoAssignmentLogs(t *table) ([]schema.AutoAssignmentLog, error) {
	if err := t.require(colMessage); err != nil {
		return nil, err
	}
	out := make([]schema.AutoAssignmentLog, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, schema.AutoAssignmentLog{
			Timestamp: t.get(row, colLoggedAt),
			Message:   t.get(row, colMessage),
		})
	}
	return out, nil
}

// decodeOpenTimes takes the task id from the payload, falling back to a
// plain tasknum column. Rows with an unreadable payload are counted and skipped.
func decodeOpenTimes(t *table) ([]schema.OpenTimeEvent, int, error) {
	if err := t.require(colLoggedAt); err != nil {
		return nil, 0, err
	}
	hasPayload, hasColumn := t.has(colDimensions), t.has(colTaskNum)
	if !hasPayload && !hasColumn {
		return nil, 0, t.require(colDimensions)
	}

	out := make([]schema.OpenTimeEvent, 0, len(t.rows))
	malformed := 0
	for _, row := range t.rows {
		taskID, payloadOK := "", true
		if hasPayload {
			taskID, payloadOK = payloadField(t.get(row, colDimensions), payloadTaskKeys...)
		}
		if taskID == "" && hasColumn {
			taskID = t.get(row, colTaskNum)
		}
		if !payloadOK && taskID == "" {
			malformed++
			continue
		}
		out = append(out, schema.OpenTimeEvent{TaskID: taskID, Timestamp: t.get(row, colLoggedAt)})
	}
	return out, malformed, nil
}

// decodeScreenOpens prefers an explicit email column over the payload.
func decodeScreenOpens(t *table) ([]schema.ScreenOpenEvent, int, error) {
	if err := t.require(colLoggedAt); err != nil {
		return nil, 0, err
	}
	hasPayload, hasColumn := t.has(colDimensions), t.has(colEmail)
	if !hasPayload && !hasColumn {
		return nil, 0, t.require(colEmail)
	}

	out := make([]schema.ScreenOpenEvent, 0, len(t.rows))
	malformed := 0
	for _, row := range t.rows {
		email := ""
		if hasColumn {
			email = t.get(row, colEmail)
		}
		if email == "" && hasPayload {
			v, ok := payloadField(t.get(row, colDimensions), payloadEmailKeys...)
			if !ok {
				malformed++
				continue
			}
			email = v
		}
		out = append(out, schema.ScreenOpenEvent{Email: email, Timestamp: t.get(row, colLoggedAt)})
	}
	return out, malformed, nil
}

// decodeSnapshot fills a snapshot from the six tables in collection order.
func decodeSnapshot(tables map[string]*table) (*schema.Snapshot, error) {
	snap := &schema.Snapshot{}
	var err error

	if snap.TaskActions, err = decodeTaskActions(tables[TaskActionsTable]); err != nil {
		return nil, collectionError(TaskActionsTable, err)
	}
	if snap.TaskHistory, err = decodeTaskHistory(tables[TaskHistoryTable]); err != nil {
		return nil, collectionError(TaskHistoryTable, err)
	}
	if snap.Users, err = decodeUsers(tables[UsersTable]); err != nil {
		return nil, collectionError(UsersTable, err)
	}
	if snap.AutoAssignmentLogs, err = decodeAutoAssignmentLogs(tables[AutoAssignmentLogTable]); err != nil {
		return nil, collectionError(AutoAssignmentLogTable, err)
	}

	var malformed int
	if snap.OpenTimeEvents, malformed, err = decodeOpenTimes(tables[OpenTimeTable]); err != nil {
		return nil, collectionError(OpenTimeTable, err)
	}
	snap.MalformedPayloads += malformed
	if snap.ScreenOpenEvents, malformed, err = decodeScreenOpens(tables[ScreenOpenTable]); err != nil {
		return nil, collectionError(ScreenOpenTable, err)
	}
	snap.MalformedPayloads += malformed

	return snap, nil
}
