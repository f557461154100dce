// Package schema has the event models, report rows and shared constants for all parts of taskrecon.
package schema

import "time"

// TaskAction is one manual user action recorded against a task.
type TaskAction struct {
	CreatedOn      string `json:"createdOn"`
	Action         string `json:"action"`
	ProductiveTime string `json:"productiveTime"` // Raw value as exported, never trusted for derivation
	TaskID         string `json:"taskId"`         // Empty when the source row had no task id
	LoginEmail     string `json:"loginEmail"`
	TaskOpenTime   string `json:"taskOpenTime"`
}

// TaskHistoryEntry is one status transition of a task.
type TaskHistoryEntry struct {
	TaskID             string `json:"taskId"`
	WorkStatus         string `json:"workStatus"`
	MCStatus           string `json:"mcStatus"`
	Action             string `json:"action"`
	ActionTimestamp    string `json:"actionTimestamp"`
	LastModifiedByUser string `json:"lastModifiedByUser"`
}

// User maps a principal name to its display name.
type User struct {
	UserPrincipalName string `json:"userPrincipalName"`
	DisplayName       string `json:"displayName"`
}

// AutoAssignmentLog is a raw free-text entry from the auto-assignment service log.
// Timestamp is the log row's own timestamp, used only when the message embeds none.
type AutoAssignmentLog struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// AutoAssignment is a machine assignment of a task to a user.
type AutoAssignment struct {
	TaskID    string    `json:"taskId"`
	Email     string    `json:"email"` // Empty when the log entry named no user
	Timestamp time.Time `json:"timestamp"`
}

// OpenTimeEvent records when a task was opened, keyed by the "tasknum" custom dimension.
type OpenTimeEvent struct {
	TaskID    string `json:"taskId"`
	Timestamp string `json:"timestamp"`
}

// ScreenOpenEvent records a user opening the work screen.
type ScreenOpenEvent struct {
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
}

// Snapshot is one complete, fully loaded set of source collections.
type Snapshot struct {
	TaskActions        []TaskAction
	TaskHistory        []TaskHistoryEntry
	Users              []User
	AutoAssignmentLogs []AutoAssignmentLog
	OpenTimeEvents     []OpenTimeEvent
	ScreenOpenEvents   []ScreenOpenEvent

	// MalformedPayloads counts telemetry rows whose embedded payload could not be read.
	MalformedPayloads int
}

// UserIdentity carries a resolved user's display name and email as separate fields.
type UserIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String renders the identity in the "Name (email)" display form.
func (u UserIdentity) String() string {
	if u.Name == "" || u.Name == u.Email {
		return u.Email
	}
	return u.Name + " (" + u.Email + ")"
}
