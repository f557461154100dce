package schema

// ReportRecord is one reconciled task row.
// The four phase timestamps are canonical UTC text, or empty when unresolved.
type ReportRecord struct {
	Task              string         `json:"task"`
	UserName          string         `json:"userName"`
	UserEmail         string         `json:"userEmail"`
	ProductiveTime    *int           `json:"productiveTime"`
	WaitingTime       *int           `json:"waitingTime"`
	Mode              AssignmentMode `json:"mode"`
	CreatedTime       string         `json:"createdTime"`
	AssignedTime      string         `json:"assignedTime"`
	MakerCompleteTime string         `json:"makerCompleteTime"`
	OpenTime          string         `json:"openTime"`
}

// ScreenOpenRow correlates one auto-assignment with the assignee's earliest screen open.
type ScreenOpenRow struct {
	TaskID              string `json:"taskId"`
	UserName            string `json:"userName"`
	UserEmail           string `json:"userEmail"`
	AssignedTime        string `json:"assignedTime"`
	FirstScreenOpenTime string `json:"firstScreenOpenTime"`
	TimeToOpenMinutes   *int   `json:"timeToOpenMinutes"`
	ScreenOpenCount     int    `json:"screenOpenCount"`
	AssignmentDate      string `json:"assignmentDate"`
}

// TaskExplanation is a single task's reconciled row plus the evidence behind it.
type TaskExplanation struct {
	Record              ReportRecord `json:"record"`
	TaskActionCount     int          `json:"taskActionCount"`
	HistoryEntryCount   int          `json:"historyEntryCount"`
	HasAutoAssignment   bool         `json:"hasAutoAssignment"`
	ReportedProductive  []string     `json:"reportedProductiveTime,omitempty"`
	ReportedTaskOpen    []string     `json:"reportedTaskOpenTime,omitempty"`
	MatchedStatusColumn StatusField  `json:"matchedStatusColumn"`
}

// Diagnostics counts the non-fatal data problems seen during one run.
type Diagnostics struct {
	DroppedTaskActions    int `json:"droppedTaskActions"`
	DroppedHistoryEntries int `json:"droppedHistoryEntries"`
	DroppedUsers          int `json:"droppedUsers"`
	DroppedAutoAssigns    int `json:"droppedAutoAssignments"`
	DroppedOpenTimes      int `json:"droppedOpenTimes"`
	DroppedScreenOpens    int `json:"droppedScreenOpens"`
	MalformedPayloads     int `json:"malformedPayloads"`
	UnparsableDates       int `json:"unparsableDates"`
}

// Total sums every counter.
func (d Diagnostics) Total() int {
	return d.DroppedTaskActions + d.DroppedHistoryEntries + d.DroppedUsers + d.DroppedAutoAssigns +
		d.DroppedOpenTimes + d.DroppedScreenOpens + d.MalformedPayloads + d.UnparsableDates
}
