package index

import (
	"errors"
	"regexp"
	"strings"

	"github.com/huangsam/taskrecon/core/instant"
	"github.com/huangsam/taskrecon/schema"
)

var (
	jsonTaskIDPattern     = regexp.MustCompile(`"(?:taskId|taskid|task_id|tasknum)"\s*:\s*"?([^",}\s]+)`)
	labelledTaskIDPattern = regexp.MustCompile(`(?i)\b(?:task[ _]?id|tasknum)\b\s*[:=#]?\s*"?([A-Za-z0-9]+(?:[_-][A-Za-z0-9]+)*)`)
	looseTaskIDPattern    = regexp.MustCompile(`(?i)\btask\b\s*[:=#]?\s*"?([A-Za-z0-9]+(?:[_-][A-Za-z0-9]+)*)`)
	bareTaskIDPattern     = regexp.MustCompile(`\b([A-Za-z]+-\d+)\b`)
	assigneePattern       = regexp.MustCompile(`(?i)\bto\s*[:=]?\s*<?([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
	emailPattern          = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// taskStopwords are words that follow "task" in log prose without naming one.
var taskStopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "id": {}, "num": {}, "number": {},
	"auto": {}, "autoassigned": {}, "auto-assigned": {}, "auto_assigned": {},
	"assigned": {}, "assignment": {}, "reassigned": {}, "unassigned": {},
	"to": {}, "for": {}, "of": {}, "at": {}, "from": {}, "by": {},
	"is": {}, "was": {}, "has": {}, "been": {}, "successfully": {},
}

// ParseAutoAssignment extracts an assignment from a free-text log entry.
// The timestamp embedded in the message wins over the row timestamp.
// It returns false when no task id or no timestamp can be found.
func ParseAutoAssignment(entry schema.AutoAssignmentLog) (schema.AutoAssignment, bool) {
	return parseAutoAssignment(entry, nil)
}

// parseAutoAssignment reports an unparsable row timestamp to warn before
// dropping the entry.
func parseAutoAssignment(entry schema.AutoAssignmentLog, warn WarnFunc) (schema.AutoAssignment, bool) {
	taskID := extractTaskID(entry.Message)
	if taskID == "" {
		return schema.AutoAssignment{}, false
	}

	ts := instant.ExtractEmbedded(entry.Message)
	if ts == nil {
		t, err := instant.Parse(entry.Timestamp)
		if err != nil {
			if warn != nil && !errors.Is(err, instant.ErrEmpty) {
				warn(entry.Timestamp, err)
			}
			return schema.AutoAssignment{}, false
		}
		ts = &t
	}

	return schema.AutoAssignment{
		TaskID:    taskID,
		Email:     extractAssignee(entry.Message),
		Timestamp: *ts,
	}, true
}

func extractTaskID(message string) string {
	if m := jsonTaskIDPattern.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := labelledTaskIDPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	for _, m := range looseTaskIDPattern.FindAllStringSubmatch(message, -1) {
		if _, stop := taskStopwords[strings.ToLower(m[1])]; !stop {
			return m[1]
		}
	}
	if m := bareTaskIDPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}

func extractAssignee(message string) string {
	if m := assigneePattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return emailPattern.FindString(message)
}
