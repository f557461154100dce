package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/taskrecon/core/index"
	"github.com/huangsam/taskrecon/core/phase"
	"github.com/huangsam/taskrecon/schema"
)

// ErrTaskNotFound is returned when no collection mentions a task id.
var ErrTaskNotFound = errors.New("task not found")

// ExplainTask builds the report row of a single task together with the raw
// evidence it was derived from. The exported productive and open times are
// listed for comparison only.
func ExplainTask(idx *index.Indexes, r *phase.Resolver, id string) (schema.TaskExplanation, error) {
	id = strings.TrimSpace(id)
	actions := idx.TaskActions(id)
	history := idx.History(id)
	_, auto := idx.AutoAssignment(id)
	if len(actions) == 0 && len(history) == 0 && !auto {
		return schema.TaskExplanation{}, fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}

	rec := draftRecord(idx, r, id)
	deriveDurations(&rec, r)

	exp := schema.TaskExplanation{
		Record:              rec,
		TaskActionCount:     len(actions),
		HistoryEntryCount:   len(history),
		HasAutoAssignment:   auto,
		MatchedStatusColumn: r.StatusField(),
	}
	for _, a := range actions {
		if v := strings.TrimSpace(a.ProductiveTime); v != "" {
			exp.ReportedProductive = append(exp.ReportedProductive, v)
		}
		if v := strings.TrimSpace(a.TaskOpenTime); v != "" {
			exp.ReportedTaskOpen = append(exp.ReportedTaskOpen, v)
		}
	}
	return exp, nil
}
