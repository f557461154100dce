package core

import (
	"strings"

	"github.com/huangsam/taskrecon/core/index"
	"github.com/huangsam/taskrecon/core/instant"
	"github.com/huangsam/taskrecon/core/phase"
	"github.com/huangsam/taskrecon/schema"
)

// BuildScreenOpenAnalysis emits one row per auto-assignment in index order,
// paired with the assignee's earliest screen open. The minute count is only
// set when that open came strictly after the assignment.
func BuildScreenOpenAnalysis(idx *index.Indexes, r *phase.Resolver) []schema.ScreenOpenRow {
	assignments := idx.AutoAssignments()
	rows := make([]schema.ScreenOpenRow, 0, len(assignments))
	for _, aa := range assignments {
		user := ResolveIdentity(idx, aa.Email)
		assigned := aa.Timestamp
		first := r.FirstScreenOpen(aa.Email)

		var minutes *int
		if first != nil && first.After(assigned) {
			minutes = instant.ElapsedMinutes(&assigned, first)
		}

		rows = append(rows, schema.ScreenOpenRow{
			TaskID:              aa.TaskID,
			UserName:            user.Name,
			UserEmail:           user.Email,
			AssignedTime:        instant.Format(&assigned),
			FirstScreenOpenTime: instant.Format(first),
			TimeToOpenMinutes:   minutes,
			ScreenOpenCount:     len(idx.ScreenOpens(aa.Email)),
			AssignmentDate:      instant.Date(&assigned),
		})
	}
	return rows
}

// FilterScreenOpenRows keeps rows for one user email, case-insensitively.
// An empty email keeps everything.
func FilterScreenOpenRows(rows []schema.ScreenOpenRow, email string) []schema.ScreenOpenRow {
	email = strings.TrimSpace(email)
	if email == "" {
		return rows
	}
	out := make([]schema.ScreenOpenRow, 0)
	for _, row := range rows {
		if strings.EqualFold(row.UserEmail, email) {
			out = append(out, row)
		}
	}
	return out
}
