package core

import (
	"strings"

	"github.com/huangsam/taskrecon/core/index"
	"github.com/huangsam/taskrecon/core/instant"
	"github.com/huangsam/taskrecon/core/phase"
	"github.com/huangsam/taskrecon/schema"
)

// BuildReport assembles one record per reportable task id, in index order.
// Every record is drafted before any duration is derived.
func BuildReport(idx *index.Indexes, r *phase.Resolver) []schema.ReportRecord {
	ids := idx.TaskIDs()
	records := make([]schema.ReportRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, draftRecord(idx, r, id))
	}
	for i := range records {
		deriveDurations(&records[i], r)
	}
	return records
}

// draftRecord resolves mode, user and the four phase timestamps. The
// timestamps are stored as canonical text.
func draftRecord(idx *index.Indexes, r *phase.Resolver, id string) schema.ReportRecord {
	user := ResolveIdentity(idx, assigneeEmail(idx, id))
	return schema.ReportRecord{
		Task:              id,
		UserName:          user.Name,
		UserEmail:         user.Email,
		Mode:              r.Mode(id),
		CreatedTime:       instant.Format(r.CreatedTime(id)),
		AssignedTime:      instant.Format(r.AssignedTime(id)),
		MakerCompleteTime: instant.Format(r.MakerCompleteTime(id)),
		OpenTime:          instant.Format(r.OpenTime(id)),
	}
}

// deriveDurations fills the two minute counts. Productive time is read back
// from the drafted text, so it sees millisecond-truncated instants; waiting
// time comes straight from the resolver.
func deriveDurations(rec *schema.ReportRecord, r *phase.Resolver) {
	rec.ProductiveTime = instant.ElapsedMinutes(
		instant.ParsePtr(rec.AssignedTime),
		instant.ParsePtr(rec.MakerCompleteTime),
	)
	rec.WaitingTime = instant.ElapsedMinutes(r.CreatedTime(rec.Task), r.AssignedTime(rec.Task))
}

// assigneeEmail is the login email of the first action on id, else the
// auto-assignment email, else empty.
func assigneeEmail(idx *index.Indexes, id string) string {
	if actions := idx.TaskActions(id); len(actions) > 0 {
		if email := strings.TrimSpace(actions[0].LoginEmail); email != "" {
			return email
		}
	}
	if aa, ok := idx.AutoAssignment(id); ok {
		return strings.TrimSpace(aa.Email)
	}
	return ""
}

// ResolveIdentity pairs an email with its display name. Unknown users mirror
// the email into the name, and an empty email resolves to the Unknown user.
func ResolveIdentity(idx *index.Indexes, email string) schema.UserIdentity {
	email = strings.TrimSpace(email)
	if email == "" {
		return schema.UserIdentity{Name: schema.UnknownUser, Email: schema.UnknownUser}
	}
	if name, ok := idx.DisplayName(email); ok && strings.TrimSpace(name) != "" {
		return schema.UserIdentity{Name: strings.TrimSpace(name), Email: email}
	}
	return schema.UserIdentity{Name: email, Email: email}
}

// FilterRecords keeps the records whose mode passes filter, up to limit rows.
// A limit of 0 keeps everything.
func FilterRecords(records []schema.ReportRecord, filter schema.ModeFilter, limit int) []schema.ReportRecord {
	out := make([]schema.ReportRecord, 0, len(records))
	for _, rec := range records {
		if !filter.Matches(rec.Mode) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
