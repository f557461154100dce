// Package phase resolves a task's assignment mode and phase timestamps from the event indexes.
package phase

import (
	"errors"
	"time"

	"github.com/huangsam/taskrecon/core/index"
	"github.com/huangsam/taskrecon/core/instant"
	"github.com/huangsam/taskrecon/schema"
)

// WarnFunc receives the raw value of every timestamp that could not be parsed.
type WarnFunc func(raw string, err error)

// Resolver answers phase questions for single task ids.
// Every call recomputes from the indexes; nothing is cached.
type Resolver struct {
	idx         *index.Indexes
	statusField schema.StatusField
	warn        WarnFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStatusField selects the history status column matched by the phase rules.
func WithStatusField(field schema.StatusField) Option {
	return func(r *Resolver) { r.statusField = field }
}

// WithWarnFunc installs a callback for unparsable timestamps.
func WithWarnFunc(fn WarnFunc) Option {
	return func(r *Resolver) { r.warn = fn }
}

// NewResolver creates a Resolver over idx.
func NewResolver(idx *index.Indexes, opts ...Option) *Resolver {
	r := &Resolver{idx: idx, statusField: schema.MCStatusField}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StatusField returns the history status column in use.
func (r *Resolver) StatusField() schema.StatusField {
	return r.statusField
}

// Mode classifies how id was assigned. AutoAssignment evidence takes priority over TaskActions.
func (r *Resolver) Mode(id string) schema.AssignmentMode {
	if _, ok := r.idx.AutoAssignment(id); ok {
		return schema.AutoMode
	}
	if r.idx.HasTaskActions(id) {
		return schema.ManualMode
	}
	return schema.UnknownMode
}

// CreatedTime is the timestamp of the first PMA/IN history entry.
func (r *Resolver) CreatedTime(id string) *time.Time {
	return r.firstMatch(id, schema.StatusPendingMakerAssign, schema.ActionInitiate)
}

// AssignedTime is the auto-assignment timestamp for Auto tasks and the first
// PME/AS history entry otherwise.
func (r *Resolver) AssignedTime(id string) *time.Time {
	if r.Mode(id) == schema.AutoMode {
		aa, _ := r.idx.AutoAssignment(id)
		ts := aa.Timestamp
		return &ts
	}
	return r.firstMatch(id, schema.StatusPendingMakerExecute, schema.ActionAssign)
}

// MakerCompleteTime is the timestamp of the first PCA/SC history entry.
func (r *Resolver) MakerCompleteTime(id string) *time.Time {
	return r.firstMatch(id, schema.StatusPendingCheckerAssign, schema.ActionSubmitToChecker)
}

// OpenTime is the recorded open timestamp of id.
func (r *Resolver) OpenTime(id string) *time.Time {
	raw, ok := r.idx.OpenTime(id)
	if !ok {
		return nil
	}
	return r.parse(raw)
}

// FirstScreenOpen is the earliest parsable screen-open instant of a user.
// Selection is by instant, so source order does not matter.
func (r *Resolver) FirstScreenOpen(email string) *time.Time {
	var earliest *time.Time
	for _, raw := range r.idx.ScreenOpens(email) {
		t := r.parse(raw)
		if t == nil {
			continue
		}
		if earliest == nil || t.Before(*earliest) {
			earliest = t
		}
	}
	return earliest
}

// firstMatch scans the history of id in ingestion order and returns the
// timestamp of the first entry with the given status and action. The scan is
// ingestion-order dependent, not timestamp-order dependent: a later entry with
// an earlier timestamp never wins. A matching entry with an unparsable
// timestamp yields nil rather than falling through to the next match.
func (r *Resolver) firstMatch(id, status, action string) *time.Time {
	for _, h := range r.idx.History(id) {
		if r.status(h) == status && h.Action == action {
			return r.parse(h.ActionTimestamp)
		}
	}
	return nil
}

func (r *Resolver) status(h schema.TaskHistoryEntry) string {
	if r.statusField == schema.WorkStatusField {
		return h.WorkStatus
	}
	return h.MCStatus
}

func (r *Resolver) parse(raw string) *time.Time {
	t, err := instant.Parse(raw)
	if err != nil {
		if r.warn != nil && !errors.Is(err, instant.ErrEmpty) {
			r.warn(raw, err)
		}
		return nil
	}
	return &t
}
