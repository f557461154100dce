// Package index builds the immutable lookup structures the phase rules query.
package index

import (
	"strings"

	"github.com/huangsam/taskrecon/schema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Indexes holds the six event indexes of one snapshot.
// It is built once by Build and never mutated afterwards, so it is safe to
// share between goroutines.
type Indexes struct {
	taskActions     *orderedmap.OrderedMap[string, []schema.TaskAction]
	taskHistory     *orderedmap.OrderedMap[string, []schema.TaskHistoryEntry]
	users           map[string]string
	autoAssignments *orderedmap.OrderedMap[string, schema.AutoAssignment]
	openTimes       map[string]string
	screenOpens     map[string][]string

	taskIDs []string
	stats   schema.Diagnostics
}

// WarnFunc receives raw timestamps that could not be parsed while indexing.
type WarnFunc func(raw string, err error)

type buildOptions struct {
	warn WarnFunc
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithWarnFunc reports unparsable auto-assignment row timestamps to fn.
func WithWarnFunc(fn WarnFunc) BuildOption {
	return func(o *buildOptions) { o.warn = fn }
}

// Build indexes every collection of snap in a single pass each.
// Rows without a join key are dropped and counted.
func Build(snap *schema.Snapshot, opts ...BuildOption) *Indexes {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}
	idx := &Indexes{
		taskActions:     orderedmap.New[string, []schema.TaskAction](),
		taskHistory:     orderedmap.New[string, []schema.TaskHistoryEntry](),
		users:           make(map[string]string, len(snap.Users)),
		autoAssignments: orderedmap.New[string, schema.AutoAssignment](),
		openTimes:       make(map[string]string, len(snap.OpenTimeEvents)),
		screenOpens:     make(map[string][]string),
	}
	idx.stats.MalformedPayloads = snap.MalformedPayloads

	for _, a := range snap.TaskActions {
		id := strings.TrimSpace(a.TaskID)
		if id == "" {
			idx.stats.DroppedTaskActions++
			continue
		}
		list, _ := idx.taskActions.Get(id)
		idx.taskActions.Set(id, append(list, a))
	}

	for _, h := range snap.TaskHistory {
		id := strings.TrimSpace(h.TaskID)
		if id == "" {
			idx.stats.DroppedHistoryEntries++
			continue
		}
		list, _ := idx.taskHistory.Get(id)
		idx.taskHistory.Set(id, append(list, h))
	}

	for _, u := range snap.Users {
		key := foldKey(u.UserPrincipalName)
		if key == "" {
			idx.stats.DroppedUsers++
			continue
		}
		idx.users[key] = u.DisplayName
	}

	for _, entry := range snap.AutoAssignmentLogs {
		aa, ok := parseAutoAssignment(entry, bo.warn)
		if !ok {
			idx.stats.DroppedAutoAssigns++
			continue
		}
		// Last write wins; Set keeps the original position of an existing key.
		idx.autoAssignments.Set(aa.TaskID, aa)
	}

	for _, e := range snap.OpenTimeEvents {
		id := strings.TrimSpace(e.TaskID)
		if id == "" {
			idx.stats.DroppedOpenTimes++
			continue
		}
		idx.openTimes[id] = e.Timestamp
	}

	for _, e := range snap.ScreenOpenEvents {
		key := foldKey(e.Email)
		if key == "" {
			idx.stats.DroppedScreenOpens++
			continue
		}
		idx.screenOpens[key] = append(idx.screenOpens[key], e.Timestamp)
	}

	idx.taskIDs = idx.unionTaskIDs()
	return idx
}

// unionTaskIDs lists ids from TaskActions, TaskHistory and AutoAssignment in
// order of first appearance across that concatenation.
func (idx *Indexes) unionTaskIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for pair := idx.taskActions.Oldest(); pair != nil; pair = pair.Next() {
		add(pair.Key)
	}
	for pair := idx.taskHistory.Oldest(); pair != nil; pair = pair.Next() {
		add(pair.Key)
	}
	for pair := idx.autoAssignments.Oldest(); pair != nil; pair = pair.Next() {
		add(pair.Key)
	}
	return ids
}

// TaskIDs returns the reportable task ids in insertion order.
func (idx *Indexes) TaskIDs() []string {
	return idx.taskIDs
}

// TaskActions returns the actions recorded for id in source order.
func (idx *Indexes) TaskActions(id string) []schema.TaskAction {
	list, _ := idx.taskActions.Get(id)
	return list
}

// HasTaskActions reports whether any action names id.
func (idx *Indexes) HasTaskActions(id string) bool {
	_, ok := idx.taskActions.Get(id)
	return ok
}

// History returns the history entries for id in source order.
func (idx *Indexes) History(id string) []schema.TaskHistoryEntry {
	list, _ := idx.taskHistory.Get(id)
	return list
}

// AutoAssignment returns the surviving auto-assignment for id.
func (idx *Indexes) AutoAssignment(id string) (schema.AutoAssignment, bool) {
	return idx.autoAssignments.Get(id)
}

// AutoAssignments returns every surviving auto-assignment in index order.
func (idx *Indexes) AutoAssignments() []schema.AutoAssignment {
	out := make([]schema.AutoAssignment, 0, idx.autoAssignments.Len())
	for pair := idx.autoAssignments.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// DisplayName looks up the display name of a principal.
func (idx *Indexes) DisplayName(principal string) (string, bool) {
	name, ok := idx.users[foldKey(principal)]
	return name, ok
}

// OpenTime returns the raw open timestamp recorded for id.
func (idx *Indexes) OpenTime(id string) (string, bool) {
	ts, ok := idx.openTimes[id]
	return ts, ok
}

// ScreenOpens returns the raw screen-open timestamps of a user in source order.
func (idx *Indexes) ScreenOpens(email string) []string {
	return idx.screenOpens[foldKey(email)]
}

// Stats returns the drop counters gathered while building.
func (idx *Indexes) Stats() schema.Diagnostics {
	return idx.stats
}

// foldKey normalizes user principal names and emails for lookup.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
