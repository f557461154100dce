// Package core reconciles task events into per-task lifecycle reports.
package core

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/taskrecon/core/index"
	"github.com/huangsam/taskrecon/core/phase"
	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
)

// Engine holds the read-only indexes of one loaded snapshot and answers
// report queries against them. It is safe for concurrent use.
type Engine struct {
	idx      *index.Indexes
	resolver *phase.Resolver

	mu         sync.Mutex
	unparsable map[string]struct{}
}

// NewEngine indexes snap once. Unparsable timestamps are counted per
// distinct raw value, so repeated resolution does not inflate the count.
func NewEngine(snap *schema.Snapshot, field schema.StatusField) *Engine {
	e := &Engine{unparsable: make(map[string]struct{})}
	e.idx = index.Build(snap, index.WithWarnFunc(e.recordUnparsable))
	e.resolver = phase.NewResolver(e.idx, phase.WithStatusField(field), phase.WithWarnFunc(e.recordUnparsable))
	return e
}

// LoadEngine reads a full snapshot through loader and indexes it.
func LoadEngine(ctx context.Context, loader contract.SourceLoader, field schema.StatusField) (*Engine, error) {
	snap, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", loader.Describe(), err)
	}
	return NewEngine(snap, field), nil
}

func (e *Engine) recordUnparsable(raw string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, seen := e.unparsable[raw]; seen {
		return
	}
	e.unparsable[raw] = struct{}{}
	contract.Logger.WithError(err).Debug("unparsable timestamp")
}

// Report returns the filtered report rows.
func (e *Engine) Report(filter schema.ModeFilter, limit int) []schema.ReportRecord {
	return FilterRecords(BuildReport(e.idx, e.resolver), filter, limit)
}

// ScreenOpen returns the screen-open rows, optionally for one user.
func (e *Engine) ScreenOpen(email string) []schema.ScreenOpenRow {
	return FilterScreenOpenRows(BuildScreenOpenAnalysis(e.idx, e.resolver), email)
}

// Explain returns the evidence behind one task's row.
func (e *Engine) Explain(id string) (schema.TaskExplanation, error) {
	return ExplainTask(e.idx, e.resolver, id)
}

// TaskCount is the number of reportable task ids.
func (e *Engine) TaskCount() int {
	return len(e.idx.TaskIDs())
}

// Diagnostics merges the index drop counters with the unparsable timestamps
// seen so far.
func (e *Engine) Diagnostics() schema.Diagnostics {
	d := e.idx.Stats()
	e.mu.Lock()
	d.UnparsableDates = len(e.unparsable)
	e.mu.Unlock()
	return d
}

// ExecuteTaskReport loads the source, builds the report and writes it.
// It serves as the main entry point for the 'report' command.
func ExecuteTaskReport(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, writer contract.ReportWriter) error {
	start := time.Now()
	ctx = ensureRunID(ctx)
	engine, err := startRun(ctx, cfg, loader)
	if err != nil {
		return err
	}
	records := engine.Report(cfg.ModeFilter, cfg.ResultLimit)
	logDiagnostics(ctx, engine.Diagnostics())
	contract.RunLogger(ctx).Infof("reported %d of %d tasks", len(records), engine.TaskCount())
	return writer.WriteReport(records, cfg, time.Since(start))
}

// ExecuteScreenOpenReport builds the auto-assignment screen-open analysis.
func ExecuteScreenOpenReport(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, writer contract.ReportWriter) error {
	start := time.Now()
	ctx = ensureRunID(ctx)
	engine, err := startRun(ctx, cfg, loader)
	if err != nil {
		return err
	}
	rows := engine.ScreenOpen("")
	if cfg.ResultLimit > 0 && len(rows) > cfg.ResultLimit {
		rows = rows[:cfg.ResultLimit]
	}
	logDiagnostics(ctx, engine.Diagnostics())
	return writer.WriteScreenOpen(rows, cfg, time.Since(start))
}

// ExecuteTaskExplain explains a single task id.
func ExecuteTaskExplain(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader, writer contract.ReportWriter, taskID string) error {
	ctx = ensureRunID(ctx)
	engine, err := startRun(ctx, cfg, loader)
	if err != nil {
		return err
	}
	exp, err := engine.Explain(taskID)
	if err != nil {
		return err
	}
	logDiagnostics(ctx, engine.Diagnostics())
	return writer.WriteExplanation(exp, cfg)
}

func startRun(ctx context.Context, cfg *contract.Config, loader contract.SourceLoader) (*Engine, error) {
	if !shouldSuppressHeader(ctx) {
		logRunHeader(cfg, loader)
	}
	contract.RunLogger(ctx).WithField("source", loader.Describe()).Debug("loading snapshot")
	return LoadEngine(ctx, loader, cfg.StatusField)
}

// logRunHeader prints a concise 2-line header to stderr.
func logRunHeader(cfg *contract.Config, loader contract.SourceLoader) {
	fmt.Fprintf(os.Stderr, "🔎 Source: %s (Mode: %s)\n", loader.Describe(), cfg.ModeFilter)
	fmt.Fprintf(os.Stderr, "📋 Status column: %s\n", cfg.StatusField)
}

func logDiagnostics(ctx context.Context, d schema.Diagnostics) {
	if d.Total() == 0 {
		return
	}
	contract.RunLogger(ctx).WithFields(map[string]any{
		"dropped_task_actions":    d.DroppedTaskActions,
		"dropped_history_entries": d.DroppedHistoryEntries,
		"dropped_users":           d.DroppedUsers,
		"dropped_auto_assigns":    d.DroppedAutoAssigns,
		"dropped_open_times":      d.DroppedOpenTimes,
		"dropped_screen_opens":    d.DroppedScreenOpens,
		"malformed_payloads":      d.MalformedPayloads,
		"unparsable_dates":        d.UnparsableDates,
	}).Warn("source data had problems")
}

// ensureRunID tags ctx with a fresh run id unless it already carries one.
func ensureRunID(ctx context.Context) context.Context {
	if _, ok := contract.RunLogger(ctx).Data["run_id"]; ok {
		return ctx
	}
	return contract.WithRunID(ctx, uuid.NewString())
}
