// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/taskrecon/schema"
)

// SourceLoader reads one complete snapshot of the source collections.
// This allows the reconciliation logic to be tested without files or databases.
type SourceLoader interface {
	// Load returns every collection fully read, or an error if any collection
	// is unreadable as a whole.
	Load(ctx context.Context) (*schema.Snapshot, error)

	// Describe names the source for headers and logs.
	Describe() string
}

// ReportWriter emits finished rows in the configured output format.
type ReportWriter interface {
	// WriteReport writes the reconciled task rows.
	WriteReport(records []schema.ReportRecord, cfg *Config, duration time.Duration) error

	// WriteScreenOpen writes the auto-assignment screen-open rows.
	WriteScreenOpen(rows []schema.ScreenOpenRow, cfg *Config, duration time.Duration) error

	// WriteExplanation writes a single task's explanation.
	WriteExplanation(exp schema.TaskExplanation, cfg *Config) error
}
