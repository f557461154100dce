// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

var _ contract.ReportWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints reconciled task rows using the configured output format.
func (ow *OutWriter) WriteReport(records []schema.ReportRecord, cfg *contract.Config, duration time.Duration) error {
	return WriteReportResults(records, cfg, duration)
}

// WriteScreenOpen prints screen-open rows using the configured output format.
func (ow *OutWriter) WriteScreenOpen(rows []schema.ScreenOpenRow, cfg *contract.Config, duration time.Duration) error {
	return WriteScreenOpenResults(rows, cfg, duration)
}

// WriteExplanation prints a single task's explanation using the configured output format.
func (ow *OutWriter) WriteExplanation(exp schema.TaskExplanation, cfg *contract.Config) error {
	return WriteExplanationResult(exp, cfg)
}

// terminalWidth is the width override, else the detected terminal width,
// else 80.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// GetMaxTableUserWidth calculates how wide the user column of the report
// table may grow.
func GetMaxTableUserWidth(cfg *contract.Config) int {
	// Task + Mode + four timestamps + two minute columns, with borders
	baseWidth := 16 + 10 + 4*27 + 2*12 + 10
	return clampWidth(terminalWidth(cfg)-baseWidth, 15, 40)
}

// GetMaxScreenOpenUserWidth is GetMaxTableUserWidth for the screen-open table.
func GetMaxScreenOpenUserWidth(cfg *contract.Config) int {
	baseWidth := 16 + 2*27 + 12 + 10 + 13 + 10
	return clampWidth(terminalWidth(cfg)-baseWidth, 15, 40)
}

func clampWidth(available, lo, hi int) int {
	return max(lo, min(hi, available))
}
