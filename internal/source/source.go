// Package source reads the six task-event collections from files or a SQL
// staging database and hands them over as typed records.
package source

import (
	"errors"

	"github.com/huangsam/taskrecon/internal/contract"
)

// ErrUnreadableSource marks a collection that could not be read as a whole.
// It aborts the run.
var ErrUnreadableSource = errors.New("unreadable source collection")

// NewLoader picks the loader matching the configured backend.
func NewLoader(cfg *contract.Config) contract.SourceLoader {
	if cfg.SourceBackend.IsDatabase() {
		return NewSQLLoader(cfg.SourceBackend, cfg.SourceDBConnect)
	}
	return NewFileLoader(cfg.SourceDir, cfg.Files)
}
