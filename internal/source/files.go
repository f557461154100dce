package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
)

// FileLoader reads one CSV or JSON file per collection from a directory.
type FileLoader struct {
	dir   string
	files contract.SourceFiles
}

var _ contract.SourceLoader = &FileLoader{} // Compile-time check

// NewFileLoader creates a loader rooted at dir.
func NewFileLoader(dir string, files contract.SourceFiles) *FileLoader {
	return &FileLoader{dir: dir, files: files}
}

// Describe names the source directory.
func (l *FileLoader) Describe() string {
	return "files in " + l.dir
}

// Load reads all six collections. Any file that cannot be read or lacks its
// key columns fails the whole load.
func (l *FileLoader) Load(ctx context.Context) (*schema.Snapshot, error) {
	tables, err := l.readTables(ctx)
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(tables)
}

// readTables reads every collection file into a raw table.
func (l *FileLoader) readTables(ctx context.Context) (map[string]*table, error) {
	tables := make(map[string]*table, len(stagingTables))
	for _, st := range stagingTables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := st.file(l.files)
		if !filepath.IsAbs(path) {
			path = filepath.Join(l.dir, path)
		}
		t, err := readTable(path)
		if err != nil {
			return nil, collectionError(st.name, fmt.Errorf("%s: %w", path, err))
		}
		contract.Logger.WithField("collection", st.name).Debugf("read %d rows from %s", len(t.rows), path)
		tables[st.name] = t
	}
	return tables, nil
}
