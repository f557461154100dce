package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"  // registers "mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
)

// SQLLoader reads the collections from staging tables filled by Import.
type SQLLoader struct {
	backend schema.SourceBackend
	connStr string
}

var _ contract.SourceLoader = &SQLLoader{} // Compile-time check

// NewSQLLoader creates a loader for a staging database.
func NewSQLLoader(backend schema.SourceBackend, connStr string) *SQLLoader {
	return &SQLLoader{backend: backend, connStr: connStr}
}

// Describe names the backend without leaking credentials.
func (l *SQLLoader) Describe() string {
	return string(l.backend) + " staging tables"
}

// Load reads every staging table in seq order. The connection lives only for
// the duration of the call.
func (l *SQLLoader) Load(ctx context.Context) (*schema.Snapshot, error) {
	db, err := OpenDB(l.backend, l.connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	defer func() { _ = db.Close() }()

	tables := make(map[string]*table, len(stagingTables))
	for _, st := range stagingTables {
		t, err := queryTable(ctx, db, l.backend, st)
		if err != nil {
			return nil, collectionError(st.name, err)
		}
		tables[st.name] = t
	}
	return decodeSnapshot(tables)
}

// OpenDB opens and pings a staging database.
func OpenDB(backend schema.SourceBackend, connStr string) (*sql.DB, error) {
	var driverName string
	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		if connStr == "" {
			connStr = contract.GetSourceDBFilePath()
		}
	case schema.MySQLBackend:
		driverName = "mysql"
	case schema.PostgreSQLBackend:
		driverName = "pgx"
	default:
		return nil, fmt.Errorf("unsupported source backend: %s", backend)
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	return db, nil
}

func queryTable(ctx context.Context, db *sql.DB, backend schema.SourceBackend, st stagingTable) (*table, error) {
	names := make([]string, 0, len(st.columns))
	for _, c := range st.columns {
		names = append(names, c.name)
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY seq",
		strings.Join(names, ", "), quoteTableName(st.name, backend))

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	t := newTable(names)
	for rows.Next() {
		cells := make([]sql.NullString, len(names))
		dest := make([]any, len(names))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]string, len(names))
		for i, c := range cells {
			row[i] = c.String
		}
		t.rows = append(t.rows, row)
	}
	return t, rows.Err()
}

// Import replaces the staging tables with the contents of the collection
// files in one transaction and returns the rows written per table.
func Import(ctx context.Context, backend schema.SourceBackend, connStr, dir string, files contract.SourceFiles) (map[string]int, error) {
	tables, err := NewFileLoader(dir, files).readTables(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := decodeSnapshot(tables); err != nil {
		return nil, err
	}

	db, err := OpenDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	counts := make(map[string]int, len(stagingTables))
	for _, st := range stagingTables {
		n, err := importTable(ctx, tx, backend, st, tables[st.name])
		if err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", st.name, err)
		}
		counts[st.name] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}
	return counts, nil
}

func importTable(ctx context.Context, tx *sql.Tx, backend schema.SourceBackend, st stagingTable, t *table) (int, error) {
	quoted := quoteTableName(st.name, backend)
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoted); err != nil {
		return 0, err
	}

	names := []string{"seq"}
	for _, c := range st.columns {
		names = append(names, c.name)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoted, strings.Join(names, ", "), placeholders(backend, len(names)))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer func() { _ = stmt.Close() }()

	for seq, row := range t.rows {
		args := make([]any, 0, len(names))
		args = append(args, int64(seq+1))
		for _, c := range st.columns {
			args = append(args, t.get(row, c.aliases))
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("row %d: %w", seq+1, err)
		}
	}
	return len(t.rows), nil
}

// Status reports the schema version and row counts of a staging database.
// A failed connection is reported as disconnected, not as an error.
func Status(ctx context.Context, backend schema.SourceBackend, connStr string) (schema.SourceStatus, error) {
	status := schema.SourceStatus{
		Backend:        string(backend),
		TableRowCounts: make(map[string]int),
	}

	db, err := OpenDB(backend, connStr)
	if err != nil {
		contract.Logger.WithError(err).Debug("staging database unavailable")
		return status, nil
	}
	defer func() { _ = db.Close() }()
	status.Connected = true

	version, dirty, err := schemaVersion(db, backend)
	if err != nil {
		return status, err
	}
	status.SchemaVersion, status.Dirty = version, dirty
	if version == 0 {
		return status, nil
	}

	for _, st := range stagingTables {
		if st.migration > version {
			continue
		}
		var count int
		query := "SELECT COUNT(*) FROM " + quoteTableName(st.name, backend)
		if err := db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to count rows in %s: %w", st.name, err)
		}
		status.TableRowCounts[st.name] = count
	}
	return status, nil
}

// placeholders renders n bind parameters in the backend's dialect.
func placeholders(backend schema.SourceBackend, n int) string {
	marks := make([]string, n)
	for i := range marks {
		if backend == schema.PostgreSQLBackend {
			marks[i] = fmt.Sprintf("$%d", i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

func quoteTableName(name string, backend schema.SourceBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}
