package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// AssignmentMode represents how a task was assigned to a user.
	AssignmentMode string

	// ModeFilter restricts report rows to one assignment mode.
	ModeFilter string

	// StatusField selects which history status column phase rules match on.
	StatusField string

	// SourceBackend represents where the source collections are loaded from.
	SourceBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All assignment modes.
const (
	AutoMode    AssignmentMode = "Auto"
	ManualMode  AssignmentMode = "Manual"
	UnknownMode AssignmentMode = "Unknown"
)

// All mode filters supported.
const (
	AllFilter     ModeFilter = "all" // default
	AutoFilter    ModeFilter = "auto"
	ManualFilter  ModeFilter = "manual"
	UnknownFilter ModeFilter = "unknown"
)

// All status fields supported.
const (
	MCStatusField   StatusField = "mc" // default
	WorkStatusField StatusField = "work"
)

// All source backends supported.
const (
	CSVBackend        SourceBackend = "csv" // default
	JSONBackend       SourceBackend = "json"
	SQLiteBackend     SourceBackend = "sqlite"
	MySQLBackend      SourceBackend = "mysql"
	PostgreSQLBackend SourceBackend = "postgresql"
)

// History status codes.
const (
	StatusPendingMakerAssign   = "PMA"
	StatusPendingMakerExecute  = "PME"
	StatusPendingCheckerAssign = "PCA"
)

// History action codes.
const (
	ActionInitiate        = "IN"
	ActionAssign          = "AS"
	ActionSubmitToChecker = "SC"
)

// UnknownUser is the identity used when no event names a user.
const UnknownUser = "Unknown"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidModeFilters lists all valid mode filters.
var ValidModeFilters = map[ModeFilter]struct{}{
	AllFilter:     {},
	AutoFilter:    {},
	ManualFilter:  {},
	UnknownFilter: {},
}

// ValidStatusFields lists all valid status fields.
var ValidStatusFields = map[StatusField]struct{}{
	MCStatusField:   {},
	WorkStatusField: {},
}

// ValidSourceBackends lists all valid source backends.
var ValidSourceBackends = map[SourceBackend]struct{}{
	CSVBackend:        {},
	JSONBackend:       {},
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// IsDatabase reports whether the backend is a SQL staging source.
func (b SourceBackend) IsDatabase() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend:
		return true
	default:
		return false
	}
}

// Matches reports whether a row with the given mode passes the filter.
func (f ModeFilter) Matches(mode AssignmentMode) bool {
	switch f {
	case AutoFilter:
		return mode == AutoMode
	case ManualFilter:
		return mode == ManualMode
	case UnknownFilter:
		return mode == UnknownMode
	default:
		return true
	}
}
