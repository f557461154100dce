package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/huangsam/taskrecon/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // 0 means every row
	MaxResultLimit     = 1_000_000
	DefaultLogLevel    = "info"
)

// Default source file names per file backend.
var defaultFileNames = map[schema.SourceBackend]SourceFiles{
	schema.CSVBackend: {
		TaskActions:    "task_actions.csv",
		TaskHistory:    "task_history.csv",
		Users:          "users.csv",
		AutoAssignment: "auto_assignment_log.csv",
		OpenTime:       "open_time_telemetry.csv",
		ScreenOpen:     "screen_open_telemetry.csv",
	},
	schema.JSONBackend: {
		TaskActions:    "task_actions.json",
		TaskHistory:    "task_history.json",
		Users:          "users.json",
		AutoAssignment: "auto_assignment_log.json",
		OpenTime:       "open_time_telemetry.json",
		ScreenOpen:     "screen_open_telemetry.json",
	},
}

// DateTimeFormat is the default date time representation for headers.
const DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// SourceFiles names the six source collections of a file backend.
type SourceFiles struct {
	TaskActions    string
	TaskHistory    string
	Users          string
	AutoAssignment string
	OpenTime       string
	ScreenOpen     string
}

// Config holds the runtime configuration for a reconciliation run.
// This struct remains the "final, validated" config.
type Config struct {
	SourceDir       string
	SourceBackend   schema.SourceBackend
	SourceDBConnect string // Please use env var as this is plaintext
	Files           SourceFiles

	StatusField schema.StatusField
	ModeFilter  schema.ModeFilter
	ResultLimit int // 0 = every row

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	LogLevel string
	LogFile  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SourceDirStr string

	SourceBackend   string `mapstructure:"source-backend"`
	SourceDBConnect string `mapstructure:"source-db-connect"`

	TaskActionsFile    string `mapstructure:"task-actions-file"`
	TaskHistoryFile    string `mapstructure:"task-history-file"`
	UsersFile          string `mapstructure:"users-file"`
	AutoAssignmentFile string `mapstructure:"auto-assignment-file"`
	OpenTimeFile       string `mapstructure:"open-time-file"`
	ScreenOpenFile     string `mapstructure:"screen-open-file"`

	StatusField string `mapstructure:"status-field"`
	Mode        string `mapstructure:"mode"`
	Limit       int    `mapstructure:"limit"`

	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`
}

// Clone returns a copy that request handlers may modify freely.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate validates input and populates cfg.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateSourceConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.SourceBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("source-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-source fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogFile = input.LogFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	cfg.ModeFilter = schema.ModeFilter(strings.ToLower(input.Mode))
	if cfg.ModeFilter == "" {
		cfg.ModeFilter = schema.AllFilter
	}
	if _, ok := schema.ValidModeFilters[cfg.ModeFilter]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be all, auto, manual, unknown", input.Mode)
	}

	cfg.StatusField = schema.StatusField(strings.ToLower(input.StatusField))
	if cfg.StatusField == "" {
		cfg.StatusField = schema.MCStatusField
	}
	if _, ok := schema.ValidStatusFields[cfg.StatusField]; !ok {
		return fmt.Errorf("invalid status field '%s'. must be mc, work", input.StatusField)
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}

// validateSourceConfig resolves the source backend, directory and file names.
func validateSourceConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceBackend = schema.SourceBackend(strings.ToLower(input.SourceBackend))
	if cfg.SourceBackend == "" {
		cfg.SourceBackend = schema.CSVBackend
	}
	if _, ok := schema.ValidSourceBackends[cfg.SourceBackend]; !ok {
		return fmt.Errorf("invalid source backend '%s'. must be csv, json, sqlite, mysql, postgresql", input.SourceBackend)
	}

	if cfg.SourceBackend.IsDatabase() {
		return validateSourceDB(cfg, input)
	}

	absDir, err := ResolveSourceDir(input.SourceDirStr)
	if err != nil {
		return err
	}
	cfg.SourceDir = absDir
	cfg.Files = ResolveSourceFiles(cfg.SourceBackend, input)
	return nil
}

func validateSourceDB(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceDBConnect = input.SourceDBConnect
	if cfg.SourceBackend == schema.SQLiteBackend && cfg.SourceDBConnect == "" {
		cfg.SourceDBConnect = GetSourceDBFilePath()
	}
	return ValidateDatabaseConnectionString(cfg.SourceBackend, cfg.SourceDBConnect)
}

// ProcessSourceDBConfig validates only what the staging database commands
// need: a database backend, its connection string and the log settings.
func ProcessSourceDBConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceBackend = schema.SourceBackend(strings.ToLower(input.SourceBackend))
	if !cfg.SourceBackend.IsDatabase() {
		return fmt.Errorf("source-backend must be sqlite, mysql or postgresql for staging commands (received '%s')", input.SourceBackend)
	}

	cfg.LogFile = input.LogFile
	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	return validateSourceDB(cfg, input)
}

// ResolveSourceDir returns the absolute path of dir, or of the working
// directory when dir is empty. The path must be an existing directory.
func ResolveSourceDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source directory %q: %w", dir, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return "", fmt.Errorf("source directory %q is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source path %q is not a directory", dir)
	}
	return absDir, nil
}

// ResolveSourceFiles overlays the configured file names on the defaults of a
// file backend.
func ResolveSourceFiles(backend schema.SourceBackend, input *ConfigRawInput) SourceFiles {
	files := defaultFileNames[backend]
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&files.TaskActions, input.TaskActionsFile)
	override(&files.TaskHistory, input.TaskHistoryFile)
	override(&files.Users, input.UsersFile)
	override(&files.AutoAssignment, input.AutoAssignmentFile)
	override(&files.OpenTime, input.OpenTimeFile)
	override(&files.ScreenOpen, input.ScreenOpenFile)
	return files
}

// ConfigDecodeHook is the decode hook viper uses when unmarshalling into
// ConfigRawInput. It keeps viper's default hooks and trims string values.
func ConfigDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		trimStringHook,
	)
}

func trimStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.String {
		return data, nil
	}
	return strings.TrimSpace(reflect.ValueOf(data).String()), nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
