package schema

// SourceStatus represents the state of a SQL staging source.
type SourceStatus struct {
	Backend        string         `json:"backend"`
	Connected      bool           `json:"connected"`
	SchemaVersion  uint           `json:"schema_version"`
	Dirty          bool           `json:"dirty"`
	TableRowCounts map[string]int `json:"table_row_counts"`
}
