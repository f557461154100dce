package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/taskrecon/schema"
)

// Color variables for console output.
var (
	AutoColor    = color.New(color.FgCyan, color.Bold) // AutoColor marks machine assignment.
	ManualColor  = color.New(color.FgYellow)           // ManualColor marks human assignment.
	UnknownColor = color.New(color.FgRed)              // UnknownColor marks missing assignment evidence.
)

// GetColorLabel returns a colored mode label for console output (table).
func GetColorLabel(mode schema.AssignmentMode) string {
	text := string(mode)

	switch mode {
	case schema.AutoMode:
		return AutoColor.Sprint(text)
	case schema.ManualMode:
		return ManualColor.Sprint(text)
	default:
		return UnknownColor.Sprint(text)
	}
}

// FormatMinutes renders nullable minutes as text, empty for nil.
func FormatMinutes(m *int) string {
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%d", *m)
}

// TruncateText truncates s to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and at least one rune.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// GetSourceDBFilePath returns the default path of the SQLite staging source.
func GetSourceDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".taskrecon_source.db"
	}
	return filepath.Join(homeDir, ".taskrecon_source.db")
}
