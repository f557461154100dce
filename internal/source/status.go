package source

import (
	"fmt"
	"io"

	"github.com/huangsam/taskrecon/schema"
)

// PrintSourceStatus prints staging database status information.
func PrintSourceStatus(w io.Writer, status schema.SourceStatus) {
	fmt.Fprintf(w, "Source Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	if status.Dirty {
		fmt.Fprintln(w, "Schema is dirty. Run 'taskrecon source migrate --target-version N' to recover.")
	}
	if status.SchemaVersion == 0 {
		fmt.Fprintln(w, "No staging tables yet. Run 'taskrecon source migrate' first.")
		return
	}
	fmt.Fprintln(w, "Table Sizes:")
	for _, st := range stagingTables {
		if count, ok := status.TableRowCounts[st.name]; ok {
			fmt.Fprintf(w, "  %s: %d rows\n", st.name, count)
		}
	}
}

// PrintImportSummary prints the row counts written by Import in collection order.
func PrintImportSummary(w io.Writer, counts map[string]int) {
	total := 0
	for _, st := range stagingTables {
		count := counts[st.name]
		total += count
		fmt.Fprintf(w, "  %s: %d rows\n", st.name, count)
	}
	fmt.Fprintf(w, "Imported %d rows into %d staging tables.\n", total, len(stagingTables))
}
