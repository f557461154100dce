package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteExplanationResult outputs one task explanation in the configured format.
// Parquet is not offered for a single row.
func WriteExplanationResult(exp schema.TaskExplanation, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, exp)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"field", "value"}, func(cw *csv.Writer) error {
				return cw.WriteAll(explanationPairs(exp, false))
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for task explanations")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeExplanationTable(exp, w)
		}, "Wrote table")
	}
}

// explanationPairs flattens exp into field/value rows.
func explanationPairs(exp schema.TaskExplanation, colored bool) [][]string {
	r := exp.Record
	mode := string(r.Mode)
	if colored {
		mode = contract.GetColorLabel(r.Mode)
	}
	return [][]string{
		{"task", r.Task},
		{"user", schema.UserIdentity{Name: r.UserName, Email: r.UserEmail}.String()},
		{"mode", mode},
		{"statusColumn", string(exp.MatchedStatusColumn)},
		{"createdTime", r.CreatedTime},
		{"assignedTime", r.AssignedTime},
		{"makerCompleteTime", r.MakerCompleteTime},
		{"openTime", r.OpenTime},
		{"waitingTime", contract.FormatMinutes(r.WaitingTime)},
		{"productiveTime", contract.FormatMinutes(r.ProductiveTime)},
		{"taskActions", strconv.Itoa(exp.TaskActionCount)},
		{"historyEntries", strconv.Itoa(exp.HistoryEntryCount)},
		{"autoAssigned", strconv.FormatBool(exp.HasAutoAssignment)},
		{"reportedProductiveTime", strings.Join(exp.ReportedProductive, "|")},
		{"reportedTaskOpenTime", strings.Join(exp.ReportedTaskOpen, "|")},
	}
}

func writeExplanationTable(exp schema.TaskExplanation, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	if err := table.Bulk(explanationPairs(exp, true)); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(writer, "Reported values are shown for comparison and never used for derivation.")
	return err
}
