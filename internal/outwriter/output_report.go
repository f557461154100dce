package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/internal/parquet"
	"github.com/huangsam/taskrecon/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// reportCSVHeader follows the JSON field names of schema.ReportRecord.
var reportCSVHeader = []string{
	"task",
	"userName",
	"userEmail",
	"productiveTime",
	"waitingTime",
	"mode",
	"createdTime",
	"assignedTime",
	"makerCompleteTime",
	"openTime",
}

// WriteReportResults outputs the report, dispatching based on the output format configured.
func WriteReportResults(records []schema.ReportRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, records)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteReportParquet(w, records)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(records, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

func writeReportCSV(w io.Writer, records []schema.ReportRecord) error {
	return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.Task,
				r.UserName,
				r.UserEmail,
				contract.FormatMinutes(r.ProductiveTime),
				contract.FormatMinutes(r.WaitingTime),
				string(r.Mode),
				r.CreatedTime,
				r.AssignedTime,
				r.MakerCompleteTime,
				r.OpenTime,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(records []schema.ReportRecord, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Task", "User", "Mode", "Created", "Assigned", "Maker Done", "Opened", "Waiting", "Productive"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	userWidth := GetMaxTableUserWidth(cfg)
	counts := make(map[schema.AssignmentMode]int)
	data := make([][]string, 0, len(records))
	for i, r := range records {
		counts[r.Mode]++
		user := schema.UserIdentity{Name: r.UserName, Email: r.UserEmail}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Task,
			contract.TruncateText(user.String(), userWidth),
			contract.GetColorLabel(r.Mode),
			r.CreatedTime,
			r.AssignedTime,
			r.MakerCompleteTime,
			r.OpenTime,
			contract.FormatMinutes(r.WaitingTime),
			contract.FormatMinutes(r.ProductiveTime),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d tasks (auto: %d, manual: %d, unknown: %d)\n",
		len(records), counts[schema.AutoMode], counts[schema.ManualMode], counts[schema.UnknownMode]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Report completed in %v. Source backend: %s\n", duration, cfg.SourceBackend); err != nil {
		return err
	}
	return nil
}
