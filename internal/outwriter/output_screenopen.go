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

var screenOpenCSVHeader = []string{
	"taskId",
	"userName",
	"userEmail",
	"assignedTime",
	"firstScreenOpenTime",
	"timeToOpenMinutes",
	"screenOpenCount",
	"assignmentDate",
}

// WriteScreenOpenResults outputs the screen-open analysis in the configured format.
func WriteScreenOpenResults(rows []schema.ScreenOpenRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScreenOpenCSV(w, rows)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteScreenOpenParquet(w, rows)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScreenOpenTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

func writeScreenOpenCSV(w io.Writer, rows []schema.ScreenOpenRow) error {
	return writeCSVWithHeader(w, screenOpenCSVHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			rec := []string{
				r.TaskID,
				r.UserName,
				r.UserEmail,
				r.AssignedTime,
				r.FirstScreenOpenTime,
				contract.FormatMinutes(r.TimeToOpenMinutes),
				strconv.Itoa(r.ScreenOpenCount),
				r.AssignmentDate,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeScreenOpenTable(rows []schema.ScreenOpenRow, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Task", "User", "Assigned", "First Open", "Minutes", "Opens", "Date"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	userWidth := GetMaxScreenOpenUserWidth(cfg)
	opened := 0
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.TimeToOpenMinutes != nil {
			opened++
		}
		user := schema.UserIdentity{Name: r.UserName, Email: r.UserEmail}
		data = append(data, []string{
			r.TaskID,
			contract.TruncateText(user.String(), userWidth),
			r.AssignedTime,
			r.FirstScreenOpenTime,
			contract.FormatMinutes(r.TimeToOpenMinutes),
			strconv.Itoa(r.ScreenOpenCount),
			r.AssignmentDate,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d auto-assignments (%d opened after assignment)\n", len(rows), opened); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Analysis completed in %v. Source backend: %s\n", duration, cfg.SourceBackend); err != nil {
		return err
	}
	return nil
}
