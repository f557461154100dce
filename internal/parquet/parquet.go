// Package parquet provides data structures and functions for exporting task
// reports to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/taskrecon/core/instant"
	"github.com/huangsam/taskrecon/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRow is one reconciled task as a Parquet row.
type ReportRow struct {
	// Task is the task identifier
	Task string `parquet:"task,snappy"`

	// UserName is the resolved display name, or the email when unmatched
	UserName string `parquet:"user_name,snappy"`

	// UserEmail is the assignee email
	UserEmail string `parquet:"user_email,snappy"`

	// Mode is Auto, Manual or Unknown
	Mode string `parquet:"mode,snappy,dict"`

	// ProductiveTimeMinutes spans assignment to maker completion (nullable)
	ProductiveTimeMinutes *int32 `parquet:"productive_time_minutes,optional,snappy"`

	// WaitingTimeMinutes spans creation to assignment (nullable)
	WaitingTimeMinutes *int32 `parquet:"waiting_time_minutes,optional,snappy"`

	CreatedTime       *time.Time `parquet:"created_time,optional,snappy"`
	AssignedTime      *time.Time `parquet:"assigned_time,optional,snappy"`
	MakerCompleteTime *time.Time `parquet:"maker_complete_time,optional,snappy"`
	OpenTime          *time.Time `parquet:"open_time,optional,snappy"`
}

// ScreenOpenRow is one auto-assignment with its first screen open.
type ScreenOpenRow struct {
	TaskID              string     `parquet:"task_id,snappy"`
	UserName            string     `parquet:"user_name,snappy"`
	UserEmail           string     `parquet:"user_email,snappy"`
	AssignedTime        *time.Time `parquet:"assigned_time,optional,snappy"`
	FirstScreenOpenTime *time.Time `parquet:"first_screen_open_time,optional,snappy"`
	TimeToOpenMinutes   *int32     `parquet:"time_to_open_minutes,optional,snappy"`
	ScreenOpenCount     int32      `parquet:"screen_open_count,snappy"`
	AssignmentDate      string     `parquet:"assignment_date,snappy"`
}

// FromReportRecords converts report records, re-reading the canonical
// timestamp text into instants.
func FromReportRecords(records []schema.ReportRecord) []ReportRow {
	rows := make([]ReportRow, len(records))
	for i, r := range records {
		rows[i] = ReportRow{
			Task:                  r.Task,
			UserName:              r.UserName,
			UserEmail:             r.UserEmail,
			Mode:                  string(r.Mode),
			ProductiveTimeMinutes: toInt32(r.ProductiveTime),
			WaitingTimeMinutes:    toInt32(r.WaitingTime),
			CreatedTime:           instant.ParsePtr(r.CreatedTime),
			AssignedTime:          instant.ParsePtr(r.AssignedTime),
			MakerCompleteTime:     instant.ParsePtr(r.MakerCompleteTime),
			OpenTime:              instant.ParsePtr(r.OpenTime),
		}
	}
	return rows
}

// FromScreenOpenRows converts screen-open rows.
func FromScreenOpenRows(in []schema.ScreenOpenRow) []ScreenOpenRow {
	rows := make([]ScreenOpenRow, len(in))
	for i, r := range in {
		rows[i] = ScreenOpenRow{
			TaskID:              r.TaskID,
			UserName:            r.UserName,
			UserEmail:           r.UserEmail,
			AssignedTime:        instant.ParsePtr(r.AssignedTime),
			FirstScreenOpenTime: instant.ParsePtr(r.FirstScreenOpenTime),
			TimeToOpenMinutes:   toInt32(r.TimeToOpenMinutes),
			ScreenOpenCount:     int32(r.ScreenOpenCount),
			AssignmentDate:      r.AssignmentDate,
		}
	}
	return rows
}

// WriteReportParquet writes report records to w.
func WriteReportParquet(w io.Writer, records []schema.ReportRecord) error {
	return writeRows(w, FromReportRecords(records))
}

// WriteScreenOpenParquet writes screen-open rows to w.
func WriteScreenOpenParquet(w io.Writer, rows []schema.ScreenOpenRow) error {
	return writeRows(w, FromScreenOpenRows(rows))
}

// writeRows infers the schema from the T struct tags.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

func toInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
