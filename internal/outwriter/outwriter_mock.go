package outwriter

import (
	"time"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/mock"
)

// MockReportWriter is a mock implementation of ReportWriter for testing.
type MockReportWriter struct {
	mock.Mock
}

var _ contract.ReportWriter = &MockReportWriter{} // Compile-time check

// WriteReport implements the ReportWriter interface.
func (m *MockReportWriter) WriteReport(records []schema.ReportRecord, cfg *contract.Config, duration time.Duration) error {
	args := m.Called(records, cfg, duration)
	return args.Error(0)
}

// WriteScreenOpen implements the ReportWriter interface.
func (m *MockReportWriter) WriteScreenOpen(rows []schema.ScreenOpenRow, cfg *contract.Config, duration time.Duration) error {
	args := m.Called(rows, cfg, duration)
	return args.Error(0)
}

// WriteExplanation implements the ReportWriter interface.
func (m *MockReportWriter) WriteExplanation(exp schema.TaskExplanation, cfg *contract.Config) error {
	args := m.Called(exp, cfg)
	return args.Error(0)
}
