package source

import (
	"context"

	"github.com/huangsam/taskrecon/internal/contract"
	"github.com/huangsam/taskrecon/schema"
	"github.com/stretchr/testify/mock"
)

// MockSourceLoader is a mock implementation of SourceLoader for testing.
type MockSourceLoader struct {
	mock.Mock
}

var _ contract.SourceLoader = &MockSourceLoader{} // Compile-time check

// Load implements the SourceLoader interface.
func (m *MockSourceLoader) Load(ctx context.Context) (*schema.Snapshot, error) {
	ret := m.Called(ctx)
	snap, _ := ret.Get(0).(*schema.Snapshot)
	return snap, ret.Error(1)
}

// Describe implements the SourceLoader interface.
func (m *MockSourceLoader) Describe() string {
	ret := m.Called()
	return ret.String(0)
}
