package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scannamer/internal/domain"
)

// MockAuditLog is a mock implementation of port.AuditLog.
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Record(ctx context.Context, outcome *domain.RenameOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockAuditLog) Close() error {
	args := m.Called()
	return args.Error(0)
}
