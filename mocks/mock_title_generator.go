package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scannamer/internal/port"
)

// MockTitleGenerator is a mock implementation of port.TitleGenerator.
type MockTitleGenerator struct {
	mock.Mock
}

func (m *MockTitleGenerator) GenerateTitle(ctx context.Context, req port.TitleRequest) (*port.TitleResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TitleResult), args.Error(1)
}
