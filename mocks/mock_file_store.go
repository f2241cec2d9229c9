package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scannamer/internal/port"
)

// MockFileStore is a mock implementation of port.FileStore.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) List(ctx context.Context, prefix, pageToken string) (*port.DocumentPage, error) {
	args := m.Called(ctx, prefix, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DocumentPage), args.Error(1)
}

func (m *MockFileStore) Download(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileStore) Rename(ctx context.Context, id, newName string) error {
	args := m.Called(ctx, id, newName)
	return args.Error(0)
}
