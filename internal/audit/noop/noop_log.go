package noop

import (
	"context"

	"scannamer/internal/domain"
	"scannamer/internal/port"
)

type noopLog struct{}

// NewNoopLog creates an AuditLog that discards every record.
func NewNoopLog() port.AuditLog {
	return &noopLog{}
}

func (l *noopLog) Record(_ context.Context, _ *domain.RenameOutcome) error {
	return nil
}

func (l *noopLog) Close() error {
	return nil
}
