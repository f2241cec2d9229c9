package port

import (
	"context"

	"scannamer/internal/domain"
)

// AuditLog persists one record per rename outcome. Records are append-only.
type AuditLog interface {
	Record(ctx context.Context, outcome *domain.RenameOutcome) error
	Close() error
}
