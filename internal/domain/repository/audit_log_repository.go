package repository

import (
	"context"

	"tago-service/internal/domain/entity"
)

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	Find(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLogEntry, error)
}
