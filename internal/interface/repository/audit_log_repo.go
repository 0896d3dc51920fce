package repository

import (
	"context"
	"strings"
	"sync"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
)

// KVAuditLogRepository keeps the audit log as one JSON list, newest first
type KVAuditLogRepository struct {
	store repository.Store
	mu    sync.Mutex
}

// NewKVAuditLogRepository creates an audit log over store
func NewKVAuditLogRepository(store repository.Store) *KVAuditLogRepository {
	return &KVAuditLogRepository{store: store}
}

func (r *KVAuditLogRepository) load(ctx context.Context) ([]*entity.AuditLogEntry, error) {
	var entries []*entity.AuditLogEntry
	if _, err := repository.LoadJSON(ctx, r.store, repository.KeyAuditLogs, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Append records an entry
func (r *KVAuditLogRepository) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, err := r.load(ctx)
	if err != nil {
		return err
	}
	entries = append([]*entity.AuditLogEntry{entry}, entries...)
	return repository.SaveJSON(ctx, r.store, repository.KeyAuditLogs, entries)
}

// Find returns matching entries, newest first
func (r *KVAuditLogRepository) Find(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	r.mu.Lock()
	entries, err := r.load(ctx)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]*entity.AuditLogEntry, 0)
	for _, entry := range entries {
		if search != "" &&
			!strings.Contains(strings.ToLower(entry.Username), search) &&
			!strings.Contains(strings.ToLower(entry.EntityPNR), search) {
			continue
		}
		if !filter.From.IsZero() && entry.Timestamp.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && entry.Timestamp.After(filter.To) {
			continue
		}
		result = append(result, entry)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}
