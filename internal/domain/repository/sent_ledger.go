package repository

import (
	"context"
	"time"
)

// SentLedger remembers which reminder instances were dispatched on a day
type SentLedger interface {
	WasSent(ctx context.Context, day, instanceID string) (bool, error)
	MarkSent(ctx context.Context, day, instanceID string) error
	// PurgeOlderThan drops days more than days before now
	PurgeOlderThan(ctx context.Context, now time.Time, days int) error
}
