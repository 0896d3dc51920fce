package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"tago-service/internal/domain/repository"
	"tago-service/pkg/utils"
)

// KVSentLedger remembers dispatched reminder instances per day. Each day is
// held in memory and mirrored to the store under sent_reminders_<day> so a
// restart within the same day does not resend.
type KVSentLedger struct {
	store repository.Store
	loc   *time.Location

	mu   sync.Mutex
	days map[string]map[string]struct{}
}

// NewKVSentLedger creates a ledger whose day keys are in loc
func NewKVSentLedger(store repository.Store, loc *time.Location) *KVSentLedger {
	return &KVSentLedger{
		store: store,
		loc:   loc,
		days:  make(map[string]map[string]struct{}),
	}
}

// day returns the set for key, loading it from the store on first use.
// Callers hold mu.
func (l *KVSentLedger) day(ctx context.Context, key string) (map[string]struct{}, error) {
	if set, ok := l.days[key]; ok {
		return set, nil
	}

	var ids []string
	if _, err := repository.LoadJSON(ctx, l.store, repository.KeySentPrefix+key, &ids); err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	l.days[key] = set
	return set, nil
}

// WasSent reports whether instanceID was dispatched on day
func (l *KVSentLedger) WasSent(ctx context.Context, day, instanceID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, err := l.day(ctx, day)
	if err != nil {
		return false, err
	}
	_, ok := set[instanceID]
	return ok, nil
}

// MarkSent records instanceID for day and persists the day
func (l *KVSentLedger) MarkSent(ctx context.Context, day, instanceID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, err := l.day(ctx, day)
	if err != nil {
		return err
	}
	set[instanceID] = struct{}{}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return repository.SaveJSON(ctx, l.store, repository.KeySentPrefix+day, ids)
}

// PurgeOlderThan drops days strictly older than now minus days, both in
// memory and in the store
func (l *KVSentLedger) PurgeOlderThan(ctx context.Context, now time.Time, days int) error {
	cutoff := utils.DayKey(utils.AddDays(utils.StartOfDay(now, l.loc), -days), l.loc)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.days {
		if key < cutoff {
			delete(l.days, key)
		}
	}

	keys, err := l.store.Keys(ctx, repository.KeySentPrefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if strings.TrimPrefix(key, repository.KeySentPrefix) < cutoff {
			if err := l.store.Delete(ctx, key); err != nil {
				return err
			}
		}
	}
	return nil
}
