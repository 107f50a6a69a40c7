package repository

import (
	"context"
	"sync"

	"subscriber-tracker/internal/model"
)

// JoinStore keeps the ordered log of accepted join events. The in-memory copy
// is the source of truth for the life of the process; durable storage behind it
// is a best-effort cache for restarts.
//
// Append adds to memory unconditionally and then tries to persist. A non-nil
// error means the record is held in memory but was not written durably; callers
// log it and carry on. Snapshot returns a copy, so readers never observe a
// partially appended sequence.
type JoinStore interface {
	Append(ctx context.Context, rec model.JoinRecord) error
	Snapshot() []model.JoinRecord
	Ping(ctx context.Context) error
}

// memoryLog is the shared in-memory half of every store backend.
// The mutex also serializes persistence writes so concurrent appends
// never interleave partial snapshots.
type memoryLog struct {
	mu      sync.Mutex
	records []model.JoinRecord
}

func (l *memoryLog) Snapshot() []model.JoinRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.JoinRecord, len(l.records))
	copy(out, l.records)
	return out
}
