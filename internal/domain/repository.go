package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionSource yields parsed transaction records one at a time, in
// the order they appear in the underlying stream.
type TransactionSource interface {
	// Next returns the next record, or io.EOF once the stream is
	// exhausted. Any other error is structural and aborts the run.
	Next() (Transaction, error)
}

// EventPublisher pushes dispute lifecycle events to an external system.
type EventPublisher interface {
	// Publish sends one event. The ledger treats failures as
	// best-effort: they are logged and never fail the run.
	Publish(ctx context.Context, event DisputeEvent) error
}

// Run describes one completed replay.
type Run struct {
	ID          uuid.UUID
	Source      string
	RecordCount int
	ClientCount int
	CreatedAt   time.Time
}

// SnapshotRepository defines the interface for persisting the account
// snapshots a run produced.
type SnapshotRepository interface {
	// SaveRun stores the run and one snapshot row per account atomically.
	SaveRun(ctx context.Context, run Run, accounts []Account) error
}
