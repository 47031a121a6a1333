package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/tx-engine/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// SaveRun stores the run header and one snapshot row per account in a
// single database transaction.
func (r *snapshotRepository) SaveRun(ctx context.Context, run domain.Run, accounts []domain.Account) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertRunQuery := `
		INSERT INTO runs (id, source, record_count, client_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = dbTx.ExecContext(ctx, insertRunQuery,
		run.ID,
		run.Source,
		run.RecordCount,
		run.ClientCount,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	insertSnapshotQuery := `
		INSERT INTO account_snapshots (run_id, client, available, held, total, locked)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, account := range accounts {
		_, err = dbTx.ExecContext(ctx, insertSnapshotQuery,
			run.ID,
			account.Client,
			account.Available.String(),
			account.Held.String(),
			account.Total().String(),
			account.Locked,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account snapshot: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
