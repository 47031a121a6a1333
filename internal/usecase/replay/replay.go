// Package replay folds a transaction source into a ledger.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/simaogato/tx-engine/internal/domain"
	"github.com/simaogato/tx-engine/internal/usecase/ledger"
)

// Run consumes records from src one at a time and applies each to l in
// the order received, returning the number of records processed.
//
// The first structural error from the source aborts the run; records the
// ledger ignores as business-rule violations still count as processed.
// The ledger is owned by the caller: it can be snapshotted after Run
// returns and discarded afterwards.
func Run(ctx context.Context, l *ledger.Ledger, src domain.TransactionSource) (int, error) {
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		record, err := src.Next()
		if errors.Is(err, io.EOF) {
			return processed, nil
		}
		if err != nil {
			return processed, fmt.Errorf("reading transaction records: %w", err)
		}

		l.Apply(ctx, record)
		processed++
	}
}
