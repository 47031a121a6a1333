package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/simaogato/tx-engine/internal/domain"
)

// Writer serializes account snapshots as delimited text.
type Writer struct {
	csv *csv.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteAccounts writes the header row followed by one row per account.
// Amounts render with their exact value; total is derived on the way out.
func (w *Writer) WriteAccounts(accounts []domain.Account) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, account := range accounts {
		row := []string{
			strconv.FormatUint(uint64(account.Client), 10),
			account.Available.String(),
			account.Held.String(),
			account.Total().String(),
			strconv.FormatBool(account.Locked),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}

	w.csv.Flush()
	return w.csv.Error()
}
