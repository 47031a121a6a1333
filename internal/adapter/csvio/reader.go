// Package csvio translates between delimited text records and the domain
// transaction and account shapes.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simaogato/tx-engine/internal/domain"
)

// Reader decodes delimited transaction records one row at a time; the
// input never has to fit in memory.
//
// The first row is a header. Columns are matched by name, so any column
// order is accepted; type, client and tx are required, amount may be
// absent when the stream carries no deposits or withdrawals. Every field
// is whitespace-trimmed before parsing. Decode failures are structural:
// they abort the whole run.
type Reader struct {
	csv        *csv.Reader
	headerRead bool

	// column index per field; -1 when the column is absent
	kindCol   int
	clientCol int
	txCol     int
	amountCol int
}

// NewReader wraps r. The header row is consumed on the first call to Next.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{
		csv:       cr,
		kindCol:   -1,
		clientCol: -1,
		txCol:     -1,
		amountCol: -1,
	}
}

// Next implements domain.TransactionSource. It returns io.EOF once the
// input is exhausted; an empty input is an empty stream, not an error.
func (r *Reader) Next() (domain.Transaction, error) {
	if !r.headerRead {
		if err := r.readHeader(); err != nil {
			return nil, err
		}
	}

	row, err := r.csv.Read()
	if err != nil {
		return nil, err
	}

	record, err := r.decode(row)
	if err != nil {
		line, _ := r.csv.FieldPos(0)
		return nil, fmt.Errorf("line %d: %w", line, err)
	}
	return record, nil
}

func (r *Reader) readHeader() error {
	row, err := r.csv.Read()
	if err != nil {
		return err
	}

	for i, name := range row {
		switch strings.TrimSpace(name) {
		case "type":
			r.kindCol = i
		case "client":
			r.clientCol = i
		case "tx":
			r.txCol = i
		case "amount":
			r.amountCol = i
		}
	}
	if r.kindCol < 0 || r.clientCol < 0 || r.txCol < 0 {
		return fmt.Errorf("header must name the type, client and tx columns, got %q", strings.Join(row, ","))
	}

	r.headerRead = true
	return nil
}

func (r *Reader) decode(row []string) (domain.Transaction, error) {
	kind, err := domain.ParseTransactionKind(field(row, r.kindCol))
	if err != nil {
		return nil, err
	}

	client, err := strconv.ParseUint(field(row, r.clientCol), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid client id %q", field(row, r.clientCol))
	}

	tx, err := strconv.ParseUint(field(row, r.txCol), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id %q", field(row, r.txCol))
	}

	if !kind.MovesFunds() {
		// References use the amount of the transaction they point at;
		// a value in the amount column is ignored.
		return domain.DisputeReference{
			Kind:   kind,
			Client: domain.ClientID(client),
			Tx:     domain.TxID(tx),
		}, nil
	}

	raw := field(row, r.amountCol)
	if raw == "" {
		return nil, fmt.Errorf("%s transaction %d has no amount", kind, tx)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}

	return domain.FundsMovement{
		Kind:   kind,
		Client: domain.ClientID(client),
		Tx:     domain.TxID(tx),
		Amount: amount,
	}, nil
}

// field returns the trimmed value at col, or "" when the column is absent
// or the row too short.
func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

var _ domain.TransactionSource = (*Reader)(nil)
