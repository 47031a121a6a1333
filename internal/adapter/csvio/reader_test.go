package csvio

import (
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/tx-engine/internal/domain"
)

func readAll(t *testing.T, input string) ([]domain.Transaction, error) {
	t.Helper()

	r := NewReader(strings.NewReader(input))
	var records []domain.Transaction
	for {
		record, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

func TestReader_DecodesAllKinds(t *testing.T) {
	input := `type,client,tx,amount
deposit,1,1,1.2345
withdrawal,1,2,0.5
dispute,1,1,
resolve,1,1,
chargeback,1,1,
`

	records, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, records, 5)

	dep, ok := records[0].(domain.FundsMovement)
	require.True(t, ok)
	assert.Equal(t, domain.KindDeposit, dep.Kind)
	assert.Equal(t, domain.ClientID(1), dep.Client)
	assert.Equal(t, domain.TxID(1), dep.Tx)
	assert.True(t, dep.Amount.Equal(decimal.RequireFromString("1.2345")))

	wd, ok := records[1].(domain.FundsMovement)
	require.True(t, ok)
	assert.Equal(t, domain.KindWithdrawal, wd.Kind)

	for i, want := range []domain.TransactionKind{domain.KindDispute, domain.KindResolve, domain.KindChargeback} {
		ref, ok := records[2+i].(domain.DisputeReference)
		require.True(t, ok, "record %d should be a reference", 2+i)
		assert.Equal(t, want, ref.Kind)
		assert.Equal(t, domain.TxID(1), ref.Tx)
	}
}

func TestReader_TrimsWhitespace(t *testing.T) {
	input := "type, client, tx, amount\n deposit ,  1 ,\t1 , 2.0 \n"

	records, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, records, 1)

	dep := records[0].(domain.FundsMovement)
	assert.Equal(t, domain.ClientID(1), dep.Client)
	assert.True(t, dep.Amount.Equal(decimal.RequireFromString("2")))
}

func TestReader_AnyColumnOrder(t *testing.T) {
	input := `amount,tx,client,type
3.5,7,2,deposit
`

	records, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, records, 1)

	dep := records[0].(domain.FundsMovement)
	assert.Equal(t, domain.ClientID(2), dep.Client)
	assert.Equal(t, domain.TxID(7), dep.Tx)
	assert.True(t, dep.Amount.Equal(decimal.RequireFromString("3.5")))
}

func TestReader_ReferenceRowsMayDropTrailingAmount(t *testing.T) {
	// Dispute rows may omit the amount value or the trailing field
	// entirely; a stray value on a reference row is ignored.
	input := `type,client,tx,amount
deposit,1,1,10
dispute,1,1
resolve,1,1,999
`

	records, err := readAll(t, input)
	require.NoError(t, err)
	require.Len(t, records, 3)

	_, ok := records[1].(domain.DisputeReference)
	assert.True(t, ok)
	_, ok = records[2].(domain.DisputeReference)
	assert.True(t, ok)
}

func TestReader_EmptyInput(t *testing.T) {
	records, err := readAll(t, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReader_HeaderOnly(t *testing.T) {
	records, err := readAll(t, "type,client,tx,amount\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReader_StructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "unknown kind token",
			input:   "type,client,tx,amount\ntransfer,1,1,10\n",
			wantErr: "unknown transaction type",
		},
		{
			name:    "missing amount on deposit",
			input:   "type,client,tx,amount\ndeposit,1,1,\n",
			wantErr: "has no amount",
		},
		{
			name:    "unparseable amount",
			input:   "type,client,tx,amount\ndeposit,1,1,ten\n",
			wantErr: "invalid amount",
		},
		{
			name:    "client id out of range",
			input:   "type,client,tx,amount\ndeposit,70000,1,10\n",
			wantErr: "invalid client id",
		},
		{
			name:    "tx id not a number",
			input:   "type,client,tx,amount\ndeposit,1,abc,10\n",
			wantErr: "invalid transaction id",
		},
		{
			name:    "header missing required column",
			input:   "type,client,amount\ndeposit,1,10\n",
			wantErr: "header must name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, tt.input)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestReader_ErrorCarriesLineNumber(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,1,1,10\ndeposit,1,2,bad\n"

	_, err := readAll(t, input)
	require.Error(t, err)
	assert.ErrorContains(t, err, "line 3")
}
