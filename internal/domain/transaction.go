package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a deposit or withdrawal transaction. Disputes, resolves
// and chargebacks carry no id of their own; they reference an existing one.
type TxID uint32

// TransactionKind represents the type of a transaction record
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindDispute    TransactionKind = "dispute"
	KindResolve    TransactionKind = "resolve"
	KindChargeback TransactionKind = "chargeback"
)

// ParseTransactionKind maps an input token onto a TransactionKind.
// An unknown token is a structural failure and aborts the run.
func ParseTransactionKind(token string) (TransactionKind, error) {
	switch kind := TransactionKind(token); kind {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return kind, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", token)
}

// MovesFunds reports whether records of this kind carry their own amount.
func (k TransactionKind) MovesFunds() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Transaction is a single parsed transaction record. The set of shapes is
// closed: a record either moves funds (FundsMovement) or references an
// earlier transaction by id (DisputeReference). The decode step picks the
// shape, so a reference can never carry an amount by construction.
type Transaction interface {
	transactionRecord()
}

// FundsMovement is a deposit or withdrawal: the only records that carry
// their own amount, and the only ones retained for later disputes.
type FundsMovement struct {
	Kind   TransactionKind // KindDeposit or KindWithdrawal
	Client ClientID
	Tx     TxID
	Amount decimal.Decimal
}

// DisputeReference is a dispute, resolve or chargeback. It carries no
// amount; the ledger uses the amount of the transaction it references.
type DisputeReference struct {
	Kind   TransactionKind // KindDispute, KindResolve or KindChargeback
	Client ClientID
	Tx     TxID
}

func (FundsMovement) transactionRecord()    {}
func (DisputeReference) transactionRecord() {}

// DisputeState places a retained transaction in the dispute lifecycle.
//
//	OPEN ──dispute──▶ DISPUTED ──resolve───▶ OPEN
//	                  DISPUTED ──chargeback─▶ CHARGED_BACK
//
// CHARGED_BACK is terminal: once a transaction is charged back, further
// disputes, resolves and chargebacks against it have no effect.
type DisputeState string

const (
	DisputeStateOpen        DisputeState = "OPEN"
	DisputeStateDisputed    DisputeState = "DISPUTED"
	DisputeStateChargedBack DisputeState = "CHARGED_BACK"
)

// DisputableTransaction is what the ledger retains for every applied
// deposit and withdrawal, keyed by transaction id. It is the only state
// consulted when a later record references that id.
type DisputableTransaction struct {
	Client ClientID
	Kind   TransactionKind
	Amount decimal.Decimal
	State  DisputeState
}
