// Package ledger replays a sequential stream of transaction records into
// per-client account balances, tracking the dispute lifecycle of every
// deposit and withdrawal it has applied.
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/tx-engine/internal/domain"
)

// Ledger owns the map of client accounts and the map of retained
// disputable transactions, and folds records into them one at a time in
// the order received.
//
// A Ledger is single-writer: Apply must not be called concurrently, and
// Snapshot assumes no Apply is in flight.
type Ledger struct {
	accounts map[domain.ClientID]*domain.Account
	txns     map[domain.TxID]*domain.DisputableTransaction

	events domain.EventPublisher
	logger *zap.Logger
}

// New creates an empty ledger. The publisher may be nil, in which case no
// dispute events are emitted.
func New(logger *zap.Logger, events domain.EventPublisher) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		accounts: make(map[domain.ClientID]*domain.Account),
		txns:     make(map[domain.TxID]*domain.DisputableTransaction),
		events:   events,
		logger:   logger,
	}
}

// Apply folds one transaction record into the ledger state.
//
// Business-rule violations — insufficient funds, duplicate transaction
// ids, references to missing or foreign transactions, wrong dispute
// state — never fail the run: the record is ignored without touching any
// state, and the reason is logged at info level. Structurally malformed
// records cannot reach this point; the decode step rejects them.
func (l *Ledger) Apply(ctx context.Context, record domain.Transaction) {
	switch rec := record.(type) {
	case domain.FundsMovement:
		l.applyFundsMovement(l.account(rec.Client), rec)
	case domain.DisputeReference:
		l.applyDisputeReference(ctx, l.account(rec.Client), rec)
	}
}

// Snapshot returns a copy of every account ever referenced, ordered by
// client id. It is usable at any point, normally at end of stream.
func (l *Ledger) Snapshot() []domain.Account {
	accounts := make([]domain.Account, 0, len(l.accounts))
	for _, account := range l.accounts {
		accounts = append(accounts, *account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Client < accounts[j].Client
	})
	return accounts
}

// Account returns a copy of one account's current state. The second
// return value reports whether the client has ever been referenced.
func (l *Ledger) Account(client domain.ClientID) (domain.Account, bool) {
	account, ok := l.accounts[client]
	if !ok {
		return domain.Account{}, false
	}
	return *account, true
}

// account returns the client's account, creating it with zero balances
// the first time the client id appears in any record.
func (l *Ledger) account(client domain.ClientID) *domain.Account {
	account, ok := l.accounts[client]
	if !ok {
		account = domain.NewAccount(client)
		l.accounts[client] = account
	}
	return account
}

func (l *Ledger) applyFundsMovement(account *domain.Account, rec domain.FundsMovement) {
	if _, exists := l.txns[rec.Tx]; exists {
		// The first recording under a transaction id is authoritative;
		// a reused id is ignored in full, balance change included.
		l.logger.Info("transaction id already recorded, record ignored",
			zap.Uint32("tx", uint32(rec.Tx)),
			zap.Uint16("client", uint16(rec.Client)))
		return
	}

	switch rec.Kind {
	case domain.KindDeposit:
		account.Deposit(rec.Amount)
	case domain.KindWithdrawal:
		if !account.Withdraw(rec.Amount) {
			l.logger.Info("insufficient funds, withdrawal ignored",
				zap.Uint32("tx", uint32(rec.Tx)),
				zap.Uint16("client", uint16(rec.Client)),
				zap.String("amount", rec.Amount.String()))
			return
		}
	}

	l.txns[rec.Tx] = &domain.DisputableTransaction{
		Client: rec.Client,
		Kind:   rec.Kind,
		Amount: rec.Amount,
		State:  domain.DisputeStateOpen,
	}
}

func (l *Ledger) applyDisputeReference(ctx context.Context, account *domain.Account, rec domain.DisputeReference) {
	txn, ok := l.txns[rec.Tx]
	if !ok {
		l.logger.Info("referenced transaction not found, record ignored",
			zap.String("kind", string(rec.Kind)),
			zap.Uint32("tx", uint32(rec.Tx)),
			zap.Uint16("client", uint16(rec.Client)))
		return
	}
	if txn.Client != rec.Client {
		l.logger.Info("client does not own referenced transaction, record ignored",
			zap.String("kind", string(rec.Kind)),
			zap.Uint32("tx", uint32(rec.Tx)),
			zap.Uint16("client", uint16(rec.Client)))
		return
	}

	switch rec.Kind {
	case domain.KindDispute:
		if txn.State != domain.DisputeStateOpen {
			l.ignoreWrongState(rec, txn.State)
			return
		}
		txn.State = domain.DisputeStateDisputed
		account.Hold(txn.Amount)
		l.publish(ctx, domain.EventDisputeOpened, rec, txn.Amount)

	case domain.KindResolve:
		if txn.State != domain.DisputeStateDisputed {
			l.ignoreWrongState(rec, txn.State)
			return
		}
		txn.State = domain.DisputeStateOpen
		account.Release(txn.Amount)
		l.publish(ctx, domain.EventDisputeResolved, rec, txn.Amount)

	case domain.KindChargeback:
		if txn.State != domain.DisputeStateDisputed {
			l.ignoreWrongState(rec, txn.State)
			return
		}
		txn.State = domain.DisputeStateChargedBack
		account.Chargeback(txn.Amount)
		l.publish(ctx, domain.EventChargeback, rec, txn.Amount)
	}
}

func (l *Ledger) ignoreWrongState(rec domain.DisputeReference, state domain.DisputeState) {
	l.logger.Info("referenced transaction in wrong state, record ignored",
		zap.String("kind", string(rec.Kind)),
		zap.Uint32("tx", uint32(rec.Tx)),
		zap.Uint16("client", uint16(rec.Client)),
		zap.String("state", string(state)))
}

func (l *Ledger) publish(ctx context.Context, kind domain.DisputeEventKind, rec domain.DisputeReference, amount decimal.Decimal) {
	if l.events == nil {
		return
	}

	event := domain.DisputeEvent{
		ID:         uuid.New(),
		Kind:       kind,
		Client:     rec.Client,
		Tx:         rec.Tx,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
	if err := l.events.Publish(ctx, event); err != nil {
		l.logger.Warn("failed to publish dispute event",
			zap.String("kind", string(kind)),
			zap.Uint32("tx", uint32(rec.Tx)),
			zap.Error(err))
	}
}
