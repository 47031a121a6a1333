package domain

import "github.com/shopspring/decimal"

// Account represents a client account in the domain layer.
// Funds are split into two pools: available funds the client may use, and
// held funds frozen because of pending disputes.
type Account struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool // set once a chargeback occurs; never cleared
}

// NewAccount creates an account with zero balances.
func NewAccount(client ClientID) *Account {
	return &Account{Client: client}
}

// Total returns the account's total funds: available plus held.
// It is always derived, never stored.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Deposit credits the available funds.
func (a *Account) Deposit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Withdraw debits the available funds. A withdrawal that would drive the
// available funds below zero leaves the account untouched; the return
// value reports whether the withdrawal was applied.
func (a *Account) Withdraw(amount decimal.Decimal) bool {
	if a.Available.LessThan(amount) {
		return false
	}
	a.Available = a.Available.Sub(amount)
	return true
}

// Hold freezes disputed funds, moving them from available to held.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release returns previously held funds to available once a dispute is
// resolved.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// Chargeback removes held funds permanently and locks the account. The
// available funds are untouched: the money leaves through the held pool
// and is never returned.
func (a *Account) Chargeback(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Locked = true
}
