// Package ledger applies card purchases to credit accounts and closes their
// billing months.
//
// A Ledger owns the accounts keyed by card number. Transactions are validated
// with the Luhn checksum, routed to their account and either accepted, raising
// the balance and the month's purchase total, or denied with a reason recorded
// on the transaction. Closing the month credits a flat rebate, produces a
// Statement and resets the monthly counters.
//
// Example usage:
//
//	l := ledger.New()
//	l.LoadAccount("4012888888881881", "Ada Lovelace", decimal.Zero)
//
//	denied, err := l.ApplyAll(ctx, transactions)
//	if err != nil {
//	    return err
//	}
//	for _, t := range denied {
//	    fmt.Println(t, t.DenialReason())
//	}
//
//	for card, stmt := range l.CloseMonths(ctx) {
//	    fmt.Println(card, stmt)
//	}
//
// All amounts use decimal arithmetic. A Ledger is not safe for concurrent use.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/cardledger/luhn"
	"github.com/robinvdvleuten/cardledger/telemetry"
)

// Ledger routes transactions to the accounts it owns.
type Ledger struct {
	accounts      map[string]*Account
	config        AccountConfig
	strictRouting bool
}

// New creates an empty ledger. Accounts get DefaultAccountConfig unless
// WithAccountConfig is given.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(map[string]*Account),
		config:   DefaultAccountConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAccount adds an account with the given opening balance and reports
// whether it was added. Card numbers failing the checksum are rejected; the
// caller collects them. An existing account with the same card number is
// replaced.
func (l *Ledger) LoadAccount(cardNumber, holder string, balance decimal.Decimal) bool {
	if !luhn.Valid(cardNumber) {
		return false
	}
	acc := NewAccount(cardNumber, holder, l.config)
	acc.SetBalance(balance)
	l.accounts[cardNumber] = acc
	return true
}

// Account returns the account for a card number.
func (l *Ledger) Account(cardNumber string) (*Account, bool) {
	acc, ok := l.accounts[cardNumber]
	return acc, ok
}

// Accounts returns all accounts ordered by card number.
func (l *Ledger) Accounts() []*Account {
	keys := maps.Keys(l.accounts)
	slices.Sort(keys)

	out := make([]*Account, len(keys))
	for i, k := range keys {
		out[i] = l.accounts[k]
	}
	return out
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}

// Apply routes a single transaction and reports whether it was accepted.
//
// Transactions with an invalid card number are denied without consulting any
// account. Transactions for a card number with no account are dropped: Apply
// returns false but the transaction stays valid, unless the ledger routes
// strictly, in which case they are denied as unroutable.
func (l *Ledger) Apply(t *Transaction) bool {
	if t == nil {
		return false
	}
	if !luhn.Valid(t.CardNumber) {
		t.deny(newDenial(DenialInvalidCardNumber, t.CardNumber))
		return false
	}

	acc, ok := l.accounts[t.CardNumber]
	if !ok {
		if l.strictRouting {
			t.deny(newDenial(DenialUnroutable, t.CardNumber))
		}
		return false
	}

	return acc.Apply(t)
}

// ApplyAll applies transactions in order and returns the denied ones, in input
// order, each carrying its denial. One bad transaction never stops the batch.
// If ctx is cancelled the denials collected so far are returned with ctx.Err().
func (l *Ledger) ApplyAll(ctx context.Context, transactions []*Transaction) ([]*Transaction, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.apply (%d transactions)", len(transactions)))
	defer timer.End()

	var denied []*Transaction
	for _, t := range transactions {
		select {
		case <-ctx.Done():
			return denied, ctx.Err()
		default:
		}

		if t == nil {
			continue
		}
		if !l.Apply(t) && !t.Valid() {
			denied = append(denied, t)
		}
	}

	return denied, nil
}

// CloseMonths closes the month on every account and returns the statements
// keyed by card number.
func (l *Ledger) CloseMonths(ctx context.Context) map[string]*Statement {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.close (%d accounts)", len(l.accounts)))
	defer timer.End()

	statements := make(map[string]*Statement, len(l.accounts))
	for cardNumber, acc := range l.accounts {
		statements[cardNumber] = acc.CloseMonth()
	}
	return statements
}
