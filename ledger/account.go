package ledger

import (
	"github.com/shopspring/decimal"
)

// Account is a credit card account. The card number is its identity.
//
// The monthly total always equals the sum of the held transactions' amounts;
// both are reset together by CloseMonth.
type Account struct {
	cardNumber   string
	holder       string
	config       AccountConfig
	balance      decimal.Decimal
	monthlyTotal decimal.Decimal
	transactions []*Transaction
}

// NewAccount creates an account with a zero balance.
func NewAccount(cardNumber, holder string, cfg AccountConfig) *Account {
	return &Account{
		cardNumber: cardNumber,
		holder:     holder,
		config:     cfg,
	}
}

// CardNumber returns the account's card number.
func (a *Account) CardNumber() string { return a.cardNumber }

// Holder returns the account holder's name.
func (a *Account) Holder() string { return a.holder }

// Config returns the account's spending policy.
func (a *Account) Config() AccountConfig { return a.config }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// SetBalance overrides the balance, typically with the opening balance read at
// load time.
func (a *Account) SetBalance(balance decimal.Decimal) { a.balance = balance }

// MonthlyTotal returns the sum of purchases accepted since the last close.
func (a *Account) MonthlyTotal() decimal.Decimal { return a.monthlyTotal }

// Transactions returns a copy of the transactions accepted since the last close.
func (a *Account) Transactions() []*Transaction {
	out := make([]*Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Check returns the denial that applying t would produce, or nil if t would be
// accepted. It does not modify the account or the transaction. A transaction
// that was already denied keeps its denial.
func (a *Account) Check(t *Transaction) *Denial {
	if d := t.Denial(); d != nil {
		return d
	}
	if t.CardNumber != a.cardNumber {
		return newDenial(DenialAccountMismatch, t.CardNumber)
	}
	// Landing exactly on the ceiling is allowed.
	if a.balance.Add(t.Amount).GreaterThan(a.config.Ceiling()) {
		return newDenial(DenialLimitExceeded, t.CardNumber)
	}
	return nil
}

// Apply posts t to the account and reports whether it was accepted. A denied
// transaction is marked with the reason and leaves the account untouched.
// A nil transaction is rejected without side effects.
func (a *Account) Apply(t *Transaction) bool {
	if t == nil {
		return false
	}

	if d := a.Check(t); d != nil {
		t.deny(d)
		return false
	}

	a.transactions = append(a.transactions, t)
	a.balance = a.balance.Add(t.Amount)
	a.monthlyTotal = a.monthlyTotal.Add(t.Amount)
	return true
}

// CloseMonth credits the rebate on this month's purchases, produces the
// statement and resets the monthly total and transaction list. Every call
// consumes the month, so a second call in a row reports no transactions.
func (a *Account) CloseMonth() *Statement {
	rebate := a.monthlyTotal.Mul(a.config.RebateRate)
	a.balance = a.balance.Sub(rebate)

	stmt := &Statement{
		CardNumber:   a.cardNumber,
		Holder:       a.holder,
		Transactions: a.transactions,
		Purchases:    a.monthlyTotal,
		Rebate:       rebate,
		Balance:      a.balance,
		Limit:        a.config.Limit,
	}

	a.transactions = nil
	a.monthlyTotal = decimal.Zero

	return stmt
}
