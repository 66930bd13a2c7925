package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountConfig holds the spending policy of an account. It is copied into each
// account at construction and never changes afterwards.
type AccountConfig struct {
	// Limit is the credit limit. Default 5000.00.
	Limit decimal.Decimal
	// Overdraft is the headroom allowed past Limit before transactions are
	// denied. Default 1000.00.
	Overdraft decimal.Decimal
	// RebateRate is the fraction of the month's accepted purchases credited
	// back at month close. Default 0.02.
	RebateRate decimal.Decimal
}

// DefaultAccountConfig returns the standard card policy.
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		Limit:      decimal.RequireFromString("5000.00"),
		Overdraft:  decimal.RequireFromString("1000.00"),
		RebateRate: decimal.RequireFromString("0.02"),
	}
}

// Ceiling is the highest balance a transaction may bring the account to.
func (c AccountConfig) Ceiling() decimal.Decimal {
	return c.Limit.Add(c.Overdraft)
}

// Validate rejects negative limits, overdrafts and rebate rates, and rebate
// rates above one.
func (c AccountConfig) Validate() error {
	if c.Limit.IsNegative() {
		return fmt.Errorf("invalid limit %s: must not be negative", c.Limit)
	}
	if c.Overdraft.IsNegative() {
		return fmt.Errorf("invalid overdraft %s: must not be negative", c.Overdraft)
	}
	if c.RebateRate.IsNegative() || c.RebateRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("invalid rebate rate %s: must be between 0 and 1", c.RebateRate)
	}
	return nil
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithAccountConfig sets the policy used for accounts loaded into the ledger.
func WithAccountConfig(cfg AccountConfig) Option {
	return func(l *Ledger) {
		l.config = cfg
	}
}

// WithStrictRouting makes the ledger deny transactions whose card number is
// well formed but has no account, instead of dropping them silently.
func WithStrictRouting() Option {
	return func(l *Ledger) {
		l.strictRouting = true
	}
}
