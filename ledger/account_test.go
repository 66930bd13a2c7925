package ledger_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cardledger/ledger"
)

func newAccount(balance string) *ledger.Account {
	acc := ledger.NewAccount(visa, "Ada Lovelace", ledger.DefaultAccountConfig())
	acc.SetBalance(dec(balance))
	return acc
}

func TestNewAccountDefaults(t *testing.T) {
	acc := ledger.NewAccount(visa, "Ada Lovelace", ledger.DefaultAccountConfig())

	assert.Equal(t, visa, acc.CardNumber())
	assert.Equal(t, "Ada Lovelace", acc.Holder())
	assertAmount(t, "0", acc.Balance())
	assertAmount(t, "0", acc.MonthlyTotal())
	assertAmount(t, "5000.00", acc.Config().Limit)
	assertAmount(t, "1000.00", acc.Config().Overdraft)
	assertAmount(t, "0.02", acc.Config().RebateRate)
	assert.Equal(t, 0, len(acc.Transactions()))
}

func TestAccountApplyAccepts(t *testing.T) {
	acc := newAccount("0")
	txn := purchase("1", visa, "Acme", "100")

	assert.True(t, acc.Apply(txn))
	assert.True(t, txn.Valid())
	assert.Equal(t, "", txn.DenialReason())
	assertAmount(t, "100.00", acc.Balance())
	assertAmount(t, "100.00", acc.MonthlyTotal())
	assert.Equal(t, []*ledger.Transaction{txn}, acc.Transactions())
}

func TestAccountApplyKeepsOrder(t *testing.T) {
	acc := newAccount("0")
	first := purchase("1", visa, "Acme", "10")
	second := purchase("2", visa, "Globex", "20.50")
	third := purchase("3", visa, "Initech", "0.25")

	for _, txn := range []*ledger.Transaction{first, second, third} {
		assert.True(t, acc.Apply(txn))
	}

	assert.Equal(t, []*ledger.Transaction{first, second, third}, acc.Transactions())
	assertAmount(t, "30.75", acc.MonthlyTotal())
	assertAmount(t, "30.75", acc.Balance())
}

func TestAccountApplyNil(t *testing.T) {
	acc := newAccount("250")

	assert.False(t, acc.Apply(nil))
	assertAmount(t, "250", acc.Balance())
	assertAmount(t, "0", acc.MonthlyTotal())
	assert.Equal(t, 0, len(acc.Transactions()))
}

func TestAccountApplyCardMismatch(t *testing.T) {
	acc := newAccount("0")
	txn := purchase("1", visaOnes, "Acme", "10")

	assert.False(t, acc.Apply(txn))
	assert.False(t, txn.Valid())
	assert.Equal(t, "The given transaction does not match with the card number.", txn.DenialReason())
	assert.Equal(t, ledger.DenialAccountMismatch, txn.Denial().Kind)
	assertAmount(t, "0", acc.Balance())
	assertAmount(t, "0", acc.MonthlyTotal())
	assert.Equal(t, 0, len(acc.Transactions()))
}

func TestAccountApplyMismatchWinsOverLimit(t *testing.T) {
	acc := newAccount("5999")
	txn := purchase("1", visaOnes, "Acme", "5000")

	assert.False(t, acc.Apply(txn))
	assert.Equal(t, ledger.DenialAccountMismatch, txn.Denial().Kind)
}

func TestAccountApplyLimitBoundary(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		accept  bool
	}{
		{"well under limit", "0", "100", true},
		{"into overdraft", "4900", "200", true},
		{"exactly at ceiling", "5900", "100", true},
		{"one cent past ceiling", "5900", "100.01", false},
		{"ceiling from zero", "0", "6000", true},
		{"past ceiling from zero", "0", "6000.01", false},
		{"zero amount at ceiling", "6000", "0", true},
		{"already past ceiling", "6500", "0.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newAccount(tt.balance)
			txn := purchase("1", visa, "Acme", tt.amount)

			assert.Equal(t, tt.accept, acc.Apply(txn))
			assert.Equal(t, tt.accept, txn.Valid())
			if tt.accept {
				assertAmount(t, dec(tt.balance).Add(dec(tt.amount)).String(), acc.Balance())
				return
			}
			assert.Equal(t, "Account Limit Exceeds.", txn.DenialReason())
			assertAmount(t, tt.balance, acc.Balance())
			assertAmount(t, "0", acc.MonthlyTotal())
		})
	}
}

func TestAccountApplyCustomConfig(t *testing.T) {
	cfg := ledger.AccountConfig{
		Limit:      dec("100"),
		Overdraft:  dec("0"),
		RebateRate: dec("0.10"),
	}
	acc := ledger.NewAccount(visa, "Ada Lovelace", cfg)

	assert.True(t, acc.Apply(purchase("1", visa, "Acme", "100")))
	assert.False(t, acc.Apply(purchase("2", visa, "Acme", "0.01")))

	stmt := acc.CloseMonth()
	assertAmount(t, "10", stmt.Rebate)
	assertAmount(t, "90", acc.Balance())
}

func TestAccountCheckDoesNotMutate(t *testing.T) {
	acc := newAccount("5900")
	txn := purchase("1", visa, "Acme", "150")

	d := acc.Check(txn)
	assert.NotZero(t, d)
	assert.True(t, errors.Is(d, ledger.ErrLimitExceeded))
	assert.True(t, txn.Valid())
	assertAmount(t, "5900", acc.Balance())

	assert.Zero(t, acc.Check(purchase("2", visa, "Acme", "100")))
}

func TestAccountDenialIsSticky(t *testing.T) {
	acc := newAccount("5900")
	other := ledger.NewAccount(visaOnes, "Grace Hopper", ledger.DefaultAccountConfig())
	txn := purchase("1", visa, "Acme", "150")

	assert.False(t, acc.Apply(txn))
	assert.False(t, other.Apply(txn))
	assert.Equal(t, ledger.DenialLimitExceeded, txn.Denial().Kind)
}

func TestAccountRefusesDeniedTransaction(t *testing.T) {
	acc := newAccount("5950")
	txn := purchase("1", visa, "Acme", "100")
	assert.False(t, acc.Apply(txn))

	acc.SetBalance(decimal.Zero)
	assert.Equal(t, ledger.DenialLimitExceeded, acc.Check(txn).Kind)
	assert.False(t, acc.Apply(txn))

	assert.False(t, txn.Valid())
	assert.Equal(t, "Account Limit Exceeds.", txn.DenialReason())
	assert.Equal(t, 0, len(acc.Transactions()))
	assertAmount(t, "0", acc.Balance())
	assertAmount(t, "0", acc.MonthlyTotal())
	assert.Equal(t, 0, len(acc.CloseMonth().Transactions))
}

func TestAccountCloseMonth(t *testing.T) {
	acc := newAccount("0")
	txn := purchase("1", visa, "Acme", "8.35")
	assert.True(t, acc.Apply(txn))

	stmt := acc.CloseMonth()

	assertAmount(t, "0.167", stmt.Rebate)
	assertAmount(t, "8.183", stmt.Balance)
	assertAmount(t, "8.183", acc.Balance())
	assert.Equal(t, []*ledger.Transaction{txn}, stmt.Transactions)
	assertAmount(t, "0", acc.MonthlyTotal())
	assert.Equal(t, 0, len(acc.Transactions()))

	again := acc.CloseMonth()
	assertAmount(t, "0", again.Rebate)
	assertAmount(t, "8.183", again.Balance)
	assert.Equal(t, 0, len(again.Transactions))
}

func TestAccountCloseMonthBalanceEqualsPriorMinusRebate(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amounts []string
	}{
		{"no purchases", "120.00", nil},
		{"one purchase", "0", []string{"8.35"}},
		{"several purchases", "1000", []string{"19.99", "250", "0.01"}},
		{"negative opening balance", "-50", []string{"10"}},
		{"into overdraft", "4800", []string{"500", "300"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newAccount(tt.balance)
			sum := decimal.Zero
			for i, amount := range tt.amounts {
				assert.True(t, acc.Apply(purchase(string(rune('a'+i)), visa, "Acme", amount)))
				sum = sum.Add(dec(amount))
			}
			before := acc.Balance()

			stmt := acc.CloseMonth()

			want := before.Sub(sum.Mul(dec("0.02")))
			assertAmount(t, want.String(), acc.Balance())
			assertAmount(t, sum.String(), stmt.Purchases)
			assert.Equal(t, 0, len(acc.Transactions()))
			assertAmount(t, "0", acc.MonthlyTotal())
		})
	}
}

func TestAccountCloseMonthOverdrawn(t *testing.T) {
	acc := newAccount("4900")
	assert.True(t, acc.Apply(purchase("1", visa, "Acme", "1000")))

	stmt := acc.CloseMonth()

	assertAmount(t, "20", stmt.Rebate)
	assertAmount(t, "5880", stmt.Balance)
	assert.True(t, stmt.Overdrawn())
	assertAmount(t, "880", stmt.OverdrawnBy())
}

func TestAccountCloseMonthAtLimitIsNotOverdrawn(t *testing.T) {
	acc := newAccount("5000")

	stmt := acc.CloseMonth()

	assert.False(t, stmt.Overdrawn())
	assertAmount(t, "0", stmt.OverdrawnBy())
}
