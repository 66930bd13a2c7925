package ledger_test

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cardledger/ledger"
)

const (
	visa       = "4012888888881881"
	visaOnes   = "4111111111111111"
	mastercard = "5555555555554444"
)

var day = time.Date(2017, 10, 20, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func purchase(id, card, vendor, amount string) *ledger.Transaction {
	return ledger.NewTransaction(id, card, day, vendor, dec(amount))
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
