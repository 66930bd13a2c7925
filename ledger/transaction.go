package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single purchase attempt against a card. Its identifying
// fields never change; the only mutation is a one-time denial.
type Transaction struct {
	ID         string
	CardNumber string
	Date       time.Time
	Vendor     string
	Amount     decimal.Decimal

	denial *Denial
}

// NewTransaction creates a transaction that is valid until denied.
func NewTransaction(id, cardNumber string, date time.Time, vendor string, amount decimal.Decimal) *Transaction {
	return &Transaction{
		ID:         id,
		CardNumber: cardNumber,
		Date:       date,
		Vendor:     vendor,
		Amount:     amount,
	}
}

// Valid reports whether the transaction has not been denied.
func (t *Transaction) Valid() bool {
	return t.denial == nil
}

// Denial returns why the transaction was denied, or nil if it is valid.
func (t *Transaction) Denial() *Denial {
	return t.denial
}

// DenialReason returns the denial message, or "" for a valid transaction.
func (t *Transaction) DenialReason() string {
	if t.denial == nil {
		return ""
	}
	return t.denial.Reason()
}

// deny marks the transaction as denied. Only the first denial sticks.
func (t *Transaction) deny(d *Denial) {
	if t.denial != nil {
		return
	}
	t.denial = d
}

func (t *Transaction) String() string {
	return fmt.Sprintf("$%s purchase at %s with card ending in %s",
		formatAmount(t.Amount), t.Vendor, lastFour(t.CardNumber))
}

// lastFour returns the trailing four characters of a card number, or the whole
// number when it is shorter.
func lastFour(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}

// MaskCardNumber hides all but the last four digits of a card number.
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	masked := make([]byte, len(cardNumber)-4)
	for i := range masked {
		masked[i] = '*'
	}
	return string(masked) + lastFour(cardNumber)
}
