package ledger

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
)

const statementRule = "-----------------------------------------------------"

// Statement is the month-end summary of one account.
type Statement struct {
	CardNumber   string
	Holder       string
	Transactions []*Transaction
	Purchases    decimal.Decimal
	Rebate       decimal.Decimal
	Balance      decimal.Decimal
	Limit        decimal.Decimal
}

// Overdrawn reports whether the closing balance is above the credit limit.
func (s *Statement) Overdrawn() bool {
	return s.Balance.GreaterThan(s.Limit)
}

// OverdrawnBy returns how far the closing balance is above the limit, or zero.
func (s *Statement) OverdrawnBy() decimal.Decimal {
	if !s.Overdrawn() {
		return decimal.Zero
	}
	return s.Balance.Sub(s.Limit)
}

// String renders the statement as plain text.
func (s *Statement) String() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Account: %s %s\n", s.Holder, lastFour(s.CardNumber))
	buf.WriteString(statementRule)
	buf.WriteByte('\n')

	if len(s.Transactions) == 0 {
		buf.WriteString("NO TRANSACTIONS FOUND\n")
	} else {
		writeTransactionLines(&buf, s.Transactions)
	}

	buf.WriteString(statementRule)
	buf.WriteByte('\n')
	fmt.Fprintf(&buf, "Rebate received: $%s\n", formatAmount(s.Rebate))
	fmt.Fprintf(&buf, "Current Balance: $%s\n", formatAmount(s.Balance))
	if s.Overdrawn() {
		fmt.Fprintf(&buf, "ACCOUNT OVERDRAWN BY: $%s\n", formatAmount(s.OverdrawnBy()))
	}

	return buf.String()
}

// writeTransactionLines writes one line per transaction with the vendor and
// amount columns aligned. Vendor names may contain wide characters, so widths
// are measured in terminal cells.
func writeTransactionLines(buf *strings.Builder, txns []*Transaction) {
	vendorWidth, amountWidth := 0, 0
	amounts := make([]string, len(txns))
	for i, t := range txns {
		vendorWidth = max(vendorWidth, runewidth.StringWidth(t.Vendor))
		amounts[i] = "$" + formatAmount(t.Amount)
		amountWidth = max(amountWidth, len(amounts[i]))
	}

	for i, t := range txns {
		date := "----------"
		if !t.Date.IsZero() {
			date = t.Date.Format("2006-01-02")
		}
		fmt.Fprintf(buf, "%s  %s  %*s  #%s\n",
			date,
			runewidth.FillRight(t.Vendor, vendorWidth),
			amountWidth, amounts[i],
			t.ID,
		)
	}
}

// formatAmount renders at least two decimal places without dropping precision,
// so 100 becomes "100.00" and 0.167 stays "0.167".
func formatAmount(d decimal.Decimal) string {
	if d.Equal(d.Round(2)) {
		return d.StringFixed(2)
	}
	return d.String()
}
