package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/cardledger/loader"
	"github.com/robinvdvleuten/cardledger/luhn"
	"github.com/robinvdvleuten/cardledger/output"
)

// DumpCmd prints what the loader reads from each file, for debugging input.
type DumpCmd struct {
	Accounts     string `help:"Accounts CSV file." arg:"" type:"existingfile"`
	Transactions string `help:"Transactions CSV file." arg:"" type:"existingfile"`
}

type dumpedAccount struct {
	Line       int
	CardNumber string
	Holder     string
	Balance    string
	Valid      bool
}

type dumpedTransaction struct {
	ID         string
	CardNumber string
	Date       string
	Vendor     string
	Amount     string
	Valid      bool
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(context.Background(), globals.Telemetry, ctx.Stderr, "dump")
	defer report()

	ldr := loader.New()
	var rowErrs []error

	f, err := os.Open(cmd.Accounts)
	if err != nil {
		return fmt.Errorf("failed to open accounts file: %w", err)
	}
	records, err := ldr.ReadAccounts(runCtx, f, cmd.Accounts)
	_ = f.Close()
	if rowErrs, err = collectRowErrors(rowErrs, err); err != nil {
		return err
	}

	txns, err := ldr.LoadTransactions(runCtx, cmd.Transactions)
	if rowErrs, err = collectRowErrors(rowErrs, err); err != nil {
		return err
	}

	accounts := make([]dumpedAccount, 0, len(records))
	for _, rec := range records {
		accounts = append(accounts, dumpedAccount{
			Line:       rec.Line,
			CardNumber: rec.CardNumber,
			Holder:     rec.Holder,
			Balance:    rec.Balance.StringFixed(2),
			Valid:      luhn.Valid(rec.CardNumber),
		})
	}

	transactions := make([]dumpedTransaction, 0, len(txns))
	for _, t := range txns {
		transactions = append(transactions, dumpedTransaction{
			ID:         t.ID,
			CardNumber: t.CardNumber,
			Date:       t.Date.Format(loader.DefaultDateLayout),
			Vendor:     t.Vendor,
			Amount:     t.Amount.String(),
			Valid:      luhn.Valid(t.CardNumber),
		})
	}

	p := repr.New(ctx.Stdout, repr.Indent("  "))
	p.Println(accounts)
	p.Println(transactions)

	renderRowErrors(ctx.Stderr, output.NewStyles(ctx.Stderr), rowErrs)
	return nil
}

// collectRowErrors appends the row errors carried by err and returns any
// other error unchanged.
func collectRowErrors(acc []error, err error) ([]error, error) {
	if err == nil {
		return acc, nil
	}
	var rowErrs *loader.RowErrors
	if errors.As(err, &rowErrs) {
		return append(acc, rowErrs.Errors...), nil
	}
	return acc, err
}
