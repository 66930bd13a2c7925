// Package batch runs one end-to-end pass over an accounts file and a
// transactions file: load, apply, close the month.
package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/robinvdvleuten/cardledger/ledger"
	"github.com/robinvdvleuten/cardledger/loader"
	"github.com/robinvdvleuten/cardledger/telemetry"
)

// Input names the files of a run and the policy applied to its accounts.
type Input struct {
	AccountsFile     string
	TransactionsFile string
	Config           ledger.AccountConfig
	StrictRouting    bool
	Loader           *loader.Loader
}

// Result is the outcome of a run.
type Result struct {
	Ledger *ledger.Ledger
	// Rejected holds the card numbers of accounts that failed the checksum.
	Rejected []string
	// Transactions holds every transaction read, in file order.
	Transactions []*ledger.Transaction
	// Denied holds the denied transactions in file order.
	Denied []*ledger.Transaction
	// Statements holds the month-end statement of every account.
	Statements map[string]*ledger.Statement
	// RowErrors holds the malformed rows skipped while loading.
	RowErrors []error
}

// Run loads both files, applies the transactions and closes the month on
// every account. Malformed rows do not stop the run; they are reported in
// Result.RowErrors.
func Run(ctx context.Context, in Input) (*Result, error) {
	if err := in.Config.Validate(); err != nil {
		return nil, err
	}

	ldr := in.Loader
	if ldr == nil {
		ldr = loader.New()
	}

	opts := []ledger.Option{ledger.WithAccountConfig(in.Config)}
	if in.StrictRouting {
		opts = append(opts, ledger.WithStrictRouting())
	}
	res := &Result{Ledger: ledger.New(opts...)}

	// The two files are independent until transactions are applied.
	load := telemetry.StartTimer(ctx, "batch.load")
	g, gctx := errgroup.WithContext(telemetry.WithTimer(ctx, load))

	var accountRows, transactionRows []error
	g.Go(func() error {
		rejected, err := ldr.LoadAccounts(gctx, in.AccountsFile, res.Ledger)
		res.Rejected = rejected
		accountRows, err = splitRowErrors(err)
		return err
	})
	g.Go(func() error {
		txns, err := ldr.LoadTransactions(gctx, in.TransactionsFile)
		res.Transactions = txns
		transactionRows, err = splitRowErrors(err)
		return err
	})
	err := g.Wait()
	load.End()
	if err != nil {
		return nil, err
	}
	res.RowErrors = append(accountRows, transactionRows...)

	res.Denied, err = res.Ledger.ApplyAll(ctx, res.Transactions)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transactions: %w", err)
	}

	res.Statements = res.Ledger.CloseMonths(ctx)
	return res, nil
}

// splitRowErrors separates the row errors carried by err from a failure that
// stops the run.
func splitRowErrors(err error) ([]error, error) {
	if err == nil {
		return nil, nil
	}
	var rowErrs *loader.RowErrors
	if errors.As(err, &rowErrs) {
		return rowErrs.Errors, nil
	}
	return nil, err
}
