// Package loader reads accounts and transactions from delimited text files.
//
// Both formats start with a header row that is skipped:
//
//	cardNumber,holderName,balance
//	4012888888881881,Ada Lovelace,125.50
//
//	id,cardNumber,date,vendor,amount
//	T1,4012888888881881,2017-10-20,Acme,8.35
//
// Malformed rows are skipped and reported together as *RowErrors alongside
// whatever rows could be read, so one bad line never hides the rest of the
// file.
//
// Example usage:
//
//	ldr := loader.New()
//	l := ledger.New()
//	rejected, err := ldr.LoadAccounts(ctx, "accounts.csv", l)
//	txns, err := ldr.LoadTransactions(ctx, "transactions.csv")
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/cardledger/ledger"
	"github.com/robinvdvleuten/cardledger/telemetry"
)

// DefaultDateLayout is the layout of transaction dates.
const DefaultDateLayout = "2006-01-02"

const (
	accountFields     = 3
	transactionFields = 5
)

// Loader reads account and transaction files.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithComma(';'))
type Loader struct {
	comma      rune
	dateLayout string
}

// Option configures a Loader.
type Option func(*Loader)

// WithComma sets the field delimiter. The default is ','.
func WithComma(r rune) Option {
	return func(l *Loader) {
		l.comma = r
	}
}

// WithDateLayout sets the time layout used to parse transaction dates.
func WithDateLayout(layout string) Option {
	return func(l *Loader) {
		l.dateLayout = layout
	}
}

// New creates a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		comma:      ',',
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AccountRecord is one row of an accounts file.
type AccountRecord struct {
	CardNumber string
	Holder     string
	Balance    decimal.Decimal
	Line       int
}

// LoadAccounts reads filename and loads every account into l. It returns the
// card numbers rejected by the checksum, in file order. Row errors are returned
// as *RowErrors after all valid rows have been loaded.
func (l *Loader) LoadAccounts(ctx context.Context, filename string, led *ledger.Ledger) ([]string, error) {
	timer := telemetry.StartTimer(ctx, "loader.accounts "+filepath.Base(filename))
	defer timer.End()

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open accounts file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, rowErr := l.ReadAccounts(ctx, f, filename)
	if rowErr != nil && !isRowErrors(rowErr) {
		return nil, rowErr
	}

	var rejected []string
	for _, rec := range records {
		if !led.LoadAccount(rec.CardNumber, rec.Holder, rec.Balance) {
			rejected = append(rejected, rec.CardNumber)
		}
	}
	return rejected, rowErr
}

// ReadAccounts parses an accounts file from r. name is used in error messages.
func (l *Loader) ReadAccounts(ctx context.Context, r io.Reader, name string) ([]AccountRecord, error) {
	var records []AccountRecord
	err := l.readRows(ctx, r, name, accountFields, func(line int, fields []string) error {
		balance, err := decimal.NewFromString(fields[2])
		if err != nil {
			return fmt.Errorf("invalid balance %q", fields[2])
		}
		records = append(records, AccountRecord{
			CardNumber: fields[0],
			Holder:     fields[1],
			Balance:    balance,
			Line:       line,
		})
		return nil
	})
	return records, err
}

// LoadTransactions reads filename and returns its transactions in file order.
// Row errors are returned as *RowErrors together with the valid transactions.
func (l *Loader) LoadTransactions(ctx context.Context, filename string) ([]*ledger.Transaction, error) {
	timer := telemetry.StartTimer(ctx, "loader.transactions "+filepath.Base(filename))
	defer timer.End()

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open transactions file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return l.ReadTransactions(ctx, f, filename)
}

// ReadTransactions parses a transactions file from r. name is used in error
// messages.
func (l *Loader) ReadTransactions(ctx context.Context, r io.Reader, name string) ([]*ledger.Transaction, error) {
	var txns []*ledger.Transaction
	err := l.readRows(ctx, r, name, transactionFields, func(_ int, fields []string) error {
		date, err := time.Parse(l.dateLayout, fields[2])
		if err != nil {
			return fmt.Errorf("invalid date %q, expected layout %s", fields[2], l.dateLayout)
		}
		amount, err := decimal.NewFromString(fields[4])
		if err != nil {
			return fmt.Errorf("invalid amount %q", fields[4])
		}
		if amount.IsNegative() {
			return fmt.Errorf("negative amount %s", amount)
		}
		txns = append(txns, ledger.NewTransaction(fields[0], fields[1], date, fields[3], amount))
		return nil
	})
	return txns, err
}

// readRows skips the header and calls parse for every row with the expected
// number of fields. Rows that fail are collected as row errors.
func (l *Loader) readRows(ctx context.Context, r io.Reader, name string, fields int, parse func(line int, fields []string) error) error {
	cr := csv.NewReader(r)
	cr.Comma = l.comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rowErrs []error
	header := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrs = append(rowErrs, &RowError{File: name, Line: parseErr.StartLine, Err: parseErr.Err})
				header = false
				continue
			}
			return fmt.Errorf("failed to read %s: %w", name, err)
		}

		line, _ := cr.FieldPos(0)
		if header {
			header = false
			continue
		}

		if len(record) != fields {
			rowErrs = append(rowErrs, &RowError{
				File: name,
				Line: line,
				Err:  fmt.Errorf("expected %d fields, got %d", fields, len(record)),
			})
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		if err := parse(line, record); err != nil {
			rowErrs = append(rowErrs, &RowError{File: name, Line: line, Err: err})
		}
	}

	if len(rowErrs) > 0 {
		return &RowErrors{Errors: rowErrs}
	}
	return nil
}

func isRowErrors(err error) bool {
	var rowErrs *RowErrors
	return errors.As(err, &rowErrs)
}
