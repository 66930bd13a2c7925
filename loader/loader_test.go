package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/cardledger/ledger"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func rowErrors(t *testing.T, err error) []*RowError {
	t.Helper()
	var rowErrs *RowErrors
	assert.True(t, errors.As(err, &rowErrs), "expected *RowErrors, got %v", err)

	out := make([]*RowError, 0, len(rowErrs.Errors))
	for _, e := range rowErrs.Errors {
		var rowErr *RowError
		assert.True(t, errors.As(e, &rowErr))
		out = append(out, rowErr)
	}
	return out
}

func TestReadAccounts(t *testing.T) {
	source := `cardNumber,holderName,balance
4012888888881881,Ada Lovelace,125.50
4111111111111111, Grace Hopper ,0
5555555555554444,Alan Turing,-20
`
	records, err := New().ReadAccounts(context.Background(), strings.NewReader(source), "accounts.csv")
	assert.NoError(t, err)
	assert.Equal(t, 3, len(records))

	assert.Equal(t, "4012888888881881", records[0].CardNumber)
	assert.Equal(t, "Ada Lovelace", records[0].Holder)
	assert.Equal(t, "125.5", records[0].Balance.String())
	assert.Equal(t, 2, records[0].Line)

	assert.Equal(t, "Grace Hopper", records[1].Holder)
	assert.Equal(t, "-20", records[2].Balance.String())
	assert.Equal(t, 4, records[2].Line)
}

func TestReadAccountsRowErrors(t *testing.T) {
	source := `cardNumber,holderName,balance
4012888888881881,Ada Lovelace,abc
4111111111111111,Grace Hopper
5555555555554444,Alan Turing,10
`
	records, err := New().ReadAccounts(context.Background(), strings.NewReader(source), "accounts.csv")
	assert.Equal(t, 1, len(records))
	assert.Equal(t, "5555555555554444", records[0].CardNumber)

	errs := rowErrors(t, err)
	assert.Equal(t, 2, len(errs))
	assert.Equal(t, `accounts.csv:2: invalid balance "abc"`, errs[0].Error())
	assert.Equal(t, "accounts.csv:3: expected 3 fields, got 2", errs[1].Error())
	assert.Equal(t, "2 malformed rows", err.Error())
}

func TestReadTransactions(t *testing.T) {
	source := `id,cardNumber,date,vendor,amount
T1,4012888888881881,2017-10-20,Acme,8.35
T2,0000000000000001,2017-10-21,"Globex, Inc.",100
`
	txns, err := New().ReadTransactions(context.Background(), strings.NewReader(source), "transactions.csv")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txns))

	assert.Equal(t, "T1", txns[0].ID)
	assert.Equal(t, "4012888888881881", txns[0].CardNumber)
	assert.Equal(t, time.Date(2017, 10, 20, 0, 0, 0, 0, time.UTC), txns[0].Date)
	assert.Equal(t, "Acme", txns[0].Vendor)
	assert.Equal(t, "8.35", txns[0].Amount.String())
	assert.True(t, txns[0].Valid())

	assert.Equal(t, "Globex, Inc.", txns[1].Vendor)
}

func TestReadTransactionsSkipsMalformedRows(t *testing.T) {
	source := `id,cardNumber,date,vendor,amount
T1,4012888888881881,20/10/2017,Acme,8.35
T2,4012888888881881,2017-10-21,Acme,ten
T3,4012888888881881,2017-10-22,Acme,-1
T4,4012888888881881,2017-10-23,Acme
T5,4012888888881881,2017-10-24,Ac"me,1
T6,4012888888881881,2017-10-25,Acme,2.50
`
	txns, err := New().ReadTransactions(context.Background(), strings.NewReader(source), "transactions.csv")
	assert.Equal(t, 1, len(txns))
	assert.Equal(t, "T6", txns[0].ID)

	errs := rowErrors(t, err)
	assert.Equal(t, 5, len(errs))
	var lines []int
	for _, e := range errs {
		lines = append(lines, e.GetLine())
	}
	assert.Equal(t, []int{2, 3, 4, 5, 6}, lines)
	assert.Contains(t, errs[0].Error(), `invalid date "20/10/2017"`)
	assert.Contains(t, errs[2].Error(), "negative amount -1")
}

func TestReadTransactionsHeaderOnly(t *testing.T) {
	txns, err := New().ReadTransactions(context.Background(), strings.NewReader("id,cardNumber,date,vendor,amount\n"), "t.csv")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(txns))

	txns, err = New().ReadTransactions(context.Background(), strings.NewReader(""), "t.csv")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(txns))
}

func TestLoaderOptions(t *testing.T) {
	source := `id;cardNumber;date;vendor;amount
T1;4012888888881881;20.10.2017;Acme;8.35
`
	ldr := New(WithComma(';'), WithDateLayout("02.01.2006"))
	txns, err := ldr.ReadTransactions(context.Background(), strings.NewReader(source), "t.csv")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(txns))
	assert.Equal(t, time.Date(2017, 10, 20, 0, 0, 0, 0, time.UTC), txns[0].Date)
}

func TestLoadAccounts(t *testing.T) {
	path := writeFile(t, "accounts.csv", `cardNumber,holderName,balance
4012888888881881,Ada Lovelace,100
4012888888881882,Bad Checksum,0
4111111111111111,Grace Hopper,oops
1234567812345678,Also Bad,0
5555555555554444,Alan Turing,0
`)

	l := ledger.New()
	rejected, err := New().LoadAccounts(context.Background(), path, l)

	assert.Equal(t, []string{"4012888888881882", "1234567812345678"}, rejected)
	assert.Equal(t, 1, len(rowErrors(t, err)))
	assert.Equal(t, 2, l.Len())

	acc, ok := l.Account("4012888888881881")
	assert.True(t, ok)
	assert.Equal(t, "100", acc.Balance().String())
}

func TestLoadAccountsMissingFile(t *testing.T) {
	_, err := New().LoadAccounts(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), ledger.New())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTransactions(t *testing.T) {
	path := writeFile(t, "transactions.csv", `id,cardNumber,date,vendor,amount
T1,4012888888881881,2017-10-20,Acme,8.35
T2,4012888888881881,2017-10-21,Globex,1.65
`)

	txns, err := New().LoadTransactions(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txns))
	assert.Equal(t, "T2", txns[1].ID)
}

func TestLoadTransactionsCancelled(t *testing.T) {
	path := writeFile(t, "transactions.csv", "id,cardNumber,date,vendor,amount\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().LoadTransactions(ctx, path)
	assert.IsError(t, err, context.Canceled)
}
