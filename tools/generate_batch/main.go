// Batch Input Generator
//
// This tool writes a large accounts file and transactions file for performance
// testing and profiling. A share of the card numbers fail the checksum and a
// share of the purchases push accounts past their limit, so every denial path
// is exercised.
//
// Usage:
//
//	go run main.go ./testdata
//	go run main.go ./testdata 10000 1000000  # accounts, transactions
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robinvdvleuten/cardledger/luhn"
)

const (
	defaultAccounts     = 1000
	defaultTransactions = 100000
)

var (
	holders = []string{
		"Ada Lovelace", "Grace Hopper", "Alan Turing", "Edsger Dijkstra",
		"Barbara Liskov", "Donald Knuth", "Margaret Hamilton", "Ken Thompson",
		"Frances Allen", "John Backus", "Radia Perlman", "Niklaus Wirth",
	}

	vendors = []string{
		"Whole Foods", "Safeway", "Trader Joe's", "Costco",
		"Shell Gas", "Chevron", "BART", "Uber",
		"Amazon", "Target", "Best Buy", "Apple Store",
		"Netflix", "Spotify", "AMC Theaters", "Blue Bottle",
	}

	// Issuer prefixes, padded with random digits to 15 before the check digit.
	prefixes = []string{"4", "51", "52", "34", "37", "6011"}
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: generate_batch DIR [ACCOUNTS] [TRANSACTIONS]")
		os.Exit(1)
	}
	dir := os.Args[1]

	accountCount := defaultAccounts
	if len(os.Args) > 2 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil {
			accountCount = n
		}
	}
	transactionCount := defaultTransactions
	if len(os.Args) > 3 {
		if n, err := strconv.Atoi(os.Args[3]); err == nil {
			transactionCount = n
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cards := make([]string, accountCount)
	for i := range cards {
		cards[i] = generateCardNumber()
	}

	if err := writeAccounts(filepath.Join(dir, "accounts.csv"), cards); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := writeTransactions(filepath.Join(dir, "transactions.csv"), cards, transactionCount); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generated %d accounts and %d transactions in %s\n", accountCount, transactionCount, dir)
}

// generateCardNumber returns a 16 digit number. One in twenty fails the
// checksum.
func generateCardNumber() string {
	payload := prefixes[rand.Intn(len(prefixes))]
	for len(payload) < 15 {
		payload += strconv.Itoa(rand.Intn(10))
	}

	digit, err := luhn.CheckDigit(payload)
	if err != nil {
		panic(err)
	}
	if rand.Intn(20) == 0 {
		digit = (digit + 1 + rand.Intn(9)) % 10
	}
	return payload + strconv.Itoa(digit)
}

func writeAccounts(path string, cards []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	_, _ = fmt.Fprintln(w, "cardNumber,holderName,balance")
	for _, card := range cards {
		balance := float64(rand.Intn(400000)) / 100
		_, _ = fmt.Fprintf(w, "%s,%s,%.2f\n", card, holders[rand.Intn(len(holders))], balance)
	}
	return w.Flush()
}

func writeTransactions(path string, cards []string, count int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	_, _ = fmt.Fprintln(w, "id,cardNumber,date,vendor,amount")

	start := time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, rand.Intn(31))
		amount := float64(rand.Intn(50000)) / 100
		if rand.Intn(50) == 0 {
			amount *= 20
		}
		_, _ = fmt.Fprintf(w, "T%d,%s,%s,%s,%.2f\n",
			i+1,
			cards[rand.Intn(len(cards))],
			date.Format("2006-01-02"),
			vendors[rand.Intn(len(vendors))],
			amount,
		)
	}
	return w.Flush()
}
