// Package statement writes month-end statements to files.
package statement

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/cardledger/ledger"
	"github.com/robinvdvleuten/cardledger/telemetry"
)

// Separator precedes the first statement and follows every statement.
const Separator = "******************************************************"

// Write writes the statements to w ordered by card number, each followed by
// Separator.
func Write(w io.Writer, statements map[string]*ledger.Statement) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, Separator); err != nil {
		return err
	}

	cards := maps.Keys(statements)
	slices.Sort(cards)
	for _, card := range cards {
		if _, err := io.WriteString(bw, statements[card].String()); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(bw, Separator); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteFile creates or truncates path and writes the statements to it.
func WriteFile(ctx context.Context, path string, statements map[string]*ledger.Statement) error {
	timer := telemetry.StartTimer(ctx, "statement.write "+filepath.Base(path))
	defer timer.End()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create statements file: %w", err)
	}

	if err := Write(f, statements); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write statements: %w", err)
	}
	return f.Close()
}
