package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/cardledger/ledger"
	"github.com/robinvdvleuten/cardledger/loader"
	"github.com/robinvdvleuten/cardledger/output"
)

const denialSeparator = "-----------------------------------------------------"

// renderRowErrors lists the rows skipped while loading, location first.
func renderRowErrors(w io.Writer, styles *output.Styles, errs []error) {
	if len(errs) == 0 {
		return
	}

	printWarning(w, fmt.Sprintf("Skipped %d malformed row(s):", len(errs)))
	for _, err := range errs {
		var rowErr *loader.RowError
		if errors.As(err, &rowErr) {
			location := fmt.Sprintf("%s:%d", rowErr.File, rowErr.Line)
			_, _ = fmt.Fprintf(w, "\t%s %v\n", styles.FilePath(location), rowErr.Err)
			continue
		}
		_, _ = fmt.Fprintf(w, "\t%v\n", err)
	}
}

// renderRejected lists the account card numbers that failed the checksum.
func renderRejected(w io.Writer, styles *output.Styles, rejected []string) {
	if len(rejected) == 0 {
		return
	}

	printError(w, fmt.Sprintf("The following %d account numbers are invalid. No accounts created:", len(rejected)))
	for _, cardNumber := range rejected {
		_, _ = fmt.Fprintf(w, "\t%s\n", styles.Card(cardNumber))
	}
}

// renderDenied lists denied transactions with the reason for each.
func renderDenied(w io.Writer, styles *output.Styles, denied []*ledger.Transaction) {
	if len(denied) == 0 {
		return
	}

	var buf strings.Builder
	buf.WriteString("The following transactions were denied:\n")
	for _, t := range denied {
		buf.WriteString(denialSeparator)
		buf.WriteByte('\n')
		buf.WriteString(t.String())
		buf.WriteByte('\n')
		buf.WriteString(styles.Keyword("Reason:"))
		buf.WriteByte(' ')
		buf.WriteString(styles.Error(t.DenialReason()))
		buf.WriteByte('\n')
	}
	buf.WriteString(denialSeparator)
	buf.WriteByte('\n')

	_, _ = io.WriteString(w, buf.String())
}
