package ledger

import "fmt"

// DenialKind enumerates the reasons a transaction can be denied.
type DenialKind int

const (
	// DenialInvalidCardNumber means the card number failed the Luhn checksum.
	DenialInvalidCardNumber DenialKind = iota + 1
	// DenialAccountMismatch means the transaction was routed to an account
	// with a different card number.
	DenialAccountMismatch
	// DenialLimitExceeded means accepting the transaction would push the
	// balance past the limit plus the overdraft allowance.
	DenialLimitExceeded
	// DenialUnroutable means no account exists for a well-formed card number.
	// Only produced when the ledger routes strictly.
	DenialUnroutable
)

var denialMessages = map[DenialKind]string{
	DenialInvalidCardNumber: "Invalid account number %s",
	DenialAccountMismatch:   "The given transaction does not match with the card number.",
	DenialLimitExceeded:     "Account Limit Exceeds.",
	DenialUnroutable:        "No account found for card number %s",
}

// String returns a short identifier for the kind.
func (k DenialKind) String() string {
	switch k {
	case DenialInvalidCardNumber:
		return "invalid_card_number"
	case DenialAccountMismatch:
		return "account_mismatch"
	case DenialLimitExceeded:
		return "limit_exceeded"
	case DenialUnroutable:
		return "unroutable"
	default:
		return "unknown"
	}
}

// Denial records why a transaction was refused. It implements error so it can
// travel through error returns and be matched with errors.As.
type Denial struct {
	Kind       DenialKind
	CardNumber string
}

func newDenial(kind DenialKind, cardNumber string) *Denial {
	return &Denial{Kind: kind, CardNumber: cardNumber}
}

// Reason returns the human readable message for the denial. A nil denial has
// no reason.
func (d *Denial) Reason() string {
	if d == nil {
		return ""
	}
	switch d.Kind {
	case DenialInvalidCardNumber, DenialUnroutable:
		return fmt.Sprintf(denialMessages[d.Kind], d.CardNumber)
	default:
		if msg, ok := denialMessages[d.Kind]; ok {
			return msg
		}
		return "Transaction denied."
	}
}

func (d *Denial) Error() string {
	return d.Reason()
}

// Is matches another *Denial of the same kind, so errors.Is can test for a
// kind without caring about the card number.
func (d *Denial) Is(target error) bool {
	if d == nil {
		return false
	}
	t, ok := target.(*Denial)
	return ok && t != nil && t.Kind == d.Kind && (t.CardNumber == "" || t.CardNumber == d.CardNumber)
}

// Sentinel denials for use with errors.Is.
var (
	ErrInvalidCardNumber = &Denial{Kind: DenialInvalidCardNumber}
	ErrAccountMismatch   = &Denial{Kind: DenialAccountMismatch}
	ErrLimitExceeded     = &Denial{Kind: DenialLimitExceeded}
	ErrUnroutable        = &Denial{Kind: DenialUnroutable}
)
