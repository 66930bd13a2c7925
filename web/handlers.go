package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/cardledger/ledger"
)

func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// StatusResponse describes the last run.
type StatusResponse struct {
	Version      string    `json:"version"`
	CommitSHA    string    `json:"commitSha"`
	LoadedAt     time.Time `json:"loadedAt"`
	Accounts     int       `json:"accounts"`
	Transactions int       `json:"transactions"`
	Denied       int       `json:"denied"`
	Rejected     []string  `json:"rejected"`
	RowErrors    []string  `json:"rowErrors"`
}

// AccountInfo is an account after the month was closed.
type AccountInfo struct {
	Card      string          `json:"card"`
	Holder    string          `json:"holder"`
	Balance   decimal.Decimal `json:"balance"`
	Limit     decimal.Decimal `json:"limit"`
	Overdrawn bool            `json:"overdrawn"`
}

type AccountsResponse struct {
	Accounts []AccountInfo `json:"accounts"`
}

// StatementInfo is the rendered statement of one account.
type StatementInfo struct {
	Card   string `json:"card"`
	Holder string `json:"holder"`
	Text   string `json:"text"`
}

type StatementsResponse struct {
	Statements []StatementInfo `json:"statements"`
}

// DenialInfo is a denied transaction.
type DenialInfo struct {
	ID     string          `json:"id"`
	Card   string          `json:"card"`
	Date   string          `json:"date"`
	Vendor string          `json:"vendor"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"kind"`
	Reason string          `json:"reason"`
}

type DenialsResponse struct {
	Denials []DenialInfo `json:"denials"`
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := &StatusResponse{
		Version:      s.Version,
		CommitSHA:    s.CommitSHA,
		LoadedAt:     s.loadedAt,
		Accounts:     s.result.Ledger.Len(),
		Transactions: len(s.result.Transactions),
		Denied:       len(s.result.Denied),
		Rejected:     make([]string, 0, len(s.result.Rejected)),
		RowErrors:    make([]string, 0, len(s.result.RowErrors)),
	}
	for _, cardNumber := range s.result.Rejected {
		resp.Rejected = append(resp.Rejected, ledger.MaskCardNumber(cardNumber))
	}
	for _, err := range s.result.RowErrors {
		resp.RowErrors = append(resp.RowErrors, err.Error())
	}

	writeJSONResponse(w, resp)
}

// handleGetAccounts returns every account sorted by card number, with the
// card number masked.
func (s *Server) handleGetAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]AccountInfo, 0, s.result.Ledger.Len())
	for _, account := range s.result.Ledger.Accounts() {
		limit := account.Config().Limit
		accounts = append(accounts, AccountInfo{
			Card:      ledger.MaskCardNumber(account.CardNumber()),
			Holder:    account.Holder(),
			Balance:   account.Balance(),
			Limit:     limit,
			Overdrawn: account.Balance().GreaterThan(limit),
		})
	}

	writeJSONResponse(w, &AccountsResponse{Accounts: accounts})
}

func (s *Server) handleGetStatements(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := maps.Keys(s.result.Statements)
	slices.Sort(cards)

	statements := make([]StatementInfo, 0, len(cards))
	for _, card := range cards {
		stmt := s.result.Statements[card]
		statements = append(statements, StatementInfo{
			Card:   ledger.MaskCardNumber(card),
			Holder: stmt.Holder,
			Text:   stmt.String(),
		})
	}

	writeJSONResponse(w, &StatementsResponse{Statements: statements})
}

// handleGetDenials returns the denied transactions in file order.
func (s *Server) handleGetDenials(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	denials := make([]DenialInfo, 0, len(s.result.Denied))
	for _, t := range s.result.Denied {
		info := DenialInfo{
			ID:     t.ID,
			Card:   ledger.MaskCardNumber(t.CardNumber),
			Date:   t.Date.Format(time.DateOnly),
			Vendor: t.Vendor,
			Amount: t.Amount,
			Reason: t.DenialReason(),
		}
		if d := t.Denial(); d != nil {
			info.Kind = d.Kind.String()
		}
		denials = append(denials, info)
	}

	writeJSONResponse(w, &DenialsResponse{Denials: denials})
}
