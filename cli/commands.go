package cli

import (
	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cardledger/ledger"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool            `help:"Show timing telemetry for operations." env:"CARDLEDGER_TELEMETRY"`
	Config    kong.ConfigFlag `help:"Read flag defaults from a JSON file." placeholder:"FILE"`
}

type Commands struct {
	Globals

	Process ProcessCmd `cmd:"" help:"Apply a month of transactions to accounts and write statements."`
	Luhn    LuhnCmd    `cmd:"" help:"Check card numbers against the Luhn checksum."`
	Dump    DumpCmd    `cmd:"" help:"Print the parsed contents of an accounts and a transactions file."`
	Web     WebCmd     `cmd:"" help:"Serve the processed month over HTTP."`
}

// PolicyFlags configure the accounts of a run.
type PolicyFlags struct {
	Limit         DecimalFlag `help:"Credit limit of every account." default:"5000.00" env:"CARDLEDGER_LIMIT"`
	Overdraft     DecimalFlag `help:"Amount an account may go past its limit." default:"1000.00" env:"CARDLEDGER_OVERDRAFT"`
	RebateRate    DecimalFlag `help:"Share of the monthly purchases refunded at month end." default:"0.02" env:"CARDLEDGER_REBATE_RATE"`
	StrictRouting bool        `help:"Deny transactions whose card number has no account instead of dropping them." env:"CARDLEDGER_STRICT_ROUTING"`
}

func (p PolicyFlags) accountConfig() ledger.AccountConfig {
	return ledger.AccountConfig{
		Limit:      p.Limit.Decimal(),
		Overdraft:  p.Overdraft.Decimal(),
		RebateRate: p.RebateRate.Decimal(),
	}
}

func buildVersion() (version, commitSHA string) {
	version = Version
	if version == "" {
		version = "dev"
	}
	commitSHA = CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}
	return version, commitSHA
}
