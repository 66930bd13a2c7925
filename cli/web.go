package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cardledger/batch"
	"github.com/robinvdvleuten/cardledger/web"
)

type WebCmd struct {
	Accounts     string `help:"Accounts CSV file." arg:"" type:"existingfile"`
	Transactions string `help:"Transactions CSV file." arg:"" type:"existingfile"`
	Port         int    `help:"Port to listen on." default:"8080" env:"CARDLEDGER_PORT"`
	NoWatch      bool   `help:"Do not reload when an input file changes."`

	PolicyFlags `embed:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg := cmd.accountConfig()
	if err := cfg.Validate(); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(2)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCtx, report := withTelemetry(runCtx, globals.Telemetry, ctx.Stderr, "web")
	defer report()

	version, commitSHA := buildVersion()
	server := web.NewWithVersion(cmd.Port, batch.Input{
		AccountsFile:     cmd.Accounts,
		TransactionsFile: cmd.Transactions,
		Config:           cfg,
		StrictRouting:    cmd.StrictRouting,
	}, version, commitSHA)
	server.WatchEnabled = !cmd.NoWatch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving %s and %s", pathStyle.Render(cmd.Accounts), pathStyle.Render(cmd.Transactions))

	return server.Start(runCtx)
}
