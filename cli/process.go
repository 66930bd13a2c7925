package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cardledger/batch"
	"github.com/robinvdvleuten/cardledger/output"
	"github.com/robinvdvleuten/cardledger/statement"
	"github.com/robinvdvleuten/cardledger/watch"
)

type ProcessCmd struct {
	Accounts     string `help:"Accounts CSV file (cardNumber,holderName,balance)." arg:"" type:"existingfile"`
	Transactions string `help:"Transactions CSV file (id,cardNumber,date,vendor,amount)." arg:"" type:"existingfile"`
	Statements   string `help:"File to write the month-end statements to." arg:"" type:"path"`

	PolicyFlags `embed:""`

	Force bool `help:"Overwrite the statements file without asking." short:"f"`
	Watch bool `help:"Process again whenever an input file changes." short:"w"`
}

func (cmd *ProcessCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.accountConfig().Validate(); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(2)
	}

	if _, err := os.Stat(cmd.Statements); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", cmd.Statements))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printError(ctx.Stderr, fmt.Sprintf("%s already exists, use --force to overwrite", cmd.Statements))
			return NewCommandError(1)
		}
	}

	runCtx := context.Background()

	if !cmd.Watch {
		runCtx, report := withTelemetry(runCtx, globals.Telemetry, ctx.Stderr,
			fmt.Sprintf("process %s", filepath.Base(cmd.Transactions)))
		defer report()

		if err := cmd.process(runCtx, ctx.Stdout, ctx.Stderr); err != nil {
			printError(ctx.Stderr, err.Error())
			report()
			return NewCommandError(1)
		}
		return nil
	}

	runCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	w, err := watch.New([]string{cmd.Accounts, cmd.Transactions})
	if err != nil {
		return err
	}

	cmd.processOnce(runCtx, ctx, globals)
	printInfof(ctx.Stdout, "Watching %s and %s for changes",
		pathStyle.Render(cmd.Accounts), pathStyle.Render(cmd.Transactions))

	w.Run(runCtx, func(runCtx context.Context) {
		printInfof(ctx.Stdout, "Input changed, processing again")
		cmd.processOnce(runCtx, ctx, globals)
	})
	return nil
}

// processOnce runs one pass in watch mode, where failures are reported but
// never end the command.
func (cmd *ProcessCmd) processOnce(runCtx context.Context, ctx *kong.Context, globals *Globals) {
	runCtx, report := withTelemetry(runCtx, globals.Telemetry, ctx.Stderr,
		fmt.Sprintf("process %s", filepath.Base(cmd.Transactions)))
	defer report()

	if err := cmd.process(runCtx, ctx.Stdout, ctx.Stderr); err != nil {
		printError(ctx.Stderr, err.Error())
	}
}

func (cmd *ProcessCmd) process(ctx context.Context, stdout, stderr io.Writer) error {
	printInfof(stdout, "Loading accounts from %s", pathStyle.Render(cmd.Accounts))

	res, err := batch.Run(ctx, batch.Input{
		AccountsFile:     cmd.Accounts,
		TransactionsFile: cmd.Transactions,
		Config:           cmd.accountConfig(),
		StrictRouting:    cmd.StrictRouting,
	})
	if err != nil {
		return err
	}

	styles := output.NewStyles(stdout)
	renderRowErrors(stderr, output.NewStyles(stderr), res.RowErrors)
	renderRejected(stdout, styles, res.Rejected)
	renderDenied(stdout, styles, res.Denied)

	printInfof(stdout, "Writing statements to %s ...", pathStyle.Render(cmd.Statements))
	if err := statement.WriteFile(ctx, cmd.Statements, res.Statements); err != nil {
		return err
	}

	printSuccess(stdout, fmt.Sprintf("Wrote %d statement(s), %d of %d transaction(s) denied",
		len(res.Statements), len(res.Denied), len(res.Transactions)))
	return nil
}
