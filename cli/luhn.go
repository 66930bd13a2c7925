package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/cardledger/luhn"
	"github.com/robinvdvleuten/cardledger/output"
)

type LuhnCmd struct {
	Numbers  []string `help:"Card numbers to check." arg:""`
	Complete bool     `help:"Treat each number as a payload and print it with its check digit appended."`
}

func (cmd *LuhnCmd) Run(ctx *kong.Context, globals *Globals) error {
	styles := output.NewStyles(ctx.Stdout)
	failed := 0

	for _, number := range cmd.Numbers {
		if cmd.Complete {
			digit, err := luhn.CheckDigit(number)
			if err != nil {
				printError(ctx.Stderr, fmt.Sprintf("%q: %v", number, err))
				failed++
				continue
			}
			_, _ = fmt.Fprintf(ctx.Stdout, "%s%d\n", number, digit)
			continue
		}

		if luhn.Valid(number) {
			printSuccess(ctx.Stdout, fmt.Sprintf("%s valid", styles.Card(number)))
		} else {
			printError(ctx.Stdout, fmt.Sprintf("%s invalid", number))
			failed++
		}
	}

	if failed > 0 {
		return NewCommandError(1)
	}
	return nil
}
