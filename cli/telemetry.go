package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/robinvdvleuten/cardledger/output"
	"github.com/robinvdvleuten/cardledger/telemetry"
)

// withTelemetry installs a timing collector on ctx when enabled and returns a
// report function that ends the root timer and prints the tree to w once.
func withTelemetry(ctx context.Context, enabled bool, w io.Writer, name string) (context.Context, func()) {
	if !enabled {
		return ctx, func() {}
	}

	collector := telemetry.NewTimingCollector(telemetry.WithStyles(output.NewStyles(w)))
	ctx = telemetry.WithCollector(ctx, collector)
	timer := collector.Start(name)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			timer.End()
			_, _ = fmt.Fprintln(w)
			collector.Report(w)
		})
	}
}
