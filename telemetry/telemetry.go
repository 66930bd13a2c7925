// Package telemetry records how long the stages of a run take.
//
// A Collector travels through the context, so instrumented code asks for it
// with FromContext and never needs it as a parameter. Without a collector the
// context yields a no-op implementation.
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "process")
//	load := timer.Child("load accounts")
//	// ...
//	load.End()
//	timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"io"
)

type (
	contextKey struct{}
	timerKey   struct{}
)

// Collector gathers timers and reports them.
type Collector interface {
	// Start begins a timer nested under the most recent unfinished one.
	Start(name string) Timer

	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer measures a single operation.
type Timer interface {
	// End stops the timer.
	End()

	// Child starts a timer nested under this one.
	Child(name string) Timer
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

// FromContext returns the collector carried by ctx, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(contextKey{}).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// WithTimer returns a context whose timers nest under parent. Concurrent work
// needs it, as the most recently started timer is not always the parent.
func WithTimer(ctx context.Context, parent Timer) context.Context {
	return context.WithValue(ctx, timerKey{}, parent)
}

// StartTimer starts a timer under the parent set with WithTimer, or on the
// collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	if parent, ok := ctx.Value(timerKey{}).(Timer); ok {
		return parent.Child(name)
	}
	return FromContext(ctx).Start(name)
}
