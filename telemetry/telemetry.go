// Package telemetry provides hierarchical timing collection for operations
// such as fetching, parsing and aggregating a ledger.
//
// Collectors travel through context so instrumentation stays out of function
// signatures. When no collector is present every call is a no-op.
//
// Example usage:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "repository.refresh")
//	defer timer.End()
//
//	child := timer.Child("parser.parse")
//	// ... work ...
//	child.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/jointledger/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects timings.
type Collector interface {
	// Start begins timing an operation and returns a Timer.
	Start(name string) Timer

	// Report outputs the collected telemetry to a writer. styles may be nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation's timing.
type Timer interface {
	// End stops the timer and records the duration.
	End()

	// Child creates a nested timer under this timer.
	Child(name string) Timer
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, returns a collector that does nothing.
func FromContext(ctx context.Context) Collector {
	if ctx == nil {
		return noOpCollector{}
	}
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer starts a timer on the collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}
