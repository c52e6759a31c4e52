package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	_, ok := collector.(noOpCollector)
	assert.True(t, ok)
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector)
}

func TestStartTimerNests(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	outer := StartTimer(ctx, "repository.refresh")
	inner := StartTimer(ctx, "parser.parse")
	inner.End()
	outer.End()

	next := StartTimer(ctx, "report.trends")
	next.End()

	spans := collector.Spans()
	assert.Equal(t, 2, len(spans))
	assert.Equal(t, "repository.refresh", spans[0].Name)
	assert.Equal(t, 1, len(spans[0].Children))
	assert.Equal(t, "parser.parse", spans[0].Children[0].Name)
	assert.Equal(t, time.Millisecond, spans[0].Children[0].Duration)
	assert.Equal(t, 3*time.Millisecond, spans[0].Duration)
	assert.Equal(t, "report.trends", spans[1].Name)
}

func TestEndIsIdempotent(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)

	timer := collector.Start("a")
	timer.End()
	timer.End()

	assert.Equal(t, time.Millisecond, collector.Spans()[0].Duration)
}

func TestReport(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)

	root := collector.Start("total")
	fetch := root.Child("fetch")
	fetch.End()
	parse := root.Child("parse")
	parse.Child("budgets").End()
	parse.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	want := "total: 7ms\n" +
		"├─ fetch: 1ms\n" +
		"└─ parse: 3ms\n" +
		"   └─ budgets: 1ms\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "12ms", formatDuration(12*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}
