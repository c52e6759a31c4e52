package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/jointledger/output"
)

// TimingCollector collects hierarchical timing data. Top-level timers that
// start while another is running nest under it; once every timer has ended
// the next top-level timer becomes a new root.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	children []*timerNode
	parent   *timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Span is a finished or running timer as seen by Spans.
type Span struct {
	Name     string
	Duration time.Duration
	Children []Span
}

// Spans returns a copy of the recorded timing tree.
func (c *TimingCollector) Spans() []Span {
	c.mu.Lock()
	defer c.mu.Unlock()

	return copySpans(c.roots)
}

func copySpans(nodes []*timerNode) []Span {
	if len(nodes) == 0 {
		return nil
	}
	spans := make([]Span, 0, len(nodes))
	for _, n := range nodes {
		spans = append(spans, Span{
			Name:     n.name,
			Duration: n.duration(),
			Children: copySpans(n.children),
		})
	}
	return spans
}

// Report outputs the timing tree to a writer.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
	once      sync.Once
}

// End stops the timer. Calling End more than once has no further effect.
func (t *timingTimer) End() {
	t.once.Do(func() {
		t.collector.mu.Lock()
		defer t.collector.mu.Unlock()

		t.node.end = t.collector.now()
		if t.collector.current == t.node {
			t.collector.current = t.node.parent
		}
	})
}

// Child creates a timer nested under this one regardless of which timer is
// current.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{
		name:   name,
		start:  t.collector.now(),
		parent: t.node,
	}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}
