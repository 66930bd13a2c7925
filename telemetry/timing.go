package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/cardledger/output"
)

// TimingCollector builds a tree of timers. The first timer started becomes the
// root; later ones nest under whichever timer is still running.
type TimingCollector struct {
	mu      sync.Mutex
	root    *timerNode
	current *timerNode
	styles  *output.Styles
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

// CollectorOption configures a TimingCollector.
type CollectorOption func(*TimingCollector)

// WithStyles renders reports with terminal styling.
func WithStyles(styles *output.Styles) CollectorOption {
	return func(c *TimingCollector) {
		c.styles = styles
	}
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector(opts ...CollectorOption) *TimingCollector {
	c := &TimingCollector{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a timer.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now()}
	if c.root == nil {
		c.root = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Report writes the timing tree to w. Nothing is written before the first
// timer starts.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	formatTimingTree(w, c.root, c.styles)
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = c.now()
	if c.current == t.node && t.node.parent != nil {
		c.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: t.node}
	t.node.children = append(t.node.children, node)
	c.current = node

	return &timingTimer{collector: c, node: node}
}
