package views

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Marker is a floating category icon on the home view. Its vertical offset
// tracks the page scroll position scaled by Speed.
type Marker struct {
	Name  string
	Icon  string
	Top   string
	Left  string
	Speed float64
}

// DefaultMarkers returns the six home view categories.
func DefaultMarkers() []Marker {
	return []Marker{
		{Name: "Your cause", Icon: "/static/img/your-cause.png", Top: "10%", Left: "18%", Speed: 0.2},
		{Name: "Medical", Icon: "/static/img/medical.png", Top: "28%", Left: "8%", Speed: 0.3},
		{Name: "Emergency", Icon: "/static/img/emergency.png", Top: "62%", Left: "18%", Speed: 0.15},
		{Name: "Education", Icon: "/static/img/education.png", Top: "10%", Left: "72%", Speed: 0.25},
		{Name: "Animal", Icon: "/static/img/animal.png", Top: "28%", Left: "82%", Speed: 0.35},
		{Name: "Business", Icon: "/static/img/business.png", Top: "62%", Left: "72%", Speed: 0.2},
	}
}

// Offset is the vertical translation at the given scroll position.
func (m Marker) Offset(scroll float64) float64 {
	return scroll * m.Speed
}

// Transform renders Offset as a CSS transform.
func (m Marker) Transform(scroll float64) string {
	return fmt.Sprintf("translateY(%spx)", strconv.FormatFloat(m.Offset(scroll), 'f', -1, 64))
}

// Counter animates a displayed total from zero to Target in Steps equal
// increments, one every Interval.
type Counter struct {
	Target   int64
	Steps    int
	Interval time.Duration
}

// DefaultCounter is the home view "raised by our community" counter.
func DefaultCounter() Counter {
	return Counter{Target: 2340000, Steps: 150, Interval: 20 * time.Millisecond}
}

// Value is the displayed value after step ticks. It never decreases, never
// exceeds Target and equals Target from step Steps on.
func (c Counter) Value(step int) int64 {
	if c.Target <= 0 {
		return 0
	}
	if c.Steps <= 0 || step >= c.Steps {
		return c.Target
	}
	if step <= 0 {
		return 0
	}
	return c.Target * int64(step) / int64(c.Steps)
}

// Done reports whether step has reached the end of the animation.
func (c Counter) Done(step int) bool {
	return c.Value(step) >= c.Target
}

// Run emits Value(1), Value(2), ... once per Interval until Target is emitted.
// It returns ctx.Err() if the context ends first, so a deactivated view stops
// its timer.
func (c Counter) Run(ctx context.Context, emit func(int64)) error {
	if c.Done(0) {
		emit(c.Value(0))
		return nil
	}

	interval := c.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for step := 1; ; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		emit(c.Value(step))
		if c.Done(step) {
			return nil
		}
	}
}
