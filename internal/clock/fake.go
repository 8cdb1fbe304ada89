package clock

import "time"

// FakeClock returns a fixed instant, letting tests pin an audit run just
// before or just after the 04:00 business-day cutover.
type FakeClock struct {
	current time.Time
}

// NewFakeClock freezes the clock at t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t.UTC()}
}

func (c *FakeClock) Now() time.Time { return c.current }

// Advance moves the frozen instant forward, e.g. across the cutover.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
