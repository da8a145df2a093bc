package banners

// DefaultRotationMS is the carousel interval when the slot config has none.
const DefaultRotationMS = 5000

// Carousel is the rotation state machine for a carousel slot: Showing(i)
// over N creatives. It is not safe for concurrent use; the Rotator owns
// one instance and serializes access.
type Carousel struct {
	n      int
	index  int
	paused bool
	loop   bool
}

// NewCarousel creates a carousel over n creatives starting at Showing(0).
// loop selects wrap-around at the end; otherwise the index clamps at n-1.
func NewCarousel(n int, loop bool) *Carousel {
	if n < 0 {
		n = 0
	}
	return &Carousel{n: n, loop: loop}
}

// Len returns the number of creatives.
func (c *Carousel) Len() int { return c.n }

// Index returns the currently shown index. Undefined when Len() == 0.
func (c *Carousel) Index() int { return c.index }

// Paused reports whether timer advancement is suspended.
func (c *Carousel) Paused() bool { return c.paused }

// Pause suspends timer advancement (pointer-enter).
func (c *Carousel) Pause() { c.paused = true }

// Resume re-enables timer advancement (pointer-leave).
func (c *Carousel) Resume() { c.paused = false }

// Tick is the timer transition. It is a no-op while paused or with fewer
// than two creatives. Returns whether the shown index changed.
func (c *Carousel) Tick() bool {
	if c.paused || c.n <= 1 {
		return false
	}
	return c.advance(1)
}

// Next is the manual forward control. Unlike Tick it works while paused.
func (c *Carousel) Next() bool {
	if c.n <= 1 {
		return false
	}
	return c.advance(1)
}

// Prev is the manual backward control. Works while paused.
func (c *Carousel) Prev() bool {
	if c.n <= 1 {
		return false
	}
	return c.advance(-1)
}

// GoTo jumps to index k, clamped to [0, n-1].
func (c *Carousel) GoTo(k int) {
	if c.n == 0 {
		return
	}
	if k < 0 {
		k = 0
	}
	if k > c.n-1 {
		k = c.n - 1
	}
	c.index = k
}

// Reset replaces the creative count and returns to Showing(0). Used when
// the eligible list is reloaded.
func (c *Carousel) Reset(n int) {
	if n < 0 {
		n = 0
	}
	c.n = n
	c.index = 0
}

func (c *Carousel) advance(delta int) bool {
	next := c.index + delta
	if c.loop {
		next = ((next % c.n) + c.n) % c.n
	} else {
		if next < 0 {
			next = 0
		}
		if next > c.n-1 {
			next = c.n - 1
		}
	}
	if next == c.index {
		return false
	}
	c.index = next
	return true
}
