package mutation

// Counter counts in-flight mutations of one kind. It never goes below zero.
type Counter struct {
	n int
}

func (c *Counter) Inc() { c.n++ }

func (c *Counter) Dec() {
	if c.n > 0 {
		c.n--
	}
}

func (c *Counter) Value() int { return c.n }
