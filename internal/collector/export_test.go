package collector

import "time"

// SetNow replaces the clock source of c
func (c *Clock) SetNow(now func() time.Time) {
	c.now = now
}
