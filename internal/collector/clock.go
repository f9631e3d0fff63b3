package collector

import (
	"context"
	"time"

	"github.com/ncruces/go-strftime"
)

// Clock renders the current local time with a strftime layout
type Clock struct {
	layout string
	now    func() time.Time
}

func NewClock(layout string) *Clock {
	return &Clock{layout: layout, now: time.Now}
}

func (c *Clock) Produce(_ context.Context) (string, error) {
	return "🕛 " + strftime.Format(c.layout, c.now()), nil
}
