package collector_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/ministatus/internal/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock(t *testing.T) {
	at := time.Date(2024, time.March, 7, 10, 0, 0, 0, time.Local)

	tests := []struct {
		layout string
		want   string
	}{
		{"%I:%M %p", "🕛 10:00 AM"},
		{"%m/%d/%Y", "🕛 03/07/2024"},
		{"(KW%V) %m/%d/%Y %I:%M %p", "🕛 (KW10) 03/07/2024 10:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := collector.NewClock(tt.layout)
			c.SetNow(func() time.Time { return at })

			out, err := c.Produce(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}
