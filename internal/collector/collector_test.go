package collector_test

import (
	"context"
	"fmt"
	"testing"

	"codeberg.org/mutker/ministatus/internal/collector"
	"codeberg.org/mutker/ministatus/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAssignsIndicesInOrder(t *testing.T) {
	r := collector.NewRegistry(logger.Default())

	r.Register("a", collector.Func(func(context.Context) (string, error) { return "a", nil }))
	r.Register("b", collector.Func(func(context.Context) (string, error) { return "b", nil }))
	r.Register("c", collector.Func(func(context.Context) (string, error) { return "c", nil }))

	slots := r.Slots()
	require.Len(t, slots, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, i, slots[i].Index)
		assert.Equal(t, name, slots[i].Name)

		out, err := slots[i].Collector.Produce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, name, out)
	}
}

func TestRegisterFuncSkipsFailedConstructors(t *testing.T) {
	r := collector.NewRegistry(logger.Default())

	ok := r.RegisterFunc("broken", func() (collector.Collector, error) {
		return nil, fmt.Errorf("mailbox does not exist")
	})
	assert.False(t, ok)

	ok = r.RegisterFunc("clock", func() (collector.Collector, error) {
		return collector.NewClock("%H"), nil
	})
	assert.True(t, ok)

	slots := r.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, "clock", slots[0].Name)
	assert.Equal(t, 0, slots[0].Index, "disabled collectors do not consume an index")
	assert.Equal(t, 1, r.Len())
}

func TestSlotsIsACopy(t *testing.T) {
	r := collector.NewRegistry(logger.Default())
	r.Register("a", collector.NewClock("%H"))

	slots := r.Slots()
	slots[0].Name = "mutated"

	assert.Equal(t, "a", r.Slots()[0].Name)
}
