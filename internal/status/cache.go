package status

// StaleCache keeps the last successfully produced text of every slot, keyed by
// slot index. It is owned by the scheduler loop and is not safe for concurrent use.
type StaleCache struct {
	entries map[int]string
}

func NewStaleCache() *StaleCache {
	return &StaleCache{entries: make(map[int]string)}
}

// Put records text as the last good value of slot index
func (c *StaleCache) Put(index int, text string) {
	c.entries[index] = text
}

// Get returns the last good value of slot index, if any
func (c *StaleCache) Get(index int) (string, bool) {
	text, ok := c.entries[index]
	return text, ok
}

// Len returns the number of slots with a cached value
func (c *StaleCache) Len() int {
	return len(c.entries)
}
