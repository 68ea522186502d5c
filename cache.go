package tdv

import "sort"

// SenseCache maps sense ids to built senses. It is filled once by the
// build (or a snapshot load) and only read afterwards.
type SenseCache struct {
	senses map[uint64]*Sense
	ids    []uint64
	sorted bool
}

// NewSenseCache returns an empty cache.
func NewSenseCache() *SenseCache {
	return &SenseCache{senses: make(map[uint64]*Sense), sorted: true}
}

// Put stores s, replacing any sense with the same id.
func (c *SenseCache) Put(s *Sense) {
	if _, ok := c.senses[s.ID]; !ok {
		c.ids = append(c.ids, s.ID)
		if n := len(c.ids); n > 1 && c.ids[n-2] > s.ID {
			c.sorted = false
		}
	}
	c.senses[s.ID] = s
}

// Get returns the sense with the given id.
func (c *SenseCache) Get(id uint64) (*Sense, bool) {
	s, ok := c.senses[id]
	return s, ok
}

// Len returns the number of cached senses.
func (c *SenseCache) Len() int {
	return len(c.senses)
}

// IDs returns the cached ids in ascending order.
func (c *SenseCache) IDs() []uint64 {
	c.freeze()
	return c.ids
}

// Each calls fn for every sense in ascending id order.
func (c *SenseCache) Each(fn func(*Sense)) {
	for _, id := range c.IDs() {
		fn(c.senses[id])
	}
}

// freeze sorts the id list. Call it before concurrent readers start.
func (c *SenseCache) freeze() {
	if c.sorted {
		return
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	c.sorted = true
}
