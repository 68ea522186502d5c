package tdv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSenseCache(t *testing.T) {
	c := NewSenseCache()
	c.Put(&Sense{ID: 30, Term: "c"})
	c.Put(&Sense{ID: 10, Term: "a"})
	c.Put(&Sense{ID: 20, Term: "b"})
	c.Put(&Sense{ID: 10, Term: "a2"})

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []uint64{10, 20, 30}, c.IDs())

	s, ok := c.Get(10)
	assert.True(t, ok)
	assert.Equal(t, "a2", s.Term, "Put replaces")
	_, ok = c.Get(99)
	assert.False(t, ok)

	var terms []string
	c.Each(func(s *Sense) { terms = append(terms, s.Term) })
	assert.Equal(t, []string{"a2", "b", "c"}, terms)
}
