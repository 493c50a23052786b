package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedSet_PreservesFirstSeenOrder(t *testing.T) {
	s := NewOrderedSet()
	assert.True(t, s.Add("b"))
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("b"))
	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("a"))

	assert.Equal(t, []string{"b", "a", "c"}, s.Values())
	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("z"))
}

func TestOrderedSet_Empty(t *testing.T) {
	s := NewOrderedSet()
	assert.Empty(t, s.Values())
	assert.Equal(t, 0, s.Len())
}
