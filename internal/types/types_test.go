package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTextRangeNormalizesReversedBounds(t *testing.T) {
	r := NewTextRange(10, 4)
	assert.Equal(t, TextSize(4), r.Start)
	assert.Equal(t, TextSize(10), r.End)
}

func TestTextRangeLen(t *testing.T) {
	r := NewTextRange(4, 10)
	assert.Equal(t, TextSize(6), r.Len())
}

func TestTextRangeIsEmpty(t *testing.T) {
	assert.True(t, NewTextRange(5, 5).IsEmpty())
	assert.False(t, NewTextRange(5, 6).IsEmpty())
}

func TestTextRangeContains(t *testing.T) {
	r := NewTextRange(4, 10)
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(9))
	assert.False(t, r.Contains(10), "end bound is exclusive")
	assert.False(t, r.Contains(3))
}

func TestTextRangeOverlaps(t *testing.T) {
	a := NewTextRange(0, 10)
	b := NewTextRange(5, 15)
	c := NewTextRange(10, 20)

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c), "half-open ranges touching at the boundary do not overlap")
}

func TestTextRangeCover(t *testing.T) {
	a := NewTextRange(4, 8)
	b := NewTextRange(20, 25)

	cov := a.Cover(b)
	assert.Equal(t, TextSize(4), cov.Start)
	assert.Equal(t, TextSize(25), cov.End)
}

func TestDurabilityString(t *testing.T) {
	assert.Equal(t, "low", DurabilityLow.String())
	assert.Equal(t, "medium", DurabilityMedium.String())
	assert.Equal(t, "high", DurabilityHigh.String())
	assert.Equal(t, "unknown", Durability(99).String())
}
