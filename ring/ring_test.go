package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestEmptyRingHasNothingToRead(t *testing.T) {
	r := New[int]("test")

	assert.False(t, r.Pending())
	_, ok := r.Read()
	assert.False(t, ok)
}

func TestWriteThenReadInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New[int]("test")
		count := rapid.IntRange(0, Size).Draw(t, "count")
		for i := 0; i < count; i++ {
			r.Write(i)
		}
		for i := 0; i < count; i++ {
			value, ok := r.Read()
			assert.True(t, ok, "expected a value at position %d", i)
			assert.Equal(t, i, value, "values must come back in write order")
		}
		_, ok := r.Read()
		assert.False(t, ok, "ring should be drained")
	})
}

func TestSaturationOverwritesOldestUnread(t *testing.T) {
	r := New[int]("test")

	// A full lap plus one: the write must proceed and clobber the oldest
	// unread slot rather than stall
	for i := 0; i < Size+1; i++ {
		r.Write(i)
	}
	value, ok := r.Read()
	assert.True(t, ok)
	assert.Equal(t, Size, value, "the write head lapped the read head, so the oldest slot now holds the newest value")
}

func TestMarkAsReadSkipsPayload(t *testing.T) {
	r := New[string]("test")

	r.Write("first")
	r.Write("second")
	r.MarkAsRead()
	value, ok := r.Read()
	assert.True(t, ok)
	assert.Equal(t, "second", value)
	assert.False(t, r.Pending())
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := New[int]("test")

	r.Write(42)
	assert.True(t, r.Pending())
	assert.Equal(t, 42, r.Peek())
	assert.True(t, r.Pending())
	value, ok := r.Read()
	assert.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestInterleavedWriteRead(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New[int]("test")
		next := 0
		expected := 0
		operations := rapid.IntRange(1, 2000).Draw(t, "operations")
		pending := 0
		for i := 0; i < operations; i++ {
			if pending > 0 && rapid.Bool().Draw(t, "read") {
				value, ok := r.Read()
				assert.True(t, ok)
				assert.Equal(t, expected, value)
				expected++
				pending--
			} else if pending < Size {
				r.Write(next)
				next++
				pending++
			}
		}
	})
}
