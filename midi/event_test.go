package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusClassification(t *testing.T) {
	assert.True(t, IsNoteMessage(0x80))
	assert.True(t, IsNoteMessage(0x9F))
	assert.False(t, IsNoteMessage(0xA0))
	assert.False(t, IsNoteMessage(0x7F))

	assert.True(t, IsChannelMessage(0x80))
	assert.True(t, IsChannelMessage(0xEF))
	assert.False(t, IsChannelMessage(0xF0))
	assert.False(t, IsChannelMessage(0x00))

	assert.True(t, IsControlChange(0xB0))
	assert.True(t, IsControlChange(0xBF))
	assert.False(t, IsControlChange(0xC0))
	assert.False(t, IsControlChange(0xAF))
}

func TestEventAccessors(t *testing.T) {
	event := Event{Time: 12, Buffer: []byte{0x95, 60, 100}}
	assert.Equal(t, 3, event.Size())
	assert.Equal(t, byte(0x95), event.Status())
	assert.Equal(t, byte(5), event.Channel())
	assert.False(t, event.IsSysEx())

	sysexEvent := Event{Buffer: []byte{0xF0, 0x7E, 0xF7}}
	assert.True(t, sysexEvent.IsSysEx())

	empty := Event{}
	assert.Equal(t, 0, empty.Size())
	assert.Equal(t, byte(0), empty.Status())
}

func TestDescribe(t *testing.T) {
	event := Event{Buffer: []byte{0x90, 60, 100}}
	assert.NotEmpty(t, event.Describe())
	assert.Equal(t, "empty event", Event{}.Describe())
	assert.NotEmpty(t, DescribeBytes([]byte{0xB0, 7, 100}))
}
