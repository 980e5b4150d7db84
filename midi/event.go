// Package midi holds the raw event value passed along the realtime path, plus
// the small set of byte-level helpers the routing engine needs. Naming
// messages is delegated to gomidi.
package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Event is a raw MIDI event: the bytes as read from a port buffer, and the
// block-relative frame time it arrived at. Channel-voice messages are 1-3
// bytes; SysEx is variable length.
type Event struct {
	Time   uint32
	Buffer []byte
}

// Size returns the byte count of the event. A size of zero marks the
// exhausted sentinel on the input iteration path.
func (e Event) Size() int {
	return len(e.Buffer)
}

// Status returns the event's status byte, or 0 for an empty event.
func (e Event) Status() byte {
	if len(e.Buffer) == 0 {
		return 0
	}
	return e.Buffer[0]
}

// IsChannelMessage reports whether status carries a channel in its low
// nibble (anything from 0x80 up to but not including 0xF0).
func IsChannelMessage(status byte) bool {
	return status > 0x7F && status < 0xF0
}

// IsNoteMessage reports whether status is a note-on or note-off on any
// channel.
func IsNoteMessage(status byte) bool {
	return status > 0x7F && status < 0xA0
}

// IsControlChange reports whether status is a CC message on any channel.
func IsControlChange(status byte) bool {
	return status > 0xAF && status < 0xC0
}

// IsSysEx reports whether the event is a System-Exclusive message.
func (e Event) IsSysEx() bool {
	return len(e.Buffer) > 0 && e.Buffer[0] == 0xF0
}

// Channel returns the channel nibble of the event's status byte. Only
// meaningful for channel messages.
func (e Event) Channel() byte {
	return e.Status() & 0xF
}

// Describe returns gomidi's human-readable name for the event's bytes.
func (e Event) Describe() string {
	if len(e.Buffer) == 0 {
		return "empty event"
	}
	return gomidi.Message(e.Buffer).String()
}

// DescribeBytes returns gomidi's human-readable name for an arbitrary byte
// sequence.
func DescribeBytes(buffer []byte) string {
	return gomidi.Message(buffer).String()
}
