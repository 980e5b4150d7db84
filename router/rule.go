package router

import (
	"fmt"

	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/midi"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

// RuleType says whether a rewrite rule results in a midi event (a Track
// rule) or a callable ui action event (a UI rule).
type RuleType int

const (
	TrackRule RuleType = 0
	UIRule    RuleType = 1
)

// EventSize is the byte count of a Track rule's output event. EventSizeSame
// matches the size of the incoming event.
type EventSize int

const (
	EventSizeSame EventSize = -1
	EventSize1    EventSize = 1
	EventSize2    EventSize = 2
	EventSize3    EventSize = 3
)

// EventByte selects the source of one output byte in a Track rule: one of
// the original event's bytes, or an explicit literal. Explicit values are the
// literal byte, 0 through 127.
type EventByte int

const (
	OriginalByte1 EventByte = -1
	OriginalByte2 EventByte = -2
	OriginalByte3 EventByte = -3
)

// ExplicitByte wraps a literal byte value as an EventByte source. Only the
// low seven bits are kept; a rule emitting the literal as its first byte
// forces the high bit back on, so status-byte literals round-trip.
func ExplicitByte(value int) EventByte {
	return EventByte(value & 0x7F)
}

// IsExplicit reports whether the byte source is a literal.
func (b EventByte) IsExplicit() bool {
	return b >= 0
}

// ValueSpecifier selects where a UI rule's value comes from: one of the
// original event's bytes, the original event's channel, or an explicit
// literal 0 through 127.
type ValueSpecifier int

const (
	ValueByte1        ValueSpecifier = -1
	ValueByte2        ValueSpecifier = -2
	ValueByte3        ValueSpecifier = -3
	ValueEventChannel ValueSpecifier = -4
)

// ExplicitValue wraps a literal value as a ValueSpecifier.
func ExplicitValue(value int) ValueSpecifier {
	return ValueSpecifier(clampInt(value, 0, 127))
}

// RewriteRule defines how to interpret an incoming midi event for writing to
// an output buffer on an input filter, or an incoming ui action in case of
// output filters.
//
// For input filters: the default rule performs no true rewrite, and simply
// passes the event through unchanged (a Track rule where all bytes are their
// original values in an event of the same size as the input event).
//
// For output filters: only size and byte values are relevant, as output
// rules define which messages are sent based on a ui action. The AddChannel
// toggles add the incoming action's track index to that byte (converting the
// CurrentTrack value to the actual track index). To use the value on an
// event byte, use OriginalByte3 (track and slot are bytes 1 and 2
// respectively, but those aren't likely to be the most useful).
type RewriteRule struct {
	entry *FilterEntry

	ruleType        RuleType
	byteSize        EventSize
	bytes           [3]EventByte
	bytesAddChannel [3]bool
	cuiaEvent       cuia.Event
	cuiaTrack       sketchpad.Track
	cuiaSlot        sketchpad.Slot
	cuiaValue       ValueSpecifier

	// bufferEvent is the preallocated scratch event the rule assembles its
	// output into during matching, to avoid allocation on the realtime path.
	bufferEvent midi.Event
}

func newRewriteRule(entry *FilterEntry) *RewriteRule {
	return &RewriteRule{
		entry:     entry,
		byteSize:  EventSizeSame,
		bytes:     [3]EventByte{OriginalByte1, OriginalByte2, OriginalByte3},
		cuiaTrack: sketchpad.CurrentTrack,
		cuiaSlot:  sketchpad.CurrentSlot,
		cuiaValue: ValueByte3,
		bufferEvent: midi.Event{
			Buffer: make([]byte, 3),
		},
	}
}

func (r *RewriteRule) Type() RuleType {
	return r.ruleType
}

func (r *RewriteRule) SetType(ruleType RuleType) {
	r.ruleType = ruleType
}

func (r *RewriteRule) ByteSize() EventSize {
	return r.byteSize
}

func (r *RewriteRule) SetByteSize(byteSize EventSize) {
	r.byteSize = byteSize
}

// SetByte sets the source of the output byte at the given index (0 through
// 2). Explicit literals outside 0 through 127 are rejected.
func (r *RewriteRule) SetByte(index int, source EventByte) error {
	if index < 0 || index > 2 {
		return fmt.Errorf("byte index %d out of range", index)
	}
	if source > 127 || source < OriginalByte3 {
		return fmt.Errorf("byte source %d is not an original byte or a value between 0 and 127", int(source))
	}
	r.bytes[index] = source
	return nil
}

func (r *RewriteRule) Byte(index int) EventByte {
	return r.bytes[clampInt(index, 0, 2)]
}

// SetByteAddChannel toggles adding the incoming event's channel to the
// output byte at the given index.
func (r *RewriteRule) SetByteAddChannel(index int, addChannel bool) {
	r.bytesAddChannel[clampInt(index, 0, 2)] = addChannel
}

func (r *RewriteRule) ByteAddChannel(index int) bool {
	return r.bytesAddChannel[clampInt(index, 0, 2)]
}

func (r *RewriteRule) CuiaEvent() cuia.Event {
	return r.cuiaEvent
}

func (r *RewriteRule) SetCuiaEvent(cuiaEvent cuia.Event) {
	r.cuiaEvent = cuiaEvent
}

func (r *RewriteRule) CuiaTrack() sketchpad.Track {
	return r.cuiaTrack
}

func (r *RewriteRule) SetCuiaTrack(cuiaTrack sketchpad.Track) {
	r.cuiaTrack = cuiaTrack
}

func (r *RewriteRule) CuiaSlot() sketchpad.Slot {
	return r.cuiaSlot
}

func (r *RewriteRule) SetCuiaSlot(cuiaSlot sketchpad.Slot) {
	r.cuiaSlot = cuiaSlot
}

func (r *RewriteRule) CuiaValue() ValueSpecifier {
	return r.cuiaValue
}

// SetCuiaValue sets the value source for a UI rule. Explicit literals
// outside 0 through 127 are rejected.
func (r *RewriteRule) SetCuiaValue(cuiaValue ValueSpecifier) error {
	if cuiaValue > 127 || cuiaValue < ValueEventChannel {
		return fmt.Errorf("value source %d is not an event byte, the event channel, or a value between 0 and 127", int(cuiaValue))
	}
	r.cuiaValue = cuiaValue
	return nil
}

func describeByteSource(source EventByte, addChannel bool) string {
	var description string
	switch source {
	case OriginalByte1:
		description = "original byte 1"
	case OriginalByte2:
		description = "original byte 2"
	case OriginalByte3:
		description = "original byte 3"
	default:
		description = fmt.Sprintf("0x%02X", int(source))
	}
	if addChannel {
		description += " plus channel"
	}
	return description
}

// Description returns a human-readable summary of what the rule does.
func (r *RewriteRule) Description() string {
	if r.ruleType == UIRule {
		var valueDescription string
		switch r.cuiaValue {
		case ValueByte1:
			valueDescription = "byte 1"
		case ValueByte2:
			valueDescription = "byte 2"
		case ValueByte3:
			valueDescription = "byte 3"
		case ValueEventChannel:
			valueDescription = "the event channel"
		default:
			valueDescription = fmt.Sprintf("%d", int(r.cuiaValue))
		}
		return fmt.Sprintf("%s with value from %s", cuia.Describe(r.cuiaEvent, r.cuiaTrack, r.cuiaSlot, 0, -1), valueDescription)
	}
	size := int(r.byteSize)
	if r.byteSize == EventSizeSame {
		size = 3
	}
	description := "Emit event of"
	for byteIndex := 0; byteIndex < size; byteIndex++ {
		if byteIndex > 0 {
			description += ","
		}
		description += " " + describeByteSource(r.bytes[byteIndex], r.bytesAddChannel[byteIndex])
	}
	return description
}
