package router

import (
	"fmt"
	"sync/atomic"

	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/midi"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

// FilterEntry is a single entry in a Filter. The entry has a set of
// requirements that an event will have to match to, well, match. Once
// matched to an entry, an event can be mangled by the filter entry according
// to the entry's rewrite rules (for example, a note on event can turn into
// no midi event and an event sent into the UI, or a cc event can turn into a
// set of other events).
type FilterEntry struct {
	filter *Filter
	device *Device

	targetTrack   sketchpad.Track
	requiredBytes int
	requireRange  bool
	byte1Minimum  int
	byte1Maximum  int
	byte2Minimum  int
	byte2Maximum  int
	byte3Minimum  int
	byte3Maximum  int

	cuiaEvent    cuia.Event
	originTrack  sketchpad.Track
	originSlot   sketchpad.Slot
	valueMinimum int
	valueMaximum int

	rules atomic.Pointer[[]*RewriteRule]
}

func newFilterEntry(device *Device, filter *Filter) *FilterEntry {
	e := &FilterEntry{
		filter:        filter,
		device:        device,
		targetTrack:   sketchpad.CurrentTrack,
		requiredBytes: 3,
		byte1Minimum:  128,
		byte1Maximum:  128,
		originTrack:   sketchpad.AnyTrack,
		originSlot:    sketchpad.AnySlot,
	}
	empty := []*RewriteRule{}
	e.rules.Store(&empty)
	return e
}

// Match tests whether the given midi event matches this entry's
// requirements, and on a match synchronously mangles the event (populating
// rule scratch buffers and raising any UI actions).
func (e *FilterEntry) Match(event *midi.Event) bool {
	if event.Size() != e.requiredBytes {
		return false
	}
	matched := false
	switch e.requiredBytes {
	case 3:
		matched = e.byte1Minimum <= int(event.Buffer[0]) && int(event.Buffer[0]) <= e.byte1Maximum &&
			e.byte2Minimum <= int(event.Buffer[1]) && int(event.Buffer[1]) <= e.byte2Maximum &&
			e.byte3Minimum <= int(event.Buffer[2]) && int(event.Buffer[2]) <= e.byte3Maximum
	case 2:
		matched = e.byte1Minimum <= int(event.Buffer[0]) && int(event.Buffer[0]) <= e.byte1Maximum &&
			e.byte2Minimum <= int(event.Buffer[1]) && int(event.Buffer[1]) <= e.byte2Maximum
	default:
		matched = e.byte1Minimum <= int(event.Buffer[0]) && int(event.Buffer[0]) <= e.byte1Maximum
	}
	if matched {
		e.mangleEvent(event)
	}
	return matched
}

// mangleEvent runs the entry's rewrite rules against the matched event.
// Track rules assemble their scratch events; UI rules raise their action on
// the device's command ring right away (otherwise we'd end up potentially
// writing a whole bunch of extra events we don't want).
func (e *FilterEntry) mangleEvent(event *midi.Event) {
	eventChannel := int(event.Buffer[0] & 0xF)
	for _, rule := range *e.rules.Load() {
		switch rule.ruleType {
		case TrackRule:
			size := int(rule.byteSize)
			if rule.byteSize == EventSizeSame {
				size = event.Size()
			}
			rule.bufferEvent.Buffer = rule.bufferEvent.Buffer[:size]
			rule.bufferEvent.Time = event.Time
			for byteIndex := 0; byteIndex < size; byteIndex++ {
				var value byte
				switch rule.bytes[byteIndex] {
				case OriginalByte1:
					value = event.Buffer[0]
				case OriginalByte2:
					if event.Size() > 1 {
						value = event.Buffer[1]
					}
				case OriginalByte3:
					if event.Size() > 2 {
						value = event.Buffer[2]
					}
				default:
					// The explicit bytes are the literal byte value; the
					// first byte of an event must be a status byte, so the
					// high bit gets forced there
					value = byte(rule.bytes[byteIndex])
					if byteIndex == 0 {
						value |= 0x80
					}
				}
				if rule.bytesAddChannel[byteIndex] {
					value += byte(eventChannel)
				}
				rule.bufferEvent.Buffer[byteIndex] = value
			}
		case UIRule:
			e.raiseAction(rule, func() int {
				switch rule.cuiaValue {
				case ValueEventChannel:
					return eventChannel
				case ValueByte1:
					return int(event.Buffer[0])
				case ValueByte2:
					if event.Size() > 1 {
						return int(event.Buffer[1])
					}
					return 0
				case ValueByte3:
					if event.Size() > 2 {
						return int(event.Buffer[2])
					}
					return 0
				default:
					return int(rule.cuiaValue)
				}
			})
		}
	}
}

// raiseAction writes a UI rule's action onto the device's command ring, with
// the payload shaped by which parameters the event wants. Rules set to
// NoCuiaEvent just do nothing.
func (e *FilterEntry) raiseAction(rule *RewriteRule, value func() int) {
	switch {
	case rule.cuiaEvent == cuia.NoCuiaEvent:
	case cuia.WantsValue[rule.cuiaEvent]:
		// These need a value, so do the calculation work for them
		e.device.CommandRing.Write(rule.cuiaEvent, e.device.ID(), rule.cuiaTrack, rule.cuiaSlot, value())
	case cuia.WantsTrack[rule.cuiaEvent]:
		// Only need the basics for these, so no need to calculate the value
		e.device.CommandRing.Write(rule.cuiaEvent, e.device.ID(), rule.cuiaTrack, rule.cuiaSlot, 0)
	default:
		e.device.CommandRing.Write(rule.cuiaEvent, e.device.ID(), sketchpad.CurrentTrack, sketchpad.CurrentSlot, 0)
	}
}

// mangleCommand assembles the Track rules' scratch events from a matched UI
// action on an output filter. The action's track index stands in for the
// event channel, its track/slot/value for the original bytes; the caller
// resolves CurrentTrack before getting here.
func (e *FilterEntry) mangleCommand(track sketchpad.Track, slot sketchpad.Slot, value int) {
	trackIndex := int(track)
	if trackIndex < 0 {
		trackIndex = 0
	}
	slotIndex := int(slot)
	if slotIndex < 0 {
		slotIndex = 0
	}
	for _, rule := range *e.rules.Load() {
		if rule.ruleType != TrackRule {
			continue
		}
		size := int(rule.byteSize)
		if rule.byteSize == EventSizeSame {
			// EventSizeSame and EventSize3 are synonymous for output rules
			size = 3
		}
		rule.bufferEvent.Buffer = rule.bufferEvent.Buffer[:size]
		rule.bufferEvent.Time = 0
		for byteIndex := 0; byteIndex < size; byteIndex++ {
			var byteValue byte
			switch rule.bytes[byteIndex] {
			case OriginalByte1:
				byteValue = byte(trackIndex)
			case OriginalByte2:
				byteValue = byte(slotIndex)
			case OriginalByte3:
				byteValue = byte(clampInt(value, 0, 127))
			default:
				byteValue = byte(rule.bytes[byteIndex])
				if byteIndex == 0 {
					byteValue |= 0x80
				}
			}
			if rule.bytesAddChannel[byteIndex] {
				byteValue += byte(trackIndex)
			}
			rule.bufferEvent.Buffer[byteIndex] = byteValue
		}
	}
}

// WriteEventToDevice writes the most recently matched event to the given
// device. It is vital to match prior to calling this function, as mangling
// is done there, to avoid doing it more than once.
func (e *FilterEntry) WriteEventToDevice(device *Device) {
	for _, rule := range *e.rules.Load() {
		switch rule.ruleType {
		case TrackRule:
			device.WriteEventToOutput(&rule.bufferEvent, -1)
		case UIRule:
			// This is done at match time
		}
	}
}

// MatchCommand tests whether the given UI action values match this entry's
// settings (valid on output filters).
func (e *FilterEntry) MatchCommand(cuiaEvent cuia.Event, track sketchpad.Track, slot sketchpad.Slot, value int) bool {
	if e.cuiaEvent == cuiaEvent {
		if e.originTrack == sketchpad.AnyTrack || e.originTrack == track {
			if e.originSlot == sketchpad.AnySlot || e.originSlot == slot {
				if e.valueMinimum <= value && value <= e.valueMaximum {
					return true
				}
			}
		}
	}
	return false
}

// BEGIN predicate accessors

// TargetTrack is the output track for matched events (valid on input
// filters).
func (e *FilterEntry) TargetTrack() sketchpad.Track {
	return e.targetTrack
}

func (e *FilterEntry) SetTargetTrack(targetTrack sketchpad.Track) {
	e.targetTrack = targetTrack
}

func (e *FilterEntry) RequiredBytes() int {
	return e.requiredBytes
}

// SetRequiredBytes sets the number of bytes an event must contain for this
// entry to match (1 through 3).
func (e *FilterEntry) SetRequiredBytes(requiredBytes int) {
	e.requiredBytes = clampInt(requiredBytes, 1, 3)
}

func (e *FilterEntry) RequireRange() bool {
	return e.requireRange
}

// SetRequireRange toggles range matching. While ranges are off, each byte's
// maximum is pinned to its minimum, so matching reduces to equality.
func (e *FilterEntry) SetRequireRange(requireRange bool) {
	if e.requireRange == requireRange {
		return
	}
	e.requireRange = requireRange
	if !requireRange {
		e.byte1Maximum = e.byte1Minimum
		e.byte2Maximum = e.byte2Minimum
		e.byte3Maximum = e.byte3Minimum
		e.valueMaximum = e.valueMinimum
	}
}

func (e *FilterEntry) Byte1Minimum() int { return e.byte1Minimum }
func (e *FilterEntry) Byte1Maximum() int { return e.byte1Maximum }
func (e *FilterEntry) Byte2Minimum() int { return e.byte2Minimum }
func (e *FilterEntry) Byte2Maximum() int { return e.byte2Maximum }
func (e *FilterEntry) Byte3Minimum() int { return e.byte3Minimum }
func (e *FilterEntry) Byte3Maximum() int { return e.byte3Maximum }

// The min/max setters restore min <= max on every call: setting a minimum
// above the maximum raises the maximum to it, and symmetrically. While
// requireRange is off the maximum simply follows the minimum.

func (e *FilterEntry) SetByte1Minimum(byte1Minimum int) {
	e.byte1Minimum = clampInt(byte1Minimum, 128, 255)
	if !e.requireRange || e.byte1Maximum < e.byte1Minimum {
		e.byte1Maximum = e.byte1Minimum
	}
}

func (e *FilterEntry) SetByte1Maximum(byte1Maximum int) {
	e.byte1Maximum = clampInt(byte1Maximum, 128, 255)
	if e.byte1Maximum < e.byte1Minimum {
		e.byte1Minimum = e.byte1Maximum
	}
}

func (e *FilterEntry) SetByte2Minimum(byte2Minimum int) {
	e.byte2Minimum = clampInt(byte2Minimum, 0, 127)
	if !e.requireRange || e.byte2Maximum < e.byte2Minimum {
		e.byte2Maximum = e.byte2Minimum
	}
}

func (e *FilterEntry) SetByte2Maximum(byte2Maximum int) {
	e.byte2Maximum = clampInt(byte2Maximum, 0, 127)
	if e.byte2Maximum < e.byte2Minimum {
		e.byte2Minimum = e.byte2Maximum
	}
}

func (e *FilterEntry) SetByte3Minimum(byte3Minimum int) {
	e.byte3Minimum = clampInt(byte3Minimum, 0, 127)
	if !e.requireRange || e.byte3Maximum < e.byte3Minimum {
		e.byte3Maximum = e.byte3Minimum
	}
}

func (e *FilterEntry) SetByte3Maximum(byte3Maximum int) {
	e.byte3Maximum = clampInt(byte3Maximum, 0, 127)
	if e.byte3Maximum < e.byte3Minimum {
		e.byte3Minimum = e.byte3Maximum
	}
}

// CuiaEvent is the UI action this entry reacts to (valid on output filters).
func (e *FilterEntry) CuiaEvent() cuia.Event {
	return e.cuiaEvent
}

func (e *FilterEntry) SetCuiaEvent(cuiaEvent cuia.Event) {
	e.cuiaEvent = cuiaEvent
}

func (e *FilterEntry) OriginTrack() sketchpad.Track {
	return e.originTrack
}

func (e *FilterEntry) SetOriginTrack(originTrack sketchpad.Track) {
	e.originTrack = originTrack
}

func (e *FilterEntry) OriginSlot() sketchpad.Slot {
	return e.originSlot
}

func (e *FilterEntry) SetOriginSlot(originSlot sketchpad.Slot) {
	e.originSlot = originSlot
}

func (e *FilterEntry) ValueMinimum() int { return e.valueMinimum }
func (e *FilterEntry) ValueMaximum() int { return e.valueMaximum }

func (e *FilterEntry) SetValueMinimum(valueMinimum int) {
	e.valueMinimum = clampInt(valueMinimum, 0, 127)
	if !e.requireRange || e.valueMinimum > e.valueMaximum {
		e.valueMaximum = e.valueMinimum
	}
}

func (e *FilterEntry) SetValueMaximum(valueMaximum int) {
	e.valueMaximum = clampInt(valueMaximum, 0, 127)
	if e.valueMinimum > e.valueMaximum {
		e.valueMinimum = e.valueMaximum
	}
}

// END predicate accessors

// BEGIN rule list

// RewriteRules returns the current rule list. The returned slice must not be
// modified.
func (e *FilterEntry) RewriteRules() []*RewriteRule {
	return *e.rules.Load()
}

// AddRewriteRule creates a new rewrite rule at the given position and
// returns it (an out of bounds index appends).
func (e *FilterEntry) AddRewriteRule(index int) *RewriteRule {
	newRule := newRewriteRule(e)
	// Operating on a copy of the list and swapping the pointer, as changing
	// the list is not threadsafe, but replacing it entirely is
	current := *e.rules.Load()
	updated := make([]*RewriteRule, 0, len(current)+1)
	if -1 < index && index < len(current) {
		updated = append(updated, current[:index]...)
		updated = append(updated, newRule)
		updated = append(updated, current[index:]...)
	} else {
		updated = append(updated, current...)
		updated = append(updated, newRule)
	}
	e.rules.Store(&updated)
	return newRule
}

// DeleteRewriteRule removes the rule at the given position; an invalid index
// does nothing.
func (e *FilterEntry) DeleteRewriteRule(index int) {
	current := *e.rules.Load()
	if -1 < index && index < len(current) {
		updated := make([]*RewriteRule, 0, len(current)-1)
		updated = append(updated, current[:index]...)
		updated = append(updated, current[index+1:]...)
		e.rules.Store(&updated)
	}
}

// IndexOf returns the index of the given rule, or -1 if it is not in the
// list.
func (e *FilterEntry) IndexOf(rule *RewriteRule) int {
	for i, existing := range *e.rules.Load() {
		if existing == rule {
			return i
		}
	}
	return -1
}

// SwapRewriteRules swaps the positions of the two given rules; if either is
// not found the list is left alone.
func (e *FilterEntry) SwapRewriteRules(swapThis *RewriteRule, withThis *RewriteRule) {
	firstPosition := e.IndexOf(swapThis)
	secondPosition := e.IndexOf(withThis)
	if firstPosition > -1 && secondPosition > -1 {
		current := *e.rules.Load()
		updated := append([]*RewriteRule(nil), current...)
		updated[firstPosition], updated[secondPosition] = updated[secondPosition], updated[firstPosition]
		e.rules.Store(&updated)
	}
}

// END rule list

// Description returns a human-readable summary of the entry.
func (e *FilterEntry) Description() string {
	var description string
	if e.filter.direction == InputDirection {
		firstEvent := midi.DescribeBytes(e.minimumBytes())
		if e.requireRange {
			description = fmt.Sprintf("From %s to %s", firstEvent, midi.DescribeBytes(e.maximumBytes()))
		} else {
			description = firstEvent
		}
		switch ruleCount := len(*e.rules.Load()); ruleCount {
		case 0:
			description = fmt.Sprintf("%s with no rewrite rules", description)
		case 1:
			description = fmt.Sprintf("%s with 1 rewrite rule", description)
		default:
			description = fmt.Sprintf("%s with %d rewrite rules", description, ruleCount)
		}
	} else {
		if e.valueMinimum == e.valueMaximum {
			description = cuia.Describe(e.cuiaEvent, e.originTrack, e.originSlot, e.valueMinimum, -1)
		} else {
			description = cuia.Describe(e.cuiaEvent, e.originTrack, e.originSlot, e.valueMinimum, e.valueMaximum)
		}
		if ruleCount := len(*e.rules.Load()); ruleCount == 0 {
			description = fmt.Sprintf("%s with no rewrite rules (no midi events will be sent to the device)", description)
		} else {
			description = fmt.Sprintf("%s with %d rewrite rules", description, ruleCount)
		}
	}
	return description
}

func (e *FilterEntry) minimumBytes() []byte {
	switch e.requiredBytes {
	case 1:
		return []byte{byte(e.byte1Minimum)}
	case 2:
		return []byte{byte(e.byte1Minimum), byte(e.byte2Minimum)}
	default:
		return []byte{byte(e.byte1Minimum), byte(e.byte2Minimum), byte(e.byte3Minimum)}
	}
}

func (e *FilterEntry) maximumBytes() []byte {
	switch e.requiredBytes {
	case 1:
		return []byte{byte(e.byte1Maximum)}
	case 2:
		return []byte{byte(e.byte1Maximum), byte(e.byte2Maximum)}
	default:
		return []byte{byte(e.byte1Maximum), byte(e.byte2Maximum), byte(e.byte3Maximum)}
	}
}
