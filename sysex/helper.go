package sysex

import (
	"log/slog"
	"sync"

	"github.com/sketchpadaudio/midirouter/graph"
	"github.com/sketchpadaudio/midirouter/logging"
	"github.com/sketchpadaudio/midirouter/midi"
	"github.com/sketchpadaudio/midirouter/ring"
)

var sysexLog *slog.Logger

func init() {
	sysexLog = logging.Get(logging.SYSEX)
}

// KnownMessage names the standard messages the helper can construct.
type KnownMessage int

const (
	// GMEnableMessage is the Universal SysEx message for setting the enabled
	// state of the General MIDI mode of a sound module. One extra field:
	// 0 disables General MIDI (the assumed value if nothing is passed),
	// 1 enables it.
	GMEnableMessage KnownMessage = iota
	// SetMasterVolumeMessage is the Universal SysEx message for setting the
	// device's Master Volume. One extra field gives the volume as a number
	// from 0 through 16383; two fields pass the two 7-bit segments manually;
	// any other count sets the volume to 0.
	SetMasterVolumeMessage
	// IdentityRequestMessage is the Universal SysEx message for requesting
	// the device's identity. A successful request results in the identity
	// changing; a failed one does nothing (we have no way to detect such a
	// failure).
	IdentityRequestMessage
	// SampleDumpRequestMessage is the Universal SysEx message for requesting
	// the dump of a given sample, addressed by a 14-bit sample index with
	// the same field conventions as SetMasterVolumeMessage.
	SampleDumpRequestMessage
)

// DataAlignment selects how a value's bits sit inside a run of 7-bit bytes.
type DataAlignment int

const (
	// LeftJustified places the value's most significant bit at the most
	// significant bit of the first byte (sample dump data packets do this).
	LeftJustified DataAlignment = iota
	// RightJustified places the value's least significant bit at the least
	// significant bit of the last byte (the common case).
	RightJustified
)

// NumberToBytes distributes the bits of value into byteCount 7-bit bytes
// (each byte holds 7 bits; the high bit stays 0 because SysEx payload may
// not set it). bitSize says how many bits of the destination the value is
// supposed to occupy, which matters when it doesn't match byteCount*7.
func NumberToBytes(value int, byteCount int, bitSize int, alignment DataAlignment) []int {
	totalBits := byteCount * 7
	if bitSize > totalBits {
		bitSize = totalBits
	}
	masked := value & ((1 << bitSize) - 1)
	if alignment == LeftJustified {
		masked <<= totalBits - bitSize
	}
	bytes := make([]int, byteCount)
	for byteIndex := byteCount - 1; byteIndex >= 0; byteIndex-- {
		bytes[byteIndex] = masked & 0x7F
		masked >>= 7
	}
	return bytes
}

// BytesToNumber is the inverse of NumberToBytes. If any of the bytes are not
// valid 7 bit values (0x00 through 0x7F), the function returns 0.
func BytesToNumber(bytes []int, bitSize int, alignment DataAlignment) int {
	totalBits := len(bytes) * 7
	if bitSize > totalBits {
		bitSize = totalBits
	}
	result := 0
	for _, byteValue := range bytes {
		if byteValue < 0 || byteValue > 127 {
			return 0
		}
		result = result<<7 | byteValue
	}
	if alignment == LeftJustified {
		result >>= totalBits - bitSize
	}
	return result & ((1 << bitSize) - 1)
}

// PositionToBytes converts a position within a range of values directly to a
// run of 7-bit bytes. The position is clamped to 0.0 through 1.0.
func PositionToBytes(position float32, minimumValue int, maximumValue int, byteCount int, alignment DataAlignment) []int {
	if position < 0 {
		position = 0
	} else if position > 1 {
		position = 1
	}
	value := minimumValue + int(position*float32(maximumValue-minimumValue))
	return NumberToBytes(value, byteCount, byteCount*7, alignment)
}

// Helper is a device's SysEx subsystem: it frames outgoing messages, queues
// them for the next process block, and recognises incoming Universal SysEx,
// materialising a device identity from identity responses.
type Helper struct {
	mu       sync.Mutex
	channel  int
	identity *Identity

	outputRing     *ring.Ring[*Message]
	incomingEvents *ring.Ring[midi.Event]

	messageObservers  map[int]func(*Message)
	identityObservers map[int]func(*Identity)
	nextObserverKey   int
}

func NewHelper() *Helper {
	return &Helper{
		// 0x7F instructs devices to disregard the channel byte
		channel:           0x7F,
		outputRing:        ring.New[*Message]("sysex-output"),
		incomingEvents:    ring.New[midi.Event]("sysex-input"),
		messageObservers:  map[int]func(*Message){},
		identityObservers: map[int]func(*Identity){},
	}
}

// Channel is the SysEx channel this device is supposed to use; Universal
// SysEx messages use it to target a specific device in a chain. The default
// of 0x7F instructs devices to disregard the channel byte.
func (h *Helper) Channel() int {
	return h.channel
}

func (h *Helper) SetChannel(channel int) {
	if channel < 0 {
		channel = 0
	} else if channel > 0x7F {
		channel = 0x7F
	}
	h.channel = channel
}

// Identity returns the identity most recently materialised from an identity
// response, or nil if none has been successfully retrieved.
func (h *Helper) Identity() *Identity {
	return h.identity
}

// CreateMessage builds a message from the given bytes. Each byte must be an
// integer between 0 and 127 or a hex-like string ("7F" or "0x7F"); an
// invalid byte rejects the whole message.
func (h *Helper) CreateMessage(bytes []interface{}, settings MessageSetting) (*Message, error) {
	message := &Message{helper: h, settings: settings}
	if err := message.SetBytes(bytes); err != nil {
		sysexLog.Debug("Error setting bytes", "error", message.ErrorDescription())
		return nil, err
	}
	return message, nil
}

// CreateKnownMessage builds one of the standard messages. The extra fields
// depend on the type; missing fields are assumed zero.
func (h *Helper) CreateKnownMessage(messageType KnownMessage, extraFields []int) (*Message, error) {
	var bytes []interface{}
	var settings MessageSetting
	switch messageType {
	case GMEnableMessage:
		settings = UniversalNonRealtimeSetting
		// The Universal SysEx message identifier for GM System Enable/Disable
		bytes = []interface{}{h.channel, 0x09}
		if len(extraFields) > 0 {
			bytes = append(bytes, clamp(extraFields[0], 0, 1))
		} else {
			bytes = append(bytes, 0x00)
		}
	case SetMasterVolumeMessage:
		settings = UniversalRealtimeSetting
		// The Universal SysEx message identifier for the Master Volume
		bytes = []interface{}{h.channel, 0x04, 0x01}
		bytes = append(bytes, fourteenBitFields(extraFields)...)
	case IdentityRequestMessage:
		settings = UniversalNonRealtimeSetting
		// The Universal SysEx message identifier for identity request
		bytes = []interface{}{h.channel, 0x06, 0x01}
	case SampleDumpRequestMessage:
		settings = UniversalNonRealtimeSetting
		// The Universal SysEx message identifier for sample dump request
		bytes = []interface{}{h.channel, 0x03}
		bytes = append(bytes, fourteenBitFields(extraFields)...)
	}
	return h.CreateMessage(bytes, settings)
}

// fourteenBitFields turns the extra-field conventions shared by the master
// volume and sample dump messages into an LSB/MSB byte pair.
func fourteenBitFields(extraFields []int) []interface{} {
	switch len(extraFields) {
	case 1:
		value := clamp(extraFields[0], 0, 16383)
		return []interface{}{value & 0x7F, (value >> 7) & 0x7F}
	case 2:
		return []interface{}{clamp(extraFields[0], 0, 127), clamp(extraFields[1], 0, 127)}
	default:
		return []interface{}{0x00, 0x00}
	}
}

// Send queues up the given message to be sent out as soon as possible. Once
// passed here, do not perform further changes to the message.
func (h *Helper) Send(message *Message) {
	h.outputRing.Write(message)
}

// OnMessage registers a callback run (on the UI thread) for each received
// message. The returned function unregisters it.
func (h *Helper) OnMessage(observer func(*Message)) func() {
	h.mu.Lock()
	key := h.nextObserverKey
	h.nextObserverKey++
	h.messageObservers[key] = observer
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.messageObservers, key)
		h.mu.Unlock()
	}
}

// OnIdentityChanged registers a callback run (on the UI thread) when an
// identity response replaces the device identity. The returned function
// unregisters it.
func (h *Helper) OnIdentityChanged(observer func(*Identity)) func() {
	h.mu.Lock()
	key := h.nextObserverKey
	h.nextObserverKey++
	h.identityObservers[key] = observer
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		delete(h.identityObservers, key)
		h.mu.Unlock()
	}
}

// Process writes all the messages queued through Send to the given output
// buffer. Called from the device at the start of its process step.
func (h *Helper) Process(outputBuffer graph.Buffer) {
	for h.outputRing.Pending() {
		message := h.outputRing.Peek()
		if message != nil {
			errorCode := outputBuffer.Write(0, message.Frame())
			if errorCode == graph.WriteNoBufferSpace {
				// Then we have run out of space, and need to try again later.
				// Assume sysex must be in order, and wait until the next round;
				// the read head is explicitly not advanced.
				return
			}
			if errorCode != graph.WriteOK {
				sysexLog.Warn("Failed to write outgoing sysex message", "code", errorCode, "size", len(message.Frame()))
			}
		}
		h.outputRing.MarkAsRead()
	}
}

// HandleInputEvent buffers a sysex event encountered on the device's input
// for later parsing on the UI thread. The event's bytes are copied, as the
// port buffer is only valid for the duration of the process callback.
func (h *Helper) HandleInputEvent(currentInputEvent midi.Event) {
	h.incomingEvents.Write(midi.Event{
		Time:   currentInputEvent.Time,
		Buffer: append([]byte(nil), currentInputEvent.Buffer...),
	})
}

// HandlePostponedEvents converts the buffered incoming events into Message
// values and announces their existence to anybody who cares. Call from the
// UI thread, ensuring we don't clog up the dsp process with ui related
// things.
func (h *Helper) HandlePostponedEvents() {
	for {
		event, ok := h.incomingEvents.Read()
		if !ok {
			break
		}
		frame := event.Buffer
		if len(frame) <= 3 || frame[0] != 0xF0 || frame[len(frame)-1] != 0xF7 {
			continue
		}
		settings := MessageSetting(0)
		isIdentityResponse := false
		if len(frame) > 5 && (frame[1] == 0x7F || frame[1] == 0x7E) {
			// Then this might very well be a Universal SysEx message, so
			// let's interpret that...
			subID := frame[3]
			subID2 := frame[4]
			identified := false
			switch {
			case subID == 0x09 && (subID2 == 0x00 || subID2 == 0x01) && frameLength(frame, 5):
				// Universal SysEx: GM Enable
				identified = true
			case subID == 0x04 && subID2 == 0x01 && frameLength(frame, 7):
				// Universal SysEx: Master Volume
				identified = true
			case subID == 0x06 && subID2 == 0x01 && frameLength(frame, 5):
				// Universal SysEx: Identity Request
				identified = true
			case subID == 0x06 && subID2 == 0x02 && len(frame) >= 15 && len(frame) <= 18:
				// Universal SysEx: Identity Response; a 3-byte manufacturer
				// ID makes the frame two bytes longer
				identified = true
				isIdentityResponse = true
			}
			if identified {
				// The channel check must happen after we have identified this
				// as a Universal SysEx message, otherwise things are going to
				// go weirdly for things that are not one such
				sysexChannel := int(frame[2])
				if sysexChannel != 0x7F && sysexChannel != h.channel {
					// Addressed to some other device in the chain
					continue
				}
				if frame[1] == 0x7F {
					settings |= UniversalRealtimeSetting
				} else {
					settings |= UniversalNonRealtimeSetting
				}
			}
		}
		message := &Message{helper: h, settings: settings}
		message.BeginOperation()
		payload := frame[1 : len(frame)-1]
		if settings&(UniversalRealtimeSetting|UniversalNonRealtimeSetting) != 0 {
			// The universal byte is described by the settings, not the payload
			payload = payload[1:]
		}
		message.SetBytesLength(len(payload), 0)
		for i, payloadByte := range payload {
			if err := message.SetByte(i, int(payloadByte)); err != nil {
				sysexLog.Warn("Discarding sysex message with an invalid payload byte", "position", i, "error", err)
				message = nil
				break
			}
		}
		if message == nil {
			continue
		}
		message.EndOperation()
		h.notifyMessage(message)
		if isIdentityResponse {
			h.identity = identityFromFrame(frame)
			h.notifyIdentity(h.identity)
		}
	}
}

// frameLength accepts the recognised length with or without the trailing end
// byte counted, as both conventions appear in the wild.
func frameLength(frame []byte, expected int) bool {
	return len(frame) == expected || len(frame) == expected+1
}

func (h *Helper) notifyMessage(message *Message) {
	h.mu.Lock()
	observers := make([]func(*Message), 0, len(h.messageObservers))
	for _, observer := range h.messageObservers {
		observers = append(observers, observer)
	}
	h.mu.Unlock()
	for _, observer := range observers {
		observer(message)
	}
}

func (h *Helper) notifyIdentity(identity *Identity) {
	h.mu.Lock()
	observers := make([]func(*Identity), 0, len(h.identityObservers))
	for _, observer := range h.identityObservers {
		observers = append(observers, observer)
	}
	h.mu.Unlock()
	for _, observer := range observers {
		observer(identity)
	}
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
