// Package graph abstracts the audio-graph client the routing engine runs
// inside of. The engine only ever talks to these interfaces; the JACK-backed
// implementation lives behind the `jack` build tag, and tests drive the
// engine through the in-memory Fake.
package graph

import (
	"github.com/sketchpadaudio/midirouter/midi"
)

// Event-write result codes, following the errno convention of the underlying
// graph: 0 is success, negative values are failures.
const (
	WriteOK = 0
	// WriteInvalid is returned for an out-of-order or otherwise invalid
	// write (-EINVAL).
	WriteInvalid = -22
	// WriteNoBufferSpace is returned when the port buffer has no room left
	// for the event (-ENOBUFS).
	WriteNoBufferSpace = -105
)

// PortDirection selects which way a port faces, from the engine's point of
// view: an input port delivers events to the engine, an output port carries
// events away from it.
type PortDirection int

const (
	PortIsInput PortDirection = iota
	PortIsOutput
)

// Client registers and unregisters MIDI ports on the audio graph. Port names
// are UTF-8; registration may fail, which the engine treats as the port
// being disabled.
type Client interface {
	// RegisterPort creates a MIDI port with the given name and direction.
	RegisterPort(name string, direction PortDirection) (Port, error)
	// UnregisterPort releases a port previously returned by RegisterPort.
	UnregisterPort(port Port) error
}

// Port is an opaque handle to a registered MIDI port.
type Port interface {
	// Buffer fetches the port's event buffer for the current process block.
	// Only valid from within the process callback.
	Buffer(nframes uint32) Buffer
}

// Buffer is a port's per-block event buffer.
type Buffer interface {
	// Clear empties the buffer. Called on output buffers at block start.
	Clear()
	// EventCount returns the number of events in the buffer.
	EventCount() uint32
	// Event fetches the event at the given index. The returned buffer is
	// only valid for the duration of the process callback.
	Event(index uint32) (midi.Event, error)
	// Write appends an event at the given block-relative time. Returns one
	// of the Write* codes; events must be written in non-decreasing time
	// order.
	Write(time uint32, data []byte) int
}
