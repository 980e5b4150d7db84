package graph

import (
	"errors"
	"fmt"

	"github.com/sketchpadaudio/midirouter/midi"
)

// Fake is an in-memory graph client for tests: preload input events per
// block, inspect what the engine wrote, and inject write failures. It mirrors
// the contract of the JACK client closely enough that the router code under
// test cannot tell the difference.
type Fake struct {
	Ports       []*FakePort
	FailNextReg bool
}

func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) RegisterPort(name string, direction PortDirection) (Port, error) {
	if f.FailNextReg {
		f.FailNextReg = false
		return nil, fmt.Errorf("port registration refused: %s", name)
	}
	port := &FakePort{Name: name, Direction: direction, buffer: &FakeBuffer{Capacity: 64}}
	f.Ports = append(f.Ports, port)
	return port, nil
}

func (f *Fake) UnregisterPort(port Port) error {
	fp, ok := port.(*FakePort)
	if !ok {
		return errors.New("not a fake port")
	}
	for i, existing := range f.Ports {
		if existing == fp {
			f.Ports = append(f.Ports[:i], f.Ports[i+1:]...)
			fp.Unregistered = true
			return nil
		}
	}
	return errors.New("port not registered")
}

// FindPort returns the registered port with the given name, or nil.
func (f *Fake) FindPort(name string) *FakePort {
	for _, port := range f.Ports {
		if port.Name == name {
			return port
		}
	}
	return nil
}

type FakePort struct {
	Name         string
	Direction    PortDirection
	Unregistered bool
	buffer       *FakeBuffer
	pending      []midi.Event
}

// Buffer delivers the port's per-block buffer. For an input port, whatever
// was queued since the previous block becomes the block's events; anything
// the engine did not consume last block is gone, as it would be on the real
// graph.
func (p *FakePort) Buffer(nframes uint32) Buffer {
	p.buffer.nframes = nframes
	if p.Direction == PortIsInput {
		p.buffer.Events = p.pending
		p.pending = nil
	}
	return p.buffer
}

// QueueEvent adds an event for the engine to read in the next block.
func (p *FakePort) QueueEvent(time uint32, data []byte) {
	p.pending = append(p.pending, midi.Event{Time: time, Buffer: append([]byte(nil), data...)})
}

// Written returns the events the engine has written to this port's buffer
// during the current block.
func (p *FakePort) Written() []midi.Event {
	return p.buffer.Events
}

// FakeBuffer holds a block's events. The same slice backs reads and writes:
// an input port's queued events are read, an output port's events accumulate
// through Write.
type FakeBuffer struct {
	Events  []midi.Event
	nframes uint32

	// Capacity bounds the event count; writes past it return
	// WriteNoBufferSpace.
	Capacity int
	// FailWrites makes the next N writes return WriteNoBufferSpace.
	FailWrites int
	// RejectOutOfOrder makes writes with a time earlier than the latest
	// written event return WriteInvalid, as the real graph does.
	RejectOutOfOrder bool

	lastTime uint32
}

func (b *FakeBuffer) Clear() {
	b.Events = b.Events[:0]
	b.lastTime = 0
}

func (b *FakeBuffer) EventCount() uint32 {
	return uint32(len(b.Events))
}

func (b *FakeBuffer) Event(index uint32) (midi.Event, error) {
	if index >= uint32(len(b.Events)) {
		return midi.Event{}, fmt.Errorf("event index %d out of range", index)
	}
	return b.Events[index], nil
}

func (b *FakeBuffer) Write(time uint32, data []byte) int {
	if b.FailWrites > 0 {
		b.FailWrites--
		return WriteNoBufferSpace
	}
	if b.RejectOutOfOrder && time < b.lastTime {
		return WriteInvalid
	}
	if b.Capacity > 0 && len(b.Events) >= b.Capacity {
		return WriteNoBufferSpace
	}
	b.Events = append(b.Events, midi.Event{Time: time, Buffer: append([]byte(nil), data...)})
	if time > b.lastTime {
		b.lastTime = time
	}
	return WriteOK
}
