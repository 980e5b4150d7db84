//go:build jack
// +build jack

package graph

import (
	"fmt"

	"github.com/xthexder/go-jack"

	"github.com/sketchpadaudio/midirouter/midi"
)

// JackClient adapts a JACK client to the graph interfaces. Build with the
// `jack` tag on systems with libjack available.
type JackClient struct {
	client *jack.Client
}

// OpenJack connects to the JACK server under the given client name without
// starting a server of its own.
func OpenJack(clientName string) (*JackClient, error) {
	client, status := jack.ClientOpen(clientName, jack.NoStartServer)
	if client == nil || status != 0 {
		return nil, fmt.Errorf("failed to open JACK client %q: status %d", clientName, status)
	}
	return &JackClient{client: client}, nil
}

// SetProcessCallback installs the per-block callback. The callback must obey
// realtime constraints: no allocation, no blocking, no locks.
func (c *JackClient) SetProcessCallback(process func(nframes uint32) int) error {
	if code := c.client.SetProcessCallback(process); code != 0 {
		return fmt.Errorf("failed to set process callback: %d", code)
	}
	return nil
}

// Activate starts the client's process graph participation.
func (c *JackClient) Activate() error {
	if code := c.client.Activate(); code != 0 {
		return fmt.Errorf("failed to activate JACK client: %d", code)
	}
	return nil
}

// Close deactivates and closes the client.
func (c *JackClient) Close() error {
	if code := c.client.Close(); code != 0 {
		return fmt.Errorf("failed to close JACK client: %d", code)
	}
	return nil
}

func (c *JackClient) RegisterPort(name string, direction PortDirection) (Port, error) {
	flags := uint64(jack.PortIsInput)
	if direction == PortIsOutput {
		flags = uint64(jack.PortIsOutput)
	}
	port := c.client.PortRegister(name, jack.DEFAULT_MIDI_TYPE, flags, 0)
	if port == nil {
		return nil, fmt.Errorf("failed to register port %q", name)
	}
	return &jackPort{port: port}, nil
}

func (c *JackClient) UnregisterPort(port Port) error {
	jp, ok := port.(*jackPort)
	if !ok {
		return fmt.Errorf("not a JACK port")
	}
	if code := c.client.PortUnregister(jp.port); code != 0 {
		return fmt.Errorf("failed to unregister port: %d", code)
	}
	return nil
}

type jackPort struct {
	port *jack.Port
}

func (p *jackPort) Buffer(nframes uint32) Buffer {
	return &jackBuffer{buffer: p.port.GetBuffer(nframes)}
}

type jackBuffer struct {
	buffer *jack.PortBuffer
}

func (b *jackBuffer) Clear() {
	jack.MidiClearBuffer(b.buffer)
}

func (b *jackBuffer) EventCount() uint32 {
	return jack.MidiGetEventCount(b.buffer)
}

func (b *jackBuffer) Event(index uint32) (midi.Event, error) {
	event, err := jack.MidiEventGet(b.buffer, index)
	if err != nil {
		return midi.Event{}, err
	}
	return midi.Event{Time: event.Time, Buffer: event.Buffer}, nil
}

func (b *jackBuffer) Write(time uint32, data []byte) int {
	return jack.MidiEventWrite(b.buffer, &jack.MidiData{Time: time, Buffer: data})
}
