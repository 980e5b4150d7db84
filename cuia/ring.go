package cuia

import (
	"github.com/sketchpadaudio/midirouter/ring"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

// Command is one raised UI action, as passed from the routing engine to the
// UI consumer: what happened, which device asked for it, and where it lands.
type Command struct {
	Event    Event
	OriginID int
	Track    sketchpad.Track
	Slot     sketchpad.Slot
	Value    int
}

// CommandRing carries raised commands from the realtime thread to the UI
// thread. One producer (the process callback), one consumer (the UI loop).
type CommandRing struct {
	ring *ring.Ring[Command]
}

func NewCommandRing() *CommandRing {
	return &CommandRing{ring: ring.New[Command]("cuia")}
}

// Write enqueues a command. Safe to call from the realtime thread.
func (r *CommandRing) Write(event Event, originID int, track sketchpad.Track, slot sketchpad.Slot, value int) {
	r.ring.Write(Command{
		Event:    event,
		OriginID: originID,
		Track:    track,
		Slot:     slot,
		Value:    value,
	})
}

// Read dequeues the oldest unprocessed command; ok is false when the ring is
// empty. Consumers read until the ring is empty.
func (r *CommandRing) Read() (Command, bool) {
	return r.ring.Read()
}

// Pending reports whether there is anything to read.
func (r *CommandRing) Pending() bool {
	return r.ring.Pending()
}
