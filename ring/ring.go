// Package ring provides the fixed-capacity single-producer single-consumer
// rings used to pass data between the realtime process callback and the rest
// of the engine. One goroutine writes, one goroutine reads; the per-slot
// processed flag is the handoff. Writes never block and never allocate.
package ring

import (
	"log/slog"
	"sync/atomic"

	"github.com/sketchpadaudio/midirouter/logging"
)

// Size is the slot count of every ring. If a ring saturates in practice the
// size needs attention at the api level, not at the call site.
const Size = 512

var ringLog *slog.Logger

func init() {
	ringLog = logging.Get(logging.RING)
}

type entry[T any] struct {
	next      *entry[T]
	previous  *entry[T]
	processed atomic.Bool
	value     T
}

// Ring is a circular buffer of Size slots. The zero value is not usable;
// create one with New.
type Ring[T any] struct {
	// Label appears in saturation warnings so the offending ring can be found.
	label     string
	ringData  [Size]entry[T]
	readHead  *entry[T]
	writeHead *entry[T]
}

// New links the slots into a ring and places both heads on the first slot.
func New[T any](label string) *Ring[T] {
	r := &Ring[T]{label: label}
	entryPrevious := &r.ringData[Size-1]
	for i := 0; i < Size; i++ {
		entryPrevious.next = &r.ringData[i]
		r.ringData[i].previous = entryPrevious
		r.ringData[i].processed.Store(true)
		entryPrevious = &r.ringData[i]
	}
	r.readHead = &r.ringData[0]
	r.writeHead = &r.ringData[0]
	return r
}

// Write stores value into the current write slot and advances the write head.
// If the slot still holds unprocessed data the ring has saturated; this is
// logged and the slot is overwritten anyway, as the writer must never stall.
func (r *Ring[T]) Write(value T) {
	e := r.writeHead
	r.writeHead = r.writeHead.next
	if !e.processed.Load() {
		ringLog.Warn("There is unprocessed data at the write location. This likely means the buffer size is too small, which will require attention at the api level.", "ring", r.label)
	}
	e.value = value
	e.processed.Store(false)
}

// Read returns the value at the current read slot and advances the read head.
// The second return is false when the ring holds no unprocessed data.
func (r *Ring[T]) Read() (T, bool) {
	e := r.readHead
	if e.processed.Load() {
		var zero T
		return zero, false
	}
	r.readHead = r.readHead.next
	value := e.value
	var zero T
	e.value = zero
	e.processed.Store(true)
	return value, true
}

// Pending reports whether the read head holds unprocessed data. Safe to call
// from the reader side only.
func (r *Ring[T]) Pending() bool {
	return !r.readHead.processed.Load()
}

// Peek returns the value at the read head without consuming it. Only
// meaningful when Pending reports true.
func (r *Ring[T]) Peek() T {
	return r.readHead.value
}

// MarkAsRead advances the read head without touching the payload. This ring
// does not clear the slot here, as it is likely to be called from the process
// loop and we want to avoid that doing memory type things.
func (r *Ring[T]) MarkAsRead() {
	e := r.readHead
	r.readHead = r.readHead.next
	e.processed.Store(true)
}
