package router

import (
	"sync/atomic"

	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/midi"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

// FilterDirection distinguishes the two kinds of filter a device carries: an
// input filter matches raw midi events, an output filter matches UI actions
// being fed back to the device.
type FilterDirection int

const (
	InputDirection FilterDirection = iota
	OutputDirection
)

// Filter is an ordered stack of entries which take an event and either
// accept or reject it. Matching walks the entries in order and the first
// match wins. The entry list is replaced wholesale on mutation, so the
// realtime thread never observes a half-mutated list.
type Filter struct {
	device    *Device
	direction FilterDirection
	entries   atomic.Pointer[[]*FilterEntry]
}

func newFilter(device *Device, direction FilterDirection) *Filter {
	f := &Filter{device: device, direction: direction}
	empty := []*FilterEntry{}
	f.entries.Store(&empty)
	return f
}

// Direction says which way this filter faces.
func (f *Filter) Direction() FilterDirection {
	return f.direction
}

// Match returns the first entry matching the given midi event, or nil if
// there were no matches. Matching mangles the event on the winning entry.
func (f *Filter) Match(event *midi.Event) *FilterEntry {
	for _, entry := range *f.entries.Load() {
		if entry.Match(event) {
			return entry
		}
	}
	return nil
}

// MatchCommand returns the first entry matching the given UI action values,
// or nil if there were no matches.
func (f *Filter) MatchCommand(cuiaEvent cuia.Event, track sketchpad.Track, slot sketchpad.Slot, value int) *FilterEntry {
	for _, entry := range *f.entries.Load() {
		if entry.MatchCommand(cuiaEvent, track, slot, value) {
			return entry
		}
	}
	return nil
}

// Entries returns the current entry list. The returned slice must not be
// modified.
func (f *Filter) Entries() []*FilterEntry {
	return *f.entries.Load()
}

// CreateEntry creates a new entry at the given index and returns it (any out
// of bounds index appends it).
func (f *Filter) CreateEntry(index int) *FilterEntry {
	entry := newFilterEntry(f.device, f)
	// Operating on a copy of the list and swapping the pointer, as changing
	// the list is not threadsafe, but replacing it entirely is
	current := *f.entries.Load()
	updated := make([]*FilterEntry, 0, len(current)+1)
	if -1 < index && index < len(current) {
		updated = append(updated, current[:index]...)
		updated = append(updated, entry)
		updated = append(updated, current[index:]...)
	} else {
		updated = append(updated, current...)
		updated = append(updated, entry)
	}
	f.entries.Store(&updated)
	return entry
}

// DeleteEntry removes the entry at the given index; an invalid index does
// nothing.
func (f *Filter) DeleteEntry(index int) {
	current := *f.entries.Load()
	if -1 < index && index < len(current) {
		updated := make([]*FilterEntry, 0, len(current)-1)
		updated = append(updated, current[:index]...)
		updated = append(updated, current[index+1:]...)
		f.entries.Store(&updated)
	}
}

// IndexOf returns the index of the given entry in this filter (or -1 if not
// found).
func (f *Filter) IndexOf(entry *FilterEntry) int {
	for i, existing := range *f.entries.Load() {
		if existing == entry {
			return i
		}
	}
	return -1
}

// Swap swaps the positions of the two given entries; if either is not found
// the list is left alone.
func (f *Filter) Swap(swapThis *FilterEntry, withThis *FilterEntry) {
	firstPosition := f.IndexOf(swapThis)
	secondPosition := f.IndexOf(withThis)
	if firstPosition > -1 && secondPosition > -1 {
		current := *f.entries.Load()
		updated := append([]*FilterEntry(nil), current...)
		updated[firstPosition], updated[secondPosition] = updated[secondPosition], updated[firstPosition]
		f.entries.Store(&updated)
	}
}
