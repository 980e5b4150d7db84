package router

import "github.com/sketchpadaudio/midirouter/sketchpad"

// SyncTimer accepts scheduled note-off fallbacks when devices disappear. The
// engine only ever calls it from the destructor path, once per hanging
// activation.
type SyncTimer interface {
	SendNoteImmediately(note int, channel int, active bool, velocity int, sketchpadTrack sketchpad.Track)
}

// NopSyncTimer discards everything. Used when no timer has been wired up.
type NopSyncTimer struct{}

func (NopSyncTimer) SendNoteImmediately(note int, channel int, active bool, velocity int, sketchpadTrack sketchpad.Track) {
}
