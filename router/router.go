package router

import (
	"log/slog"
	"sync/atomic"

	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/graph"
	"github.com/sketchpadaudio/midirouter/logging"
	"github.com/sketchpadaudio/midirouter/midi"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

var routerLog *slog.Logger

func init() {
	routerLog = logging.Get(logging.ROUTER)
}

// trackRouting maps each sketchpad track to the output devices associated
// with it. Replaced wholesale on mutation.
type trackRouting [sketchpad.TrackCount][]*Device

// Router owns the per-block process step: it drains every input device's
// events through that device's input filter and delivers them to the output
// devices of the resolved sketchpad track. Configuration happens on the UI
// thread; the process functions run on the realtime thread and only ever
// read atomically-swapped snapshots.
type Router struct {
	client    graph.Client
	syncTimer SyncTimer

	devices      atomic.Pointer[[]*Device]
	routing      atomic.Pointer[trackRouting]
	currentTrack atomic.Int32

	globalMaster int
	model        *Model
}

// New creates a router on the given graph client. The syncTimer receives the
// hanging-note retirements when devices are removed; pass nil to discard
// them.
func New(client graph.Client, syncTimer SyncTimer) *Router {
	if syncTimer == nil {
		syncTimer = NopSyncTimer{}
	}
	r := &Router{
		client:       client,
		syncTimer:    syncTimer,
		globalMaster: -1,
		model:        newModel(),
	}
	empty := []*Device{}
	r.devices.Store(&empty)
	r.routing.Store(&trackRouting{})
	return r
}

// AddDevice creates and registers a new device. Configure it (names, ports,
// masks) before associating it with any track.
func (r *Router) AddDevice() *Device {
	device := NewDevice(r.client, r.syncTimer)
	device.SetGlobalMasterChannel(r.globalMaster)
	current := *r.devices.Load()
	updated := append(append([]*Device(nil), current...), device)
	r.devices.Store(&updated)
	r.model.addDevice(device)
	routerLog.Info("Added device", "id", device.ID())
	return device
}

// RemoveDevice detaches the device from the router and closes it, which
// unregisters its ports and retires any hanging notes. The device must not
// be reachable from the process callback afterwards.
func (r *Router) RemoveDevice(device *Device) {
	current := *r.devices.Load()
	updated := make([]*Device, 0, len(current))
	for _, existing := range current {
		if existing != device {
			updated = append(updated, existing)
		}
	}
	r.devices.Store(&updated)
	// Drop it from any track associations as well
	oldRouting := r.routing.Load()
	newRouting := trackRouting{}
	for track := 0; track < sketchpad.TrackCount; track++ {
		for _, existing := range oldRouting[track] {
			if existing != device {
				newRouting[track] = append(newRouting[track], existing)
			}
		}
	}
	r.routing.Store(&newRouting)
	r.model.removeDevice(device)
	device.Close()
	routerLog.Info("Removed device", "id", device.ID())
}

// Devices returns the current device list. The returned slice must not be
// modified.
func (r *Router) Devices() []*Device {
	return *r.devices.Load()
}

// Model exposes the device list to UI consumers.
func (r *Router) Model() *Model {
	return r.model
}

// SetTrackDevices associates the given output devices with a sketchpad
// track.
func (r *Router) SetTrackDevices(track sketchpad.Track, devices []*Device) {
	if !track.Valid() {
		return
	}
	oldRouting := r.routing.Load()
	newRouting := *oldRouting
	newRouting[track] = append([]*Device(nil), devices...)
	r.routing.Store(&newRouting)
}

// TrackDevices returns the output devices associated with the given track.
func (r *Router) TrackDevices(track sketchpad.Track) []*Device {
	if !track.Valid() {
		return nil
	}
	return r.routing.Load()[track]
}

// SetCurrentTrack sets the track CurrentTrack sentinels resolve to.
func (r *Router) SetCurrentTrack(track sketchpad.Track) {
	r.currentTrack.Store(int32(track.Clamp()))
}

func (r *Router) CurrentTrack() sketchpad.Track {
	return sketchpad.Track(r.currentTrack.Load())
}

// SetGlobalMasterChannel sets the engine-wide master channel and propagates
// it to every device.
func (r *Router) SetGlobalMasterChannel(globalMaster int) {
	r.globalMaster = globalMaster
	for _, device := range *r.devices.Load() {
		device.SetGlobalMasterChannel(globalMaster)
	}
}

func (r *Router) GlobalMasterChannel() int {
	return r.globalMaster
}

// Process runs a complete block; it has the shape the audio graph expects of
// a process callback.
func (r *Router) Process(nframes uint32) int {
	r.ProcessBegin(nframes)
	r.ProcessBlock()
	r.ProcessEnd()
	return 0
}

// ProcessBegin readies every device for the block.
func (r *Router) ProcessBegin(nframes uint32) {
	for _, device := range *r.devices.Load() {
		device.ProcessBegin(nframes)
	}
}

// ProcessBlock drains every input-enabled device's events: clock generators
// disseminate to the devices which asked for clock, everything else routes
// through the device's input filter to the resolved track's output devices.
func (r *Router) ProcessBlock() {
	devices := *r.devices.Load()
	routing := r.routing.Load()
	current := sketchpad.Track(r.currentTrack.Load())
	for _, device := range devices {
		if !device.InputEnabled() {
			continue
		}
		if device.DeviceType(TimeCodeGeneratorType) {
			r.disseminateClock(device, devices)
			continue
		}
		for device.CurrentInputEvent.Size() > 0 {
			event := &device.CurrentInputEvent
			status := event.Status()
			eventChannel := int(event.Channel())
			if midi.IsChannelMessage(status) && !device.ReceiveChannel(eventChannel) {
				device.NextInputEvent()
				continue
			}
			var track sketchpad.Track
			if entry := device.InputEventFilter().Match(event); entry != nil {
				track = resolveTrack(entry.TargetTrack(), current)
				for _, destination := range routing[track] {
					entry.WriteEventToDevice(destination)
				}
			} else {
				track = device.TargetTrackForMidiChannel(eventChannel)
				track = resolveTrack(track, current)
				for _, destination := range routing[track] {
					destination.WriteEventToOutput(event, -1)
				}
			}
			if midi.IsNoteMessage(status) && event.Size() > 2 {
				noteOn := status >= 0x90 && event.Buffer[2] > 0
				device.SetNoteActive(track, eventChannel, int(event.Buffer[1]), noteOn)
			}
			device.NextInputEvent()
		}
	}
}

// disseminateClock writes a clock generator's events to every output device
// which wants them: beat clock bytes gated by SendBeatClock, timecode bytes
// by SendTimecode, at their original sample offsets.
func (r *Router) disseminateClock(generator *Device, devices []*Device) {
	for generator.CurrentInputEvent.Size() > 0 {
		event := &generator.CurrentInputEvent
		status := event.Status()
		isBeatClock := status == 0xF8 || status == 0xFA || status == 0xFB || status == 0xFC
		isTimecode := status == 0xF1
		if isBeatClock || isTimecode {
			for _, destination := range devices {
				if destination == generator {
					continue
				}
				if (isBeatClock && destination.SendBeatClock()) || (isTimecode && destination.SendTimecode()) {
					destination.WriteEventToOutput(event, -1)
				}
			}
		}
		generator.NextInputEvent()
	}
}

// ProcessEnd releases every device's block state.
func (r *Router) ProcessEnd() {
	for _, device := range *r.devices.Load() {
		device.ProcessEnd()
	}
}

// HandlePostponedEvents runs the non-realtime half of every device's work.
// Call from the UI thread, between blocks.
func (r *Router) HandlePostponedEvents() {
	for _, device := range *r.devices.Load() {
		device.HandlePostponedEvents()
	}
}

// CommandFeedback announces a fired UI action to every device; devices whose
// output filter matches queue the resulting midi events for the next block.
// CurrentTrack is resolved before matching so the devices see the actual
// track index.
func (r *Router) CommandFeedback(cuiaEvent cuia.Event, originID int, track sketchpad.Track, slot sketchpad.Slot, value int) {
	resolved := resolveTrack(track, sketchpad.Track(r.currentTrack.Load()))
	for _, device := range *r.devices.Load() {
		device.cuiaEventFeedback(cuiaEvent, originID, resolved, slot, value)
	}
}

func resolveTrack(track sketchpad.Track, current sketchpad.Track) sketchpad.Track {
	if track.Valid() {
		return track
	}
	return current
}
