// Package router implements the realtime MIDI routing and transformation
// engine: the device model, the match/rewrite filter engine, and the
// per-block process step that connects the two.
package router

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/graph"
	"github.com/sketchpadaudio/midirouter/logging"
	"github.com/sketchpadaudio/midirouter/midi"
	"github.com/sketchpadaudio/midirouter/ring"
	"github.com/sketchpadaudio/midirouter/sketchpad"
	"github.com/sketchpadaudio/midirouter/sysex"
)

var deviceLog *slog.Logger

func init() {
	deviceLog = logging.Get(logging.DEVICE)
}

// DeviceDirection marks which way a device can move events.
type DeviceDirection int

const (
	InDevice  DeviceDirection = 0x1
	OutDevice DeviceDirection = 0x2
)

// DeviceType marks what kind of endpoint a device is. A device can be
// several types at once.
type DeviceType int

const (
	ControllerType        DeviceType = 0x1
	SynthType             DeviceType = 0x2
	TimeCodeGeneratorType DeviceType = 0x4
	HardwareDeviceType    DeviceType = 0x8
	MasterTrackType       DeviceType = 0x10
	SequencerType         DeviceType = 0x20
)

var nextDeviceID atomic.Int32

// Device is one routable endpoint as known by the router: a hardware
// controller, a synth input, a sequencer, the timecode generator. It owns the
// per-device state the realtime path needs (channel masks, note tallies,
// master-channel remap data) and the rings which bridge non-realtime
// producers into the process callback.
type Device struct {
	id     int
	client graph.Client

	hardwareID        string
	externalID        string
	humanReadableName string

	inputPortName  string
	outputPortName string
	inputPort      graph.Port
	outputPort     graph.Port
	inputEnabled   bool
	outputEnabled  bool

	direction DeviceDirection
	types     DeviceType

	receiveFromChannel [16]bool
	sendToChannel      [16]bool
	acceptsNote        [128]bool
	transposeAmount    int

	// acceptedMidiChannel narrows which channels the device will take events
	// on; events on other channels move to lastAcceptedChannel at write time.
	acceptedMidiChannel [16]bool
	lastAcceptedChannel int

	// The master channel for the given channels' data (used for MPE
	// upper/lower splits). -1 means no remapping for that channel.
	masterChannel [16]int
	// The engine-wide master channel this device is normalised to.
	globalMaster int

	lowerMasterChannel         int
	upperMasterChannel         int
	noteSplitPoint             int
	lastLowerZoneMemberChannel int

	midiChannelTargetTrack [16]sketchpad.Track

	noteState           [16][128]int
	noteActivationTrack [16][128]sketchpad.Track

	ccTranslations *CCTranslationTable

	sendTimecode  bool
	sendBeatClock bool

	inputFilter  *Filter
	outputFilter *Filter

	// CommandRing carries the UI actions this device has raised; drained by
	// the UI thread.
	CommandRing *cuia.CommandRing
	// MidiOutputRing queues raw events from non-realtime code to be written
	// at the start of the next block.
	MidiOutputRing *ring.Ring[[]byte]

	sysexHelper *sysex.Helper
	syncTimer   SyncTimer

	// Block-scoped state, touched only from the process callback.

	// CurrentInputEvent is the event being routed; its size is 0 once the
	// input is exhausted. Call NextInputEvent to advance.
	CurrentInputEvent midi.Event

	inputBuffer          graph.Buffer
	outputBuffer         graph.Buffer
	inputEventCount      uint32
	nextInputEventIndex  uint32
	mostRecentOutputTime uint32
}

// NewDevice creates a device on the given graph client with all masks open,
// no remapping, and empty note tallies.
func NewDevice(client graph.Client, syncTimer SyncTimer) *Device {
	loadTranslations()
	if syncTimer == nil {
		syncTimer = NopSyncTimer{}
	}
	d := &Device{
		id:                         int(nextDeviceID.Add(1)),
		client:                     client,
		globalMaster:               -1,
		lowerMasterChannel:         15,
		upperMasterChannel:         15,
		noteSplitPoint:             127,
		lastLowerZoneMemberChannel: 7,
		lastAcceptedChannel:        15,
		sendTimecode:               true,
		sendBeatClock:              true,
		syncTimer:                  syncTimer,
		CommandRing:                cuia.NewCommandRing(),
		MidiOutputRing:             ring.New[[]byte]("midi-output"),
	}
	for channel := 0; channel < 16; channel++ {
		d.receiveFromChannel[channel] = true
		d.sendToChannel[channel] = true
		d.acceptedMidiChannel[channel] = true
		d.masterChannel[channel] = -1
		d.midiChannelTargetTrack[channel] = sketchpad.CurrentTrack
		for note := 0; note < 128; note++ {
			d.noteState[channel][note] = 0
			d.noteActivationTrack[channel][note] = sketchpad.NoTrack
		}
	}
	for note := 0; note < 128; note++ {
		d.acceptsNote[note] = true
	}
	d.inputFilter = newFilter(d, InputDirection)
	d.outputFilter = newFilter(d, OutputDirection)
	d.sysexHelper = sysex.NewHelper()
	return d
}

// ID is assigned at creation time. It is not usable across runs, and
// reconnecting a device gives it a new ID (as a new device instance is
// created).
func (d *Device) ID() int {
	return d.id
}

// Close pulls down the device's ports and submits all the missing note-off
// events (which won't arrive any longer now the thing has been disconnected)
// into the schedule for their associated tracks. Must not be called while the
// process callback can still reach the device.
func (d *Device) Close() {
	d.SetInputPortName("")
	d.SetOutputPortName("")
	for channel := 0; channel < 16; channel++ {
		for note := 0; note < 128; note++ {
			currentActivations := d.noteState[channel][note]
			sketchpadTrack := d.noteActivationTrack[channel][note]
			for activations := 0; activations < currentActivations; activations++ {
				d.syncTimer.SendNoteImmediately(note, channel, false, 0, sketchpadTrack)
			}
		}
	}
	unloadTranslations()
}

// BEGIN identity

func (d *Device) SetHardwareID(hardwareID string) {
	d.hardwareID = hardwareID
}

func (d *Device) HardwareID() string {
	return d.hardwareID
}

// SetExternalID sets the name the surrounding system knows this device by,
// used to translate between external settings (enabled/disabled, that sort
// of thing) and this device instance.
func (d *Device) SetExternalID(externalID string) {
	d.externalID = externalID
}

func (d *Device) ExternalID() string {
	return d.externalID
}

// SetHumanReadableName sets the display name, and applies what we know about
// the named device: a CC translation table for devices with known quirks, and
// the default device master channel for known MPE hardware.
func (d *Device) SetHumanReadableName(humanReadableName string) {
	if d.humanReadableName == humanReadableName {
		return
	}
	d.humanReadableName = humanReadableName
	d.ccTranslations = translationsForDevice(humanReadableName)
	masterChannel := deviceMasterChannel(humanReadableName)
	for channel := 0; channel < 16; channel++ {
		d.masterChannel[channel] = masterChannel
	}
}

func (d *Device) HumanReadableName() string {
	return d.humanReadableName
}

func (d *Device) String() string {
	return fmt.Sprintf("%s/%s", d.hardwareID, d.externalID)
}

// END identity

// BEGIN ports

// SetInputPortName registers an input port with the given name on the graph
// client, releasing any previously registered input port first. An empty name
// only releases. The device is marked as supporting input; a failed
// registration clears the input-enabled flag.
func (d *Device) SetInputPortName(portName string) {
	if d.inputPortName == portName {
		return
	}
	d.inputPortName = portName
	d.direction |= InDevice
	if d.inputPort != nil {
		if err := d.client.UnregisterPort(d.inputPort); err != nil {
			deviceLog.Debug("Failed to unregister input port even though there's one registered. We'll ignore that and keep going, but this seems not quite right.", "device", d, "error", err)
		}
		d.inputPort = nil
	}
	if portName != "" {
		port, err := d.client.RegisterPort(portName, graph.PortIsInput)
		if err != nil {
			deviceLog.Warn("Failed to register input port", "device", d, "port", portName, "error", err)
		} else {
			d.inputPort = port
		}
	}
	if d.inputPort == nil {
		d.inputEnabled = false
	}
}

func (d *Device) InputPortName() string {
	return d.inputPortName
}

func (d *Device) SetInputEnabled(enabled bool) {
	d.inputEnabled = enabled
}

func (d *Device) InputEnabled() bool {
	return d.inputEnabled
}

// SetOutputPortName registers an output port with the given name on the
// graph client; the same contract as SetInputPortName, facing the other way.
func (d *Device) SetOutputPortName(portName string) {
	if d.outputPortName == portName {
		return
	}
	d.outputPortName = portName
	d.direction |= OutDevice
	if d.outputPort != nil {
		if err := d.client.UnregisterPort(d.outputPort); err != nil {
			deviceLog.Debug("Failed to unregister output port even though there's one registered. We'll ignore that and keep going, but this seems not quite right.", "device", d, "error", err)
		}
		d.outputPort = nil
	}
	if portName != "" {
		port, err := d.client.RegisterPort(portName, graph.PortIsOutput)
		if err != nil {
			deviceLog.Warn("Failed to register output port", "device", d, "port", portName, "error", err)
		} else {
			d.outputPort = port
		}
	}
	if d.outputPort == nil {
		d.outputEnabled = false
	}
}

func (d *Device) OutputPortName() string {
	return d.outputPortName
}

func (d *Device) SetOutputEnabled(enabled bool) {
	d.outputEnabled = enabled
}

func (d *Device) OutputEnabled() bool {
	return d.outputEnabled
}

// END ports

// BEGIN direction and type flags

func (d *Device) SetDeviceDirection(direction DeviceDirection, supportsDirection bool) {
	if supportsDirection {
		d.direction |= direction
	} else {
		d.direction &^= direction
	}
}

func (d *Device) SupportsDirection(direction DeviceDirection) bool {
	return d.direction&direction != 0
}

func (d *Device) SetDeviceType(deviceType DeviceType, isType bool) {
	if isType {
		d.types |= deviceType
	} else {
		d.types &^= deviceType
	}
}

func (d *Device) DeviceType(deviceType DeviceType) bool {
	return d.types&deviceType != 0
}

// END direction and type flags

// BEGIN masks and routing targets

// SetAcceptedNotes sets the acceptability state of the listed notes. With
// setOthersOpposite, every note not in the list is first set to the opposite
// value.
func (d *Device) SetAcceptedNotes(notes []int, accepted bool, setOthersOpposite bool) {
	if setOthersOpposite {
		for note := 0; note < 128; note++ {
			d.acceptsNote[note] = !accepted
		}
	}
	for _, note := range notes {
		d.acceptsNote[clampInt(note, 0, 127)] = accepted
	}
}

// SetAcceptsNote sets the acceptability state of a single note. An event on
// a note which is not accepted is dropped at output-write time.
func (d *Device) SetAcceptsNote(note int, accepted bool) {
	d.acceptsNote[clampInt(note, 0, 127)] = accepted
}

func (d *Device) AcceptsNote(note int) bool {
	return d.acceptsNote[clampInt(note, 0, 127)]
}

// SetTransposeAmount sets the amount by which notes written to the device are
// transposed. Transposed note values are clamped to the valid range rather
// than dropped.
func (d *Device) SetTransposeAmount(transposeAmount int) {
	d.transposeAmount = clampInt(transposeAmount, -127, 127)
}

// SetAcceptedMidiChannels narrows the channels this device will take events
// on. An event on any other channel is moved to the last channel in the
// accepted list. There is no guarantee of an even spread here, but it is
// inexpensive to calculate, as well as consistent.
func (d *Device) SetAcceptedMidiChannels(acceptedMidiChannels []int) {
	for channel := 0; channel < 16; channel++ {
		d.acceptedMidiChannel[channel] = false
	}
	last := 15
	for _, channel := range acceptedMidiChannels {
		if channel > -1 && channel < 16 {
			d.acceptedMidiChannel[channel] = true
			last = channel
		}
	}
	d.lastAcceptedChannel = last
}

// SetReceiveChannels marks whether events are collected from the listed
// channels. Indices outside 0 through 15 are ignored.
func (d *Device) SetReceiveChannels(channels []int, receive bool) {
	for _, channel := range channels {
		if channel > -1 && channel < 16 {
			d.receiveFromChannel[channel] = receive
		}
	}
}

func (d *Device) ReceiveChannel(channel int) bool {
	return d.receiveFromChannel[channel&0xF]
}

// SetSendToChannels marks whether events are sent to the listed channels.
// Indices outside 0 through 15 are ignored.
func (d *Device) SetSendToChannels(channels []int, sendTo bool) {
	for _, channel := range channels {
		if channel > -1 && channel < 16 {
			d.sendToChannel[channel] = sendTo
		}
	}
}

func (d *Device) SendToChannel(channel int) bool {
	return d.sendToChannel[channel&0xF]
}

// SetMidiChannelTargetTrack locks events received on the given channel to the
// given sketchpad track, instead of the current one. A midiChannel of -1 sets
// the target for all channels; a track of CurrentTrack restores default
// routing.
func (d *Device) SetMidiChannelTargetTrack(midiChannel int, sketchpadTrack sketchpad.Track) {
	if sketchpadTrack != sketchpad.CurrentTrack {
		sketchpadTrack = sketchpadTrack.Clamp()
	}
	if midiChannel == -1 {
		for channel := 0; channel < 16; channel++ {
			d.midiChannelTargetTrack[channel] = sketchpadTrack
		}
	} else {
		d.midiChannelTargetTrack[clampInt(midiChannel, 0, 15)] = sketchpadTrack
	}
}

// TargetTrackForMidiChannel returns the track set for the given channel
// (CurrentTrack when the channel is not locked anywhere).
func (d *Device) TargetTrackForMidiChannel(midiChannel int) sketchpad.Track {
	return d.midiChannelTargetTrack[clampInt(midiChannel, 0, 15)]
}

func (d *Device) SetSendTimecode(sendTimecode bool) {
	d.sendTimecode = sendTimecode
}

func (d *Device) SendTimecode() bool {
	return d.sendTimecode
}

func (d *Device) SetSendBeatClock(sendBeatClock bool) {
	d.sendBeatClock = sendBeatClock
}

func (d *Device) SendBeatClock() bool {
	return d.sendBeatClock
}

// END masks and routing targets

// BEGIN MPE

// SetGlobalMasterChannel informs the device about the engine-wide master
// channel, used for translating messages from the device's own master
// channel convention.
func (d *Device) SetGlobalMasterChannel(globalMaster int) {
	d.globalMaster = globalMaster
}

func (d *Device) GlobalMasterChannel() int {
	return d.globalMaster
}

// SetMasterChannel sets the device master channel for a single incoming
// channel. A channel of -1 sets all sixteen.
func (d *Device) SetMasterChannel(midiChannel int, masterChannel int) {
	if midiChannel == -1 {
		for channel := 0; channel < 16; channel++ {
			d.masterChannel[channel] = masterChannel
		}
	} else {
		d.masterChannel[clampInt(midiChannel, 0, 15)] = masterChannel
	}
}

func (d *Device) MasterChannel(midiChannel int) int {
	return d.masterChannel[clampInt(midiChannel, 0, 15)]
}

// The MPE zone surface: once a split is set up, the lower zone's master
// should be 0 and the upper zone's 15 for correct mpe-ness. The per-channel
// master array is recomputed whenever any of these change.

func (d *Device) SetLowerMasterChannel(lowerMasterChannel int) {
	d.lowerMasterChannel = clampInt(lowerMasterChannel, 0, 15)
	d.recomputeMasterChannels()
}

func (d *Device) LowerMasterChannel() int {
	return d.lowerMasterChannel
}

func (d *Device) SetUpperMasterChannel(upperMasterChannel int) {
	d.upperMasterChannel = clampInt(upperMasterChannel, 0, 15)
	d.recomputeMasterChannels()
}

func (d *Device) UpperMasterChannel() int {
	return d.upperMasterChannel
}

// SetNoteSplitPoint sets the last midi note value in the lower zone. 127
// means an all-lower split, 0 all upper.
func (d *Device) SetNoteSplitPoint(noteSplitPoint int) {
	d.noteSplitPoint = clampInt(noteSplitPoint, 0, 127)
	d.recomputeMasterChannels()
}

func (d *Device) NoteSplitPoint() int {
	return d.noteSplitPoint
}

// SetLastLowerZoneMemberChannel sets the highest channel used for notes in
// the lower zone; channels above it belong to the upper zone.
func (d *Device) SetLastLowerZoneMemberChannel(lastLowerZoneMemberChannel int) {
	d.lastLowerZoneMemberChannel = clampInt(lastLowerZoneMemberChannel, 0, 15)
	d.recomputeMasterChannels()
}

func (d *Device) LastLowerZoneMemberChannel() int {
	return d.lastLowerZoneMemberChannel
}

func (d *Device) recomputeMasterChannels() {
	for channel := 0; channel < 16; channel++ {
		if channel <= d.lastLowerZoneMemberChannel {
			d.masterChannel[channel] = d.lowerMasterChannel
		} else {
			d.masterChannel[channel] = d.upperMasterChannel
		}
	}
}

// zynthboxToDevice rewrites an outgoing event's channel from the engine's
// master-channel convention to the device's. Pure byte-in/byte-out; events
// which aren't channel events are left alone.
func (d *Device) zynthboxToDevice(event *midi.Event) {
	if len(event.Buffer) == 0 {
		return
	}
	byte0 := event.Buffer[0]
	if 0x7F < byte0 && byte0 < 0xF0 {
		eventChannel := int(byte0 & 0xF)
		masterChannel := d.masterChannel[eventChannel]
		// Only apply if both master channels are configured, and they differ
		if masterChannel > -1 && d.globalMaster > -1 && masterChannel != d.globalMaster {
			if !((eventChannel > d.globalMaster && eventChannel > masterChannel) ||
				(eventChannel < d.globalMaster && eventChannel < masterChannel)) {
				// Only move the event if it isn't already outside the range of the two master channels
				if eventChannel > d.globalMaster {
					// Then it's between device master and global, so we move it down one channel
					event.Buffer[0] = byte0 - 1
				} else if eventChannel < d.globalMaster {
					// Then it's between global and device master, so we move it up one channel
					event.Buffer[0] = byte0 + 1
				} else {
					// Then it's on the global master, and should be on the device master channel
					event.Buffer[0] = byte0 - byte(d.globalMaster) + byte(masterChannel)
				}
			}
		}
	}
}

// deviceToZynthbox is the exact mirror of zynthboxToDevice, applied to
// incoming events so they match the engine's master channel.
func (d *Device) deviceToZynthbox(event *midi.Event) {
	if len(event.Buffer) == 0 {
		return
	}
	byte0 := event.Buffer[0]
	if 0x7F < byte0 && byte0 < 0xF0 {
		eventChannel := int(byte0 & 0xF)
		masterChannel := d.masterChannel[eventChannel]
		if masterChannel > -1 && d.globalMaster > -1 && masterChannel != d.globalMaster {
			if !((eventChannel > masterChannel && eventChannel > d.globalMaster) ||
				(eventChannel < masterChannel && eventChannel < d.globalMaster)) {
				// Only move the event if it isn't already outside the range of the two master channels
				if eventChannel > masterChannel {
					event.Buffer[0] = byte0 - 1
				} else if eventChannel < masterChannel {
					event.Buffer[0] = byte0 + 1
				} else {
					// Then it's on the device master, and should be on the global master channel
					event.Buffer[0] = byte0 - byte(masterChannel) + byte(d.globalMaster)
				}
			}
		}
	}
}

// END MPE

// BEGIN note tallies

// ResetNoteActivation clears the note activation tallies for the device.
func (d *Device) ResetNoteActivation() {
	for channel := 0; channel < 16; channel++ {
		for note := 0; note < 128; note++ {
			d.noteState[channel][note] = 0
		}
	}
}

// SetNoteActive marks a note on a channel as active or inactive. Activations
// are tracked fully (that is, we know how many have happened - used for
// example to ensure we end up with zero if a device is unplugged). The first
// activation records the sketchpad track the note was sent to; returning to
// zero clears it.
func (d *Device) SetNoteActive(sketchpadTrack sketchpad.Track, channel int, note int, active bool) {
	if -1 < channel && channel < 16 && -1 < note && note < 128 {
		if active {
			d.noteState[channel][note]++
			if d.noteState[channel][note] == 1 {
				d.noteActivationTrack[channel][note] = sketchpadTrack
			}
		} else {
			d.noteState[channel][note]--
			if d.noteState[channel][note] == 0 {
				d.noteActivationTrack[channel][note] = sketchpad.NoTrack
			}
		}
	} else {
		deviceLog.Warn("Attempted to set note activation state out of range", "note", note, "channel", channel, "active", active)
	}
}

// NoteActivationState returns the activation tally of the given note on the
// given channel. Above 1 means the note has been activated that many times;
// 0 means not known to be active; a negative number means note-off messages
// were lost.
func (d *Device) NoteActivationState(channel int, note int) int {
	return d.noteState[clampInt(channel, 0, 15)][clampInt(note, 0, 127)]
}

// NoteActivationTrack returns the sketchpad track the initial activation of
// the given note was sent to (NoTrack if there was no activation).
func (d *Device) NoteActivationTrack(channel int, note int) sketchpad.Track {
	return d.noteActivationTrack[clampInt(channel, 0, 15)][clampInt(note, 0, 127)]
}

// END note tallies

// BEGIN realtime path

// ProcessBegin readies the device for a block: fetches and clears the output
// buffer, writes any queued sysex and midi-ring events at the head of the
// block, fetches the input buffer and primes CurrentInputEvent.
func (d *Device) ProcessBegin(nframes uint32) {
	if d.outputPort != nil {
		d.outputBuffer = d.outputPort.Buffer(nframes)
		d.outputBuffer.Clear()
	} else {
		d.outputBuffer = nil
	}
	d.mostRecentOutputTime = 0
	if d.outputBuffer != nil {
		d.sysexHelper.Process(d.outputBuffer)
		for {
			data, ok := d.MidiOutputRing.Read()
			if !ok {
				break
			}
			if code := d.outputBuffer.Write(0, data); code != graph.WriteOK {
				deviceLog.Warn("Failed to write queued event at block start", "device", d, "code", code)
			}
		}
	}
	// Set up the input buffer and fetch the first event (if there are any)
	d.nextInputEventIndex = 0
	d.CurrentInputEvent.Buffer = nil
	if d.inputPort != nil {
		d.inputBuffer = d.inputPort.Buffer(nframes)
		d.inputEventCount = d.inputBuffer.EventCount()
		d.NextInputEvent()
	} else {
		d.inputBuffer = nil
		d.inputEventCount = 0
	}
}

// NextInputEvent fetches the next event into CurrentInputEvent, normalising
// it to the engine's master channel and applying the device's CC translation
// table. The time code is left intact. When the input is exhausted the
// current event's size becomes 0.
func (d *Device) NextInputEvent() {
	if d.inputBuffer != nil && d.nextInputEventIndex < d.inputEventCount {
		event, err := d.inputBuffer.Event(d.nextInputEventIndex)
		if err != nil {
			d.CurrentInputEvent.Buffer = nil
			deviceLog.Warn("Received event lost", "device", d, "expected", d.inputEventCount, "index", d.nextInputEventIndex, "error", err)
		} else {
			d.CurrentInputEvent = event
			// Let's make sure the event is going to be at least reasonably valid
			d.deviceToZynthbox(&d.CurrentInputEvent)
			if len(d.CurrentInputEvent.Buffer) > 1 && midi.IsControlChange(d.CurrentInputEvent.Buffer[0]) {
				// Then it's a CC message, and maybe we want to do a thing?
				if replacement := d.ccTranslations.Lookup(d.CurrentInputEvent.Buffer[1]); len(replacement) > 0 {
					// leave the time code intact
					d.CurrentInputEvent.Buffer = replacement
				}
			}
			if d.CurrentInputEvent.IsSysEx() {
				d.sysexHelper.HandleInputEvent(d.CurrentInputEvent)
			}
		}
	} else {
		d.CurrentInputEvent.Buffer = nil
	}
	d.nextInputEventIndex++
}

// WriteEventToOutput writes a midi event to the device's output buffer. The
// event arrives in the engine's channel convention and the caller-owned
// buffer is left unchanged on return. An overrideChannel greater than -1
// rewrites the event onto that channel for the write.
func (d *Device) WriteEventToOutput(event *midi.Event, overrideChannel int) {
	if d.outputBuffer == nil || len(event.Buffer) == 0 {
		return
	}
	status := event.Buffer[0]
	isNoteMessage := midi.IsNoteMessage(status)
	if isNoteMessage && len(event.Buffer) > 1 && !d.acceptsNote[event.Buffer[1]] {
		return
	}
	var originalNote byte
	transposed := false
	if isNoteMessage && len(event.Buffer) > 1 && d.transposeAmount != 0 {
		originalNote = event.Buffer[1]
		event.Buffer[1] = byte(clampInt(int(originalNote)+d.transposeAmount, 0, 127))
		transposed = true
	}
	d.zynthboxToDevice(event)
	eventChannel := int(event.Buffer[0] & 0xF)
	outputChannel := overrideChannel
	if outputChannel < 0 && midi.IsChannelMessage(event.Buffer[0]) && !d.acceptedMidiChannel[eventChannel] {
		outputChannel = d.lastAcceptedChannel
	}
	if outputChannel > -1 {
		event.Buffer[0] = event.Buffer[0] - byte(eventChannel) + byte(outputChannel)
	}
	blocked := midi.IsChannelMessage(event.Buffer[0]) && !d.sendToChannel[event.Buffer[0]&0xF]
	if !blocked {
		errorCode := d.outputBuffer.Write(event.Time, event.Buffer)
		if errorCode == graph.WriteInvalid {
			// If the error invalid happens, we should likely assume the event
			// was out of order for whatever reason, and just schedule it at the
			// same time as the most recently scheduled event
			errorCode = d.outputBuffer.Write(d.mostRecentOutputTime, event.Buffer)
		}
		if errorCode != graph.WriteOK {
			if errorCode == graph.WriteNoBufferSpace {
				deviceLog.Warn("Ran out of space while writing events!", "device", d)
			} else {
				deviceLog.Warn("Error writing midi event", "device", d, "code", errorCode, "time", event.Time, "size", len(event.Buffer))
			}
		}
		if d.mostRecentOutputTime < event.Time {
			d.mostRecentOutputTime = event.Time
		}
	}
	if outputChannel > -1 {
		event.Buffer[0] = event.Buffer[0] + byte(eventChannel) - byte(outputChannel)
	}
	if transposed {
		event.Buffer[1] = originalNote
	}
	d.deviceToZynthbox(event)
}

// ProcessEnd releases the block-scoped buffer handles.
func (d *Device) ProcessEnd() {
	d.outputBuffer = nil
	d.inputBuffer = nil
	d.nextInputEventIndex = 0
	d.inputEventCount = 0
	d.CurrentInputEvent.Buffer = nil
}

// END realtime path

// InputEventFilter is the filter applied to this device's incoming events.
func (d *Device) InputEventFilter() *Filter {
	return d.inputFilter
}

// OutputEventFilter is the filter applied when UI actions are fed back to
// this device.
func (d *Device) OutputEventFilter() *Filter {
	return d.outputFilter
}

// Sysex is the device's SysEx framing helper.
func (d *Device) Sysex() *sysex.Helper {
	return d.sysexHelper
}

// HandlePostponedEvents runs the non-realtime half of the device's work:
// parsing buffered sysex input and announcing messages. Call from the UI
// thread.
func (d *Device) HandlePostponedEvents() {
	d.sysexHelper.HandlePostponedEvents()
}

// cuiaEventFeedback is called whenever a UI action is fired by some device.
// Runs on the UI thread, so matched rewrite rules are queued on the midi
// output ring rather than written directly; they land at the start of the
// next block.
func (d *Device) cuiaEventFeedback(cuiaEvent cuia.Event, originID int, track sketchpad.Track, slot sketchpad.Slot, value int) {
	if entry := d.outputFilter.MatchCommand(cuiaEvent, track, slot, value); entry != nil {
		entry.mangleCommand(track, slot, value)
		for _, rule := range entry.RewriteRules() {
			if rule.ruleType == TrackRule {
				d.MidiOutputRing.Write(append([]byte(nil), rule.bufferEvent.Buffer...))
			}
		}
	}
	_ = originID
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
