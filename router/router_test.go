package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sketchpadaudio/midirouter/cuia"
	"github.com/sketchpadaudio/midirouter/graph"
	"github.com/sketchpadaudio/midirouter/sketchpad"
)

// testRig is a keyboard-into-synth setup on a fake graph, the smallest
// arrangement the router can route through.
type testRig struct {
	fake     *graph.Fake
	engine   *Router
	keyboard *Device
	synth    *Device
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	fake := graph.NewFake()
	engine := New(fake, nil)

	keyboard := engine.AddDevice()
	keyboard.SetHumanReadableName("test keyboard")
	keyboard.SetInputPortName("keyboard-in")
	keyboard.SetInputEnabled(true)

	synth := engine.AddDevice()
	synth.SetHumanReadableName("test synth")
	synth.SetOutputPortName("synth-out")
	synth.SetOutputEnabled(true)

	engine.SetTrackDevices(sketchpad.Track1, []*Device{synth})
	engine.SetCurrentTrack(sketchpad.Track1)
	return &testRig{fake: fake, engine: engine, keyboard: keyboard, synth: synth}
}

func (rig *testRig) queue(time uint32, data []byte) {
	rig.fake.FindPort("keyboard-in").QueueEvent(time, data)
}

func TestDefaultRouteToCurrentTrack(t *testing.T) {
	rig := newTestRig(t)
	rig.queue(3, []byte{0x90, 60, 100})
	rig.queue(9, []byte{0x80, 60, 0})

	rig.engine.Process(128)

	written := rig.fake.FindPort("synth-out").Written()
	require.Len(t, written, 2)
	assert.Equal(t, []byte{0x90, 60, 100}, written[0].Buffer)
	assert.Equal(t, uint32(3), written[0].Time)
	assert.Equal(t, []byte{0x80, 60, 0}, written[1].Buffer)
}

func TestNoteActivationFollowsRouting(t *testing.T) {
	rig := newTestRig(t)
	rig.queue(0, []byte{0x90, 60, 100})
	rig.engine.Process(128)
	assert.Equal(t, 1, rig.keyboard.NoteActivationState(0, 60))
	assert.Equal(t, sketchpad.Track1, rig.keyboard.NoteActivationTrack(0, 60))

	rig.queue(0, []byte{0x80, 60, 0})
	rig.engine.Process(128)
	assert.Equal(t, 0, rig.keyboard.NoteActivationState(0, 60))
	assert.Equal(t, sketchpad.NoTrack, rig.keyboard.NoteActivationTrack(0, 60))
}

func TestNoteOnWithZeroVelocityCountsAsOff(t *testing.T) {
	rig := newTestRig(t)
	rig.queue(0, []byte{0x90, 60, 100})
	rig.engine.Process(128)
	rig.queue(0, []byte{0x90, 60, 0})
	rig.engine.Process(128)
	assert.Equal(t, 0, rig.keyboard.NoteActivationState(0, 60))
}

func TestChannelTargetTrackOverridesCurrent(t *testing.T) {
	rig := newTestRig(t)
	other := rig.engine.AddDevice()
	other.SetHumanReadableName("other synth")
	other.SetOutputPortName("other-out")
	other.SetOutputEnabled(true)
	rig.engine.SetTrackDevices(sketchpad.Track2, []*Device{other})

	// Channel 5 is locked to track 2; channel 0 still follows the current track
	rig.keyboard.SetMidiChannelTargetTrack(5, sketchpad.Track2)
	rig.queue(0, []byte{0x95, 70, 90})
	rig.queue(1, []byte{0x90, 71, 90})
	rig.engine.Process(128)

	otherWritten := rig.fake.FindPort("other-out").Written()
	require.Len(t, otherWritten, 1)
	assert.Equal(t, []byte{0x95, 70, 90}, otherWritten[0].Buffer)
	assert.Equal(t, sketchpad.Track2, rig.keyboard.NoteActivationTrack(5, 70))

	synthWritten := rig.fake.FindPort("synth-out").Written()
	require.Len(t, synthWritten, 1)
	assert.Equal(t, []byte{0x90, 71, 90}, synthWritten[0].Buffer)
}

func TestReceiveChannelMaskDropsEvents(t *testing.T) {
	rig := newTestRig(t)
	rig.keyboard.SetReceiveChannels([]int{2}, false)
	rig.queue(0, []byte{0x92, 60, 100})
	rig.queue(1, []byte{0x90, 61, 100})
	rig.engine.Process(128)

	written := rig.fake.FindPort("synth-out").Written()
	require.Len(t, written, 1)
	assert.Equal(t, []byte{0x90, 61, 100}, written[0].Buffer)
}

func TestFilterEntryTargetTrackRouting(t *testing.T) {
	rig := newTestRig(t)
	other := rig.engine.AddDevice()
	other.SetOutputPortName("other-out")
	other.SetOutputEnabled(true)
	rig.engine.SetTrackDevices(sketchpad.Track3, []*Device{other})

	entry := rig.keyboard.InputEventFilter().CreateEntry(-1)
	entry.SetRequiredBytes(3)
	entry.SetRequireRange(true)
	entry.SetByte1Minimum(0xB0)
	entry.SetByte1Maximum(0xBF)
	entry.SetByte2Maximum(127)
	entry.SetByte3Maximum(127)
	entry.SetTargetTrack(sketchpad.Track3)
	entry.AddRewriteRule(-1) // pass-through rule

	rig.queue(0, []byte{0xB0, 7, 100})
	rig.queue(1, []byte{0x90, 60, 100})
	rig.engine.Process(128)

	otherWritten := rig.fake.FindPort("other-out").Written()
	require.Len(t, otherWritten, 1)
	assert.Equal(t, []byte{0xB0, 7, 100}, otherWritten[0].Buffer, "the matched CC goes to the entry's target track")

	synthWritten := rig.fake.FindPort("synth-out").Written()
	require.Len(t, synthWritten, 1)
	assert.Equal(t, []byte{0x90, 60, 100}, synthWritten[0].Buffer, "unmatched events follow the default route")
}

func TestClockDissemination(t *testing.T) {
	rig := newTestRig(t)
	generator := rig.engine.AddDevice()
	generator.SetInputPortName("clock-in")
	generator.SetInputEnabled(true)
	generator.SetDeviceType(TimeCodeGeneratorType, true)

	clockOnly := rig.engine.AddDevice()
	clockOnly.SetOutputPortName("clock-only-out")
	clockOnly.SetOutputEnabled(true)
	clockOnly.SetSendBeatClock(true)
	clockOnly.SetSendTimecode(false)

	timecodeOnly := rig.engine.AddDevice()
	timecodeOnly.SetOutputPortName("timecode-only-out")
	timecodeOnly.SetOutputEnabled(true)
	timecodeOnly.SetSendBeatClock(false)
	timecodeOnly.SetSendTimecode(true)

	rig.fake.FindPort("clock-in").QueueEvent(4, []byte{0xF8})
	rig.fake.FindPort("clock-in").QueueEvent(8, []byte{0xF1, 0x23})
	rig.fake.FindPort("clock-in").QueueEvent(12, []byte{0xFA})
	rig.engine.Process(128)

	clockWritten := rig.fake.FindPort("clock-only-out").Written()
	require.Len(t, clockWritten, 2)
	assert.Equal(t, []byte{0xF8}, clockWritten[0].Buffer)
	assert.Equal(t, uint32(4), clockWritten[0].Time)
	assert.Equal(t, []byte{0xFA}, clockWritten[1].Buffer)

	timecodeWritten := rig.fake.FindPort("timecode-only-out").Written()
	require.Len(t, timecodeWritten, 1)
	assert.Equal(t, []byte{0xF1, 0x23}, timecodeWritten[0].Buffer)
	assert.Equal(t, uint32(8), timecodeWritten[0].Time)
}

func TestRemoveDeviceDropsItFromRouting(t *testing.T) {
	rig := newTestRig(t)
	rig.engine.RemoveDevice(rig.synth)
	assert.Empty(t, rig.engine.TrackDevices(sketchpad.Track1))
	assert.Len(t, rig.engine.Devices(), 1)
	assert.Nil(t, rig.fake.FindPort("synth-out"), "removal releases the device's ports")
}

func TestModelObserversSeeArrivalsAndDepartures(t *testing.T) {
	fake := graph.NewFake()
	engine := New(fake, nil)
	var changes []ModelChange
	unobserve := engine.Model().Observe(func(device *Device, change ModelChange) {
		changes = append(changes, change)
	})
	device := engine.AddDevice()
	engine.RemoveDevice(device)
	assert.Equal(t, []ModelChange{DeviceAdded, DeviceRemoved}, changes)
	assert.Empty(t, engine.Model().Devices())

	unobserve()
	engine.AddDevice()
	assert.Len(t, changes, 2, "unregistered observers see nothing")
}

func TestCommandFeedbackQueuesForNextBlock(t *testing.T) {
	rig := newTestRig(t)
	entry := rig.synth.OutputEventFilter().CreateEntry(-1)
	entry.SetCuiaEvent(cuia.SetTrackVolumeEvent)
	entry.SetOriginTrack(sketchpad.AnyTrack)
	entry.SetOriginSlot(sketchpad.AnySlot)
	entry.SetRequireRange(true)
	entry.SetValueMaximum(127)

	rule := entry.AddRewriteRule(-1)
	rule.SetType(TrackRule)
	rule.SetByteSize(EventSize3)
	require.NoError(t, rule.SetByte(0, ExplicitByte(0xB0)))
	rule.SetByteAddChannel(0, true)
	require.NoError(t, rule.SetByte(1, ExplicitByte(7)))
	require.NoError(t, rule.SetByte(2, OriginalByte3))

	rig.engine.CommandFeedback(cuia.SetTrackVolumeEvent, -1, sketchpad.CurrentTrack, sketchpad.CurrentSlot, 99)

	rig.engine.Process(128)
	written := rig.fake.FindPort("synth-out").Written()
	require.Len(t, written, 1)
	// CurrentTrack resolved to track 0: the status byte gains channel 0
	assert.Equal(t, []byte{0xB0, 7, 99}, written[0].Buffer)
	assert.Equal(t, uint32(0), written[0].Time)
}

func TestGlobalMasterPropagatesToDevices(t *testing.T) {
	fake := graph.NewFake()
	engine := New(fake, nil)
	before := engine.AddDevice()
	engine.SetGlobalMasterChannel(15)
	after := engine.AddDevice()
	assert.Equal(t, 15, before.GlobalMasterChannel())
	assert.Equal(t, 15, after.GlobalMasterChannel())
}
