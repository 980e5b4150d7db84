package sysex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sketchpadaudio/midirouter/graph"
	"github.com/sketchpadaudio/midirouter/midi"
)

func TestNumberToBytesRoundTrip(t *testing.T) {
	// P4: a 14-bit value survives the trip through two 7-bit bytes
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.IntRange(0, 16383).Draw(t, "value")
		bytes := NumberToBytes(value, 2, 14, RightJustified)
		require.Len(t, bytes, 2)
		for _, b := range bytes {
			assert.LessOrEqual(t, b, 127)
			assert.GreaterOrEqual(t, b, 0)
		}
		assert.Equal(t, value, BytesToNumber(bytes, 14, RightJustified))
	})
}

func TestNumberToBytesLeftJustifiedRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.IntRange(0, 65535).Draw(t, "value")
		bytes := NumberToBytes(value, 3, 16, LeftJustified)
		require.Len(t, bytes, 3)
		assert.Equal(t, value, BytesToNumber(bytes, 16, LeftJustified))
	})
}

func TestNumberToBytesPlacement(t *testing.T) {
	// 300 = 0b100101100: high group 2, low group 44
	assert.Equal(t, []int{2, 44}, NumberToBytes(300, 2, 14, RightJustified))
	// Left justification of a 14-bit value in 14 bits of space is the same
	assert.Equal(t, []int{2, 44}, NumberToBytes(300, 2, 14, LeftJustified))
	// A 7-bit value in two bytes sits at the tail when right justified...
	assert.Equal(t, []int{0, 5}, NumberToBytes(5, 2, 7, RightJustified))
	// ...and at the head when left justified
	assert.Equal(t, []int{5, 0}, NumberToBytes(5, 2, 7, LeftJustified))
}

func TestBytesToNumberRejectsInvalidBytes(t *testing.T) {
	assert.Equal(t, 0, BytesToNumber([]int{128, 0}, 14, RightJustified))
	assert.Equal(t, 0, BytesToNumber([]int{0, -1}, 14, RightJustified))
}

func TestSetBytesValidation(t *testing.T) {
	message := NewMessage(NoSetting)
	require.NoError(t, message.SetBytes([]interface{}{1, "7F", "0x10", 127}))
	assert.Equal(t, []int{1, 127, 16, 127}, message.Bytes())
	assert.Equal(t, 0, message.ErrorNumber())

	// An invalid byte rejects the whole assignment; the old value is retained
	err := message.SetBytes([]interface{}{5, 200, 7})
	require.Error(t, err)
	assert.Equal(t, -2, message.ErrorNumber())
	assert.NotEmpty(t, message.ErrorDescription())
	assert.Equal(t, []int{1, 127, 16, 127}, message.Bytes())

	err = message.SetBytes([]interface{}{"zz"})
	require.Error(t, err)
	assert.Equal(t, -3, message.ErrorNumber())

	err = message.SetBytes([]interface{}{"0xFF"})
	require.Error(t, err)
	assert.Equal(t, -4, message.ErrorNumber())

	err = message.SetBytes([]interface{}{true})
	require.Error(t, err)
	assert.Equal(t, -1, message.ErrorNumber())
}

func TestSetByteAndLength(t *testing.T) {
	message := NewMessage(NoSetting)
	require.NoError(t, message.SetBytes([]interface{}{1, 2, 3}))
	require.NoError(t, message.SetByte(-1, 0x40))
	assert.Equal(t, []int{1, 2, 0x40}, message.Bytes())
	// A position past the end pads with zero bytes
	require.NoError(t, message.SetByte(5, "7F"))
	assert.Equal(t, []int{1, 2, 0x40, 0, 0, 127}, message.Bytes())
	message.SetBytesLength(2, 0)
	assert.Equal(t, []int{1, 2}, message.Bytes())
	message.SetBytesLength(4, 9)
	assert.Equal(t, []int{1, 2, 9, 9}, message.Bytes())
}

func TestFrameComposition(t *testing.T) {
	message := NewMessage(NoSetting)
	require.NoError(t, message.SetBytes([]interface{}{0x01, 0x02}))
	assert.Equal(t, []byte{0xF0, 0x01, 0x02, 0xF7}, message.Frame())

	message.SetMessageSetting(UniversalNonRealtimeSetting, true)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x01, 0x02, 0xF7}, message.Frame())

	// Realtime wins when both universal flags are set
	message.SetMessageSetting(UniversalRealtimeSetting, true)
	assert.Equal(t, []byte{0xF0, 0x7F, 0x01, 0x02, 0xF7}, message.Frame())
}

func TestFrameChecksum(t *testing.T) {
	message := NewMessage(UniversalNonRealtimeSetting | IncludeChecksumSetting)
	require.NoError(t, message.SetBytes([]interface{}{0x01, 0x02, 0x03}))
	frame := message.Frame()
	// XOR over everything between the start byte and the checksum itself
	expected := byte(0x7E^0x01^0x02^0x03) & 0x7F
	assert.Equal(t, []byte{0xF0, 0x7E, 0x01, 0x02, 0x03, expected, 0xF7}, frame)
}

func TestFrameIncludesIdentityIDs(t *testing.T) {
	helper := NewHelper()
	helper.identity = &Identity{
		manufacturerID: []int{0x41},
		familyID:       []int{0x10, 0x01},
		modelID:        []int{0x02, 0x00},
	}
	message, err := helper.CreateMessage([]interface{}{0x55}, IncludeManufacturerIDSetting|IncludeFamilyIDSetting|IncludeDeviceIDSetting)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x41, 0x10, 0x01, 0x02, 0x00, 0x55, 0xF7}, message.Frame())
}

func TestKnownMessages(t *testing.T) {
	helper := NewHelper()

	gmEnable, err := helper.CreateKnownMessage(GMEnableMessage, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x7F, 0x09, 0x01, 0xF7}, gmEnable.Frame())

	gmDisable, err := helper.CreateKnownMessage(GMEnableMessage, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x7F, 0x09, 0x00, 0xF7}, gmDisable.Frame())

	// 300 as a 14-bit volume: LSB 0x2C, MSB 0x02
	masterVolume, err := helper.CreateKnownMessage(SetMasterVolumeMessage, []int{300})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7F, 0x7F, 0x04, 0x01, 0x2C, 0x02, 0xF7}, masterVolume.Frame())

	identityRequest, err := helper.CreateKnownMessage(IdentityRequestMessage, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7}, identityRequest.Frame())

	sampleDump, err := helper.CreateKnownMessage(SampleDumpRequestMessage, []int{200})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x7F, 0x03, 0x48, 0x01, 0xF7}, sampleDump.Frame())

	// Two explicit segments pass through as given
	manual, err := helper.CreateKnownMessage(SetMasterVolumeMessage, []int{0x10, 0x20})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7F, 0x7F, 0x04, 0x01, 0x10, 0x20, 0xF7}, manual.Frame())
}

func TestKnownMessageUsesHelperChannel(t *testing.T) {
	helper := NewHelper()
	helper.SetChannel(0x05)
	message, err := helper.CreateKnownMessage(IdentityRequestMessage, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xF0, 0x7E, 0x05, 0x06, 0x01, 0xF7}, message.Frame())
}

func TestIdentityResponseParse(t *testing.T) {
	// S7: a Roland identity response
	helper := NewHelper()
	var received []*Message
	helper.OnMessage(func(message *Message) {
		received = append(received, message)
	})
	var identityChanges int
	helper.OnIdentityChanged(func(identity *Identity) {
		identityChanges++
	})

	frame := []byte{0xF0, 0x7E, 0x7F, 0x06, 0x02, 0x41, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	helper.HandleInputEvent(midi.Event{Time: 0, Buffer: frame})
	helper.HandlePostponedEvents()

	require.Len(t, received, 1)
	assert.True(t, received[0].CheckMessageSetting(UniversalNonRealtimeSetting))
	assert.Equal(t, 1, identityChanges)

	identity := helper.Identity()
	require.NotNil(t, identity)
	assert.Equal(t, []int{0x41}, identity.ManufacturerID())
	assert.Equal(t, "Roland", identity.ManufacturerName())
	assert.Equal(t, []int{0x10, 0x01}, identity.FamilyID())
	assert.Equal(t, []int{0x02, 0x00}, identity.ModelID())
	assert.Equal(t, []int{0x00, 0x01, 0x00, 0x00}, identity.VersionID())
}

func TestIdentityResponseReplacesPrevious(t *testing.T) {
	helper := NewHelper()
	roland := []byte{0xF0, 0x7E, 0x7F, 0x06, 0x02, 0x41, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	korg := []byte{0xF0, 0x7E, 0x7F, 0x06, 0x02, 0x42, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	helper.HandleInputEvent(midi.Event{Buffer: roland})
	helper.HandlePostponedEvents()
	helper.HandleInputEvent(midi.Event{Buffer: korg})
	helper.HandlePostponedEvents()
	require.NotNil(t, helper.Identity())
	assert.Equal(t, "Korg", helper.Identity().ManufacturerName())
}

func TestThreeByteManufacturer(t *testing.T) {
	helper := NewHelper()
	frame := []byte{0xF0, 0x7E, 0x7F, 0x06, 0x02, 0x00, 0x21, 0x10, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	helper.HandleInputEvent(midi.Event{Buffer: frame})
	helper.HandlePostponedEvents()
	identity := helper.Identity()
	require.NotNil(t, identity)
	assert.Equal(t, []int{0x00, 0x21, 0x10}, identity.ManufacturerID())
	assert.Equal(t, "ROLI", identity.ManufacturerName())
	assert.Equal(t, []int{0x10, 0x01}, identity.FamilyID())
	assert.Equal(t, []int{0x02, 0x00}, identity.ModelID())
	assert.Equal(t, []int{0x00, 0x01, 0x00, 0x00}, identity.VersionID())
}

func TestUniversalMessageChannelGate(t *testing.T) {
	helper := NewHelper()
	helper.SetChannel(0x05)
	var received int
	helper.OnMessage(func(message *Message) {
		received++
	})

	// Addressed to channel 3: not for us
	other := []byte{0xF0, 0x7E, 0x03, 0x06, 0x02, 0x41, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	helper.HandleInputEvent(midi.Event{Buffer: other})
	helper.HandlePostponedEvents()
	assert.Equal(t, 0, received)
	assert.Nil(t, helper.Identity())

	// Broadcast: always for us
	broadcast := []byte{0xF0, 0x7E, 0x7F, 0x06, 0x02, 0x41, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	helper.HandleInputEvent(midi.Event{Buffer: broadcast})
	helper.HandlePostponedEvents()
	assert.Equal(t, 1, received)
	require.NotNil(t, helper.Identity())

	// Our own channel works too
	addressed := []byte{0xF0, 0x7E, 0x05, 0x06, 0x02, 0x42, 0x10, 0x01, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0xF7}
	helper.HandleInputEvent(midi.Event{Buffer: addressed})
	helper.HandlePostponedEvents()
	assert.Equal(t, 2, received)
	assert.Equal(t, "Korg", helper.Identity().ManufacturerName())
}

func TestGmEnableRecognition(t *testing.T) {
	helper := NewHelper()
	var received []*Message
	helper.OnMessage(func(message *Message) {
		received = append(received, message)
	})
	helper.HandleInputEvent(midi.Event{Buffer: []byte{0xF0, 0x7E, 0x7F, 0x09, 0x01, 0xF7}})
	helper.HandlePostponedEvents()
	require.Len(t, received, 1)
	assert.True(t, received[0].CheckMessageSetting(UniversalNonRealtimeSetting))
	assert.Equal(t, []int{0x7F, 0x09, 0x01}, received[0].Bytes())
}

func TestProcessDrainsOutputRing(t *testing.T) {
	helper := NewHelper()
	buffer := &graph.FakeBuffer{Capacity: 16}
	message, err := helper.CreateKnownMessage(IdentityRequestMessage, nil)
	require.NoError(t, err)
	helper.Send(message)
	helper.Process(buffer)
	require.Equal(t, uint32(1), buffer.EventCount())
	event, getErr := buffer.Event(0)
	require.NoError(t, getErr)
	assert.Equal(t, message.Frame(), event.Buffer)
	assert.Equal(t, uint32(0), event.Time)
}

func TestProcessWaitsOnFullBuffer(t *testing.T) {
	helper := NewHelper()
	first, err := helper.CreateKnownMessage(IdentityRequestMessage, nil)
	require.NoError(t, err)
	second, err := helper.CreateKnownMessage(GMEnableMessage, []int{1})
	require.NoError(t, err)
	helper.Send(first)
	helper.Send(second)

	full := &graph.FakeBuffer{Capacity: 16, FailWrites: 1}
	helper.Process(full)
	// The first write failed for space; nothing may be consumed out of order
	assert.Equal(t, uint32(0), full.EventCount())

	helper.Process(full)
	require.Equal(t, uint32(2), full.EventCount())
	event, _ := full.Event(0)
	assert.Equal(t, first.Frame(), event.Buffer)
	event, _ = full.Event(1)
	assert.Equal(t, second.Frame(), event.Buffer)
}

func TestPositionToBytes(t *testing.T) {
	assert.Equal(t, []int{0x7F, 0x7F}, PositionToBytes(1.0, 0, 16383, 2, RightJustified))
	assert.Equal(t, []int{0, 0}, PositionToBytes(0.0, 0, 16383, 2, RightJustified))
	assert.Equal(t, []int{0, 0}, PositionToBytes(-3.0, 0, 16383, 2, RightJustified))
}
