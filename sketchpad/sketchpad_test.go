package sketchpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackSentinels(t *testing.T) {
	assert.False(t, NoTrack.Valid())
	assert.False(t, AnyTrack.Valid())
	assert.False(t, CurrentTrack.Valid())
	assert.True(t, Track1.Valid())
	assert.True(t, Track10.Valid())
	assert.False(t, Track(TrackCount).Valid())
}

func TestTrackLabels(t *testing.T) {
	assert.Equal(t, "No Track", NoTrack.Label())
	assert.Equal(t, "Any Track", AnyTrack.Label())
	assert.Equal(t, "Current Track", CurrentTrack.Label())
	assert.Equal(t, "Track 1", Track1.Label())
	assert.Equal(t, "Track 10", Track10.Label())
}

func TestSlotLabels(t *testing.T) {
	assert.Equal(t, "Slot 5", Slot5.Label())
	assert.Equal(t, "Clip 3", Slot3.ClipLabel())
	assert.Equal(t, "Sound Slot 1", Slot1.SoundSlotLabel())
	assert.Equal(t, "FX Slot 2", Slot2.FxLabel())
	assert.Equal(t, "Any Clip", AnySlot.ClipLabel())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, Track1, NoTrack.Clamp())
	assert.Equal(t, Track10, Track(42).Clamp())
	assert.Equal(t, Track4, Track4.Clamp())
	assert.Equal(t, Slot1, CurrentSlot.Clamp())
	assert.Equal(t, Slot5, Slot(9).Clamp())
}
