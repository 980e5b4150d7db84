package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
client_name: sketchpad
global_master_channel: 15
current_track: 0
devices:
  - hardware_id: "usb-1234"
    human_name: "Seaboard RISE MIDI"
    input_port: "rise-in"
    input_enabled: true
    master_channel: 0
    channel_target_tracks:
      5: 2
    input_filter:
      - required_bytes: 3
        require_range: true
        byte1_min: 176
        byte1_max: 191
        byte2_min: 7
        byte2_max: 7
        byte3_min: 0
        byte3_max: 127
        rules:
          - type: ui
            cuia_command: SET_TRACK_VOLUME
            cuia_track: -1
            cuia_slot: -1
            cuia_value: channel
  - human_name: "Main synth"
    output_port: "synth-out"
    output_enabled: true
    tracks: [0, 1]
    send_beat_clock: true
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midirouter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sketchpad", cfg.ClientName)
	assert.Equal(t, 15, cfg.GlobalMasterChannel)
	require.Len(t, cfg.Devices, 2)

	rise := cfg.Devices[0]
	assert.Equal(t, "usb-1234", rise.HardwareID)
	assert.True(t, rise.InputEnabled)
	require.NotNil(t, rise.MasterChannel)
	assert.Equal(t, 0, *rise.MasterChannel)
	assert.Equal(t, map[int]int{5: 2}, rise.ChannelTargetTracks)
	require.Len(t, rise.InputFilter, 1)
	entry := rise.InputFilter[0]
	assert.Equal(t, 3, entry.RequiredBytes)
	assert.Equal(t, 176, entry.Byte1Min)
	require.Len(t, entry.Rules, 1)
	assert.Equal(t, "ui", entry.Rules[0].Type)
	assert.Equal(t, "channel", entry.Rules[0].CuiaValue)

	synth := cfg.Devices[1]
	assert.Equal(t, []int{0, 1}, synth.Tracks)
	assert.True(t, synth.SendBeatClock)
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midirouter.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices: []\n"), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "midirouter", cfg.ClientName)
	assert.Equal(t, -1, cfg.GlobalMasterChannel)
	assert.Empty(t, cfg.Devices)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "midirouter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
