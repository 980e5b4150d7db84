// Package config loads the daemon's device and filter configuration from a
// yaml file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top level of the daemon's configuration file.
type Config struct {
	// ClientName is the name the engine registers on the audio graph.
	ClientName string `yaml:"client_name"`
	// GlobalMasterChannel is the engine-wide MPE master channel (-1 for
	// none).
	GlobalMasterChannel int `yaml:"global_master_channel"`
	// CurrentTrack is the initially selected sketchpad track.
	CurrentTrack int      `yaml:"current_track"`
	Devices      []Device `yaml:"devices"`
}

// Device configures one routable endpoint.
type Device struct {
	HardwareID    string `yaml:"hardware_id"`
	ExternalID    string `yaml:"external_id"`
	HumanName     string `yaml:"human_name"`
	InputPort     string `yaml:"input_port"`
	OutputPort    string `yaml:"output_port"`
	InputEnabled  bool   `yaml:"input_enabled"`
	OutputEnabled bool   `yaml:"output_enabled"`

	// Tracks this device's output belongs to (0-based indices).
	Tracks []int `yaml:"tracks"`

	// MasterChannel is the device's MPE master channel (-1 for none).
	MasterChannel *int `yaml:"master_channel"`
	SendTimecode  bool `yaml:"send_timecode"`
	SendBeatClock bool `yaml:"send_beat_clock"`
	// TimecodeGenerator marks the device whose events carry the engine's
	// clock.
	TimecodeGenerator bool `yaml:"timecode_generator"`
	Transpose         int  `yaml:"transpose"`

	// ChannelTargetTracks locks midi channels to sketchpad tracks; keys are
	// channel indices, values track indices.
	ChannelTargetTracks map[int]int `yaml:"channel_target_tracks"`

	InputFilter  []FilterEntry `yaml:"input_filter"`
	OutputFilter []FilterEntry `yaml:"output_filter"`
}

// FilterEntry configures one entry of a device filter. Input-direction
// fields and output-direction fields share the record; whichever direction
// the entry is loaded into uses its own half.
type FilterEntry struct {
	// Input direction
	RequiredBytes int  `yaml:"required_bytes"`
	RequireRange  bool `yaml:"require_range"`
	Byte1Min      int  `yaml:"byte1_min"`
	Byte1Max      int  `yaml:"byte1_max"`
	Byte2Min      int  `yaml:"byte2_min"`
	Byte2Max      int  `yaml:"byte2_max"`
	Byte3Min      int  `yaml:"byte3_min"`
	Byte3Max      int  `yaml:"byte3_max"`
	TargetTrack   int  `yaml:"target_track"`

	// Output direction
	CuiaCommand string `yaml:"cuia_command"`
	OriginTrack int    `yaml:"origin_track"`
	OriginSlot  int    `yaml:"origin_slot"`
	ValueMin    int    `yaml:"value_min"`
	ValueMax    int    `yaml:"value_max"`

	Rules []RewriteRule `yaml:"rules"`
}

// RewriteRule configures one rewrite rule of a filter entry.
type RewriteRule struct {
	// Type is "track" or "ui".
	Type string `yaml:"type"`

	// Track rules. Byte sources are the literal value 0 through 127, or the
	// strings "original1", "original2", "original3".
	ByteSize        int      `yaml:"byte_size"`
	Bytes           []string `yaml:"bytes"`
	BytesAddChannel []bool   `yaml:"bytes_add_channel"`

	// UI rules. Value source is the literal value, or one of "byte1",
	// "byte2", "byte3", "channel".
	CuiaCommand string `yaml:"cuia_command"`
	CuiaTrack   int    `yaml:"cuia_track"`
	CuiaSlot    int    `yaml:"cuia_slot"`
	CuiaValue   string `yaml:"cuia_value"`
}

// Load reads and parses the configuration file at the given path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := &Config{
		ClientName:          "midirouter",
		GlobalMasterChannel: -1,
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
