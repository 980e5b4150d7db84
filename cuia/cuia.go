// Package cuia holds the catalogue of callable UI action commands, and the
// conversions between their programmatically helpful enum values and the
// string tokens that go with them.
package cuia

import (
	"fmt"

	"github.com/sketchpadaudio/midirouter/sketchpad"
)

// Event identifies a single callable UI action.
type Event int

const (
	NoCuiaEvent Event = iota
	PowerOffEvent
	RebootEvent
	RestartUiEvent
	ReloadMidiConfigEvent
	ReloadKeybindingsEvent
	LastStateActionEvent
	AllNotesOffEvent
	AllSoundsOffEvent
	AllOffEvent
	StartAudioRecordEvent
	StopAudioRecordEvent
	ToggleAudioRecordEvent
	StartAudioPlayEvent
	StopAudioPlayEvent
	ToggleAudioPlayEvent
	StartMidiRecordEvent
	StopMidiRecordEvent
	ToggleMidiRecordEvent
	StartMidiPlayEvent
	StopMidiPlayEvent
	ToggleMidiPlayEvent
	ZlPlayEvent
	ZlStopEvent
	StartRecordEvent
	StopRecordEvent
	SelectEvent
	SelectUpEvent
	SelectDownEvent
	SelectLeftEvent
	SelectRightEvent
	NavigateLeftEvent
	NavigateRightEvent
	BackUpEvent
	BackDownEvent
	LayerUpEvent
	LayerDownEvent
	SnapshotUpEvent
	SnapshotDownEvent
	SceneUpEvent
	SceneDownEvent
	KeyboardEvent
	SwitchLayerShortEvent
	SwitchLayerBoldEvent
	SwitchLayerLongEvent
	SwitchBackShortEvent
	SwitchBackBoldEvent
	SwitchBackLongEvent
	SwitchSnapshotShortEvent
	SwitchSnapshotBoldEvent
	SwitchSnapshotLongEvent
	SwitchSelectShortEvent
	SwitchSelectBoldEvent
	SwitchSelectLongEvent
	ModeSwitchShortEvent
	ModeSwitchBoldEvent
	ModeSwitchLongEvent
	SwitchChannelsModShortEvent
	SwitchChannelsModBoldEvent
	SwitchChannelsModLongEvent
	SwitchMetronomeShortEvent
	SwitchMetronomeBoldEvent
	SwitchMetronomeLongEvent
	ScreenAdminEvent
	ScreenAudioSettingsEvent
	ScreenBankEvent
	ScreenControlEvent
	ScreenEditContextualEvent
	ScreenLayerEvent
	ScreenLayerFxEvent
	ScreenMainEvent
	ScreenPlaygridEvent
	ScreenPresetEvent
	ScreenSketchpadEvent
	ScreenSongManagerEvent
	ModalSnapshotLoadEvent
	ModalSnapshotSaveEvent
	ModalAudioRecorderEvent
	ModalMidiRecorderEvent
	ModalAlsaMixerEvent
	ModalStepseqEvent
	Channel1Event
	Channel2Event
	Channel3Event
	Channel4Event
	Channel5Event
	Channel6Event
	Channel7Event
	Channel8Event
	Channel9Event
	Channel10Event
	ChannelPreviousEvent
	ChannelNextEvent
	Knob0UpEvent
	Knob0DownEvent
	Knob0TouchedEvent
	Knob0ReleasedEvent
	Knob1UpEvent
	Knob1DownEvent
	Knob1TouchedEvent
	Knob1ReleasedEvent
	Knob2UpEvent
	Knob2DownEvent
	Knob2TouchedEvent
	Knob2ReleasedEvent
	Knob3UpEvent
	Knob3DownEvent
	Knob3TouchedEvent
	Knob3ReleasedEvent
	IncreaseEvent
	DecreaseEvent
	// The following events are supposed to be sent along with a value of some
	// description. The value, where appropriate, will be an integer from 0
	// through 127 inclusive
	SwitchPressedEvent              // Tell the UI that a specific switch has been pressed. The given value indicates a specific switch ID
	SwitchReleasedEvent             // Tell the UI that a specific switch has been released. The given value indicates a specific switch ID
	ActivateTrackEvent              // Set the given track active/selected
	ActivateTrackRelativeEvent      // Activate a track based on the given value (the tracks are split evenly across the 128 value options)
	ToggleTrackMutedEvent           // Toggle the muted state of the given track
	SetTrackMutedEvent              // Set whether the given track is muted or not (value of 0 is not muted, any other value is muted)
	ToggleTrackSoloedEvent          // Toggle the soloed state of the given track
	SetTrackSoloedEvent             // Set whether the given track is soloed or not (value of 0 is not soloed, any other value is soloed)
	SetTrackVolumeEvent             // Set the given track's volume to the given value
	SetTrackPanEvent                // Set the given track's pan to the given value
	SetTrackSend1AmountEvent        // Set the given track's send 1 amount to the given value
	SetTrackSend2AmountEvent        // Set the given track's send 2 amount to the given value
	SetClipCurrentEvent             // Sets the given clip as the currently visible one (if given a specific track, this will also change the track)
	SetClipCurrentRelativeEvent     // Sets the clip represented by the relative value, split evenly across the 128 values, as the currently visible one
	ToggleClipEvent                 // Toggle the given clip's active state
	SetClipActiveStateEvent         // Sets the clip to either active or inactive (value of 0 is active, 1 is inactive, 2 is that it will be inactive on the next beat, 3 is that it will be active on the next bar)
	SetSlotGainEvent                // Set the gain of the given sound slot to the given value
	SetSlotPanEvent                 // Set the pan of the given sound slot to the given value
	SetFxAmountEvent                // Set the wet/dry mix for the given fx slot to the given value
	SetTrackClipActiveRelativeEvent // Sets the currently active track and clip according to the given value (the clips are spread evenly across the 128 possible values, sequentially by track order)

	eventCount
)

// EventCount is the number of catalogue members, including NoCuiaEvent.
const EventCount = int(eventCount)

var titles = map[Event]string{
	NoCuiaEvent:                     "No Event",
	PowerOffEvent:                   "Show Power Off Popup",
	RebootEvent:                     "Show Reboot Popup",
	RestartUiEvent:                  "Show UI Restart Popup",
	ReloadMidiConfigEvent:           "Reload Midi Configuration",
	ReloadKeybindingsEvent:          "Reload Keybindings",
	LastStateActionEvent:            "Recall Last State",
	AllNotesOffEvent:                "Send All Notes Off",
	AllSoundsOffEvent:               "Send All Sounds Off",
	AllOffEvent:                     "Send All Off",
	StartAudioRecordEvent:           "Start Audio Recording",
	StopAudioRecordEvent:            "Stop Audio Recording",
	ToggleAudioRecordEvent:          "Toggle Audio Recording",
	StartAudioPlayEvent:             "Start Audio Playback",
	StopAudioPlayEvent:              "Stop Audio Playback",
	ToggleAudioPlayEvent:            "Toggle Audio Playback",
	StartMidiRecordEvent:            "Start Midi Recording",
	StopMidiRecordEvent:             "Stop Midi Recording",
	ToggleMidiRecordEvent:           "Toggle Midi Recording",
	StartMidiPlayEvent:              "Start Midi Playback",
	StopMidiPlayEvent:               "Stop Midi Playback",
	ToggleMidiPlayEvent:             "Toggle Midi Playback",
	ZlPlayEvent:                     "Start Playback",
	ZlStopEvent:                     "Stop Playback",
	StartRecordEvent:                "Record",
	StopRecordEvent:                 "Stop Recording",
	SelectEvent:                     "Select",
	SelectUpEvent:                   "Select Up",
	SelectDownEvent:                 "Select Down",
	SelectLeftEvent:                 "Select Left",
	SelectRightEvent:                "Select Right",
	NavigateLeftEvent:               "Navigate Left",
	NavigateRightEvent:              "Navigate Right",
	BackUpEvent:                     "Back Up",
	BackDownEvent:                   "Back Down",
	LayerUpEvent:                    "Layer Up",
	LayerDownEvent:                  "Layer Down",
	SnapshotUpEvent:                 "Snapshot Up",
	SnapshotDownEvent:               "Snapshot Down",
	SceneUpEvent:                    "Scene Up",
	SceneDownEvent:                  "Scene Down",
	KeyboardEvent:                   "Toggle Keyboard",
	SwitchLayerShortEvent:           "Short Press Layer Button",
	SwitchLayerBoldEvent:            "Bold Press Layer Button",
	SwitchLayerLongEvent:            "Long Press Layer Button",
	SwitchBackShortEvent:            "Short Press Back Button",
	SwitchBackBoldEvent:             "Bold Press Back Button",
	SwitchBackLongEvent:             "Long Press Back Button",
	SwitchSnapshotShortEvent:        "Short Press Snapshot Button",
	SwitchSnapshotBoldEvent:         "Bold Press Snapshot Button",
	SwitchSnapshotLongEvent:         "Long Press Snapshot Button",
	SwitchSelectShortEvent:          "Short Press Select Button",
	SwitchSelectBoldEvent:           "Bold Press Select Button",
	SwitchSelectLongEvent:           "Long Press Select Button",
	ModeSwitchShortEvent:            "Short Press Mode Button",
	ModeSwitchBoldEvent:             "Bold Press Mode Button",
	ModeSwitchLongEvent:             "Long Press Mode Button",
	SwitchChannelsModShortEvent:     "Short Press Channel Mod Button",
	SwitchChannelsModBoldEvent:      "Bold Press Channel Mod Button",
	SwitchChannelsModLongEvent:      "Long Press Channel Mod Button",
	SwitchMetronomeShortEvent:       "Short Press Metronome Button",
	SwitchMetronomeBoldEvent:        "Bold Press Metronome Button",
	SwitchMetronomeLongEvent:        "Long Press Metronome Button",
	ScreenAdminEvent:                "Show Admin Screen",
	ScreenAudioSettingsEvent:        "Show Audio Settings Screen",
	ScreenBankEvent:                 "Show Bank Screen",
	ScreenControlEvent:              "Show Control Screen",
	ScreenEditContextualEvent:       "Show Contextual Edit Screen",
	ScreenLayerEvent:                "Show Layer Screen",
	ScreenLayerFxEvent:              "Show Layer FX Screen",
	ScreenMainEvent:                 "Show Main Menu",
	ScreenPlaygridEvent:             "Show Playground",
	ScreenPresetEvent:               "Show Preset Selection Screen",
	ScreenSketchpadEvent:            "Show Sketchpad",
	ScreenSongManagerEvent:          "Show Song Manager",
	ModalSnapshotLoadEvent:          "Load Snapshot",
	ModalSnapshotSaveEvent:          "Save Snapshot",
	ModalAudioRecorderEvent:         "Show Audio Recorder",
	ModalMidiRecorderEvent:          "Show Midi Recorder",
	ModalAlsaMixerEvent:             "Show Mixer",
	ModalStepseqEvent:               "Show Step Sequencer",
	Channel1Event:                   "Switch to Track 1",
	Channel2Event:                   "Switch to Track 2",
	Channel3Event:                   "Switch to Track 3",
	Channel4Event:                   "Switch to Track 4",
	Channel5Event:                   "Switch to Track 5",
	Channel6Event:                   "Switch to Track 6",
	Channel7Event:                   "Switch to Track 7",
	Channel8Event:                   "Switch to Track 8",
	Channel9Event:                   "Switch to Track 9",
	Channel10Event:                  "Switch to Track 10",
	ChannelPreviousEvent:            "Switch to Previous Track",
	ChannelNextEvent:                "Switch to Next Track",
	Knob0UpEvent:                    "Knob 1: Up",
	Knob0DownEvent:                  "Knob 1: Down",
	Knob0TouchedEvent:               "Knob 1: Touch",
	Knob0ReleasedEvent:              "Knob 1: Release",
	Knob1UpEvent:                    "Knob 2: Up",
	Knob1DownEvent:                  "Knob 2: Down",
	Knob1TouchedEvent:               "Knob 2: Touch",
	Knob1ReleasedEvent:              "Knob 2: Release",
	Knob2UpEvent:                    "Knob 3: Up",
	Knob2DownEvent:                  "Knob 3: Down",
	Knob2TouchedEvent:               "Knob 3: Touch",
	Knob2ReleasedEvent:              "Knob 3: Release",
	Knob3UpEvent:                    "Knob 4: Up",
	Knob3DownEvent:                  "Knob 4: Down",
	Knob3TouchedEvent:               "Knob 4: Touch",
	Knob3ReleasedEvent:              "Knob 4: Release",
	IncreaseEvent:                   "Increase Value",
	DecreaseEvent:                   "Decrease Value",
	SwitchPressedEvent:              "Switch Pressed",
	SwitchReleasedEvent:             "Switch Released",
	ActivateTrackEvent:              "Activate Track",
	ActivateTrackRelativeEvent:      "Activate Track Relative",
	ToggleTrackMutedEvent:           "Toggle Track Muted",
	SetTrackMutedEvent:              "Set Track Muted",
	ToggleTrackSoloedEvent:          "Toggle Track Soloed",
	SetTrackSoloedEvent:             "Set Track Soloed",
	SetTrackVolumeEvent:             "Set Track Volume",
	SetTrackPanEvent:                "Set Track Pan",
	SetTrackSend1AmountEvent:        "Set Track Send 1 Amount",
	SetTrackSend2AmountEvent:        "Set Track Send 2 Amount",
	SetClipCurrentEvent:             "Set Current Clip",
	SetClipCurrentRelativeEvent:     "Set Current Clip Relative",
	ToggleClipEvent:                 "Toggle Clip",
	SetClipActiveStateEvent:         "Set Clip Active State",
	SetSlotGainEvent:                "Set Slot Gain",
	SetSlotPanEvent:                 "Set Slot Pan",
	SetFxAmountEvent:                "Set FX Amount",
	SetTrackClipActiveRelativeEvent: "Set Track and Clip Active Relative",
}

var commands = map[Event]string{
	NoCuiaEvent:                     "NONE",
	PowerOffEvent:                   "POWER_OFF",
	RebootEvent:                     "REBOOT",
	RestartUiEvent:                  "RESTART_UI",
	ReloadMidiConfigEvent:           "RELOAD_MIDI_CONFIG",
	ReloadKeybindingsEvent:          "RELOAD_KEYBINDINGS",
	LastStateActionEvent:            "LAST_STATE_ACTION",
	AllNotesOffEvent:                "ALL_NOTES_OFF",
	AllSoundsOffEvent:               "ALL_SOUNDS_OFF",
	AllOffEvent:                     "ALL_OFF",
	StartAudioRecordEvent:           "START_AUDIO_RECORD",
	StopAudioRecordEvent:            "STOP_AUDIO_RECORD",
	ToggleAudioRecordEvent:          "TOGGLE_AUDIO_RECORD",
	StartAudioPlayEvent:             "START_AUDIO_PLAY",
	StopAudioPlayEvent:              "STOP_AUDIO_PLAY",
	ToggleAudioPlayEvent:            "TOGGLE_AUDIO_PLAY",
	StartMidiRecordEvent:            "START_MIDI_RECORD",
	StopMidiRecordEvent:             "STOP_MIDI_RECORD",
	ToggleMidiRecordEvent:           "TOGGLE_MIDI_RECORD",
	StartMidiPlayEvent:              "START_MIDI_PLAY",
	StopMidiPlayEvent:               "STOP_MIDI_PLAY",
	ToggleMidiPlayEvent:             "TOGGLE_MIDI_PLAY",
	ZlPlayEvent:                     "ZL_PLAY",
	ZlStopEvent:                     "ZL_STOP",
	StartRecordEvent:                "START_RECORD",
	StopRecordEvent:                 "STOP_RECORD",
	SelectEvent:                     "SELECT",
	SelectUpEvent:                   "SELECT_UP",
	SelectDownEvent:                 "SELECT_DOWN",
	SelectLeftEvent:                 "SELECT_LEFT",
	SelectRightEvent:                "SELECT_RIGHT",
	NavigateLeftEvent:               "NAVIGATE_LEFT",
	NavigateRightEvent:              "NAVIGATE_RIGHT",
	BackUpEvent:                     "BACK_UP",
	BackDownEvent:                   "BACK_DOWN",
	LayerUpEvent:                    "LAYER_UP",
	LayerDownEvent:                  "LAYER_DOWN",
	SnapshotUpEvent:                 "SNAPSHOT_UP",
	SnapshotDownEvent:               "SNAPSHOT_DOWN",
	SceneUpEvent:                    "SCENE_UP",
	SceneDownEvent:                  "SCENE_DOWN",
	KeyboardEvent:                   "KEYBOARD",
	SwitchLayerShortEvent:           "SWITCH_LAYER_SHORT",
	SwitchLayerBoldEvent:            "SWITCH_LAYER_BOLD",
	SwitchLayerLongEvent:            "SWITCH_LAYER_LONG",
	SwitchBackShortEvent:            "SWITCH_BACK_SHORT",
	SwitchBackBoldEvent:             "SWITCH_BACK_BOLD",
	SwitchBackLongEvent:             "SWITCH_BACK_LONG",
	SwitchSnapshotShortEvent:        "SWITCH_SNAPSHOT_SHORT",
	SwitchSnapshotBoldEvent:         "SWITCH_SNAPSHOT_BOLD",
	SwitchSnapshotLongEvent:         "SWITCH_SNAPSHOT_LONG",
	SwitchSelectShortEvent:          "SWITCH_SELECT_SHORT",
	SwitchSelectBoldEvent:           "SWITCH_SELECT_BOLD",
	SwitchSelectLongEvent:           "SWITCH_SELECT_LONG",
	ModeSwitchShortEvent:            "MODE_SWITCH_SHORT",
	ModeSwitchBoldEvent:             "MODE_SWITCH_BOLD",
	ModeSwitchLongEvent:             "MODE_SWITCH_LONG",
	SwitchChannelsModShortEvent:     "SWITCH_CHANNELS_SHORT",
	SwitchChannelsModBoldEvent:      "SWITCH_CHANNELS_BOLD",
	SwitchChannelsModLongEvent:      "SWITCH_CHANNELS_LONG",
	SwitchMetronomeShortEvent:       "SWITCH_METRONOME_SHORT",
	SwitchMetronomeBoldEvent:        "SWITCH_METRONOME_BOLD",
	SwitchMetronomeLongEvent:        "SWITCH_METRONOME_LONG",
	ScreenAdminEvent:                "SCREEN_ADMIN",
	ScreenAudioSettingsEvent:        "SCREEN_AUDIO_SETTINGS",
	ScreenBankEvent:                 "SCREEN_BANK",
	ScreenControlEvent:              "SCREEN_CONTROL",
	ScreenEditContextualEvent:       "SCREEN_EDIT_CONTEXTUAL",
	ScreenLayerEvent:                "SCREEN_LAYER",
	ScreenLayerFxEvent:              "SCREEN_LAYER_FX",
	ScreenMainEvent:                 "SCREEN_MAIN",
	ScreenPlaygridEvent:             "SCREEN_PLAYGRID",
	ScreenPresetEvent:               "SCREEN_PRESET",
	ScreenSketchpadEvent:            "SCREEN_SKETCHPAD",
	ScreenSongManagerEvent:          "SCREEN_SONG_MANAGER",
	ModalSnapshotLoadEvent:          "MODAL_SNAPSHOT_LOAD",
	ModalSnapshotSaveEvent:          "MODAL_SNAPSHOT_SAVE",
	ModalAudioRecorderEvent:         "MODAL_AUDIO_RECORDER",
	ModalMidiRecorderEvent:          "MODAL_MIDI_RECORDER",
	ModalAlsaMixerEvent:             "MODAL_ALSA_MIXER",
	ModalStepseqEvent:               "MODAL_STEPSEQ",
	Channel1Event:                   "CHANNEL_1",
	Channel2Event:                   "CHANNEL_2",
	Channel3Event:                   "CHANNEL_3",
	Channel4Event:                   "CHANNEL_4",
	Channel5Event:                   "CHANNEL_5",
	Channel6Event:                   "CHANNEL_6",
	Channel7Event:                   "CHANNEL_7",
	Channel8Event:                   "CHANNEL_8",
	Channel9Event:                   "CHANNEL_9",
	Channel10Event:                  "CHANNEL_10",
	ChannelPreviousEvent:            "CHANNEL_PREVIOUS",
	ChannelNextEvent:                "CHANNEL_NEXT",
	Knob0UpEvent:                    "KNOB0_UP",
	Knob0DownEvent:                  "KNOB0_DOWN",
	Knob0TouchedEvent:               "KNOB0_TOUCHED",
	Knob0ReleasedEvent:              "KNOB0_RELEASED",
	Knob1UpEvent:                    "KNOB1_UP",
	Knob1DownEvent:                  "KNOB1_DOWN",
	Knob1TouchedEvent:               "KNOB1_TOUCHED",
	Knob1ReleasedEvent:              "KNOB1_RELEASED",
	Knob2UpEvent:                    "KNOB2_UP",
	Knob2DownEvent:                  "KNOB2_DOWN",
	Knob2TouchedEvent:               "KNOB2_TOUCHED",
	Knob2ReleasedEvent:              "KNOB2_RELEASED",
	Knob3UpEvent:                    "KNOB3_UP",
	Knob3DownEvent:                  "KNOB3_DOWN",
	Knob3TouchedEvent:               "KNOB3_TOUCHED",
	Knob3ReleasedEvent:              "KNOB3_RELEASED",
	IncreaseEvent:                   "INCREASE",
	DecreaseEvent:                   "DECREASE",
	SwitchPressedEvent:              "SWITCH_PRESSED",
	SwitchReleasedEvent:             "SWITCH_RELEASED",
	ActivateTrackEvent:              "ACTIVATE_TRACK",
	ActivateTrackRelativeEvent:      "ACTIVATE_TRACK_RELATIVE",
	ToggleTrackMutedEvent:           "TOGGLE_TRACK_MUTED",
	SetTrackMutedEvent:              "SET_TRACK_MUTED",
	ToggleTrackSoloedEvent:          "TOGGLE_TRACK_SOLOED",
	SetTrackSoloedEvent:             "SET_TRACK_SOLOED",
	SetTrackVolumeEvent:             "SET_TRACK_VOLUME",
	SetTrackPanEvent:                "SET_TRACK_PAN",
	SetTrackSend1AmountEvent:        "SET_TRACK_SEND1_AMOUNT",
	SetTrackSend2AmountEvent:        "SET_TRACK_SEND2_AMOUNT",
	SetClipCurrentEvent:             "SET_CLIP_CURRENT",
	SetClipCurrentRelativeEvent:     "SET_CLIP_CURRENT_RELATIVE",
	ToggleClipEvent:                 "TOGGLE_CLIP",
	SetClipActiveStateEvent:         "SET_CLIP_ACTIVE_STATE",
	SetSlotGainEvent:                "SET_SLOT_GAIN",
	SetSlotPanEvent:                 "SET_SLOT_PAN",
	SetFxAmountEvent:                "SET_FX_AMOUNT",
	SetTrackClipActiveRelativeEvent: "SET_TRACK_CLIP_ACTIVE_RELATIVE",
}

var eventsByCommand = func() map[string]Event {
	byCommand := make(map[string]Event, len(commands))
	for event, command := range commands {
		byCommand[command] = event
	}
	return byCommand
}()

// Title returns a human-readable name for the event.
func (e Event) Title() string {
	return titles[e]
}

// Command returns the machine-readable command token for the event.
func (e Event) Command() string {
	return commands[e]
}

// EventForCommand returns the event matching the given command token (and
// NoCuiaEvent for a string with no match).
func EventForCommand(command string) Event {
	return eventsByCommand[command]
}

// The payload-shape partition is data, not code: the three sets below
// classify every member of the catalogue.

// WantsTrack holds the events which use the track parameter.
var WantsTrack = map[Event]bool{
	ActivateTrackEvent:       true,
	ToggleTrackMutedEvent:    true,
	SetTrackMutedEvent:       true,
	ToggleTrackSoloedEvent:   true,
	SetTrackSoloedEvent:      true,
	SetTrackVolumeEvent:      true,
	SetTrackPanEvent:         true,
	SetTrackSend1AmountEvent: true,
	SetTrackSend2AmountEvent: true,
	SetClipCurrentEvent:      true,
	ToggleClipEvent:          true,
	SetClipActiveStateEvent:  true,
	SetSlotGainEvent:         true,
	SetSlotPanEvent:          true,
	SetFxAmountEvent:         true,
}

// WantsSlot holds the events which use the slot parameter.
var WantsSlot = map[Event]bool{
	SetClipCurrentEvent:     true,
	ToggleClipEvent:         true,
	SetClipActiveStateEvent: true,
	SetSlotGainEvent:        true,
	SetSlotPanEvent:         true,
	SetFxAmountEvent:        true,
}

// WantsValue holds the events which use the value parameter.
var WantsValue = map[Event]bool{
	SwitchPressedEvent:              true,
	SwitchReleasedEvent:             true,
	ActivateTrackRelativeEvent:      true,
	SetTrackMutedEvent:              true,
	SetTrackSoloedEvent:             true,
	SetTrackVolumeEvent:             true,
	SetTrackPanEvent:                true,
	SetTrackSend1AmountEvent:        true,
	SetTrackSend2AmountEvent:        true,
	SetClipCurrentRelativeEvent:     true,
	SetClipActiveStateEvent:         true,
	SetSlotGainEvent:                true,
	SetSlotPanEvent:                 true,
	SetFxAmountEvent:                true,
	SetTrackClipActiveRelativeEvent: true,
}

// relativeCCValue returns a floating point value between 0.0 and 1.0 for a
// given CC value (that is, 0 through 127)
func relativeCCValue(ccValue int) float32 {
	if ccValue < 0 {
		ccValue = 0
	} else if ccValue > 127 {
		ccValue = 127
	}
	return float32(ccValue) / 127.0
}

// centeredRelativeCCValue returns a floating point value between -1.0 and 1.0
// for a given CC value, with 63 being 0.0 (meaning both 126 and 127 are 1.0)
func centeredRelativeCCValue(ccValue int) float32 {
	if ccValue < 0 {
		ccValue = 0
	} else if ccValue > 126 {
		ccValue = 126
	}
	return float32(ccValue-63) / 63.0
}

func percent(v float32) int {
	return int(100 * v)
}

// Describe returns a human-readable description of the given event and its
// associated parameters. Parameters the event does not use are ignored. Pass
// upperValue of -1 for a single value; any other upperValue treats value as
// the lower limit of a range.
func Describe(event Event, track sketchpad.Track, slot sketchpad.Slot, value int, upperValue int) string {
	switch event {
	case SwitchPressedEvent:
		return fmt.Sprintf("%s Pressed", SwitchName(value))
	case SwitchReleasedEvent:
		return fmt.Sprintf("%s Released", SwitchName(value))
	case ActivateTrackEvent:
		return fmt.Sprintf("Activate %s", track.Label())
	case ActivateTrackRelativeEvent:
		return fmt.Sprintf("Activate Track by Value %d", value)
	case ToggleTrackMutedEvent:
		return fmt.Sprintf("Toggle %s Muted", track.Label())
	case SetTrackMutedEvent:
		if value == 0 {
			return fmt.Sprintf("Unmute %s", track.Label())
		}
		return fmt.Sprintf("Mute %s", track.Label())
	case ToggleTrackSoloedEvent:
		return fmt.Sprintf("Toggle %s Soloed", track.Label())
	case SetTrackSoloedEvent:
		if value == 0 {
			return fmt.Sprintf("Unsolo %s", track.Label())
		}
		return fmt.Sprintf("Solo %s", track.Label())
	case SetTrackVolumeEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set %s volume to %d%%", track.Label(), percent(relativeCCValue(value)))
		}
		return fmt.Sprintf("Set %s volume to between %d%% and %d%%", track.Label(), percent(relativeCCValue(value)), percent(relativeCCValue(upperValue)))
	case SetTrackPanEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set %s pan to %d%%", track.Label(), percent(centeredRelativeCCValue(value)))
		}
		return fmt.Sprintf("Set %s pan to between %d%% and %d%%", track.Label(), percent(centeredRelativeCCValue(value)), percent(centeredRelativeCCValue(upperValue)))
	case SetTrackSend1AmountEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set %s Send FX 1 amount to %d%%", track.Label(), percent(relativeCCValue(value)))
		}
		return fmt.Sprintf("Set %s Send FX 1 amount to between %d%% and %d%%", track.Label(), percent(relativeCCValue(value)), percent(relativeCCValue(upperValue)))
	case SetTrackSend2AmountEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set %s Send FX 2 amount to %d%%", track.Label(), percent(relativeCCValue(value)))
		}
		return fmt.Sprintf("Set %s Send FX 2 amount to between %d%% and %d%%", track.Label(), percent(relativeCCValue(value)), percent(relativeCCValue(upperValue)))
	case SetClipCurrentEvent:
		return fmt.Sprintf("Make %s on %s Current", slot.ClipLabel(), track.Label())
	case SetClipCurrentRelativeEvent:
		return fmt.Sprintf("Make Clip by Value %d Current", value)
	case ToggleClipEvent:
		return fmt.Sprintf("Toggle %s on %s", slot.ClipLabel(), track.Label())
	case SetClipActiveStateEvent:
		switch value {
		case 1:
			return fmt.Sprintf("Deactivate %s on %s", slot.ClipLabel(), track.Label())
		case 2:
			return fmt.Sprintf("Deactivate %s on %s Next Beat", slot.ClipLabel(), track.Label())
		case 3:
			return fmt.Sprintf("Activate %s on %s Next Bar", slot.ClipLabel(), track.Label())
		default:
			return fmt.Sprintf("Activate %s on %s", slot.ClipLabel(), track.Label())
		}
	case SetSlotGainEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set Gain to %d%% for %s on %s", percent(relativeCCValue(value)), slot.SoundSlotLabel(), track.Label())
		}
		return fmt.Sprintf("Set Gain to between %d%% and %d%% for %s on %s", percent(relativeCCValue(value)), percent(relativeCCValue(upperValue)), slot.SoundSlotLabel(), track.Label())
	case SetSlotPanEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set Pan to %d%% for %s on %s", percent(centeredRelativeCCValue(value)), slot.SoundSlotLabel(), track.Label())
		}
		return fmt.Sprintf("Set Pan to between %d%% and %d%% for %s on %s", percent(centeredRelativeCCValue(value)), percent(centeredRelativeCCValue(upperValue)), slot.SoundSlotLabel(), track.Label())
	case SetFxAmountEvent:
		if upperValue == -1 {
			return fmt.Sprintf("Set FX wet/dry mix to %d%% for %s on %s", percent(centeredRelativeCCValue(value)), slot.FxLabel(), track.Label())
		}
		return fmt.Sprintf("Set FX wet/dry mix to between %d%% and %d%% for %s on %s", percent(centeredRelativeCCValue(value)), percent(centeredRelativeCCValue(upperValue)), slot.FxLabel(), track.Label())
	case SetTrackClipActiveRelativeEvent:
		return fmt.Sprintf("Set Active Track and Clip by Value %d", value)
	default:
		return event.Title()
	}
}
