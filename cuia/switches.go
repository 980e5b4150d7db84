package cuia

import "fmt"

var switchNames = map[int]string{
	0:  "Unnamed Switch Index 0",
	1:  "Unnamed Switch Index 1",
	2:  "Unnamed Switch Index 2",
	3:  "Unnamed Switch Index 3",
	4:  "Unnamed Switch Index 4",
	5:  "Track 1 button",
	6:  "Track 2 button",
	7:  "Track 3 button",
	8:  "Track 4 button",
	9:  "Track 5 button",
	10: "Track * button",
	11: "Mode button",
	12: "Sketchpad/F1 button",
	13: "Playground/F2 button",
	14: "Song Editor/F3 button",
	15: "Presets/F4 button",
	16: "Sound Editor/F5 button",
	17: "Alt button",
	18: "Record button",
	19: "Play button",
	20: "Metronome button",
	21: "Stop button",
	22: "Back/No button",
	23: "Up arrow button",
	24: "Select/Yes button",
	25: "Left arrow button",
	26: "Down arrow button",
	27: "Right arrow button",
	28: "Global button",
	29: "Big Knob button",
	30: "Knob 1",
	31: "Knob 0",
	32: "Knob 2",
	33: "Big Knob",
}

// SwitchName returns the human-readable name of the given switch.
func SwitchName(switchIndex int) string {
	if name, ok := switchNames[switchIndex]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Switch %d", switchIndex)
}
