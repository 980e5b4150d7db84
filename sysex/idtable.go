package sysex

// The published manufacturer ID assignments, reduced to the vendors that
// actually turn up on this kind of appliance. Single-byte IDs are keyed
// directly; three-byte IDs (leading 0x00) are keyed by their packed value.

var singleByteManufacturers = map[int]string{
	0x01: "Sequential Circuits",
	0x04: "Moog",
	0x06: "Lexicon",
	0x07: "Kurzweil",
	0x0F: "Ensoniq",
	0x10: "Oberheim",
	0x18: "E-mu",
	0x1C: "Eventide",
	0x29: "PPG",
	0x2F: "Elka",
	0x33: "Clavia",
	0x3E: "Waldorf",
	0x40: "Kawai",
	0x41: "Roland",
	0x42: "Korg",
	0x43: "Yamaha",
	0x44: "Casio",
	0x47: "Akai",
	0x4C: "Sony",
}

var threeByteManufacturers = map[int]string{
	0x000E: "Alesis",
	0x001B: "Peavey",
	0x0105: "M-Audio",
	0x0106: "PreSonus",
	0x013F: "Ableton",
	0x2029: "Focusrite/Novation",
	0x2032: "Behringer",
	0x2033: "Access",
	0x206B: "Arturia",
	0x2110: "ROLI",
	0x2112: "Teenage Engineering",
}

// manufacturerNameFromID looks up the name for a 1- or 3-byte manufacturer
// ID. Unknown IDs return an empty string.
func manufacturerNameFromID(manufacturerID []int) string {
	switch len(manufacturerID) {
	case 1:
		return singleByteManufacturers[manufacturerID[0]]
	case 3:
		if manufacturerID[0] == 0x00 {
			return threeByteManufacturers[manufacturerID[1]<<8|manufacturerID[2]]
		}
	}
	return ""
}
