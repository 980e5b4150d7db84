package sysex

// Identity is the device identity materialised from a Universal SysEx
// identity response: the manufacturer (1 byte, or 3 bytes starting with
// 0x00), the family and model (2 bytes each), and the version (4 bytes).
type Identity struct {
	manufacturerID []int
	familyID       []int
	modelID        []int
	versionID      []int

	manufacturerName string
}

// identityFromFrame parses a complete identity response frame (0xF0 through
// 0xF7). The caller has already recognised the frame; the layout here is
// byte 5 onward: manufacturer, family, model, with the version being the
// four bytes immediately preceding the end byte.
func identityFromFrame(frame []byte) *Identity {
	identity := &Identity{}
	position := 5
	manufacturerIDByteCount := 1
	if frame[position] == 0x00 {
		manufacturerIDByteCount = 3
	}
	for i := 0; i < manufacturerIDByteCount && position < len(frame)-1; i++ {
		identity.manufacturerID = append(identity.manufacturerID, int(frame[position]))
		position++
	}
	for i := 0; i < 2 && position < len(frame)-1; i++ {
		identity.familyID = append(identity.familyID, int(frame[position]))
		position++
	}
	for i := 0; i < 2 && position < len(frame)-1; i++ {
		identity.modelID = append(identity.modelID, int(frame[position]))
		position++
	}
	for versionPosition := len(frame) - 5; versionPosition < len(frame)-1; versionPosition++ {
		identity.versionID = append(identity.versionID, int(frame[versionPosition]))
	}
	identity.manufacturerName = manufacturerNameFromID(identity.manufacturerID)
	return identity
}

// ManufacturerID returns the manufacturer ID bytes (1 or 3 entries).
func (i *Identity) ManufacturerID() []int {
	return i.manufacturerID
}

// ManufacturerName returns the name matching the manufacturer ID, or an
// empty string when the ID is not in the table.
func (i *Identity) ManufacturerName() string {
	return i.manufacturerName
}

// FamilyID returns the two family ID bytes.
func (i *Identity) FamilyID() []int {
	return i.familyID
}

// ModelID returns the two model ID bytes.
func (i *Identity) ModelID() []int {
	return i.modelID
}

// VersionID returns the four version bytes.
func (i *Identity) VersionID() []int {
	return i.versionID
}
