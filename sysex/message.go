// Package sysex composes and parses System-Exclusive messages, including the
// standard Universal SysEx subset the engine recognises (GM enable, master
// volume, identity request/response, sample dump request).
package sysex

import (
	"fmt"
	"strconv"
	"strings"
)

// MessageSetting flags define what is automatically added around the payload
// when a message is framed.
type MessageSetting int

const (
	// NoSetting adds only the start and end bytes (0xF0 and 0xF7) to the message
	NoSetting MessageSetting = 0
	// IncludeManufacturerIDSetting also adds the device identity's manufacturer ID
	IncludeManufacturerIDSetting MessageSetting = 1
	// IncludeFamilyIDSetting also adds the device identity's family ID
	IncludeFamilyIDSetting MessageSetting = 2
	// IncludeDeviceIDSetting also adds the device identity's model ID
	IncludeDeviceIDSetting MessageSetting = 4
	// IncludeChecksumSetting also adds the data checksum at the end
	IncludeChecksumSetting MessageSetting = 8
	// UniversalRealtimeSetting marks the message as a Realtime Universal
	// SysEx message (setting both universal flags causes realtime to take
	// precedence)
	UniversalRealtimeSetting MessageSetting = 16
	// UniversalNonRealtimeSetting marks the message as a Non-Realtime
	// Universal SysEx message
	UniversalNonRealtimeSetting MessageSetting = 32
)

// ByteError is the structured configuration error produced when a payload
// byte fails validation. The entire assignment is rejected when any byte is
// invalid.
type ByteError struct {
	Number      int
	Description string
}

func (e *ByteError) Error() string {
	return e.Description
}

// Message is a SysEx message under construction: the payload bytes (not
// including the wrapper bytes the settings describe) plus the settings which
// define the framing.
type Message struct {
	helper   *Helper
	settings MessageSetting
	bytes    []int

	errorNumber      int
	errorDescription string

	operationOngoing bool
	frame            []byte
}

// NewMessage creates a message with the given framing settings. Messages
// created through a Helper also frame in that device's identity IDs where
// the settings ask for them.
func NewMessage(settings MessageSetting) *Message {
	m := &Message{settings: settings}
	m.updateFrame()
	return m
}

func validateByteValue(byteValue interface{}, position int) (int, *ByteError) {
	positionText := func() string {
		if position == -1 {
			return "The value"
		}
		return fmt.Sprintf("The entry at position %d", position)
	}
	switch typed := byteValue.(type) {
	case int:
		if typed < 0 || typed > 127 {
			return 0, &ByteError{Number: -2, Description: fmt.Sprintf("%s is not between 0 and 127", positionText())}
		}
		return typed, nil
	case byte:
		if typed > 127 {
			return 0, &ByteError{Number: -2, Description: fmt.Sprintf("%s is not between 0 and 127", positionText())}
		}
		return int(typed), nil
	case float64:
		asInt := int(typed)
		if asInt < 0 || asInt > 127 {
			return 0, &ByteError{Number: -2, Description: fmt.Sprintf("%s is not between 0 and 127", positionText())}
		}
		return asInt, nil
	case string:
		trimmed := strings.TrimPrefix(strings.TrimPrefix(typed, "0x"), "0X")
		parsed, err := strconv.ParseInt(trimmed, 16, 32)
		if err != nil {
			return 0, &ByteError{Number: -3, Description: fmt.Sprintf("%s is not a valid hexadecimal value (accepted formats are 0x## or ##): %s", positionText(), typed)}
		}
		if parsed < 0 || parsed > 127 {
			return 0, &ByteError{Number: -4, Description: fmt.Sprintf("%s is not a hexadecimal value between 0x00 and 0x7F: %s", positionText(), typed)}
		}
		return int(parsed), nil
	default:
		return 0, &ByteError{Number: -1, Description: fmt.Sprintf("%s is not a valid integer or hexadecimal value (accepted formats are 0x## or ##): %v of data type %T", positionText(), byteValue, byteValue)}
	}
}

// Bytes returns the payload bytes.
func (m *Message) Bytes() []int {
	return append([]int(nil), m.bytes...)
}

// BytesRaw returns the payload bytes without copying. The returned slice
// must not be modified.
func (m *Message) BytesRaw() []int {
	return m.bytes
}

// SetBytes replaces the payload with the given values. Each value must be an
// integer between 0 and 127, or a hex-like string ("7F" or "0x7F"); if any
// value is invalid the entire list is rejected and the old value retained.
func (m *Message) SetBytes(values []interface{}) error {
	newBytes := make([]int, 0, len(values))
	for position, value := range values {
		byteValue, byteErr := validateByteValue(value, position)
		if byteErr != nil {
			m.errorNumber = byteErr.Number
			m.errorDescription = byteErr.Description
			return byteErr
		}
		newBytes = append(newBytes, byteValue)
	}
	m.errorNumber = 0
	m.errorDescription = ""
	m.bytes = newBytes
	m.updateFrame()
	return nil
}

// AppendBytes appends the given values to the payload, with the same
// validation and all-or-nothing rejection as SetBytes.
func (m *Message) AppendBytes(values []interface{}) error {
	newBytes := make([]int, 0, len(values))
	for position, value := range values {
		byteValue, byteErr := validateByteValue(value, position)
		if byteErr != nil {
			m.errorNumber = byteErr.Number
			m.errorDescription = byteErr.Description
			return byteErr
		}
		newBytes = append(newBytes, byteValue)
	}
	m.errorNumber = 0
	m.errorDescription = ""
	m.bytes = append(m.bytes, newBytes...)
	m.updateFrame()
	return nil
}

// SetByte sets the payload byte at the given position. Negative positions
// count back from the end (-1 being the last); a position past the end pads
// the payload with zero bytes to reach it.
func (m *Message) SetByte(position int, value interface{}) error {
	actualPosition := position
	if position < 0 {
		actualPosition = len(m.bytes) + position
		if actualPosition < 0 {
			actualPosition = 0
		}
	} else if position > len(m.bytes)-1 {
		m.SetBytesLength(position+1, 0)
	}
	if actualPosition >= len(m.bytes) {
		m.SetBytesLength(actualPosition+1, 0)
	}
	byteValue, byteErr := validateByteValue(value, -1)
	if byteErr != nil {
		m.errorNumber = byteErr.Number
		m.errorDescription = byteErr.Description
		return byteErr
	}
	m.errorNumber = 0
	m.errorDescription = ""
	m.bytes[actualPosition] = byteValue
	m.updateFrame()
	return nil
}

// SetBytesLength grows or shrinks the payload to the given length, setting
// any newly added bytes to the given padding (clamped to 0 through 127).
func (m *Message) SetBytesLength(length int, padding int) {
	if length < 0 {
		length = 0
	}
	if padding < 0 {
		padding = 0
	} else if padding > 127 {
		padding = 127
	}
	oldLength := len(m.bytes)
	if oldLength == length {
		return
	}
	if oldLength < length {
		for i := oldLength; i < length; i++ {
			m.bytes = append(m.bytes, padding)
		}
	} else {
		m.bytes = m.bytes[:length]
	}
	m.updateFrame()
}

// ErrorNumber returns the error number relevant to the most recently
// performed operation (0 if there was no error).
func (m *Message) ErrorNumber() int {
	return m.errorNumber
}

// ErrorDescription returns a human-readable description of the current error
// state.
func (m *Message) ErrorDescription() string {
	return m.errorDescription
}

func (m *Message) Settings() MessageSetting {
	return m.settings
}

func (m *Message) SetSettings(settings MessageSetting) {
	if m.settings != settings {
		m.settings = settings
		m.updateFrame()
	}
}

// SetMessageSetting sets the state of a specific setting flag.
func (m *Message) SetMessageSetting(setting MessageSetting, enabled bool) {
	updated := m.settings
	if enabled {
		updated |= setting
	} else {
		updated &^= setting
	}
	if updated != m.settings {
		m.settings = updated
		m.updateFrame()
	}
}

// CheckMessageSetting retrieves the current value of a given setting flag.
func (m *Message) CheckMessageSetting(setting MessageSetting) bool {
	return m.settings&setting != 0
}

// BeginOperation suspends frame rebuilding until EndOperation, for callers
// about to perform many data changes.
func (m *Message) BeginOperation() {
	m.operationOngoing = true
}

// EndOperation resumes frame rebuilding and rebuilds once.
func (m *Message) EndOperation() {
	m.operationOngoing = false
	m.updateFrame()
}

// Frame returns the complete framed message, 0xF0 through 0xF7. The returned
// slice must not be modified.
func (m *Message) Frame() []byte {
	return m.frame
}

func (m *Message) updateFrame() {
	if m.operationOngoing {
		return
	}
	var identity *Identity
	if m.helper != nil {
		identity = m.helper.identity
	}
	frame := make([]byte, 0, len(m.bytes)+12)
	frame = append(frame, 0xF0)
	if m.settings&UniversalRealtimeSetting != 0 {
		frame = append(frame, 0x7F)
	} else if m.settings&UniversalNonRealtimeSetting != 0 {
		frame = append(frame, 0x7E)
	}
	if m.settings&IncludeManufacturerIDSetting != 0 && identity != nil {
		for _, idByte := range identity.ManufacturerID() {
			frame = append(frame, byte(idByte))
		}
	}
	if m.settings&IncludeFamilyIDSetting != 0 && identity != nil {
		for _, idByte := range identity.FamilyID() {
			frame = append(frame, byte(idByte))
		}
	}
	if m.settings&IncludeDeviceIDSetting != 0 && identity != nil {
		for _, idByte := range identity.ModelID() {
			frame = append(frame, byte(idByte))
		}
	}
	for _, payloadByte := range m.bytes {
		frame = append(frame, byte(payloadByte))
	}
	// Checksum goes at the end, just before the sysex-end byte: an XOR over
	// everything after the start byte, masked to 7 bits
	if m.settings&IncludeChecksumSetting != 0 {
		checksum := byte(0)
		for _, frameByte := range frame[1:] {
			checksum ^= frameByte
		}
		frame = append(frame, checksum&0x7F)
	}
	frame = append(frame, 0xF7)
	m.frame = frame
}
