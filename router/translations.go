package router

import (
	"strings"
	"sync"
)

// Some devices need their messages reinterpreted before routing. The tables
// below rewrite specific CC messages into replacement byte sequences (the
// ATOM SQ uses CC 85/86 where transport bytes are wanted), and carry the
// default device master channel for devices with a known MPE convention.

const (
	deviceIdentifierSeaboardRise   = "Seaboard RISE MIDI"
	deviceIdentifierPresonusAtomSq = "ATM SQ ATM SQ"
)

// CCTranslationTable maps a CC number to the bytes that replace the whole
// event. An empty entry means no translation. Tables are shared between
// devices and reference counted.
type CCTranslationTable struct {
	name    string
	entries [128][]byte
}

// Lookup returns the replacement bytes for the given CC number, or nil.
func (t *CCTranslationTable) Lookup(cc byte) []byte {
	if t == nil {
		return nil
	}
	return t.entries[cc&0x7F]
}

var translationRegistry = struct {
	sync.Mutex
	atomSq   *CCTranslationTable
	refCount int
}{}

func loadTranslations() {
	translationRegistry.Lock()
	defer translationRegistry.Unlock()
	if translationRegistry.refCount == 0 {
		table := &CCTranslationTable{name: deviceIdentifierPresonusAtomSq}
		table.entries[85] = []byte{0xFC}
		table.entries[86] = []byte{0xFA}
		translationRegistry.atomSq = table
	}
	translationRegistry.refCount++
}

func unloadTranslations() {
	translationRegistry.Lock()
	defer translationRegistry.Unlock()
	translationRegistry.refCount--
	if translationRegistry.refCount == 0 {
		translationRegistry.atomSq = nil
	}
}

// translationsForDevice returns the CC translation table for the named
// device, or nil when the device has no known quirks.
func translationsForDevice(humanReadableName string) *CCTranslationTable {
	translationRegistry.Lock()
	defer translationRegistry.Unlock()
	if strings.HasSuffix(humanReadableName, deviceIdentifierPresonusAtomSq) {
		deviceLog.Debug("Identified device as Presonus Atom SQ main device, applying CC translations", "device", humanReadableName)
		return translationRegistry.atomSq
	}
	return nil
}

// deviceMasterChannel returns the known default MPE master channel for the
// named device, or -1 when there is none.
func deviceMasterChannel(humanReadableName string) int {
	if strings.HasPrefix(humanReadableName, deviceIdentifierSeaboardRise) {
		// By default, the Touch Faders use MIDI CCs 107, 109, and 111 in MIDI
		// mode (white dot). By default, the XY Touchpad uses MIDI CCs 113 and 114.
		deviceLog.Debug("Identified device as a ROLI Seaboard Rise, returning master channel 0", "device", humanReadableName)
		return 0
	}
	return -1
}
