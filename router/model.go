package router

import "sync"

// ModelChange describes what happened to a device in the model.
type ModelChange int

const (
	DeviceAdded ModelChange = iota
	DeviceRemoved
)

// Model is the router's device list as seen by UI consumers. Interested
// parties register an observer and receive a callback whenever a device
// arrives or departs; Devices returns a stable snapshot for list rendering.
type Model struct {
	mu        sync.Mutex
	devices   []*Device
	observers map[int]func(*Device, ModelChange)
	nextKey   int
}

func newModel() *Model {
	return &Model{observers: map[int]func(*Device, ModelChange){}}
}

// Devices returns a snapshot of the current device list.
func (m *Model) Devices() []*Device {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Device(nil), m.devices...)
}

// Observe registers a callback for device arrivals and departures. The
// returned function unregisters it.
func (m *Model) Observe(observer func(*Device, ModelChange)) func() {
	m.mu.Lock()
	key := m.nextKey
	m.nextKey++
	m.observers[key] = observer
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.observers, key)
		m.mu.Unlock()
	}
}

func (m *Model) addDevice(device *Device) {
	m.mu.Lock()
	m.devices = append(m.devices, device)
	observers := m.snapshotObservers()
	m.mu.Unlock()
	for _, observer := range observers {
		observer(device, DeviceAdded)
	}
}

func (m *Model) removeDevice(device *Device) {
	m.mu.Lock()
	for i, existing := range m.devices {
		if existing == device {
			m.devices = append(m.devices[:i], m.devices[i+1:]...)
			break
		}
	}
	observers := m.snapshotObservers()
	m.mu.Unlock()
	for _, observer := range observers {
		observer(device, DeviceRemoved)
	}
}

func (m *Model) snapshotObservers() []func(*Device, ModelChange) {
	observers := make([]func(*Device, ModelChange), 0, len(m.observers))
	for _, observer := range m.observers {
		observers = append(observers, observer)
	}
	return observers
}
