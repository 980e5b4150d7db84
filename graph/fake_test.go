package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeRegisterAndUnregister(t *testing.T) {
	fake := NewFake()
	port, err := fake.RegisterPort("a", PortIsInput)
	require.NoError(t, err)
	assert.NotNil(t, fake.FindPort("a"))
	require.NoError(t, fake.UnregisterPort(port))
	assert.Nil(t, fake.FindPort("a"))
	assert.Error(t, fake.UnregisterPort(port))
}

func TestFakeBufferOrderingAndCapacity(t *testing.T) {
	buffer := &FakeBuffer{Capacity: 2, RejectOutOfOrder: true}
	assert.Equal(t, WriteOK, buffer.Write(5, []byte{0xF8}))
	assert.Equal(t, WriteInvalid, buffer.Write(3, []byte{0xF8}))
	assert.Equal(t, WriteOK, buffer.Write(5, []byte{0xFA}))
	assert.Equal(t, WriteNoBufferSpace, buffer.Write(9, []byte{0xFB}))
	assert.Equal(t, uint32(2), buffer.EventCount())

	buffer.Clear()
	assert.Equal(t, uint32(0), buffer.EventCount())
	assert.Equal(t, WriteOK, buffer.Write(0, []byte{0xF8}))
}

func TestFakeBufferCopiesData(t *testing.T) {
	buffer := &FakeBuffer{Capacity: 4}
	data := []byte{0x90, 60, 100}
	require.Equal(t, WriteOK, buffer.Write(0, data))
	data[1] = 61
	event, err := buffer.Event(0)
	require.NoError(t, err)
	assert.Equal(t, byte(60), event.Buffer[1], "the buffer must hold its own copy")
	_, err = buffer.Event(5)
	assert.Error(t, err)
}
