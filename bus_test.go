package pcxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusRAMReadWriteRoundTrip(t *testing.T) {
	b := NewBus()
	b.WriteByte(0x1234, 0x42, 0)
	v, wait := b.ReadByte(0x1234, 0)
	assert.Equal(t, byte(0x42), v)
	assert.Equal(t, 0, wait)
}

func TestBusROMWritesAreDropped(t *testing.T) {
	b := NewBus()
	require.NoError(t, b.InstallROM(0xFE000, []byte{0xAA, 0xBB, 0xCC}))
	b.WriteByte(0xFE001, 0x99, 0)
	v, _ := b.ReadByte(0xFE001, 0)
	assert.Equal(t, byte(0xBB), v, "ROM region must ignore writes")
}

func TestBusUnclaimedPortReadsFF(t *testing.T) {
	b := NewBus()
	v, wait := b.InPort(0x1CE, 0)
	assert.Equal(t, byte(0xFF), v)
	assert.Equal(t, 0, wait)
}

func TestBusUnclaimedPortWriteDropped(t *testing.T) {
	b := NewBus()
	assert.NotPanics(t, func() { b.OutPort(0x1CE, 0x55, 0) })
}

func TestBusSealRejectsFurtherInstalls(t *testing.T) {
	b := NewBus()
	b.Seal()
	err := b.InstallROM(0, []byte{0x00})
	assert.Error(t, err)
}

func TestBusAddressWrapsAt1MB(t *testing.T) {
	b := NewBus()
	b.WriteByte(0xFFFFF, 0x11, 0)
	b.WriteByte(0x00000+1, 0x22, 0) // distinct address, sanity check no aliasing
	v, _ := b.ReadByte(0xFFFFF, 0)
	assert.Equal(t, byte(0x11), v)

	v, _ = b.ReadByte(0x100000, 0) // one past the top, must wrap to 0
	assert.Equal(t, v, b.mem[0])
}

func TestRefreshSchedulerAccumulatesStealTicks(t *testing.T) {
	r := refreshScheduler{Enabled: true, PeriodTicks: 10, StealTicks: 2}
	r.advance(25) // two full periods elapsed
	assert.Equal(t, 4, r.consumeContention())
	assert.Equal(t, 0, r.consumeContention(), "consuming drains the pending steal")
}

func TestRefreshSchedulerDisabledNeverSteals(t *testing.T) {
	r := refreshScheduler{Enabled: false, PeriodTicks: 1, StealTicks: 5}
	r.advance(100)
	assert.Equal(t, 0, r.consumeContention())
}

type fakeMMIODevice struct {
	ticks int
}

func (f *fakeMMIODevice) ReadByte(addr uint32, delta int) (byte, int)  { return 0, 0 }
func (f *fakeMMIODevice) WriteByte(addr uint32, v byte, delta int) int { return 0 }
func (f *fakeMMIODevice) Tick(n int)                                   { f.ticks += n }

func TestBusTickAdvancesInstalledDevices(t *testing.T) {
	b := NewBus()
	dev := &fakeMMIODevice{}
	require.NoError(t, b.InstallDevice(0xC0000, 0xC0FFF, dev))
	b.Tick(5)
	assert.Equal(t, 5, dev.ticks)
}

func TestBusAddDeviceOnceDeduplicatesByIdentity(t *testing.T) {
	b := NewBus()
	dev := &fakeMMIODevice{}
	b.addDeviceOnce(dev)
	b.addDeviceOnce(dev)
	assert.Len(t, b.devices, 1, "the same device registered twice must only be ticked once")
}
