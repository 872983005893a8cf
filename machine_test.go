package pcxt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBIOS() []byte {
	bios := make([]byte, biosROMSize)
	// The reset vector (0xFFFF:0x0000 = linear 0xFFFF0) falls in the last
	// 16 bytes of an 8KB ROM ending at 0xFFFFF; place a HLT there.
	bios[len(bios)-16] = 0xF4
	return bios
}

func TestBuildRejectsEmptyBIOS(t *testing.T) {
	_, err := Build(MachineConfig{})
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildRejectsOversizeBIOS(t *testing.T) {
	_, err := Build(MachineConfig{BIOSImage: make([]byte, biosROMSize+1)})
	require.Error(t, err)
}

func TestMachineRunsUntilHalt(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)

	outcome := m.Run(100)
	assert.True(t, outcome.Halted)
	assert.False(t, outcome.OffRails)
}

func TestMachineResetReturnsToResetVector(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)
	m.Run(10)
	m.Reset()
	assert.Equal(t, uint16(0xFFFF), m.cpu.CS)
	assert.Equal(t, uint16(0x0000), m.cpu.IP)
}

func TestAttachHDDResolvesKnownGeometry(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)

	fiveMB := DriveGeometry{306, 2, 17}
	err = m.AttachHDD(make([]byte, fiveMB.SizeBytes()))
	require.NoError(t, err)
	assert.Equal(t, fiveMB, m.HDDGeometry())
}

func TestAttachHDDSynthesizesUnknownGeometry(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)

	odd := int64(12345 * 512)
	err = m.AttachHDD(make([]byte, odd))
	require.NoError(t, err)
	g := m.HDDGeometry()
	assert.LessOrEqual(t, g.SizeBytes(), odd)
}

func TestAttachFloppyRejectsEmptyImage(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)
	err = m.AttachFloppy(nil)
	assert.Error(t, err)
}

func TestKeyPressRaisesKeyboardIRQAndDeliversScancode(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)

	m.pic.Out(0x21, 0xFF&^0x02, 0) // unmask IRQ1, as the BIOS keyboard init does

	m.KeyPress(0x1E) // 'A' make code
	line, ok := m.pic.Pending()
	require.True(t, ok)
	assert.Equal(t, uint8(1), line)
	assert.Equal(t, uint8(0x1E), m.ppi.scancode)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)
	m.cpu.AX = 0xBEEF
	m.cpu.CS = 0x0800
	m.cpu.IP = 0x0010
	m.bus.WriteByte(0x500, 0x77, 0)

	var buf bytes.Buffer
	require.NoError(t, m.Snapshot(&buf))

	m2, err := Build(MachineConfig{BIOSImage: testBIOS()})
	require.NoError(t, err)
	require.NoError(t, m2.Restore(&buf))

	assert.Equal(t, uint16(0xBEEF), m2.cpu.AX)
	assert.Equal(t, uint16(0x0800), m2.cpu.CS)
	assert.Equal(t, uint16(0x0010), m2.cpu.IP)
	v, _ := m2.bus.ReadByte(0x500, 0)
	assert.Equal(t, byte(0x77), v)
}
