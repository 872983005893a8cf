package pcxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPPIPortAReturnsScancodeByDefault(t *testing.T) {
	p := NewPPI8255(NewPIT())
	p.PushScancode(0x1E)
	v, _ := p.In(0x60, 0)
	assert.Equal(t, uint8(0x1E), v)
}

func TestPPIPortABit7SwitchesToDIPReadback(t *testing.T) {
	p := NewPPI8255(NewPIT())
	p.PushScancode(0x1E)
	p.Out(0x61, 0x80, 0) // port B bit 7 set: port A now reads DIP switches
	v, _ := p.In(0x60, 0)
	assert.Equal(t, p.ppiConfig, v)
	assert.NotEqual(t, uint8(0x1E), v)
}

func TestPPIPortBSpeakerGateForwardsToChannel2(t *testing.T) {
	pit := NewPIT()
	p := NewPPI8255(pit)

	p.Out(0x61, 0x00, 0)
	assert.False(t, pit.ch[2].gate)

	p.Out(0x61, 0x01, 0)
	assert.True(t, pit.ch[2].gate)
}

func TestPPIPortBBit7RisingEdgeClearsLatchedScancode(t *testing.T) {
	p := NewPPI8255(NewPIT())
	p.PushScancode(0x9E)
	assert.True(t, p.haveScan)

	p.Out(0x61, 0x80, 0) // 0 -> 1 transition on bit 7
	assert.False(t, p.haveScan)
}

func TestPPIPortBBit7HighToHighIsNotARisingEdge(t *testing.T) {
	p := NewPPI8255(NewPIT())
	p.Out(0x61, 0x80, 0)
	p.PushScancode(0x9E)

	p.Out(0x61, 0x80, 0) // already high, no transition
	assert.True(t, p.haveScan, "re-writing the same bit must not re-trigger the clear edge")
}

func TestPPIPortCSelectsDIPNibbleByPortBBit3(t *testing.T) {
	p := NewPPI8255(NewPIT())
	p.ppiConfig = 0xAB

	p.Out(0x61, 0x00, 0) // bit3 clear: low nibble
	v, _ := p.In(0x62, 0)
	assert.Equal(t, uint8(0x0B), v)

	p.Out(0x61, 0x08, 0) // bit3 set: high nibble
	v, _ = p.In(0x62, 0)
	assert.Equal(t, uint8(0x0A), v)
}

func TestPPIPortAIgnoresWrites(t *testing.T) {
	p := NewPPI8255(NewPIT())
	p.PushScancode(0x42)
	p.Out(0x60, 0x99, 0) // only port B is writable on this device
	v, _ := p.In(0x60, 0)
	assert.Equal(t, uint8(0x42), v)
}
