package pcxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDMAChannelAddressCountByteFlip(t *testing.T) {
	d := NewDMA8237()
	d.Out(0x00, 0x34, 0) // channel 0 address low byte
	d.Out(0x00, 0x12, 0) // channel 0 address high byte
	assert.Equal(t, uint16(0x1234), d.ch[0].addr)

	d.Out(0x0C, 0, 0) // master clear byte-flip
	d.Out(0x01, 0xFF, 0)
	d.Out(0x01, 0x00, 0)
	assert.Equal(t, uint16(0x00FF), d.ch[0].count)
}

func TestDMAPageRegisterRoutingForChannel0Refresh(t *testing.T) {
	d := NewDMA8237()
	d.Out(0x87, 0x0A, 0) // channel 0's page register
	assert.Equal(t, uint8(0x0A), d.ch[0].page)
	v, _ := d.In(0x87, 0)
	assert.Equal(t, uint8(0x0A), v)
}

func TestDMAMaskRegisterPerChannel(t *testing.T) {
	d := NewDMA8237()
	d.Out(0x0A, 0x05, 0) // set-mask bit (0x04) for channel 1 (low 2 bits)
	assert.True(t, d.ch[1].masked)
	assert.True(t, d.ch[0].masked, "other channels must be unaffected")
}
