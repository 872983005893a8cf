package pcxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPICMaskedLineNeverLatches(t *testing.T) {
	p := NewPIC()
	p.RaiseIRQ(0) // all lines masked at reset
	_, ok := p.Pending()
	assert.False(t, ok)
}

func TestPICUnmaskedLineIsPendingThenAcknowledged(t *testing.T) {
	p := NewPIC()
	p.Out(0x21, 0xFE, 0) // unmask IRQ0 only
	p.RaiseIRQ(0)

	line, ok := p.Pending()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), line)

	vec := p.Acknowledge(0)
	assert.Equal(t, uint8(0x08), vec)
	_, ok = p.Pending()
	assert.False(t, ok, "acknowledged line moves from IRR to ISR and stops being pending")
}

func TestPICNonSpecificEOIClearsHighestPriorityISRBit(t *testing.T) {
	p := NewPIC()
	p.Out(0x21, 0x00, 0) // unmask everything
	p.RaiseIRQ(2)
	p.Acknowledge(2)
	assert.Equal(t, uint8(1<<2), p.ISR)

	p.Out(0x20, 0x20, 0) // non-specific EOI
	assert.Equal(t, uint8(0), p.ISR)
}

func TestPICLowerLineNumberHasHigherPriority(t *testing.T) {
	p := NewPIC()
	p.Out(0x21, 0x00, 0)
	p.RaiseIRQ(5)
	p.RaiseIRQ(1)
	line, ok := p.Pending()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), line)
}

func TestPICSingleChipICWSequenceLeavesIMRWritable(t *testing.T) {
	p := NewPIC()
	p.Out(0x20, 0x13, 0) // ICW1: edge-triggered, single chip, ICW4 needed
	p.Out(0x21, 0x08, 0) // ICW2: base vector
	p.Out(0x21, 0x09, 0) // ICW4: 8086/8088 mode
	p.Out(0x21, 0xFC, 0) // OCW1 must now program the mask, not be eaten as ICW3
	assert.Equal(t, uint8(0xFC), p.IMR)
}

func TestPICRotateOnNonSpecificEOIMovesPriorityBase(t *testing.T) {
	p := NewPIC()
	p.Out(0x21, 0x00, 0)
	p.RaiseIRQ(3)
	p.Acknowledge(3)
	p.Out(0x20, 0xA0, 0) // rotate-on-non-specific-EOI

	// Line 4 is now highest priority, so 5 outranks 3 in the rotated order.
	p.RaiseIRQ(5)
	p.RaiseIRQ(3)
	line, ok := p.Pending()
	assert.True(t, ok)
	assert.Equal(t, uint8(5), line)
}
