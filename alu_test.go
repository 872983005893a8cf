package pcxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAluAddOverflowAndCarry(t *testing.T) {
	result, f := aluAdd(0xFF, 0x01, false, width8)
	assert.Equal(t, uint32(0x00), result)
	assert.True(t, f.cf)
	assert.True(t, f.zf)
	assert.False(t, f.of)

	result, f = aluAdd(0x7F, 0x01, false, width8)
	assert.Equal(t, uint32(0x80), result)
	assert.False(t, f.cf)
	assert.True(t, f.of, "signed overflow 127+1 must set OF")
	assert.True(t, f.sf)
}

func TestAluSubBorrowAndOverflow(t *testing.T) {
	result, f := aluSub(0x00, 0x01, false, width8)
	assert.Equal(t, uint32(0xFF), result)
	assert.True(t, f.cf)

	result, f = aluSub(0x80, 0x01, false, width16)
	assert.Equal(t, uint32(0x7F), result)
	assert.False(t, f.cf)
	assert.False(t, f.of)
}

func TestAluIncDecNeverTouchCarry(t *testing.T) {
	_, f := aluInc(0xFF, width8)
	assert.False(t, f.cf, "aluInc computes its own cf which callers must discard via applyFlagsExceptCF")
	_, f = aluDec(0x00, width8)
	assert.False(t, f.cf)
}

func TestShiftRotateMasksCountTo5Bits(t *testing.T) {
	// A shift count of 33 (0x21) should behave identically to a count of 1,
	// since the 8088 masks to 5 bits before use.
	v1, f1, _ := shiftRotate(opSHL, 0x01, 1, false, width8)
	v2, f2, _ := shiftRotate(opSHL, 0x01, 33, false, width8)
	assert.Equal(t, v1, v2)
	assert.Equal(t, f1.cf, f2.cf)
}

func TestShiftRotateZeroCountLeavesFlagsUntouched(t *testing.T) {
	v, f, of := shiftRotate(opSHL, 0x55, 0, true, width8)
	assert.Equal(t, uint32(0x55), v)
	assert.True(t, f.cf, "count=0 must not disturb the incoming carry")
	assert.False(t, of)
}

func TestMulU8SetsCFOFOnlyWhenUpperHalfNonzero(t *testing.T) {
	_, _, cfof := mulU8(2, 3)
	assert.False(t, cfof)
	_, _, cfof = mulU8(0x80, 2)
	assert.True(t, cfof)
}

func TestImulS8SignExtension(t *testing.T) {
	_, _, cfof := imulS8(-1, 1) // -1 fits in a sign-extended byte
	assert.False(t, cfof)
	_, _, cfof = imulS8(100, 100) // overflows a signed byte
	assert.True(t, cfof)
}

func TestDivU8DivideByZero(t *testing.T) {
	_, _, err := divU8(0x0100, 0)
	assert.Error(t, err)
}

func TestDivU8QuotientOverflow(t *testing.T) {
	_, _, err := divU8(0x1000, 1) // quotient 0x1000 doesn't fit in AL
	assert.Error(t, err)
}

func TestDivU8Normal(t *testing.T) {
	q, r, err := divU8(10, 3)
	assert.NoError(t, err)
	assert.Equal(t, uint8(3), q)
	assert.Equal(t, uint8(1), r)
}

func TestBcdDAAAdjustsLowNibble(t *testing.T) {
	al, cf, af := bcdDAA(0x0B, false, false)
	assert.Equal(t, uint8(0x11), al)
	assert.True(t, af)
	assert.False(t, cf)
}

func TestBcdAAMDivideByZeroUsesBase10Fallback(t *testing.T) {
	nal, nah, zf, _, _ := bcdAAM(9, 0)
	// bcdAAM's base==0 fallback is handled internally; a base of 0 becomes 10.
	assert.False(t, zf)
	assert.Equal(t, uint8(9), nal)
	assert.Equal(t, uint8(0), nah)
}

func TestFlagsDefinedMaskMarksMulFlagsUndefined(t *testing.T) {
	m := flagsDefinedMask(0xF6, 4) // MUL r/m8
	assert.Zero(t, m&flagZF, "ZF is undefined after MUL")
	assert.Zero(t, m&flagSF)
	assert.NotZero(t, m&flagCF)
	assert.NotZero(t, m&flagOF)
	assert.Equal(t, uint16(flagsAllStatus), flagsDefinedMask(0x00, 0), "ADD defines every status flag")
}
