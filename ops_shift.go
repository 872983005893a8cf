// ops_shift.go - ROL/ROR/RCL/RCR/SHL/SHR/SAR group (0xD0-0xD3)
//
// The 8088 only has the by-1 (0xD0/0xD1) and by-CL (0xD2/0xD3) encodings;
// the by-immediate-count forms (0xC0/0xC1) are 80186+ and excluded, along
// with every other post-8088 opcode.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

var shiftOpByReg = [8]shiftOp{opROL, opROR, opRCL, opRCR, opSHL, opSHR, opSHL /* 6 unused, aliases SHL */, opSAR}

func init() {
	registerOp(0xD0, "grp2 Eb,1", makeShiftGroup(false, shiftCountOne))
	registerOp(0xD1, "grp2 Ev,1", makeShiftGroup(true, shiftCountOne))
	registerOp(0xD2, "grp2 Eb,CL", makeShiftGroup(false, shiftCountCL))
	registerOp(0xD3, "grp2 Ev,CL", makeShiftGroup(true, shiftCountCL))
}

type shiftCountSource int

const (
	shiftCountOne shiftCountSource = iota
	shiftCountCL
)

func makeShiftGroup(wide bool, src shiftCountSource) opFunc {
	return func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, wide, in.SegOverride)
		var count uint8 = 1
		if src == shiftCountCL {
			count = c.CL() & 0x1F
		}
		op := shiftOpByReg[reg&7]
		cf := c.CF()
		// A zero count (CL masked to 0) leaves flags and the operand
		// untouched; skipping the write-back also avoids a spurious bus
		// write to a memory operand.
		if wide {
			v := c.readOperand16(bus, rm)
			result, f, of := shiftRotate(op, uint32(v), count, cf, width16)
			if count != 0 {
				f.of = of
				c.applyFlags(f)
				c.writeOperand16(bus, rm, uint16(result))
			}
		} else {
			v := c.readOperand8(bus, rm)
			result, f, of := shiftRotate(op, uint32(v), count, cf, width8)
			if count != 0 {
				f.of = of
				c.applyFlags(f)
				c.writeOperand8(bus, rm, uint8(result))
			}
		}
	}
}
