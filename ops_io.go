// ops_io.go - IN/OUT port instructions and the TEST/misc opcodes not
// covered by the main arithmetic group
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

func init() {
	registerOp(0xE4, "IN AL,ib", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		port := uint16(c.immediate8(bus, cd))
		b, wait := bus.InPort(port, 0)
		c.spendWait(bus, wait)
		c.SetAL(b)
	})
	registerOp(0xE5, "IN AX,ib", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		port := uint16(c.immediate8(bus, cd))
		lo, w1 := bus.InPort(port, 0)
		hi, w2 := bus.InPort(port+1, 0)
		c.spendWait(bus, w1+w2)
		c.AX = uint16(lo) | uint16(hi)<<8
	})
	registerOp(0xE6, "OUT ib,AL", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		port := uint16(c.immediate8(bus, cd))
		bus.OutPort(port, c.AL(), 0)
	})
	registerOp(0xE7, "OUT ib,AX", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		port := uint16(c.immediate8(bus, cd))
		bus.OutPort(port, byte(c.AX), 0)
		bus.OutPort(port+1, byte(c.AX>>8), 0)
	})
	registerOp(0xEC, "IN AL,DX", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		b, wait := bus.InPort(c.DX, 0)
		c.spendWait(bus, wait)
		c.SetAL(b)
	})
	registerOp(0xED, "IN AX,DX", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		lo, w1 := bus.InPort(c.DX, 0)
		hi, w2 := bus.InPort(c.DX+1, 0)
		c.spendWait(bus, w1+w2)
		c.AX = uint16(lo) | uint16(hi)<<8
	})
	registerOp(0xEE, "OUT DX,AL", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		bus.OutPort(c.DX, c.AL(), 0)
	})
	registerOp(0xEF, "OUT DX,AX", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		bus.OutPort(c.DX, byte(c.AX), 0)
		bus.OutPort(c.DX+1, byte(c.AX>>8), 0)
	})

	registerOp(0x84, "TEST Eb,Gb", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, false, in.SegOverride)
		_, f := aluAnd(uint32(c.readOperand8(bus, rm)), uint32(c.reg8(reg)), width8)
		c.applyFlags(f)
		c.setFlag(flagCF, false)
		c.setFlag(flagOF, false)
	})
	registerOp(0x85, "TEST Ev,Gv", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		_, f := aluAnd(uint32(c.readOperand16(bus, rm)), uint32(c.reg16(reg)), width16)
		c.applyFlags(f)
		c.setFlag(flagCF, false)
		c.setFlag(flagOF, false)
	})
	registerOp(0xA8, "TEST AL,ib", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		imm := c.immediate8(bus, cd)
		_, f := aluAnd(uint32(c.AL()), uint32(imm), width8)
		c.applyFlags(f)
		c.setFlag(flagCF, false)
		c.setFlag(flagOF, false)
	})
	registerOp(0xA9, "TEST eAX,iv", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		imm := c.immediate16(bus, cd)
		_, f := aluAnd(uint32(c.AX), uint32(imm), width16)
		c.applyFlags(f)
		c.setFlag(flagCF, false)
		c.setFlag(flagOF, false)
	})

	// 0x80-0x83: immediate-to-r/m arithmetic group, reg field
	// selects the arithOp (same order as the 0x00-0x3D block); 0x82 is
	// the 8088's alias of 0x80.
	registerOp(0x80, "grp1 Eb,ib", makeGrp1(false, false))
	registerOp(0x81, "grp1 Ev,iv", makeGrp1(true, false))
	registerOp(0x82, "grp1 Eb,ib", makeGrp1(false, false))
	registerOp(0x83, "grp1 Ev,ib", makeGrp1(true, true))
}

func makeGrp1(wide, signExtendImm bool) opFunc {
	return func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, wide, in.SegOverride)
		op := arithOp(reg & 7)
		cf := c.CF()
		if wide {
			var imm uint16
			if signExtendImm {
				imm = uint16(int16(int8(c.immediate8(bus, cd))))
			} else {
				imm = c.immediate16(bus, cd)
			}
			a := c.readOperand16(bus, rm)
			result, f := applyArith(op, uint32(a), uint32(imm), cf, width16)
			c.applyFlags(f)
			if op != arithCMP {
				c.writeOperand16(bus, rm, uint16(result))
			}
		} else {
			imm := c.immediate8(bus, cd)
			a := c.readOperand8(bus, rm)
			result, f := applyArith(op, uint32(a), uint32(imm), cf, width8)
			c.applyFlags(f)
			if op != arithCMP {
				c.writeOperand8(bus, rm, uint8(result))
			}
		}
	}
}
