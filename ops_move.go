// ops_move.go - data movement: MOV, LEA, XCHG, PUSH/POP, PUSHF/POPF, XLAT
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

func init() {
	registerOp(0x88, "MOV Eb,Gb", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, false, in.SegOverride)
		c.writeOperand8(bus, rm, c.reg8(reg))
	})
	registerOp(0x89, "MOV Ev,Gv", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		c.writeOperand16(bus, rm, c.reg16(reg))
	})
	registerOp(0x8A, "MOV Gb,Eb", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, false, in.SegOverride)
		c.setReg8(reg, c.readOperand8(bus, rm))
	})
	registerOp(0x8B, "MOV Gv,Ev", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		c.setReg16(reg, c.readOperand16(bus, rm))
	})
	registerOp(0x8C, "MOV Ev,Sw", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		c.writeOperand16(bus, rm, c.segReg(reg))
	})
	registerOp(0x8E, "MOV Sw,Ev", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		c.setSegReg(reg, c.readOperand16(bus, rm))
	})
	registerOp(0x8D, "LEA Gv,M", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		if rm.isMem {
			c.setReg16(reg, rm.off)
		}
	})

	registerOp(0xC6, "MOV Eb,ib", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		_, rm := c.decodeModRM(bus, cd, false, in.SegOverride)
		imm := c.immediate8(bus, cd)
		c.writeOperand8(bus, rm, imm)
	})
	registerOp(0xC7, "MOV Ev,iv", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		_, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		imm := c.immediate16(bus, cd)
		c.writeOperand16(bus, rm, imm)
	})

	for i := uint8(0); i < 8; i++ {
		reg := i
		registerOp(0xB0+i, "MOV reg8,ib", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.setReg8(reg, c.immediate8(bus, cd))
		})
		registerOp(0xB8+i, "MOV reg16,iv", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.setReg16(reg, c.immediate16(bus, cd))
		})
	}

	registerOp(0xA0, "MOV AL,moffs8", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		off := c.immediate16(bus, cd)
		seg := effectiveSegFor(c, in)
		b, wait := bus.ReadByte(linear(seg, off), 0)
		c.spendWait(bus, wait)
		c.SetAL(b)
	})
	registerOp(0xA1, "MOV AX,moffs16", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		off := c.immediate16(bus, cd)
		seg := effectiveSegFor(c, in)
		c.AX = c.readOperand16(bus, operand{isMem: true, addr: linear(seg, off)})
	})
	registerOp(0xA2, "MOV moffs8,AL", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		off := c.immediate16(bus, cd)
		seg := effectiveSegFor(c, in)
		wait := bus.WriteByte(linear(seg, off), c.AL(), 0)
		c.spendWait(bus, wait)
	})
	registerOp(0xA3, "MOV moffs16,AX", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		off := c.immediate16(bus, cd)
		seg := effectiveSegFor(c, in)
		c.writeOperand16(bus, operand{isMem: true, addr: linear(seg, off)}, c.AX)
	})

	registerOp(0x86, "XCHG Eb,Gb", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, false, in.SegOverride)
		a, b := c.reg8(reg), c.readOperand8(bus, rm)
		c.setReg8(reg, b)
		c.writeOperand8(bus, rm, a)
	})
	registerOp(0x87, "XCHG Ev,Gv", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		a, b := c.reg16(reg), c.readOperand16(bus, rm)
		c.setReg16(reg, b)
		c.writeOperand16(bus, rm, a)
	})
	for i := uint8(0); i < 8; i++ {
		reg := i
		registerOp(0x90+i, "XCHG AX,r16", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			a, b := c.AX, c.reg16(reg)
			c.AX = b
			c.setReg16(reg, a)
		})
	}

	for i := uint8(0); i < 8; i++ {
		reg := i
		registerOp(0x50+i, "PUSH r16", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.pushWord(bus, c.reg16(reg))
		})
		registerOp(0x58+i, "POP r16", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.setReg16(reg, c.popWord(bus))
		})
	}
	segPushOpcodes := map[uint8]uint8{0x06: 0, 0x0E: 1, 0x16: 2, 0x1E: 3}
	for opc, field := range segPushOpcodes {
		f := field
		registerOp(opc, "PUSH seg", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.pushWord(bus, c.segReg(f))
		})
	}
	segPopOpcodes := map[uint8]uint8{0x07: 0, 0x17: 2, 0x1F: 3}
	for opc, field := range segPopOpcodes {
		f := field
		registerOp(opc, "POP seg", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.setSegReg(f, c.popWord(bus))
		})
	}

	registerOp(0x9C, "PUSHF", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.pushWord(bus, c.Flags)
	})
	registerOp(0x9D, "POPF", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.Flags = c.popWord(bus) | flagsReservedOn
	})

	registerOp(0xD7, "XLAT", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		seg := effectiveSegFor(c, in)
		b, wait := bus.ReadByte(linear(seg, c.BX+uint16(c.AL())), 0)
		c.spendWait(bus, wait)
		c.SetAL(b)
	})

	registerOp(0xC4, "LES Gv,Mp", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		loadFarPointer(c, bus, cd, in, 0)
	})
	registerOp(0xC5, "LDS Gv,Mp", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		loadFarPointer(c, bus, cd, in, 3)
	})

	registerOp(0x8F, "POP Ev", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		_, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
		c.writeOperand16(bus, rm, c.popWord(bus))
	})

	// ESC opcodes (0xD8-0xDF): no 8087 is present on the machines this
	// core models, but real software (BIOS POST's coprocessor probe among
	// it) still executes these bytes expecting the ModR/M byte and any
	// displacement to be consumed normally. Only the decode is modeled: no
	// bus cycle is made for a memory operand and no FPU effect occurs.
	for esc := uint8(0xD8); esc <= 0xDF; esc++ {
		registerOp(esc, "ESC", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			c.decodeModRM(bus, cd, true, in.SegOverride)
		})
	}
}

// effectiveSegFor returns the segment a memory operand should use: the
// override prefix if present, else DS.
func effectiveSegFor(c *CPU, in *Instruction) uint16 {
	if in.SegOverride >= 0 {
		return c.segReg(uint8(in.SegOverride))
	}
	return c.DS
}

func loadFarPointer(c *CPU, bus *Bus, cd int, in *Instruction, segField uint8) {
	reg, rm := c.decodeModRM(bus, cd, true, in.SegOverride)
	if !rm.isMem {
		return
	}
	off := c.readOperand16(bus, rm)
	seg := c.readOperand16(bus, operand{isMem: true, addr: (rm.addr + 2) & addrMask})
	c.setReg16(reg, off)
	c.setSegReg(segField, seg)
}
