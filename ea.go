// ea.go - ModR/M effective-address resolution for 16-bit addressing modes
//
// A resolved operand exposes read/write/address uniformly, so ALU op
// implementations don't need to branch on register-vs-memory at every
// call site.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// operand is a resolved ModR/M operand: either a CPU register (regField
// valid) or a memory location (addr valid). The access width is chosen by
// the read/write helper called on it.
type operand struct {
	isMem    bool
	regField uint8
	addr     uint32
	off      uint16 // pre-segment offset, valid when isMem (used by LEA)
}

func (c *CPU) readOperand8(bus *Bus, op operand) uint8 {
	if !op.isMem {
		return c.reg8(op.regField)
	}
	b, wait := bus.ReadByte(op.addr, 0)
	c.spendWait(bus, wait)
	return b
}

func (c *CPU) writeOperand8(bus *Bus, op operand, v uint8) {
	if !op.isMem {
		c.setReg8(op.regField, v)
		return
	}
	wait := bus.WriteByte(op.addr, v, 0)
	c.spendWait(bus, wait)
}

func (c *CPU) readOperand16(bus *Bus, op operand) uint16 {
	if !op.isMem {
		return c.reg16(op.regField)
	}
	lo, w1 := bus.ReadByte(op.addr, 0)
	hi, w2 := bus.ReadByte((op.addr+1)&addrMask, 0)
	c.spendWait(bus, w1+w2)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) writeOperand16(bus *Bus, op operand, v uint16) {
	if !op.isMem {
		c.setReg16(op.regField, v)
		return
	}
	w1 := bus.WriteByte(op.addr, byte(v), 0)
	w2 := bus.WriteByte((op.addr+1)&addrMask, byte(v>>8), 0)
	c.spendWait(bus, w1+w2)
}

// spendWait folds device-reported wait states into the cycle counter for
// operand accesses; prefetch keeps making T-state progress during each
// stalled cycle, same as it does under the EU's own execution time.
func (c *CPU) spendWait(bus *Bus, wait int) {
	c.cycles(bus, clockDivisorDefault, wait)
}

// decodeModRM reads the ModR/M byte (and any displacement) from the
// instruction stream via nextOpcodeByte, returning the reg field and the
// resolved r/m operand. segOverride, if >= 0, forces the segment used for
// memory operands (set by a 0x26/0x2E/0x36/0x3E prefix).
func (c *CPU) decodeModRM(bus *Bus, clockDivisor int, wide bool, segOverride int8) (reg uint8, rm operand) {
	modrm := c.nextOpcodeByte(bus, clockDivisor)
	mod := modrm >> 6
	regField := (modrm >> 3) & 7
	rmField := modrm & 7

	if mod == 3 {
		return regField, operand{isMem: false, regField: rmField}
	}

	var base uint16
	seg := c.DS
	usesBP := false
	switch rmField {
	case 0:
		base = c.BX + c.SI
	case 1:
		base = c.BX + c.DI
	case 2:
		base = c.BP + c.SI
		usesBP = true
	case 3:
		base = c.BP + c.DI
		usesBP = true
	case 4:
		base = c.SI
	case 5:
		base = c.DI
	case 6:
		if mod == 0 {
			lo := c.nextOpcodeByte(bus, clockDivisor)
			hi := c.nextOpcodeByte(bus, clockDivisor)
			base = uint16(lo) | uint16(hi)<<8
		} else {
			base = c.BP
			usesBP = true
		}
	case 7:
		base = c.BX
	}
	if usesBP {
		seg = c.SS
	}

	switch mod {
	case 1:
		d := c.nextOpcodeByte(bus, clockDivisor)
		base += uint16(int16(int8(d)))
	case 2:
		lo := c.nextOpcodeByte(bus, clockDivisor)
		hi := c.nextOpcodeByte(bus, clockDivisor)
		base += uint16(lo) | uint16(hi)<<8
	}

	if segOverride >= 0 {
		seg = c.segReg(uint8(segOverride))
	}

	return regField, operand{isMem: true, addr: linear(seg, base), off: base}
}

// immediate8/16 read an immediate operand following the opcode/ModRM.
func (c *CPU) immediate8(bus *Bus, clockDivisor int) uint8 {
	return c.nextOpcodeByte(bus, clockDivisor)
}

func (c *CPU) immediate16(bus *Bus, clockDivisor int) uint16 {
	lo := c.nextOpcodeByte(bus, clockDivisor)
	hi := c.nextOpcodeByte(bus, clockDivisor)
	return uint16(lo) | uint16(hi)<<8
}
