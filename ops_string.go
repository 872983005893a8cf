// ops_string.go - MOVS/CMPS/STOS/LODS/SCAS with REP/REPE/REPNE prefixes
//
// REP iterates the whole string op within a single Step call rather than
// re-entering Step once per element. An interrupt arriving mid-REP must
// terminate cleanly and be re-entered via the saved IP, so each
// iteration re-checks for a pending interrupt and, if one is latched,
// rewinds IP back to the first prefix byte before returning so
// the next Step call services the interrupt and then resumes the string
// op exactly where it left off (CX already reflects completed iterations).
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

func init() {
	registerOp(0xA4, "MOVSB", makeStringOp(stringMOVS, false))
	registerOp(0xA5, "MOVSW", makeStringOp(stringMOVS, true))
	registerOp(0xA6, "CMPSB", makeStringOp(stringCMPS, false))
	registerOp(0xA7, "CMPSW", makeStringOp(stringCMPS, true))
	registerOp(0xAA, "STOSB", makeStringOp(stringSTOS, false))
	registerOp(0xAB, "STOSW", makeStringOp(stringSTOS, true))
	registerOp(0xAC, "LODSB", makeStringOp(stringLODS, false))
	registerOp(0xAD, "LODSW", makeStringOp(stringLODS, true))
	registerOp(0xAE, "SCASB", makeStringOp(stringSCAS, false))
	registerOp(0xAF, "SCASW", makeStringOp(stringSCAS, true))
}

type stringOpKind int

const (
	stringMOVS stringOpKind = iota
	stringCMPS
	stringSTOS
	stringLODS
	stringSCAS
)

func makeStringOp(kind stringOpKind, wide bool) opFunc {
	return func(c *CPU, bus *Bus, cd int, in *Instruction) {
		step := int16(1)
		if wide {
			step = 2
		}
		if c.DF() {
			step = -step
		}
		srcSeg := effectiveSegFor(c, in)

		iterate := func() {
			switch kind {
			case stringMOVS:
				if wide {
					v := c.readOperand16(bus, operand{isMem: true, addr: linear(srcSeg, c.SI)})
					c.writeOperand16(bus, operand{isMem: true, addr: linear(c.ES, c.DI)}, v)
					c.SI = uint16(int32(c.SI) + int32(step))
					c.DI = uint16(int32(c.DI) + int32(step))
				} else {
					v := c.readOperand8(bus, operand{isMem: true, addr: linear(srcSeg, c.SI)})
					c.writeOperand8(bus, operand{isMem: true, addr: linear(c.ES, c.DI)}, v)
					c.SI = uint16(int32(c.SI) + int32(step))
					c.DI = uint16(int32(c.DI) + int32(step))
				}
			case stringCMPS:
				if wide {
					a := c.readOperand16(bus, operand{isMem: true, addr: linear(srcSeg, c.SI)})
					b := c.readOperand16(bus, operand{isMem: true, addr: linear(c.ES, c.DI)})
					_, f := aluSub(uint32(a), uint32(b), false, width16)
					c.applyFlags(f)
					c.SI = uint16(int32(c.SI) + int32(step))
					c.DI = uint16(int32(c.DI) + int32(step))
				} else {
					a := c.readOperand8(bus, operand{isMem: true, addr: linear(srcSeg, c.SI)})
					b := c.readOperand8(bus, operand{isMem: true, addr: linear(c.ES, c.DI)})
					_, f := aluSub(uint32(a), uint32(b), false, width8)
					c.applyFlags(f)
					c.SI = uint16(int32(c.SI) + int32(step))
					c.DI = uint16(int32(c.DI) + int32(step))
				}
			case stringSTOS:
				if wide {
					c.writeOperand16(bus, operand{isMem: true, addr: linear(c.ES, c.DI)}, c.AX)
				} else {
					c.writeOperand8(bus, operand{isMem: true, addr: linear(c.ES, c.DI)}, c.AL())
				}
				c.DI = uint16(int32(c.DI) + int32(step))
			case stringLODS:
				if wide {
					c.AX = c.readOperand16(bus, operand{isMem: true, addr: linear(srcSeg, c.SI)})
				} else {
					c.SetAL(c.readOperand8(bus, operand{isMem: true, addr: linear(srcSeg, c.SI)}))
				}
				c.SI = uint16(int32(c.SI) + int32(step))
			case stringSCAS:
				if wide {
					b := c.readOperand16(bus, operand{isMem: true, addr: linear(c.ES, c.DI)})
					_, f := aluSub(uint32(c.AX), uint32(b), false, width16)
					c.applyFlags(f)
				} else {
					b := c.readOperand8(bus, operand{isMem: true, addr: linear(c.ES, c.DI)})
					_, f := aluSub(uint32(c.AL()), uint32(b), false, width8)
					c.applyFlags(f)
				}
				c.DI = uint16(int32(c.DI) + int32(step))
			}
		}

		if in.Rep == repNone {
			iterate()
			return
		}

		for c.CX != 0 {
			iterate()
			c.CX--
			c.cycle(bus, cd) // one extra cycle per REP iteration's re-test

			if c.CX == 0 {
				break
			}
			if kind == stringCMPS || kind == stringSCAS {
				if in.Rep == repZ && !c.ZF() {
					break
				}
				if in.Rep == repNZ && c.ZF() {
					break
				}
			}
			if c.irqPending && c.IF() {
				c.rewindToPrefix(in)
				return
			}
		}
	}
}

// rewindToPrefix sets IP back to the first byte of the current
// instruction (its prefixes included) so a later Step call re-decodes and
// resumes the REP loop after an interrupt is serviced.
func (c *CPU) rewindToPrefix(in *Instruction) {
	ip := uint16(in.Addr - uint32(c.CS)<<4)
	c.IP = ip
	c.flushQueue(ip)
}
