// ops_arith.go - ADD/OR/ADC/SBB/AND/SUB/XOR/CMP group, INC/DEC, and the
// F6/F7 unary group (NOT/NEG/MUL/IMUL/DIV/IDIV)
//
// DIV/IDIV check the quotient against the destination width before
// writing anything back; overflow raises the divide-error exception
// with the operands untouched.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// arithOp indexes the eight standard ALU operations in the order Intel
// encodes them into the reg field of 0x80/0x81/0x83 and into the top
// three bits of 0x00-0x3D.
type arithOp uint8

const (
	arithADD arithOp = iota
	arithOR
	arithADC
	arithSBB
	arithAND
	arithSUB
	arithXOR
	arithCMP
)

func applyArith(op arithOp, a, b uint32, cf bool, w width) (uint32, aluFlags) {
	switch op {
	case arithADD:
		return aluAdd(a, b, false, w)
	case arithADC:
		return aluAdd(a, b, cf, w)
	case arithSUB, arithCMP:
		return aluSub(a, b, false, w)
	case arithSBB:
		return aluSub(a, b, cf, w)
	case arithAND:
		return aluAnd(a, b, w)
	case arithOR:
		return aluOr(a, b, w)
	case arithXOR:
		return aluXor(a, b, w)
	}
	panic("pcxt: bad arithOp")
}

func (c *CPU) applyFlags(f aluFlags) {
	c.setFlag(flagCF, f.cf)
	c.applyFlagsExceptCF(f)
}

// applyFlagsExceptCF is used by INC/DEC, which update every flag except
// CF (the flag truth tables those two instructions follow leave carry
// exactly as the preceding instruction set it).
func (c *CPU) applyFlagsExceptCF(f aluFlags) {
	c.setFlag(flagPF, f.pf)
	c.setFlag(flagAF, f.af)
	c.setFlag(flagZF, f.zf)
	c.setFlag(flagSF, f.sf)
	c.setFlag(flagOF, f.of)
}

var arithMnemonics = [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}

func init() {
	// Forms: 0 = Eb,Gb  1 = Ev,Gv  2 = Gb,Eb  3 = Gv,Ev  4 = AL,ib  5 = eAX,iv
	for i := 0; i < 8; i++ {
		op := arithOp(i)
		base := uint8(i * 8)
		mn := arithMnemonics[i]

		registerOp(base+0, mn+" Eb,Gb", makeArithRM(op, false, false))
		registerOp(base+1, mn+" Ev,Gv", makeArithRM(op, true, false))
		registerOp(base+2, mn+" Gb,Eb", makeArithRM(op, false, true))
		registerOp(base+3, mn+" Gv,Ev", makeArithRM(op, true, true))
		registerOp(base+4, mn+" AL,ib", makeArithAcc(op, false))
		registerOp(base+5, mn+" eAX,iv", makeArithAcc(op, true))
	}
}

// makeArithRM builds the four register/memory encodings shared by every
// arithMnemonics entry. regIsDest selects the "Gb,Eb"/"Gv,Ev" direction.
func makeArithRM(op arithOp, wide bool, regIsDest bool) opFunc {
	return func(c *CPU, bus *Bus, clockDivisor int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, clockDivisor, wide, in.SegOverride)
		cf := c.CF()
		if wide {
			var a, b uint16
			if regIsDest {
				a, b = c.reg16(reg), c.readOperand16(bus, rm)
			} else {
				a, b = c.readOperand16(bus, rm), c.reg16(reg)
			}
			result, f := applyArith(op, uint32(a), uint32(b), cf, width16)
			c.applyFlags(f)
			if op != arithCMP {
				if regIsDest {
					c.setReg16(reg, uint16(result))
				} else {
					c.writeOperand16(bus, rm, uint16(result))
				}
			}
		} else {
			var a, b uint8
			if regIsDest {
				a, b = c.reg8(reg), c.readOperand8(bus, rm)
			} else {
				a, b = c.readOperand8(bus, rm), c.reg8(reg)
			}
			result, f := applyArith(op, uint32(a), uint32(b), cf, width8)
			c.applyFlags(f)
			if op != arithCMP {
				if regIsDest {
					c.setReg8(reg, uint8(result))
				} else {
					c.writeOperand8(bus, rm, uint8(result))
				}
			}
		}
	}
}

func makeArithAcc(op arithOp, wide bool) opFunc {
	return func(c *CPU, bus *Bus, clockDivisor int, in *Instruction) {
		cf := c.CF()
		if wide {
			imm := c.immediate16(bus, clockDivisor)
			result, f := applyArith(op, uint32(c.AX), uint32(imm), cf, width16)
			c.applyFlags(f)
			if op != arithCMP {
				c.AX = uint16(result)
			}
		} else {
			imm := c.immediate8(bus, clockDivisor)
			result, f := applyArith(op, uint32(c.AL()), uint32(imm), cf, width8)
			c.applyFlags(f)
			if op != arithCMP {
				c.SetAL(uint8(result))
			}
		}
	}
}

func init() {
	// INC/DEC r16, 0x40-0x4F (8 INC then 8 DEC).
	for i := uint8(0); i < 8; i++ {
		reg := i
		registerOp(0x40+i, "INC r16", func(c *CPU, bus *Bus, clockDivisor int, in *Instruction) {
			result, f := aluInc(uint32(c.reg16(reg)), width16)
			c.applyFlagsExceptCF(f)
			c.setReg16(reg, uint16(result))
		})
		registerOp(0x48+i, "DEC r16", func(c *CPU, bus *Bus, clockDivisor int, in *Instruction) {
			result, f := aluDec(uint32(c.reg16(reg)), width16)
			c.applyFlagsExceptCF(f)
			c.setReg16(reg, uint16(result))
		})
	}

	registerOp(0xF6, "grp3 Eb", makeGrp3(false))
	registerOp(0xF7, "grp3 Ev", makeGrp3(true))
	registerOp(0xFE, "grp4/5 Eb", makeIncDecGroup(false))
	registerOp(0xFF, "grp4/5 Ev", makeIncDecGroup(true))
}

// makeGrp3 implements the 0xF6/0xF7 unary group: TEST(imm)/NOT/NEG/MUL/
// IMUL/DIV/IDIV selected by the ModR/M reg field.
func makeGrp3(wide bool) opFunc {
	return func(c *CPU, bus *Bus, clockDivisor int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, clockDivisor, wide, in.SegOverride)
		switch reg {
		case 0, 1: // TEST
			if wide {
				imm := c.immediate16(bus, clockDivisor)
				_, f := aluAnd(uint32(c.readOperand16(bus, rm)), uint32(imm), width16)
				c.applyFlags(f)
				c.setFlag(flagCF, false)
				c.setFlag(flagOF, false)
			} else {
				imm := c.immediate8(bus, clockDivisor)
				_, f := aluAnd(uint32(c.readOperand8(bus, rm)), uint32(imm), width8)
				c.applyFlags(f)
				c.setFlag(flagCF, false)
				c.setFlag(flagOF, false)
			}
		case 2: // NOT
			if wide {
				c.writeOperand16(bus, rm, uint16(aluNot(uint32(c.readOperand16(bus, rm)), width16)))
			} else {
				c.writeOperand8(bus, rm, uint8(aluNot(uint32(c.readOperand8(bus, rm)), width8)))
			}
		case 3: // NEG
			if wide {
				result, f := aluNeg(uint32(c.readOperand16(bus, rm)), width16)
				c.applyFlags(f)
				c.writeOperand16(bus, rm, uint16(result))
			} else {
				result, f := aluNeg(uint32(c.readOperand8(bus, rm)), width8)
				c.applyFlags(f)
				c.writeOperand8(bus, rm, uint8(result))
			}
		case 4: // MUL
			if wide {
				hi, lo, cfof := mulU16(c.AX, c.readOperand16(bus, rm))
				c.DX, c.AX = hi, lo
				c.setFlag(flagCF, cfof)
				c.setFlag(flagOF, cfof)
			} else {
				hi, lo, cfof := mulU8(c.AL(), c.readOperand8(bus, rm))
				c.SetAH(hi)
				c.SetAL(lo)
				c.setFlag(flagCF, cfof)
				c.setFlag(flagOF, cfof)
			}
		case 5: // IMUL
			if wide {
				hi, lo, cfof := imulS16(int16(c.AX), int16(c.readOperand16(bus, rm)))
				c.DX, c.AX = hi, lo
				c.setFlag(flagCF, cfof)
				c.setFlag(flagOF, cfof)
			} else {
				hi, lo, cfof := imulS8(int8(c.AL()), int8(c.readOperand8(bus, rm)))
				c.SetAH(hi)
				c.SetAL(lo)
				c.setFlag(flagCF, cfof)
				c.setFlag(flagOF, cfof)
			}
		case 6: // DIV
			if wide {
				dividend := uint32(c.DX)<<16 | uint32(c.AX)
				q, r, err := divU16(dividend, c.readOperand16(bus, rm))
				if err != nil {
					c.raiseException(bus, vecDivideError)
					return
				}
				c.AX, c.DX = q, r
			} else {
				dividend := c.AX
				q, r, err := divU8(dividend, c.readOperand8(bus, rm))
				if err != nil {
					c.raiseException(bus, vecDivideError)
					return
				}
				c.SetAL(q)
				c.SetAH(r)
			}
		case 7: // IDIV
			if wide {
				dividend := int32(uint32(c.DX)<<16 | uint32(c.AX))
				q, r, err := idivS16(dividend, int16(c.readOperand16(bus, rm)))
				if err != nil {
					c.raiseException(bus, vecDivideError)
					return
				}
				c.AX, c.DX = uint16(q), uint16(r)
			} else {
				dividend := int16(c.AX)
				q, r, err := idivS8(dividend, int8(c.readOperand8(bus, rm)))
				if err != nil {
					c.raiseException(bus, vecDivideError)
					return
				}
				c.SetAL(uint8(q))
				c.SetAH(uint8(r))
			}
		}
	}
}

// makeIncDecGroup implements 0xFE (Eb: INC/DEC only) and 0xFF (Ev: adds
// CALL/JMP/PUSH indirect forms via reg field 2-6, wired in ops_ctrl.go's
// init via a forward call since those need Instruction/IP semantics).
func makeIncDecGroup(wide bool) opFunc {
	return func(c *CPU, bus *Bus, clockDivisor int, in *Instruction) {
		reg, rm := c.decodeModRM(bus, clockDivisor, wide, in.SegOverride)
		switch reg {
		case 0: // INC
			if wide {
				result, f := aluInc(uint32(c.readOperand16(bus, rm)), width16)
				c.applyFlagsExceptCF(f)
				c.writeOperand16(bus, rm, uint16(result))
			} else {
				result, f := aluInc(uint32(c.readOperand8(bus, rm)), width8)
				c.applyFlagsExceptCF(f)
				c.writeOperand8(bus, rm, uint8(result))
			}
		case 1: // DEC
			if wide {
				result, f := aluDec(uint32(c.readOperand16(bus, rm)), width16)
				c.applyFlagsExceptCF(f)
				c.writeOperand16(bus, rm, uint16(result))
			} else {
				result, f := aluDec(uint32(c.readOperand8(bus, rm)), width8)
				c.applyFlagsExceptCF(f)
				c.writeOperand8(bus, rm, uint8(result))
			}
		default:
			if grp5Ext != nil {
				grp5Ext(c, bus, clockDivisor, in, reg, rm)
			}
		}
	}
}

// grp5Ext is set by ops_ctrl.go's init to handle the CALL/JMP/PUSH
// indirect forms of 0xFF reg fields 2-6, which need control-flow
// semantics the arithmetic group doesn't own.
var grp5Ext func(c *CPU, bus *Bus, clockDivisor int, in *Instruction, reg uint8, rm operand)
