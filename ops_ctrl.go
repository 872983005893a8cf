// ops_ctrl.go - control flow: JMP/CALL/RET, Jcc, LOOP family, INT/IRET,
// HLT, and the single-bit flag-control instructions
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

func init() {
	registerOp(0xEB, "JMP rel8", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		rel := int8(c.immediate8(bus, cd))
		jumpRel(c, bus, int16(rel))
	})
	registerOp(0xE9, "JMP rel16", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		rel := int16(c.immediate16(bus, cd))
		jumpRel(c, bus, rel)
	})
	registerOp(0xEA, "JMP far", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.immediate16(bus, cd)
		newCS := c.immediate16(bus, cd)
		c.CS = newCS
		c.IP = newIP
		c.flushQueue(newIP)
	})

	registerOp(0xE8, "CALL rel16", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		rel := int16(c.immediate16(bus, cd))
		c.pushWord(bus, c.IP)
		jumpRel(c, bus, rel)
	})
	registerOp(0x9A, "CALL far", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.immediate16(bus, cd)
		newCS := c.immediate16(bus, cd)
		c.pushWord(bus, c.CS)
		c.pushWord(bus, c.IP)
		c.CS = newCS
		c.IP = newIP
		c.flushQueue(newIP)
	})

	registerOp(0xC3, "RET", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.popWord(bus)
		c.IP = newIP
		c.flushQueue(newIP)
	})
	registerOp(0xC2, "RET iw", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.popWord(bus)
		imm := c.immediate16(bus, cd)
		c.SP += imm
		c.IP = newIP
		c.flushQueue(newIP)
	})
	registerOp(0xCB, "RETF", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.popWord(bus)
		newCS := c.popWord(bus)
		c.IP, c.CS = newIP, newCS
		c.flushQueue(newIP)
	})
	registerOp(0xCA, "RETF iw", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.popWord(bus)
		newCS := c.popWord(bus)
		imm := c.immediate16(bus, cd)
		c.SP += imm
		c.IP, c.CS = newIP, newCS
		c.flushQueue(newIP)
	})

	// Jcc, 0x70-0x7F.
	jccConds := [16]func(c *CPU) bool{
		func(c *CPU) bool { return c.OF() },                  // JO
		func(c *CPU) bool { return !c.OF() },                 // JNO
		func(c *CPU) bool { return c.CF() },                  // JB/JC
		func(c *CPU) bool { return !c.CF() },                 // JNB/JNC
		func(c *CPU) bool { return c.ZF() },                  // JE/JZ
		func(c *CPU) bool { return !c.ZF() },                 // JNE/JNZ
		func(c *CPU) bool { return c.CF() || c.ZF() },        // JBE
		func(c *CPU) bool { return !c.CF() && !c.ZF() },      // JA
		func(c *CPU) bool { return c.SF() },                  // JS
		func(c *CPU) bool { return !c.SF() },                 // JNS
		func(c *CPU) bool { return c.PF() },                  // JP/JPE
		func(c *CPU) bool { return !c.PF() },                 // JNP/JPO
		func(c *CPU) bool { return c.SF() != c.OF() },        // JL
		func(c *CPU) bool { return c.SF() == c.OF() },        // JGE
		func(c *CPU) bool { return c.SF() != c.OF() || c.ZF() }, // JLE
		func(c *CPU) bool { return c.SF() == c.OF() && !c.ZF() }, // JG
	}
	for i := 0; i < 16; i++ {
		cond := jccConds[i]
		registerOp(uint8(0x70+i), "Jcc rel8", func(c *CPU, bus *Bus, cd int, in *Instruction) {
			rel := int8(c.immediate8(bus, cd))
			if cond(c) {
				jumpRel(c, bus, int16(rel))
			}
		})
	}

	registerOp(0xE0, "LOOPNZ", makeLoop(loopNZ))
	registerOp(0xE1, "LOOPZ", makeLoop(loopZ))
	registerOp(0xE2, "LOOP", makeLoop(loopAlways))
	registerOp(0xE3, "JCXZ", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		rel := int8(c.immediate8(bus, cd))
		if c.CX == 0 {
			jumpRel(c, bus, int16(rel))
		}
	})

	registerOp(0xCC, "INT3", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.softwareInterrupt(bus, 3)
	})
	registerOp(0xCD, "INT ib", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		v := c.immediate8(bus, cd)
		c.softwareInterrupt(bus, v)
	})
	registerOp(0xCE, "INTO", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		if c.OF() {
			c.softwareInterrupt(bus, 4)
		}
	})
	registerOp(0xCF, "IRET", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		newIP := c.popWord(bus)
		newCS := c.popWord(bus)
		newFlags := c.popWord(bus)
		c.IP, c.CS = newIP, newCS
		c.Flags = newFlags | flagsReservedOn
		c.flushQueue(newIP)
	})

	registerOp(0xF4, "HLT", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.Halted = true
	})

	registerOp(0xF8, "CLC", func(c *CPU, bus *Bus, cd int, in *Instruction) { c.setFlag(flagCF, false) })
	registerOp(0xF9, "STC", func(c *CPU, bus *Bus, cd int, in *Instruction) { c.setFlag(flagCF, true) })
	registerOp(0xF5, "CMC", func(c *CPU, bus *Bus, cd int, in *Instruction) { c.setFlag(flagCF, !c.CF()) })
	registerOp(0xFC, "CLD", func(c *CPU, bus *Bus, cd int, in *Instruction) { c.setFlag(flagDF, false) })
	registerOp(0xFD, "STD", func(c *CPU, bus *Bus, cd int, in *Instruction) { c.setFlag(flagDF, true) })
	registerOp(0xFA, "CLI", func(c *CPU, bus *Bus, cd int, in *Instruction) { c.setFlag(flagIF, false) })
	registerOp(0xFB, "STI", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.setFlag(flagIF, true)
	})
	registerOp(0x9B, "WAIT", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		// No 8087 coprocessor modeled; WAIT is a no-op that spends no
		// execution cycles.
	})

	registerOp(0x9E, "SAHF", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.Flags = c.Flags&0xFF00 | uint16(c.AH())&0xD5 | flagR1
	})
	registerOp(0x9F, "LAHF", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.SetAH(uint8(c.Flags))
	})
	registerOp(0x98, "CBW", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		c.AX = uint16(int16(int8(c.AL())))
	})
	registerOp(0x99, "CWD", func(c *CPU, bus *Bus, cd int, in *Instruction) {
		if int16(c.AX) < 0 {
			c.DX = 0xFFFF
		} else {
			c.DX = 0
		}
	})

	grp5Ext = func(c *CPU, bus *Bus, cd int, in *Instruction, reg uint8, rm operand) {
		switch reg {
		case 2: // CALL near indirect
			target := c.readOperand16(bus, rm)
			c.pushWord(bus, c.IP)
			c.IP = target
			c.flushQueue(target)
		case 3: // CALL far indirect
			if rm.isMem {
				newIP := c.readOperand16(bus, rm)
				newCS := c.readOperand16(bus, operand{isMem: true, addr: (rm.addr + 2) & addrMask})
				c.pushWord(bus, c.CS)
				c.pushWord(bus, c.IP)
				c.CS, c.IP = newCS, newIP
				c.flushQueue(newIP)
			}
		case 4: // JMP near indirect
			target := c.readOperand16(bus, rm)
			c.IP = target
			c.flushQueue(target)
		case 5: // JMP far indirect
			if rm.isMem {
				newIP := c.readOperand16(bus, rm)
				newCS := c.readOperand16(bus, operand{isMem: true, addr: (rm.addr + 2) & addrMask})
				c.CS, c.IP = newCS, newIP
				c.flushQueue(newIP)
			}
		case 6: // PUSH Ev
			c.pushWord(bus, c.readOperand16(bus, rm))
		}
	}
}

func jumpRel(c *CPU, bus *Bus, rel int16) {
	newIP := uint16(int32(c.IP) + int32(rel))
	c.IP = newIP
	c.flushQueue(newIP)
}

type loopCond int

const (
	loopAlways loopCond = iota
	loopZ
	loopNZ
)

func makeLoop(cond loopCond) opFunc {
	return func(c *CPU, bus *Bus, cd int, in *Instruction) {
		rel := int8(c.immediate8(bus, cd))
		c.CX--
		take := c.CX != 0
		switch cond {
		case loopZ:
			take = take && c.ZF()
		case loopNZ:
			take = take && !c.ZF()
		}
		if take {
			jumpRel(c, bus, int16(rel))
		}
	}
}
