// cpu.go - Intel 8088 register file and top-level Step loop
//
// CPU couples the Bus Interface Unit (biu.go) and Execution Unit (the
// decode/ALU/ops_*.go files) the way a real 8088 does: the EU consumes
// bytes the BIU has already queued, and stalls on the BIU when it needs
// more than are available.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// CPU is the 8088 register file, flags, and execution state. It holds no
// reference to the Bus between Step calls; Step receives the bus as an
// explicit argument, matching the "CPU owns the bus exclusively only for
// the duration of a cycle" concurrency rule.
type CPU struct {
	AX, BX, CX, DX uint16
	SP, BP, SI, DI uint16
	CS, DS, SS, ES uint16
	IP             uint16
	Flags          uint16

	Halted bool
	Cycles uint64

	queue instructionQueue
	biu   biuState

	irqPending bool
	irqVector  uint8
	nmiPending bool

	// offRailsRun counts consecutive 0x00 opcode fetches for the
	// heuristic off-rails detector.
	offRailsRun int

	history  []HistoryEntry
	histNext int

	sink TraceSink
}

// HistoryEntry is one retired instruction as kept by the bounded
// instruction-history ring.
type HistoryEntry struct {
	CS, IP uint16
	Instr  Instruction
	Flags  uint16
}

const historySize = 64

// Reset restores the documented post-RESET register state: CS=0xFFFF,
// IP=0, FLAGS holds only the always-one reserved bit, every other
// segment register is zero, and the prefetch queue/BIU are idle.
func (c *CPU) Reset() {
	*c = CPU{
		CS:      0xFFFF,
		IP:      0x0000,
		Flags:   flagsReservedOn,
		sink:    c.sink,
		history: c.history,
	}
	c.biu.reset()
}

func (c *CPU) flatPC() uint32 {
	return (uint32(c.CS)<<4 + uint32(c.biu.pc)) & 0xFFFFF
}

func (c *CPU) flatIP() uint32 {
	return (uint32(c.CS)<<4 + uint32(c.IP)) & 0xFFFFF
}

// linear computes a 20-bit physical address from a segment:offset pair,
// wrapping at 2^20 as real 8088 hardware does.
func linear(seg, off uint16) uint32 {
	return (uint32(seg)<<4 + uint32(off)) & 0xFFFFF
}

func (c *CPU) recordHistory(cs, ip uint16, instr Instruction, flags uint16) {
	if cap(c.history) == 0 {
		c.history = make([]HistoryEntry, historySize)
	}
	c.history[c.histNext%historySize] = HistoryEntry{CS: cs, IP: ip, Instr: instr, Flags: flags}
	c.histNext++
}

// History returns retired instructions oldest-first, at most historySize
// of them.
func (c *CPU) History() []HistoryEntry {
	n := c.histNext
	if n > historySize {
		n = historySize
	}
	out := make([]HistoryEntry, 0, n)
	start := c.histNext - n
	for i := 0; i < n; i++ {
		out = append(out, c.history[(start+i)%historySize])
	}
	return out
}

func (c *CPU) pushWord(bus *Bus, v uint16) {
	c.SP -= 2
	bus.writeWord(linear(c.SS, c.SP), v)
}

func (c *CPU) popWord(bus *Bus) uint16 {
	v := bus.readWord(linear(c.SS, c.SP))
	c.SP += 2
	return v
}

// AL/AH/BL/BH/CL/CH/DL/DH expose the 8-bit register halves the decode and
// ALU paths index by regField.

func (c *CPU) AL() uint8 { return uint8(c.AX) }
func (c *CPU) AH() uint8 { return uint8(c.AX >> 8) }
func (c *CPU) BL() uint8 { return uint8(c.BX) }
func (c *CPU) BH() uint8 { return uint8(c.BX >> 8) }
func (c *CPU) CL() uint8 { return uint8(c.CX) }
func (c *CPU) CH() uint8 { return uint8(c.CX >> 8) }
func (c *CPU) DL() uint8 { return uint8(c.DX) }
func (c *CPU) DH() uint8 { return uint8(c.DX >> 8) }

func (c *CPU) SetAL(v uint8) { c.AX = c.AX&0xFF00 | uint16(v) }
func (c *CPU) SetAH(v uint8) { c.AX = c.AX&0x00FF | uint16(v)<<8 }
func (c *CPU) SetBL(v uint8) { c.BX = c.BX&0xFF00 | uint16(v) }
func (c *CPU) SetBH(v uint8) { c.BX = c.BX&0x00FF | uint16(v)<<8 }
func (c *CPU) SetCL(v uint8) { c.CX = c.CX&0xFF00 | uint16(v) }
func (c *CPU) SetCH(v uint8) { c.CX = c.CX&0x00FF | uint16(v)<<8 }
func (c *CPU) SetDL(v uint8) { c.DX = c.DX&0xFF00 | uint16(v) }
func (c *CPU) SetDH(v uint8) { c.DX = c.DX&0x00FF | uint16(v)<<8 }

func (c *CPU) reg8(field uint8) uint8 {
	switch field & 7 {
	case 0:
		return c.AL()
	case 1:
		return c.CL()
	case 2:
		return c.DL()
	case 3:
		return c.BL()
	case 4:
		return c.AH()
	case 5:
		return c.CH()
	case 6:
		return c.DH()
	default:
		return c.BH()
	}
}

func (c *CPU) setReg8(field uint8, v uint8) {
	switch field & 7 {
	case 0:
		c.SetAL(v)
	case 1:
		c.SetCL(v)
	case 2:
		c.SetDL(v)
	case 3:
		c.SetBL(v)
	case 4:
		c.SetAH(v)
	case 5:
		c.SetCH(v)
	case 6:
		c.SetDH(v)
	default:
		c.SetBH(v)
	}
}

func (c *CPU) reg16(field uint8) uint16 {
	switch field & 7 {
	case 0:
		return c.AX
	case 1:
		return c.CX
	case 2:
		return c.DX
	case 3:
		return c.BX
	case 4:
		return c.SP
	case 5:
		return c.BP
	case 6:
		return c.SI
	default:
		return c.DI
	}
}

func (c *CPU) setReg16(field uint8, v uint16) {
	switch field & 7 {
	case 0:
		c.AX = v
	case 1:
		c.CX = v
	case 2:
		c.DX = v
	case 3:
		c.BX = v
	case 4:
		c.SP = v
	case 5:
		c.BP = v
	case 6:
		c.SI = v
	default:
		c.DI = v
	}
}

func (c *CPU) segReg(field uint8) uint16 {
	switch field & 3 {
	case 0:
		return c.ES
	case 1:
		return c.CS
	case 2:
		return c.SS
	default:
		return c.DS
	}
}

func (c *CPU) setSegReg(field uint8, v uint16) {
	switch field & 3 {
	case 0:
		c.ES = v
	case 1:
		c.CS = v
	case 2:
		c.SS = v
	default:
		c.DS = v
	}
}
