// pic.go - Intel 8259 Programmable Interrupt Controller (single chip, 8 lines)
//
// A small device struct advanced by Tick and addressed via two I/O
// ports, carrying the usual IMR/ISR/IRR register set.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// PIC models just enough of the 8259 for IRQ0 (timer) through IRQ7 (or
// IRQ1 keyboard) style single-chip PC/XT wiring: IMR masking, IRR/ISR
// bookkeeping, specific and non-specific EOI, and fixed or rotating
// priority.
type PIC struct {
	IRR, ISR, IMR uint8
	rotatingPrio  bool
	prioBase      uint8
	icwStep       int
	singleChip    bool
	expectICW4    bool
	readISR       bool
}

// NewPIC returns a PIC with all lines masked, matching power-on state.
func NewPIC() *PIC {
	return &PIC{IMR: 0xFF}
}

// Tick is a no-op: the PIC only reacts to RaiseIRQ calls and port I/O, it
// has no internal clock of its own.
func (p *PIC) Tick(n int) {}

// RaiseIRQ latches line (0-7) in IRR if it is not masked.
func (p *PIC) RaiseIRQ(line uint8) {
	bit := uint8(1) << line
	if p.IMR&bit == 0 {
		p.IRR |= bit
	}
}

// Pending returns the highest-priority serviceable IRQ line and whether
// one exists, honoring fixed (0 highest) or rotating priority.
func (p *PIC) Pending() (line uint8, ok bool) {
	active := p.IRR &^ p.IMR
	if active == 0 {
		return 0, false
	}
	base := uint8(0)
	if p.rotatingPrio {
		base = p.prioBase
	}
	for i := uint8(0); i < 8; i++ {
		line := (base + i) & 7
		if active&(1<<line) != 0 {
			return line, true
		}
	}
	return 0, false
}

// Acknowledge moves line from IRR into ISR, called when the CPU actually
// takes the interrupt (vector = 8 + line on a PC/XT, base vector 0x08).
func (p *PIC) Acknowledge(line uint8) uint8 {
	bit := uint8(1) << line
	p.IRR &^= bit
	p.ISR |= bit
	return 0x08 + line
}

func (p *PIC) In(port uint16, delta int) (byte, int) {
	switch port & 1 {
	case 0:
		if p.readISR {
			return p.ISR, 0
		}
		return p.IRR, 0
	default:
		return p.IMR, 0
	}
}

func (p *PIC) Out(port uint16, v byte, delta int) {
	switch port & 1 {
	case 0:
		switch {
		case v&0x10 != 0: // ICW1
			p.icwStep = 1
			p.singleChip = v&0x02 != 0
			p.expectICW4 = v&0x01 != 0
			p.IRR, p.ISR = 0, 0
		case v&0x20 != 0: // OCW2: EOI
			p.handleEOI(v)
		case v&0x08 != 0: // OCW3
			p.readISR = v&0x02 != 0 && v&0x01 != 0
		}
	default:
		switch p.icwStep {
		case 1: // ICW2: base vector, ignored (fixed at 0x08 for this core)
			switch {
			case p.singleChip && p.expectICW4:
				p.icwStep = 3 // single chip, no ICW3
			case p.singleChip:
				p.icwStep = 0
			default:
				p.icwStep = 2
			}
		case 2: // ICW3
			if p.expectICW4 {
				p.icwStep = 3
			} else {
				p.icwStep = 0
			}
		case 3: // ICW4
			p.icwStep = 0
		default: // OCW1: IMR
			p.IMR = v
		}
	}
}

func (p *PIC) handleEOI(cmd byte) {
	if cmd&0x80 != 0 {
		p.rotatingPrio = true
	}
	specific := cmd&0x60 == 0x60
	if specific {
		line := cmd & 0x07
		p.ISR &^= 1 << line
		if p.rotatingPrio {
			p.prioBase = (line + 1) & 7
		}
		return
	}
	// Non-specific EOI: clear the highest-priority in-service bit.
	base := uint8(0)
	if p.rotatingPrio {
		base = p.prioBase
	}
	for i := uint8(0); i < 8; i++ {
		line := (base + i) & 7
		if p.ISR&(1<<line) != 0 {
			p.ISR &^= 1 << line
			if p.rotatingPrio {
				p.prioBase = (line + 1) & 7
			}
			return
		}
	}
}
