// ppi.go - Intel 8255 Programmable Peripheral Interface
//
// On a PC/XT, port A reads the keyboard scancode (or DIP switch bank,
// depending on port B bit 7), port B is mostly output (speaker gate,
// keyboard clear/enable, NMI masks), port C reads the remaining DIP
// switches and a couple of status bits. Machine.KeyPress feeds the
// scancode byte this device exposes.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// PPI8255 models the PC/XT's keyboard/speaker/config interface chip.
type PPI8255 struct {
	scancode  uint8
	haveScan  bool
	portBOut  uint8
	ppiConfig uint8 // DIP switch bank: read via port A when portBOut bit 7 is set, a nibble at a time via port C (portBOut bit 3 selects the high nibble)
	pit       *PIT
}

// NewPPI8255 returns a PPI wired to pit for the speaker gate line (port
// B bit 0 drives the gate of the PIT's channel 2; bit 1, the speaker data
// enable, is stored but has no effect).
func NewPPI8255(pit *PIT) *PPI8255 {
	return &PPI8255{pit: pit, ppiConfig: 0x4D}
}

// PushScancode latches a new keyboard scancode, matching the real
// hardware's behavior of holding the byte until the BIOS's keyboard
// interrupt handler reads port A and strobes the clear line.
func (p *PPI8255) PushScancode(b uint8) {
	p.scancode = b
	p.haveScan = true
}

func (p *PPI8255) Tick(n int) {}

func (p *PPI8255) In(port uint16, delta int) (byte, int) {
	switch port & 0x03 {
	case 0: // port A
		if p.portBOut&0x80 != 0 {
			return p.ppiConfig, 0
		}
		return p.scancode, 0
	case 1: // port B
		return p.portBOut, 0
	case 2: // port C
		var v uint8
		if p.portBOut&0x08 != 0 {
			v = p.ppiConfig >> 4
		} else {
			v = p.ppiConfig & 0x0F
		}
		// bit 5 mirrors the timer's channel-2 (speaker) output; the RAM
		// parity-error bits stay clear (no parity faults are modeled).
		if p.pit != nil && p.pit.ch[2].out {
			v |= 0x20
		}
		return v, 0
	}
	return 0xFF, 0
}

func (p *PPI8255) Out(port uint16, v byte, delta int) {
	if port&0x03 != 1 {
		return
	}
	prev := p.portBOut
	p.portBOut = v
	if p.pit != nil {
		p.pit.SetGate(2, v&0x01 != 0)
	}
	// Bit 7 rising marks the latched scancode as consumed (haveScan);
	// port A still returns the last byte, and the PIC's IRQ1 is not
	// touched here.
	if prev&0x80 == 0 && v&0x80 != 0 {
		p.haveScan = false
	}
}
