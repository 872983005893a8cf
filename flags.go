// flags.go - 8086/8088 FLAGS register bit layout and helpers
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// FLAGS register bits. Bits 1, 3, 5, 12, 13, 14, 15 are reserved; on the
// 8088 bit 1 always reads 1 and the rest read 0 except as noted in reset.
const (
	flagCF uint16 = 1 << 0
	flagR1 uint16 = 1 << 1 // always 1
	flagPF uint16 = 1 << 2
	flagR3 uint16 = 1 << 3
	flagAF uint16 = 1 << 4
	flagR5 uint16 = 1 << 5
	flagZF uint16 = 1 << 6
	flagSF uint16 = 1 << 7
	flagTF uint16 = 1 << 8
	flagIF uint16 = 1 << 9
	flagDF uint16 = 1 << 10
	flagOF uint16 = 1 << 11

	// flagsReservedOn is the FLAGS value after reset: only the
	// always-one reserved bit is set.
	flagsReservedOn = flagR1
)

func (c *CPU) getFlag(mask uint16) bool { return c.Flags&mask != 0 }

func (c *CPU) setFlag(mask uint16, v bool) {
	if v {
		c.Flags |= mask
	} else {
		c.Flags &^= mask
	}
}

func (c *CPU) CF() bool { return c.getFlag(flagCF) }
func (c *CPU) PF() bool { return c.getFlag(flagPF) }
func (c *CPU) AF() bool { return c.getFlag(flagAF) }
func (c *CPU) ZF() bool { return c.getFlag(flagZF) }
func (c *CPU) SF() bool { return c.getFlag(flagSF) }
func (c *CPU) TF() bool { return c.getFlag(flagTF) }
func (c *CPU) IF() bool { return c.getFlag(flagIF) }
func (c *CPU) DF() bool { return c.getFlag(flagDF) }
func (c *CPU) OF() bool { return c.getFlag(flagOF) }

// parityTable8 is precomputed even-parity of the low 8 bits of a result,
// used for PF on every ALU op (all widths consult only the low byte).
var parityTable8 [256]bool

func init() {
	for i := range parityTable8 {
		bits := 0
		for b := i; b != 0; b &= b - 1 {
			bits++
		}
		parityTable8[i] = bits%2 == 0
	}
}
