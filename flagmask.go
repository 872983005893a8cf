// flagmask.go - per-opcode mask of architecturally defined FLAGS bits
//
// Real 8088 silicon leaves several flags undefined after some
// instructions (the classic case: SF/ZF/AF/PF after MUL). Conformance
// comparisons against captured hardware vectors only check the bits this
// table marks defined, so the deterministic-but-undefined values the ALU
// primitives compute never count as mismatches.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// flagsAllStatus covers every FLAGS bit an instruction can influence.
const flagsAllStatus = flagCF | flagPF | flagAF | flagZF | flagSF |
	flagTF | flagIF | flagDF | flagOF

// flagsDefinedMask reports which FLAGS bits are architecturally defined
// after executing opcode, with reg the modRM reg field for the group
// opcodes (ignored otherwise). Bits outside the mask may hold any value
// on real silicon.
func flagsDefinedMask(opcode, reg uint8) uint16 {
	switch opcode {
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, // OR
		0x20, 0x21, 0x22, 0x23, 0x24, 0x25, // AND
		0x30, 0x31, 0x32, 0x33, 0x34, 0x35, // XOR
		0x84, 0x85, 0xA8, 0xA9: // TEST
		return flagsAllStatus &^ flagAF
	case 0x27, 0x2F: // DAA/DAS
		return flagsAllStatus &^ flagOF
	case 0x37, 0x3F: // AAA/AAS define only CF and AF
		return flagsAllStatus &^ (flagOF | flagSF | flagZF | flagPF)
	case 0x80, 0x81, 0x82, 0x83: // immediate group 1
		switch reg {
		case 1, 4, 6: // OR/AND/XOR forms
			return flagsAllStatus &^ flagAF
		}
		return flagsAllStatus
	case 0xD0, 0xD1, 0xD2, 0xD3: // shift/rotate group
		return flagsAllStatus &^ (flagAF | flagOF)
	case 0xD4, 0xD5: // AAM/AAD
		return flagsAllStatus &^ (flagCF | flagOF | flagAF)
	case 0xF6, 0xF7: // unary group 3
		if reg >= 4 { // MUL/IMUL/DIV/IDIV
			return flagsAllStatus &^ (flagSF | flagZF | flagAF | flagPF)
		}
		return flagsAllStatus
	}
	return flagsAllStatus
}
