package pcxt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestStepRecordsInstructionHistoryRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0, 0xB0, 0x42) // MOV AL,0x42
	load(bus, 2, 0xF4)       // HLT

	c.Step(bus)
	c.Step(bus)

	hist := c.History()
	if len(hist) != 2 {
		t.Fatalf("want 2 history entries, got %d", len(hist))
	}

	want := []HistoryEntry{
		{CS: 0, IP: 0, Instr: Instruction{Opcode: 0xB0, Mnemonic: "MOV reg8,ib", Len: 2, SegOverride: -1}},
		{CS: 0, IP: 2, Instr: Instruction{Opcode: 0xF4, Mnemonic: "HLT", Len: 1, SegOverride: -1}},
	}

	opts := []cmp.Option{
		cmpopts.IgnoreFields(HistoryEntry{}, "Flags"),
		cmpopts.IgnoreFields(Instruction{}, "Addr", "Rep", "Lock"),
	}
	if diff := cmp.Diff(want, hist, opts...); diff != "" {
		t.Errorf("instruction history mismatch (-want +got):\n%s", diff)
	}
}

func TestPrefixLoopCollapsesSegmentOverrideAndRep(t *testing.T) {
	c, bus := newTestCPU()
	c.ES = 0x2000
	c.DI = 0
	c.AX = 0x4142
	c.CX = 1
	load(bus, 0, 0x26, 0xF3, 0xAB) // ES: REP STOSW
	c.Step(bus)

	got := bus.readWord(linear(c.ES, 0))
	if got != 0x4142 {
		t.Fatalf("STOSW through ES override wrote %#04x, want 0x4142", got)
	}
}

func TestUndefinedOpcodeIsANoOpNotAPanic(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0, 0x0F) // POP CS on the 8088, not modeled here
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("undefined opcode must not panic, got: %v", r)
		}
	}()
	c.Step(bus)
}
