package pcxt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSVSinkWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewCSVSink(&buf, false)
	s.Instruction(InstructionEvent{Mnemonic: "HLT", Opcode: 0xF4, Len: 1})
	s.Instruction(InstructionEvent{Mnemonic: "HLT", Opcode: 0xF4, Len: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "cs,ip,mnemonic,opcode,len,flags", lines[0])
}

func TestCSVSinkCycleModeIgnoresInstructionEvents(t *testing.T) {
	var buf bytes.Buffer
	s := NewCSVSink(&buf, true)
	s.Instruction(InstructionEvent{})
	assert.Zero(t, buf.Len())

	s.Cycle(CycleEvent{State: "CODE"})
	assert.True(t, strings.HasPrefix(buf.String(), "cycle,state,"))
}

func TestFetchEmitsTStatesThroughSink(t *testing.T) {
	var buf bytes.Buffer
	c := &CPU{sink: NewCSVSink(&buf, true)}
	c.Reset()
	c.CS, c.IP = 0, 0
	bus := NewBus()
	bus.WriteByte(0, 0xF4, 0) // HLT
	c.Step(bus)

	out := buf.String()
	for _, st := range []string{"T1", "T2", "T3", "T4"} {
		assert.Contains(t, out, ","+st+",")
	}
}
