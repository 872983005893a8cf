// trace.go - injected trace sink for cycle/instruction/device logging
//
// The core holds no global logger; everything it reports flows through
// a sink injected at Build time. ConsoleSink colors its output with
// fatih/color.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// CycleEvent is emitted once per CPU clock (one BIU T-state) to whatever
// sink is installed; ConsoleSink and CSVSink drop it unless configured
// for cycle output.
type CycleEvent struct {
	Cycle    uint64
	State    string
	Addr     uint32
	Data     byte
	QueueLen int
	Flags    uint16
}

// InstructionEvent is emitted once per retired instruction.
type InstructionEvent struct {
	CS, IP   uint16
	Mnemonic string
	Opcode   uint8
	Len      int
	Flags    uint16
}

// DeviceLogEvent carries a free-form device diagnostic (unmapped port
// write, CRTC register programmed to an odd value, etc).
type DeviceLogEvent struct {
	Device  string
	Message string
}

// TraceSink receives structured trace events. The core never formats a
// string on the hot path itself; it only calls these methods, so a NopSink
// costs nothing beyond an interface call that immediately returns.
type TraceSink interface {
	Cycle(CycleEvent)
	Instruction(InstructionEvent)
	Device(DeviceLogEvent)
}

// NopSink discards every event; the default when no trace is configured.
type NopSink struct{}

func (NopSink) Cycle(CycleEvent)             {}
func (NopSink) Instruction(InstructionEvent) {}
func (NopSink) Device(DeviceLogEvent)        {}

// ConsoleSink renders colorized, column-aligned trace lines to w. Color
// is governed by the color package's own color.NoColor detection, which
// looks at the process's standard output and environment, not at w.
type ConsoleSink struct {
	w             io.Writer
	mnemonicColor *color.Color
	deviceColor   *color.Color
	TraceCycles   bool
}

// NewConsoleSink builds a ConsoleSink writing to w. Set traceCycles to
// also emit one line per CPU clock (T-state); otherwise only instruction and device
// events are printed.
func NewConsoleSink(w io.Writer, traceCycles bool) *ConsoleSink {
	return &ConsoleSink{
		w:             w,
		mnemonicColor: color.New(color.FgCyan, color.Bold),
		deviceColor:   color.New(color.FgYellow),
		TraceCycles:   traceCycles,
	}
}

func (s *ConsoleSink) Cycle(e CycleEvent) {
	if !s.TraceCycles {
		return
	}
	fmt.Fprintf(s.w, "%8d %-4s addr=%05X data=%02X q=%d flags=%04X\n",
		e.Cycle, e.State, e.Addr, e.Data, e.QueueLen, e.Flags)
}

func (s *ConsoleSink) Instruction(e InstructionEvent) {
	mnemonic := s.mnemonicColor.Sprintf("%-14s", e.Mnemonic)
	fmt.Fprintf(s.w, "%04X:%04X %s op=%02X len=%d flags=%04X\n",
		e.CS, e.IP, mnemonic, e.Opcode, e.Len, e.Flags)
}

func (s *ConsoleSink) Device(e DeviceLogEvent) {
	fmt.Fprintf(s.w, "%s %s\n", s.deviceColor.Sprintf("[%s]", e.Device), e.Message)
}

// CSVSink writes one line per event with a self-documenting header row,
// for offline analysis. perCycle selects one line per CPU clock
// (cycle number, T-state, address, data, queue length, flags) instead of
// one line per retired instruction.
type CSVSink struct {
	w           io.Writer
	perCycle    bool
	wroteHeader bool
}

// NewCSVSink builds a CSVSink writing to w.
func NewCSVSink(w io.Writer, perCycle bool) *CSVSink {
	return &CSVSink{w: w, perCycle: perCycle}
}

func (s *CSVSink) header() {
	if s.wroteHeader {
		return
	}
	s.wroteHeader = true
	if s.perCycle {
		fmt.Fprintln(s.w, "cycle,state,addr,data,queue_len,flags")
	} else {
		fmt.Fprintln(s.w, "cs,ip,mnemonic,opcode,len,flags")
	}
}

func (s *CSVSink) Cycle(e CycleEvent) {
	if !s.perCycle {
		return
	}
	s.header()
	fmt.Fprintf(s.w, "%d,%s,%05X,%02X,%d,%04X\n",
		e.Cycle, e.State, e.Addr, e.Data, e.QueueLen, e.Flags)
}

func (s *CSVSink) Instruction(e InstructionEvent) {
	if s.perCycle {
		return
	}
	s.header()
	fmt.Fprintf(s.w, "%04X,%04X,%s,%02X,%d,%04X\n",
		e.CS, e.IP, e.Mnemonic, e.Opcode, e.Len, e.Flags)
}

func (s *CSVSink) Device(e DeviceLogEvent) {}
