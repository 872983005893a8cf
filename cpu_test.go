package pcxt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCPU returns a CPU and a bare RAM bus with CS:IP at 0x0000:0x0000,
// used by every scenario below that doesn't need a full Machine.
func newTestCPU() (*CPU, *Bus) {
	c := &CPU{}
	c.Reset()
	c.CS = 0x0000
	c.IP = 0x0000
	bus := NewBus()
	return c, bus
}

func load(bus *Bus, addr uint32, bytes ...byte) {
	for i, b := range bytes {
		bus.WriteByte(addr+uint32(i), b, 0)
	}
}

// Reset determinism: CS:IP and FLAGS must match the documented
// post-RESET values exactly, every time.
func TestResetDeterminism(t *testing.T) {
	c := &CPU{AX: 0x1234, Flags: 0xFFFF}
	c.Reset()
	assert.Equal(t, uint16(0xFFFF), c.CS)
	assert.Equal(t, uint16(0x0000), c.IP)
	assert.Equal(t, flagsReservedOn, c.Flags)
	assert.Equal(t, uint16(0), c.AX)
	assert.Equal(t, 0, c.queue.length())
}

// DIV-by-zero dispatches through IVT vector 0, pushing FLAGS/CS/IP and
// clearing IF/TF, the same sequence every hardware/software interrupt uses.
func TestDivideErrorDispatchesVectorZero(t *testing.T) {
	c, bus := newTestCPU()
	// Install a divide-error handler at 0x1000:0x0000.
	load(bus, ivtEntry(vecDivideError), 0x00, 0x00, 0x00, 0x10)

	c.SetAL(10)
	c.SetAH(0)
	c.AX = 10
	c.setFlag(flagIF, true)
	// DIV BL (F6 /6), BL=0, placed at 0x0100:0000 so the code bytes do not
	// overwrite IVT entry 0 at linear 0.
	c.CS = 0x0100
	load(bus, linear(c.CS, 0), 0xF6, 0xF3) // mod=11 reg=110(/6=DIV) rm=011(BL)
	c.SetBL(0)

	c.Step(bus)

	assert.Equal(t, uint16(0x1000), c.CS)
	assert.Equal(t, uint16(0x0000), c.IP)
	assert.False(t, c.IF(), "interrupt dispatch must clear IF")
	assert.False(t, c.TF())
}

// REP MOVSB correctly wraps SI/DI within their 16-bit segment offset
// and copies exactly CX bytes even when the copy crosses a 0xFFFF boundary.
func TestRepMovsbWrapsSegmentOffset(t *testing.T) {
	c, bus := newTestCPU()
	c.DS, c.ES = 0x1000, 0x2000
	c.SI, c.DI = 0xFFFE, 0x0000
	c.CX = 4
	bus.WriteByte(linear(c.DS, 0xFFFE), 0xAA, 0)
	bus.WriteByte(linear(c.DS, 0xFFFF), 0xBB, 0)
	bus.WriteByte(linear(c.DS, 0x0000), 0xCC, 0)
	bus.WriteByte(linear(c.DS, 0x0001), 0xDD, 0)

	load(bus, 0, 0xF3, 0xA4) // REP MOVSB
	c.Step(bus)

	assert.Equal(t, uint16(0), c.CX)
	got := []byte{
		bus.mem[linear(c.ES, 0x0000)],
		bus.mem[linear(c.ES, 0x0001)],
		bus.mem[linear(c.ES, 0x0002)],
		bus.mem[linear(c.ES, 0x0003)],
	}
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, got)
}

// A JMP must flush the prefetch queue and resume fetching at the
// target, never executing a stale prefetched byte from the old stream.
func TestJmpFlushesPrefetchQueue(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0, 0xEB, 0x03) // JMP rel8 +3 -> lands at IP=5
	load(bus, 5, 0xF4)       // HLT
	load(bus, 2, 0x90, 0x90, 0x90) // NOPs the stale queue must not execute

	c.Step(bus) // JMP
	assert.Equal(t, uint16(5), c.IP)
	assert.Equal(t, 0, c.queue.length(), "flush must have discarded anything prefetched past the JMP")

	c.Step(bus) // HLT
	assert.True(t, c.Halted)
}

// DMA channel-0 refresh contention adds extra wait ticks to a fetch
// that overlaps the refresh window, without corrupting the fetched byte.
func TestRefreshContentionAddsWaitTicksToFetch(t *testing.T) {
	c, bus := newTestCPU()
	bus.refresh = refreshScheduler{Enabled: true, PeriodTicks: 1, StealTicks: 3}
	load(bus, 0, 0x90) // NOP
	before := c.Cycles
	c.Step(bus)
	after := c.Cycles
	assert.Greater(t, after-before, uint64(3), "refresh contention must lengthen the fetch beyond its base cycle count")
}

func TestSingleStepTrapFiresOneInstructionAfterSettingTF(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, ivtEntry(vecSingleStep), 0x00, 0x02, 0x00, 0x00)
	c.SP = 0x100
	c.Flags |= flagTF

	// TF was already set before this instruction ran, so it must trap
	// immediately afterward, landing at the handler we installed.
	load(bus, 0, 0x90) // NOP
	c.Step(bus)

	assert.Equal(t, uint16(0x0200), c.IP)
	require.False(t, c.TF(), "entering the handler must have cleared TF")
}

func TestSingleStepDoesNotTrapOnTheInstructionThatSetsTF(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, ivtEntry(vecSingleStep), 0x00, 0x02, 0x00, 0x00)
	c.SP = 0x100
	require.False(t, c.TF())

	// POPF loading a FLAGS value with TF set must not trap on itself.
	bus.writeWord(linear(c.SS, c.SP), flagTF|flagsReservedOn)
	load(bus, 0, 0x9D) // POPF
	c.Step(bus)

	assert.True(t, c.TF())
	assert.Equal(t, uint16(1), c.IP, "no trap should have been taken on the instruction that set TF")
}

func TestOffRailsHeuristicTripsAfterFiveZeroOpcodes(t *testing.T) {
	c, bus := newTestCPU()
	for i := uint32(0); i < offRailsThreshold; i++ {
		load(bus, i, 0x00)
	}
	bus.WriteByte(linear(c.DS, 0), 0, 0) // ADD [BX+SI],AL reads/writes through DS:0, harmless
	var res StepResult
	for i := 0; i < offRailsThreshold; i++ {
		res = c.Step(bus)
	}
	assert.True(t, res.OffRails)
}

func TestIncDecLeaveCarryUntouched(t *testing.T) {
	c, bus := newTestCPU()
	c.setFlag(flagCF, true)
	c.AX = 0xFFFF
	load(bus, 0, 0x40) // INC AX
	c.Step(bus)
	assert.Equal(t, uint16(0x0000), c.AX)
	assert.True(t, c.CF(), "INC must never clear or set CF")
}

// INT n must push FLAGS, CS, and the return IP (SP drops by 6), clear IF
// and TF, and load CS:IP from the four-byte IVT entry for the vector.
func TestIntNLoadsVectorAndPushesState(t *testing.T) {
	c, bus := newTestCPU()
	c.CS = 0x1000
	c.SP = 0x0100
	c.setFlag(flagIF, true)
	load(bus, ivtEntry(0), 0x34, 0x12, 0x78, 0x56)
	load(bus, linear(c.CS, 0), 0xCD, 0x00) // INT 0

	c.Step(bus)

	assert.Equal(t, uint16(0x5678), c.CS)
	assert.Equal(t, uint16(0x1234), c.IP)
	assert.Equal(t, uint16(0x00FA), c.SP, "FLAGS, CS, and IP make three pushes")
	assert.False(t, c.IF())
	assert.False(t, c.TF())
	// Return frame, innermost first: IP past the INT, then the old CS.
	assert.Equal(t, uint16(2), bus.readWord(linear(c.SS, 0x00FA)))
	assert.Equal(t, uint16(0x1000), bus.readWord(linear(c.SS, 0x00FC)))
}

// A sustained 1-byte instruction stream is fetch-bound: each opcode byte
// needs one full T1-T4 bus cycle to arrive over the 8-bit bus, and the
// EU's own execution time for NOP hides entirely behind that fetch.
// Intel's tables quote NOP at 3 clocks of EU time, but no stream of
// 1-byte instructions can run faster than one bus cycle apiece, so
// sustained throughput is exactly 4 cycles per NOP.
func TestNopThroughputIsFetchBoundAtFourCycles(t *testing.T) {
	c, bus := newTestCPU()
	for i := uint32(0); i < 2048; i++ {
		bus.WriteByte(i, 0x90, 0)
	}
	// Settle past any reset/prefetch transient.
	for i := 0; i < 8; i++ {
		c.Step(bus)
	}
	start := c.Cycles
	const n = 1000
	for i := 0; i < n; i++ {
		require.Equal(t, 4, c.Step(bus).CyclesSpent)
	}
	assert.InDelta(t, 4.0, float64(c.Cycles-start)/n, 0.01)
}
