// biu.go - Bus Interface Unit: T-state machine and prefetch scheduling
//
// The BIU is modeled as an explicit state machine rather than a
// goroutine: every call to cycle advances it by exactly one T-state, so
// prefetch overlaps whatever the EU is doing cycle for cycle. Prefetch
// suspension is a plain countdown field, decremented once per idle
// cycle, not a channel or timer.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// tstate names one phase of a bus cycle.
type tstate int

const (
	tIdle tstate = iota
	tT1
	tT2
	tT3
	tTw
	tT4
)

func (t tstate) String() string {
	switch t {
	case tT1:
		return "T1"
	case tT2:
		return "T2"
	case tT3:
		return "T3"
	case tTw:
		return "Tw"
	case tT4:
		return "T4"
	}
	return "Ti"
}

// biuState is the BIU's own state, separate from the EU-visible register
// file so CPU can embed it without register-field collisions. addr and
// data belong to the in-flight code fetch: addr is latched at T1, data
// at the end of T3.
type biuState struct {
	state tstate

	// pc is the address of the next byte the BIU will fetch; it runs
	// ahead of CPU.IP by the number of bytes already queued.
	pc uint16

	addr uint32
	data byte

	// fetchSuspendCountdown models "fetch-suspended" sub-state entered
	// after a flush: prefetch does not resume until it reaches zero.
	fetchSuspendCountdown int

	waitRemaining int
}

// fetchSuspendCycles is the number of cycles prefetch stays suspended
// after a queue flush, matching the documented 8088 refill delay before
// the BIU can drive a new address following a branch.
const fetchSuspendCycles = 4

// policyThreshold is the queue-length at/below which the BIU will start
// a new code fetch. On the 8086 the 6-byte queue refills at 2 or below
// because fetches are word-wide; the 8088 fetches one byte at a time
// and tops its 4-byte queue up at 3.
const policyThreshold = 3

func (s *biuState) reset() {
	*s = biuState{}
}

func (s *biuState) flush(newPC uint16) {
	s.pc = newPC
	s.state = tIdle
	s.waitRemaining = 0
	s.fetchSuspendCountdown = fetchSuspendCycles
}

// cycle advances the machine by exactly one CPU clock. Order within the
// cycle: BIU state update, then clockDivisor system ticks of device
// time, then the data phase (T3) or queue update (T4) the current
// T-state owns. Ops charge their time by calling cycle/cycles inline;
// prefetch makes progress during every one of those cycles.
func (c *CPU) cycle(bus *Bus, clockDivisor int) {
	b := &c.biu

	// BIU state update: an idle BIU starts a code fetch when prefetch
	// isn't suspended and the queue is at or below the refill threshold.
	st := b.state
	if st == tIdle {
		if b.fetchSuspendCountdown > 0 {
			b.fetchSuspendCountdown--
		} else if c.queue.length() <= policyThreshold && c.queue.canFetch() {
			b.addr = linear(c.CS, b.pc)
			st = tT1
		}
	}

	irq := bus.Tick(clockDivisor)
	if irq.Asserted {
		c.irqPending = true
		c.irqVector = uint8(irq.Line)
	}

	switch st {
	case tT1:
		b.state = tT2
	case tT2:
		b.state = tT3
	case tT3:
		// Data phase: the fetched byte is valid at the end of T3. Wait
		// states demanded by the device or by refresh contention extend
		// the bus cycle with Tw states before T4.
		d, wait := bus.ReadByte(b.addr, 2*clockDivisor)
		b.data = d
		b.waitRemaining = wait + bus.RefreshWaitTicks()
		if b.waitRemaining > 0 {
			b.state = tTw
		} else {
			b.state = tT4
		}
	case tTw:
		b.waitRemaining--
		if b.waitRemaining <= 0 {
			b.state = tT4
		}
	case tT4:
		// Queue update: push the latched byte and advance the fetch PC.
		// Room was checked at T1 and the queue only drains in between,
		// so the push cannot overflow.
		c.queue.push(b.data)
		b.pc++
		b.state = tIdle
	}

	c.Cycles++
	if c.sink != nil {
		c.sink.Cycle(CycleEvent{
			Cycle: c.Cycles, State: st.String(), Addr: b.addr, Data: b.data,
			QueueLen: c.queue.length(), Flags: c.Flags,
		})
	}
}

// cycles charges n CPU clocks.
func (c *CPU) cycles(bus *Bus, clockDivisor, n int) {
	for i := 0; i < n; i++ {
		c.cycle(bus, clockDivisor)
	}
}

// nextOpcodeByte pulls one byte from the queue for the EU, spending
// cycles until the in-flight fetch delivers one if the queue is empty -
// the only point where the EU stalls on the BIU.
func (c *CPU) nextOpcodeByte(bus *Bus, clockDivisor int) byte {
	for {
		if b, ok := c.queue.pop(); ok {
			c.IP++
			return b
		}
		c.cycle(bus, clockDivisor)
	}
}

// flushQueue empties the PIQ, aborts any in-flight fetch, and restarts
// prefetch at newPC, used by every branch/interrupt/segment-modifying
// operation.
func (c *CPU) flushQueue(newPC uint16) {
	c.queue.flush()
	c.biu.flush(newPC)
}
