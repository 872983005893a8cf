// serialize.go - fixed-layout binary snapshot of CPU + bus state
//
// A version byte followed by big-endian fields in a fixed order,
// with no reflection or self-describing framing. Snapshotting the 1MB
// address space in full (rather than diffing against ROM) keeps the
// format simple at the cost of a larger blob.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const snapshotVersion = 1

// Snapshot captures the machine's full architectural state: general and
// segment registers, flags, the prefetch queue, BIU timing state, and
// the entire 1MB bus address space. Device state (CGA/PIT/PIC/DMA/PPI)
// is intentionally excluded from v1.
func (m *Machine) Snapshot(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte(snapshotVersion)

	c := m.cpu
	regs := []uint16{c.AX, c.BX, c.CX, c.DX, c.SP, c.BP, c.SI, c.DI,
		c.CS, c.DS, c.SS, c.ES, c.IP, c.Flags}
	for _, r := range regs {
		binary.Write(&buf, binary.BigEndian, r)
	}
	buf.WriteByte(boolByte(c.Halted))
	binary.Write(&buf, binary.BigEndian, c.Cycles)

	binary.Write(&buf, binary.BigEndian, uint8(c.queue.len))
	binary.Write(&buf, binary.BigEndian, uint8(c.queue.front))
	binary.Write(&buf, binary.BigEndian, uint8(c.queue.back))
	buf.Write(c.queue.buf[:])
	buf.WriteByte(boolByte(c.queue.hasPre))
	buf.WriteByte(c.queue.preload)

	binary.Write(&buf, binary.BigEndian, uint8(c.biu.state))
	binary.Write(&buf, binary.BigEndian, c.biu.pc)
	binary.Write(&buf, binary.BigEndian, c.biu.addr)
	buf.WriteByte(c.biu.data)
	binary.Write(&buf, binary.BigEndian, int32(c.biu.fetchSuspendCountdown))
	binary.Write(&buf, binary.BigEndian, int32(c.biu.waitRemaining))

	buf.Write(m.bus.mem[:])

	_, err := w.Write(buf.Bytes())
	return err
}

// Restore reads a Snapshot written by m.Snapshot back into m, replacing
// its CPU and bus memory contents in place. Installed MMIO/port devices
// are left untouched; only raw RAM/ROM bytes are restored.
func (m *Machine) Restore(r io.Reader) error {
	br := bufReader{r}
	version, err := br.readByte()
	if err != nil {
		return err
	}
	if version != snapshotVersion {
		return fmt.Errorf("pcxt: snapshot version %d unsupported (want %d)", version, snapshotVersion)
	}

	c := m.cpu
	regs := [14]*uint16{&c.AX, &c.BX, &c.CX, &c.DX, &c.SP, &c.BP, &c.SI, &c.DI,
		&c.CS, &c.DS, &c.SS, &c.ES, &c.IP, &c.Flags}
	for _, r := range regs {
		if err := br.readBE(r); err != nil {
			return err
		}
	}
	halted, err := br.readByte()
	if err != nil {
		return err
	}
	c.Halted = halted != 0
	if err := br.readBE(&c.Cycles); err != nil {
		return err
	}

	var qlen, qfront, qback uint8
	if err := br.readBE(&qlen); err != nil {
		return err
	}
	if err := br.readBE(&qfront); err != nil {
		return err
	}
	if err := br.readBE(&qback); err != nil {
		return err
	}
	c.queue.len, c.queue.front, c.queue.back = int(qlen), int(qfront), int(qback)
	if _, err := io.ReadFull(br.r, c.queue.buf[:]); err != nil {
		return err
	}
	hasPre, err := br.readByte()
	if err != nil {
		return err
	}
	c.queue.hasPre = hasPre != 0
	preload, err := br.readByte()
	if err != nil {
		return err
	}
	c.queue.preload = preload

	var state uint8
	if err := br.readBE(&state); err != nil {
		return err
	}
	c.biu.state = tstate(state)
	if err := br.readBE(&c.biu.pc); err != nil {
		return err
	}
	if err := br.readBE(&c.biu.addr); err != nil {
		return err
	}
	data, err := br.readByte()
	if err != nil {
		return err
	}
	c.biu.data = data
	var suspend, wait int32
	if err := br.readBE(&suspend); err != nil {
		return err
	}
	if err := br.readBE(&wait); err != nil {
		return err
	}
	c.biu.fetchSuspendCountdown = int(suspend)
	c.biu.waitRemaining = int(wait)

	if _, err := io.ReadFull(br.r, m.bus.mem[:]); err != nil {
		return err
	}
	return nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// bufReader is a tiny helper so Restore's many sequential reads don't
// each repeat the same error-check boilerplate for single bytes.
type bufReader struct {
	r io.Reader
}

func (b bufReader) readByte() (byte, error) {
	var tmp [1]byte
	if _, err := io.ReadFull(b.r, tmp[:]); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

func (b bufReader) readBE(v any) error {
	return binary.Read(b.r, binary.BigEndian, v)
}
