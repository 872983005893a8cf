// queue.go - 8088 prefetch instruction queue (PIQ)
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// queueSize is the physical PIQ depth on the 8088 BIU: 4 bytes, fetched
// one byte at a time (the 8086 uses a 6-byte queue fetched two bytes at
// a time; this core only models the 8-bit bus part).
const queueSize = 4

// fetchWidth is the number of bytes a single code-fetch bus cycle adds to
// the queue. On the 8088 this is always 1 (8-bit external data bus).
const fetchWidth = 1

// instructionQueue is a ring buffer of prefetched opcode bytes. It never
// reorders bytes: front is the next byte the EU will consume, back is
// where the BIU pushes newly fetched bytes.
type instructionQueue struct {
	buf     [queueSize]byte
	len     int
	front   int
	back    int
	preload byte
	hasPre  bool
}

// canFetch reports whether the BIU may issue another code-fetch bus cycle
// without overflowing the queue.
func (q *instructionQueue) canFetch() bool {
	return q.len+fetchWidth <= queueSize
}

// push appends one freshly fetched byte. Callers must check canFetch first;
// push panics on overflow since that would indicate a BIU policy bug, not a
// reachable machine state.
func (q *instructionQueue) push(b byte) {
	if q.len >= queueSize {
		panic("pcxt: instruction queue overflow")
	}
	q.buf[q.back] = b
	q.back = (q.back + 1) % queueSize
	q.len++
}

// pop removes and returns the oldest byte. ok is false if the queue (and
// any preloaded byte) is empty.
func (q *instructionQueue) pop() (b byte, ok bool) {
	if q.hasPre {
		q.hasPre = false
		return q.preload, true
	}
	if q.len == 0 {
		return 0, false
	}
	b = q.buf[q.front]
	q.front = (q.front + 1) % queueSize
	q.len--
	return b, true
}

// peekPreload consumes a byte from the front of the queue into the preload
// slot without delivering it to the EU yet; used when the BIU has a byte
// ready one cycle before the EU asks for it.
func (q *instructionQueue) peekPreload() bool {
	if q.hasPre || q.len == 0 {
		return false
	}
	q.preload = q.buf[q.front]
	q.front = (q.front + 1) % queueSize
	q.len--
	q.hasPre = true
	return true
}

// flush empties the queue and drops any preloaded byte. Idempotent: a
// second call on an already-empty queue leaves identical state.
func (q *instructionQueue) flush() {
	q.len = 0
	q.front = 0
	q.back = 0
	q.hasPre = false
	q.preload = 0
}

// length reports the number of bytes available to the EU, including a
// preloaded byte.
func (q *instructionQueue) length() int {
	n := q.len
	if q.hasPre {
		n++
	}
	return n
}

// full reports whether the queue (preload included) holds as many bytes
// as it ever can.
func (q *instructionQueue) full() bool {
	return q.length() >= queueSize
}
