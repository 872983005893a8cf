// cga.go - IBM Color/Graphics Adapter: CRTC register file, timing
// counters, and port-level I/O decoding
//
// Within 0x3D0-0x3D7 the card decodes only port bit 0 for the 6845 CRTC,
// so the address/data register pair is mirrored across that range. The
// horizontal/vertical counter scheme (HCC/VCC/VLC/VMA) follows the
// 6845's internal counters, advanced once per character clock.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

const cgaMemSize = 0x4000 // 16KB CGA memory; the card reduces addresses modulo 16KB

// CGACard is the Color/Graphics Adapter as fitted to the machine's
// MMIO/port space at B8000h and 0x3D0-0x3DC.
type CGACard struct {
	mem [cgaMemSize]byte

	crtc        [crtcRegisterCount]uint8
	crtcIndex   uint8
	modeCtrl    uint8
	colorCtrl   uint8
	statusLatch uint8

	hcc  uint16 // horizontal character counter
	vcc  uint16 // vertical character (row) counter
	vlc  uint8  // vertical line (scanline within a row) counter
	vma  uint16 // video memory address (start-of-row latch)
	hrtc bool
	vrtc bool

	// inAdjust/adjustCount model the vertical_total_adjust extra
	// scanlines a real 6845 inserts after the last full row, before VCC
	// and VLC both reset to 0.
	inAdjust    bool
	adjustCount uint8

	dotCycles uint64

	beamX, beamY int
	front, back  []uint8 // indexed-color framebuffers, cgaFBWidth*cgaFBHeight each
	lightPenX    int
	lightPenY    int

	snowCounter int
	sink        TraceSink
}

// cgaFBWidth/cgaFBHeight bound the framebuffers at the card's largest
// supported resolution (640x200 mono graphics); lower-resolution modes
// are rendered into the same backing store at their native pixel pitch.
const (
	cgaFBWidth  = 640
	cgaFBHeight = 200
)

// NewCGACard returns a card reset to 80-column text mode, matching the
// IBM BIOS's default mode-3 programming after POST.
func NewCGACard() *CGACard {
	c := &CGACard{
		front: make([]uint8, cgaFBWidth*cgaFBHeight),
		back:  make([]uint8, cgaFBWidth*cgaFBHeight),
	}
	c.crtc[crtcHorizontalTotal] = 113
	c.crtc[crtcHorizontalDisplayed] = 80
	c.crtc[crtcHorizontalSyncPos] = 90
	c.crtc[crtcVerticalTotal] = 31
	c.crtc[crtcVerticalDisplayed] = 25
	c.crtc[crtcVerticalSyncPos] = 28
	c.crtc[crtcMaxScanlineAddr] = 7
	c.modeCtrl = modeCtrlText80Col | modeCtrlEnableVideo
	return c
}

// ReadByte/WriteByte implement MMIODevice; addresses are reduced modulo
// the card's 16KB, so every 16KB window mapped to the card (Build maps
// only B8000-BBFFF) sees the same memory, and a
// write racing the beam during active display steals a cycle ("snow"),
// approximated here as a fixed one-tick penalty rather than a pixel-
// accurate corruption model.
func (c *CGACard) ReadByte(addr uint32, delta int) (byte, int) {
	off := addr % cgaMemSize
	return c.mem[off], 0
}

func (c *CGACard) WriteByte(addr uint32, v byte, delta int) int {
	off := addr % cgaMemSize
	c.mem[off] = v
	wait := 0
	if c.inActiveDisplay() {
		c.snowCounter++
		wait = 1
	}
	return wait
}

func (c *CGACard) inActiveDisplay() bool {
	return !c.hrtc && !c.vrtc && c.modeCtrl&modeCtrlEnableVideo != 0
}

// Tick advances the card's internal dot clock by n system ticks,
// walking the HCC/VCC/VLC counters the way a real 6845 does, and
// raising hrtc/vrtc at the programmed sync positions.
func (c *CGACard) Tick(n int) {
	c.dotCycles += uint64(n)
	for ; n > 0; n-- {
		c.beamX = int(c.hcc)

		c.hcc++
		total := uint16(c.crtc[crtcHorizontalTotal]) + 1
		if total == 0 {
			total = 1
		}
		if c.hcc >= uint16(c.crtc[crtcHorizontalSyncPos]) &&
			c.hcc < uint16(c.crtc[crtcHorizontalSyncPos])+uint16(c.crtc[crtcSyncWidth]&0x0F) {
			c.hrtc = true
		} else {
			c.hrtc = false
		}
		if c.hcc >= total {
			c.hcc = 0
			c.advanceRow()
		}
	}
}

func (c *CGACard) advanceRow() {
	wasVRTC := c.vrtc

	if c.inAdjust {
		c.adjustCount++
		if c.adjustCount >= c.crtc[crtcVerticalTotalAdjust] {
			c.inAdjust = false
			c.adjustCount = 0
			c.vcc = 0
			c.vlc = 0
			c.vma = 0
		}
	} else {
		maxScan := uint8(c.crtc[crtcMaxScanlineAddr]&0x1F) + 1
		c.vlc++
		if c.vlc >= maxScan {
			c.vlc = 0
			c.vcc++
			vTotal := uint16(c.crtc[crtcVerticalTotal]) + 1
			if c.vcc >= vTotal {
				if c.crtc[crtcVerticalTotalAdjust] > 0 {
					c.inAdjust = true
					c.adjustCount = 0
				} else {
					c.vcc = 0
					c.vma = 0
				}
			}
		}
	}

	if c.vcc >= uint16(c.crtc[crtcVerticalSyncPos]) {
		c.vrtc = true
	} else {
		c.vrtc = false
	}
	// Rising edge of vsync marks the end of the visible frame: the back
	// buffer just finished receiving every row the raster pass decoded
	// below, so the swap to front is atomic from a reader's perspective;
	// Front never shows a partially-written frame.
	if c.vrtc && !wasVRTC {
		c.renderFrameToBack()
		c.front, c.back = c.back, c.front
	}
	c.beamY = int(c.vcc)
}

// renderFrameToBack decodes the whole visible raster in one pass at the
// vsync boundary using the same indexed-color decode TextFramebuffer/
// GraphicsFramebuffer expose, rather than accumulating pixels tick by
// tick. This is an approximation of a character-clock-by-character-clock
// raster. Graphics modes are copied pixel for pixel. Text modes fill each
// character cell solidly with its foreground color index: glyph shapes,
// the background color, blink and the cursor are not drawn. The
// frame-boundary double-buffer swap is exact; intra-frame partial redraw
// is not visible, since Front is only ever replaced between swaps.
func (c *CGACard) renderFrameToBack() {
	for i := range c.back {
		c.back[i] = 0
	}
	switch c.DisplayMode() {
	case ModeText40, ModeText80:
		cells := c.TextFramebuffer()
		cols := 80
		if c.DisplayMode() == ModeText40 {
			cols = 40
		}
		cellW := cgaFBWidth / cols
		rows := len(cells) / cols
		cellH := cgaFBHeight / rows
		if cellH == 0 {
			cellH = 1
		}
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				cell := cells[row*cols+col]
				for dy := 0; dy < cellH; dy++ {
					y := row*cellH + dy
					if y >= cgaFBHeight {
						continue
					}
					for dx := 0; dx < cellW; dx++ {
						x := col*cellW + dx
						if x >= cgaFBWidth {
							continue
						}
						c.back[y*cgaFBWidth+x] = cell.Fg
					}
				}
			}
		}
	default:
		pix := c.GraphicsFramebuffer()
		if len(pix) == 0 {
			return
		}
		width := cgaFBWidth
		if c.DisplayMode() == ModeGraphics320x200x4 {
			width = 320
		}
		scaleX := cgaFBWidth / width
		if scaleX == 0 {
			scaleX = 1
		}
		for i, v := range pix {
			srcX := i % width
			srcY := i / width
			if srcY >= cgaFBHeight {
				continue
			}
			for sx := 0; sx < scaleX; sx++ {
				x := srcX*scaleX + sx
				if x < cgaFBWidth {
					c.back[srcY*cgaFBWidth+x] = v
				}
			}
		}
	}
}

// In/Out implement PortDevice across the whole 0x3D0-0x3DC aperture.
// Within 0x3D0-0x3D7 only port bit 0 selects the CRTC index (even) or
// data (odd) register, so the pair is mirrored on every even/odd port pair.
func (c *CGACard) In(port uint16, delta int) (byte, int) {
	switch {
	case port&^portCRTCRegisterMask == 0x3D0 && port&1 == 0 && port < portModeControl:
		return c.crtcIndex, 0
	case port&^portCRTCRegisterMask == 0x3D0 && port&1 == 1 && port < portModeControl:
		return c.readCRTC(), 0
	case port == portModeControl:
		return c.modeCtrl, 0
	case port == portColorControl:
		return c.colorCtrl, 0
	case port == portStatus:
		return c.readStatus(), 0
	}
	return 0xFF, 0
}

func (c *CGACard) Out(port uint16, v byte, delta int) {
	switch {
	case port&^portCRTCRegisterMask == 0x3D0 && port&1 == 0 && port < portModeControl:
		c.crtcIndex = v & 0x1F
	case port&^portCRTCRegisterMask == 0x3D0 && port&1 == 1 && port < portModeControl:
		c.writeCRTC(v)
	case port == portModeControl:
		c.modeCtrl = v
	case port == portColorControl:
		c.colorCtrl = v
	case port == portLightpenSet:
		c.crtc[crtcLightpenH] = uint8(c.lightPenY >> 8 & 0x3F)
		c.crtc[crtcLightpenL] = uint8(c.lightPenY)
		c.statusLatch |= statusLightpenTrigger
	case port == portLightpenReset:
		c.statusLatch &^= statusLightpenTrigger
	}
}

// LightPenTrigger latches the character address of (x, y), computed as
// y*HorizontalDisplayed+x, into the CRTC's lightpen registers, as if a
// physical light pen fired there.
// Real hardware only latches correctly
// when the pen is strobed while the beam is actually at that position;
// callers are expected to trigger in response to observing GetBeamPos.
func (c *CGACard) LightPenTrigger(x, y int) {
	c.lightPenX, c.lightPenY = x, y
	addr := uint16(y*int(c.crtc[crtcHorizontalDisplayed]) + x)
	c.crtc[crtcLightpenH] = uint8(addr >> 8 & 0x3F)
	c.crtc[crtcLightpenL] = uint8(addr)
	c.statusLatch |= statusLightpenTrigger
}

func (c *CGACard) readCRTC() byte {
	if c.crtcIndex >= uint8(crtcRegisterCount) {
		return 0xFF
	}
	return c.crtc[c.crtcIndex]
}

func (c *CGACard) writeCRTC(v byte) {
	if c.crtcIndex >= uint8(crtcRegisterCount) {
		if c.sink != nil {
			c.sink.Device(DeviceLogEvent{Device: "cga", Message: "CRTC index out of range"})
		}
		return
	}
	c.crtc[c.crtcIndex] = v
}

// readStatus composes the live retrace bits with the latched light-pen
// trigger bit.
func (c *CGACard) readStatus() byte {
	var v byte
	if c.hrtc {
		v |= statusHRetrace
	}
	if c.vrtc {
		v |= statusVRetrace
	}
	// bit 0 also mirrors into the "safe CRT access" polling idiom of
	// BIOS video code, OR'd with vrtc per the real 6845 wiring on CGA.
	if c.hrtc || c.vrtc {
		v |= statusHRetrace
	}
	v |= c.statusLatch & statusLightpenTrigger
	return v
}

// DisplayMode reports the mode implied by the current mode-control
// register, for framebuffer decoding by the renderer.
func (c *CGACard) DisplayMode() DisplayMode {
	switch {
	case c.modeCtrl&modeCtrlGraphics == 0:
		if c.modeCtrl&modeCtrlText80Col != 0 {
			return ModeText80
		}
		return ModeText40
	case c.modeCtrl&modeCtrl640Mono != 0:
		return ModeGraphics640x200x2
	default:
		return ModeGraphics320x200x4
	}
}

// VSyncing reports whether the card is currently in vertical retrace,
// the condition BIOS mode-switch code polls the status port for.
func (c *CGACard) VSyncing() bool {
	return c.vrtc
}

// SnowEvents returns and resets the count of display-time write
// collisions recorded since the last call, for test assertions.
func (c *CGACard) SnowEvents() int {
	n := c.snowCounter
	c.snowCounter = 0
	return n
}
