// cga_render.go - decodes CGA memory into a caller-usable framebuffer
//
// Kept separate from cga.go's timing/port logic: this file only turns
// display RAM bytes into indexed pixels, it never touches the CRTC
// counters.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

// cgaPalette holds the 16 RGB entries used by text-mode attribute bytes
// and the fixed 4-color graphics palette selections.
var cgaPalette = [16][3]uint8{
	{0x00, 0x00, 0x00}, {0x00, 0x00, 0xAA}, {0x00, 0xAA, 0x00}, {0x00, 0xAA, 0xAA},
	{0xAA, 0x00, 0x00}, {0xAA, 0x00, 0xAA}, {0xAA, 0x55, 0x00}, {0xAA, 0xAA, 0xAA},
	{0x55, 0x55, 0x55}, {0x55, 0x55, 0xFF}, {0x55, 0xFF, 0x55}, {0x55, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55}, {0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0x55}, {0xFF, 0xFF, 0xFF},
}

// TextCell is one character-position's decoded glyph and attribute.
type TextCell struct {
	Char  uint8
	Fg    uint8
	Bg    uint8
	Blink bool
}

// TextFramebuffer decodes the card's memory as interleaved char/attr
// pairs starting at its CRTC start address, for the 40 or 80 column
// text modes.
func (c *CGACard) TextFramebuffer() []TextCell {
	cols := 80
	if c.DisplayMode() == ModeText40 {
		cols = 40
	}
	rows := int(c.crtc[crtcVerticalDisplayed])
	if rows == 0 {
		rows = 25
	}
	cells := make([]TextCell, cols*rows)
	start := (uint16(c.crtc[crtcStartAddressH])<<8 | uint16(c.crtc[crtcStartAddressL])) * 2
	for i := range cells {
		off := (start + uint16(i*2)) % cgaMemSize
		ch := c.mem[off]
		attr := c.mem[(off+1)%cgaMemSize]
		cells[i] = TextCell{
			Char:  ch,
			Fg:    attr & 0x0F,
			Bg:    (attr >> 4) & 0x07,
			Blink: attr&0x80 != 0 && c.modeCtrl&modeCtrlBlink != 0,
		}
	}
	return cells
}

// GraphicsFramebuffer decodes 320x200x4 or 640x200x2 graphics memory
// into one byte per pixel, holding a palette index (0-3) or a mono bit
// (0-1), following CGA's interleaved even/odd scanline memory layout
// (scanline N lives at offset N/2*80 + (0x2000 if N is odd)).
func (c *CGACard) GraphicsFramebuffer() []uint8 {
	mode := c.DisplayMode()
	var width, height, bitsPerPixel int
	switch mode {
	case ModeGraphics320x200x4:
		width, height, bitsPerPixel = 320, 200, 2
	case ModeGraphics640x200x2:
		width, height, bitsPerPixel = 640, 200, 1
	default:
		return nil
	}
	pixelsPerByte := 8 / bitsPerPixel
	stride := width / pixelsPerByte
	out := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		bankBase := 0
		if y%2 == 1 {
			bankBase = 0x2000
		}
		rowBase := bankBase + (y/2)*stride
		for x := 0; x < width; x++ {
			byteIdx := (rowBase + x/pixelsPerByte) % cgaMemSize
			b := c.mem[byteIdx]
			shift := uint(8 - bitsPerPixel - (x%pixelsPerByte)*bitsPerPixel)
			mask := uint8(1<<bitsPerPixel) - 1
			out[y*width+x] = (b >> shift) & mask
		}
	}
	return out
}

// FrameBuffer identifies which of the card's twin buffers a caller
// wants from GetBuf.
type FrameBuffer int

const (
	FrameBufferFront FrameBuffer = iota
	FrameBufferBack
)

// GetDisplayExtents reports the framebuffer's fixed pixel dimensions.
// Lower-resolution modes render into the same backing store at native
// pixel pitch rather than a mode-dependent buffer size, so callers always
// see cgaFBWidth x cgaFBHeight regardless of DisplayMode.
func (c *CGACard) GetDisplayExtents() (width, height int) {
	return cgaFBWidth, cgaFBHeight
}

// GetBuf returns the requested indexed-color framebuffer. Front is only
// ever replaced wholesale at a vsync-boundary swap (renderFrameToBack),
// so a caller reading it mid-frame never observes a partial write.
func (c *CGACard) GetBuf(which FrameBuffer) []uint8 {
	if which == FrameBufferFront {
		return c.front
	}
	return c.back
}

// GetPalette returns the 16-entry RGB palette text-mode attributes and
// the fixed CGA colors index into.
func (c *CGACard) GetPalette() [16][3]uint8 {
	return cgaPalette
}

// GetBeamPos reports the CRTC's last-recorded raster beam coordinate in
// character units: (HCC, VCC), the character column and character row.
func (c *CGACard) GetBeamPos() (x, y int) {
	return c.beamX, c.beamY
}

// PaletteRGB resolves a 4-color graphics palette index to RGB using the
// color control register's palette-select and intensity bits.
func (c *CGACard) PaletteRGB(index uint8) [3]uint8 {
	if index == 0 {
		bg := c.colorCtrl & 0x0F
		return cgaPalette[bg]
	}
	intensity := c.colorCtrl&0x10 != 0
	altPalette := c.colorCtrl&0x20 != 0
	var colorIdx uint8
	switch {
	case altPalette && index == 1:
		colorIdx = 3 // cyan
	case altPalette && index == 2:
		colorIdx = 5 // magenta
	case altPalette && index == 3:
		colorIdx = 7 // white
	case index == 1:
		colorIdx = 2 // green
	case index == 2:
		colorIdx = 4 // red
	default:
		colorIdx = 6 // brown/yellow
	}
	if intensity {
		colorIdx += 8
	}
	return cgaPalette[colorIdx]
}
