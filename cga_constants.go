// cga_constants.go - port and register constants for the CGA card
//
// The CRTC address/data port pair is mirrored three times across
// 0x3D0-0x3D5 because, within 0x3D0-0x3D7, the card decodes only address
// bit 0 for the CRTC, and
// the mode/color/status/lightpen ports sit at fixed offsets above that.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

const (
	portCRTCRegisterMask = 0x007 // low 3 bits ignored when matching the CRTC block; bit 0 picks index/data

	portModeControl    = 0x3D8
	portColorControl   = 0x3D9
	portStatus         = 0x3DA
	portLightpenReset  = 0x3DB
	portLightpenSet    = 0x3DC
)

// crtcRegister indexes the 18-register Motorola 6845-compatible CRTC.
type crtcRegister uint8

const (
	crtcHorizontalTotal crtcRegister = iota
	crtcHorizontalDisplayed
	crtcHorizontalSyncPos
	crtcSyncWidth
	crtcVerticalTotal
	crtcVerticalTotalAdjust
	crtcVerticalDisplayed
	crtcVerticalSyncPos
	crtcInterlaceMode
	crtcMaxScanlineAddr
	crtcCursorStart
	crtcCursorEnd
	crtcStartAddressH
	crtcStartAddressL
	crtcCursorAddressH
	crtcCursorAddressL
	crtcLightpenH
	crtcLightpenL
	crtcRegisterCount
)

// Mode control register bits (port 0x3D8).
const (
	modeCtrlText80Col   = 1 << 0
	modeCtrlGraphics    = 1 << 1
	modeCtrlMonoPalette = 1 << 2
	modeCtrlEnableVideo = 1 << 3
	modeCtrl640Mono     = 1 << 4
	modeCtrlBlink       = 1 << 5
)

// Status register bits (port 0x3DA, read-only).
const (
	statusHRetrace        = 1 << 0
	statusLightpenTrigger = 1 << 1
	statusLightpenSwitch  = 1 << 2
	statusVRetrace        = 1 << 3
)

// DisplayMode enumerates the rendering modes the card can produce, used
// by callers of TextFramebuffer/GraphicsFramebuffer to know how to
// interpret the raw bytes.
type DisplayMode int

const (
	ModeText40 DisplayMode = iota
	ModeText80
	ModeGraphics320x200x4
	ModeGraphics640x200x2
)
