// machine.go - top-level PC/XT machine lifecycle: build, reset, run
//
// Machine glues a CPU and a bus together behind Build/Reset/Run and
// exposes a small host-facing surface for peripherals: CGA/PIT/PIC/DMA/
// PPI devices, keyboard and mouse input, and disk attachment.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

const (
	biosROMBase = 0xFE000
	biosROMSize = 0x2000 // 8KB, the PC/XT's single BIOS ROM socket size

	ramSize = 0xA0000 // 640KB conventional memory
)

// MachineConfig selects the ROM image a Machine is built with, the trace
// sink it reports through, and the memory-refresh schedule. Disk images
// are not part of it; they are attached after Build with AttachFloppy/
// AttachHDD. Every field is resolved once at Build time; nothing here is
// mutable afterward.
type MachineConfig struct {
	BIOSImage []byte
	Sink      TraceSink

	RefreshEnabled     bool
	RefreshPeriodTicks int
	RefreshStealTicks  int
}

// Machine owns the CPU, the bus, and every installed device, and is the
// only type host code (including cmd/pcxttrace) interacts with directly.
type Machine struct {
	cpu *CPU
	bus *Bus

	cga *CGACard
	pit *PIT
	pic *PIC
	dma *DMA8237
	ppi *PPI8255

	mouse *SerialMouse

	floppyImage []byte
	hddImage    []byte
	hddGeometry DriveGeometry

	sink TraceSink
}

// Build validates cfg and wires a complete machine: BIOS ROM ending at
// 0xFFFFF (0xFE000-0xFFFFF for a full 8KB image), CGA at 0xB8000-0xBBFFF and ports 0x3D0-0x3DC, PIT at
// 0x40-0x43, PIC at 0x20-0x21, two DMA page/base blocks, and the PPI at
// 0x60-0x63, then seals the bus.
func Build(cfg MachineConfig) (*Machine, error) {
	if len(cfg.BIOSImage) == 0 {
		return nil, newConfigError("BIOSImage", "must not be empty")
	}
	if len(cfg.BIOSImage) > biosROMSize {
		return nil, newConfigError("BIOSImage", "size %d exceeds %d-byte ROM socket", len(cfg.BIOSImage), biosROMSize)
	}

	sink := cfg.Sink
	if sink == nil {
		sink = NopSink{}
	}

	bus := NewBus()
	bus.sink = sink

	romStart := uint32(0x100000 - len(cfg.BIOSImage))
	if err := bus.InstallROM(romStart, cfg.BIOSImage); err != nil {
		return nil, err
	}

	cga := NewCGACard()
	cga.sink = sink
	if err := bus.InstallDevice(0xB8000, 0xBBFFF, cga); err != nil {
		return nil, err
	}
	for _, p := range []uint16{0x3D0, 0x3D1, 0x3D2, 0x3D3, 0x3D4, 0x3D5,
		portModeControl, portColorControl, portStatus, portLightpenReset, portLightpenSet} {
		if err := bus.InstallPort(p, cga); err != nil {
			return nil, err
		}
	}

	pit := NewPIT()
	for p := uint16(0x40); p <= 0x43; p++ {
		if err := bus.InstallPort(p, pit); err != nil {
			return nil, err
		}
	}

	pic := NewPIC()
	if err := bus.InstallPort(0x20, pic); err != nil {
		return nil, err
	}
	if err := bus.InstallPort(0x21, pic); err != nil {
		return nil, err
	}

	dma := NewDMA8237()
	for p := uint16(0x00); p <= 0x0F; p++ {
		if err := bus.InstallPort(p, dma); err != nil {
			return nil, err
		}
	}
	for _, p := range []uint16{0x81, 0x82, 0x83, 0x87} {
		if err := bus.InstallPort(p, dma); err != nil {
			return nil, err
		}
	}

	ppi := NewPPI8255(pit)
	for p := uint16(0x60); p <= 0x63; p++ {
		if err := bus.InstallPort(p, ppi); err != nil {
			return nil, err
		}
	}

	bus.refresh = refreshScheduler{
		Enabled:     cfg.RefreshEnabled,
		PeriodTicks: cfg.RefreshPeriodTicks,
		StealTicks:  cfg.RefreshStealTicks,
	}

	bus.Seal()

	cpu := &CPU{sink: sink}
	cpu.Reset()

	m := &Machine{
		cpu: cpu, bus: bus,
		cga: cga, pit: pit, pic: pic, dma: dma, ppi: ppi,
		mouse: NewSerialMouse(),
		sink:  sink,
	}
	pit.OnChannelOutRise[0] = func() { m.pic.RaiseIRQ(0) }
	return m, nil
}

// Reset restores the CPU to its post-RESET register state without
// reinstalling devices or clearing RAM, matching a real machine's reset
// button (as opposed to a cold power cycle, which Build models).
func (m *Machine) Reset() {
	m.cpu.Reset()
}

// AttachFloppy stores a floppy image on the machine. No floppy
// controller or INT 13h service is modeled, so nothing in the core reads
// the image; no write-back or formatting is modeled either.
func (m *Machine) AttachFloppy(data []byte) error {
	if len(data) == 0 {
		return newConfigError("floppy image", "must not be empty")
	}
	m.floppyImage = data
	return nil
}

// AttachHDD loads a fixed-disk image and resolves its CHS geometry via
// ResolveGeometry, returning a ConfigError only if the image is empty.
func (m *Machine) AttachHDD(data []byte) error {
	if len(data) == 0 {
		return newConfigError("hdd image", "must not be empty")
	}
	m.hddImage = data
	m.hddGeometry = ResolveGeometry(int64(len(data)))
	return nil
}

// HDDGeometry reports the geometry resolved for the currently attached
// fixed-disk image.
func (m *Machine) HDDGeometry() DriveGeometry {
	return m.hddGeometry
}

// KeyPress delivers a raw XT keyboard scancode to the PPI, as if a key
// event arrived from the host.
func (m *Machine) KeyPress(scancode uint8) {
	m.ppi.PushScancode(scancode)
	m.pic.RaiseIRQ(1)
}

// KeyRelease delivers the XT "break code" for scancode (bit 7 set),
// matching how the real keyboard interface reports a key-up.
func (m *Machine) KeyRelease(scancode uint8) {
	m.ppi.PushScancode(scancode | 0x80)
	m.pic.RaiseIRQ(1)
}

// MouseUpdate feeds one sample from a host pointing device into the
// emulated Microsoft-protocol serial mouse. The resulting
// wire packet is queued; a serial-port consumer (outside this core's
// scope) is expected to drain it via DrainMousePacket.
func (m *Machine) MouseUpdate(lButton, rButton bool, dx, dy float32) {
	m.mouse.Update(lButton, rButton, dx, dy)
}

// DrainMousePacket returns the oldest queued mouse packet, if any.
func (m *Machine) DrainMousePacket() ([3]byte, bool) {
	return m.mouse.DrainPacket()
}

// GetVideoCard exposes the CGA card for framebuffer reads. idx is
// accepted for multi-card callers but this core only ever wires one
// video adapter, so any value returns the same card.
func (m *Machine) GetVideoCard(idx int) *CGACard {
	return m.cga
}

// RunOutcome reports why Run stopped.
type RunOutcome struct {
	Halted       bool
	OffRails     bool
	Instructions int
	Cycles       uint64
}

// Run steps the machine up to maxInstructions times, stopping early if
// the CPU halts (and has no pending interrupt to wake it) or the
// off-rails heuristic trips. It services the PIC's highest-priority
// pending line each instruction boundary, acknowledging it into the
// CPU's latch the way the 8088's INTA sequence would.
func (m *Machine) Run(maxInstructions int) RunOutcome {
	startCycles := m.cpu.Cycles
	i := 0
	for ; i < maxInstructions; i++ {
		if line, ok := m.pic.Pending(); ok {
			m.cpu.RequestIRQ(m.pic.Acknowledge(line))
		}
		res := m.cpu.Step(m.bus)
		if res.OffRails {
			return RunOutcome{OffRails: true, Instructions: i + 1, Cycles: m.cpu.Cycles - startCycles}
		}
		if m.cpu.Halted && !m.cpu.irqPending && !m.cpu.nmiPending {
			return RunOutcome{Halted: true, Instructions: i + 1, Cycles: m.cpu.Cycles - startCycles}
		}
	}
	return RunOutcome{Instructions: i, Cycles: m.cpu.Cycles - startCycles}
}
