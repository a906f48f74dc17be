// Package memory implements the address bus: region decode, the
// boot-ROM overlay, OAM DMA with its access-gating rule, echo-RAM
// mirroring, the prohibited region, and I/O register sub-dispatch.
package memory

import (
	"log/slog"

	"github.com/tholt-dev/gbcore/addr"
	"github.com/tholt-dev/gbcore/bit"
	"github.com/tholt-dev/gbcore/cartridge"
	"github.com/tholt-dev/gbcore/input"
	"github.com/tholt-dev/gbcore/serial"
	"github.com/tholt-dev/gbcore/video"
)

// Bus is the concrete memory bus wired to a real cartridge and the rest
// of the system-on-chip collaborators. It satisfies cpu.Bus.
type Bus struct {
	mapper cartridge.Mapper

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte
	ie   uint8
	ifr  uint8

	// audio is plain read/write storage for NR10-NR52 and wave RAM; no
	// synthesis is performed (spec.md Non-goals).
	audio [0x30]byte

	Timer  *Timer
	PPU    *video.PPU
	Serial *serial.Port
	Joypad *input.Joypad

	dma *dmaEngine

	bootROM       []byte
	bootROMActive bool

	logger *slog.Logger
}

// New builds a bus around the given cartridge mapper and boot ROM image.
// Pass a nil bootROM to start already past the overlay (post-boot mode).
func New(mapper cartridge.Mapper, bootROM []byte) *Bus {
	b := &Bus{
		mapper:        mapper,
		Timer:         NewTimer(),
		PPU:           video.New(),
		Serial:        serial.New(nil),
		Joypad:        input.New(),
		dma:           newDMAEngine(),
		bootROM:       bootROM,
		bootROMActive: len(bootROM) > 0,
		logger:        slog.Default(),
	}
	b.Timer.RequestInterrupt = func() { b.RequestInterrupt(addr.Timer) }
	b.Serial.RequestInterrupt = func() { b.RequestInterrupt(addr.Serial) }
	b.PPU.RequestVBlank = func() { b.RequestInterrupt(addr.VBlank) }
	b.PPU.RequestLCDStat = func() { b.RequestInterrupt(addr.LCDStat) }
	return b
}

// RequestInterrupt sets the given interrupt's bit in IF.
func (b *Bus) RequestInterrupt(in addr.Interrupt) {
	b.ifr = bit.Set(in.Bit(), b.ifr)
}

// Tick runs one machine cycle of timer, OAM DMA and PPU housekeeping.
// The caller (the emulator aggregate) must call this before letting the
// CPU's Step perform its own bus operation for the cycle, per spec.md
// §5's ordering guarantee.
func (b *Bus) Tick() (vblankEdge bool) {
	b.Timer.Tick()
	b.tickDMA()
	b.Serial.Tick()
	return b.PPU.Tick()
}

func (b *Bus) tickDMA() {
	if !b.dma.Active() {
		return
	}
	sourceAddr := b.dma.SourceBase() + uint16(b.dma.Index())
	value := b.readRaw(sourceAddr)
	offset, _ := b.dma.Advance()
	b.oam[offset] = value
}

// Read implements cpu.Bus.
func (b *Bus) Read(address uint16) uint8 {
	if b.dmaGated(address) {
		return b.readRaw(b.dma.SourceBase() + uint16(b.dma.Index()))
	}
	return b.readRaw(address)
}

// Write implements cpu.Bus.
func (b *Bus) Write(address uint16, value uint8) {
	if b.dmaGated(address) {
		return
	}
	b.writeRaw(address, value)
}

func (b *Bus) dmaGated(address uint16) bool {
	return b.dma.Active() && (address < addr.HRAMStart || address > addr.HRAMEnd)
}

// ReadInterruptState implements cpu.Bus. IF and IE are read directly off
// their backing fields rather than through Read, so interrupt detection
// is never subject to dmaGated: an in-flight OAM DMA restricts the CPU's
// instruction/operand fetches, not its own interrupt logic.
func (b *Bus) ReadInterruptState() (ifReg, ieReg uint8) {
	return b.ifr | 0xE0, b.ie
}

// ClearInterruptFlag implements cpu.Bus, clearing a single IF bit
// directly off the backing field for the same reason.
func (b *Bus) ClearInterruptFlag(irqBit uint8) {
	b.ifr = bit.Reset(irqBit, b.ifr)
}

func (b *Bus) readRaw(address uint16) uint8 {
	switch {
	case address <= 0x00FF && b.bootROMActive:
		return b.bootROM[address]
	case address <= 0x7FFF:
		return b.mapper.ReadROM(address)
	case address <= 0x9FFF:
		return b.vram[address-0x8000]
	case address <= 0xBFFF:
		return b.mapper.ReadRAM(address)
	case address <= 0xDFFF:
		return b.wram[address-0xC000]
	case address <= 0xFDFF:
		return b.wram[address-0xE000]
	case address <= 0xFE9F:
		return b.oam[address-0xFE00]
	case address <= 0xFEFF:
		return 0xFF
	case address <= 0xFF7F:
		return b.readIO(address)
	case address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default: // 0xFFFF
		return b.ie
	}
}

func (b *Bus) writeRaw(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.mapper.WriteROM(address, value)
	case address <= 0x9FFF:
		b.vram[address-0x8000] = value
	case address <= 0xBFFF:
		b.mapper.WriteRAM(address, value)
	case address <= 0xDFFF:
		b.wram[address-0xC000] = value
	case address <= 0xFDFF:
		b.wram[address-0xE000] = value
	case address <= 0xFE9F:
		b.oam[address-0xFE00] = value
	case address <= 0xFEFF:
		// Prohibited region: writes silently dropped.
	case address <= 0xFF7F:
		b.writeIO(address, value)
	case address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default: // 0xFFFF
		b.ie = value
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.SB || address == addr.SC:
		return b.Serial.Read(address)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return b.Timer.Read(address)
	case address == addr.IF:
		return b.ifr | 0xE0
	case address >= addr.AudioStart && address <= addr.WaveRAMEnd:
		return b.audio[address-addr.AudioStart]
	case address >= addr.LCDC && address <= addr.WX:
		if address == addr.DMA {
			return uint8(b.dma.SourceBase() >> 8)
		}
		return b.PPU.Read(address)
	case address == addr.BootROMControl:
		if b.bootROMActive {
			return 0x00
		}
		return 0x01
	default:
		return 0xFF
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.Joypad.Write(value)
	case address == addr.SB || address == addr.SC:
		b.Serial.Write(address, value)
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		b.Timer.Write(address, value)
	case address == addr.IF:
		b.ifr = value & 0x1F
	case address >= addr.AudioStart && address <= addr.WaveRAMEnd:
		b.audio[address-addr.AudioStart] = value
	case address == addr.DMA:
		b.dma.Start(value)
	case address >= addr.LCDC && address <= addr.WX:
		b.PPU.Write(address, value)
	case address == addr.BootROMControl:
		if value != 0 {
			b.bootROMActive = false
		}
	}
}

// LatchInput applies a fresh joypad snapshot, raising the Joypad
// interrupt on a falling edge per input.Joypad.Latch.
func (b *Bus) LatchInput(s input.Snapshot) {
	if b.Joypad.Latch(s) {
		b.RequestInterrupt(addr.Joypad)
	}
}
