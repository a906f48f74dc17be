// Package gbcore is the root aggregate: it wires a loaded cartridge, the
// address bus and its collaborators (timer, OAM DMA, PPU shim, serial
// shim, joypad), and the CPU instruction engine into the driver API
// spec.md §6 describes (new/step/run_frame/reset/bus.read/bus.write).
package gbcore

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tholt-dev/gbcore/cartridge"
	"github.com/tholt-dev/gbcore/cpu"
	"github.com/tholt-dev/gbcore/input"
	"github.com/tholt-dev/gbcore/memory"
)

// FrameResult reports what a single RunFrame call advanced through.
type FrameResult struct {
	Cycles        uint64
	Frame         uint64
	InvalidOpcode bool
}

// Emulator is the root struct and entry point for running the core.
type Emulator struct {
	cpu *cpu.CPU
	bus *memory.Bus

	cart    *cartridge.Cartridge
	bootROM []byte

	cycleCount uint64
	frameCount uint64
}

// New loads the ROM (and, if given, a boot ROM override) named by cfg
// from disk and constructs an Emulator around them.
func New(cfg Config) (*Emulator, error) {
	romData, err := os.ReadFile(cfg.ROMPath)
	if err != nil {
		return nil, fmt.Errorf("gbcore: reading ROM: %w", err)
	}

	cart, err := cartridge.Load(romData)
	if err != nil {
		return nil, fmt.Errorf("gbcore: loading cartridge: %w", err)
	}
	slog.Debug("cartridge loaded", "title", cart.Header.Title, "mapper", cart.Header.Mapper, "rom_bytes", len(romData))

	bootROM := defaultBootROM
	if cfg.BootROMPath != "" {
		data, err := os.ReadFile(cfg.BootROMPath)
		if err != nil {
			return nil, fmt.Errorf("gbcore: reading boot ROM: %w", err)
		}
		bootROM = data
	}

	return newEmulator(cart, bootROM), nil
}

// NewWithCartridge builds an Emulator around an already-parsed
// cartridge and boot ROM image, skipping file I/O — the path tests and
// benchmarks use.
func NewWithCartridge(cart *cartridge.Cartridge, bootROM []byte) *Emulator {
	return newEmulator(cart, bootROM)
}

func newEmulator(cart *cartridge.Cartridge, bootROM []byte) *Emulator {
	e := &Emulator{cart: cart, bootROM: bootROM}
	e.bus = memory.New(cart.Mapper, bootROM)
	e.cpu = cpu.New(e.bus)
	if len(bootROM) > 0 {
		e.cpu.ResetAtPowerOn()
	}
	return e
}

// Reset performs a cold boot: the bus and CPU are rebuilt from scratch
// and the boot ROM overlay re-engages, exactly as if power had just been
// applied.
func (e *Emulator) Reset() {
	e.bus = memory.New(e.cart.Mapper, e.bootROM)
	e.cpu = cpu.New(e.bus)
	if len(e.bootROM) > 0 {
		e.cpu.ResetAtPowerOn()
	}
	e.cycleCount, e.frameCount = 0, 0
	slog.Debug("emulator reset")
}

// Step advances the system by exactly one machine cycle: bus
// housekeeping (timer, OAM DMA, PPU) runs first, then the CPU performs
// its own at-most-one bus operation for the cycle, per the ordering
// spec.md §5 requires.
func (e *Emulator) Step() {
	e.bus.Tick()
	e.cpu.Step()
	e.cycleCount++
}

// RunFrame advances until the PPU signals a VBlank edge, latching the
// given input snapshot into the joypad once per machine cycle.
func (e *Emulator) RunFrame(in input.Snapshot) FrameResult {
	startCycles := e.cycleCount
	for {
		e.bus.LatchInput(in)
		vblank := e.bus.Tick()
		e.cpu.Step()
		e.cycleCount++

		if opcode, pc, faulted := e.cpu.InvalidOpcode(); faulted {
			slog.Error("illegal opcode", "opcode", fmt.Sprintf("0x%02X", opcode), "pc", fmt.Sprintf("0x%04X", pc))
			return FrameResult{Cycles: e.cycleCount - startCycles, Frame: e.frameCount, InvalidOpcode: true}
		}
		if vblank {
			break
		}
	}

	e.frameCount++
	if e.frameCount%60 == 0 {
		slog.Debug("frame completed", "frame", e.frameCount, "cycles", e.cycleCount)
	}
	return FrameResult{Cycles: e.cycleCount - startCycles, Frame: e.frameCount}
}

// Read exposes the bus for debugging and test harnesses.
func (e *Emulator) Read(address uint16) uint8 { return e.bus.Read(address) }

// Write exposes the bus for debugging and test harnesses.
func (e *Emulator) Write(address uint16, value uint8) { e.bus.Write(address, value) }

// CPU exposes the instruction engine for debugging and test harnesses.
func (e *Emulator) CPU() *cpu.CPU { return e.cpu }

// SetPixelRowHook wires a callback invoked once per scanline with the
// row index that just finished its Draw phase. This core never supplies
// pixel data (the pipeline is an explicit non-goal); the hook exists so
// an external renderer can still track scanline timing.
func (e *Emulator) SetPixelRowHook(fn func(line uint8)) {
	e.bus.PPU.OnRow = fn
}

// Cartridge exposes the parsed header for display purposes.
func (e *Emulator) Cartridge() *cartridge.Cartridge { return e.cart }
