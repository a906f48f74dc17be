// Package cpu implements the Sharp LR35902 instruction engine: register
// file, ALU helpers, and a micro-step dispatch core for the primary and
// CB-prefixed opcode tables. Every instruction is decomposed into one
// closure per machine cycle, so the driver can call Step once per
// 4-clock m-cycle and have memory accesses, interrupts and timer/DMA
// housekeeping all land on the correct boundary.
package cpu

import "github.com/tholt-dev/gbcore/addr"

// Bus is the capability set the CPU needs from the rest of the system.
// Kept as an interface (rather than a concrete struct reference) so
// tests can substitute a flat-memory implementation without compile-time
// flags.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	// ReadInterruptState returns the live IF and IE registers directly,
	// bypassing any bus-level access gating (e.g. OAM DMA). Interrupt
	// detection is an internal CPU-core concern: a DMA conflict only
	// restricts instruction/operand fetches, never this check.
	ReadInterruptState() (ifReg, ieReg uint8)
	// ClearInterruptFlag clears a single IF bit directly, bypassing the
	// same gating.
	ClearInterruptFlag(bit uint8)
}

// IMEState models the three-state Interrupt Master Enable flag. EI
// schedules the flag to flip on *after* the instruction following EI
// itself completes; DI clears it immediately.
type IMEState uint8

const (
	IMEDisabled IMEState = iota
	IMEScheduled
	IMEEnabled
)

// Mode is the CPU's run mode.
type Mode uint8

const (
	ModeRunning Mode = iota
	ModeHalted
	ModeStopped
	// ModeInvalidOpcode is entered when an illegal opcode is fetched; it
	// behaves like a permanent halt with a recorded offending byte/PC for
	// diagnostics.
	ModeInvalidOpcode
)

// step is one machine cycle's worth of work for the instruction currently
// in flight. It returns the next step, or nil if the instruction is
// complete after this cycle.
type step func(c *CPU) step

// instruction is a named, in-progress opcode execution.
type instruction struct {
	mnemonic string
	current  step
}

func (i *instruction) isComplete() bool {
	return i == nil || i.current == nil
}

// CPU holds the SM83 register file plus the state machines spec.md
// assigns to the instruction engine: IME, halted/stopped mode, and the
// HALT-bug latch.
type CPU struct {
	Registers

	bus Bus

	ime  IMEState
	mode Mode

	current *instruction

	// haltBugPending causes the next fetch to *not* advance PC, so the
	// opcode at PC is executed twice, reproducing the documented
	// HALT-with-pending-interrupt-and-IME-disabled quirk.
	haltBugPending bool

	invalidOpcode    uint8
	invalidOpcodePC  uint16

	// IF/IE are bus-resident registers; the CPU reads them through Bus
	// rather than caching them, since the timer/joypad/serial/PPU
	// collaborators latch IF independently between CPU steps.
}

// New creates a CPU wired to the given bus, in the post-boot-ROM running
// state expected once the overlay retires. Callers driving a cold boot
// through the embedded boot ROM should call ResetAtPowerOn after New.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.ResetPostBoot()
	return c
}

// ResetPostBoot sets the register file to the documented DMG post-boot
// values, as if the boot ROM had just handed off control.
func (c *CPU) ResetPostBoot() {
	c.SetR16(AF, 0x01B0)
	c.SetR16(BC, 0x0013)
	c.SetR16(DE, 0x00D8)
	c.SetR16(HL, 0x014D)
	c.SetR16(SP, 0xFFFE)
	c.SetR16(PC, 0x0100)
	c.ime = IMEDisabled
	c.mode = ModeRunning
	c.current = nil
}

// ResetAtPowerOn zeroes the register file and parks PC at 0x0000 so the
// boot ROM overlay (mapped by the bus while FF50==0) runs from its reset
// vector.
func (c *CPU) ResetAtPowerOn() {
	c.Registers = Registers{}
	c.SetR16(SP, 0x0000)
	c.SetR16(PC, 0x0000)
	c.ime = IMEDisabled
	c.mode = ModeRunning
	c.current = nil
}

// Mode reports the CPU's current run mode.
func (c *CPU) Mode() Mode { return c.mode }

// IME reports the current Interrupt Master Enable state.
func (c *CPU) IME() IMEState { return c.ime }

// InvalidOpcode returns the offending byte and PC recorded when the CPU
// faulted on an illegal opcode, plus whether that ever happened.
func (c *CPU) InvalidOpcode() (opcode uint8, pc uint16, ok bool) {
	return c.invalidOpcode, c.invalidOpcodePC, c.mode == ModeInvalidOpcode
}

// Step advances the CPU by exactly one machine cycle (4 clocks). The
// caller is responsible for running timer/DMA housekeeping before this
// call, per the ordering spec.md §5 requires.
//
// Opcode fetch is itself a bus read, so it is always the first machine
// cycle "spent" on an instruction: installing a freshly decoded
// instruction never also runs its first queued step in the same call.
// Interrupt-service installation performs no bus access to begin, so its
// first (idle) step runs in the same call that installs it.
func (c *CPU) Step() {
	if c.current.isComplete() {
		consumedFetch := c.beginNextInstruction()
		if consumedFetch || c.current.isComplete() {
			return
		}
		next := c.current.current(c)
		c.current.current = next
		return
	}

	next := c.current.current(c)
	c.current.current = next
}

func (c *CPU) pendingInterrupt() (addr.Interrupt, bool) {
	ifReg, ieReg := c.bus.ReadInterruptState()
	active := ifReg & ieReg & 0x1F
	if active == 0 {
		return 0, false
	}
	for _, in := range addr.AllInterrupts {
		if active&(1<<in.Bit()) != 0 {
			return in, true
		}
	}
	return 0, false
}

// beginNextInstruction installs whatever runs next (interrupt service,
// continued halt/stop/fault idling, or a freshly decoded opcode) and
// reports whether doing so already performed the opcode-fetch bus read
// for this machine cycle.
//
// The pending-interrupt dispatch check below must run against the
// pre-promotion IME value, and promoteScheduledIME must run only *after*
// that check, so EI's scheduled enable takes effect starting with the
// boundary following the instruction immediately after EI — never the
// boundary that fetches that instruction itself. See scheduleEI.
func (c *CPU) beginNextInstruction() (consumedFetch bool) {
	if in, pending := c.pendingInterrupt(); pending {
		if c.mode == ModeHalted || c.mode == ModeStopped {
			c.mode = ModeRunning
		}
		if c.ime == IMEEnabled {
			c.bus.ClearInterruptFlag(in.Bit())
			c.ime = IMEDisabled
			c.current = newInterruptServiceInstruction(in)
			return false
		}
	}

	c.promoteScheduledIME()

	if c.mode == ModeHalted || c.mode == ModeStopped || c.mode == ModeInvalidOpcode {
		c.current = nil
		return false
	}

	opcode := c.fetchOpcode()
	c.current = decodeOpcode(c, opcode)
	return true
}

// promoteScheduledIME promotes a scheduled EI enable to active, once the
// instruction-boundary dispatch check for this Step has already run
// against the pre-promotion value. Called once per instruction boundary,
// from beginNextInstruction.
func (c *CPU) promoteScheduledIME() {
	if c.ime == IMEScheduled {
		c.ime = IMEEnabled
	}
}

// fetchOpcode reads the byte at PC. Under the HALT-bug condition PC is
// not advanced, so the same byte is fetched (and executed) twice.
func (c *CPU) fetchOpcode() uint8 {
	pc := c.GetR16(PC)
	opcode := c.bus.Read(pc)
	if c.haltBugPending {
		c.haltBugPending = false
		return opcode
	}
	c.SetR16(PC, pc+1)
	return opcode
}

// readImmediate8 fetches one immediate byte at PC, advancing PC.
func (c *CPU) readImmediate8() uint8 {
	pc := c.GetR16(PC)
	v := c.bus.Read(pc)
	c.SetR16(PC, pc+1)
	return v
}

// scheduleEI arranges for IME to become enabled only after the
// instruction immediately following EI has executed: that instruction's
// own dispatch check still sees IME as not-yet-enabled, so it always
// runs before the first interrupt EI admits can be serviced.
func (c *CPU) scheduleEI() {
	if c.ime != IMEEnabled {
		c.ime = IMEScheduled
	}
}

func (c *CPU) disableIME() {
	c.ime = IMEDisabled
}

// enterHalt puts the CPU in the low-power halted state. If IME is
// disabled and an interrupt is already pending at this instant, the
// well-known HALT bug arms: the next opcode fetch won't advance PC, so
// it executes twice.
func (c *CPU) enterHalt() {
	if c.ime != IMEEnabled {
		if _, pending := c.pendingInterrupt(); pending {
			c.haltBugPending = true
			return
		}
	}
	c.mode = ModeHalted
}

func (c *CPU) enterStop() {
	c.mode = ModeStopped
}

func (c *CPU) faultInvalidOpcode(opcode uint8, pc uint16) {
	c.invalidOpcode = opcode
	c.invalidOpcodePC = pc
	c.mode = ModeInvalidOpcode
}
