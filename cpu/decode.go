package cpu

// r8ByIndex maps the 3-bit register field used throughout the primary
// and CB-prefixed opcode tables: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
// Index 6 is handled by the caller, since it costs an extra bus cycle
// instead of being a plain register access.
var r8ByIndex = [8]R8{B, C, D, E, H, L, 0xFF, A}

const indirectHL = 6

// opcodeBuilder decodes one already-fetched opcode byte into its
// instruction. It runs during the fetch's own machine cycle, so any
// work it performs directly (rather than queuing as a step) is "free"
// register-only work layered onto that cycle — never an extra bus op.
type opcodeBuilder func(c *CPU) *instruction

// primaryTable and cbTable are populated by package init() functions
// spread across the opcodes_*.go files, one entry per defined opcode.
// Entries left unset fall through to illegalInstruction.
var primaryTable [256]opcodeBuilder
var cbTable [256]opcodeBuilder

// decodeOpcode builds the instruction for a freshly fetched primary opcode.
func decodeOpcode(c *CPU, opcode uint8) *instruction {
	if build := primaryTable[opcode]; build != nil {
		return build(c)
	}
	return illegalInstruction(c, opcode)
}

func decodeCB(c *CPU, opcode uint8) *instruction {
	if build := cbTable[opcode]; build != nil {
		return build(c)
	}
	// Every CB-prefixed byte is defined; this is unreachable.
	return illegalInstruction(c, opcode)
}

func illegalInstruction(c *CPU, opcode uint8) *instruction {
	pc := c.GetR16(PC) - 1
	c.faultInvalidOpcode(opcode, pc)
	return &instruction{mnemonic: "ILLEGAL"}
}

// done finishes an instruction synchronously, in the fetch's own machine
// cycle. Used for every 1-M-cycle register-only opcode.
func done(name string) *instruction {
	return &instruction{mnemonic: name}
}

// beat is one machine cycle's worth of plain work: at most one bus
// access, no branching. seq chains a list of beats into the step-chain
// for the machine cycles following the opcode fetch.
type beat func(c *CPU)

func seq(name string, beats ...beat) *instruction {
	return &instruction{mnemonic: name, current: seqStep(beats)}
}

func seqStep(beats []beat) step {
	if len(beats) == 0 {
		return nil
	}
	return func(c *CPU) step {
		beats[0](c)
		return seqStep(beats[1:])
	}
}

// custom wraps a hand-written step chain (used by branching instructions:
// conditional jumps/calls/returns, RST, CALL, RET, RETI, PUSH, POP).
func custom(name string, first step) *instruction {
	return &instruction{mnemonic: name, current: first}
}
