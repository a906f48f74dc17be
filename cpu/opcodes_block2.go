package cpu

import "github.com/tholt-dev/gbcore/bit"

// This file covers 0xC0-0xFF: conditional/unconditional control flow
// (RET/JP/CALL/RST), PUSH/POP, the immediate-operand ALU row, DI/EI,
// the LDH forms, ADD SP,i8 / LD HL,SP+i8, LD (a16),A / LD A,(a16),
// JP HL, LD SP,HL and the CB-prefix dispatch. Opcodes left unassigned
// here (D3 DB DD E3 E4 EB EC ED F4 FC FD) fall through to
// illegalInstruction via decodeOpcode's table lookup.

var retConds = map[uint8]func(c *CPU) bool{
	0xC0: func(c *CPU) bool { return !c.GetFlag(flagZ) }, // RET NZ
	0xC8: func(c *CPU) bool { return c.GetFlag(flagZ) },  // RET Z
	0xD0: func(c *CPU) bool { return !c.GetFlag(flagC) }, // RET NC
	0xD8: func(c *CPU) bool { return c.GetFlag(flagC) },  // RET C
}

func init() {
	// RET cc — 2 M-cycles not taken, 5 taken.
	for op, cond := range retConds {
		cond := cond
		primaryTable[op] = func(c *CPU) *instruction {
			return custom("RET cc", func(c *CPU) step {
				if !cond(c) {
					return nil
				}
				return func(c *CPU) step {
					lo := c.bus.Read(c.GetR16(SP))
					c.SetR16(SP, c.GetR16(SP)+1)
					return func(c *CPU) step {
						hi := c.bus.Read(c.GetR16(SP))
						c.SetR16(SP, c.GetR16(SP)+1)
						return func(c *CPU) step {
							c.SetR16(PC, bit.Combine(hi, lo))
							return nil
						}
					}
				}
			})
		}
	}

	// RET — 4 M-cycles.
	primaryTable[0xC9] = func(c *CPU) *instruction {
		return seqPopPC("RET", func(c *CPU, pc uint16) { c.SetR16(PC, pc) })
	}

	// RETI — 4 M-cycles, also re-enables IME immediately (not scheduled).
	primaryTable[0xD9] = func(c *CPU) *instruction {
		return seqPopPC("RETI", func(c *CPU, pc uint16) {
			c.SetR16(PC, pc)
			c.ime = IMEEnabled
		})
	}

	jpConds := map[uint8]func(c *CPU) bool{
		0xC2: func(c *CPU) bool { return !c.GetFlag(flagZ) },
		0xCA: func(c *CPU) bool { return c.GetFlag(flagZ) },
		0xD2: func(c *CPU) bool { return !c.GetFlag(flagC) },
		0xDA: func(c *CPU) bool { return c.GetFlag(flagC) },
	}
	for op, cond := range jpConds {
		cond := cond
		primaryTable[op] = func(c *CPU) *instruction {
			var lo, hi uint8
			return custom("JP cc,a16", func(c *CPU) step {
				lo = c.readImmediate8()
				return func(c *CPU) step {
					hi = c.readImmediate8()
					if !cond(c) {
						return nil
					}
					return func(c *CPU) step {
						c.SetR16(PC, bit.Combine(hi, lo))
						return nil
					}
				}
			})
		}
	}

	primaryTable[0xC3] = func(c *CPU) *instruction {
		var lo, hi uint8
		return seq("JP a16",
			func(c *CPU) { lo = c.readImmediate8() },
			func(c *CPU) { hi = c.readImmediate8() },
			func(c *CPU) { c.SetR16(PC, bit.Combine(hi, lo)) },
		)
	}

	primaryTable[0xE9] = func(c *CPU) *instruction {
		c.SetR16(PC, c.GetR16(HL))
		return done("JP HL")
	}

	callConds := map[uint8]func(c *CPU) bool{
		0xC4: func(c *CPU) bool { return !c.GetFlag(flagZ) },
		0xCC: func(c *CPU) bool { return c.GetFlag(flagZ) },
		0xD4: func(c *CPU) bool { return !c.GetFlag(flagC) },
		0xDC: func(c *CPU) bool { return c.GetFlag(flagC) },
	}
	for op, cond := range callConds {
		cond := cond
		primaryTable[op] = func(c *CPU) *instruction {
			var target uint16
			return custom("CALL cc,a16", func(c *CPU) step {
				lo := c.readImmediate8()
				return func(c *CPU) step {
					hi := c.readImmediate8()
					target = bit.Combine(hi, lo)
					if !cond(c) {
						return nil
					}
					return func(c *CPU) step {
						return pushPCThenJump(c, target)
					}
				}
			})
		}
	}

	primaryTable[0xCD] = func(c *CPU) *instruction {
		var target uint16
		return custom("CALL a16", func(c *CPU) step {
			lo := c.readImmediate8()
			return func(c *CPU) step {
				hi := c.readImmediate8()
				target = bit.Combine(hi, lo)
				return func(c *CPU) step {
					return pushPCThenJump(c, target)
				}
			}
		})
	}

	rstTargets := map[uint8]uint16{
		0xC7: 0x00, 0xCF: 0x08, 0xD7: 0x10, 0xDF: 0x18,
		0xE7: 0x20, 0xEF: 0x28, 0xF7: 0x30, 0xFF: 0x38,
	}
	for op, target := range rstTargets {
		target := target
		primaryTable[op] = func(c *CPU) *instruction {
			return custom("RST", func(c *CPU) step {
				return pushPCThenJump(c, target)
			})
		}
	}

	pushPairs := map[uint8]R16{0xC5: BC, 0xD5: DE, 0xE5: HL, 0xF5: AF}
	for op, pair := range pushPairs {
		pair := pair
		primaryTable[op] = func(c *CPU) *instruction {
			return seq("PUSH r16",
				func(c *CPU) {},
				func(c *CPU) {
					v := c.GetR16(pair)
					c.SetR16(SP, c.GetR16(SP)-1)
					c.bus.Write(c.GetR16(SP), bit.High(v))
				},
				func(c *CPU) {
					v := c.GetR16(pair)
					c.SetR16(SP, c.GetR16(SP)-1)
					c.bus.Write(c.GetR16(SP), bit.Low(v))
				},
			)
		}
	}

	popPairs := map[uint8]R16{0xC1: BC, 0xD1: DE, 0xE1: HL, 0xF1: AF}
	for op, pair := range popPairs {
		pair := pair
		primaryTable[op] = func(c *CPU) *instruction {
			var lo uint8
			return seq("POP r16",
				func(c *CPU) {
					lo = c.bus.Read(c.GetR16(SP))
					c.SetR16(SP, c.GetR16(SP)+1)
				},
				func(c *CPU) {
					hi := c.bus.Read(c.GetR16(SP))
					c.SetR16(SP, c.GetR16(SP)+1)
					c.SetR16(pair, bit.Combine(hi, lo))
				},
			)
		}
	}

	// Immediate-operand ALU row: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,n8.
	immALU := []struct {
		op    uint8
		apply func(c *CPU, v uint8)
	}{
		{0xC6, func(c *CPU, v uint8) { r, f := add8(c.GetR8(A), v); c.SetR8(A, r); c.applyFlags(f) }},
		{0xCE, func(c *CPU, v uint8) { r, f := adc8(c.GetR8(A), v, c.GetFlag(flagC)); c.SetR8(A, r); c.applyFlags(f) }},
		{0xD6, func(c *CPU, v uint8) { r, f := sub8(c.GetR8(A), v); c.SetR8(A, r); c.applyFlags(f) }},
		{0xDE, func(c *CPU, v uint8) { r, f := sbc8(c.GetR8(A), v, c.GetFlag(flagC)); c.SetR8(A, r); c.applyFlags(f) }},
		{0xE6, func(c *CPU, v uint8) { r, f := and8(c.GetR8(A), v); c.SetR8(A, r); c.applyFlags(f) }},
		{0xEE, func(c *CPU, v uint8) { r, f := xor8(c.GetR8(A), v); c.SetR8(A, r); c.applyFlags(f) }},
		{0xF6, func(c *CPU, v uint8) { r, f := or8(c.GetR8(A), v); c.SetR8(A, r); c.applyFlags(f) }},
		{0xFE, func(c *CPU, v uint8) { c.applyFlags(cp8(c.GetR8(A), v)) }},
	}
	for _, e := range immALU {
		e := e
		primaryTable[e.op] = func(c *CPU) *instruction {
			return seq("ALU A,n8", func(c *CPU) { e.apply(c, c.readImmediate8()) })
		}
	}

	primaryTable[0xF3] = func(c *CPU) *instruction {
		c.disableIME()
		return done("DI")
	}
	primaryTable[0xFB] = func(c *CPU) *instruction {
		c.scheduleEI()
		return done("EI")
	}

	// LDH (a8),A / LDH A,(a8) — 3 M-cycles.
	primaryTable[0xE0] = func(c *CPU) *instruction {
		var a8 uint8
		return seq("LDH (a8),A",
			func(c *CPU) { a8 = c.readImmediate8() },
			func(c *CPU) { c.bus.Write(0xFF00|uint16(a8), c.GetR8(A)) },
		)
	}
	primaryTable[0xF0] = func(c *CPU) *instruction {
		var a8 uint8
		return seq("LDH A,(a8)",
			func(c *CPU) { a8 = c.readImmediate8() },
			func(c *CPU) { c.SetR8(A, c.bus.Read(0xFF00|uint16(a8))) },
		)
	}

	// LDH (C),A / LDH A,(C) — 2 M-cycles.
	primaryTable[0xE2] = func(c *CPU) *instruction {
		return seq("LD (C),A", func(c *CPU) { c.bus.Write(0xFF00|uint16(c.GetR8(C)), c.GetR8(A)) })
	}
	primaryTable[0xF2] = func(c *CPU) *instruction {
		return seq("LD A,(C)", func(c *CPU) { c.SetR8(A, c.bus.Read(0xFF00|uint16(c.GetR8(C)))) })
	}

	// ADD SP,i8 — 4 M-cycles: fetch imm, two internal cycles.
	primaryTable[0xE8] = func(c *CPU) *instruction {
		var imm int8
		return seq("ADD SP,i8",
			func(c *CPU) { imm = int8(c.readImmediate8()) },
			func(c *CPU) {},
			func(c *CPU) {
				result, f := addSPSigned(c.GetR16(SP), imm)
				c.SetR16(SP, result)
				c.applyFlags(f)
			},
		)
	}

	// LD HL,SP+i8 — 3 M-cycles: fetch imm, one internal cycle.
	primaryTable[0xF8] = func(c *CPU) *instruction {
		var imm int8
		return seq("LD HL,SP+i8",
			func(c *CPU) { imm = int8(c.readImmediate8()) },
			func(c *CPU) {
				result, f := addSPSigned(c.GetR16(SP), imm)
				c.SetR16(HL, result)
				c.applyFlags(f)
			},
		)
	}

	// LD SP,HL — 2 M-cycles, register only.
	primaryTable[0xF9] = func(c *CPU) *instruction {
		return seq("LD SP,HL", func(c *CPU) { c.SetR16(SP, c.GetR16(HL)) })
	}

	// LD (a16),A / LD A,(a16) — 4 M-cycles.
	primaryTable[0xEA] = func(c *CPU) *instruction {
		var lo, hi uint8
		return seq("LD (a16),A",
			func(c *CPU) { lo = c.readImmediate8() },
			func(c *CPU) { hi = c.readImmediate8() },
			func(c *CPU) { c.bus.Write(bit.Combine(hi, lo), c.GetR8(A)) },
		)
	}
	primaryTable[0xFA] = func(c *CPU) *instruction {
		var lo, hi uint8
		return seq("LD A,(a16)",
			func(c *CPU) { lo = c.readImmediate8() },
			func(c *CPU) { hi = c.readImmediate8() },
			func(c *CPU) { c.SetR8(A, c.bus.Read(bit.Combine(hi, lo))) },
		)
	}

	primaryTable[0xCB] = func(c *CPU) *instruction {
		return custom("CB", func(c *CPU) step {
			cbOpcode := c.readImmediate8()
			return decodeCB(c, cbOpcode).current
		})
	}
}

// seqPopPC builds the 4-M-cycle pop-PC-and-jump shape shared by RET/RETI.
func seqPopPC(name string, apply func(c *CPU, pc uint16)) *instruction {
	var lo uint8
	return seq(name,
		func(c *CPU) {},
		func(c *CPU) {
			lo = c.bus.Read(c.GetR16(SP))
			c.SetR16(SP, c.GetR16(SP)+1)
		},
		func(c *CPU) {
			hi := c.bus.Read(c.GetR16(SP))
			c.SetR16(SP, c.GetR16(SP)+1)
			apply(c, bit.Combine(hi, lo))
		},
	)
}

// pushPCThenJump implements the shared CALL/RST tail: push PC (high then
// low) and jump to target. It writes the high byte as part of the calling
// step's own cycle and returns the push-low step, which is followed by a
// final step that loads PC with target.
func pushPCThenJump(c *CPU, target uint16) step {
	pushLow := func(c *CPU) step {
		sp := c.GetR16(SP) - 1
		c.SetR16(SP, sp)
		c.bus.Write(sp, bit.Low(c.GetR16(PC)))
		return func(c *CPU) step {
			c.SetR16(PC, target)
			return nil
		}
	}
	sp := c.GetR16(SP) - 1
	c.SetR16(SP, sp)
	c.bus.Write(sp, bit.High(c.GetR16(PC)))
	return pushLow
}
