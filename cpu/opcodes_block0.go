package cpu

import "github.com/tholt-dev/gbcore/bit"

// This file covers the 0x00-0x3F quadrant of the primary opcode table:
// immediate loads, register-pair loads/stores via (BC)/(DE)/(HL+)/(HL-),
// 8-/16-bit INC/DEC, the rotate-A/DAA/CPL/SCF/CCF family, relative
// jumps, ADD HL,r16, STOP, NOP and LD (a16),SP.

var r16Group = [4]R16{BC, DE, HL, SP}

func init() {
	primaryTable[0x00] = func(c *CPU) *instruction { return done("NOP") }

	// STOP is a 2-byte opcode; the second byte is consumed before the low
	// power state begins. Modelled here as equivalent to HALT (spec.md
	// §4.f): the CPU idles until an enabled interrupt is pending.
	primaryTable[0x10] = func(c *CPU) *instruction {
		return seq("STOP",
			func(c *CPU) {
				c.readImmediate8()
				c.enterStop()
			},
		)
	}

	// LD r16, n16 — 0x01/0x11/0x21/0x31: fetch lo, fetch hi, each its own cycle.
	for i, pair := range r16Group {
		pair := pair
		primaryTable[uint8(0x01+i*0x10)] = func(c *CPU) *instruction {
			var lo uint8
			return seq("LD r16,n16",
				func(c *CPU) { lo = c.readImmediate8() },
				func(c *CPU) { hi := c.readImmediate8(); c.SetR16(pair, uint16(hi)<<8|uint16(lo)) },
			)
		}
	}

	// INC r16 / DEC r16 — 2 M-cycles (fetch plus one internal), register only, no flags.
	for i, pair := range r16Group {
		pair := pair
		primaryTable[uint8(0x03+i*0x10)] = func(c *CPU) *instruction {
			return seq("INC r16", func(c *CPU) { c.SetR16(pair, c.GetR16(pair)+1) })
		}
		primaryTable[uint8(0x0B+i*0x10)] = func(c *CPU) *instruction {
			return seq("DEC r16", func(c *CPU) { c.SetR16(pair, c.GetR16(pair)-1) })
		}
	}

	// ADD HL, r16 — 1 extra cycle, flags per add16.
	for i, pair := range r16Group {
		pair := pair
		primaryTable[uint8(0x09+i*0x10)] = func(c *CPU) *instruction {
			return seq("ADD HL,r16", func(c *CPU) {
				result, f := add16(c.GetR16(HL), c.GetR16(pair))
				c.SetR16(HL, result)
				c.SetFlag(flagN, f.N)
				c.SetFlag(flagH, f.H)
				c.SetFlag(flagC, f.C)
			})
		}
	}

	// LD (BC),A / LD (DE),A and LD A,(BC) / LD A,(DE)
	primaryTable[0x02] = func(c *CPU) *instruction {
		return seq("LD (BC),A", func(c *CPU) { c.bus.Write(c.GetR16(BC), c.GetR8(A)) })
	}
	primaryTable[0x12] = func(c *CPU) *instruction {
		return seq("LD (DE),A", func(c *CPU) { c.bus.Write(c.GetR16(DE), c.GetR8(A)) })
	}
	primaryTable[0x0A] = func(c *CPU) *instruction {
		return seq("LD A,(BC)", func(c *CPU) { c.SetR8(A, c.bus.Read(c.GetR16(BC))) })
	}
	primaryTable[0x1A] = func(c *CPU) *instruction {
		return seq("LD A,(DE)", func(c *CPU) { c.SetR8(A, c.bus.Read(c.GetR16(DE))) })
	}

	// LD (HL+),A / LD (HL-),A / LD A,(HL+) / LD A,(HL-)
	primaryTable[0x22] = func(c *CPU) *instruction {
		return seq("LD (HL+),A", func(c *CPU) {
			hl := c.GetR16(HL)
			c.bus.Write(hl, c.GetR8(A))
			c.SetR16(HL, hl+1)
		})
	}
	primaryTable[0x32] = func(c *CPU) *instruction {
		return seq("LD (HL-),A", func(c *CPU) {
			hl := c.GetR16(HL)
			c.bus.Write(hl, c.GetR8(A))
			c.SetR16(HL, hl-1)
		})
	}
	primaryTable[0x2A] = func(c *CPU) *instruction {
		return seq("LD A,(HL+)", func(c *CPU) {
			hl := c.GetR16(HL)
			c.SetR8(A, c.bus.Read(hl))
			c.SetR16(HL, hl+1)
		})
	}
	primaryTable[0x3A] = func(c *CPU) *instruction {
		return seq("LD A,(HL-)", func(c *CPU) {
			hl := c.GetR16(HL)
			c.SetR8(A, c.bus.Read(hl))
			c.SetR16(HL, hl-1)
		})
	}

	// INC r8 / DEC r8 — 0x04,0x0C,0x14,... and 0x05,0x0D,0x15,...
	r8Rows := [8]R8{B, C, D, E, H, L, 0xFF, A} // index 6 handled separately (HL)
	for row := 0; row < 8; row++ {
		if row == 6 {
			continue
		}
		reg := r8Rows[row]
		opInc := uint8(0x04 + row*0x08)
		opDec := uint8(0x05 + row*0x08)
		primaryTable[opInc] = func(c *CPU) *instruction {
			v, f := inc8(c.GetR8(reg))
			c.SetR8(reg, v)
			c.SetFlag(flagZ, f.Z)
			c.SetFlag(flagN, f.N)
			c.SetFlag(flagH, f.H)
			return done("INC r8")
		}
		primaryTable[opDec] = func(c *CPU) *instruction {
			v, f := dec8(c.GetR8(reg))
			c.SetR8(reg, v)
			c.SetFlag(flagZ, f.Z)
			c.SetFlag(flagN, f.N)
			c.SetFlag(flagH, f.H)
			return done("DEC r8")
		}
	}
	// INC (HL) / DEC (HL) — read, modify, write: 3 M-cycles.
	primaryTable[0x34] = func(c *CPU) *instruction {
		var v uint8
		return seq("INC (HL)",
			func(c *CPU) { v = c.bus.Read(c.GetR16(HL)) },
			func(c *CPU) {
				result, f := inc8(v)
				c.bus.Write(c.GetR16(HL), result)
				c.SetFlag(flagZ, f.Z)
				c.SetFlag(flagN, f.N)
				c.SetFlag(flagH, f.H)
			},
		)
	}
	primaryTable[0x35] = func(c *CPU) *instruction {
		var v uint8
		return seq("DEC (HL)",
			func(c *CPU) { v = c.bus.Read(c.GetR16(HL)) },
			func(c *CPU) {
				result, f := dec8(v)
				c.bus.Write(c.GetR16(HL), result)
				c.SetFlag(flagZ, f.Z)
				c.SetFlag(flagN, f.N)
				c.SetFlag(flagH, f.H)
			},
		)
	}

	// LD r8, n8 — 0x06,0x0E,0x16,...
	for row := 0; row < 8; row++ {
		if row == 6 {
			continue
		}
		reg := r8Rows[row]
		op := uint8(0x06 + row*0x08)
		primaryTable[op] = func(c *CPU) *instruction {
			return seq("LD r8,n8", func(c *CPU) { c.SetR8(reg, c.readImmediate8()) })
		}
	}
	// LD (HL), n8 — 3 M-cycles: fetch imm, then write.
	primaryTable[0x36] = func(c *CPU) *instruction {
		var imm uint8
		return seq("LD (HL),n8",
			func(c *CPU) { imm = c.readImmediate8() },
			func(c *CPU) { c.bus.Write(c.GetR16(HL), imm) },
		)
	}

	// Rotate-A family: always clear Z (unlike their CB counterparts).
	primaryTable[0x07] = func(c *CPU) *instruction {
		v, f := rlc(c.GetR8(A))
		c.SetR8(A, v)
		c.SetFlag(flagZ, false)
		c.SetFlag(flagN, false)
		c.SetFlag(flagH, false)
		c.SetFlag(flagC, f.C)
		return done("RLCA")
	}
	primaryTable[0x0F] = func(c *CPU) *instruction {
		v, f := rrc(c.GetR8(A))
		c.SetR8(A, v)
		c.SetFlag(flagZ, false)
		c.SetFlag(flagN, false)
		c.SetFlag(flagH, false)
		c.SetFlag(flagC, f.C)
		return done("RRCA")
	}
	primaryTable[0x17] = func(c *CPU) *instruction {
		v, f := rl(c.GetR8(A), c.GetFlag(flagC))
		c.SetR8(A, v)
		c.SetFlag(flagZ, false)
		c.SetFlag(flagN, false)
		c.SetFlag(flagH, false)
		c.SetFlag(flagC, f.C)
		return done("RLA")
	}
	primaryTable[0x1F] = func(c *CPU) *instruction {
		v, f := rr(c.GetR8(A), c.GetFlag(flagC))
		c.SetR8(A, v)
		c.SetFlag(flagZ, false)
		c.SetFlag(flagN, false)
		c.SetFlag(flagH, false)
		c.SetFlag(flagC, f.C)
		return done("RRA")
	}

	primaryTable[0x27] = func(c *CPU) *instruction {
		v, f := daa(c.GetR8(A), c.GetFlag(flagN), c.GetFlag(flagH), c.GetFlag(flagC))
		c.SetR8(A, v)
		c.SetFlag(flagZ, f.Z)
		c.SetFlag(flagH, f.H)
		c.SetFlag(flagC, f.C)
		return done("DAA")
	}
	primaryTable[0x2F] = func(c *CPU) *instruction {
		c.SetR8(A, ^c.GetR8(A))
		c.SetFlag(flagN, true)
		c.SetFlag(flagH, true)
		return done("CPL")
	}
	primaryTable[0x37] = func(c *CPU) *instruction {
		c.SetFlag(flagN, false)
		c.SetFlag(flagH, false)
		c.SetFlag(flagC, true)
		return done("SCF")
	}
	primaryTable[0x3F] = func(c *CPU) *instruction {
		c.SetFlag(flagN, false)
		c.SetFlag(flagH, false)
		c.SetFlag(flagC, !c.GetFlag(flagC))
		return done("CCF")
	}

	// JR i8 — unconditional relative jump: 3 M-cycles (fetch offset, then
	// an internal cycle to add it to PC).
	primaryTable[0x18] = func(c *CPU) *instruction {
		var offset int8
		return seq("JR i8",
			func(c *CPU) { offset = int8(c.readImmediate8()) },
			func(c *CPU) { c.SetR16(PC, uint16(int32(c.GetR16(PC))+int32(offset))) },
		)
	}

	// JR cc,i8 — 2 cycles if not taken, 3 if taken.
	jrConds := map[uint8]func(c *CPU) bool{
		0x20: func(c *CPU) bool { return !c.GetFlag(flagZ) },
		0x28: func(c *CPU) bool { return c.GetFlag(flagZ) },
		0x30: func(c *CPU) bool { return !c.GetFlag(flagC) },
		0x38: func(c *CPU) bool { return c.GetFlag(flagC) },
	}
	for op, cond := range jrConds {
		cond := cond
		primaryTable[op] = func(c *CPU) *instruction {
			return custom("JR cc,i8", func(c *CPU) step {
				offset := int8(c.readImmediate8())
				if !cond(c) {
					return nil
				}
				return func(c *CPU) step {
					c.SetR16(PC, uint16(int32(c.GetR16(PC))+int32(offset)))
					return nil
				}
			})
		}
	}

	// LD (a16), SP — 5 M-cycles: fetch lo, fetch hi, write SP-lo, write SP-hi.
	primaryTable[0x08] = func(c *CPU) *instruction {
		var addrLo, addrHi uint8
		return seq("LD (a16),SP",
			func(c *CPU) { addrLo = c.readImmediate8() },
			func(c *CPU) { addrHi = c.readImmediate8() },
			func(c *CPU) {
				a := uint16(addrHi)<<8 | uint16(addrLo)
				c.bus.Write(a, bit.Low(c.GetR16(SP)))
			},
			func(c *CPU) {
				a := (uint16(addrHi)<<8 | uint16(addrLo)) + 1
				c.bus.Write(a, bit.High(c.GetR16(SP)))
			},
		)
	}
}
