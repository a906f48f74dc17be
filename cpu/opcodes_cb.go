package cpu

// This file builds the 256-entry CB-prefixed table: the rotate/shift row
// (0x00-0x3F), BIT (0x40-0x7F), RES (0x80-0xBF) and SET (0xC0-0xFF), each
// over the 8 r8-or-(HL) operands. Register operands execute inline during
// the CB-byte fetch's own cycle (2 M-cycles total); (HL) operands queue
// one extra read cycle for BIT (3 M-cycles total) or a read+write pair for
// the rotate/shift row and RES/SET (4 M-cycles total).

type cbShiftOp struct {
	name  string
	apply func(c *CPU, v uint8) (uint8, Flags)
}

func init() {
	shiftRow := [8]cbShiftOp{
		{"RLC", func(c *CPU, v uint8) (uint8, Flags) { return rlc(v) }},
		{"RRC", func(c *CPU, v uint8) (uint8, Flags) { return rrc(v) }},
		{"RL", func(c *CPU, v uint8) (uint8, Flags) { return rl(v, c.GetFlag(flagC)) }},
		{"RR", func(c *CPU, v uint8) (uint8, Flags) { return rr(v, c.GetFlag(flagC)) }},
		{"SLA", func(c *CPU, v uint8) (uint8, Flags) { return sla(v) }},
		{"SRA", func(c *CPU, v uint8) (uint8, Flags) { return sra(v) }},
		{"SWAP", func(c *CPU, v uint8) (uint8, Flags) { return swap(v) }},
		{"SRL", func(c *CPU, v uint8) (uint8, Flags) { return srl(v) }},
	}

	for row, op := range shiftRow {
		row, op := row, op
		for srcIdx := 0; srcIdx < 8; srcIdx++ {
			opcode := uint8(row*8 + srcIdx)
			srcIdx := srcIdx
			if srcIdx == indirectHL {
				cbTable[opcode] = func(c *CPU) *instruction {
					var v uint8
					return seq(op.name+" (HL)",
						func(c *CPU) { v = c.bus.Read(c.GetR16(HL)) },
						func(c *CPU) {
							result, f := op.apply(c, v)
							c.bus.Write(c.GetR16(HL), result)
							c.applyFlags(f)
						},
					)
				}
			} else {
				reg := r8ByIndex[srcIdx]
				cbTable[opcode] = func(c *CPU) *instruction {
					result, f := op.apply(c, c.GetR8(reg))
					c.SetR8(reg, result)
					c.applyFlags(f)
					return done(op.name + " r8")
				}
			}
		}
	}

	// BIT b,r8 / BIT b,(HL) — 0x40-0x7F.
	for bitIdx := 0; bitIdx < 8; bitIdx++ {
		bitIdx := uint8(bitIdx)
		for srcIdx := 0; srcIdx < 8; srcIdx++ {
			opcode := uint8(0x40) + bitIdx*8 + uint8(srcIdx)
			srcIdx := srcIdx
			if srcIdx == indirectHL {
				cbTable[opcode] = func(c *CPU) *instruction {
					return seq("BIT b,(HL)", func(c *CPU) {
						v := c.bus.Read(c.GetR16(HL))
						f := testBit(bitIdx, v)
						f.C = c.GetFlag(flagC)
						c.applyFlags(f)
					})
				}
			} else {
				reg := r8ByIndex[srcIdx]
				cbTable[opcode] = func(c *CPU) *instruction {
					f := testBit(bitIdx, c.GetR8(reg))
					f.C = c.GetFlag(flagC)
					c.applyFlags(f)
					return done("BIT b,r8")
				}
			}
		}
	}

	// RES b,r8 / RES b,(HL) — 0x80-0xBF.
	for bitIdx := 0; bitIdx < 8; bitIdx++ {
		bitIdx := uint8(bitIdx)
		for srcIdx := 0; srcIdx < 8; srcIdx++ {
			opcode := uint8(0x80) + bitIdx*8 + uint8(srcIdx)
			srcIdx := srcIdx
			if srcIdx == indirectHL {
				cbTable[opcode] = func(c *CPU) *instruction {
					var v uint8
					return seq("RES b,(HL)",
						func(c *CPU) { v = c.bus.Read(c.GetR16(HL)) },
						func(c *CPU) { c.bus.Write(c.GetR16(HL), v&^(1<<bitIdx)) },
					)
				}
			} else {
				reg := r8ByIndex[srcIdx]
				cbTable[opcode] = func(c *CPU) *instruction {
					c.SetR8(reg, c.GetR8(reg)&^(1<<bitIdx))
					return done("RES b,r8")
				}
			}
		}
	}

	// SET b,r8 / SET b,(HL) — 0xC0-0xFF.
	for bitIdx := 0; bitIdx < 8; bitIdx++ {
		bitIdx := uint8(bitIdx)
		for srcIdx := 0; srcIdx < 8; srcIdx++ {
			opcode := uint8(0xC0) + bitIdx*8 + uint8(srcIdx)
			srcIdx := srcIdx
			if srcIdx == indirectHL {
				cbTable[opcode] = func(c *CPU) *instruction {
					var v uint8
					return seq("SET b,(HL)",
						func(c *CPU) { v = c.bus.Read(c.GetR16(HL)) },
						func(c *CPU) { c.bus.Write(c.GetR16(HL), v|(1<<bitIdx)) },
					)
				}
			} else {
				reg := r8ByIndex[srcIdx]
				cbTable[opcode] = func(c *CPU) *instruction {
					c.SetR8(reg, c.GetR8(reg)|(1<<bitIdx))
					return done("SET b,r8")
				}
			}
		}
	}
}
