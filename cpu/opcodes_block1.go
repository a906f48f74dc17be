package cpu

// This file covers 0x40-0xBF: the 64-entry LD r8,r8 grid (with 0x76
// displaced by HALT) and the 64-entry ALU-over-r8 grid.

func init() {
	for destIdx := 0; destIdx < 8; destIdx++ {
		for srcIdx := 0; srcIdx < 8; srcIdx++ {
			op := uint8(0x40 + destIdx*8 + srcIdx)

			if destIdx == indirectHL && srcIdx == indirectHL {
				primaryTable[op] = func(c *CPU) *instruction {
					c.enterHalt()
					return done("HALT")
				}
				continue
			}

			destIdx, srcIdx := destIdx, srcIdx
			switch {
			case destIdx == indirectHL:
				// LD (HL), r8 — write, 2 M-cycles.
				src := r8ByIndex[srcIdx]
				primaryTable[op] = func(c *CPU) *instruction {
					return seq("LD (HL),r8", func(c *CPU) { c.bus.Write(c.GetR16(HL), c.GetR8(src)) })
				}
			case srcIdx == indirectHL:
				// LD r8, (HL) — read, 2 M-cycles.
				dst := r8ByIndex[destIdx]
				primaryTable[op] = func(c *CPU) *instruction {
					return seq("LD r8,(HL)", func(c *CPU) { c.SetR8(dst, c.bus.Read(c.GetR16(HL))) })
				}
			default:
				// LD r8, r8 — register only, 1 M-cycle.
				dst, src := r8ByIndex[destIdx], r8ByIndex[srcIdx]
				primaryTable[op] = func(c *CPU) *instruction {
					c.SetR8(dst, c.GetR8(src))
					return done("LD r8,r8")
				}
			}
		}
	}

	type aluOp struct {
		name  string
		apply func(c *CPU, v uint8)
	}

	aluOps := [8]aluOp{
		{"ADD", func(c *CPU, v uint8) {
			r, f := add8(c.GetR8(A), v)
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"ADC", func(c *CPU, v uint8) {
			r, f := adc8(c.GetR8(A), v, c.GetFlag(flagC))
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"SUB", func(c *CPU, v uint8) {
			r, f := sub8(c.GetR8(A), v)
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"SBC", func(c *CPU, v uint8) {
			r, f := sbc8(c.GetR8(A), v, c.GetFlag(flagC))
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"AND", func(c *CPU, v uint8) {
			r, f := and8(c.GetR8(A), v)
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"XOR", func(c *CPU, v uint8) {
			r, f := xor8(c.GetR8(A), v)
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"OR", func(c *CPU, v uint8) {
			r, f := or8(c.GetR8(A), v)
			c.SetR8(A, r)
			c.applyFlags(f)
		}},
		{"CP", func(c *CPU, v uint8) {
			c.applyFlags(cp8(c.GetR8(A), v))
		}},
	}

	for row, op := range aluOps {
		row, op := row, op
		for srcIdx := 0; srcIdx < 8; srcIdx++ {
			opcode := uint8(0x80 + row*8 + srcIdx)
			srcIdx := srcIdx
			if srcIdx == indirectHL {
				primaryTable[opcode] = func(c *CPU) *instruction {
					return seq("ALU A,(HL)", func(c *CPU) { op.apply(c, c.bus.Read(c.GetR16(HL))) })
				}
			} else {
				src := r8ByIndex[srcIdx]
				primaryTable[opcode] = func(c *CPU) *instruction {
					op.apply(c, c.GetR8(src))
					return done("ALU A,r8")
				}
			}
		}
	}
}

// applyFlags writes all four flags from an ALU Flags result.
func (c *CPU) applyFlags(f Flags) {
	c.SetFlag(flagZ, f.Z)
	c.SetFlag(flagN, f.N)
	c.SetFlag(flagH, f.H)
	c.SetFlag(flagC, f.C)
}
