package cpu

import (
	"github.com/tholt-dev/gbcore/addr"
	"github.com/tholt-dev/gbcore/bit"
)

// newInterruptServiceInstruction builds the synthetic 5-machine-cycle
// instruction that services a pending interrupt: two idle cycles, then
// push PC high, push PC low, then load PC with the handler vector. The
// caller has already cleared the IF bit and disabled IME before
// installing this instruction.
func newInterruptServiceInstruction(in addr.Interrupt) *instruction {
	vector := in.Vector()

	setPC := func(c *CPU) step {
		c.SetR16(PC, vector)
		return nil
	}

	pushLow := func(c *CPU) step {
		sp := c.GetR16(SP) - 1
		c.SetR16(SP, sp)
		c.bus.Write(sp, bit.Low(c.GetR16(PC)))
		return setPC
	}

	pushHigh := func(c *CPU) step {
		sp := c.GetR16(SP) - 1
		c.SetR16(SP, sp)
		c.bus.Write(sp, bit.High(c.GetR16(PC)))
		return pushLow
	}

	idle2 := func(c *CPU) step {
		return pushHigh
	}

	idle1 := func(c *CPU) step {
		return idle2
	}

	return &instruction{mnemonic: "INT", current: idle1}
}
