package memory

import (
	"github.com/tholt-dev/gbcore/addr"
	"github.com/tholt-dev/gbcore/bit"
)

// tacTapBit maps TAC[1:0] to the internal-counter bit the falling-edge
// detector samples.
var tacTapBit = [4]uint8{9, 3, 5, 7}

// overflowState is TIMA's three-state reload machine (spec.md §4.c).
type overflowState uint8

const (
	notOverflowed overflowState = iota
	overflowed
	settingToTMA
)

// Timer implements DIV/TIMA/TMA/TAC at t-cycle granularity: a falling
// edge of (tapped DIV bit AND TAC enable) increments TIMA; on overflow,
// TIMA holds 0 for four t-cycles before reloading from TMA and raising
// the Timer interrupt, mirroring the documented reload delay.
type Timer struct {
	div  uint16 // internal 16-bit counter; FF04 exposes the high byte
	tima uint8
	tma  uint8
	tac  uint8

	prevAndResult bool

	state        overflowState
	overflowTick int // t-cycles elapsed since entering Overflowed

	RequestInterrupt func()
}

func NewTimer() *Timer {
	return &Timer{}
}

// Tick advances the timer by one machine cycle, run as four single
// t-cycle steps so the falling-edge detector and the reload delay are
// both observable at their documented granularity.
func (t *Timer) Tick() {
	for i := 0; i < 4; i++ {
		t.tickOnce()
	}
}

func (t *Timer) tickOnce() {
	if t.state == settingToTMA {
		t.tima = t.tma
		t.state = notOverflowed
		if t.RequestInterrupt != nil {
			t.RequestInterrupt()
		}
	} else if t.state == overflowed {
		t.overflowTick++
		if t.overflowTick == 3 {
			t.state = settingToTMA
		}
	}

	t.div++
	t.sampleEdge()
}

func (t *Timer) sampleEdge() {
	enabled := t.tac&0x04 != 0
	tap := tacTapBit[t.tac&0x03]
	andResult := enabled && bit.IsSet16(tap, t.div)

	if t.prevAndResult && !andResult {
		t.incrementTIMA()
	}
	t.prevAndResult = andResult
}

func (t *Timer) incrementTIMA() {
	if t.state != notOverflowed {
		return
	}
	if t.tima == 0xFF {
		t.tima = 0x00
		t.state = overflowed
		t.overflowTick = 0
	} else {
		t.tima++
	}
}

func (t *Timer) Read(address uint16) uint8 {
	switch address {
	case addr.DIV:
		return bit.High(t.div)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		// Any write resets the whole internal counter; this can itself
		// induce a TIMA increment via the falling-edge detector.
		t.div = 0
		t.sampleEdge()
	case addr.TIMA:
		// TIMA writes are honoured in NotOverflowed/Overflowed, but
		// ignored on the cycle TIMA is reloaded from TMA.
		if t.state != settingToTMA {
			t.tima = value
		}
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
		t.sampleEdge()
	}
}
