// Package serial implements the SB/SC link-cable registers: an
// internal-clock transfer timer and the Serial interrupt. There is no
// network peer; a pluggable Sink receives outgoing bytes and supplies
// the incoming byte (0xFF, "no peer connected", with the default NopSink).
package serial

import "github.com/tholt-dev/gbcore/addr"

// bitClockTCycles is how long one bit takes to shift at the DMG's
// internal 8192 Hz clock: 4194304 / 8192 = 512 t-cycles.
const bitClockTCycles = 512

const bitsPerTransfer = 8

// Sink receives bytes shifted out over SB and supplies the byte shifted
// in from an (absent) peer. The default sink used by Port shifts in
// 0xFF, matching an unconnected link cable.
type Sink interface {
	Exchange(out uint8) (in uint8)
}

// NopSink implements Sink for "no peer connected": every outgoing byte
// is discarded, every incoming byte reads 0xFF.
type NopSink struct{}

func (NopSink) Exchange(out uint8) (in uint8) { return 0xFF }

// Port owns the SB/SC registers and the transfer timer.
type Port struct {
	sb, sc uint8

	sink Sink

	active      bool
	tCycles     int // t-cycles elapsed within the current bit
	bitsShifted int

	RequestInterrupt func()
}

func New(sink Sink) *Port {
	if sink == nil {
		sink = NopSink{}
	}
	return &Port{sink: sink}
}

func (p *Port) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return p.sb
	case addr.SC:
		return p.sc | 0x7E // bits 6-1 always read 1
	default:
		return 0xFF
	}
}

func (p *Port) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		p.sb = value
	case addr.SC:
		p.sc = value
		// Only the internal-clock case (bit0 set) is modelled: without a
		// real link partner, external-clock transfers never complete.
		if !p.active && value&0x80 != 0 && value&0x01 != 0 {
			p.active = true
			p.tCycles = 0
			p.bitsShifted = 0
		}
	}
}

// Tick advances the transfer timer by one machine cycle (4 t-cycles).
func (p *Port) Tick() {
	if !p.active {
		return
	}
	p.tCycles += 4
	for p.tCycles >= bitClockTCycles {
		p.tCycles -= bitClockTCycles
		p.shiftOneBit()
		if p.bitsShifted == bitsPerTransfer {
			p.completeTransfer()
			return
		}
	}
}

func (p *Port) shiftOneBit() {
	// The real shift register moves one bit per clock; since the sink
	// works a whole byte at a time, only the final bit's exchange is
	// observable, but the bit-by-bit timing must still elapse.
	p.bitsShifted++
}

func (p *Port) completeTransfer() {
	p.sb = p.sink.Exchange(p.sb)
	p.sc &^= 0x80
	p.active = false
	if p.RequestInterrupt != nil {
		p.RequestInterrupt()
	}
}
