package memory

// dmaEngine implements the 160-byte OAM DMA copy: writing FF46 latches
// the source page and starts the transfer; one byte is copied per
// machine cycle via Tick, which the bus must call before servicing the
// CPU's own bus operation for that cycle (spec.md §4.f ordering).
type dmaEngine struct {
	source uint8 // last byte written to FF46
	index  int   // -1 when idle, 0..159 while transferring
}

func newDMAEngine() *dmaEngine {
	return &dmaEngine{index: -1}
}

func (d *dmaEngine) Active() bool { return d.index >= 0 }

// Index returns the byte index currently being transferred, used by the
// bus to compute the gated-read address (DMA<<8 | index).
func (d *dmaEngine) Index() int { return d.index }

func (d *dmaEngine) SourceBase() uint16 { return uint16(d.source) << 8 }

// Start latches the source page and begins a transfer. Re-triggering
// mid-transfer restarts it from index 0 with the new page, matching
// hardware (a fresh FF46 write always begins a new 160-byte window).
func (d *dmaEngine) Start(page uint8) {
	d.source = page
	d.index = 0
}

// Advance moves the transfer on by one byte and returns the OAM offset
// that byte belongs at, plus whether the transfer just finished. It copies
// nothing itself: the bus reads the source byte and stores it, since only
// the bus can honour the gating rules for that read.
func (d *dmaEngine) Advance() (oamOffset int, done bool) {
	offset := d.index
	d.index++
	if d.index == 160 {
		d.index = -1
	}
	return offset, d.index == -1
}
