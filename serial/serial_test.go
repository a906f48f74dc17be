package serial

import "testing"

type recordingSink struct {
	lastOut uint8
	reply   uint8
}

func (s *recordingSink) Exchange(out uint8) uint8 {
	s.lastOut = out
	return s.reply
}

func TestPort_NopSinkReturnsFF(t *testing.T) {
	p := New(nil)
	p.Write(0xFF01, 0x7E) // SB
	p.Write(0xFF02, 0x81) // SC: start, internal clock

	for i := 0; i < bitClockTCycles*bitsPerTransfer/4; i++ {
		p.Tick()
	}
	if got := p.Read(0xFF01); got != 0xFF {
		t.Fatalf("SB after transfer = %#02x, want 0xFF from the no-peer sink", got)
	}
}

func TestPort_TransferRaisesInterruptAndClearsStartBit(t *testing.T) {
	sink := &recordingSink{reply: 0x42}
	p := New(sink)
	p.Write(0xFF01, 0x99)
	p.Write(0xFF02, 0x81)

	fired := false
	p.RequestInterrupt = func() { fired = true }

	for i := 0; i < bitClockTCycles*bitsPerTransfer/4; i++ {
		p.Tick()
	}

	if !fired {
		t.Fatal("expected Serial interrupt once the transfer completes")
	}
	if sink.lastOut != 0x99 {
		t.Fatalf("sink received %#02x, want the SB value 0x99", sink.lastOut)
	}
	if got := p.Read(0xFF01); got != 0x42 {
		t.Fatalf("SB after transfer = %#02x, want the sink's reply 0x42", got)
	}
	if p.Read(0xFF02)&0x80 != 0 {
		t.Fatal("SC start bit should clear once the transfer completes")
	}
}

func TestPort_ExternalClockNeverStarts(t *testing.T) {
	p := New(nil)
	p.Write(0xFF02, 0x80) // start bit set, but internal-clock bit0 clear
	for i := 0; i < bitClockTCycles*bitsPerTransfer/4; i++ {
		p.Tick()
	}
	if p.active {
		t.Fatal("an external-clock transfer should never actually start")
	}
}

func TestPort_SCUnusedBitsReadAsOne(t *testing.T) {
	p := New(nil)
	p.Write(0xFF02, 0x00)
	if got := p.Read(0xFF02); got&0x7E != 0x7E {
		t.Fatalf("SC read = %#02x, want bits 6-1 forced high", got)
	}
}
