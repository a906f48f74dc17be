package video

import "testing"

func enabledPPU() *PPU {
	p := New()
	p.lcdc = 0x80
	return p
}

func TestPPU_DisabledLCDNeverAdvances(t *testing.T) {
	p := New() // lcdc = 0, display off
	for i := 0; i < 1000; i++ {
		p.Tick()
	}
	if p.mode != ModeOAMScan || p.ly != 0 {
		t.Fatalf("disabled PPU should never advance: mode=%v ly=%d", p.mode, p.ly)
	}
}

func TestPPU_ModeSequencePerScanline(t *testing.T) {
	p := enabledPPU()

	ticksPerCycle := func(cycles int) int { return cycles / 4 }

	for i := 0; i < ticksPerCycle(oamScanCycles); i++ {
		p.Tick()
	}
	if p.mode != ModeDraw {
		t.Fatalf("mode = %v after OAM scan window, want ModeDraw", p.mode)
	}

	for i := 0; i < ticksPerCycle(drawCycles); i++ {
		p.Tick()
	}
	if p.mode != ModeHBlank {
		t.Fatalf("mode = %v after draw window, want ModeHBlank", p.mode)
	}

	for i := 0; i < ticksPerCycle(hblankCycles); i++ {
		p.Tick()
	}
	if p.mode != ModeOAMScan || p.ly != 1 {
		t.Fatalf("mode=%v ly=%d after hblank window, want ModeOAMScan ly=1", p.mode, p.ly)
	}
}

func TestPPU_VBlankEdgeAfter144Lines(t *testing.T) {
	p := enabledPPU()
	vblankRequested := false
	p.RequestVBlank = func() { vblankRequested = true }

	var sawEdge bool
	for line := 0; line < visibleLines; line++ {
		for c := 0; c < scanlineCycles/4; c++ {
			if p.Tick() {
				sawEdge = true
			}
		}
	}

	if !sawEdge {
		t.Fatal("expected a VBlank edge after 144 visible scanlines")
	}
	if p.mode != ModeVBlank {
		t.Fatalf("mode = %v after line 144, want ModeVBlank", p.mode)
	}
	if !vblankRequested {
		t.Fatal("expected RequestVBlank to be invoked on the VBlank edge")
	}
}

func TestPPU_FullFrameWrapsLYToZero(t *testing.T) {
	p := enabledPPU()
	totalCycles := (visibleLines + 10) * scanlineCycles // 144 visible + 10 vblank lines
	for i := 0; i < totalCycles/4; i++ {
		p.Tick()
	}
	if p.ly != 0 {
		t.Fatalf("ly = %d after a full frame, want 0", p.ly)
	}
	if p.mode != ModeOAMScan {
		t.Fatalf("mode = %v after a full frame, want ModeOAMScan", p.mode)
	}
}

func TestPPU_LYCCoincidenceInterrupt(t *testing.T) {
	p := enabledPPU()
	p.Write(0xFF45, 1) // LYC = 1
	p.Write(0xFF41, statLYCIrq)

	lcdStatFired := false
	p.RequestLCDStat = func() { lcdStatFired = true }

	for i := 0; i < scanlineCycles/4; i++ {
		p.Tick()
	}
	if !lcdStatFired {
		t.Fatal("expected LCDStat interrupt when LY reaches LYC with the coincidence IRQ enabled")
	}
	if p.Read(0xFF41)&statLYCEqual == 0 {
		t.Fatal("expected STAT coincidence flag to be set")
	}
}

func TestPPU_WriteLYResetsToZero(t *testing.T) {
	p := enabledPPU()
	for i := 0; i < scanlineCycles/4; i++ {
		p.Tick()
	}
	if p.ly == 0 {
		t.Fatal("test setup: LY should have advanced past 0")
	}
	p.Write(0xFF44, 0x99)
	if p.ly != 0 {
		t.Fatalf("LY = %d after a write, want reset to 0 regardless of the written value", p.ly)
	}
}

func TestPPU_StatReadForcesBit7(t *testing.T) {
	p := New()
	if got := p.Read(0xFF41); got&0x80 == 0 {
		t.Fatalf("STAT read = %#02x, want bit 7 forced high", got)
	}
}
