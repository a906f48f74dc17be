package input

import "testing"

func TestJoypad_ReadDefaultsToAllReleased(t *testing.T) {
	j := New()
	if got := j.Read(); got&0x0F != 0x0F {
		t.Fatalf("Read() = %#02x, want low nibble all-1 (released) with nothing selected", got)
	}
}

func TestJoypad_SelectButtonsExposesButtonBits(t *testing.T) {
	j := New()
	j.Write(0x10) // bit5=0 selects buttons, bit4=1 deselects d-pad
	j.Latch(Snapshot{Pressed: [8]bool{A: true}})
	got := j.Read()
	if got&(1<<0) != 0 {
		t.Fatalf("Read() = %#02x, want bit0 (A) low (pressed)", got)
	}
	if got&0x10 == 0 {
		t.Fatalf("Read() = %#02x, want bit4 high (d-pad deselected)", got)
	}
}

func TestJoypad_SelectDpadExposesDpadBits(t *testing.T) {
	j := New()
	j.Write(0x20) // bit4=0 selects d-pad
	j.Latch(Snapshot{Pressed: [8]bool{Up: true}})
	got := j.Read()
	if got&(1<<2) != 0 {
		t.Fatalf("Read() = %#02x, want bit2 (Up) low (pressed)", got)
	}
}

func TestJoypad_LatchReportsFallingEdgeOnNewPress(t *testing.T) {
	j := New()
	j.Write(0x00) // select both nibbles

	if interrupt := j.Latch(Snapshot{}); interrupt {
		t.Fatal("no buttons pressed: Latch should not report a falling edge")
	}
	if interrupt := j.Latch(Snapshot{Pressed: [8]bool{Start: true}}); !interrupt {
		t.Fatal("Start newly pressed: Latch should report a falling edge")
	}
	// Holding the same button produces no further edge.
	if interrupt := j.Latch(Snapshot{Pressed: [8]bool{Start: true}}); interrupt {
		t.Fatal("Start still held: Latch should not report another falling edge")
	}
}

func TestJoypad_UpperBitsAlwaysSet(t *testing.T) {
	j := New()
	if got := j.Read(); got&0xC0 != 0xC0 {
		t.Fatalf("Read() = %#02x, want bits 7-6 always set", got)
	}
}
