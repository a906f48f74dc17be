package cpu

// rlc rotates v left, bit 7 (pre) goes to both bit 0 and the carry flag.
// Used by the CB-prefixed RLC; Z is derived from the result (unlike RLCA).
func rlc(v uint8) (uint8, Flags) {
	carry := v&0x80 != 0
	result := (v << 1) | boolBit(carry, 1)
	return result, Flags{Z: result == 0, C: carry}
}

// rrc rotates v right, bit 0 (pre) goes to both bit 7 and the carry flag.
func rrc(v uint8) (uint8, Flags) {
	carry := v&0x01 != 0
	result := (v >> 1) | boolBit(carry, 0x80)
	return result, Flags{Z: result == 0, C: carry}
}

// rl rotates v left through the carry flag.
func rl(v uint8, carryIn bool) (uint8, Flags) {
	carryOut := v&0x80 != 0
	result := (v << 1) | boolBit(carryIn, 1)
	return result, Flags{Z: result == 0, C: carryOut}
}

// rr rotates v right through the carry flag.
func rr(v uint8, carryIn bool) (uint8, Flags) {
	carryOut := v&0x01 != 0
	result := (v >> 1) | boolBit(carryIn, 0x80)
	return result, Flags{Z: result == 0, C: carryOut}
}

// sla shifts v left, shifting in 0 at bit 0.
func sla(v uint8) (uint8, Flags) {
	carry := v&0x80 != 0
	result := v << 1
	return result, Flags{Z: result == 0, C: carry}
}

// sra shifts v right, bit 7 unchanged (arithmetic shift).
func sra(v uint8) (uint8, Flags) {
	carry := v&0x01 != 0
	result := (v >> 1) | (v & 0x80)
	return result, Flags{Z: result == 0, C: carry}
}

// srl shifts v right, shifting in 0 at bit 7 (logical shift).
func srl(v uint8) (uint8, Flags) {
	carry := v&0x01 != 0
	result := v >> 1
	return result, Flags{Z: result == 0, C: carry}
}

// swap exchanges the low and high nibbles of v.
func swap(v uint8) (uint8, Flags) {
	result := (v << 4) | (v >> 4)
	return result, Flags{Z: result == 0}
}

// testBit computes the BIT instruction's flag output for bit index b of v.
// H is always set; C is left to the caller (unchanged).
func testBit(b uint8, v uint8) Flags {
	return Flags{Z: v&(1<<b) == 0, N: false, H: true}
}
