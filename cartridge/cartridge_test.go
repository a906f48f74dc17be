package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validROM(size int, cartridgeType byte) []byte {
	data := make([]byte, size)
	copy(data[logoStart:], nintendoLogo[:])
	copy(data[headerTitleStart:headerTitleEnd], []byte("TESTROM"))
	data[headerTypeAddr] = cartridgeType
	data[headerROMSize] = 0x00 // 32KiB
	data[headerRAMSize] = 0x00
	return data
}

func TestParseHeader_ValidLogo(t *testing.T) {
	data := validROM(0x8000, 0x00)
	header, err := ParseHeader(data)
	require.NoError(t, err)
	assert.True(t, header.LogoValid)
	assert.Equal(t, "TESTROM", header.Title)
	assert.Equal(t, MapperKindNone, header.Mapper)
	assert.Equal(t, 32*1024, header.ROMSize)
}

func TestParseHeader_InvalidLogo(t *testing.T) {
	data := validROM(0x8000, 0x00)
	data[logoStart] ^= 0xFF
	header, err := ParseHeader(data)
	require.NoError(t, err)
	assert.False(t, header.LogoValid)
}

func TestParseHeader_TooSmall(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	require.Error(t, err)
	var want *ROMTooSmallError
	assert.ErrorAs(t, err, &want)
}

func TestParseHeader_UnknownROMSize(t *testing.T) {
	data := validROM(0x8000, 0x00)
	data[headerROMSize] = 0xFF
	_, err := ParseHeader(data)
	var want *UnknownROMSizeError
	assert.ErrorAs(t, err, &want)
}

func TestParseHeader_UnknownRAMSize(t *testing.T) {
	data := validROM(0x8000, 0x00)
	data[headerRAMSize] = 0xFF
	_, err := ParseHeader(data)
	var want *UnknownRAMSizeError
	assert.ErrorAs(t, err, &want)
}

func TestLoad_NoMBC(t *testing.T) {
	data := validROM(0x8000, 0x00)
	cart, err := Load(data)
	require.NoError(t, err)
	require.IsType(t, &NoMBC{}, cart.Mapper)
	assert.Equal(t, uint8(0x00), cart.Mapper.ReadROM(0))
}

func TestLoad_MapperNotSupported(t *testing.T) {
	data := validROM(0x8000, 0x01) // MBC1
	_, err := Load(data)
	var want *MapperNotSupportedError
	assert.ErrorAs(t, err, &want)
}

func TestLoad_ROMShorterThanDeclaredSize(t *testing.T) {
	data := validROM(0x8000, 0x00)
	data[headerROMSize] = 0x01 // declares 64KiB
	_, err := Load(data)
	var want *ROMTooSmallError
	assert.ErrorAs(t, err, &want)
}

func TestNoMBC_ReadWriteRAM(t *testing.T) {
	m := NewNoMBC(make([]uint8, 0x8000), 0x2000)
	m.WriteRAM(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), m.ReadRAM(0xA000))
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000+0x2000)) // past declared RAM size
}

func TestNoMBC_ReadROMOutOfBounds(t *testing.T) {
	m := NewNoMBC(make([]uint8, 0x10), 0)
	assert.Equal(t, uint8(0xFF), m.ReadROM(0x1000))
}

func TestDecodeMapperKind(t *testing.T) {
	tests := []struct {
		cartType byte
		want     MapperKind
	}{
		{0x00, MapperKindNone},
		{0x01, MapperKindMBC1},
		{0x05, MapperKindMBC2},
		{0x0F, MapperKindMBC3},
		{0x19, MapperKindMBC5},
		{0x20, MapperKindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeMapperKind(tt.cartType), "cartridge type %#02x", tt.cartType)
	}
}
