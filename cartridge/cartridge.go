// Package cartridge parses the DMG cartridge header and exposes the
// Mapper capability interface the bus reads ROM/external-RAM through.
// Only flat, unbanked cartridges (MapperKindNone) are constructed; a
// header reporting any banked controller is reported as a typed
// construction error rather than silently truncated.
package cartridge

import (
	"fmt"
)

const (
	headerTitleStart  = 0x0134
	headerTitleEnd    = 0x0144
	headerCGBFlag     = 0x0143
	headerLicenseeNew = 0x0144
	headerSGBFlag     = 0x0146
	headerTypeAddr    = 0x0147
	headerROMSize     = 0x0148
	headerRAMSize     = 0x0149
	headerDestCode    = 0x014A
	headerLicenseeOld = 0x014B
	headerVersion     = 0x014C
	headerChecksum    = 0x014D
	headerGlobalCksum = 0x014E

	logoStart = 0x0104
	logoEnd   = 0x0134
)

// nintendoLogo is the fixed 48-byte bitmap every licensed cartridge
// embeds at 0x0104-0x0133; the boot ROM (and, here, header validation)
// compares it to detect corrupt/unofficial ROM images.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83,
	0x00, 0x0C, 0x00, 0x0D, 0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99, 0xBB, 0xBB, 0x67, 0x63,
	0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// MapperKind identifies the memory-bank-controller family the
// cartridge-type header byte selects.
type MapperKind uint8

const (
	MapperKindNone MapperKind = iota
	MapperKindMBC1
	MapperKindMBC2
	MapperKindMBC3
	MapperKindMBC5
	MapperKindUnknown
)

func (k MapperKind) String() string {
	switch k {
	case MapperKindNone:
		return "NoMBC"
	case MapperKindMBC1:
		return "MBC1"
	case MapperKindMBC2:
		return "MBC2"
	case MapperKindMBC3:
		return "MBC3"
	case MapperKindMBC5:
		return "MBC5"
	default:
		return "Unknown"
	}
}

func decodeMapperKind(cartridgeType byte) MapperKind {
	switch cartridgeType {
	case 0x00, 0x08, 0x09:
		return MapperKindNone
	case 0x01, 0x02, 0x03:
		return MapperKindMBC1
	case 0x05, 0x06:
		return MapperKindMBC2
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return MapperKindMBC3
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return MapperKindMBC5
	default:
		return MapperKindUnknown
	}
}

func decodeROMSize(code byte) (int, error) {
	if code > 0x08 {
		return 0, &UnknownROMSizeError{Code: code}
	}
	// 32KiB, doubling per code, shifted left by the bank count exponent.
	return 32 * 1024 << code, nil
}

func decodeRAMSize(code byte) (int, error) {
	switch code {
	case 0x00:
		return 0, nil
	case 0x01:
		return 2 * 1024, nil
	case 0x02:
		return 8 * 1024, nil
	case 0x03:
		return 32 * 1024, nil
	case 0x04:
		return 128 * 1024, nil
	case 0x05:
		return 64 * 1024, nil
	default:
		return 0, &UnknownRAMSizeError{Code: code}
	}
}

// Header is the parsed, typed form of the 0x0100-0x014F cartridge header.
type Header struct {
	Title            string
	ManufacturerCode string
	CGBFlag          byte
	NewLicenseeCode  string
	SGBFlag          byte
	CartridgeType    byte
	Mapper           MapperKind
	ROMSize          int
	RAMSize          int
	DestinationCode  byte
	OldLicenseeCode  byte
	MaskROMVersion   byte
	HeaderChecksum   byte
	GlobalChecksum   uint16
	LogoValid        bool
}

// ParseHeader reads the cartridge header fields out of a full ROM image.
// It does not validate ROM length against the declared size; callers
// combine this with len(data) to decide whether the image is usable.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 0x0150 {
		return Header{}, &ROMTooSmallError{Len: len(data), Need: 0x0150}
	}

	romSize, err := decodeROMSize(data[headerROMSize])
	if err != nil {
		return Header{}, err
	}
	ramSize, err := decodeRAMSize(data[headerRAMSize])
	if err != nil {
		return Header{}, err
	}

	logoValid := true
	for i, b := range nintendoLogo {
		if data[logoStart+i] != b {
			logoValid = false
			break
		}
	}

	cartType := data[headerTypeAddr]

	return Header{
		Title:            cleanTitle(data[headerTitleStart:headerTitleEnd]),
		CGBFlag:          data[headerCGBFlag],
		NewLicenseeCode:  string(data[headerLicenseeNew : headerLicenseeNew+2]),
		SGBFlag:          data[headerSGBFlag],
		CartridgeType:    cartType,
		Mapper:           decodeMapperKind(cartType),
		ROMSize:          romSize,
		RAMSize:          ramSize,
		DestinationCode:  data[headerDestCode],
		OldLicenseeCode:  data[headerLicenseeOld],
		MaskROMVersion:   data[headerVersion],
		HeaderChecksum:   data[headerChecksum],
		GlobalChecksum:   uint16(data[headerGlobalCksum])<<8 | uint16(data[headerGlobalCksum+1]),
		LogoValid:        logoValid,
	}, nil
}

func cleanTitle(raw []byte) string {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end])
}

// Mapper is the capability surface the bus uses to reach cartridge ROM
// and external RAM. Only NoMBC is ever constructed by this core; banked
// controllers are out of scope (spec.md Non-goals), reported at load
// time via MapperNotSupportedError instead of being implemented.
type Mapper interface {
	ReadROM(address uint16) uint8
	WriteROM(address uint16, value uint8)
	ReadRAM(address uint16) uint8
	WriteRAM(address uint16, value uint8)
}

// NoMBC maps ROM straight through at 0x0000-0x7FFF with no banking, and
// optionally backs a flat external-RAM window if the header declares one.
type NoMBC struct {
	rom []uint8
	ram []uint8
}

func NewNoMBC(rom []uint8, ramSize int) *NoMBC {
	return &NoMBC{rom: rom, ram: make([]uint8, ramSize)}
}

func (m *NoMBC) ReadROM(address uint16) uint8 {
	if int(address) >= len(m.rom) {
		return 0xFF
	}
	return m.rom[address]
}

// WriteROM is a no-op: NoMBC cartridges have no registers to bank-switch.
func (m *NoMBC) WriteROM(address uint16, value uint8) {}

func (m *NoMBC) ReadRAM(address uint16) uint8 {
	offset := address - 0xA000
	if int(offset) >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *NoMBC) WriteRAM(address uint16, value uint8) {
	offset := address - 0xA000
	if int(offset) >= len(m.ram) {
		return
	}
	m.ram[offset] = value
}

// Cartridge bundles the parsed header with the constructed Mapper.
type Cartridge struct {
	Header Header
	Mapper Mapper
}

// Load parses the header out of data and constructs the appropriate
// Mapper, or returns a typed error if the ROM is malformed or declares
// a banked controller this core does not implement.
func Load(data []byte) (*Cartridge, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < header.ROMSize {
		return nil, &ROMTooSmallError{Len: len(data), Need: header.ROMSize}
	}
	if header.Mapper != MapperKindNone {
		return nil, &MapperNotSupportedError{Kind: header.Mapper, CartridgeType: header.CartridgeType}
	}

	return &Cartridge{
		Header: header,
		Mapper: NewNoMBC(data[:header.ROMSize], header.RAMSize),
	}, nil
}

// ROMTooSmallError reports a ROM image shorter than its own declared size.
type ROMTooSmallError struct {
	Len, Need int
}

func (e *ROMTooSmallError) Error() string {
	return fmt.Sprintf("cartridge: ROM image is %d bytes, need at least %d", e.Len, e.Need)
}

// UnknownROMSizeError reports an unrecognised 0x0148 header byte.
type UnknownROMSizeError struct{ Code byte }

func (e *UnknownROMSizeError) Error() string {
	return fmt.Sprintf("cartridge: unrecognised ROM size code 0x%02X", e.Code)
}

// UnknownRAMSizeError reports an unrecognised 0x0149 header byte.
type UnknownRAMSizeError struct{ Code byte }

func (e *UnknownRAMSizeError) Error() string {
	return fmt.Sprintf("cartridge: unrecognised RAM size code 0x%02X", e.Code)
}

// MapperNotSupportedError reports a header that names a banked
// controller this core does not implement (spec.md Non-goals).
type MapperNotSupportedError struct {
	Kind          MapperKind
	CartridgeType byte
}

func (e *MapperNotSupportedError) Error() string {
	return fmt.Sprintf("cartridge: mapper %s (cartridge type 0x%02X) is not supported by this core", e.Kind, e.CartridgeType)
}
