// Package endian provides byte order utilities for the archive header wire format.
//
// It extends Go's encoding/binary package by combining ByteOrder and AppendByteOrder
// into a single EndianEngine interface, and adds width-generic helpers for the
// variable-width integers that header fields carry (1, 2, 4 or 8 bytes).
//
// # Basic Usage
//
// Header fields are always little-endian on the wire:
//
//	engine := endian.Wire()
//	buf = endian.AppendUint(engine, buf, 4, 42)
//	v := endian.Uint(engine, buf[len(buf)-4:], 4)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"math"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Wire returns the engine used by the header wire format.
func Wire() EndianEngine {
	return binary.LittleEndian
}

// ValidWidth reports whether width is one of the integer widths a field can carry.
func ValidWidth(width int) bool {
	switch width {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// Uint decodes an unsigned integer of the given width from the start of b.
//
// Parameters:
//   - engine: Byte order to decode with
//   - b: Source bytes (must hold at least width bytes)
//   - width: Integer width in bytes (1, 2, 4 or 8)
//
// Returns:
//   - uint64: Decoded value, widened to 64 bits
//
// Panics if width is not a valid width or b is too short; callers bounds-check first.
func Uint(engine EndianEngine, b []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(engine.Uint16(b))
	case 4:
		return uint64(engine.Uint32(b))
	case 8:
		return engine.Uint64(b)
	default:
		panic("endian: invalid integer width")
	}
}

// PutUint encodes v into the first width bytes of b, truncating to width.
func PutUint(engine EndianEngine, b []byte, width int, v uint64) {
	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		engine.PutUint16(b, uint16(v)) //nolint:gosec
	case 4:
		engine.PutUint32(b, uint32(v)) //nolint:gosec
	case 8:
		engine.PutUint64(b, v)
	default:
		panic("endian: invalid integer width")
	}
}

// AppendUint appends v encoded at the given width to b.
func AppendUint(engine EndianEngine, b []byte, width int, v uint64) []byte {
	switch width {
	case 1:
		return append(b, byte(v))
	case 2:
		return engine.AppendUint16(b, uint16(v)) //nolint:gosec
	case 4:
		return engine.AppendUint32(b, uint32(v)) //nolint:gosec
	case 8:
		return engine.AppendUint64(b, v)
	default:
		panic("endian: invalid integer width")
	}
}

// MinWidth returns the smallest field width (1, 2, 4 or 8) able to hold v.
func MinWidth(v uint64) int {
	switch {
	case v <= math.MaxUint8:
		return 1
	case v <= math.MaxUint16:
		return 2
	case v <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}
