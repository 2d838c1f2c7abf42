package capnframe

import (
	"fmt"
	"math"

	"github.com/bearlytools/capnframe/internal/leconv"
)

// Every scalar field in a struct's data section is stored XORed with its
// schema default, so a field left at its default needs no explicit write
// and an all-zero data section decodes every field to its default. Reads
// saturate to the default (not a panic or error) when the field lies
// outside the struct's data section, the schema-evolution case where an
// older writer's struct is shorter than the reader expects.

// ReadBool reads a single-bit boolean field at bitOffset, XORed with def.
func (p Ptr) ReadBool(bitOffset int, def bool) bool {
	byteOff := bitOffset / 8
	if p.typ != TypeStruct {
		return def
	}
	if byteOff >= p.dataSectionBytes() {
		return def
	}
	bit := p.seg.buf[p.off+byteOff]&(1<<uint(bitOffset%8)) != 0
	return bit != def
}

// WriteBool writes a single-bit boolean field at bitOffset, XORed with def.
func (p Ptr) WriteBool(bitOffset int, val, def bool) error {
	byteOff := bitOffset / 8
	if err := p.checkFieldBounds(byteOff, 1); err != nil {
		return err
	}
	stored := val != def
	mask := byte(1 << uint(bitOffset%8))
	if stored {
		p.seg.buf[p.off+byteOff] |= mask
	} else {
		p.seg.buf[p.off+byteOff] &^= mask
	}
	return nil
}

// Read8 reads an 8-bit field at byteOffset, XORed with def.
func (p Ptr) Read8(byteOffset int, def uint8) uint8 {
	if p.typ != TypeStruct {
		return def
	}
	if byteOffset+1 > p.dataSectionBytes() {
		return def
	}
	return p.seg.buf[p.off+byteOffset] ^ def
}

// Write8 writes an 8-bit field at byteOffset, XORed with def.
func (p Ptr) Write8(byteOffset int, val, def uint8) error {
	if err := p.checkFieldBounds(byteOffset, 1); err != nil {
		return err
	}
	p.seg.buf[p.off+byteOffset] = val ^ def
	return nil
}

// Read16 reads a 16-bit field at byteOffset, XORed with def.
func (p Ptr) Read16(byteOffset int, def uint16) uint16 {
	if p.typ != TypeStruct {
		return def
	}
	if byteOffset+2 > p.dataSectionBytes() {
		return def
	}
	off := p.off + byteOffset
	return leconv.Load16(p.seg.buf[off:off+2]) ^ def
}

// Write16 writes a 16-bit field at byteOffset, XORed with def.
func (p Ptr) Write16(byteOffset int, val, def uint16) error {
	if err := p.checkFieldBounds(byteOffset, 2); err != nil {
		return err
	}
	off := p.off + byteOffset
	leconv.Store16(p.seg.buf[off:off+2], val^def)
	return nil
}

// Read32 reads a 32-bit field at byteOffset, XORed with def.
func (p Ptr) Read32(byteOffset int, def uint32) uint32 {
	if p.typ != TypeStruct {
		return def
	}
	if byteOffset+4 > p.dataSectionBytes() {
		return def
	}
	off := p.off + byteOffset
	return leconv.Load32(p.seg.buf[off:off+4]) ^ def
}

// Write32 writes a 32-bit field at byteOffset, XORed with def.
func (p Ptr) Write32(byteOffset int, val, def uint32) error {
	if err := p.checkFieldBounds(byteOffset, 4); err != nil {
		return err
	}
	off := p.off + byteOffset
	leconv.Store32(p.seg.buf[off:off+4], val^def)
	return nil
}

// Read64 reads a 64-bit field at byteOffset, XORed with def.
func (p Ptr) Read64(byteOffset int, def uint64) uint64 {
	if p.typ != TypeStruct {
		return def
	}
	if byteOffset+8 > p.dataSectionBytes() {
		return def
	}
	off := p.off + byteOffset
	return leconv.Load64(p.seg.buf[off:off+8]) ^ def
}

// Write64 writes a 64-bit field at byteOffset, XORed with def.
func (p Ptr) Write64(byteOffset int, val, def uint64) error {
	if err := p.checkFieldBounds(byteOffset, 8); err != nil {
		return err
	}
	off := p.off + byteOffset
	leconv.Store64(p.seg.buf[off:off+8], val^def)
	return nil
}

// ReadFloat32 reads a float32 field at byteOffset XORed, at the bit level,
// with def.
func (p Ptr) ReadFloat32(byteOffset int, def float32) float32 {
	bits := p.Read32(byteOffset, math.Float32bits(def))
	return math.Float32frombits(bits)
}

// WriteFloat32 writes a float32 field at byteOffset XORed, at the bit
// level, with def. This is the corrected form of the encoder: the stored
// word is math.Float32bits(val) ^ math.Float32bits(def), not a mix of the
// two values' raw memory reinterpreted under mismatched types.
func (p Ptr) WriteFloat32(byteOffset int, val, def float32) error {
	return p.Write32(byteOffset, math.Float32bits(val), math.Float32bits(def))
}

// ReadFloat64 reads a float64 field at byteOffset XORed, at the bit level,
// with def.
func (p Ptr) ReadFloat64(byteOffset int, def float64) float64 {
	bits := p.Read64(byteOffset, math.Float64bits(def))
	return math.Float64frombits(bits)
}

// WriteFloat64 writes a float64 field at byteOffset XORed, at the bit
// level, with def.
func (p Ptr) WriteFloat64(byteOffset int, val, def float64) error {
	return p.Write64(byteOffset, math.Float64bits(val), math.Float64bits(def))
}

func (p Ptr) checkFieldBounds(byteOffset, width int) error {
	if p.typ != TypeStruct {
		return fmt.Errorf("%w: field write on non-struct Ptr", ErrWrongType)
	}
	if byteOffset < 0 || byteOffset+width > p.dataSectionBytes() {
		return fmt.Errorf("%w: field at byte %d, width %d, data section is %d bytes", ErrOutOfRange, byteOffset, width, p.dataSectionBytes())
	}
	return nil
}
