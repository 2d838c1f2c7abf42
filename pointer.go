package capnframe

import "github.com/bearlytools/capnframe/internal/bitops"

// rawPointer is one 64-bit wire pointer word, decoded per spec.md §4.C.
// Bits [0:2) always hold the pointer kind.
type rawPointer uint64

type ptrKind uint8

const (
	kindStruct ptrKind = 0
	kindList   ptrKind = 1
	kindFar    ptrKind = 2
	kindOther  ptrKind = 3
)

// Package-level bit-layout constants (unexported) so in-package tests can
// assert the exact wire shape
// (testable properties S1-S4 in spec.md §8).
const (
	structPointerKindBits  = 2
	structPointerOffsetLo  = 2
	structPointerOffsetHi  = 32
	structPointerDataLo    = 32
	structPointerDataHi    = 48
	structPointerPtrLo     = 48
	structPointerPtrHi     = 64
	listPointerOffsetLo    = 2
	listPointerOffsetHi    = 32
	listPointerElemSizeLo  = 32
	listPointerElemSizeHi  = 35
	listPointerCountLo     = 35
	listPointerCountHi     = 64
	farPointerDoubleBit    = 2
	farPointerOffsetLo     = 3
	farPointerOffsetHi     = 32
	farPointerSegIDLo      = 32
	farPointerSegIDHi      = 64
)

func (p rawPointer) kind() ptrKind { return ptrKind(p & 3) }
func (p rawPointer) isNull() bool  { return p == 0 }

// --- struct pointer ---

func (p rawPointer) structOffsetWords() int32 {
	return int32(uint32(p)) >> 2
}

func (p rawPointer) structDataWords() uint16 {
	return bitops.GetValue[uint64, uint16](uint64(p), bitops.Mask[uint64](structPointerDataLo, structPointerDataHi), structPointerDataLo)
}

func (p rawPointer) structPtrWords() uint16 {
	return bitops.GetValue[uint64, uint16](uint64(p), bitops.Mask[uint64](structPointerPtrLo, structPointerPtrHi), structPointerPtrLo)
}

func makeStructPointer(offsetWords int32, dataWords, ptrWords uint16) rawPointer {
	var v uint64
	v = bitops.SetValue(v, bitops.Mask[uint64](structPointerOffsetLo, structPointerOffsetHi), structPointerOffsetLo, uint32(offsetWords)&0x3FFFFFFF)
	v = bitops.SetValue(v, bitops.Mask[uint64](structPointerDataLo, structPointerDataHi), structPointerDataLo, dataWords)
	v = bitops.SetValue(v, bitops.Mask[uint64](structPointerPtrLo, structPointerPtrHi), structPointerPtrLo, ptrWords)
	return rawPointer(v) | rawPointer(kindStruct)
}

// --- list pointer ---

func (p rawPointer) listOffsetWords() int32 {
	return int32(uint32(p)) >> 2
}

func (p rawPointer) listElemSize() elemSize {
	return elemSize(bitops.GetValue[uint64, uint8](uint64(p), bitops.Mask[uint64](listPointerElemSizeLo, listPointerElemSizeHi), listPointerElemSizeLo))
}

// listCountField returns the raw 29-bit count field: an element count for
// non-composite lists, a total word count for composite lists (the tag
// word, read separately, holds the true element count).
func (p rawPointer) listCountField() uint32 {
	return bitops.GetValue[uint64, uint32](uint64(p), bitops.Mask[uint64](listPointerCountLo, listPointerCountHi), listPointerCountLo)
}

func makeListPointer(offsetWords int32, es elemSize, count uint32) rawPointer {
	var v uint64
	v = bitops.SetValue(v, bitops.Mask[uint64](listPointerOffsetLo, listPointerOffsetHi), listPointerOffsetLo, uint32(offsetWords)&0x3FFFFFFF)
	v = bitops.SetValue(v, bitops.Mask[uint64](listPointerElemSizeLo, listPointerElemSizeHi), listPointerElemSizeLo, uint8(es))
	v = bitops.SetValue(v, bitops.Mask[uint64](listPointerCountLo, listPointerCountHi), listPointerCountLo, count)
	return rawPointer(v) | rawPointer(kindList)
}

// --- far pointer ---

func (p rawPointer) farIsDouble() bool {
	return bitops.GetBit(uint64(p), farPointerDoubleBit)
}

func (p rawPointer) farOffsetWords() uint32 {
	return bitops.GetValue[uint64, uint32](uint64(p), bitops.Mask[uint64](farPointerOffsetLo, farPointerOffsetHi), farPointerOffsetLo)
}

func (p rawPointer) farSegmentID() SegmentID {
	return SegmentID(bitops.GetValue[uint64, uint32](uint64(p), bitops.Mask[uint64](farPointerSegIDLo, farPointerSegIDHi), farPointerSegIDLo))
}

func makeFarPointer(double bool, offsetWords uint32, seg SegmentID) rawPointer {
	var v uint64
	v = bitops.SetBit(v, farPointerDoubleBit, double)
	v = bitops.SetValue(v, bitops.Mask[uint64](farPointerOffsetLo, farPointerOffsetHi), farPointerOffsetLo, offsetWords&0x1FFFFFFF)
	v = bitops.SetValue(v, bitops.Mask[uint64](farPointerSegIDLo, farPointerSegIDHi), farPointerSegIDLo, uint32(seg))
	return rawPointer(v) | rawPointer(kindFar)
}

// elemSize is the 3-bit list element-size code.
type elemSize uint8

const (
	esVoid      elemSize = 0
	esBit       elemSize = 1
	esByte      elemSize = 2
	es2Byte     elemSize = 3
	es4Byte     elemSize = 4
	es8Byte     elemSize = 5
	esPointer   elemSize = 6
	esComposite elemSize = 7
)

// bits returns the per-element bit width for fixed-size element kinds; it
// is meaningless for esComposite, whose layout instead comes from a tag
// word's dataWords/ptrWords.
func (e elemSize) bits() int {
	switch e {
	case esVoid:
		return 0
	case esBit:
		return 1
	case esByte:
		return 8
	case es2Byte:
		return 16
	case es4Byte:
		return 32
	case es8Byte, esPointer:
		return 64
	}
	return 0
}
