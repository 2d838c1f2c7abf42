package capnframe

import "fmt"

// NewStruct allocates a new struct with the given data/pointer section
// sizes in m, preferring to place it in pref (if non-nil and it has room).
func NewStruct(m *Message, pref *Segment, dataWords, ptrWords uint16) (Ptr, error) {
	return newStructIn(m, pref, dataWords, ptrWords)
}

// NewList allocates a new fixed-width-element list with count elements of
// bit width elemBits (0, 1, 8, 16, 32, or 64).
func NewList(m *Message, pref *Segment, elemBits int, count int) (Ptr, error) {
	es, err := elemSizeForBits(elemBits)
	if err != nil {
		return Ptr{}, err
	}
	n := listPayloadBytes(es, count)
	seg, off, err := m.allocate(pref, n)
	if err != nil {
		return Ptr{}, err
	}
	return Ptr{typ: TypeList, seg: seg, off: off, elemKind: es, size: int32(count)}, nil
}

// NewBitList allocates a new list of count 1-bit booleans, all false.
func NewBitList(m *Message, pref *Segment, count int) (Ptr, error) {
	return NewList(m, pref, 1, count)
}

// NewPtrList allocates a new list of count pointers, all initially null.
func NewPtrList(m *Message, pref *Segment, count int) (Ptr, error) {
	n := alignUp8(count * 8)
	seg, off, err := m.allocate(pref, n)
	if err != nil {
		return Ptr{}, err
	}
	return Ptr{typ: TypePtrList, seg: seg, off: off, elemKind: esPointer, size: int32(count)}, nil
}

// NewCompositeList allocates a new list of count structs, each with the
// given data/pointer section sizes, laid out contiguously after a tag word
// describing the per-element shape.
func NewCompositeList(m *Message, pref *Segment, dataWords, ptrWords uint16, count int) (Ptr, error) {
	stride := int(dataWords)*8 + int(ptrWords)*8
	n := 8 + count*stride
	seg, off, err := m.allocate(pref, n)
	if err != nil {
		return Ptr{}, err
	}
	writeRawPointerAt(seg, off, makeStructPointer(int32(count), dataWords, ptrWords))
	return Ptr{typ: TypeCompositeList, seg: seg, off: off, dataWords: dataWords, ptrWords: ptrWords, size: int32(count)}, nil
}

// NewString allocates a new NUL-terminated byte list holding s, matching
// Cap'n Proto's Text convention: the element count includes the trailing
// NUL, which Text() strips back off on read.
func NewString(m *Message, pref *Segment, s string) (Ptr, error) {
	n := alignUp8(len(s) + 1)
	seg, off, err := m.allocate(pref, n)
	if err != nil {
		return Ptr{}, err
	}
	copy(seg.buf[off:off+len(s)], s)
	return Ptr{typ: TypeList, seg: seg, off: off, elemKind: esByte, size: int32(len(s) + 1)}, nil
}

// NewData allocates a new byte list holding a copy of b, with no implied
// NUL terminator.
func NewData(m *Message, pref *Segment, b []byte) (Ptr, error) {
	n := alignUp8(len(b))
	seg, off, err := m.allocate(pref, n)
	if err != nil {
		return Ptr{}, err
	}
	copy(seg.buf[off:off+len(b)], b)
	return Ptr{typ: TypeList, seg: seg, off: off, elemKind: esByte, size: int32(len(b))}, nil
}

func elemSizeForBits(bits int) (elemSize, error) {
	switch bits {
	case 0:
		return esVoid, nil
	case 1:
		return esBit, nil
	case 8:
		return esByte, nil
	case 16:
		return es2Byte, nil
	case 32:
		return es4Byte, nil
	case 64:
		return es8Byte, nil
	default:
		return 0, fmt.Errorf("%w: %d is not a valid list element width", ErrWrongType, bits)
	}
}

func listPayloadBytes(es elemSize, count int) int {
	if es == esBit {
		return alignUp8((count + 7) / 8)
	}
	return alignUp8(count * (es.bits() / 8))
}
