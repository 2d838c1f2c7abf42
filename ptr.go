package capnframe

// PtrType classifies what a Ptr refers to.
type PtrType uint8

const (
	// TypeNull is the zero value of Ptr: a reference to nothing.
	TypeNull PtrType = iota
	// TypeStruct references a struct's data+pointer sections.
	TypeStruct
	// TypeList references a list of a fixed-width element kind
	// (void/bit/byte/2-byte/4-byte/8-byte), including byte lists used
	// for Text/Data.
	TypeList
	// TypeCompositeList references a list of structs, each with its own
	// data+pointer sections as described by a leading tag word.
	TypeCompositeList
	// TypePtrList references a list of pointers.
	TypePtrList
)

// Ptr is a non-owning typed handle into a Message: it names a Segment, a
// byte offset within it, and enough shape information (section sizes,
// element kind, element count) to read or write through it without
// re-deriving that shape from the wire pointer each time. A zero Ptr is
// null and safe to use for reads: every read accessor saturates to zero on
// a null or malformed Ptr rather than erroring.
type Ptr struct {
	typ PtrType
	seg *Segment
	// off is the byte offset of the data/payload section: for a struct,
	// where its data section starts; for a list, where its first
	// element (or the tag word, for a composite list) starts.
	off int

	dataWords uint16
	ptrWords  uint16

	elemKind elemSize
	size     int32 // element count for lists; 1 for a struct, 0 for null

	// isListMember is true when this Ptr denotes the i'th element of a
	// composite list rather than a freestanding struct: its pointer
	// section physically belongs to the list and must not be
	// independently relocated by SetP on some *other* slot.
	isListMember bool
}

// IsNull reports whether p references nothing.
func (p Ptr) IsNull() bool { return p.typ == TypeNull || p.seg == nil }

// Type returns p's shape classification.
func (p Ptr) Type() PtrType { return p.typ }

// Segment returns the segment p's data lives in, or nil for a null Ptr.
func (p Ptr) Segment() *Segment { return p.seg }

// Message returns the owning Message, or nil for a null Ptr.
func (p Ptr) Message() *Message {
	if p.seg == nil {
		return nil
	}
	return p.seg.msg
}

// StructSize returns the struct's data and pointer section sizes in words.
// For a composite list it returns each element's sizes; zero for any other
// Ptr.
func (p Ptr) StructSize() (dataWords, ptrWords uint16) {
	if p.typ != TypeStruct && p.typ != TypeCompositeList {
		return 0, 0
	}
	return p.dataWords, p.ptrWords
}

// Len returns the element count of a list Ptr, or 0 otherwise.
func (p Ptr) Len() int {
	switch p.typ {
	case TypeList, TypeCompositeList, TypePtrList:
		return int(p.size)
	}
	return 0
}

// ElementSize reports the fixed element width in bits for a TypeList Ptr
// (0 for composite/pointer lists, whose element shape isn't fixed-width).
func (p Ptr) ElementSize() int {
	if p.typ != TypeList {
		return 0
	}
	return p.elemKind.bits()
}

// dataSectionBytes is the struct/composite-element data section size.
func (p Ptr) dataSectionBytes() int { return int(p.dataWords) * 8 }

// ptrSectionOffset is the byte offset where the pointer section begins,
// relative to the segment's start, for a struct or composite-list element.
func (p Ptr) ptrSectionOffset() int { return p.off + p.dataSectionBytes() }

// structStride is the byte size of one composite-list element (its data
// section plus its pointer section).
func (p Ptr) structStride() int {
	return int(p.dataWords)*8 + int(p.ptrWords)*8
}

// elementOffset returns the byte offset of element i for a non-composite
// list Ptr. Only meaningful when p.elemKind is not esBit (bit lists are
// addressed by bit, not byte; see Get1/Set1 in list.go).
func (p Ptr) elementOffset(i int) int {
	return p.off + i*(p.elemKind.bits()/8)
}

// compositeElementOffset returns the byte offset of element i's data
// section for a TypeCompositeList Ptr. Element 0 begins immediately after
// the tag word.
func (p Ptr) compositeElementOffset(i int) int {
	return p.off + 8 + i*p.structStride()
}
