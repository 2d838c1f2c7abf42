package capnframe

import (
	"fmt"

	"github.com/bearlytools/capnframe/internal/leconv"
)

// readRawPointerAt reads the 8-byte wire pointer word at byte offset off in
// seg. ok is false if off isn't 8-byte aligned or doesn't have 8 bytes
// available; the caller treats that as a null pointer rather than an
// error, per the read-path saturation rule.
func readRawPointerAt(seg *Segment, off int) (rawPointer, bool) {
	if seg == nil || off < 0 || off%8 != 0 || off+8 > len(seg.buf) {
		return 0, false
	}
	return rawPointer(leconv.Load64(seg.buf[off : off+8])), true
}

func writeRawPointerAt(seg *Segment, off int, raw rawPointer) {
	leconv.Store64(seg.buf[off:off+8], uint64(raw))
}

// derefPointer reads and fully resolves the pointer word at byte offset off
// in seg (following far/double-far indirection) into a typed Ptr. Any
// malformed or out-of-bounds input saturates to a null Ptr.
func derefPointer(seg *Segment, off int, isListMember bool) Ptr {
	raw, ok := readRawPointerAt(seg, off)
	if !ok || raw.isNull() {
		return Ptr{}
	}

	contentSeg, contentOff, shape, ok := resolveIndirection(seg, off, raw)
	if !ok {
		return Ptr{}
	}
	return buildPtr(contentSeg, contentOff, shape, isListMember)
}

// resolveIndirection follows at most one level of far-pointer indirection
// (single or double) and returns the segment/offset/shape-bearing word the
// caller should interpret as struct-or-list. For a struct or list pointer
// with no indirection, it just computes the absolute content offset from
// the relative offset field.
func resolveIndirection(seg *Segment, off int, raw rawPointer) (contentSeg *Segment, contentOff int, shape rawPointer, ok bool) {
	switch raw.kind() {
	case kindStruct, kindList:
		contentOff = off + 8 + int(raw.structOffsetWords())*8
		return seg, contentOff, raw, true
	case kindFar:
		m := seg.msg
		far2, err := m.LookupSegment(raw.farSegmentID())
		if err != nil {
			return nil, 0, 0, false
		}
		padOff := int(raw.farOffsetWords()) * 8
		if !raw.farIsDouble() {
			land, ok := readRawPointerAt(far2, padOff)
			if !ok || land.kind() == kindFar {
				return nil, 0, 0, false
			}
			contentOff = padOff + 8 + int(land.structOffsetWords())*8
			return far2, contentOff, land, true
		}
		wordA, ok := readRawPointerAt(far2, padOff)
		if !ok || wordA.kind() != kindFar || wordA.farIsDouble() {
			return nil, 0, 0, false
		}
		wordB, ok := readRawPointerAt(far2, padOff+8)
		if !ok {
			return nil, 0, 0, false
		}
		finalSeg, err := m.LookupSegment(wordA.farSegmentID())
		if err != nil {
			return nil, 0, 0, false
		}
		return finalSeg, int(wordA.farOffsetWords()) * 8, wordB, true
	default:
		return nil, 0, 0, false
	}
}

// buildPtr interprets shape (a struct or list pointer word, possibly read
// via far-pointer indirection) as a typed Ptr located at contentOff in
// contentSeg, checking section bounds along the way.
func buildPtr(contentSeg *Segment, contentOff int, shape rawPointer, isListMember bool) Ptr {
	if contentSeg == nil || contentOff < 0 || contentOff%8 != 0 {
		return Ptr{}
	}
	switch shape.kind() {
	case kindStruct:
		dw, pw := shape.structDataWords(), shape.structPtrWords()
		end := contentOff + int(dw)*8 + int(pw)*8
		if end > len(contentSeg.buf) {
			return Ptr{}
		}
		return Ptr{typ: TypeStruct, seg: contentSeg, off: contentOff, dataWords: dw, ptrWords: pw, size: 1, isListMember: isListMember}
	case kindList:
		es := shape.listElemSize()
		if es == esComposite {
			tag, ok := readRawPointerAt(contentSeg, contentOff)
			if !ok || tag.kind() != kindStruct {
				return Ptr{}
			}
			count := tag.structOffsetWords()
			if count < 0 {
				return Ptr{}
			}
			dw, pw := tag.structDataWords(), tag.structPtrWords()
			stride := int(dw)*8 + int(pw)*8
			end := contentOff + 8 + int(count)*stride
			if end > len(contentSeg.buf) {
				return Ptr{}
			}
			return Ptr{typ: TypeCompositeList, seg: contentSeg, off: contentOff, dataWords: dw, ptrWords: pw, size: count}
		}
		count := int32(shape.listCountField())
		var elemBytes int
		if es == esBit {
			elemBytes = 0
		} else {
			elemBytes = es.bits() / 8
		}
		end := contentOff + int(count)*elemBytes
		if es == esBit {
			end = contentOff + (int(count)+7)/8
		}
		if end > len(contentSeg.buf) {
			return Ptr{}
		}
		typ := TypeList
		if es == esPointer {
			typ = TypePtrList
		}
		return Ptr{typ: typ, seg: contentSeg, off: contentOff, elemKind: es, size: count}
	default:
		return Ptr{}
	}
}

// setPointerSlot encodes target into the 8-byte pointer word at byte
// offset slotOff in slotSeg. target must belong to the same Message as
// slotSeg (cross-message assignment is SetP's job, via copy.go, which
// deep-copies first and then calls this on the destination). A nil target
// clears the slot.
func setPointerSlot(slotSeg *Segment, slotOff int, target Ptr) error {
	if slotOff < 0 || slotOff%8 != 0 || slotOff+8 > len(slotSeg.buf) {
		return fmt.Errorf("%w: pointer slot at byte %d", ErrBounds, slotOff)
	}
	if target.IsNull() {
		writeRawPointerAt(slotSeg, slotOff, 0)
		return nil
	}
	if target.seg.msg != slotSeg.msg {
		return fmt.Errorf("%w: target belongs to a different Message; use SetP", ErrNotEncodable)
	}
	if target.isListMember {
		return fmt.Errorf("%w: target is element %v of a composite list", ErrListMemberBackPointer, target.off)
	}

	shape, shapeSeg, shapeOff, err := shapeWordFor(target)
	if err != nil {
		return err
	}

	if shapeSeg == slotSeg {
		offsetWords := (shapeOff - (slotOff + 8)) / 8
		if (shapeOff-(slotOff+8))%8 != 0 {
			return fmt.Errorf("%w: misaligned intra-segment pointer", ErrBounds)
		}
		if offsetWords < -(1<<29) || offsetWords >= (1<<29) {
			return relinkAsFar(slotSeg, slotOff, shapeSeg, shapeOff, shape)
		}
		writeRawPointerAt(slotSeg, slotOff, withOffset(shape, offsetWords))
		return nil
	}
	return relinkAsFar(slotSeg, slotOff, shapeSeg, shapeOff, shape)
}

// shapeWordFor builds the struct/list pointer word describing target's
// shape (not yet positioned relative to any particular slot), along with
// the segment/offset it actually lives at.
func shapeWordFor(target Ptr) (shape rawPointer, seg *Segment, off int, err error) {
	switch target.typ {
	case TypeStruct:
		return makeStructPointer(0, target.dataWords, target.ptrWords), target.seg, target.off, nil
	case TypeCompositeList:
		return makeListPointer(0, esComposite, uint32(target.size)*uint32(int(target.dataWords)+int(target.ptrWords))), target.seg, target.off, nil
	case TypeList, TypePtrList:
		return makeListPointer(0, target.elemKind, uint32(target.size)), target.seg, target.off, nil
	default:
		return 0, nil, 0, fmt.Errorf("%w: cannot encode Ptr of type %d", ErrNotEncodable, target.typ)
	}
}

func withOffset(shape rawPointer, offsetWords int) rawPointer {
	const offsetMask = rawPointer(0x3FFFFFFF) << 2
	return (shape &^ offsetMask) | (rawPointer(uint32(offsetWords)&0x3FFFFFFF) << 2)
}

// relinkAsFar writes a far pointer (or double-far, if a landing pad can't
// be placed directly in the content segment) at slotOff in slotSeg,
// pointing at content living at contentOff in contentSeg whose shape is
// described by shape.
func relinkAsFar(slotSeg *Segment, slotOff int, contentSeg *Segment, contentOff int, shape rawPointer) error {
	if padOff, ok := contentSeg.Allocate(8); ok {
		writeRawPointerAt(contentSeg, padOff, withOffset(shape, (contentOff-(padOff+8))/8))
		writeRawPointerAt(slotSeg, slotOff, makeFarPointer(false, uint32(padOff/8), contentSeg.id))
		return nil
	}

	padSeg, err := slotSeg.msg.NewSegment(16)
	if err != nil {
		return err
	}
	padOff, ok := padSeg.Allocate(16)
	if !ok {
		return fmt.Errorf("%w: could not reserve double-far landing pad", ErrAlloc)
	}
	writeRawPointerAt(padSeg, padOff, makeFarPointer(false, uint32(contentOff/8), contentSeg.id))
	writeRawPointerAt(padSeg, padOff+8, withOffset(shape, 0))
	writeRawPointerAt(slotSeg, slotOff, makeFarPointer(true, uint32(padOff/8), padSeg.id))
	return nil
}

// newStructIn allocates a fresh, zeroed struct of the given section sizes
// in seg (or a new segment, if seg has no room), returning a Ptr to it.
func newStructIn(m *Message, pref *Segment, dataWords, ptrWords uint16) (Ptr, error) {
	n := int(dataWords)*8 + int(ptrWords)*8
	seg, off, err := m.allocate(pref, n)
	if err != nil {
		return Ptr{}, err
	}
	return Ptr{typ: TypeStruct, seg: seg, off: off, dataWords: dataWords, ptrWords: ptrWords, size: 1}, nil
}

// Index returns element i of a composite list as a struct Ptr whose
// GetP/SetP and field accessors address that element's own data and
// pointer sections. Out-of-range i yields a null Ptr.
func (p Ptr) Index(i int) Ptr {
	if p.typ != TypeCompositeList || i < 0 || i >= int(p.size) {
		return Ptr{}
	}
	return Ptr{
		typ: TypeStruct, seg: p.seg, off: p.compositeElementOffset(i),
		dataWords: p.dataWords, ptrWords: p.ptrWords, size: 1, isListMember: true,
	}
}

// GetP reads pointer slot i (0-indexed) of a struct's pointer section, or
// element i of a pointer list, resolving indirection as needed. Out-of-
// range i or a non-struct/non-pointer-list Ptr yields a null Ptr.
//
// The Ptr this returns is never itself a composite-list member: that flag
// is reserved for the direct result of Index, naming the i'th struct
// embedded in a composite list. A struct's own pointer-section children
// and a pointer list's elements are ordinary objects reached through real
// wire pointers, regardless of whether p itself came from Index.
func (p Ptr) GetP(i int) Ptr {
	switch p.typ {
	case TypeStruct:
		if i < 0 || i >= int(p.ptrWords) {
			return Ptr{}
		}
		return derefPointer(p.seg, p.ptrSectionOffset()+i*8, false)
	case TypePtrList:
		if i < 0 || i >= int(p.size) {
			return Ptr{}
		}
		return derefPointer(p.seg, p.off+i*8, false)
	default:
		return Ptr{}
	}
}

// SetP writes target into pointer slot i of a struct, or element i of a
// pointer list. A target in another Segment of the same Message is linked
// in place, through a far pointer if needed. If target belongs to a
// different Message, SetP deep-copies it into p's Message first (see
// copy.go), preserving shared-structure
// identity across repeated copies of the same source Ptr within one SetP
// traversal.
func (p Ptr) SetP(i int, target Ptr) error {
	slotOff, err := p.ptrSlotOffset(i)
	if err != nil {
		return err
	}
	if target.IsNull() {
		writeRawPointerAt(p.seg, slotOff, 0)
		return nil
	}
	if target.Message() == p.Message() {
		return setPointerSlot(p.seg, slotOff, target)
	}
	dst := p.Message()
	dst.resetCopyTree()
	copied, err := deepCopy(dst, target)
	if err != nil {
		return err
	}
	return setPointerSlot(p.seg, slotOff, copied)
}

func (p Ptr) ptrSlotOffset(i int) (int, error) {
	switch p.typ {
	case TypeStruct:
		if i < 0 || i >= int(p.ptrWords) {
			return 0, fmt.Errorf("%w: pointer slot %d", ErrOutOfRange, i)
		}
		return p.ptrSectionOffset() + i*8, nil
	case TypePtrList:
		if i < 0 || i >= int(p.size) {
			return 0, fmt.Errorf("%w: pointer list element %d", ErrOutOfRange, i)
		}
		return p.off + i*8, nil
	default:
		return 0, fmt.Errorf("%w: Ptr of type %d has no pointer slots", ErrWrongType, p.typ)
	}
}
