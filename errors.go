package capnframe

import "errors"

// Sentinel errors returned by mutating operations. Read paths never return
// an error; they saturate to the zero value or a null Ptr on malformed or
// out-of-range input, per the wire-safety guarantee the core makes to its
// callers.
var (
	// ErrOutOfRange is returned by a Write/Set call whose offset plus value
	// size would exceed the target section.
	ErrOutOfRange = errors.New("capnframe: offset out of range for section")

	// ErrWrongType is returned when an operation is attempted against a
	// Ptr whose Type() doesn't support it (e.g. SetP on a Ptr to a byte
	// list).
	ErrWrongType = errors.New("capnframe: operation not valid for this Ptr's type")

	// ErrAlloc is returned when a segment's create callback fails or
	// returns a buffer smaller than requested.
	ErrAlloc = errors.New("capnframe: segment allocation failed")

	// ErrNotEncodable is returned by SetP when the target cannot be
	// represented as a pointer from the parent's slot (e.g. a target whose
	// PtrType has no wire encoding).
	ErrNotEncodable = errors.New("capnframe: pointer target not encodable")

	// ErrListMemberBackPointer is returned when a caller attempts to point
	// a pointer slot at a struct that is itself the i'th element of a
	// composite list. Writing into that element's own pointer slots is
	// allowed.
	ErrListMemberBackPointer = errors.New("capnframe: cannot write back-pointer of a composite list member")

	// ErrNoAllocator is returned when a message has no create callback
	// and an allocation is required.
	ErrNoAllocator = errors.New("capnframe: message has no segment allocator")

	// ErrBounds is returned when a dereferenced region would fall outside
	// its segment, or isn't 8-byte aligned, during an operation that
	// (unlike plain navigation) must report the failure rather than
	// silently yield a null Ptr.
	ErrBounds = errors.New("capnframe: pointer target out of segment bounds")

	// ErrTooManySegments is returned by the unpacked-stream decoder when
	// a message declares more segments than maxStreamSegments.
	ErrTooManySegments = errors.New("capnframe: too many segments in stream")

	// ErrMisalignedStream is returned by the unpacked-stream decoder when
	// the stream is too short to hold its segment count, its segment
	// table, or the segment bytes that table declares.
	ErrMisalignedStream = errors.New("capnframe: stream is not 8-byte aligned")
)
