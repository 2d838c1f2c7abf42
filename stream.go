package capnframe

import (
	"fmt"

	"github.com/bearlytools/capnframe/internal/leconv"
	"github.com/gostdlib/base/context"
)

// maxStreamSegments bounds how many segments NewMessageFromBytes will
// honor from an untrusted segment-count header, so a corrupt or hostile
// 4-byte count can't make the decoder try to read a gigantic segment
// table before any other validation happens.
const maxStreamSegments = 1 << 16

// MarshalUnpacked encodes m in Cap'n Proto's unpacked stream format: a
// little-endian segment table (segment count minus one, then each
// segment's length in words, padded to 8 bytes) followed by the segments
// themselves, concatenated in order.
func (m *Message) MarshalUnpacked() ([]byte, error) {
	if len(m.segments) == 0 {
		return nil, fmt.Errorf("capnframe: cannot marshal a Message with no segments")
	}
	headerLen := alignUp8(4 + 4*len(m.segments))
	total := headerLen
	for _, seg := range m.segments {
		total += seg.Len()
	}

	out := make([]byte, total)
	leconv.Store32(out[0:4], uint32(len(m.segments)-1))
	for i, seg := range m.segments {
		leconv.Store32(out[4+4*i:8+4*i], uint32(seg.Len()/8))
	}

	o := headerLen
	for _, seg := range m.segments {
		copy(out[o:o+seg.Len()], seg.Data())
		o += seg.Len()
	}
	return out, nil
}

// NewMessageFromBytes decodes an unpacked-stream-encoded message. The
// returned Message's existing segments alias data directly (no copy): they
// report Len() == Cap(), so any further allocation always lands in a new,
// heap-backed segment rather than mutating the caller's buffer in place.
func NewMessageFromBytes(ctx context.Context, data []byte) (*Message, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: stream shorter than the segment count field", ErrMisalignedStream)
	}
	segCount := int(leconv.Load32(data[0:4])) + 1
	if segCount <= 0 || segCount > maxStreamSegments {
		return nil, fmt.Errorf("%w: %d segments", ErrTooManySegments, segCount)
	}
	headerLen := alignUp8(4 + 4*segCount)
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: truncated segment table", ErrMisalignedStream)
	}

	lengths := make([]int, segCount)
	o := headerLen
	for i := 0; i < segCount; i++ {
		words := int(leconv.Load32(data[4+4*i : 8+4*i]))
		lengths[i] = words * 8
		o += lengths[i]
	}
	if o > len(data) {
		return nil, fmt.Errorf("%w: segment table declares more bytes than the stream has", ErrMisalignedStream)
	}

	m := NewMessage(ctx)
	o = headerLen
	for i := 0; i < segCount; i++ {
		buf := data[o : o+lengths[i]]
		seg := &Segment{msg: m, id: SegmentID(i), buf: buf, used: len(buf)}
		m.registerSegment(seg)
		o += lengths[i]
	}
	return m, nil
}
