package packed

import "math/bits"

// Stream is a resumable packer/unpacker: Deflate and Inflate each consume
// as much of src as they can and write as much of dst as fits, returning
// how much of each they used. A caller driving a large buffer through a
// small fixed window calls in a loop exactly as it would against
// compress/flate, feeding the unconsumed remainder of src back in on the
// next call together with nIn/nOut already progressed.
//
// Stream itself carries no buffered state between calls. All the state
// that matters (how many bytes of the logical stream have been
// produced/consumed) is entirely captured by the nIn/nOut the caller
// tracks, so the zero value is ready to use and one Stream can freely be
// reused across unrelated buffers.
type Stream struct{}

// Deflate packs src into dst, returning the number of src bytes consumed
// and dst bytes produced. final tells Deflate this is the last chunk of a
// logical stream: a ragged (non-multiple-of-8) tail is then reported as
// ErrMisaligned rather than ErrNeedMoreInput.
func (Stream) Deflate(dst, src []byte, final bool) (nIn, nOut int, err error) {
	i, o := 0, 0
	for i+8 <= len(src) {
		word := src[i : i+8]
		if allZero(word) {
			run := 1
			for run < 256 && i+run*8+8 <= len(src) && allZero(src[i+run*8:i+run*8+8]) {
				run++
			}
			if len(dst)-o < 2 {
				return i, o, ErrNeedMoreOutput
			}
			dst[o] = 0
			dst[o+1] = byte(run - 1)
			o += 2
			i += run * 8
			continue
		}

		tag := computeTag(word)
		n := bits.OnesCount8(tag)
		need := 1 + n
		if tag == 0xFF {
			need++ // the raw-run count byte
		}
		if len(dst)-o < need {
			return i, o, ErrNeedMoreOutput
		}
		dst[o] = tag
		o++
		for b := 0; b < 8; b++ {
			if word[b] != 0 {
				dst[o] = word[b]
				o++
			}
		}
		i += 8

		if tag == 0xFF {
			run := 0
			for run < 255 && i+run*8+8 <= len(src) && isAllNonzero(src[i+run*8:i+run*8+8]) {
				run++
			}
			maxByOutput := (len(dst) - o - 1) / 8
			if maxByOutput < 0 {
				return i, o, ErrNeedMoreOutput
			}
			if run > maxByOutput {
				run = maxByOutput
			}
			dst[o] = byte(run)
			o++
			copy(dst[o:o+run*8], src[i:i+run*8])
			o += run * 8
			i += run * 8
		}
	}
	if i < len(src) {
		if final {
			return i, o, ErrMisaligned
		}
		return i, o, ErrNeedMoreInput
	}
	return i, o, nil
}

// Inflate unpacks src into dst, returning the number of src bytes consumed
// and dst bytes produced. final has the same end-of-stream meaning as in
// Deflate.
func (Stream) Inflate(dst, src []byte, final bool) (nIn, nOut int, err error) {
	i, o := 0, 0
	for i < len(src) {
		tag := src[i]

		if tag == 0 {
			if i+1 >= len(src) {
				return ndRes(i, o, final)
			}
			run := int(src[i+1]) + 1
			need := run * 8
			if len(dst)-o < need {
				return i, o, ErrNeedMoreOutput
			}
			clear(dst[o : o+need])
			o += need
			i += 2
			continue
		}

		n := bits.OnesCount8(tag)
		if i+1+n > len(src) {
			return ndRes(i, o, final)
		}
		// A 0xFF group (word, run count and raw words) is consumed whole or
		// not at all, so a caller resuming from nIn never starts mid-group.
		need := 8
		if tag == 0xFF {
			if i+1+n >= len(src) {
				return ndRes(i, o, final)
			}
			raw := int(src[i+1+n]) * 8
			if i+2+n+raw > len(src) {
				return ndRes(i, o, final)
			}
			need += raw
		}
		if len(dst)-o < need {
			return i, o, ErrNeedMoreOutput
		}
		lit := src[i+1 : i+1+n]
		li := 0
		for b := 0; b < 8; b++ {
			if tag&(1<<uint(b)) != 0 {
				dst[o+b] = lit[li]
				li++
			} else {
				dst[o+b] = 0
			}
		}
		o += 8
		i += 1 + n

		if tag == 0xFF {
			if i >= len(src) {
				return ndRes(i, o, final)
			}
			run := int(src[i])
			need := run * 8
			if i+1+need > len(src) {
				return ndRes(i, o, final)
			}
			if len(dst)-o < need {
				return i, o, ErrNeedMoreOutput
			}
			copy(dst[o:o+need], src[i+1:i+1+need])
			o += need
			i += 1 + need
		}
	}
	return i, o, nil
}

func ndRes(i, o int, final bool) (int, int, error) {
	if final {
		return i, o, ErrMisaligned
	}
	return i, o, ErrNeedMoreInput
}

func allZero(w []byte) bool {
	for _, b := range w {
		if b != 0 {
			return false
		}
	}
	return true
}

func isAllNonzero(w []byte) bool {
	for _, b := range w {
		if b == 0 {
			return false
		}
	}
	return true
}

func computeTag(w []byte) byte {
	var t byte
	for i, b := range w {
		if b != 0 {
			t |= 1 << uint(i)
		}
	}
	return t
}
