package packed

import (
	"bytes"
	"testing"
)

func TestDeflateInflateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{name: "Success: all zero words", src: make([]byte, 32)},
		{name: "Success: all nonzero words", src: bytes.Repeat([]byte{1}, 32)},
		{name: "Success: mixed sparse word", src: []byte{0, 0, 3, 0, 0, 0, 0, 9}},
		{name: "Success: long raw run", src: bytes.Repeat([]byte{0xAB}, 8*300)},
		{name: "Success: long zero run", src: make([]byte, 8*300)},
		{name: "Success: empty", src: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s Stream
			packed := make([]byte, len(tc.src)*2+16)
			nIn, nOut, err := s.Deflate(packed, tc.src, true)
			if err != nil {
				t.Fatalf("Deflate: %v", err)
			}
			if nIn != len(tc.src) {
				t.Fatalf("Deflate consumed %d bytes, want %d", nIn, len(tc.src))
			}

			unpacked := make([]byte, len(tc.src))
			nIn2, nOut2, err := s.Inflate(unpacked, packed[:nOut], true)
			if err != nil {
				t.Fatalf("Inflate: %v", err)
			}
			if nIn2 != nOut {
				t.Fatalf("Inflate consumed %d packed bytes, want %d", nIn2, nOut)
			}
			if nOut2 != len(tc.src) {
				t.Fatalf("Inflate produced %d bytes, want %d", nOut2, len(tc.src))
			}
			if !bytes.Equal(unpacked, tc.src) {
				t.Fatalf("round trip mismatch: got %v, want %v", unpacked, tc.src)
			}
		})
	}
}

func TestDeflateMisalignedFinalChunk(t *testing.T) {
	var s Stream
	dst := make([]byte, 32)
	_, _, err := s.Deflate(dst, []byte{1, 2, 3}, true)
	if err != ErrMisaligned {
		t.Fatalf("Deflate of a ragged final chunk: err = %v, want ErrMisaligned", err)
	}
}

func TestDeflateNeedsMoreInputWhenNotFinal(t *testing.T) {
	var s Stream
	dst := make([]byte, 32)
	nIn, _, err := s.Deflate(dst, []byte{1, 2, 3}, false)
	if err != ErrNeedMoreInput {
		t.Fatalf("Deflate of a ragged non-final chunk: err = %v, want ErrNeedMoreInput", err)
	}
	if nIn != 0 {
		t.Fatalf("Deflate should not consume a partial word, got nIn=%d", nIn)
	}
}

func TestDeflateNeedsMoreOutput(t *testing.T) {
	var s Stream
	src := bytes.Repeat([]byte{1}, 16)
	dst := make([]byte, 1)
	_, _, err := s.Deflate(dst, src, true)
	if err != ErrNeedMoreOutput {
		t.Fatalf("err = %v, want ErrNeedMoreOutput", err)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	src := append(bytes.Repeat([]byte{0}, 16), bytes.Repeat([]byte{0x42}, 800)...)

	var buf bytes.Buffer
	w := NewWriter(testCtx(), &buf)
	if _, err := w.Write(src[:10]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write(src[10:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := NewReader(testCtx(), &buf)
	got := make([]byte, len(src))
	off := 0
	for off < len(got) {
		n, err := r.Read(got[off : off+8])
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		off += n
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch")
	}
}
