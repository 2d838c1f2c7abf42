package capnframe

import "fmt"

// Text reads p as a NUL-terminated byte list and returns its contents
// without the trailing NUL. A null or non-byte-list Ptr reads as "".
func (p Ptr) Text() string {
	if p.typ != TypeList || p.elemKind != esByte || p.size == 0 {
		return ""
	}
	b := p.seg.buf[p.off : p.off+int(p.size)]
	if b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}

// Data reads p as a byte list and returns a copy of its contents. A null
// or non-byte-list Ptr reads as nil.
func (p Ptr) Data() []byte {
	if p.typ != TypeList || p.elemKind != esByte {
		return nil
	}
	out := make([]byte, p.size)
	copy(out, p.seg.buf[p.off:p.off+int(p.size)])
	return out
}

// SetText allocates a new string in the same message as p and writes its
// pointer into slot i, matching SetP's cross-message copy semantics (a
// direct assignment, since a new string Ptr is always created locally).
func (p Ptr) SetText(i int, s string) error {
	sp, err := NewString(p.Message(), p.seg, s)
	if err != nil {
		return fmt.Errorf("capnframe: SetText: %w", err)
	}
	return p.SetP(i, sp)
}

// SetData allocates a new byte list in the same message as p holding a
// copy of b, and writes its pointer into slot i.
func (p Ptr) SetData(i int, b []byte) error {
	dp, err := NewData(p.Message(), p.seg, b)
	if err != nil {
		return fmt.Errorf("capnframe: SetData: %w", err)
	}
	return p.SetP(i, dp)
}
