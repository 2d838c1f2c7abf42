package capnframe

import "testing"

func TestMarshalUnpackedRoundTrip(t *testing.T) {
	m := NewMessage(testCtx())
	root, err := m.NewRootStruct(1, 1)
	if err != nil {
		t.Fatalf("NewRootStruct: %v", err)
	}
	if err := root.Write64(0, 0x1122334455667788, 0); err != nil {
		t.Fatalf("Write64: %v", err)
	}
	if err := root.SetText(0, "round trip"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	bs, err := m.MarshalUnpacked()
	if err != nil {
		t.Fatalf("MarshalUnpacked: %v", err)
	}

	m2, err := NewMessageFromBytes(testCtx(), bs)
	if err != nil {
		t.Fatalf("NewMessageFromBytes: %v", err)
	}
	root2 := m2.Root()
	if got := root2.Read64(0, 0); got != 0x1122334455667788 {
		t.Errorf("Read64() = %x, want 1122334455667788", got)
	}
	if got := root2.GetP(0).Text(); got != "round trip" {
		t.Errorf("Text() = %q, want %q", got, "round trip")
	}
}

func TestMarshalUnpackedMultiSegment(t *testing.T) {
	m := NewMessage(testCtx())
	root, err := m.NewRootStruct(0, 1)
	if err != nil {
		t.Fatalf("NewRootStruct: %v", err)
	}
	seg2, err := m.NewSegment(32)
	if err != nil {
		t.Fatalf("NewSegment: %v", err)
	}
	child, err := NewStruct(m, seg2, 1, 0)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if err := child.Write32(0, 7, 0); err != nil {
		t.Fatalf("Write32: %v", err)
	}
	if err := root.SetP(0, child); err != nil {
		t.Fatalf("SetP: %v", err)
	}

	bs, err := m.MarshalUnpacked()
	if err != nil {
		t.Fatalf("MarshalUnpacked: %v", err)
	}
	m2, err := NewMessageFromBytes(testCtx(), bs)
	if err != nil {
		t.Fatalf("NewMessageFromBytes: %v", err)
	}
	if m2.NumSegments() != m.NumSegments() {
		t.Fatalf("NumSegments() = %d, want %d", m2.NumSegments(), m.NumSegments())
	}
	if got := m2.Root().GetP(0).Read32(0, 0); got != 7 {
		t.Errorf("Read32() = %d, want 7", got)
	}
}

func TestNewMessageFromBytesRejectsTruncatedHeader(t *testing.T) {
	if _, err := NewMessageFromBytes(testCtx(), []byte{1, 2, 3}); err == nil {
		t.Fatalf("expected an error decoding a too-short stream")
	}
}
