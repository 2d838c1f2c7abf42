package capnframe

import "testing"

func TestStructPointerRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		offset    int32
		dataWords uint16
		ptrWords  uint16
	}{
		{name: "Success: zero offset zero sections", offset: 0, dataWords: 0, ptrWords: 0},
		{name: "Success: positive offset with sections", offset: 5, dataWords: 2, ptrWords: 3},
		{name: "Success: negative offset", offset: -17, dataWords: 1, ptrWords: 1},
		{name: "Success: max sized sections", offset: 0, dataWords: 0xFFFF, ptrWords: 0xFFFF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := makeStructPointer(tc.offset, tc.dataWords, tc.ptrWords)
			if raw.kind() != kindStruct {
				t.Fatalf("kind() = %v, want kindStruct", raw.kind())
			}
			if got := raw.structOffsetWords(); got != tc.offset {
				t.Errorf("structOffsetWords() = %d, want %d", got, tc.offset)
			}
			if got := raw.structDataWords(); got != tc.dataWords {
				t.Errorf("structDataWords() = %d, want %d", got, tc.dataWords)
			}
			if got := raw.structPtrWords(); got != tc.ptrWords {
				t.Errorf("structPtrWords() = %d, want %d", got, tc.ptrWords)
			}
		})
	}
}

func TestListPointerRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		offset int32
		es     elemSize
		count  uint32
	}{
		{name: "Success: byte list", offset: 3, es: esByte, count: 10},
		{name: "Success: pointer list", offset: 0, es: esPointer, count: 1},
		{name: "Success: composite list word count", offset: -4, es: esComposite, count: 500},
		{name: "Success: max count", offset: 0, es: es8Byte, count: (1 << 29) - 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := makeListPointer(tc.offset, tc.es, tc.count)
			if raw.kind() != kindList {
				t.Fatalf("kind() = %v, want kindList", raw.kind())
			}
			if got := raw.listOffsetWords(); got != tc.offset {
				t.Errorf("listOffsetWords() = %d, want %d", got, tc.offset)
			}
			if got := raw.listElemSize(); got != tc.es {
				t.Errorf("listElemSize() = %d, want %d", got, tc.es)
			}
			if got := raw.listCountField(); got != tc.count {
				t.Errorf("listCountField() = %d, want %d", got, tc.count)
			}
		})
	}
}

func TestFarPointerRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		double bool
		offset uint32
		seg    SegmentID
	}{
		{name: "Success: single far pointer", double: false, offset: 12, seg: 3},
		{name: "Success: double far pointer", double: true, offset: 0, seg: 0},
		{name: "Success: max offset and segment", double: false, offset: (1 << 29) - 1, seg: 0xFFFFFFFF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := makeFarPointer(tc.double, tc.offset, tc.seg)
			if raw.kind() != kindFar {
				t.Fatalf("kind() = %v, want kindFar", raw.kind())
			}
			if got := raw.farIsDouble(); got != tc.double {
				t.Errorf("farIsDouble() = %v, want %v", got, tc.double)
			}
			if got := raw.farOffsetWords(); got != tc.offset {
				t.Errorf("farOffsetWords() = %d, want %d", got, tc.offset)
			}
			if got := raw.farSegmentID(); got != tc.seg {
				t.Errorf("farSegmentID() = %d, want %d", got, tc.seg)
			}
		})
	}
}

func TestNullPointerIsZero(t *testing.T) {
	var raw rawPointer
	if !raw.isNull() {
		t.Fatalf("zero rawPointer should be null")
	}
}
