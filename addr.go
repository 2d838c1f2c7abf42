package capnframe

import "unsafe"

// uintptrOf returns the address of b's backing array's first element, or 0
// for a nil/empty slice. Used only to key the address-ordered segment index
// on Message; never dereferenced as a pointer.
func uintptrOf(b []byte) uintptr {
	p := unsafe.SliceData(b)
	if p == nil {
		return 0
	}
	return uintptr(unsafe.Pointer(p))
}
