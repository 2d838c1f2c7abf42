// Package capnframe implements the Cap'n Proto wire format: a segment
// arena and pointer model for reading and building messages without a
// decode pass, typed accessors over struct fields and lists, a
// deep-copy/far-pointer builder for assigning pointers across segments and
// messages, and encoding/decoding of the unpacked wire stream. The packed
// variant of the stream lives in the sibling packed package.
//
// A Message owns an ordered set of Segments and is not safe for concurrent
// use; build one message per goroutine. Reads never fail: a malformed or
// out-of-range pointer, field, or list access saturates to the zero value
// or a null Ptr. Writes return an error instead of the wire format's
// historical -1/status-code convention.
package capnframe
