// Package packed implements Cap'n Proto's packed stream encoding: a
// byte-oriented run-length scheme over 8-byte words that collapses runs of
// zero words to two bytes and omits the zero bytes within a mostly-zero
// word, without touching words that are already dense with data.
package packed

import "errors"

var (
	// ErrNeedMoreInput is returned by Inflate/Deflate when src ends in
	// the middle of a tag group (a partial word, a missing run-count
	// byte, or literal bytes cut short) and more input is expected.
	// This is the Go equivalent of the reference packer's CAPN_NEED_MORE
	// on the input side.
	ErrNeedMoreInput = errors.New("packed: need more input")

	// ErrNeedMoreOutput is returned when dst doesn't have room for the
	// next complete tag group. The caller should flush dst and call
	// again with nIn/nOut already consumed.
	ErrNeedMoreOutput = errors.New("packed: need more output space")

	// ErrMisaligned is returned when final is true and src ends mid-word
	// (Deflate) or mid-tag-group (Inflate) with no more input coming:
	// the stream is not a valid whole number of 8-byte words.
	ErrMisaligned = errors.New("packed: stream ends misaligned")
)
