package capnframe

import (
	"fmt"

	"github.com/gostdlib/base/context"
	"golang.org/x/sync/errgroup"
)

// CopyStructsConcurrently deep-copies a slice of independent source Ptrs,
// for example the elements of a composite list being merged in from
// several other messages, into dst. The expensive per-element copy (which
// allocates and touches only its own scratch Message) runs across
// goroutines, then a final single-threaded splice links the results into
// dst.
//
// This is the one place in the package that fans a copy out across
// goroutines: a Message is otherwise confined to one goroutine at a time,
// and that still holds here. Each worker owns a private scratch Message
// nothing else touches, and only the splice step, which runs on the
// calling goroutine, touches dst.
func CopyStructsConcurrently(ctx context.Context, dst *Message, srcs []Ptr) ([]Ptr, error) {
	dst.resetCopyTree()
	scratchResults := make([]Ptr, len(srcs))

	g, _ := errgroup.WithContext(ctx)
	for i, src := range srcs {
		i, src := i, src
		g.Go(func() error {
			if src.IsNull() {
				return nil
			}
			scratch := NewMessage(ctx)
			p, err := deepCopy(scratch, src)
			if err != nil {
				return fmt.Errorf("capnframe: concurrent copy of element %d: %w", i, err)
			}
			scratchResults[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	final := make([]Ptr, len(srcs))
	for i, p := range scratchResults {
		if p.IsNull() {
			continue
		}
		fp, err := deepCopy(dst, p)
		if err != nil {
			return nil, fmt.Errorf("capnframe: splicing element %d into destination: %w", i, err)
		}
		final[i] = fp
	}
	return final, nil
}
