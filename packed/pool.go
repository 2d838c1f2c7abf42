package packed

import (
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
)

// Buffer wraps a reusable byte slice. Writer draws its packed-output
// scratch buffer from bufferPool and returns it on Close, the same pooling
// convention as the teacher's languages/go/pack.Buffer. Reader does not use
// the pool.
type Buffer struct {
	data []byte
}

// Bytes returns the buffer's current contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Reset implements the Resetter interface for sync.Pool.
func (b *Buffer) Reset() { b.data = b.data[:0] }

var bufferPool = sync.NewPool[*Buffer](
	context.Background(),
	"packed.bufferPool",
	func() *Buffer {
		return &Buffer{data: make([]byte, 0, 4096)}
	},
)

func getBuffer(ctx context.Context, size int) *Buffer {
	b := bufferPool.Get(ctx)
	if cap(b.data) < size {
		b.data = make([]byte, size)
	} else {
		b.data = b.data[:size]
	}
	return b
}

func putBuffer(ctx context.Context, b *Buffer) {
	bufferPool.Put(ctx, b)
}
