package packed

import (
	"fmt"
	"io"

	"github.com/gostdlib/base/context"
	"github.com/klauspost/compress/zstd"
)

// NewZstdWriter composes a packed Writer with an outer zstd stream: bytes
// written are packed first, then zstd-compressed, then written to w. This
// is purely additive (nothing in the packed codec itself depends on
// zstd) for callers who archive or transmit packed messages and want
// general-purpose compression on top of Cap'n Proto's own zero-elision,
// the same way a log shipper might gzip an already-structured payload.
//
// The returned io.WriteCloser's Close flushes and closes both layers; it
// must be called or the zstd trailer will be missing.
func NewZstdWriter(ctx context.Context, w io.Writer) (io.WriteCloser, error) {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("packed: opening zstd writer: %w", err)
	}
	return &zstdPackedWriter{pw: NewWriter(ctx, zw), zw: zw}, nil
}

type zstdPackedWriter struct {
	pw *Writer
	zw *zstd.Encoder
}

func (z *zstdPackedWriter) Write(p []byte) (int, error) { return z.pw.Write(p) }

func (z *zstdPackedWriter) Close() error {
	if err := z.pw.Close(); err != nil {
		return err
	}
	return z.zw.Close()
}

// NewZstdReader composes a packed Reader with an outer zstd decompressor:
// bytes are zstd-decompressed, then unpacked, as they're read. The zstd
// decoder it opens internally is released when Close is called.
func NewZstdReader(ctx context.Context, r io.Reader) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("packed: opening zstd reader: %w", err)
	}
	return &zstdPackedReader{pr: NewReader(ctx, zr), zr: zr}, nil
}

type zstdPackedReader struct {
	pr *Reader
	zr *zstd.Decoder
}

func (z *zstdPackedReader) Read(p []byte) (int, error) { return z.pr.Read(p) }

func (z *zstdPackedReader) Close() error {
	z.zr.Close()
	return nil
}
