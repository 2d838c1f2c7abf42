package packed

import (
	"fmt"
	"io"

	"github.com/gostdlib/base/context"
)

// Writer packs bytes written to it and forwards the packed form to an
// underlying io.Writer, the same composable streaming shape as
// compress/flate's Writer. Callers may write in any chunk size; each Write
// forwards every complete word's packed form immediately, and a trailing
// partial word is held back and completed by a later Write. Close reports
// ErrMisaligned if a partial word is still held, and releases the scratch
// buffer.
type Writer struct {
	ctx     context.Context
	w       io.Writer
	s       Stream
	pending []byte
	out     *Buffer
	closed  bool
}

// NewWriter returns a Writer that packs its input and writes the packed
// stream to w.
func NewWriter(ctx context.Context, w io.Writer) *Writer {
	return &Writer{ctx: ctx, w: w, out: getBuffer(ctx, 4096)}
}

// Write packs p (prefixed with any carried-over partial word from a prior
// call) and writes the result to the underlying writer.
func (pw *Writer) Write(p []byte) (int, error) {
	total := len(p)
	data := p
	if len(pw.pending) > 0 {
		data = append(append([]byte(nil), pw.pending...), p...)
		pw.pending = nil
	}

	for len(data) > 0 {
		nIn, nOut, err := pw.s.Deflate(pw.out.data[:cap(pw.out.data)], data, false)
		if nOut > 0 {
			if _, werr := pw.w.Write(pw.out.data[:nOut]); werr != nil {
				return total, werr
			}
		}
		data = data[nIn:]
		switch err {
		case nil:
		case ErrNeedMoreOutput:
			continue
		case ErrNeedMoreInput:
			pw.pending = append([]byte(nil), data...)
			data = nil
		default:
			return total, err
		}
	}
	return total, nil
}

// Close flushes any carried-over partial word as the final chunk of the
// stream and releases the Writer's scratch buffer. A non-whole-word
// remainder at this point is a genuine error (ErrMisaligned): the message
// being packed wasn't 8-byte aligned.
func (pw *Writer) Close() error {
	if pw.closed {
		return nil
	}
	pw.closed = true
	defer putBuffer(pw.ctx, pw.out)

	data := pw.pending
	pw.pending = nil
	for {
		nIn, nOut, err := pw.s.Deflate(pw.out.data[:cap(pw.out.data)], data, true)
		if nOut > 0 {
			if _, werr := pw.w.Write(pw.out.data[:nOut]); werr != nil {
				return werr
			}
		}
		data = data[nIn:]
		if err == ErrNeedMoreOutput {
			continue
		}
		return err
	}
}

// Reader unpacks a packed byte stream read from an underlying io.Reader.
type Reader struct {
	ctx   context.Context
	r     io.Reader
	s     Stream
	inBuf []byte
	eof   bool
}

// NewReader returns a Reader that reads a packed stream from r and yields
// unpacked bytes.
func NewReader(ctx context.Context, r io.Reader) *Reader {
	return &Reader{ctx: ctx, r: r}
}

// Read fills p (which must be a multiple of 8 bytes) with unpacked data,
// pulling and buffering more packed input from the underlying reader as
// needed.
func (pr *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p)%8 != 0 {
		return 0, fmt.Errorf("packed: Read buffer must be a multiple of 8 bytes, got %d", len(p))
	}

	for {
		nIn, nOut, err := pr.s.Inflate(p, pr.inBuf, pr.eof)
		pr.inBuf = pr.inBuf[nIn:]
		if nOut > 0 {
			return nOut, nil
		}
		switch err {
		case nil:
			if pr.eof {
				return 0, io.EOF
			}
		case ErrMisaligned:
			return 0, err
		case ErrNeedMoreOutput:
			return 0, fmt.Errorf("packed: Read buffer too small to hold one unpacked word: %w", err)
		case ErrNeedMoreInput:
			if pr.eof {
				return 0, io.ErrUnexpectedEOF
			}
		}

		chunk := make([]byte, 4096)
		n, rerr := pr.r.Read(chunk)
		if n > 0 {
			pr.inBuf = append(pr.inBuf, chunk[:n]...)
		}
		if rerr == io.EOF {
			pr.eof = true
		} else if rerr != nil {
			return 0, rerr
		}
	}
}
