package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrNotSeekable is returned by operations that need to move around in the
// stream when the stream cannot seek.
var ErrNotSeekable = fmt.Errorf("reader: stream is not seekable: %w", errors.ErrUnsupported)

// Reader reads records from a delimited character stream one at a time.
//
// Offsets handed out by a Reader are byte offsets in the underlying stream.
// For a seekable stream they are absolute, so a Reader created over a file
// that was already positioned at byte 100 reports its first record at 100.
//
// A Reader is not safe for concurrent use. Independent Readers over
// independent streams may be used in parallel.
type Reader struct {
	src     io.Reader
	seeker  io.Seeker
	br      *bufio.Reader
	dialect Dialect

	// Offset of the next unread byte.
	pos int64
	// Offset the reader was created at. ReadAll and Scanner start here.
	origin int64
	// Known length of the stream, -1 when unknown.
	size int64
	// Whether size came from the source itself rather than from seeking.
	sized bool
}

// NewReader creates a Reader over src. If src can seek, its current position
// becomes the reader's starting offset and its length is used to detect
// reads past the end.
func NewReader(src io.Reader, dialect Dialect) (*Reader, error) {
	r := &Reader{
		src:     src,
		br:      bufio.NewReader(src),
		dialect: dialect,
		size:    -1,
	}

	if s, pos, ok := seekerOf(src); ok {
		r.seeker = s
		r.pos = pos
		r.origin = pos
	}

	_, r.sized = src.(interface{ Size() int64 })
	size, err := sizeOf(src, r.seeker)
	if err != nil {
		return nil, fmt.Errorf("failed to measure stream: %w", err)
	}
	r.size = size

	return r, nil
}

// Dialect returns the dialect the reader was created with.
func (r *Reader) Dialect() Dialect {
	return r.dialect
}

// Offset returns the offset of the next unread byte.
func (r *Reader) Offset() int64 {
	return r.pos
}

// Seekable reports whether the reader can move to arbitrary offsets.
func (r *Reader) Seekable() bool {
	return r.seeker != nil
}

// Size returns the length of the stream as last measured, or -1 if unknown.
func (r *Reader) Size() int64 {
	return r.size
}

// Read reads the record starting at the current offset. On the first call
// that is the reader's origin: offset 0 for a stream read from its start, or
// wherever a seekable stream was positioned when the reader was created.
func (r *Reader) Read() (*Record, error) {
	return r.ReadRecord(r.pos)
}

// ReadRecord reads the record starting at offset start. It returns io.EOF when
// start is at or past the end of the stream, which is how record iteration
// knows to stop. A start other than the current offset requires a seekable
// stream.
//
// Errors from the underlying stream are returned as they are. The reader
// never retries a read, and its offset is unreliable after such an error.
func (r *Reader) ReadRecord(start int64) (*Record, error) {
	if start < 0 {
		return nil, fmt.Errorf("reader: negative offset %d", start)
	}

	past, err := r.pastEnd(start)
	if err != nil {
		return nil, err
	}
	if past {
		return nil, io.EOF
	}

	if err := r.seekTo(start); err != nil {
		return nil, err
	}

	return r.scanRecord()
}

// pastEnd reports whether start lies beyond the known end of the stream. A
// file may have grown since it was measured, so it is measured again before
// giving up on it.
func (r *Reader) pastEnd(start int64) (bool, error) {
	if r.size < 0 || start < r.size {
		return false, nil
	}
	if r.sized || r.seeker == nil {
		return true, nil
	}

	size, err := sizeOf(r.src, r.seeker)
	if err != nil {
		return false, err
	}
	r.size = size
	return start >= r.size, nil
}

func (r *Reader) seekTo(pos int64) error {
	if pos == r.pos {
		return nil
	}
	if r.seeker == nil {
		return ErrNotSeekable
	}

	if _, err := r.seeker.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	r.br.Reset(r.src)
	r.pos = pos
	return nil
}

type scanState int

const (
	unquoted scanState = iota
	quoted
)

// scanRecord reads one record from the current offset.
//
// Outside a quoted span the delimiter closes a field, a carriage return is
// dropped and a newline ends the record. Inside one every character is field
// content, except that a quote closes the span unless it is immediately
// followed by another quote, in which case the pair is one literal quote.
func (r *Reader) scanRecord() (*Record, error) {
	d := r.dialect
	rec := &Record{Start: r.pos}
	state := unquoted
	field := make([]byte, 0, 64)
	consumed := false

scan:
	for {
		c, raw, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		consumed = true

		if state == quoted {
			if c != d.Quote {
				field = appendChar(field, c, raw)
				continue
			}

			nc, err := r.peek()
			if err != nil && err != io.EOF {
				return nil, err
			}
			if err == nil && nc == d.Quote {
				if _, _, err := r.next(); err != nil {
					return nil, err
				}
				field = utf8.AppendRune(field, d.Quote)
				continue
			}
			state = unquoted
			continue
		}

		switch c {
		case d.Quote:
			state = quoted
		case d.Delimiter:
			rec.Fields = append(rec.Fields, string(field))
			field = field[:0]
		case '\r':
		case '\n':
			break scan
		default:
			field = appendChar(field, c, raw)
		}
	}

	if !consumed {
		return nil, io.EOF
	}

	// An unbalanced quote leaves us inside a span here. Whatever was buffered
	// is still the last field.
	rec.Fields = append(rec.Fields, string(field))
	rec.End = r.pos - 1
	return rec, nil
}

// next reads one character and advances the offset. When the input is not
// valid UTF-8 the offending byte is returned in raw so it can be kept as is.
func (r *Reader) next() (c rune, raw byte, err error) {
	c, size, err := r.br.ReadRune()
	if err != nil {
		return 0, 0, err
	}

	if c == utf8.RuneError && size == 1 {
		if err := r.br.UnreadRune(); err != nil {
			return 0, 0, err
		}
		if raw, err = r.br.ReadByte(); err != nil {
			return 0, 0, err
		}
	}

	r.pos += int64(size)
	return c, raw, nil
}

func (r *Reader) peek() (rune, error) {
	c, _, err := r.br.ReadRune()
	if err != nil {
		return 0, err
	}
	return c, r.br.UnreadRune()
}

func appendChar(buf []byte, c rune, raw byte) []byte {
	if raw != 0 {
		return append(buf, raw)
	}
	return utf8.AppendRune(buf, c)
}
