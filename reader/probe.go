package reader

import (
	"bufio"
	"fmt"
	"io"
)

// ProbeColumnCount returns the number of columns in the record starting at the
// current position of rs, without consuming it: the position of rs is the
// same after the call as before, whether the scan succeeded or not.
//
// The probe only tracks whether it is inside a quoted span by the parity of
// the quotes seen so far. A doubled quote flips the parity twice, which leaves
// it where it was, so escaped quotes need no special handling here.
//
// An empty stream has one (empty) column.
func ProbeColumnCount(rs io.ReadSeeker, d Dialect) (count int, err error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotSeekable, err)
	}

	defer func() {
		if _, seekErr := rs.Seek(pos, io.SeekStart); seekErr != nil && err == nil {
			count, err = 0, seekErr
		}
	}()

	return countColumns(bufio.NewReader(rs), d)
}

// ProbeColumnCount returns the number of columns in the record at the current
// offset. The offset is left untouched.
func (r *Reader) ProbeColumnCount() (count int, err error) {
	if r.seeker == nil {
		return 0, ErrNotSeekable
	}

	// The probe reads ahead through the buffered reader, so afterwards the
	// stream is rewound to the offset and the buffer dropped.
	pos := r.pos
	defer func() {
		if _, seekErr := r.seeker.Seek(pos, io.SeekStart); seekErr != nil {
			if err == nil {
				count, err = 0, seekErr
			}
			return
		}
		r.br.Reset(r.src)
	}()

	return countColumns(r.br, r.dialect)
}

func countColumns(rr io.RuneReader, d Dialect) (int, error) {
	quotes := 0
	delimiters := 0

	for {
		c, _, err := rr.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		switch {
		case c == d.Quote:
			quotes++
		case quotes%2 != 0:
			// Inside a quoted span.
		case c == d.Delimiter:
			delimiters++
		case c == '\n':
			return delimiters + 1, nil
		}
	}

	return delimiters + 1, nil
}
