package reader

import "io"

// Scanner walks the records of a Reader lazily, one per call to Scan, starting
// at the offset the Reader was created at. Each record is read from where the
// previous one ended, so nothing is skipped or read twice.
//
// A Scanner cannot be restarted; create a new one over a new Reader instead.
// It stops at the end of the stream, which means it never stops on a stream
// that never ends. Callers reading live streams must bound it themselves.
//
//	s := reader.NewScanner(r)
//	for s.Scan() {
//		rec := s.Record()
//		// ...
//	}
//	if err := s.Err(); err != nil {
//		// handle error
//	}
type Scanner struct {
	r    *Reader
	next int64
	rec  *Record
	err  error
	done bool
}

func NewScanner(r *Reader) *Scanner {
	return &Scanner{r: r, next: r.origin}
}

// Scan advances to the next record. It returns false at the end of the stream
// or on the first error, after which Err tells the two apart.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	rec, err := s.r.ReadRecord(s.next)
	if err != nil {
		s.done = true
		s.rec = nil
		if err != io.EOF {
			s.err = err
		}
		return false
	}

	s.rec = rec
	s.next = rec.Next()
	return true
}

// Record returns the record read by the last successful Scan.
func (s *Scanner) Record() *Record {
	return s.rec
}

// Err returns the first error that stopped the scanner, or nil if it stopped
// at the end of the stream.
func (s *Scanner) Err() error {
	return s.err
}

// Offset returns the offset the next record will be read from.
func (s *Scanner) Offset() int64 {
	return s.next
}

// ReadAll reads every record from the reader's starting offset to the end of
// the stream. On error the records read so far are returned with it.
func ReadAll(r *Reader) ([]*Record, error) {
	var records []*Record

	s := NewScanner(r)
	for s.Scan() {
		records = append(records, s.Record())
	}
	return records, s.Err()
}
