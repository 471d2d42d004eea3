package reader

// Record is one row read from a delimited stream.
type Record struct {
	// The fields of the row in column order. There is always at least one.
	Fields []string

	// Byte offset of the first byte of the record in the stream.
	Start int64

	// Byte offset of the last byte the record consumed: its terminating
	// newline, or the final byte of the stream.
	End int64
}

// Next returns the offset the following record starts at.
func (r *Record) Next() int64 {
	return r.End + 1
}

// Len returns the number of fields in the record.
func (r *Record) Len() int {
	return len(r.Fields)
}
