package reader

import "io"

// seekerOf returns src as an io.Seeker together with its current position.
// Pipes and terminals implement io.Seeker through *os.File but fail to seek,
// so the position is queried to find out whether seeking actually works.
func seekerOf(src io.Reader) (io.Seeker, int64, bool) {
	s, ok := src.(io.Seeker)
	if !ok {
		return nil, 0, false
	}

	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, false
	}
	return s, pos, true
}

// sizeOf returns the length of src in bytes, or -1 if src gives no way of
// telling. Sources that report their own size (bytes.Reader, strings.Reader)
// are asked directly, otherwise the seeker is moved to the end and back.
func sizeOf(src io.Reader, s io.Seeker) (int64, error) {
	if sized, ok := src.(interface{ Size() int64 }); ok {
		return sized.Size(), nil
	}
	if s == nil {
		return -1, nil
	}

	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1, err
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return -1, err
	}
	// Put the seeker back where it was, whatever it had buffered ahead of us.
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		return -1, err
	}
	return end, nil
}
