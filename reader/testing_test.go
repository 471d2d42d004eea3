package reader

import (
	"errors"
	"io"
	"os"
	"path"
	"testing"
)

var errBoom = errors.New("boom")

// createTestFile creates a temporary test file with the given contents and
// seek. It returns the open file handle and the seek position from the start of
// the file. A lone seek counts from the start of the file; pass a whence as the
// second argument to seek from elsewhere. If no seek was given, it defaults to
// the start of the file.
func createTestFile(t *testing.T, contents string, seekStuff ...int) (*os.File, int64) {
	filepath := path.Join(t.TempDir(), "test.csv")
	if err := os.WriteFile(filepath, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	f, err := os.Open(filepath)
	if err != nil {
		t.Fatalf("Failed to open temp file: %v", err)
	}

	var seek, whence int
	switch len(seekStuff) {
	case 0:
		seek = 0
		whence = io.SeekStart
	case 1:
		seek = seekStuff[0]
		whence = io.SeekStart
	case 2:
		seek = seekStuff[0]
		whence = seekStuff[1]
	default:
		panic("Too many arguments")
	}

	var pos int64
	if seek != 0 || whence != io.SeekStart {
		pos, err = f.Seek(int64(seek), whence)
		if err != nil {
			t.Fatalf("Failed to seek temp file: %v", err)
		}
	}

	t.Cleanup(func() {
		if err := f.Close(); err != nil {
			t.Fatalf("Failed to close temp file: %v", err)
		}
	})

	return f, pos
}

func appendToTestFile(t *testing.T, f *os.File, contents string) {
	w, err := os.OpenFile(f.Name(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to open temp file for appending: %v", err)
	}
	defer w.Close()

	if _, err := w.WriteString(contents); err != nil {
		t.Fatalf("Failed to append to temp file: %v", err)
	}
}

// nonSeekable hides everything but Read, the way a pipe would.
type nonSeekable struct {
	io.Reader
}

// brokenReadSeeker seeks fine but fails every read.
type brokenReadSeeker struct {
	io.Seeker
}

func (brokenReadSeeker) Read([]byte) (int, error) {
	return 0, errBoom
}
