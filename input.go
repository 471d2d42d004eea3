package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/YLivay/delimited/log"
)

// lookupEncoding returns the decoder for the named input encoding, or nil for
// UTF-8 which is read as is. Encodings are never guessed; the name has to be
// given.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return nil, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// prepareInput opens the named input for parsing. "-" reads stdin.
//
// Without needSeek the input is handed over as it is, decoded on the fly when
// enc is set, so records come out while the input is still being written.
//
// With needSeek the caller probes columns, which means reading the first
// record twice. Input that is not seekable (stdin, pipes, sockets) or that has
// to be decoded first is copied into a temporary file, and that file is read
// instead.
func prepareInput(filename string, enc encoding.Encoding, needSeek bool) (input io.Reader, cleanup func(), err error) {
	// As resources are created in this function, accumulate functions to clean
	// them up in this slice.
	var deferredCleanups []func()
	cleanup = func() {
		// Invoke deferredCleanups in reverse order.
		for i := len(deferredCleanups) - 1; i >= 0; i-- {
			deferredCleanups[i]()
		}
	}

	var file *os.File
	if filename == "-" {
		file = os.Stdin
	} else {
		file, err = os.Open(filename)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open input for reading: %w", err)
		}

		fileToClose := file
		deferredCleanups = append(deferredCleanups, func() { fileToClose.Close() })
	}

	var src io.Reader = file
	if enc != nil {
		src = enc.NewDecoder().Reader(file)
	}
	if !needSeek {
		return src, cleanup, nil
	}

	// Test if the file is seekable without changing the current position.
	_, seekErr := file.Seek(0, io.SeekCurrent)
	if seekErr == nil && enc == nil {
		return file, cleanup, nil
	}

	if enc != nil {
		log.Debugf("Decoding %s through a temporary file", filename)
	} else {
		log.Debugf("Input %s is not seekable, spooling through a temporary file", filename)
	}

	spooled, err := spool(src)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deferredCleanups = append(deferredCleanups, func() { disposeTemp(spooled) })

	return spooled, cleanup, nil
}

// disposeTemp closes and removes a temporary file.
func disposeTemp(f *os.File) {
	log.Debugln("Disposing temporary file:", f.Name())

	if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		log.Println("Failed to close temporary file:", err)
	}
	if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
		log.Println("Failed to remove temporary file:", err)
	}
}

// spool copies src into a new temporary file and rewinds it. The copy runs to
// completion before the file is handed out: a reader working against a file
// that is still being written would see its end too early.
func spool(src io.Reader) (*os.File, error) {
	f, err := os.CreateTemp("", "delimited-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}

	discard := func(err error) (*os.File, error) {
		disposeTemp(f)
		return nil, err
	}

	if _, err := io.Copy(f, src); err != nil {
		return discard(fmt.Errorf("failed to copy input to temporary file: %w", err))
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return discard(fmt.Errorf("failed to rewind temporary file: %w", err))
	}
	return f, nil
}
