package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path"
	"testing"
)

// createTestFile writes contents to a file named name in a temporary
// directory and returns its path.
func createTestFile(t *testing.T, name, contents string) string {
	filepath := path.Join(t.TempDir(), name)
	if err := os.WriteFile(filepath, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return filepath
}

// runCommand runs the delimited command with args and returns what it wrote
// to its output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// replaceStdin points os.Stdin at a pipe for the rest of the test and
// returns the pipe's write end.
func replaceStdin(t *testing.T) *os.File {
	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	old := os.Stdin
	os.Stdin = pr
	t.Cleanup(func() {
		os.Stdin = old
		pw.Close()
		pr.Close()
	})
	return pw
}

// lineWriter hands every Write over a channel.
type lineWriter struct {
	lines chan string
}

func newLineWriter() *lineWriter {
	return &lineWriter{lines: make(chan string, 16)}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.lines <- string(p)
	return len(p), nil
}
