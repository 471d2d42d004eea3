package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

type Logger struct {
	l       *log.Logger
	verbose atomic.Bool
}

var std = NewFromLogger(log.New(os.Stderr, "", log.LstdFlags), false)

// Default returns the standard logger used by the package-level output functions.
func Default() *Logger { return std }

func New(out io.Writer, prefix string, flag int, verbose bool) *Logger {
	return NewFromLogger(log.New(out, prefix, flag), verbose)
}

func NewFromLogger(l *log.Logger, verbose bool) *Logger {
	logger := &Logger{l: l}
	logger.verbose.Store(verbose)
	return logger
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose.Load()
}

// SetVerbose enables or disables debug output.
func (l *Logger) SetVerbose(verbose bool) {
	l.verbose.Store(verbose)
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.l.SetOutput(w)
}

// Writer returns the output destination for the logger.
func (l *Logger) Writer() io.Writer {
	return l.l.Writer()
}

// Flags returns the output flags for the logger.
// The flag bits are [log.Ldate], [log.Ltime], and so on.
func (l *Logger) Flags() int {
	return l.l.Flags()
}

// SetFlags sets the output flags for the logger.
func (l *Logger) SetFlags(flag int) {
	l.l.SetFlags(flag)
}

// Printf calls l.Output to print to the logger.
// Arguments are handled in the manner of [fmt.Printf].
func (l *Logger) Printf(format string, v ...any) {
	l.l.Output(2, fmt.Sprintf(format, v...))
}

// Println calls l.Output to print to the logger.
// Arguments are handled in the manner of [fmt.Println].
func (l *Logger) Println(v ...any) {
	l.l.Output(2, fmt.Sprintln(v...))
}

// Debugf is like Printf but only prints when the logger is verbose.
func (l *Logger) Debugf(format string, v ...any) {
	if !l.Verbose() {
		return
	}
	l.l.Output(2, "debug: "+fmt.Sprintf(format, v...))
}

// Debugln is like Println but only prints when the logger is verbose.
func (l *Logger) Debugln(v ...any) {
	if !l.Verbose() {
		return
	}
	l.l.Output(2, "debug: "+fmt.Sprintln(v...))
}

// SetOutput sets the output destination for the standard logger.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// SetVerbose enables or disables debug output on the standard logger.
func SetVerbose(verbose bool) {
	std.SetVerbose(verbose)
}

// These functions write to the standard logger.

func Printf(format string, v ...any) {
	std.l.Output(2, fmt.Sprintf(format, v...))
}

func Println(v ...any) {
	std.l.Output(2, fmt.Sprintln(v...))
}

func Debugf(format string, v ...any) {
	if !std.Verbose() {
		return
	}
	std.l.Output(2, "debug: "+fmt.Sprintf(format, v...))
}

func Debugln(v ...any) {
	if !std.Verbose() {
		return
	}
	std.l.Output(2, "debug: "+fmt.Sprintln(v...))
}

// Fatalln is equivalent to Println() followed by a call to [os.Exit](1).
func Fatalln(v ...any) {
	std.l.Output(2, fmt.Sprintln(v...))
	os.Exit(1)
}
