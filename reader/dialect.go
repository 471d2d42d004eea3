package reader

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var ErrInvalidDialect = errors.New("reader: invalid dialect")

// Dialect is the configuration of a delimited stream: the character that
// separates fields and the character that opens and closes quoted spans.
// Inside a quoted span a doubled quote character stands for one literal quote.
//
// A Dialect is a plain value. Every Reader and every probe gets its own copy,
// so there is nothing to share or mutate between parse sessions.
type Dialect struct {
	Delimiter rune
	Quote     rune
}

// CSV returns the comma separated dialect.
func CSV() Dialect {
	return Dialect{Delimiter: ',', Quote: '"'}
}

// TSV returns the tab separated dialect.
func TSV() Dialect {
	return Dialect{Delimiter: '\t', Quote: '"'}
}

// Validate reports whether d can be used to read a stream unambiguously. The
// reader itself never calls it: a dialect whose delimiter equals its quote is
// still read, the quote simply wins.
func (d Dialect) Validate() error {
	switch {
	case !validChar(d.Delimiter):
		return fmt.Errorf("%w: delimiter %q is not a usable character", ErrInvalidDialect, d.Delimiter)
	case !validChar(d.Quote):
		return fmt.Errorf("%w: quote %q is not a usable character", ErrInvalidDialect, d.Quote)
	case d.Delimiter == d.Quote:
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidDialect, d.Delimiter)
	}
	return nil
}

func validChar(c rune) bool {
	return c != 0 && c != '\r' && c != '\n' && c != utf8.RuneError && utf8.ValidRune(c)
}
