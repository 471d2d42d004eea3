package utils

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

var cellEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

// Cell makes a field printable on a single line by escaping the characters
// that would break a row apart.
func Cell(s string) string {
	return cellEscaper.Replace(s)
}

// Truncate shortens s to at most width cells, cutting between grapheme
// clusters and marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}

	// Leave one cell for the ellipsis.
	budget := width - 1
	used, cut := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > budget {
			break
		}
		used += w
		cut += len(cluster)
	}

	return s[:cut] + ellipsis
}

// PadRight pads s with spaces up to width cells. Strings that are already at
// least that wide are returned unchanged.
func PadRight(s string, width int) string {
	w := uniseg.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
