// Package report is the low-level document compositor for the clinical
// summary PDF: text measurement and wrapping, page/cursor management, and the
// renderers that draw field rows, detail lists, chips, tables, images, and
// the consent page.
package report

import "strings"

// WidthFunc measures the rendered width of a string at the font and size the
// caller has selected on the document.
type WidthFunc func(s string) float64

// Wrap splits text into lines whose measured width does not exceed maxWidth,
// breaking only at spaces. A single word wider than maxWidth is kept whole
// and overflows its column rather than being split. Empty input yields no
// lines.
func Wrap(measure WidthFunc, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 1)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
