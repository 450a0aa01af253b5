package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText soft-wraps text to the given cell width without splitting
// words. Blank source lines are preserved as blank entries. A single
// word wider than the width is hard-cut across lines.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		cur := ""
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				head, tail := cutWord(word, width)
				out = append(out, head)
				word = tail
			}
			switch {
			case cur == "":
				cur = word
			case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return out
}

// cutWord splits a word after as many runes as fit in width cells.
func cutWord(word string, width int) (head, tail string) {
	w := 0
	for i, r := range word {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			return word[:i], word[i:]
		}
		w += rw
	}
	return word, ""
}
