package layout

import (
	"strings"
)

// wrapText greedily breaks text into lines no wider than maxWidth as reported
// by measure. Words wider than a line are split by rune. Explicit newlines
// always break.
func wrapText(text string, maxWidth float64, measure func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if measure(candidate) <= maxWidth {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if measure(word) <= maxWidth {
				line = word
				continue
			}

			chunks := splitRunes(word, maxWidth, measure)
			lines = append(lines, chunks[:len(chunks)-1]...)
			line = chunks[len(chunks)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

// splitRunes cuts a single word into pieces that fit maxWidth. Every piece
// holds at least one rune.
func splitRunes(word string, maxWidth float64, measure func(string) float64) []string {
	var chunks []string
	var cur []rune
	for _, r := range word {
		next := append(cur, r)
		if len(cur) > 0 && measure(string(next)) > maxWidth {
			chunks = append(chunks, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	return append(chunks, string(cur))
}
