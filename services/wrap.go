package services

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// WrapText breaks s into lines no wider than width display cells, splitting
// on whitespace. Explicit line breaks are kept. A single word wider than
// width is split across lines rather than cut. Width below 1 disables
// wrapping.
func WrapText(s string, width int) []string {
	if s == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if width < 1 {
			lines = append(lines, para)
			continue
		}
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(para string, width int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, w := range words {
		for runewidth.StringWidth(w) > width {
			if lineWidth > 0 {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			head := runewidth.Truncate(w, width, "")
			if head == "" {
				// A single rune wider than width.
				head = string([]rune(w)[:1])
			}
			lines = append(lines, head)
			w = w[len(head):]
		}
		if w == "" {
			continue
		}

		ww := runewidth.StringWidth(w)
		switch {
		case lineWidth == 0:
			line.WriteString(w)
			lineWidth = ww
		case lineWidth+1+ww <= width:
			line.WriteByte(' ')
			line.WriteString(w)
			lineWidth += 1 + ww
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(w)
			lineWidth = ww
		}
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
