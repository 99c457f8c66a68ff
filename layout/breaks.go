package layout

import (
	"github.com/go-text/typesetting/segmenter"
)

// Break is a line break opportunity. A new line may start at Offset.
type Break struct {
	Offset    int  // byte offset into the text
	Mandatory bool // hard break, e.g. after a newline
}

// Breaks returns the line break opportunities of a text, following UAX #14.
// The end of the text is not reported.
func Breaks(text string) []Break {
	if text == "" {
		return nil
	}
	var seg segmenter.Segmenter
	seg.InitWithString(text)
	offsets := byteOffsets(text)
	var breaks []Break
	iter := seg.LineIterator()
	for iter.Next() {
		line := iter.Line()
		end := line.Offset + len(line.Text)
		if end >= len(offsets)-1 {
			break
		}
		breaks = append(breaks, Break{Offset: offsets[end], Mandatory: line.IsMandatoryBreak})
	}
	tracer().Debugf("%d break opportunities in %d bytes", len(breaks), len(text))
	return breaks
}

// byteOffsets maps rune indices to byte offsets. It has an extra entry for
// the end of the text. Invalid UTF-8 counts one rune per byte, as the
// segmenter does.
func byteOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	return append(offsets, len(text))
}
