package format

import (
	"sort"

	"github.com/kelly-lin/swift-lang-server/protocol"
)

// Apply returns sourceCode with the edits applied. Edits must not overlap.
// Positions past the end of a line or the document are clamped.
func Apply(sourceCode []byte, edits []protocol.TextEdit) []byte {
	lineStarts := []int{0}
	for i, b := range sourceCode {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	offset := func(pos protocol.Position) int {
		if int(pos.Line) >= len(lineStarts) {
			return len(sourceCode)
		}
		lineEnd := len(sourceCode)
		if int(pos.Line)+1 < len(lineStarts) {
			lineEnd = lineStarts[pos.Line+1] - 1
		}
		return min(lineStarts[pos.Line]+int(pos.Character), lineEnd)
	}

	type splice struct {
		start, end int
		text       string
	}
	splices := make([]splice, 0, len(edits))
	for _, edit := range edits {
		splices = append(splices, splice{offset(edit.Range.Start), offset(edit.Range.End), edit.NewText})
	}
	// Back to front so earlier offsets stay valid.
	sort.SliceStable(splices, func(i, j int) bool { return splices[i].start > splices[j].start })

	result := append([]byte(nil), sourceCode...)
	for _, s := range splices {
		if s.end < s.start {
			continue
		}
		result = append(result[:s.start], append([]byte(s.text), result[s.end:]...)...)
	}
	return result
}
