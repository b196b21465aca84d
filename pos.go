package ferrite

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// FileID identifies a source file within a compilation. It is stable
// for the lifetime of an analysis run and is cheap to copy and compare.
type FileID int32

// UnknownFileID is the sentinel (-1, not FileID's zero value) used
// before a file has been interned.
const UnknownFileID FileID = -1

// Range is a half-open byte-offset interval [Start, End) within a
// single file's source bytes.
type Range struct{ Start, End int }

// NewRange builds a Range from two byte offsets.
func NewRange(start, end int) Range {
	return Range{Start: start, End: end}
}

func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Str slices the given source bytes by the range.
func (r Range) Str(v []byte) string {
	return string(v[r.Start:r.End])
}

// Contains reports whether other is fully nested within r.
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Location is a single point in a source file: line and column are
// 1-indexed and rune-based: Cursor is the 0-indexed byte offset.
type Location struct {
	Line   int32
	Column int32
	Cursor int
}

// Span is a [Start, End) pair of Locations within one file.
type Span struct {
	Start Location
	End   Location
}

// NewSpan builds a Span from two Locations.
func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

func (s Span) String() string {
	startLoc := s.Start
	endLoc := s.End
	startLine, startCol := int(startLoc.Line), int(startLoc.Column)
	endLine, endCol := int(endLoc.Line), int(endLoc.Column)
	if startLine == endLine && startLine == 1 {
		if startCol == endCol {
			return fmt.Sprintf("%d", startCol)
		}
		return fmt.Sprintf("%d..%d", startCol, endCol)
	}
	if startLine == endLine && startCol == endCol {
		return fmt.Sprintf("%d:%d", startLine, startCol)
	}
	return fmt.Sprintf("%d:%d..%d:%d", startLine, startCol, endLine, endCol)
}

// SourceLocation is the (file_id, line, column, byte_offset) tuple
// carried by every diagnostic. It's immutable and cheap to
// copy into diagnostics, AST nodes, and symbol entries.
type SourceLocation struct {
	FileID FileID
	Span   Span
}

func (l SourceLocation) String() string {
	return l.Span.String()
}

// LineIndex allows fast conversion from byte cursor offsets to line/column.
//
// It stores the start byte offset of each line (0-based). Given a
// cursor, it finds the line by binary searching line starts (O(log
// lines)) and computes the column as (runes since lineStart + 1).
//
// Construction is O(n) over the input and is intended to be cached
// per input.
type LineIndex struct {
	input     []byte
	lineStart []int
}

func NewLineIndex(input []byte) *LineIndex {
	// Always include line 1 starting at offset 0.
	lineStart := make([]int, 1, 64)
	lineStart[0] = 0
	for i, b := range input {
		if b == '\n' {
			// next line starts after '\n'
			lineStart = append(lineStart, i+1)
		}
	}
	return &LineIndex{input: input, lineStart: lineStart}
}

func (li *LineIndex) Span(r Range) Span {
	return Span{
		Start: li.LocationAt(r.Start),
		End:   li.LocationAt(r.End),
	}
}

func (li *LineIndex) LocationAt(cursor int) Location {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(li.input) {
		cursor = len(li.input)
	}

	// Find first lineStart > cursor, then step back one.
	lineIdx := sort.Search(len(li.lineStart), func(i int) bool {
		return li.lineStart[i] > cursor
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}

	lineStart := li.lineStart[lineIdx]
	// Column is rune-based and 1-indexed.
	col := int32(utf8.RuneCount(li.input[lineStart:cursor])) + 1

	return Location{
		Line:   int32(lineIdx + 1),
		Column: col,
		Cursor: cursor,
	}
}
