// Package position provides source position tracking for the swiftparse
// front-end. Every token and syntax node carries a Span built from these
// types so diagnostics can point at the exact source text.
package position

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Position is a point in a source unit. Line and Column count from 1,
// Offset counts bytes from 0.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// IsValid reports whether the position was set by the lexer.
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Column >= 1 && p.Offset >= 0
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
}

// compare orders positions by file name and then by offset.
func (p Position) compare(q Position) int {
	switch {
	case p.Filename < q.Filename:
		return -1
	case p.Filename > q.Filename:
		return 1
	case p.Offset < q.Offset:
		return -1
	case p.Offset > q.Offset:
		return 1
	}
	return 0
}

// Before reports whether p sorts ahead of q.
func (p Position) Before(q Position) bool { return p.compare(q) < 0 }

// After reports whether p sorts behind q.
func (p Position) After(q Position) bool { return p.compare(q) > 0 }

// Span is the half-open range [Start, End) of a token or node.
type Span struct {
	Start Position
	End   Position
}

// SpanBetween returns the span starting at a and ending at b.
func SpanBetween(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}

// IsValid reports whether both ends are set, lie in one file and are ordered.
func (s Span) IsValid() bool {
	if !s.Start.IsValid() || !s.End.IsValid() {
		return false
	}
	return s.Start.Filename == s.End.Filename && s.Start.Offset <= s.End.Offset
}

// String renders the span as file:line:col-col, or file:line:col-line:col
// when it crosses lines.
func (s Span) String() string {
	var b strings.Builder
	if s.Start.Filename != "" {
		b.WriteString(filepath.Base(s.Start.Filename))
		b.WriteByte(':')
	}
	fmt.Fprintf(&b, "%d:%d-", s.Start.Line, s.Start.Column)
	if s.End.Line != s.Start.Line {
		fmt.Fprintf(&b, "%d:", s.End.Line)
	}
	fmt.Fprintf(&b, "%d", s.End.Column)
	return b.String()
}

// Contains reports whether pos falls inside s.
func (s Span) Contains(pos Position) bool {
	if !s.IsValid() || !pos.IsValid() || pos.Filename != s.Start.Filename {
		return false
	}
	return pos.Offset >= s.Start.Offset && pos.Offset < s.End.Offset
}

// Covers reports whether other lies entirely inside s.
func (s Span) Covers(other Span) bool {
	return s.Start.Offset <= other.Start.Offset && other.End.Offset <= s.End.Offset
}

// Union returns the smallest span holding both s and other. Spans from
// different files are not merged; s is returned unchanged.
func (s Span) Union(other Span) Span {
	switch {
	case !s.IsValid():
		return other
	case !other.IsValid(), other.Start.Filename != s.Start.Filename:
		return s
	}
	out := s
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if other.End.After(out.End) {
		out.End = other.End
	}
	return out
}

// Length is the byte width of the span, or zero when it is not valid.
func (s Span) Length() int {
	if s.IsValid() {
		return s.End.Offset - s.Start.Offset
	}
	return 0
}

// SourceFile holds the text of one source unit with its line table.
type SourceFile struct {
	Filename string
	Content  string

	lineStarts []int
}

// NewSourceFile indexes the line starts of content.
func NewSourceFile(filename, content string) *SourceFile {
	starts := make([]int, 1, strings.Count(content, "\n")+1)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceFile{Filename: filename, Content: content, lineStarts: starts}
}

// LineCount returns the number of lines in the file.
func (sf *SourceFile) LineCount() int {
	return len(sf.lineStarts)
}

// GetLine returns line n (1-based) without its terminator, or "" when n is
// out of range.
func (sf *SourceFile) GetLine(n int) string {
	if n < 1 || n > len(sf.lineStarts) {
		return ""
	}
	end := len(sf.Content)
	if n < len(sf.lineStarts) {
		end = sf.lineStarts[n] - 1
	}
	return strings.TrimSuffix(sf.Content[sf.lineStarts[n-1]:end], "\r")
}

// GetSpanText returns the source text under span.
func (sf *SourceFile) GetSpanText(span Span) string {
	lo, hi := span.Start.Offset, span.End.Offset
	if lo < 0 || hi > len(sf.Content) || lo > hi {
		return ""
	}
	return sf.Content[lo:hi]
}

// PositionFromOffset maps a byte offset back to its line and column.
func (sf *SourceFile) PositionFromOffset(offset int) Position {
	if offset < 0 || offset > len(sf.Content) {
		return Position{}
	}
	line := sort.SearchInts(sf.lineStarts, offset+1)
	return Position{
		Filename: sf.Filename,
		Line:     line,
		Column:   offset - sf.lineStarts[line-1] + 1,
		Offset:   offset,
	}
}
