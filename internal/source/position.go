// Package source provides the primitive position, span, and character
// stream types shared by the lexer, parser, and compiler.
package source

import "fmt"

// Position identifies a single point in source text, 1-based in both
// dimensions.
type Position struct {
	Line   int
	Column int
}

// String renders the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Spanner can render a source excerpt for a Span, used by error messages
// to show the offending line and a caret. The lexer/parser/compiler never
// render output themselves; they hand a Span to a Spanner supplied by the
// caller (the CLI, an editor, a test).
type Spanner interface {
	// Excerpt returns the raw source line at the given 1-based line number,
	// or "" if the line does not exist.
	Excerpt(line int) string
}

// Span is a half-open source range, [Start, End), anchored to whichever
// Spanner produced it. Two Spans are compared structurally: the Spanner is
// metadata for rendering, not part of identity, so a Span built against one
// Spanner equals a Span built against an equivalent one with the same
// Start/End.
type Span struct {
	Start   Position
	End     Position
	Spanner Spanner
}

// NewSpan builds a Span from a start/end position pair and the source that
// produced them.
func NewSpan(start, end Position, spanner Spanner) Span {
	return Span{Start: start, End: end, Spanner: spanner}
}

// Equal reports structural equality of the Start/End positions only; the
// Spanner is metadata and never participates in equality, matching the
// "spans are compared structurally-equal always" invariant from the
// language's data model.
func (s Span) Equal(o Span) bool {
	return s.Start == o.Start && s.End == o.End
}

// String renders "line:col-line:col" for diagnostics that don't need a
// source excerpt.
func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
