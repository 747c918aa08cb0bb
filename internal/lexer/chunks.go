package lexer

import (
	"github.com/cwbudde/chalcedony/internal/cerrors"
	"github.com/cwbudde/chalcedony/internal/source"
)

// compoundHeaders are the token kinds that open a multi-line chunk: a
// header line followed by every subsequent Line whose indent is strictly
// greater than the header's.
var compoundHeaders = map[Kind]bool{
	KindFn:    true,
	KindIf:    true,
	KindWhile: true,
	KindFor:   true,
	KindTry:   true,
	KindClass: true,
}

// singleLineHeaders are the token kinds that make up a one-Line chunk on
// their own.
var singleLineHeaders = map[Kind]bool{
	KindLet:   true,
	KindConst: true,
	KindIdent: true,
}

// AdvanceProg returns the next top-level program chunk as a deque of Lines,
// or the lex errors encountered while assembling it. Call IsEmpty first;
// AdvanceProg on an exhausted Lexer returns (nil, nil).
func (l *Lexer) AdvanceProg() ([]Line, []error) {
	if l.IsEmpty() {
		return nil, nil
	}

	header := l.lines[l.pos]
	var errs []*cerrors.Error
	errs = append(errs, l.lineErrors[l.pos]...)

	headerKind := header.Tokens[0].Kind

	switch {
	case singleLineHeaders[headerKind]:
		l.pos++
		return []Line{header}, toErrorSlice(errs)

	case compoundHeaders[headerKind]:
		chunk := []Line{header}
		l.pos++
		chunk, errs = l.gatherBody(chunk, header.Indent, errs)

		for headerKind == KindIf || headerKind == KindTry {
			extKind, ok := l.peekExtension(header.Indent, headerKind)
			if !ok {
				break
			}
			ext := l.lines[l.pos]
			errs = append(errs, l.lineErrors[l.pos]...)
			chunk = append(chunk, ext)
			l.pos++
			chunk, errs = l.gatherBody(chunk, header.Indent, errs)
			if extKind == KindElse {
				break // 'else' is always the last branch
			}
		}
		return chunk, toErrorSlice(errs)

	default:
		start := header.Tokens[0].Span.Start
		errs = append(errs, cerrors.Lex(cerrors.KindInvalidGlobalStatement,
			source.NewSpan(start, start, l.reader),
			"statement starting with %q is not valid at the top level", header.Tokens[0].Text))
		l.pos++
		return []Line{header}, toErrorSlice(errs)
	}
}

// gatherBody appends every subsequent Line whose indent is strictly
// greater than headerIndent onto chunk, consuming them from the Lexer.
func (l *Lexer) gatherBody(chunk []Line, headerIndent int, errs []*cerrors.Error) ([]Line, []*cerrors.Error) {
	for {
		l.fillAtLeast(l.pos + 1)
		if l.pos >= len(l.lines) {
			break
		}
		next := l.lines[l.pos]
		if next.Indent <= headerIndent {
			break
		}
		errs = append(errs, l.lineErrors[l.pos]...)
		chunk = append(chunk, next)
		l.pos++
	}
	return chunk, errs
}

// peekExtension reports whether the next unconsumed Line is an elif/else
// (when headerKind is KindIf) or catch (when headerKind is KindTry) at
// exactly headerIndent, i.e. a continuation of the compound statement
// rather than a new top-level chunk.
func (l *Lexer) peekExtension(headerIndent int, headerKind Kind) (Kind, bool) {
	l.fillAtLeast(l.pos + 1)
	if l.pos >= len(l.lines) {
		return 0, false
	}
	next := l.lines[l.pos]
	if next.Indent != headerIndent || len(next.Tokens) == 0 {
		return 0, false
	}
	k := next.Tokens[0].Kind
	switch headerKind {
	case KindIf:
		if k == KindElif || k == KindElse {
			return k, true
		}
	case KindTry:
		if k == KindCatch {
			return k, true
		}
	}
	return 0, false
}

func toErrorSlice(errs []*cerrors.Error) []error {
	if len(errs) == 0 {
		return nil
	}
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
