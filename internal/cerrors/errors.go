// Package cerrors defines Chalcedony's structured error taxonomy: four
// families (Lex, Parse, Compile, Internal), each a Kind plus a source.Span,
// and a renderer that prints the offending source line with a caret. This
// mirrors the teacher's errors.CompilerError / semantic.SemanticError split:
// one address-agnostic formatter, and typed error structs that know how to
// describe themselves.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/chalcedony/internal/source"
)

// Family distinguishes which compilation stage raised an error.
type Family string

const (
	FamilyLex      Family = "lex"
	FamilyParse    Family = "parse"
	FamilyCompile  Family = "compile"
	FamilyInternal Family = "internal"
)

// Kind enumerates every distinct error condition across all four families.
// Spec §7 describes these as "kinds, not types" — a flat taxonomy rather
// than per-condition Go types.
type Kind string

const (
	// Lex
	KindInvalidChar              Kind = "InvalidChar"
	KindInvalidIndentation        Kind = "InvalidIndentation"
	KindUnclosedDelimiter         Kind = "UnclosedDelimiter"
	KindUnexpectedClosingDelim    Kind = "UnexpectedClosingDelimiter"
	KindMismatchingDelimiters     Kind = "MismatchingDelimiters"
	KindInvalidGlobalStatement    Kind = "InvalidGlobalStatement"
	KindUnterminatedString        Kind = "UnterminatedString"

	// Parse
	KindUnexpectedToken    Kind = "UnexpectedToken"
	KindExpectedToken      Kind = "ExpectedToken"
	KindEmptyExpr          Kind = "EmptyExpr"
	KindRepeatedExprTerm   Kind = "RepeatedExprTerminal"
	KindRepeatedExprOp     Kind = "RepeatedExprOperator"
	KindInvalidUnaryOp     Kind = "InvalidUnaryOperator"
	KindInvalidExprEnd     Kind = "InvalidExprEnd"

	// Compile
	KindUnknownVariable       Kind = "UnknownVariable"
	KindUnknownFunction       Kind = "UnknownFunction"
	KindUnknownClass          Kind = "UnknownClass"
	KindUnknownNamespace      Kind = "UnknownNamespace"
	KindUnknownMember         Kind = "UnknownMember"
	KindInvalidBinaryOp       Kind = "InvalidBinaryOperator"
	KindInvalidUnaryOpType    Kind = "InvalidUnaryOperatorType"
	KindInvalidType           Kind = "InvalidType"
	KindMutatingExternalState Kind = "MutatingExternalState"
	KindMutatingConstant      Kind = "MutatingConstant"
	KindRedefiningVariable    Kind = "RedefiningVariable"
	KindRedefiningArg         Kind = "RedefiningArg"
	KindRedefiningFunction    Kind = "RedefiningFunction"
	KindVoidArgument          Kind = "VoidArgument"
	KindVoidVariable          Kind = "VoidVariable"
	KindVoidMember            Kind = "VoidMember"
	KindReturnOutsideFunc     Kind = "ReturnOutsideFunc"
	KindReturnVoid            Kind = "ReturnVoid"
	KindCtrlFlowOutsideLoop   Kind = "CtrlFlowOutsideLoop"
	KindNestedTryCatch        Kind = "NestedTryCatch"
	KindUnsafeOpInSafeBlock   Kind = "UnsafeOpInSafeBlock"
	KindThrowInSafeFunc       Kind = "ThrowInSafeFunc"
	KindIncoherentListElems   Kind = "IncoherentListElements"
	KindInvalidIterable       Kind = "InvalidIterable"
	KindMethodNotImplemented  Kind = "MethodNotImplemented"
	KindNonVoidFunctionStmnt  Kind = "NonVoidFunctionStmnt"
	KindExceptionOutsideCatch Kind = "ExceptionTypeOutsideCatch"
	KindUninferableType       Kind = "UninferableType"
	KindMissingMembers        Kind = "MissingMembers"
	KindUndefinedMembers      Kind = "UndefinedMembers"
	KindNoDefaultReturnStmnt  Kind = "NoDefaultReturnStmnt"
	KindOverloadCollision     Kind = "OverloadCollision"

	// Internal
	KindInvariantViolated Kind = "InvariantViolated"
)

// Error is a single structured diagnostic: which Family raised it, what
// Kind of condition it is, a human message, and the Span it anchors to.
type Error struct {
	Family  Family
	Kind    Kind
	Message string
	Span    source.Span
}

// New builds an Error.
func New(family Family, kind Kind, span source.Span, format string, args ...any) *Error {
	return &Error{Family: family, Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// Lex, Parse, Compile, Internal are family-specific constructors so call
// sites read naturally (cerrors.Parse(KindEmptyExpr, span, "...")).
func Lex(kind Kind, span source.Span, format string, args ...any) *Error {
	return New(FamilyLex, kind, span, format, args...)
}

func Parse(kind Kind, span source.Span, format string, args ...any) *Error {
	return New(FamilyParse, kind, span, format, args...)
}

func Compile(kind Kind, span source.Span, format string, args ...any) *Error {
	return New(FamilyCompile, kind, span, format, args...)
}

func Internal(kind Kind, span source.Span, format string, args ...any) *Error {
	return New(FamilyInternal, kind, span, format, args...)
}

// Error implements the error interface with an unadorned one-line message;
// use Format for a source-annotated rendering.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error [%s] at %s: %s", e.Family, e.Kind, e.Span.Start, e.Message)
}

// Format renders the error with its source excerpt and a caret pointing at
// Span.Start, via whatever Spanner produced the Span. This is the
// "propagation contract" spec §4.7/§7 require of the core; the actual
// terminal coloring is left to the CLI.
func (e *Error) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s error: %s\n", strings.ToUpper(string(e.Family)[:1])+string(e.Family)[1:], e.Message)
	fmt.Fprintf(&sb, "  --> %s\n", e.Span.Start)

	if e.Span.Spanner != nil {
		if line := e.Span.Spanner.Excerpt(e.Span.Start.Line); line != "" {
			lineNum := fmt.Sprintf("%d", e.Span.Start.Line)
			fmt.Fprintf(&sb, "   %s | %s\n", lineNum, line)
			fmt.Fprintf(&sb, "   %s   %s^\n", strings.Repeat(" ", len(lineNum)), strings.Repeat(" ", max(0, e.Span.Start.Column-1)))
		}
	}
	return sb.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// List accumulates Errors across a single lex/parse/compile run, matching
// the "accumulates all errors it can before bailing" propagation rule.
type List struct {
	Errors []*Error
}

// Add appends err if non-nil.
func (l *List) Add(err *Error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// HasErrors reports whether any error has been recorded.
func (l *List) HasErrors() bool {
	return len(l.Errors) > 0
}

// AsErrors converts the accumulated list to a plain []error slice, the
// shape handed back across package boundaries (lexer.AdvanceProg,
// Parser.ParseProgram and compiler.Compile each return their result
// together with a []error).
func (l *List) AsErrors() []error {
	if len(l.Errors) == 0 {
		return nil
	}
	out := make([]error, len(l.Errors))
	for i, e := range l.Errors {
		out[i] = e
	}
	return out
}

// Format renders every accumulated error, one after another.
func (l *List) Format() string {
	var sb strings.Builder
	for _, e := range l.Errors {
		sb.WriteString(e.Format())
		sb.WriteString("\n")
	}
	return sb.String()
}
