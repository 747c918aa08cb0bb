// Package chalcedony is the embedding-facing facade over the lexer,
// parser, and compiler: a single call that turns source text into a
// bytecode.Chunk or a list of errors. Grounded on the shape of the
// teacher's pkg/dwscript facade (one entry point hiding the pipeline's
// internal packages from callers), trimmed to this module's
// lex/parse/compile scope — execution is the out-of-scope VM's job.
package chalcedony

import (
	"github.com/cwbudde/chalcedony/internal/bytecode"
	"github.com/cwbudde/chalcedony/internal/compiler"
	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/cwbudde/chalcedony/internal/parser"
)

// Compile runs the full pipeline over src and returns the resulting
// bytecode.Chunk. Lexer and parser errors short-circuit compilation (a
// malformed program has no meaningful AST to type-check); compiler errors
// are returned alongside a best-effort Chunk.
func Compile(src string) (*bytecode.Chunk, []error) {
	prog, errs := parser.New(src).ParseProgram()
	if len(errs) > 0 {
		return nil, errs
	}
	return compiler.Compile(prog)
}

// Lex tokenizes src into its logical Lines without parsing, for tooling
// that only needs to inspect the token stream (e.g. the `lex` CLI
// subcommand).
func Lex(src string) ([][]lexer.Line, []error) {
	l := lexer.New(src)
	var chunks [][]lexer.Line
	var errs []error
	for !l.IsEmpty() {
		chunk, chunkErrs := l.AdvanceProg()
		errs = append(errs, chunkErrs...)
		if len(chunk) > 0 {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, errs
}
