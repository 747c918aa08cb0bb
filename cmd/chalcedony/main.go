// Command chalcedony is the CLI front end for the lexer, parser, and
// compiler — it drives the pipeline over a file or inline snippet and
// prints tokens, the AST, or disassembled bytecode. Running the result is
// out of scope: there is no `run` subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/chalcedony/cmd/chalcedony/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
