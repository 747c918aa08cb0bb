package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/chalcedony/pkg/chalcedony"
	"github.com/spf13/cobra"
)

var (
	compileEval        string
	compileDisassemble bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile Chalcedony source to bytecode",
	Long: `Compile a Chalcedony program through the lexer, parser, and compiler,
reporting type errors and, on success, the compiled instruction count.

Use --disassemble to print the bytecode's mnemonic listing. There is no
facility to run the result; execution is the job of a separate virtual
machine.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileEval, "eval", "e", "", "compile an inline snippet instead of reading from file")
	compileCmd.Flags().BoolVar(&compileDisassemble, "disassemble", false, "print the disassembled bytecode")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, err := readInput(compileEval, args)
	if err != nil {
		return err
	}

	chunk, errs := chalcedony.Compile(input)
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Compile errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return fmt.Errorf("compilation failed with %d error(s)", len(errs))
	}

	fmt.Printf("Compiled successfully: %d instructions, %d constants\n", chunk.Len(), len(chunk.Constants))
	if compileDisassemble {
		fmt.Println(chunk.Disassemble())
	}
	return nil
}
