package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/chalcedony/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexEval    string
	lexShowPos bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Chalcedony file or expression",
	Long: `Tokenize (lex) a Chalcedony program and print the resulting tokens,
grouped by logical Line.

Examples:
  chalcedony lex script.chl
  chalcedony lex -e "let a = 1 + 2"
  chalcedony lex --show-pos script.chl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show each token's source span")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readInput(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	errCount := 0
	for !l.IsEmpty() {
		chunk, errs := l.AdvanceProg()
		for _, e := range errs {
			errCount++
			fmt.Fprintln(os.Stderr, e)
		}
		for _, line := range chunk {
			printLine(line)
		}
	}
	if errCount > 0 {
		return fmt.Errorf("lexing found %d error(s)", errCount)
	}
	return nil
}

func printLine(line lexer.Line) {
	fmt.Printf("indent=%d\n", line.Indent)
	for _, tok := range line.Tokens {
		if lexShowPos {
			fmt.Printf("  %-14s %q @%s\n", tok.Kind, tok.Text, tok.Span)
		} else {
			fmt.Printf("  %-14s %q\n", tok.Kind, tok.Text)
		}
	}
}
