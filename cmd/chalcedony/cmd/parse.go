package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/chalcedony/internal/ast"
	"github.com/cwbudde/chalcedony/internal/parser"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse Chalcedony source and display its statement tree",
	Long: `Parse Chalcedony source code and print the resulting Program's
top-level statements and their shapes.

If no file is provided, reads from stdin. Use -e to parse an inline
snippet.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse an inline snippet instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(parseEval, args)
	if err != nil {
		return err
	}

	prog, errs := parser.New(input).ParseProgram()
	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Parse errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	for _, item := range prog.Items {
		dumpStmt(item, 0)
	}
	return nil
}

func dumpStmt(stmt ast.Stmt, indent int) {
	pad := ""
	for i := 0; i < indent; i++ {
		pad += "  "
	}
	switch s := stmt.(type) {
	case *ast.FuncDecl:
		fmt.Printf("%sFuncDecl %s (%d args) -> %s\n", pad, s.Name, len(s.Args), s.ReturnType)
		for _, b := range s.Body {
			dumpStmt(b, indent+1)
		}
	case *ast.ClassDecl:
		fmt.Printf("%sClassDecl %s (%d members, %d methods)\n", pad, s.Name, len(s.Members), len(s.Methods))
		for _, m := range s.Methods {
			dumpStmt(m, indent+1)
		}
	case *ast.If:
		fmt.Printf("%sIf (%d elif, else=%v)\n", pad, len(s.Elifs), s.Else != nil)
		for _, b := range s.Body {
			dumpStmt(b, indent+1)
		}
	case *ast.While:
		fmt.Printf("%sWhile\n", pad)
		for _, b := range s.Body {
			dumpStmt(b, indent+1)
		}
	case *ast.For:
		fmt.Printf("%sFor %s\n", pad, s.Var)
		for _, b := range s.Body {
			dumpStmt(b, indent+1)
		}
	case *ast.TryCatch:
		fmt.Printf("%sTryCatch (catch %s: %s)\n", pad, s.CatchVar, s.CatchType)
		for _, b := range s.Try {
			dumpStmt(b, indent+1)
		}
	case *ast.VarDef:
		fmt.Printf("%sVarDef %s (const=%v)\n", pad, s.Name, s.IsConst)
	case *ast.Assign:
		fmt.Printf("%sAssign %s\n", pad, s.Target.Last().Name)
	case *ast.Return:
		fmt.Printf("%sReturn\n", pad)
	case *ast.FuncCallStmnt:
		fmt.Printf("%sFuncCallStmnt %s\n", pad, s.Call.Last().Name)
	default:
		fmt.Printf("%s%T\n", pad, stmt)
	}
}
