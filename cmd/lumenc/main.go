// Command lumenc compiles a single source file to MIPS assembly.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devren-holt/lumenc/pkg/ast"
	"github.com/devren-holt/lumenc/pkg/driver"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	dTokens bool
	dParse  bool
	dScope  bool
	dAsm    bool
	output  string
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lumenc <source-file> [output-file]",
		Short:   "lumenc compiles a small typed language to MIPS assembly",
		Version: version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.RangeArgs(1, 2)(cmd, args); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return err
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			outputFile := output
			if outputFile == "" && len(args) == 2 {
				outputFile = args[1]
			}
			if outputFile == "" {
				outputFile = defaultOutputFilename(inputFile)
			}

			ctx := &driver.Context{
				InputFile:  inputFile,
				OutputFile: outputFile,
				DumpTokens: dTokens,
				DumpAST:    dParse,
			}
			if dTokens || dParse {
				if f, ok := errOut.(*os.File); ok {
					ctx.Debug = f
				} else {
					ctx.Debug = os.Stderr
				}
			}

			stages := driver.DefaultStages()
			if !driver.Run(ctx, stages...) {
				return fmt.Errorf("compilation failed")
			}

			if dScope && ctx.Program != nil && ctx.Program.Scope != nil {
				dumpScope(errOut, ctx.Program.Decls)
			}

			if dAsm {
				code, err := os.ReadFile(outputFile)
				if err == nil {
					fmt.Fprint(out, string(code))
				}
			}

			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dTokens, "dtokens", false, "Dump the token stream before parsing")
	rootCmd.Flags().BoolVar(&dParse, "dparse", false, "Dump the AST after parsing")
	rootCmd.Flags().BoolVar(&dScope, "dscope", false, "Dump each function's own scope (its parameters) after compilation")
	rootCmd.Flags().BoolVar(&dAsm, "dasm", false, "Print the generated assembly to stdout")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to replacing the input extension with .s)")

	return rootCmd
}

func defaultOutputFilename(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[:idx] + ".s"
	}
	return filename + ".s"
}

func dumpScope(w io.Writer, decls []ast.Decl) {
	for _, d := range decls {
		fn, ok := d.(*ast.FuncDecl)
		if !ok || fn.Scope == nil {
			continue
		}
		fmt.Fprintf(w, "function %s:\n", fn.Name)
		for name, sym := range fn.Scope.Symbols() {
			fmt.Fprintf(w, "  %s: %s %s\n", name, sym.Kind, sym.Type)
		}
	}
}
