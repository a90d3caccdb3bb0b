// Package driver runs the compiler's four stages over a single source
// file: lex+parse, semantic analysis (scope/type check then control
// flow), optimization (currently a no-op reserved for future use), and
// MIPS code generation. Each stage is all-or-nothing: a stage that
// fails stops the pipeline and reports a diagnostic with the stage's
// fixed prefix, mirroring the reference compiler's stage processors.
package driver

import (
	"fmt"
	"os"

	"github.com/devren-holt/lumenc/pkg/ast"
	"github.com/devren-holt/lumenc/pkg/cflow"
	"github.com/devren-holt/lumenc/pkg/codegen/mips"
	"github.com/devren-holt/lumenc/pkg/lexer"
	"github.com/devren-holt/lumenc/pkg/parser"
	"github.com/devren-holt/lumenc/pkg/typecheck"
)

// Context carries the state threaded through the pipeline: the
// source/output paths and the AST produced by the lex+parse stage.
type Context struct {
	InputFile  string
	OutputFile string
	Program    *ast.Program

	// DumpTokens and DumpAST mirror the CLI's --dtokens and --dparse
	// flags; when set, the lex+parse stage writes a dump to Debug before
	// continuing.
	DumpTokens bool
	DumpAST    bool
	Debug      *os.File
}

// Stage is one step of the compilation pipeline.
type Stage interface {
	Process(ctx *Context) bool
}

// Run executes stages in order, stopping at the first failure.
func Run(ctx *Context, stages ...Stage) bool {
	for _, stage := range stages {
		if !stage.Process(ctx) {
			return false
		}
	}
	return true
}

// DefaultStages returns the standard pipeline: lex+parse, semantic
// analysis, optimization, code generation.
func DefaultStages() []Stage {
	return []Stage{
		LexParseStage{},
		SemanticAnalysisStage{},
		OptimizationStage{},
		CodeGenStage{},
	}
}

// LexParseStage reads the input file, tokenizes it, and parses it into
// ctx.Program.
type LexParseStage struct{}

func (LexParseStage) Process(ctx *Context) bool {
	src, err := os.ReadFile(ctx.InputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open source file: %s\n", ctx.InputFile)
		return false
	}

	l := lexer.New(string(src))

	if ctx.DumpTokens && ctx.Debug != nil {
		dumpTokens(ctx.Debug, string(src))
	}

	p := parser.New(l)
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintf(os.Stderr, "Parser error: %s\n", e)
		}
		return false
	}

	ctx.Program = prog

	if ctx.DumpAST && ctx.Debug != nil {
		ast.NewPrinter(ctx.Debug).PrintProgram(prog)
	}

	return true
}

func dumpTokens(w *os.File, src string) {
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		fmt.Fprintf(w, "%s %q (line %d, col %d)\n", tok.Type, tok.Literal, tok.Line, tok.Column)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
}

// SemanticAnalysisStage runs scope/type checking followed by the
// control-flow checker, per the all-or-nothing pass policy.
type SemanticAnalysisStage struct{}

func (SemanticAnalysisStage) Process(ctx *Context) bool {
	if ctx.Program == nil {
		fmt.Fprintln(os.Stderr, "Semantic error: missing AST")
		return false
	}

	if err := typecheck.Check(ctx.Program); err != nil {
		fmt.Fprintf(os.Stderr, "Semantic error: %s\n", err)
		return false
	}

	if err := cflow.Check(ctx.Program); err != nil {
		fmt.Fprintf(os.Stderr, "Semantic error: %s\n", err)
		return false
	}

	return true
}

// OptimizationStage is a reserved no-op, matching the reference
// compiler's OptimizationStageProcessor.
type OptimizationStage struct{}

func (OptimizationStage) Process(ctx *Context) bool { return true }

// CodeGenStage emits MIPS assembly for ctx.Program to ctx.OutputFile.
type CodeGenStage struct{}

func (CodeGenStage) Process(ctx *Context) bool {
	if ctx.Program == nil {
		fmt.Fprintln(os.Stderr, "Code generation error: missing AST")
		return false
	}

	code := mips.Generate(ctx.Program)

	if err := os.WriteFile(ctx.OutputFile, []byte(code), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening output file: %s\n", ctx.OutputFile)
		return false
	}

	return true
}
