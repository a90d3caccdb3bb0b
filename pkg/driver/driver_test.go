package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_FullPipelineSucceeds(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "prog.lum", "func main() {\n\tprint 1 + 2\n}\n")
	out := filepath.Join(dir, "prog.s")

	ctx := &Context{InputFile: src, OutputFile: out}
	if ok := Run(ctx, DefaultStages()...); !ok {
		t.Fatal("expected pipeline to succeed")
	}

	generated, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("expected output file: %v", err)
	}
	if len(generated) == 0 {
		t.Fatal("expected non-empty assembly output")
	}
}

func TestRun_StopsOnMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	ctx := &Context{InputFile: filepath.Join(dir, "missing.lum"), OutputFile: filepath.Join(dir, "out.s")}
	if ok := Run(ctx, DefaultStages()...); ok {
		t.Fatal("expected pipeline to fail for a missing source file")
	}
}

func TestRun_StopsOnParseError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bad.lum", "func main( {\n")
	ctx := &Context{InputFile: src, OutputFile: filepath.Join(dir, "out.s")}
	if ok := Run(ctx, DefaultStages()...); ok {
		t.Fatal("expected pipeline to fail on a parse error")
	}
	if ctx.Program != nil {
		t.Error("expected ctx.Program to remain nil after a failed parse")
	}
}

func TestRun_StopsOnSemanticError(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "bad.lum", "func main() {\n\tprint undeclared\n}\n")
	out := filepath.Join(dir, "out.s")
	ctx := &Context{InputFile: src, OutputFile: out}

	if ok := Run(ctx, DefaultStages()...); ok {
		t.Fatal("expected pipeline to fail on an undeclared identifier")
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("expected no output file to be written after a semantic error")
	}
}

func TestSemanticAnalysisStage_MissingAST(t *testing.T) {
	ctx := &Context{}
	if (SemanticAnalysisStage{}).Process(ctx) {
		t.Fatal("expected failure with a nil Program")
	}
}

func TestCodeGenStage_MissingAST(t *testing.T) {
	ctx := &Context{}
	if (CodeGenStage{}).Process(ctx) {
		t.Fatal("expected failure with a nil Program")
	}
}

func TestOptimizationStage_AlwaysSucceeds(t *testing.T) {
	if !(OptimizationStage{}.Process(&Context{})) {
		t.Fatal("expected the no-op optimization stage to always succeed")
	}
}

func TestLexParseStage_DumpsTokensAndAST(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "prog.lum", "func main() {\n\tprint 1\n}\n")
	debugFile := filepath.Join(dir, "debug.txt")
	f, err := os.Create(debugFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ctx := &Context{InputFile: src, DumpTokens: true, DumpAST: true, Debug: f}
	if ok := (LexParseStage{}.Process(ctx)); !ok {
		t.Fatal("expected lex+parse to succeed")
	}
	f.Sync()

	dumped, err := os.ReadFile(debugFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(dumped) == 0 {
		t.Fatal("expected token/AST dump to be non-empty")
	}
}
