// Package driver runs the IR emission pipeline: set up a session, declare and
// name max, fill its body, verify it and print the module.
package driver

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/tliron/commonlog"

	"hello-module/internal/codegen"
	"hello-module/internal/errors"
	"hello-module/internal/lower"
	"hello-module/internal/parser"
	"hello-module/internal/semantic"
	"hello-module/internal/source"
	"hello-module/internal/verify"
)

var logger = commonlog.GetLogger("hello-module.driver")

// FunctionName is the name of the function the template declares.
const FunctionName = "max"

// ParamNames are the names given to the two parameters of max.
var ParamNames = []string{"val1", "val2"}

// Result is what a run produced. It is returned alongside verification errors
// so callers can still inspect the module.
type Result struct {
	Session      *codegen.Session
	Function     *ir.Func
	Verification *verify.Result

	// Warnings from semantic analysis, source runs only.
	Warnings []errors.CompilerError
}

// Run builds max from the fixed template and writes the module to w.
func Run(w io.Writer) (*Result, error) {
	s, fn, err := BuildTemplate()
	if err != nil {
		return nil, err
	}
	return finish(w, &Result{Session: s, Function: fn})
}

// BuildTemplate performs the construction steps without verifying or printing.
func BuildTemplate() (*codegen.Session, *ir.Func, error) {
	s := codegen.NewSession(codegen.DefaultTarget())

	i32 := s.Context.Int32Type()
	fn := s.DeclareFunction(i32, []types.Type{i32, i32}, FunctionName, false)

	if err := s.SetFuncArgs(fn, ParamNames); err != nil {
		return nil, nil, fmt.Errorf("name parameters: %w", err)
	}
	if err := s.BuildMaxBody(fn); err != nil {
		return nil, nil, fmt.Errorf("build body: %w", err)
	}

	return s, fn, nil
}

// RunSource compiles src, which must hold exactly one function, and writes the
// resulting module to w. Parse and semantic errors come back as *CompileError.
func RunSource(w io.Writer, name string, src []byte) (*Result, error) {
	fn, parseErrors := parser.ParseSource(name, string(src))
	if len(parseErrors) > 0 {
		return nil, &CompileError{Filename: name, Source: string(src), Errors: parseErrors}
	}

	diagnostics := semantic.NewAnalyzer().Analyze(fn)
	if errors.HasErrors(diagnostics) {
		return nil, &CompileError{Filename: name, Source: string(src), Errors: diagnostics}
	}

	s := codegen.NewSession(codegen.DefaultTarget())
	irFunc, err := lower.Function(s, fn)
	if err != nil {
		return nil, err
	}

	return finish(w, &Result{Session: s, Function: irFunc, Warnings: diagnostics})
}

// RunEmbedded compiles the max program embedded in the binary.
func RunEmbedded(w io.Writer) (*Result, error) {
	p := source.Max()
	return RunSource(w, p.Filename, p.Text)
}

// finish verifies the function and prints the module. The module is written
// even when verification fails.
func finish(w io.Writer, res *Result) (*Result, error) {
	res.Verification = verify.Function(res.Function)
	if !res.Verification.OK() {
		logger.Debugf("%s failed verification:\n%s", res.Function.Name(), res.Verification)
	}

	if _, err := res.Session.Module.WriteTo(w); err != nil {
		return res, fmt.Errorf("print module: %w", err)
	}

	if err := res.Verification.Err(); err != nil {
		return res, err
	}
	return res, nil
}
