package errors

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"hello-module/internal/ast"
)

const source = `int max(int val1, int val2) {
    int c;
    if (val1 < val2) { c = vall; } else { c = val2; }
    return c;
}`

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestErrorReporter(t *testing.T) {
	reporter := NewErrorReporter("max.c", source)

	err := UndefinedVariable("vall", ast.Position{Line: 3, Column: 28}, []string{"val1"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined variable 'vall'")
	assert.Contains(t, formatted, "max.c:3:28")
	assert.Contains(t, formatted, "if (val1 < val2) { c = vall; }")
	assert.Contains(t, formatted, "^^^^")
	assert.Contains(t, formatted, "did you mean 'val1'?")
}

func TestFormatAllKeepsOrder(t *testing.T) {
	reporter := NewErrorReporter("max.c", source)

	out := reporter.FormatAll([]CompilerError{
		SyntaxError("unexpected token", ast.Position{Line: 1, Column: 1}),
		UnusedVariable("c", ast.Position{Line: 2, Column: 9}),
	})

	first := strings.Index(out, ErrorSyntax)
	second := strings.Index(out, WarningUnusedVariable)
	assert.True(t, first >= 0 && second > first, "errors out of order:\n%s", out)
	assert.Contains(t, out, "warning[")
}

func TestFormatErrorOutsideSource(t *testing.T) {
	reporter := NewErrorReporter("max.c", source)

	formatted := reporter.FormatError(FunctionCount(0, ast.Position{Line: 99, Column: 1}))
	assert.Contains(t, formatted, "expected exactly one function, found 0")
	assert.Contains(t, formatted, "max.c:99:1")
	assert.NotContains(t, formatted, "^")
}

func TestCompilerErrorString(t *testing.T) {
	err := DuplicateDeclaration("c", ast.Position{Filename: "max.c", Line: 2, Column: 9})
	assert.Equal(t, "max.c:2:9: error[E0003]: duplicate declaration: c", err.Error())
}

func TestHasErrors(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}
	assert.False(t, HasErrors(nil))
	assert.False(t, HasErrors([]CompilerError{UnreachableCode(pos)}))
	assert.True(t, HasErrors([]CompilerError{UnreachableCode(pos), MissingReturn("f", "int", pos)}))
}

func TestFindSimilarNames(t *testing.T) {
	assert.Equal(t, []string{"val1", "val2"}, FindSimilarNames("vall", []string{"val1", "val2", "c"}))
	assert.Empty(t, FindSimilarNames("xyz", []string{"val1", "c"}))
	assert.Equal(t, []string{"int"}, FindSimilarNames("inx", []string{"int"}))
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Semantic Analysis", GetErrorCategory(ErrorUndefinedVariable))
	assert.Equal(t, "Parser", GetErrorCategory(ErrorSyntax))
	assert.True(t, IsWarning(WarningUnusedVariable))
	assert.False(t, IsWarning(ErrorTypeMismatch))
	assert.Equal(t, "Unknown error code", GetErrorDescription("E9999"))
}
