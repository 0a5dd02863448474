package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hello-module/internal/ast"
	"hello-module/internal/errors"
	"hello-module/internal/parser"
)

func analyze(t *testing.T, source string) []errors.CompilerError {
	t.Helper()
	fn, parseErrors := parser.ParseSource("test.c", source)
	require.Empty(t, parseErrors, "should have no parse errors")
	require.NotNil(t, fn)
	return NewAnalyzer().Analyze(fn)
}

func codes(errs []errors.CompilerError) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Code)
	}
	return out
}

func TestAnalyzeMaxFunction(t *testing.T) {
	source := `int max(int val1, int val2) {
    int c;
    if (val1 < val2) {
        c = val1;
    } else {
        c = val2;
    }
    return c;
}`

	errs := analyze(t, source)
	assert.Empty(t, errs, "max should analyze cleanly")
}

func TestUndefinedVariableSuggestsSimilar(t *testing.T) {
	source := `int f(int val1, int val2) {
    return val3;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorUndefinedVariable, errs[0].Code)
	assert.Contains(t, errs[0].Message, "val3")
	require.NotEmpty(t, errs[0].Suggestions)
	assert.Contains(t, errs[0].Suggestions[0], "val")
	assert.Equal(t, 2, errs[0].Position.Line)
}

func TestAssignToUndeclared(t *testing.T) {
	source := `int f(int a) {
    b = a;
    return a;
}`

	errs := analyze(t, source)
	assert.Equal(t, []string{errors.ErrorUndefinedVariable}, codes(errs))
}

func TestDuplicateParameter(t *testing.T) {
	source := `int f(int a, int a) {
    return a;
}`

	errs := analyze(t, source)
	assert.Equal(t, []string{errors.ErrorDuplicateDeclaration}, codes(errs))
}

func TestDuplicateLocalInSameScope(t *testing.T) {
	source := `int f(int a) {
    int c = a;
    int c = 1;
    return c;
}`

	errs := analyze(t, source)
	assert.Contains(t, codes(errs), errors.ErrorDuplicateDeclaration)
}

func TestLocalRedeclaresParameter(t *testing.T) {
	source := `int f(int a) {
    int a = 1;
    return a;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorDuplicateDeclaration, errs[0].Code)
	assert.Equal(t, 2, errs[0].Position.Line)
}

func TestNestedBlockMayShadowParameter(t *testing.T) {
	source := `int f(int a) {
    {
        int a = 1;
        return a;
    }
}`

	errs := analyze(t, source)
	assert.Empty(t, errs)
}

func TestShadowingInNestedBlock(t *testing.T) {
	source := `int f(int a) {
    int c = a;
    {
        int c = 2;
        a = c;
    }
    return c;
}`

	errs := analyze(t, source)
	assert.Empty(t, errs, "a nested block may shadow an outer name")
}

func TestUnknownType(t *testing.T) {
	source := `int f(lnt a) {
    return 0;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorUnknownType, errs[0].Code)
	require.NotEmpty(t, errs[0].Suggestions)
	assert.Contains(t, errs[0].Suggestions[0], "int")
}

func TestVoidParameterRejected(t *testing.T) {
	source := `void f(void a) {
    return;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorGenericSemantic, errs[0].Code)
}

func TestComparisonUsedAsValue(t *testing.T) {
	source := `int f(int a, int b) {
    int c = a < b;
    return c;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorTypeMismatch, errs[0].Code)
	assert.Contains(t, errs[0].Message, "expected int, found bool")
}

func TestComparisonOfComparison(t *testing.T) {
	source := `int f(int a, int b) {
    if ((a < b) == 1) {
        return a;
    }
    return b;
}`

	errs := analyze(t, source)
	assert.Equal(t, []string{errors.ErrorTypeMismatch}, codes(errs))
}

func TestIntegerCondition(t *testing.T) {
	source := `int f(int a) {
    if (a) {
        return 1;
    }
    return 0;
}`

	errs := analyze(t, source)
	assert.Empty(t, errs)
}

func TestMissingReturn(t *testing.T) {
	source := `int f(int a, int b) {
    if (a < b) {
        return a;
    }
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorMissingReturn, errs[0].Code)
	assert.Contains(t, errs[0].Message, "'f'")
}

func TestBothBranchesReturn(t *testing.T) {
	source := `int f(int a, int b) {
    if (a < b) {
        return a;
    } else {
        return b;
    }
}`

	errs := analyze(t, source)
	assert.Empty(t, errs)
}

func TestBareReturnInIntFunction(t *testing.T) {
	source := `int f(int a) {
    return;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorTypeMismatch, errs[0].Code)
	assert.Contains(t, errs[0].Message, "found void")
}

func TestValueReturnInVoidFunction(t *testing.T) {
	source := `void f(int a) {
    return a;
}`

	errs := analyze(t, source)
	assert.Equal(t, []string{errors.ErrorTypeMismatch}, codes(errs))
}

func TestVoidFunctionMayFallOffEnd(t *testing.T) {
	source := `void f(int a) {
    int b = a;
    a = b;
}`

	errs := analyze(t, source)
	assert.Empty(t, errs)
}

func TestUnreachableCodeWarning(t *testing.T) {
	source := `int f(int a) {
    return a;
    a = 1;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.WarningUnreachableCode, errs[0].Code)
	assert.Equal(t, errors.Warning, errs[0].Level)
	assert.Equal(t, 3, errs[0].Position.Line)
	assert.False(t, errors.HasErrors(errs))
}

func TestUnusedVariableWarning(t *testing.T) {
	source := `int f(int a) {
    int unused;
    return a;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.WarningUnusedVariable, errs[0].Code)
	assert.Contains(t, errs[0].Message, "unused")
}

func TestAssignmentDoesNotCountAsUse(t *testing.T) {
	source := `int f(int a) {
    int c;
    c = a;
    return a;
}`

	errs := analyze(t, source)
	assert.Equal(t, []string{errors.WarningUnusedVariable}, codes(errs))
}

func TestLiteralOutOfInt32Range(t *testing.T) {
	source := `int f(int a) {
    return 2147483648;
}`

	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ErrorLiteralOverflow, errs[0].Code)
}

func TestLiteralAtInt32Bounds(t *testing.T) {
	source := `int f(int a) {
    int lo = -2147483648;
    int hi = 2147483647;
    return lo + hi * a;
}`

	errs := analyze(t, source)
	assert.Empty(t, errs)
}

func TestExpressionTypesRecorded(t *testing.T) {
	source := `int f(int a, int b) {
    if (a < b) {
        return a + 1;
    }
    return b;
}`

	fn, parseErrors := parser.ParseSource("test.c", source)
	require.Empty(t, parseErrors)

	analyzer := NewAnalyzer()
	require.Empty(t, analyzer.Analyze(fn))

	cond := fn.Body.Statements[0].(*ast.If).Cond
	assert.Equal(t, TypeBool, analyzer.Types[cond])

	ret := fn.Body.Statements[0].(*ast.If).Then.Statements[0].(*ast.Return)
	assert.Equal(t, TypeInt, analyzer.Types[ret.Value])
}

func TestGetErrorsMatchesLastRun(t *testing.T) {
	analyzer := NewAnalyzer()

	bad, _ := parser.ParseSource("bad.c", "int f(int a) { return b; }")
	require.NotNil(t, bad)
	assert.Len(t, analyzer.Analyze(bad), 1)
	assert.Len(t, analyzer.GetErrors(), 1)

	good, _ := parser.ParseSource("good.c", "int f(int a) { return a; }")
	require.NotNil(t, good)
	assert.Empty(t, analyzer.Analyze(good))
	assert.Empty(t, analyzer.GetErrors())
}
