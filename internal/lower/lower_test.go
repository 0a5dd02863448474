package lower

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hello-module/internal/ast"
	"hello-module/internal/codegen"
	"hello-module/internal/errors"
	"hello-module/internal/interp"
	"hello-module/internal/parser"
	"hello-module/internal/semantic"
	"hello-module/internal/verify"
)

const maxSource = `int max(int val1, int val2) {
    int c;
    if (val1 < val2) {
        c = val1;
    } else {
        c = val2;
    }
    return c;
}`

func lowerSource(t *testing.T, source string) (*codegen.Session, *ir.Func) {
	t.Helper()

	fn, parseErrors := parser.ParseSource("test.c", source)
	require.Empty(t, parseErrors)

	semanticErrors := semantic.NewAnalyzer().Analyze(fn)
	require.False(t, errors.HasErrors(semanticErrors), "unexpected semantic errors: %v", semanticErrors)

	s := codegen.NewSession(codegen.DefaultTarget())
	irFunc, err := Function(s, fn)
	require.NoError(t, err)

	res := verify.Function(irFunc)
	require.True(t, res.OK(), res.String())
	return s, irFunc
}

func blockNames(fn *ir.Func) []string {
	names := make([]string, len(fn.Blocks))
	for i, b := range fn.Blocks {
		names[i] = b.Name()
	}
	return names
}

func TestLowerMaxMatchesTemplate(t *testing.T) {
	lowered, _ := lowerSource(t, maxSource)

	template := codegen.NewSession(codegen.DefaultTarget())
	i32 := template.Context.Int32Type()
	fn := template.DeclareFunction(i32, []types.Type{i32, i32}, "max", false)
	require.NoError(t, template.SetFuncArgs(fn, []string{"val1", "val2"}))
	require.NoError(t, template.BuildMaxBody(fn))

	assert.Equal(t, template.Module.String(), lowered.Module.String())
}

func TestLowerMaxShape(t *testing.T) {
	_, fn := lowerSource(t, maxSource)

	assert.Equal(t, []string{"entry", "then", "else", "ret"}, blockNames(fn))

	entry := fn.Blocks[0]
	require.Len(t, entry.Insts, 2)
	alloca, ok := entry.Insts[0].(*ir.InstAlloca)
	require.True(t, ok)
	assert.Equal(t, "c", alloca.Name())
	assert.Equal(t, ir.Align(4), alloca.Align)

	_, ok = entry.Term.(*ir.TermCondBr)
	assert.True(t, ok, "entry should end in a conditional branch")
}

func TestLowerMaxSelection(t *testing.T) {
	_, fn := lowerSource(t, maxSource)

	cases := []struct {
		a, b, want int64
	}{
		{3, 5, 3},
		{5, 3, 3},
		{4, 4, 4},
		{-7, 2, -7},
	}
	for _, c := range cases {
		got, err := interp.Call(fn, c.a, c.b)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "max(%d, %d)", c.a, c.b)
	}
}

func TestLowerIfWithoutElse(t *testing.T) {
	source := `int clamp(int x) {
    if (x > 10) {
        x = 10;
    }
    return x;
}`

	_, fn := lowerSource(t, source)
	assert.Equal(t, []string{"entry", "then", "ret"}, blockNames(fn))

	// the assigned parameter is spilled to a slot
	alloca, ok := fn.Blocks[0].Insts[0].(*ir.InstAlloca)
	require.True(t, ok)
	assert.Equal(t, "x.addr", alloca.Name())

	got, err := interp.Call(fn, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)

	got, err = interp.Call(fn, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got)
}

func TestLowerJoinNotFollowedByReturn(t *testing.T) {
	source := `int f(int a) {
    int r = 0;
    if (a == 1) {
        r = 5;
    }
    r = r + 1;
    return r;
}`

	_, fn := lowerSource(t, source)
	assert.Equal(t, []string{"entry", "then", "endif"}, blockNames(fn))

	got, err := interp.Call(fn, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)
}

func TestLowerNestedIfUniqueNames(t *testing.T) {
	source := `int sign(int a) {
    int r;
    if (a < 0) {
        r = -1;
    } else {
        if (a == 0) {
            r = 0;
        } else {
            r = 1;
        }
    }
    return r;
}`

	_, fn := lowerSource(t, source)

	seen := make(map[string]bool)
	for _, name := range blockNames(fn) {
		assert.False(t, seen[name], "block %s named twice", name)
		seen[name] = true
	}
	assert.Equal(t, "ret", fn.Blocks[len(fn.Blocks)-1].Name())

	for a, want := range map[int64]int64{-9: -1, 0: 0, 12: 1} {
		got, err := interp.Call(fn, a)
		require.NoError(t, err)
		assert.Equal(t, want, got, "sign(%d)", a)
	}
}

func TestLowerBothBranchesReturn(t *testing.T) {
	source := `int pick(int a, int b) {
    if (a >= b) {
        return a;
    } else {
        return b;
    }
}`

	_, fn := lowerSource(t, source)
	assert.Equal(t, []string{"entry", "then", "else"}, blockNames(fn))

	got, err := interp.Call(fn, 2, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got)
}

func TestLowerIntegerCondition(t *testing.T) {
	source := `int truthy(int a) {
    if (a) {
        return 1;
    }
    return 0;
}`

	_, fn := lowerSource(t, source)
	cmp, ok := fn.Blocks[0].Insts[0].(*ir.InstICmp)
	require.True(t, ok)
	assert.Equal(t, enum.IPredNE, cmp.Pred)

	got, err := interp.Call(fn, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestLowerArithmetic(t *testing.T) {
	source := `int poly(int x) {
    return 2 * x * x - 3 * x + 1;
}`

	_, fn := lowerSource(t, source)
	got, err := interp.Call(fn, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(21), got)
}

func TestLowerShadowing(t *testing.T) {
	source := `int f(int a) {
    int c = a;
    {
        int c = 100;
        a = c;
    }
    return c + a;
}`

	s, fn := lowerSource(t, source)
	assert.Contains(t, s.Module.String(), "%c.1 = alloca i32")

	got, err := interp.Call(fn, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(101), got)
}

func TestLowerVoidFunction(t *testing.T) {
	source := `void noop(int a) {
    int b = a;
    a = b;
}`

	s, fn := lowerSource(t, source)
	_, ok := fn.Blocks[len(fn.Blocks)-1].Term.(*ir.TermRet)
	assert.True(t, ok)
	assert.Contains(t, s.Module.String(), "ret void")
}

func TestLowerUnreachableStatementsSkipped(t *testing.T) {
	source := `int f(int a) {
    return a;
    a = 2;
}`

	_, fn := lowerSource(t, source)
	require.Len(t, fn.Blocks, 1)
	assert.Empty(t, fn.Blocks[0].Insts)
}

func TestLowerNoSpillForAssignmentAfterReturningIf(t *testing.T) {
	source := `int f(int a, int b) {
    if (a < b) {
        return a;
    } else {
        return b;
    }
    a = 1;
}`

	s, fn := lowerSource(t, source)
	assert.NotContains(t, s.Module.String(), "a.addr")
	require.Len(t, fn.Blocks[0].Insts, 1)
	_, ok := fn.Blocks[0].Insts[0].(*ir.InstICmp)
	assert.True(t, ok)
}

func TestLowerComparisonAsValueUnsupported(t *testing.T) {
	fn := &ast.Function{
		Return: &ast.Type{Name: "int"},
		Name:   "bad",
		Params: []*ast.Param{{Type: &ast.Type{Name: "int"}, Name: "a"}},
		Body: &ast.Block{Statements: []ast.Stmt{
			&ast.Return{Value: &ast.Binary{
				Op:    ast.OpLess,
				Left:  &ast.Ident{Name: "a"},
				Right: &ast.IntLit{Value: 1},
			}},
		}},
	}

	_, err := Function(codegen.NewSession(codegen.DefaultTarget()), fn)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.True(t, strings.HasPrefix(err.Error(), "lower bad:"))
}

func TestLowerMissingReturnFails(t *testing.T) {
	fn := &ast.Function{
		Return: &ast.Type{Name: "int"},
		Name:   "none",
		Body:   &ast.Block{},
	}

	_, err := Function(codegen.NewSession(codegen.DefaultTarget()), fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control reaches end")
}
