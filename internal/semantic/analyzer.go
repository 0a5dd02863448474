// Package semantic checks a parsed function before it is lowered: names
// resolve, types line up, every path returns.
package semantic

import (
	"fmt"

	"github.com/tliron/commonlog"

	"hello-module/internal/ast"
	"hello-module/internal/errors"
)

var logger = commonlog.GetLogger("hello-module.semantic")

type Analyzer struct {
	fn      *ast.Function
	errors  []errors.CompilerError
	symbols *SymbolTable
	returns Type

	// Types records the type of every expression that was checked.
	Types map[ast.Expr]Type
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		errors: make([]errors.CompilerError, 0),
		Types:  make(map[ast.Expr]Type),
	}
}

// Analyze checks fn and returns every error and warning found, in source order
// of discovery.
func (a *Analyzer) Analyze(fn *ast.Function) []errors.CompilerError {
	a.fn = fn
	a.errors = make([]errors.CompilerError, 0)
	a.Types = make(map[ast.Expr]Type)
	a.symbols = NewSymbolTable(nil)

	a.returns = a.resolveType(fn.Return, true)

	for _, p := range fn.Params {
		typ := a.resolveType(p.Type, false)
		if a.symbols.LookupLocal(p.Name) != nil {
			a.addCompilerError(errors.DuplicateDeclaration(p.Name, p.Pos))
			continue
		}
		sym := a.symbols.Define(p.Name, SymbolParameter, typ, p.Pos)
		sym.Used = true
	}

	// The body shares the parameters' scope, so a local may not reuse a parameter name.
	returns := a.analyzeScope(fn.Body, a.symbols)
	if !returns && a.returns != TypeVoid && a.returns != TypeInvalid {
		a.addCompilerError(errors.MissingReturn(fn.Name, a.returns.String(), fn.Pos))
	}

	logger.Debugf("%s: %d diagnostics", fn.Name, len(a.errors))
	return a.errors
}

// GetErrors returns the diagnostics of the last analysis
func (a *Analyzer) GetErrors() []errors.CompilerError {
	return a.errors
}

func (a *Analyzer) resolveType(t *ast.Type, allowVoid bool) Type {
	typ, ok := LookupType(t.Name)
	if !ok {
		a.addCompilerError(errors.UnknownType(t.Name, t.Pos, KnownTypeNames()))
		return TypeInvalid
	}
	if typ == TypeVoid && !allowVoid {
		a.addError(fmt.Sprintf("'%s' is only allowed as a return type", t.Name), t.Pos)
		return TypeInvalid
	}
	return typ
}

// analyzeBlock checks the statements of b in a new scope and reports whether
// every path through it returns.
func (a *Analyzer) analyzeBlock(b *ast.Block, parent *SymbolTable) bool {
	return a.analyzeScope(b, NewSymbolTable(parent))
}

// analyzeScope checks the statements of b with declarations going into scope.
func (a *Analyzer) analyzeScope(b *ast.Block, scope *SymbolTable) bool {
	returns := false

	for _, stmt := range b.Statements {
		if returns {
			a.addCompilerError(errors.UnreachableCode(stmt.NodePos()))
			break
		}
		returns = a.analyzeStmt(stmt, scope)
	}

	for _, sym := range scope.order {
		if sym.Kind == SymbolVariable && !sym.Used {
			a.addCompilerError(errors.UnusedVariable(sym.Name, sym.Position))
		}
	}

	return returns
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt, scope *SymbolTable) bool {
	switch s := stmt.(type) {
	case *ast.Block:
		return a.analyzeBlock(s, scope)

	case *ast.VarDecl:
		typ := a.resolveType(s.Type, false)
		if s.Value != nil {
			a.expectType(s.Value, typ, scope)
		}
		if scope.LookupLocal(s.Name) != nil {
			a.addCompilerError(errors.DuplicateDeclaration(s.Name, s.Pos))
			return false
		}
		scope.Define(s.Name, SymbolVariable, typ, s.Pos)

	case *ast.Assign:
		sym := a.resolve(s.Target, scope, false)
		if sym != nil {
			a.expectType(s.Value, sym.Type, scope)
		} else {
			a.checkExpr(s.Value, scope)
		}

	case *ast.If:
		cond := a.checkExpr(s.Cond, scope)
		if cond != TypeBool && cond != TypeInt && cond != TypeInvalid {
			a.addCompilerError(errors.TypeMismatch("bool", cond.String(), s.Cond.NodePos()))
		}
		thenReturns := a.analyzeBlock(s.Then, scope)
		if s.Else == nil {
			return false
		}
		elseReturns := a.analyzeBlock(s.Else, scope)
		return thenReturns && elseReturns

	case *ast.Return:
		switch {
		case s.Value == nil && a.returns != TypeVoid && a.returns != TypeInvalid:
			a.addCompilerError(errors.TypeMismatch(a.returns.String(), "void", s.Pos))
		case s.Value != nil && a.returns == TypeVoid:
			a.addCompilerError(errors.TypeMismatch("void", a.checkExpr(s.Value, scope).String(), s.Value.NodePos()))
		case s.Value != nil:
			a.expectType(s.Value, a.returns, scope)
		}
		return true
	}

	return false
}

func (a *Analyzer) expectType(e ast.Expr, want Type, scope *SymbolTable) {
	got := a.checkExpr(e, scope)
	if got == TypeInvalid || want == TypeInvalid || got == want {
		return
	}
	a.addCompilerError(errors.TypeMismatch(want.String(), got.String(), e.NodePos()))
}

func (a *Analyzer) checkExpr(e ast.Expr, scope *SymbolTable) Type {
	typ := a.exprType(e, scope)
	a.Types[e] = typ
	return typ
}

func (a *Analyzer) exprType(e ast.Expr, scope *SymbolTable) Type {
	switch e := e.(type) {
	case *ast.IntLit:
		if !fitsInt32(e.Value) {
			a.addCompilerError(errors.LiteralOverflow(fmt.Sprintf("%d", e.Value), "int", e.Pos))
			return TypeInvalid
		}
		return TypeInt

	case *ast.Ident:
		sym := a.resolve(e, scope, true)
		if sym == nil {
			return TypeInvalid
		}
		return sym.Type

	case *ast.Binary:
		left := a.checkExpr(e.Left, scope)
		right := a.checkExpr(e.Right, scope)
		for _, side := range []struct {
			typ  Type
			expr ast.Expr
		}{{left, e.Left}, {right, e.Right}} {
			if side.typ != TypeInt && side.typ != TypeInvalid {
				a.addCompilerError(errors.TypeMismatch("int", side.typ.String(), side.expr.NodePos()))
				return TypeInvalid
			}
		}
		if left == TypeInvalid || right == TypeInvalid {
			return TypeInvalid
		}
		if e.Op.IsComparison() {
			return TypeBool
		}
		return TypeInt
	}

	a.addError(fmt.Sprintf("unsupported expression %T", e), e.NodePos())
	return TypeInvalid
}

func (a *Analyzer) resolve(id *ast.Ident, scope *SymbolTable, read bool) *Symbol {
	sym := scope.Lookup(id.Name)
	if sym == nil {
		similar := errors.FindSimilarNames(id.Name, scope.Names())
		a.addCompilerError(errors.UndefinedVariable(id.Name, id.Pos, similar))
		return nil
	}
	if read {
		sym.Used = true
	}
	return sym
}

func (a *Analyzer) addError(message string, pos ast.Position) {
	err := errors.NewError(errors.ErrorGenericSemantic, message, pos).Build()
	a.errors = append(a.errors, err)
}

func (a *Analyzer) addCompilerError(err errors.CompilerError) {
	a.errors = append(a.errors, err)
}
