// Package lower turns a checked function from internal/ast into LLVM IR through
// a codegen session. Locals live in entry-block stack slots, so no phi nodes
// are needed: an if/else lowers to then, else and join blocks that read and
// write those slots.
package lower

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tliron/commonlog"

	"hello-module/internal/ast"
	"hello-module/internal/codegen"
)

var logger = commonlog.GetLogger("hello-module.lower")

// ErrUnsupported is returned for constructs the lowering cannot express.
var ErrUnsupported = errors.New("unsupported construct")

// predicates maps comparison operators to signed integer predicates.
var predicates = map[ast.BinaryOp]enum.IPred{
	ast.OpLess:         enum.IPredSLT,
	ast.OpLessEqual:    enum.IPredSLE,
	ast.OpGreater:      enum.IPredSGT,
	ast.OpGreaterEqual: enum.IPredSGE,
	ast.OpEqual:        enum.IPredEQ,
	ast.OpNotEqual:     enum.IPredNE,
}

// variable is what a name is bound to: either an SSA value read directly
// (an unassigned parameter) or a stack slot that must be loaded.
type variable struct {
	value value.Value
	slot  *ir.InstAlloca
}

type lowerer struct {
	s  *codegen.Session
	fn *ir.Func

	// variableStack holds the bindings of every visible name, innermost last.
	variableStack map[string][]variable
	slots         map[*ast.VarDecl]*ir.InstAlloca
	// names counts uses of every local name; blocks and values share it.
	names         map[string]int
}

// Function declares fn in the session's module and lowers its body. The
// function is expected to have passed semantic analysis.
func Function(s *codegen.Session, fn *ast.Function) (*ir.Func, error) {
	l := &lowerer{
		s:             s,
		variableStack: make(map[string][]variable),
		slots:         make(map[*ast.VarDecl]*ir.InstAlloca),
		names:         make(map[string]int),
	}

	if err := l.buildFunction(fn); err != nil {
		return nil, fmt.Errorf("lower %s: %w", fn.Name, err)
	}
	return l.fn, nil
}

func (l *lowerer) buildFunction(astFunc *ast.Function) error {
	ret, err := l.convertType(astFunc.Return)
	if err != nil {
		return err
	}

	params := make([]types.Type, len(astFunc.Params))
	names := make([]string, len(astFunc.Params))
	for i, p := range astFunc.Params {
		if params[i], err = l.convertType(p.Type); err != nil {
			return err
		}
		names[i] = p.Name
		l.names[p.Name]++
	}

	l.fn = l.s.DeclareFunction(ret, params, astFunc.Name, false)
	if err := l.s.SetFuncArgs(l.fn, names); err != nil {
		return err
	}

	entry := l.createBlock("entry")
	l.s.Builder.SetInsertPoint(entry)

	// Every stack slot is created up front so that allocas lead the entry block.
	assigned := make(map[string]bool)
	collectAssigned(astFunc.Body, assigned)
	spills := make(map[string]*ir.InstAlloca)
	for i, p := range astFunc.Params {
		if assigned[p.Name] {
			spills[p.Name] = l.s.Builder.CreateAlloca(params[i], l.uniqueName(p.Name+".addr"))
		}
	}
	if err := l.collectSlots(astFunc.Body); err != nil {
		return err
	}

	for i, p := range astFunc.Params {
		param := l.fn.Params[i]
		if slot, ok := spills[p.Name]; ok {
			l.s.Builder.CreateStore(param, slot)
			l.writeVariable(p.Name, variable{slot: slot})
			continue
		}
		l.writeVariable(p.Name, variable{value: param})
	}

	if err := l.buildBlock(astFunc.Body, true); err != nil {
		return err
	}

	if !l.s.Builder.Terminated() {
		if !ret.Equal(types.Void) {
			return fmt.Errorf("control reaches end of non-void function %s", astFunc.Name)
		}
		l.s.Builder.CreateRet(nil)
	}

	logger.Debugf("lowered %s into %d blocks", astFunc.Name, len(l.fn.Blocks))
	return nil
}

func (l *lowerer) convertType(t *ast.Type) (types.Type, error) {
	switch t.Name {
	case "int":
		return l.s.Context.Int32Type(), nil
	case "void":
		return l.s.Context.VoidType(), nil
	}
	return nil, fmt.Errorf("%w: type %s", ErrUnsupported, t.Name)
}

// collectSlots creates one alloca per declaration, in source order.
func (l *lowerer) collectSlots(block *ast.Block) error {
	for _, stmt := range reachable(block) {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			typ, err := l.convertType(s.Type)
			if err != nil {
				return err
			}
			l.slots[s] = l.s.Builder.CreateAlloca(typ, l.uniqueName(s.Name))
		case *ast.Block:
			if err := l.collectSlots(s); err != nil {
				return err
			}
		case *ast.If:
			if err := l.collectSlots(s.Then); err != nil {
				return err
			}
			if s.Else != nil {
				if err := l.collectSlots(s.Else); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func collectAssigned(block *ast.Block, assigned map[string]bool) {
	for _, stmt := range reachable(block) {
		switch s := stmt.(type) {
		case *ast.Assign:
			assigned[s.Target.Name] = true
		case *ast.Block:
			collectAssigned(s, assigned)
		case *ast.If:
			collectAssigned(s.Then, assigned)
			if s.Else != nil {
				collectAssigned(s.Else, assigned)
			}
		}
	}
}

// reachable returns the statements of block up to and including the first
// one after which control cannot continue.
func reachable(block *ast.Block) []ast.Stmt {
	for i, stmt := range block.Statements {
		if returns(stmt) {
			return block.Statements[:i+1]
		}
	}
	return block.Statements
}

// returns reports whether every path through stmt ends in a return.
func returns(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Return:
		return true
	case *ast.Block:
		stmts := reachable(s)
		return len(stmts) > 0 && returns(stmts[len(stmts)-1])
	case *ast.If:
		return s.Else != nil && returns(s.Then) && returns(s.Else)
	}
	return false
}

// buildBlock lowers the statements of block in a new scope. Statements after
// the current block is terminated are unreachable and are skipped.
func (l *lowerer) buildBlock(block *ast.Block, top bool) error {
	var declared []string
	defer func() {
		for _, name := range declared {
			l.popVariable(name)
		}
	}()

	for i, stmt := range block.Statements {
		if l.s.Builder.Terminated() {
			logger.Debugf("skipping %d unreachable statements", len(block.Statements)-i)
			break
		}

		var err error
		switch s := stmt.(type) {
		case *ast.VarDecl:
			err = l.buildVarDecl(s)
			declared = append(declared, s.Name)
		case *ast.Assign:
			err = l.buildAssign(s)
		case *ast.If:
			rest := block.Statements[i+1:]
			err = l.buildIf(s, top && len(rest) == 1 && isReturn(rest[0]))
		case *ast.Return:
			err = l.buildReturn(s)
		case *ast.Block:
			err = l.buildBlock(s, false)
		default:
			err = fmt.Errorf("%w: statement %s", ErrUnsupported, stmt.NodeType())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func isReturn(stmt ast.Stmt) bool {
	_, ok := stmt.(*ast.Return)
	return ok
}

func (l *lowerer) buildVarDecl(decl *ast.VarDecl) error {
	slot := l.slots[decl]
	if decl.Value != nil {
		v, err := l.buildValue(decl.Value)
		if err != nil {
			return err
		}
		l.s.Builder.CreateStore(v, slot)
	}
	l.writeVariable(decl.Name, variable{slot: slot})
	return nil
}

func (l *lowerer) buildAssign(assign *ast.Assign) error {
	v, err := l.buildValue(assign.Value)
	if err != nil {
		return err
	}

	target, ok := l.readVariable(assign.Target.Name)
	if !ok {
		return fmt.Errorf("undefined variable %s", assign.Target.Name)
	}
	if target.slot == nil {
		return fmt.Errorf("%s is not assignable", assign.Target.Name)
	}

	l.s.Builder.CreateStore(v, target.slot)
	return nil
}

// buildIf lowers a conditional. The join block is named "ret" when the only
// statement following the conditional is the function's return.
func (l *lowerer) buildIf(stmt *ast.If, joinIsReturn bool) error {
	cond, err := l.buildCondition(stmt.Cond)
	if err != nil {
		return err
	}

	joinName := "endif"
	if joinIsReturn {
		joinName = "ret"
	}

	thenBlock := l.createBlock("then")
	var elseBlock, join *ir.Block
	if stmt.Else != nil {
		elseBlock = l.createBlock("else")
	} else {
		join = l.createBlock(joinName)
		elseBlock = join
	}
	l.s.Builder.CreateCondBr(cond, thenBlock, elseBlock)

	var open []*ir.Block

	l.s.Builder.SetInsertPoint(thenBlock)
	if err := l.buildBlock(stmt.Then, false); err != nil {
		return err
	}
	if !l.s.Builder.Terminated() {
		open = append(open, l.s.Builder.InsertBlock())
	}

	if stmt.Else != nil {
		l.s.Builder.SetInsertPoint(elseBlock)
		if err := l.buildBlock(stmt.Else, false); err != nil {
			return err
		}
		if !l.s.Builder.Terminated() {
			open = append(open, l.s.Builder.InsertBlock())
		}
	}

	if join == nil {
		if len(open) == 0 {
			// Both branches returned; leave the cursor on a terminated block.
			return nil
		}
		join = l.createBlock(joinName)
	}

	for _, b := range open {
		l.s.Builder.SetInsertPoint(b)
		l.s.Builder.CreateBr(join)
	}
	l.s.Builder.SetInsertPoint(join)
	return nil
}

func (l *lowerer) buildReturn(stmt *ast.Return) error {
	if stmt.Value == nil {
		l.s.Builder.CreateRet(nil)
		return nil
	}

	v, err := l.buildValue(stmt.Value)
	if err != nil {
		return err
	}
	l.s.Builder.CreateRet(v)
	return nil
}

// buildCondition lowers expr to an i1. Integer values are compared against zero.
func (l *lowerer) buildCondition(expr ast.Expr) (value.Value, error) {
	if bin, ok := expr.(*ast.Binary); ok && bin.Op.IsComparison() {
		return l.buildComparison(bin)
	}

	v, err := l.buildValue(expr)
	if err != nil {
		return nil, err
	}
	zero := constant.NewInt(l.s.Context.Int32Type(), 0)
	return l.s.Builder.CreateICmp(enum.IPredNE, v, zero), nil
}

func (l *lowerer) buildComparison(bin *ast.Binary) (value.Value, error) {
	x, err := l.buildValue(bin.Left)
	if err != nil {
		return nil, err
	}
	y, err := l.buildValue(bin.Right)
	if err != nil {
		return nil, err
	}
	return l.s.Builder.CreateICmp(predicates[bin.Op], x, y), nil
}

// buildValue lowers an expression of type int to an i32 value.
func (l *lowerer) buildValue(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return constant.NewInt(l.s.Context.Int32Type(), e.Value), nil

	case *ast.Ident:
		v, ok := l.readVariable(e.Name)
		if !ok {
			return nil, fmt.Errorf("undefined variable %s", e.Name)
		}
		if v.slot != nil {
			return l.s.Builder.CreateLoad(v.slot.ElemType, v.slot), nil
		}
		return v.value, nil

	case *ast.Binary:
		if e.Op.IsComparison() {
			return nil, fmt.Errorf("%w: comparison %s used as a value", ErrUnsupported, e)
		}
		x, err := l.buildValue(e.Left)
		if err != nil {
			return nil, err
		}
		y, err := l.buildValue(e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case ast.OpAdd:
			return l.s.Builder.CreateAdd(x, y), nil
		case ast.OpSub:
			return l.s.Builder.CreateSub(x, y), nil
		case ast.OpMul:
			return l.s.Builder.CreateMul(x, y), nil
		}
		return nil, fmt.Errorf("%w: operator %s", ErrUnsupported, e.Op)
	}

	return nil, fmt.Errorf("%w: expression %s", ErrUnsupported, expr.NodeType())
}

func (l *lowerer) createBlock(name string) *ir.Block {
	return l.s.NewBlock(l.fn, l.uniqueName(name))
}

// uniqueName suffixes name with a counter when it is already taken.
func (l *lowerer) uniqueName(name string) string {
	n := l.names[name]
	l.names[name]++
	if n > 0 {
		return fmt.Sprintf("%s.%d", name, n)
	}
	return name
}

func (l *lowerer) writeVariable(name string, v variable) {
	l.variableStack[name] = append(l.variableStack[name], v)
}

func (l *lowerer) readVariable(name string) (variable, bool) {
	if stack := l.variableStack[name]; len(stack) > 0 {
		return stack[len(stack)-1], true
	}
	return variable{}, false
}

func (l *lowerer) popVariable(name string) {
	stack := l.variableStack[name]
	l.variableStack[name] = stack[:len(stack)-1]
}
