// Package verify checks llir functions for structural and type consistency:
// terminators, branch targets, operand types and definition order.
package verify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/tliron/commonlog"
)

var logger = commonlog.GetLogger("hello-module.verify")

// ErrInvalid is wrapped by Result.Err when verification found problems.
var ErrInvalid = errors.New("verification failed")

// Diagnostic describes one problem found by the verifier.
type Diagnostic struct {
	Function string
	Block    string
	Message  string
}

func (d Diagnostic) Error() string {
	switch {
	case d.Function != "" && d.Block != "":
		return fmt.Sprintf("in function %s, block %s: %s", d.Function, d.Block, d.Message)
	case d.Function != "":
		return fmt.Sprintf("in function %s: %s", d.Function, d.Message)
	default:
		return d.Message
	}
}

// Result carries everything the verifier found.
type Result struct {
	Diagnostics []Diagnostic
}

// OK reports whether no problems were found.
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Err returns nil for a clean result and an error wrapping ErrInvalid otherwise.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w:\n%s", ErrInvalid, r.String())
}

// String lists the diagnostics one per line.
func (r *Result) String() string {
	lines := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		lines[i] = d.Error()
	}
	return strings.Join(lines, "\n")
}

func (r *Result) merge(o *Result) {
	r.Diagnostics = append(r.Diagnostics, o.Diagnostics...)
}

// Module verifies every function defined in m and rejects duplicate names.
func Module(m *ir.Module) *Result {
	res := &Result{}
	names := make(map[string]bool)

	for _, fn := range m.Funcs {
		if names[fn.Name()] {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Message: fmt.Sprintf("duplicate function name %q", fn.Name()),
			})
		}
		names[fn.Name()] = true

		if len(fn.Blocks) == 0 {
			// declaration only
			continue
		}
		res.merge(Function(fn))
	}

	return res
}

// Function verifies a single function definition.
func Function(fn *ir.Func) *Result {
	v := &verifier{
		fn:   fn,
		res:  &Result{},
		defs: make(map[value.Value]site),
		own:  make(map[*ir.Block]bool),
	}
	v.run()

	if v.res.OK() {
		logger.Debugf("%s: ok", fn.Name())
	} else {
		logger.Debugf("%s: %d problems", fn.Name(), len(v.res.Diagnostics))
	}
	return v.res
}

// site is where a local value is defined: the block and the position inside it.
// Parameters use a nil block.
type site struct {
	block *ir.Block
	index int
}

type verifier struct {
	fn   *ir.Func
	res  *Result
	defs map[value.Value]site
	own  map[*ir.Block]bool
	dom  map[*ir.Block]map[*ir.Block]bool

	block *ir.Block
}

func (v *verifier) run() {
	v.checkSignature()

	if len(v.fn.Blocks) == 0 {
		v.addError("function has no body")
		return
	}

	v.collect()
	v.checkBlocks()
	v.dom = dominators(v.fn)

	for _, b := range v.fn.Blocks {
		v.block = b
		for i, inst := range b.Insts {
			v.checkInst(i, inst)
		}
		if b.Term != nil {
			v.checkTerm(len(b.Insts), b.Term)
		}
	}
	v.block = nil
}

func (v *verifier) checkSignature() {
	sig := v.fn.Sig
	if len(v.fn.Params) != len(sig.Params) {
		v.addError(fmt.Sprintf("function has %d parameters but its signature lists %d", len(v.fn.Params), len(sig.Params)))
		return
	}

	for i, p := range v.fn.Params {
		if !p.Type().Equal(sig.Params[i]) {
			v.addError(fmt.Sprintf("parameter %d has type %s, signature says %s", i, p.Type(), sig.Params[i]))
		}
	}
}

// collect records every block of the function and every local definition.
func (v *verifier) collect() {
	for _, p := range v.fn.Params {
		v.defs[p] = site{}
	}

	for _, b := range v.fn.Blocks {
		v.own[b] = true
		for i, inst := range b.Insts {
			if val, ok := inst.(value.Value); ok {
				v.defs[val] = site{block: b, index: i}
			}
		}
	}
}

func (v *verifier) checkBlocks() {
	names := make(map[string]bool)
	entry := v.fn.Blocks[0]

	for _, b := range v.fn.Blocks {
		v.block = b

		if !b.IsUnnamed() {
			if names[b.Name()] {
				v.addError(fmt.Sprintf("duplicate block name %q", b.Name()))
			}
			names[b.Name()] = true
		}

		if b.Term == nil {
			v.addError("block does not end in a terminator")
			continue
		}

		for _, succ := range b.Term.Succs() {
			if succ == nil {
				v.addError("branch to nil block")
				continue
			}
			if !v.own[succ] {
				v.addError(fmt.Sprintf("branch to block %s outside the function", succ.Ident()))
			}
			if succ == entry {
				v.addError("entry block must not have predecessors")
			}
		}
	}
	v.block = nil
}

func (v *verifier) checkInst(index int, inst ir.Instruction) {
	switch inst := inst.(type) {
	case *ir.InstAlloca:
		if inst.NElems != nil {
			v.checkOperand(index, inst.NElems)
			if _, ok := inst.NElems.Type().(*types.IntType); !ok {
				v.addError(fmt.Sprintf("alloca count has non-integer type %s", inst.NElems.Type()))
			}
		}

	case *ir.InstLoad:
		v.checkOperand(index, inst.Src)
		if elem, ok := pointee(inst.Src); ok && !elem.Equal(inst.ElemType) {
			v.addError(fmt.Sprintf("load of %s from pointer to %s", inst.ElemType, elem))
		}

	case *ir.InstStore:
		v.checkOperand(index, inst.Src)
		v.checkOperand(index, inst.Dst)
		if _, ok := inst.Dst.Type().(*types.PointerType); !ok {
			v.addError(fmt.Sprintf("store destination has non-pointer type %s", inst.Dst.Type()))
		} else if elem, ok := pointee(inst.Dst); ok && !elem.Equal(inst.Src.Type()) {
			v.addError(fmt.Sprintf("store of %s into pointer to %s", inst.Src.Type(), elem))
		}

	case *ir.InstICmp:
		v.checkOperand(index, inst.X)
		v.checkOperand(index, inst.Y)
		v.checkSameInt("icmp", inst.X, inst.Y)

	case *ir.InstAdd:
		v.checkOperand(index, inst.X)
		v.checkOperand(index, inst.Y)
		v.checkSameInt("add", inst.X, inst.Y)

	case *ir.InstSub:
		v.checkOperand(index, inst.X)
		v.checkOperand(index, inst.Y)
		v.checkSameInt("sub", inst.X, inst.Y)

	case *ir.InstMul:
		v.checkOperand(index, inst.X)
		v.checkOperand(index, inst.Y)
		v.checkSameInt("mul", inst.X, inst.Y)
	}
}

func (v *verifier) checkTerm(index int, term ir.Terminator) {
	switch term := term.(type) {
	case *ir.TermRet:
		ret := v.fn.Sig.RetType
		_, void := ret.(*types.VoidType)

		switch {
		case term.X == nil && !void:
			v.addError(fmt.Sprintf("ret void in function returning %s", ret))
		case term.X != nil && void:
			v.addError("ret with a value in function returning void")
		case term.X != nil:
			v.checkOperand(index, term.X)
			if !term.X.Type().Equal(ret) {
				v.addError(fmt.Sprintf("ret of %s in function returning %s", term.X.Type(), ret))
			}
		}

	case *ir.TermCondBr:
		v.checkOperand(index, term.Cond)
		if it, ok := term.Cond.Type().(*types.IntType); !ok || it.BitSize != 1 {
			v.addError(fmt.Sprintf("branch condition has type %s, want i1", term.Cond.Type()))
		}
	}
}

// checkOperand makes sure a local operand is defined in this function and
// available at position index of the current block.
func (v *verifier) checkOperand(index int, op value.Value) {
	if op == nil {
		v.addError("missing operand")
		return
	}

	switch op.(type) {
	case *ir.Param, ir.Instruction:
	default:
		// constants and globals
		return
	}

	def, ok := v.defs[op]
	if !ok {
		v.addError(fmt.Sprintf("operand %s is not defined in this function", op.Ident()))
		return
	}
	if def.block == nil {
		return
	}

	if def.block == v.block {
		if def.index >= index {
			v.addError(fmt.Sprintf("operand %s is used before its definition", op.Ident()))
		}
		return
	}

	if !v.dom[v.block][def.block] {
		v.addError(fmt.Sprintf("definition of %s in block %s does not dominate its use", op.Ident(), def.block.Ident()))
	}
}

func (v *verifier) checkSameInt(op string, x, y value.Value) {
	if x == nil || y == nil {
		return
	}
	if _, ok := x.Type().(*types.IntType); !ok {
		v.addError(fmt.Sprintf("%s operand has non-integer type %s", op, x.Type()))
		return
	}
	if !x.Type().Equal(y.Type()) {
		v.addError(fmt.Sprintf("%s operands have different types %s and %s", op, x.Type(), y.Type()))
	}
}

func (v *verifier) addError(msg string) {
	d := Diagnostic{
		Function: v.fn.Name(),
		Message:  msg,
	}
	if v.block != nil {
		d.Block = v.block.Name()
	}
	v.res.Diagnostics = append(v.res.Diagnostics, d)
}

// pointee returns the element type ptr points at, when the pointer is typed.
func pointee(ptr value.Value) (types.Type, bool) {
	pt, ok := ptr.Type().(*types.PointerType)
	if !ok || pt.ElemType == nil {
		return nil, false
	}
	return pt.ElemType, true
}
