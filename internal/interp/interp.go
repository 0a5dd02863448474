// Package interp evaluates the small integer subset of LLVM IR this program
// emits, so generated functions can be run without a native toolchain.
package interp

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

var (
	// ErrUnsupported is returned for instructions outside the evaluated subset.
	ErrUnsupported = errors.New("unsupported instruction")
	// ErrStepLimit is returned when a call executes more blocks than allowed.
	ErrStepLimit = errors.New("step limit exceeded")
)

// DefaultStepLimit bounds the number of basic blocks a call may enter.
const DefaultStepLimit = 10000

// Machine evaluates functions.
type Machine struct {
	StepLimit int
}

// New creates a machine with the default step limit
func New() *Machine {
	return &Machine{StepLimit: DefaultStepLimit}
}

// Call runs fn on args with a default machine.
func Call(fn *ir.Func, args ...int64) (int64, error) {
	return New().Call(fn, args...)
}

type frame struct {
	vals  map[value.Value]int64
	slots map[value.Value]*int64
}

// Call runs fn on args and returns the value it returns. Void functions return 0.
func (m *Machine) Call(fn *ir.Func, args ...int64) (int64, error) {
	if len(fn.Blocks) == 0 {
		return 0, fmt.Errorf("call %s: function has no body", fn.Name())
	}
	if len(args) != len(fn.Params) {
		return 0, fmt.Errorf("call %s: want %d arguments, got %d", fn.Name(), len(fn.Params), len(args))
	}

	fr := &frame{
		vals:  make(map[value.Value]int64),
		slots: make(map[value.Value]*int64),
	}
	for i, p := range fn.Params {
		fr.vals[p] = wrap(p.Type(), args[i])
	}

	block := fn.Blocks[0]
	for steps := 0; ; steps++ {
		if steps >= m.StepLimit {
			return 0, fmt.Errorf("call %s: %w", fn.Name(), ErrStepLimit)
		}

		for _, inst := range block.Insts {
			if err := fr.exec(inst); err != nil {
				return 0, fmt.Errorf("call %s, block %s: %w", fn.Name(), block.Name(), err)
			}
		}

		switch term := block.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return 0, nil
			}
			return fr.eval(term.X)

		case *ir.TermBr:
			block = term.Succs()[0]

		case *ir.TermCondBr:
			cond, err := fr.eval(term.Cond)
			if err != nil {
				return 0, fmt.Errorf("call %s, block %s: %w", fn.Name(), block.Name(), err)
			}
			succs := term.Succs()
			if cond != 0 {
				block = succs[0]
			} else {
				block = succs[1]
			}

		case nil:
			return 0, fmt.Errorf("call %s: block %s has no terminator", fn.Name(), block.Name())

		default:
			return 0, fmt.Errorf("call %s: %w: %T", fn.Name(), ErrUnsupported, term)
		}
	}
}

func (fr *frame) exec(inst ir.Instruction) error {
	switch inst := inst.(type) {
	case *ir.InstAlloca:
		fr.slots[inst] = new(int64)

	case *ir.InstStore:
		v, err := fr.eval(inst.Src)
		if err != nil {
			return err
		}
		slot, ok := fr.slots[inst.Dst]
		if !ok {
			return fmt.Errorf("store to unknown slot %s", inst.Dst.Ident())
		}
		*slot = v

	case *ir.InstLoad:
		slot, ok := fr.slots[inst.Src]
		if !ok {
			return fmt.Errorf("load from unknown slot %s", inst.Src.Ident())
		}
		fr.vals[inst] = wrap(inst.ElemType, *slot)

	case *ir.InstICmp:
		x, y, err := fr.operands(inst.X, inst.Y)
		if err != nil {
			return err
		}
		ok, err := compare(inst.Pred, inst.X.Type(), x, y)
		if err != nil {
			return err
		}
		if ok {
			fr.vals[inst] = 1
		} else {
			fr.vals[inst] = 0
		}

	case *ir.InstAdd:
		x, y, err := fr.operands(inst.X, inst.Y)
		if err != nil {
			return err
		}
		fr.vals[inst] = wrap(inst.X.Type(), x+y)

	case *ir.InstSub:
		x, y, err := fr.operands(inst.X, inst.Y)
		if err != nil {
			return err
		}
		fr.vals[inst] = wrap(inst.X.Type(), x-y)

	case *ir.InstMul:
		x, y, err := fr.operands(inst.X, inst.Y)
		if err != nil {
			return err
		}
		fr.vals[inst] = wrap(inst.X.Type(), x*y)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, inst)
	}

	return nil
}

func (fr *frame) operands(x, y value.Value) (int64, int64, error) {
	a, err := fr.eval(x)
	if err != nil {
		return 0, 0, err
	}
	b, err := fr.eval(y)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (fr *frame) eval(v value.Value) (int64, error) {
	if c, ok := v.(*constant.Int); ok {
		return wrap(c.Typ, c.X.Int64()), nil
	}

	x, ok := fr.vals[v]
	if !ok {
		return 0, fmt.Errorf("value %s has no definition", v.Ident())
	}
	return x, nil
}

func compare(pred enum.IPred, typ types.Type, x, y int64) (bool, error) {
	ux, uy := unsigned(typ, x), unsigned(typ, y)

	switch pred {
	case enum.IPredEQ:
		return x == y, nil
	case enum.IPredNE:
		return x != y, nil
	case enum.IPredSLT:
		return x < y, nil
	case enum.IPredSLE:
		return x <= y, nil
	case enum.IPredSGT:
		return x > y, nil
	case enum.IPredSGE:
		return x >= y, nil
	case enum.IPredULT:
		return ux < uy, nil
	case enum.IPredULE:
		return ux <= uy, nil
	case enum.IPredUGT:
		return ux > uy, nil
	case enum.IPredUGE:
		return ux >= uy, nil
	default:
		return false, fmt.Errorf("%w: icmp predicate %v", ErrUnsupported, pred)
	}
}

// wrap truncates x to the width of an integer type and sign-extends it back.
func wrap(typ types.Type, x int64) int64 {
	it, ok := typ.(*types.IntType)
	if !ok || it.BitSize >= 64 || it.BitSize == 0 {
		return x
	}
	shift := 64 - it.BitSize
	return x << shift >> shift
}

func unsigned(typ types.Type, x int64) uint64 {
	it, ok := typ.(*types.IntType)
	if !ok || it.BitSize >= 64 || it.BitSize == 0 {
		return uint64(x)
	}
	return uint64(x) & (1<<it.BitSize - 1)
}
