package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Builder is the instruction cursor of a session. Every Create call appends to
// the block selected with SetInsertPoint; calling one with no insertion point
// is a programming error and panics.
type Builder struct {
	ctx   *Context
	block *ir.Block
}

// NewBuilder creates a cursor with no insertion point
func NewBuilder(ctx *Context) *Builder {
	return &Builder{ctx: ctx}
}

// SetInsertPoint moves the cursor to the end of block.
func (b *Builder) SetInsertPoint(block *ir.Block) {
	b.block = block
}

// InsertBlock returns the block the cursor currently points at.
func (b *Builder) InsertBlock() *ir.Block {
	return b.block
}

func (b *Builder) current() *ir.Block {
	if b.block == nil {
		panic("codegen: builder has no insertion point")
	}
	return b.block
}

// CreateAlloca reserves one stack slot of typ named name in the current block.
func (b *Builder) CreateAlloca(typ types.Type, name string) *ir.InstAlloca {
	inst := b.current().NewAlloca(typ)
	inst.Align = naturalAlign(typ)
	if name != "" {
		inst.SetName(name)
	}

	logger.Debugf("%s: alloca %s %q", b.block.Name(), typ, name)
	return inst
}

// CreateICmp emits an integer comparison.
func (b *Builder) CreateICmp(pred enum.IPred, x, y value.Value) *ir.InstICmp {
	inst := b.current().NewICmp(pred, x, y)

	logger.Debugf("%s: icmp %s %s, %s", b.block.Name(), pred, x.Ident(), y.Ident())
	return inst
}

// CreateICmpSLT emits a signed less-than comparison of x against y.
func (b *Builder) CreateICmpSLT(x, y value.Value) *ir.InstICmp {
	return b.CreateICmp(enum.IPredSLT, x, y)
}

// CreateAdd emits x + y.
func (b *Builder) CreateAdd(x, y value.Value) *ir.InstAdd {
	inst := b.current().NewAdd(x, y)

	logger.Debugf("%s: add %s, %s", b.block.Name(), x.Ident(), y.Ident())
	return inst
}

// CreateSub emits x - y.
func (b *Builder) CreateSub(x, y value.Value) *ir.InstSub {
	inst := b.current().NewSub(x, y)

	logger.Debugf("%s: sub %s, %s", b.block.Name(), x.Ident(), y.Ident())
	return inst
}

// CreateMul emits x * y.
func (b *Builder) CreateMul(x, y value.Value) *ir.InstMul {
	inst := b.current().NewMul(x, y)

	logger.Debugf("%s: mul %s, %s", b.block.Name(), x.Ident(), y.Ident())
	return inst
}

// Terminated reports whether the current block already ends in a terminator.
func (b *Builder) Terminated() bool {
	return b.block != nil && b.block.Term != nil
}

// CreateCondBr terminates the current block with a two-way branch on cond.
func (b *Builder) CreateCondBr(cond value.Value, then, els *ir.Block) *ir.TermCondBr {
	term := b.current().NewCondBr(cond, then, els)

	logger.Debugf("%s: br %s, %s, %s", b.block.Name(), cond.Ident(), then.Name(), els.Name())
	return term
}

// CreateBr terminates the current block with an unconditional jump.
func (b *Builder) CreateBr(target *ir.Block) *ir.TermBr {
	term := b.current().NewBr(target)

	logger.Debugf("%s: br %s", b.block.Name(), target.Name())
	return term
}

// CreateStore writes src into the slot dst points at.
func (b *Builder) CreateStore(src, dst value.Value) *ir.InstStore {
	inst := b.current().NewStore(src, dst)
	inst.Align = naturalAlign(src.Type())

	logger.Debugf("%s: store %s -> %s", b.block.Name(), src.Ident(), dst.Ident())
	return inst
}

// CreateLoad reads a value of typ from the slot src points at.
func (b *Builder) CreateLoad(typ types.Type, src value.Value) *ir.InstLoad {
	inst := b.current().NewLoad(typ, src)
	inst.Align = naturalAlign(typ)

	logger.Debugf("%s: load %s <- %s", b.block.Name(), typ, src.Ident())
	return inst
}

// CreateRet terminates the current block returning x. A nil x returns void.
func (b *Builder) CreateRet(x value.Value) *ir.TermRet {
	term := b.current().NewRet(x)

	if x != nil {
		logger.Debugf("%s: ret %s", b.block.Name(), x.Ident())
	} else {
		logger.Debugf("%s: ret void", b.block.Name())
	}
	return term
}

// naturalAlign is the byte size of an integer type rounded up to a power of two.
// Other types get no explicit alignment.
func naturalAlign(typ types.Type) ir.Align {
	it, ok := typ.(*types.IntType)
	if !ok {
		return 0
	}

	size := (it.BitSize + 7) / 8
	align := uint64(1)
	for align < size {
		align <<= 1
	}
	return ir.Align(align)
}
