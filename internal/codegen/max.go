package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// BuildMaxBody fills fn, which must take two i32 parameters and return i32,
// with the fixed four-block shape
//
//	entry: %c = alloca; cmp = icmp slt p0, p1; br cmp, then, else
//	then:  store p0, %c; br ret
//	else:  store p1, %c; br ret
//	ret:   load %c; ret
//
// so p0 is returned when p0 < p1 and p1 otherwise, including when they are equal.
func (s *Session) BuildMaxBody(fn *ir.Func) error {
	if len(fn.Params) != 2 {
		return fmt.Errorf("%w: %s needs 2 parameters, has %d",
			ErrArgumentCountMismatch, fn.Name(), len(fn.Params))
	}
	if len(fn.Blocks) != 0 {
		return fmt.Errorf("function %s already has a body", fn.Name())
	}

	entry := s.NewBlock(fn, "entry")
	thenBlock := s.NewBlock(fn, "then")
	elseBlock := s.NewBlock(fn, "else")
	retBlock := s.NewBlock(fn, "ret")

	i32 := s.Context.Int32Type()
	b := s.Builder

	b.SetInsertPoint(entry)
	c := b.CreateAlloca(i32, "c")
	cmp := b.CreateICmpSLT(fn.Params[0], fn.Params[1])
	b.CreateCondBr(cmp, thenBlock, elseBlock)

	b.SetInsertPoint(thenBlock)
	b.CreateStore(fn.Params[0], c)
	b.CreateBr(retBlock)

	b.SetInsertPoint(elseBlock)
	b.CreateStore(fn.Params[1], c)
	b.CreateBr(retBlock)

	b.SetInsertPoint(retBlock)
	v := b.CreateLoad(i32, c)
	b.CreateRet(v)

	return nil
}
