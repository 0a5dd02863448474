package codegen

import (
	"github.com/llir/llvm/ir/types"
)

// Context owns the types created during one construction session. Integer
// types are interned so that repeated requests hand back the same value.
type Context struct {
	ints map[uint64]*types.IntType
}

// NewContext creates an empty type namespace
func NewContext() *Context {
	return &Context{
		ints: make(map[uint64]*types.IntType),
	}
}

// IntType returns the integer type with the given bit width.
func (c *Context) IntType(bits uint64) *types.IntType {
	if t, ok := c.ints[bits]; ok {
		return t
	}

	var t *types.IntType
	switch bits {
	case 1:
		t = types.I1
	case 8:
		t = types.I8
	case 16:
		t = types.I16
	case 32:
		t = types.I32
	case 64:
		t = types.I64
	default:
		t = types.NewInt(bits)
	}

	c.ints[bits] = t
	return t
}

func (c *Context) Int1Type() *types.IntType  { return c.IntType(1) }
func (c *Context) Int32Type() *types.IntType { return c.IntType(32) }
func (c *Context) Int64Type() *types.IntType { return c.IntType(64) }

// VoidType returns the void type.
func (c *Context) VoidType() *types.VoidType { return types.Void }
