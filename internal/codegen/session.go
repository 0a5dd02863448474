// Package codegen wraps the llir/llvm construction API into a single
// construction session: a type Context, the Module being filled and the
// Builder cursor. A Session is passed explicitly to every construction step
// instead of living in package globals.
package codegen

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/tliron/commonlog"
)

var logger = commonlog.GetLogger("hello-module.codegen")

// ErrArgumentCountMismatch is returned when a list of parameter names does not
// line up with a function's parameters.
var ErrArgumentCountMismatch = errors.New("argument-count mismatch")

// Linkage is the visibility of a declared function.
type Linkage int

const (
	// External functions may be referenced from outside the module. In the
	// textual form this is the default and carries no keyword.
	External Linkage = iota
	// Internal functions are private to the module.
	Internal
)

func (l Linkage) String() string {
	switch l {
	case External:
		return "external"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("Linkage(%d)", int(l))
	}
}

func (l Linkage) enum() enum.Linkage {
	if l == Internal {
		return enum.LinkageInternal
	}
	return enum.LinkageNone
}

// IsExternal reports whether fn is visible outside its module.
func IsExternal(fn *ir.Func) bool {
	return fn.Linkage == enum.LinkageNone || fn.Linkage == enum.LinkageExternal
}

// Session is a single-owner construction session.
type Session struct {
	Context *Context
	Module  *Module
	Builder *Builder
}

// NewSession creates the context, the module named ModuleName laid out for
// target, and a cursor with no insertion point.
func NewSession(target Target) *Session {
	return NewNamedSession(ModuleName, target)
}

// NewNamedSession is NewSession with a custom module name.
func NewNamedSession(name string, target Target) *Session {
	ctx := NewContext()

	logger.Debugf("new session: module %q, triple %q", name, target.Triple)

	return &Session{
		Context: ctx,
		Module:  NewModule(name, target),
		Builder: NewBuilder(ctx),
	}
}

// DeclareFunction registers a function with the given signature and external
// linkage. The parameters are unnamed until SetFuncArgs is called.
func (s *Session) DeclareFunction(ret types.Type, params []types.Type, name string, variadic bool) *ir.Func {
	return s.DeclareFunctionWithLinkage(ret, params, name, variadic, External)
}

// DeclareFunctionWithLinkage is DeclareFunction with explicit linkage.
func (s *Session) DeclareFunctionWithLinkage(ret types.Type, params []types.Type, name string, variadic bool, linkage Linkage) *ir.Func {
	irParams := make([]*ir.Param, len(params))
	for i, typ := range params {
		irParams[i] = ir.NewParam("", typ)
	}

	fn := s.Module.IR().NewFunc(name, ret, irParams...)
	fn.Sig.Variadic = variadic
	fn.Linkage = linkage.enum()

	logger.Debugf("declare %s %s (%d params, %s)", name, ret, len(params), linkage)
	return fn
}

// SetFuncArgs names the parameters of fn positionally.
func (s *Session) SetFuncArgs(fn *ir.Func, names []string) error {
	if len(names) != len(fn.Params) {
		return fmt.Errorf("%w: %s has %d parameters, got %d names",
			ErrArgumentCountMismatch, fn.Name(), len(fn.Params), len(names))
	}

	for i, p := range fn.Params {
		p.SetName(names[i])
	}
	return nil
}

// NewBlock appends a basic block named name to fn.
func (s *Session) NewBlock(fn *ir.Func, name string) *ir.Block {
	return fn.NewBlock(name)
}
