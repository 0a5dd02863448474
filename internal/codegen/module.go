package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/llir/llvm/ir"
)

// Module is a named container of functions plus the target metadata they are
// compiled for.
type Module struct {
	name string
	m    *ir.Module
}

// NewModule creates an empty module carrying the given target description.
func NewModule(name string, target Target) *Module {
	m := ir.NewModule()
	m.SourceFilename = name
	m.DataLayout = target.DataLayout
	m.TargetTriple = target.Triple

	return &Module{name: name, m: m}
}

func (m *Module) Name() string         { return m.name }
func (m *Module) DataLayout() string   { return m.m.DataLayout }
func (m *Module) TargetTriple() string { return m.m.TargetTriple }

// SetDataLayout replaces the data layout string.
func (m *Module) SetDataLayout(layout string) { m.m.DataLayout = layout }

// SetTargetTriple replaces the target triple string.
func (m *Module) SetTargetTriple(triple string) { m.m.TargetTriple = triple }

// IR exposes the underlying llir module.
func (m *Module) IR() *ir.Module { return m.m }

// Func returns the first function with the given name, or nil.
func (m *Module) Func(name string) *ir.Func {
	for _, f := range m.m.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Funcs returns the functions of the module in declaration order.
func (m *Module) Funcs() []*ir.Func {
	return m.m.Funcs
}

// String returns the canonical textual form of the module.
func (m *Module) String() string {
	var sb strings.Builder
	if _, err := m.WriteTo(&sb); err != nil {
		return fmt.Sprintf("; <invalid module %s: %v>\n", m.name, err)
	}
	return sb.String()
}

// WriteTo writes the textual form of the module to w. Unnamed values get their
// sequential IDs assigned first.
func (m *Module) WriteTo(w io.Writer) (int64, error) {
	for _, f := range m.m.Funcs {
		if err := f.AssignIDs(); err != nil {
			return 0, fmt.Errorf("assign ids in %s: %w", f.Name(), err)
		}
	}

	n, err := fmt.Fprintf(w, "; ModuleID = '%s'\n", m.name)
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("write module header: %w", err)
	}

	n, err = io.WriteString(w, m.m.String())
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("write module body: %w", err)
	}

	return total, nil
}
