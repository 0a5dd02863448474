package ast

import (
	"fmt"
	"strings"
)

func (f *Function) String() string {
	var b strings.Builder

	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}

	b.WriteString(fmt.Sprintf("%s %s(%s) ", f.Return, f.Name, strings.Join(params, ", ")))
	b.WriteString(f.Body.String())

	return b.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

func (t *Type) String() string {
	return t.Name
}

func (b *Block) String() string {
	var sb strings.Builder

	sb.WriteString("{\n")
	for _, stmt := range b.Statements {
		sb.WriteString("    " + strings.ReplaceAll(stmt.String(), "\n", "\n    ") + "\n")
	}
	sb.WriteString("}")

	return sb.String()
}

func (d *VarDecl) String() string {
	if d.Value != nil {
		return fmt.Sprintf("%s %s = %s;", d.Type, d.Name, d.Value)
	}
	return fmt.Sprintf("%s %s;", d.Type, d.Name)
}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s;", a.Target, a.Value)
}

func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}

func (b *Binary) String() string {
	return fmt.Sprintf("%s %s %s", operand(b.Left, b.Op, false), b.Op, operand(b.Right, b.Op, true))
}

// operand parenthesizes nested binaries that would otherwise regroup when
// printed next to op. Operators are left-associative.
func operand(e Expr, op BinaryOp, right bool) string {
	inner, ok := e.(*Binary)
	if !ok {
		return e.String()
	}
	if precedence(inner.Op) < precedence(op) || right && precedence(inner.Op) == precedence(op) {
		return "(" + inner.String() + ")"
	}
	return e.String()
}

func precedence(op BinaryOp) int {
	switch op {
	case OpMul:
		return 3
	case OpAdd, OpSub:
		return 2
	default:
		return 1
	}
}

func (i *Ident) String() string {
	return i.Name
}

func (l *IntLit) String() string {
	return fmt.Sprintf("%d", l.Value)
}
