package parser

import (
	"strconv"

	"hello-module/grammar"
	"hello-module/internal/ast"
	"hello-module/internal/errors"
)

type converter struct {
	errors []errors.CompilerError
}

func (c *converter) function(f *grammar.Function) *ast.Function {
	fn := &ast.Function{
		Pos:    position(f.Pos),
		Return: typeName(f.Return),
		Name:   f.Name,
		Params: make([]*ast.Param, len(f.Params)),
		Body:   c.block(f.Body),
	}

	for i, p := range f.Params {
		fn.Params[i] = &ast.Param{
			Pos:  position(p.Pos),
			Type: typeName(p.Type),
			Name: p.Name,
		}
	}

	return fn
}

func typeName(t *grammar.TypeName) *ast.Type {
	return &ast.Type{Pos: position(t.Pos), Name: t.Name}
}

func (c *converter) block(b *grammar.Block) *ast.Block {
	block := &ast.Block{Pos: position(b.Pos)}
	for _, s := range b.Statements {
		if stmt := c.statement(s); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	return block
}

func (c *converter) statement(s *grammar.Statement) ast.Stmt {
	switch {
	case s.If != nil:
		stmt := &ast.If{
			Pos:  position(s.If.Pos),
			Cond: c.expr(s.If.Cond),
			Then: c.block(s.If.Then),
		}
		if s.If.Else != nil {
			stmt.Else = c.block(s.If.Else)
		}
		return stmt

	case s.Return != nil:
		stmt := &ast.Return{Pos: position(s.Return.Pos)}
		if s.Return.Value != nil {
			stmt.Value = c.expr(s.Return.Value)
		}
		return stmt

	case s.Block != nil:
		return c.block(s.Block)

	case s.Assign != nil:
		pos := position(s.Assign.Pos)
		return &ast.Assign{
			Pos:    pos,
			Target: &ast.Ident{Pos: pos, Name: s.Assign.Target},
			Value:  c.expr(s.Assign.Value),
		}

	case s.Decl != nil:
		stmt := &ast.VarDecl{
			Pos:  position(s.Decl.Pos),
			Type: typeName(s.Decl.Type),
			Name: s.Decl.Name,
		}
		if s.Decl.Value != nil {
			stmt.Value = c.expr(s.Decl.Value)
		}
		return stmt
	}

	return nil
}

func (c *converter) expr(e *grammar.Expr) ast.Expr {
	left := c.additive(e.Left)
	if e.Op == "" {
		return left
	}

	return &ast.Binary{
		Pos:   position(e.Pos),
		Op:    ast.BinaryOp(e.Op),
		Left:  left,
		Right: c.additive(e.Right),
	}
}

func (c *converter) additive(a *grammar.Additive) ast.Expr {
	result := c.multiplicative(a.Left)
	for _, op := range a.Rest {
		result = &ast.Binary{
			Pos:   position(op.Pos),
			Op:    ast.BinaryOp(op.Op),
			Left:  result,
			Right: c.multiplicative(op.Right),
		}
	}
	return result
}

func (c *converter) multiplicative(m *grammar.Multiplicative) ast.Expr {
	result := c.primary(m.Left)
	for _, op := range m.Rest {
		result = &ast.Binary{
			Pos:   position(op.Pos),
			Op:    ast.BinaryOp(op.Op),
			Left:  result,
			Right: c.primary(op.Right),
		}
	}
	return result
}

func (c *converter) primary(p *grammar.Primary) ast.Expr {
	pos := position(p.Pos)

	switch {
	case p.Number != nil:
		v, err := strconv.ParseInt(*p.Number, 10, 64)
		if err != nil {
			c.errors = append(c.errors, errors.LiteralOverflow(*p.Number, "int64", pos))
		}
		return &ast.IntLit{Pos: pos, Value: v}

	case p.Ident != nil:
		return &ast.Ident{Pos: pos, Name: *p.Ident}

	default:
		return c.expr(p.Sub)
	}
}
