// Package parser turns source text into the statement tree in internal/ast.
// Syntax is recognized by the participle grammar; this package converts the
// grammar nodes and reports problems as compiler errors with positions.
package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/kr/pretty"
	"github.com/tliron/commonlog"

	"hello-module/grammar"
	"hello-module/internal/ast"
	"hello-module/internal/errors"
)

var logger = commonlog.GetLogger("hello-module.parser")

// ParseSource parses a source holding exactly one function. The function is
// nil whenever errors are returned.
func ParseSource(path, source string) (*ast.Function, []errors.CompilerError) {
	program, err := grammar.ParseString(path, source)
	if err != nil {
		return nil, []errors.CompilerError{syntaxError(path, err)}
	}

	if len(program.Functions) != 1 {
		pos := ast.Position{Filename: path, Line: 1, Column: 1}
		if len(program.Functions) > 1 {
			pos = position(program.Functions[1].Pos)
		}
		return nil, []errors.CompilerError{errors.FunctionCount(len(program.Functions), pos)}
	}

	c := &converter{}
	fn := c.function(program.Functions[0])
	if len(c.errors) > 0 {
		return nil, c.errors
	}

	if logger.AllowLevel(commonlog.Debug) {
		logger.Debugf("parsed %s: %s", path, pretty.Sprint(fn))
	}
	return fn, nil
}

func syntaxError(path string, err error) errors.CompilerError {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.SyntaxError(err.Error(), ast.Position{Filename: path, Line: 1, Column: 1})
	}
	return errors.SyntaxError(pe.Message(), position(pe.Position()))
}

func position(pos lexer.Position) ast.Position {
	return ast.Position{
		Filename: pos.Filename,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}
