package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type Program struct {
	Pos       lexer.Position
	Functions []*Function `parser:"@@*"`
}

type Function struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Return *TypeName `parser:"@@"`
	Name   string    `parser:"@Ident \"(\""`
	Params []*Param  `parser:"[ @@ { \",\" @@ } ] \")\""`
	Body   *Block    `parser:"@@"`
}

type TypeName struct {
	Pos  lexer.Position
	Name string `parser:"@Ident"`
}

type Param struct {
	Pos  lexer.Position
	Type *TypeName `parser:"@@"`
	Name string    `parser:"@Ident"`
}

type Block struct {
	Pos        lexer.Position
	Statements []*Statement `parser:"\"{\" @@* \"}\""`
}

type Statement struct {
	Pos    lexer.Position
	If     *If     `parser:"  @@"`
	Return *Return `parser:"| @@"`
	Block  *Block  `parser:"| @@"`
	Assign *Assign `parser:"| @@"`
	Decl   *Decl   `parser:"| @@"`
}

type If struct {
	Pos  lexer.Position
	Cond *Expr  `parser:"\"if\" \"(\" @@ \")\""`
	Then *Block `parser:"@@"`
	Else *Block `parser:"[ \"else\" @@ ]"`
}

type Return struct {
	Pos   lexer.Position
	Value *Expr `parser:"\"return\" [ @@ ] \";\""`
}

type Assign struct {
	Pos    lexer.Position
	Target string `parser:"@Ident \"=\""`
	Value  *Expr  `parser:"@@ \";\""`
}

type Decl struct {
	Pos   lexer.Position
	Type  *TypeName `parser:"@@"`
	Name  string    `parser:"@Ident"`
	Value *Expr     `parser:"[ \"=\" @@ ] \";\""`
}

// Expr is a non-associative comparison of two additive expressions.
type Expr struct {
	Pos   lexer.Position
	Left  *Additive `parser:"@@"`
	Op    string    `parser:"[ @(\"<=\" | \">=\" | \"==\" | \"!=\" | \"<\" | \">\")"`
	Right *Additive `parser:"  @@ ]"`
}

type Additive struct {
	Pos  lexer.Position
	Left *Multiplicative `parser:"@@"`
	Rest []*AddOp        `parser:"@@*"`
}

type AddOp struct {
	Pos   lexer.Position
	Op    string          `parser:"@(\"+\" | \"-\")"`
	Right *Multiplicative `parser:"@@"`
}

type Multiplicative struct {
	Pos  lexer.Position
	Left *Primary `parser:"@@"`
	Rest []*MulOp `parser:"@@*"`
}

type MulOp struct {
	Pos   lexer.Position
	Op    string   `parser:"@\"*\""`
	Right *Primary `parser:"@@"`
}

type Primary struct {
	Pos    lexer.Position
	Number *string `parser:"  @(\"-\"? Integer)"`
	Ident  *string `parser:"| @Ident"`
	Sub    *Expr   `parser:"| \"(\" @@ \")\""`
}
