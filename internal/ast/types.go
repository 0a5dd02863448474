package ast

type NodeType int

const (
	ILLEGAL NodeType = iota

	FUNCTION
	PARAM
	TYPE

	// Statements
	BLOCK
	VAR_DECL
	ASSIGN_STMT
	IF_STMT
	RETURN_STMT

	// Expressions
	BINARY_EXPR
	IDENT_EXPR
	INT_LIT
)

var nodeTypeNames = [...]string{
	ILLEGAL:     "ILLEGAL",
	FUNCTION:    "FUNCTION",
	PARAM:       "PARAM",
	TYPE:        "TYPE",
	BLOCK:       "BLOCK",
	VAR_DECL:    "VAR_DECL",
	ASSIGN_STMT: "ASSIGN_STMT",
	IF_STMT:     "IF_STMT",
	RETURN_STMT: "RETURN_STMT",
	BINARY_EXPR: "BINARY_EXPR",
	IDENT_EXPR:  "IDENT_EXPR",
	INT_LIT:     "INT_LIT",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "NodeType(?)"
}

// Function is a single function definition
// Example: "int max(int val1, int val2) { ... }"
type Function struct {
	Pos    Position
	Return *Type
	Name   string
	Params []*Param
	Body   *Block
}

// Param is a named, typed function parameter
type Param struct {
	Pos  Position
	Type *Type
	Name string
}

// Type names a scalar type such as "int"
type Type struct {
	Pos  Position
	Name string
}

type Block struct {
	Pos        Position
	Statements []Stmt
}

// VarDecl declares a local variable, optionally initialized
// Example: "int c;"
type VarDecl struct {
	Pos   Position
	Type  *Type
	Name  string
	Value Expr // nil when not initialized
}

// Assign stores a value into a declared variable
// Example: "c = val1;"
type Assign struct {
	Pos    Position
	Target *Ident
	Value  Expr
}

type If struct {
	Pos  Position
	Cond Expr
	Then *Block
	Else *Block // nil without an else branch
}

type Return struct {
	Pos   Position
	Value Expr // nil for a bare return
}

type BinaryOp string

const (
	OpLess         BinaryOp = "<"
	OpLessEqual    BinaryOp = "<="
	OpGreater      BinaryOp = ">"
	OpGreaterEqual BinaryOp = ">="
	OpEqual        BinaryOp = "=="
	OpNotEqual     BinaryOp = "!="
	OpAdd          BinaryOp = "+"
	OpSub          BinaryOp = "-"
	OpMul          BinaryOp = "*"
)

// IsComparison reports whether the operator yields a boolean.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpEqual, OpNotEqual:
		return true
	}
	return false
}

type Binary struct {
	Pos   Position
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type Ident struct {
	Pos  Position
	Name string
}

type IntLit struct {
	Pos   Position
	Value int64
}
