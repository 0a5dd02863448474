package ast

// Position tracks location information for error reporting
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string
}

type Stmt interface {
	Node
	isStmt()
}

type Expr interface {
	Node
	isExpr()
}

func (f *Function) NodePos() Position { return f.Pos }
func (*Function) NodeType() NodeType   { return FUNCTION }

func (p *Param) NodePos() Position { return p.Pos }
func (*Param) NodeType() NodeType   { return PARAM }

func (t *Type) NodePos() Position { return t.Pos }
func (*Type) NodeType() NodeType   { return TYPE }

func (b *Block) NodePos() Position { return b.Pos }
func (*Block) NodeType() NodeType   { return BLOCK }

func (d *VarDecl) NodePos() Position { return d.Pos }
func (*VarDecl) NodeType() NodeType   { return VAR_DECL }

func (a *Assign) NodePos() Position { return a.Pos }
func (*Assign) NodeType() NodeType   { return ASSIGN_STMT }

func (i *If) NodePos() Position { return i.Pos }
func (*If) NodeType() NodeType   { return IF_STMT }

func (r *Return) NodePos() Position { return r.Pos }
func (*Return) NodeType() NodeType   { return RETURN_STMT }

func (b *Binary) NodePos() Position { return b.Pos }
func (*Binary) NodeType() NodeType   { return BINARY_EXPR }

func (i *Ident) NodePos() Position { return i.Pos }
func (*Ident) NodeType() NodeType   { return IDENT_EXPR }

func (l *IntLit) NodePos() Position { return l.Pos }
func (*IntLit) NodeType() NodeType   { return INT_LIT }

func (*Block) isStmt()   {}
func (*VarDecl) isStmt() {}
func (*Assign) isStmt()  {}
func (*If) isStmt()      {}
func (*Return) isStmt()  {}

func (*Binary) isExpr() {}
func (*Ident) isExpr()  {}
func (*IntLit) isExpr() {}
