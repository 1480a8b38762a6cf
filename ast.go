// ast.go — node variants produced by the parser and consumed by the
// interpreter. Every node carries its 1-based source line; statement order in
// a Program is semantically load-bearing (it defines fall-through order and
// the jump-target indices built at run start).
package pinlang

// Node is any AST node.
type Node interface {
	Pos() int // 1-based source line
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

type baseNode struct {
	Line int
}

func (n baseNode) Pos() int { return n.Line }

// ---- expressions ----

// Literal is an integer, float or string constant.
type Literal struct {
	baseNode
	Value Value
}

// VarRef reads a variable from the environment.
type VarRef struct {
	baseNode
	Name string
}

// BinOp is a binary operation; Op is the surface operator text
// ("+", "-", "*", "/", ">", "<", ">=", "<=", "=", "=!").
type BinOp struct {
	baseNode
	Left  Expr
	Op    string
	Right Expr
}

func (*Literal) exprNode() {}
func (*VarRef) exprNode()  {}
func (*BinOp) exprNode()   {}

// ---- statements ----

// PrintStmt writes a value: dayin(...) / dy(...).
type PrintStmt struct {
	baseNode
	Value Expr
}

// VarDeclStmt binds a name: bianliang x = ... / bl x = ...
type VarDeclStmt struct {
	baseNode
	Name  string
	Value Expr
}

// ListCreateStmt binds a fresh list: liebiao chuangjian a = [...]
type ListCreateStmt struct {
	baseNode
	Name   string
	Values []Expr
}

// ListGetStmt copies one element into a target variable:
// liebiao huoqu a bianhao=IDX chuandi bl T
type ListGetStmt struct {
	baseNode
	ListName string
	Index    Expr
	Target   string
}

// ListEditStmt mutates one element in place:
// liebiao bianji a bianhao=IDX chuandi VALUE
type ListEditStmt struct {
	baseNode
	ListName string
	Index    Expr
	Value    Expr
}

// CalculateStmt evaluates a restricted expression and binds the result:
// jisuan EXPR = T
type CalculateStmt struct {
	baseNode
	Expr   Expr
	Target string
}

// ConvertStmt converts a variable's value: zhuanhuan SRC shuzi|zifu = T
type ConvertStmt struct {
	baseNode
	Source   string
	TypeName string // "shuzi" or "zifu"
	Target   string
}

// IfStmt is panduan COND: body [fouze: else-body].
type IfStmt struct {
	baseNode
	Cond     Expr
	Body     []Stmt
	ElseBody []Stmt
}

// LoopStmt is xunhuan [VAR CMP VALUE] [cishu=COUNT]: body.
// A condition triple (Var/Cmp/CmpValue all set) selects condition-checked
// mode; otherwise the loop runs Count times.
type LoopStmt struct {
	baseNode
	Var      string // loop variable name, or ""
	Cmp      string // "=", "=!", ">", "<", ">=", "<=", or ""
	CmpValue Expr   // nil unless Cmp is set
	Count    Expr   // nil when absent; evaluated once at loop entry
	Body     []Stmt
}

// InputStmt reads one line: shuru('prompt') = T [jin(zifu)].
// Restriction "zifu" forces numeric input via a reprompt loop.
type InputStmt struct {
	baseNode
	Prompt      string
	Target      string
	Restriction string // "" when absent
}

// JumpStmt transfers control: tiao ciwenjian hang=N / shuru=K.
// Only File == "current" is executable; anything else fails at run time.
type JumpStmt struct {
	baseNode
	File        string
	TargetKind  string // "hang", "shuru", or a raw identifier
	TargetValue int64
}

// LabelStmt is a no-op jump-target anchor (a top-level hang_* identifier).
type LabelStmt struct {
	baseNode
	Name string
}

func (*PrintStmt) stmtNode()      {}
func (*VarDeclStmt) stmtNode()    {}
func (*ListCreateStmt) stmtNode() {}
func (*ListGetStmt) stmtNode()    {}
func (*ListEditStmt) stmtNode()   {}
func (*CalculateStmt) stmtNode()  {}
func (*ConvertStmt) stmtNode()    {}
func (*IfStmt) stmtNode()         {}
func (*LoopStmt) stmtNode()       {}
func (*InputStmt) stmtNode()      {}
func (*JumpStmt) stmtNode()       {}
func (*LabelStmt) stmtNode()      {}
