package main

import "strconv"

// ValueType is the static type attached to expressions and symbols.
// TypeUnknown defers checks to the generated runtime dispatch.
type ValueType int

const (
	TypeUnknown ValueType = iota
	TypeNull
	TypeInt
	TypeDouble
	TypeString
	TypeBool
	TypeVoid
)

func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeInt:
		return "Int"
	case TypeDouble:
		return "Double"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	case TypeVoid:
		return "Void"
	}
	return "Unknown"
}

// RefKind records how Pass 2 resolved an identifier or assignment target.
type RefKind int

const (
	RefUnresolved RefKind = iota
	RefLocal              // local variable or parameter
	RefGetter             // bare identifier reading a getter
	RefSetter             // assignment target backed by a setter
	RefGlobal             // double-underscore module-level variable
)

// ExprKind tags Expr nodes.
type ExprKind string

const (
	ExprInt     ExprKind = "int"
	ExprFloat   ExprKind = "float"
	ExprString  ExprKind = "string"
	ExprBool    ExprKind = "bool"
	ExprNull    ExprKind = "null"
	ExprIdent   ExprKind = "ident"
	ExprBinary  ExprKind = "binary"
	ExprUnary   ExprKind = "unary"
	ExprTernary ExprKind = "ternary"
	ExprCall    ExprKind = "call"
	ExprBuiltin ExprKind = "builtin"
)

// Expr is one expression tree node. Trees are acyclic and owned top-down.
// CodegenName and Type start empty/Unknown and are filled during Pass 2;
// they are never touched again after analysis.
type Expr struct {
	Kind ExprKind

	Int   int64   // ExprInt
	Float float64 // ExprFloat
	Str   string  // ExprString
	Bool  bool    // ExprBool
	Name  string  // ExprIdent, ExprCall, ExprBuiltin

	Op          TokenKind // ExprBinary, ExprUnary
	Left, Right *Expr     // ExprBinary; ExprUnary uses Left only
	Cond        *Expr     // ExprTernary (Left/Right are the branches)
	Args        []*Expr   // ExprCall, ExprBuiltin

	// Pass 2 annotations.
	CodegenName string
	Ref         RefKind
	Type        ValueType

	Line int
}

// StmtKind tags Stmt nodes.
type StmtKind string

const (
	StmtBlock       StmtKind = "block"
	StmtVarDecl     StmtKind = "var"
	StmtAssign      StmtKind = "assign"
	StmtIf          StmtKind = "if"
	StmtWhile       StmtKind = "while"
	StmtBreak       StmtKind = "break"
	StmtContinue    StmtKind = "continue"
	StmtExpr        StmtKind = "expr"
	StmtFunc        StmtKind = "func"
	StmtGetter      StmtKind = "getter"
	StmtSetter      StmtKind = "setter"
	StmtCall        StmtKind = "call"
	StmtBuiltinCall StmtKind = "builtin-call"
	StmtReturn      StmtKind = "return"
)

// Stmt is one statement node. Nodes never hold parent pointers; the parser
// keeps the current insertion point itself.
type Stmt struct {
	Kind StmtKind

	Name   string   // var/assign target, func/accessor/call name
	Params []string // StmtFunc parameter names; StmtSetter uses Params[0]

	Value *Expr   // assignment RHS, return value, expression statement
	Cond  *Expr   // StmtIf, StmtWhile
	Body  *Block  // if-branch, loop body, func/accessor body, StmtBlock
	Else  *Block  // StmtIf
	Args  []*Expr // StmtCall, StmtBuiltinCall

	// Pass 2 annotations.
	CodegenName  string   // declared variable / assign target
	ParamCodegen []string // parallel to Params
	Ref          RefKind  // how an assignment target resolved

	Line int
}

// Block is an ordered list of statements forming one lexical scope.
type Block struct {
	Stmts []*Stmt
}

func (b *Block) add(s *Stmt) {
	b.Stmts = append(b.Stmts, s)
}

// Class is a named top-level class with one root block.
type Class struct {
	Name string
	Body *Block
	Line int
}

// Import is the optional `import "std" for Std` header.
type Import struct {
	Path  string
	Alias string
}

// Program is the whole compilation unit. Globals and GlobalTypes are filled
// by Pass 2: Globals in first-assignment order, GlobalTypes the learned
// lattice entry per name.
type Program struct {
	Import  *Import
	Classes []*Class

	Globals     []string
	GlobalTypes map[string]ValueType
}

// ToSExpr renders an expression as an s-expression string. Used by tests and
// the check/eval commands.
func (e *Expr) ToSExpr() string {
	switch e.Kind {
	case ExprInt:
		return "(int " + strconv.FormatInt(e.Int, 10) + ")"
	case ExprFloat:
		return "(float " + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")"
	case ExprString:
		return "(string " + strconv.Quote(e.Str) + ")"
	case ExprBool:
		if e.Bool {
			return "(bool true)"
		}
		return "(bool false)"
	case ExprNull:
		return "(null)"
	case ExprIdent:
		return "(ident \"" + e.Name + "\")"
	case ExprBinary:
		op := string(e.Op)
		if e.Op == IS {
			// keyword operator; render the lexeme, not the token kind
			op = "is"
		}
		return "(binary \"" + op + "\" " + e.Left.ToSExpr() + " " + e.Right.ToSExpr() + ")"
	case ExprUnary:
		return "(unary \"" + string(e.Op) + "\" " + e.Left.ToSExpr() + ")"
	case ExprTernary:
		return "(ternary " + e.Cond.ToSExpr() + " " + e.Left.ToSExpr() + " " + e.Right.ToSExpr() + ")"
	case ExprCall, ExprBuiltin:
		head := "(call \"" + e.Name + "\""
		if e.Kind == ExprBuiltin {
			head = "(builtin \"" + e.Name + "\""
		}
		for _, a := range e.Args {
			head += " " + a.ToSExpr()
		}
		return head + ")"
	}
	return ""
}

func (s *Stmt) ToSExpr() string {
	switch s.Kind {
	case StmtBlock:
		return s.Body.ToSExpr()
	case StmtVarDecl:
		return "(var \"" + s.Name + "\")"
	case StmtAssign:
		return "(assign \"" + s.Name + "\" " + s.Value.ToSExpr() + ")"
	case StmtIf:
		out := "(if " + s.Cond.ToSExpr() + " " + s.Body.ToSExpr()
		if s.Else != nil {
			out += " " + s.Else.ToSExpr()
		}
		return out + ")"
	case StmtWhile:
		return "(while " + s.Cond.ToSExpr() + " " + s.Body.ToSExpr() + ")"
	case StmtBreak:
		return "(break)"
	case StmtContinue:
		return "(continue)"
	case StmtExpr:
		return "(expr " + s.Value.ToSExpr() + ")"
	case StmtFunc:
		out := "(func \"" + s.Name + "\" ("
		for i, p := range s.Params {
			if i > 0 {
				out += " "
			}
			out += "\"" + p + "\""
		}
		return out + ") " + s.Body.ToSExpr() + ")"
	case StmtGetter:
		return "(getter \"" + s.Name + "\" " + s.Body.ToSExpr() + ")"
	case StmtSetter:
		return "(setter \"" + s.Name + "\" \"" + s.Params[0] + "\" " + s.Body.ToSExpr() + ")"
	case StmtCall, StmtBuiltinCall:
		head := "(call \"" + s.Name + "\""
		if s.Kind == StmtBuiltinCall {
			head = "(builtin \"" + s.Name + "\""
		}
		for _, a := range s.Args {
			head += " " + a.ToSExpr()
		}
		return head + ")"
	case StmtReturn:
		if s.Value == nil {
			return "(return)"
		}
		return "(return " + s.Value.ToSExpr() + ")"
	}
	return ""
}

func (b *Block) ToSExpr() string {
	out := "(block"
	for _, s := range b.Stmts {
		out += " " + s.ToSExpr()
	}
	return out + ")"
}

func (p *Program) ToSExpr() string {
	out := "(program"
	if p.Import != nil {
		out += " (import " + strconv.Quote(p.Import.Path) + " \"" + p.Import.Alias + "\")"
	}
	for _, c := range p.Classes {
		out += " (class \"" + c.Name + "\" " + c.Body.ToSExpr() + ")"
	}
	return out + ")"
}
