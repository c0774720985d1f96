package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Code generation. Walks the analyzed tree depth-first and emits text
// instructions for a stack/frame machine: expression operands travel on the
// data stack, every function/getter/setter gets its own local frame, and
// operations whose operand types stayed Unknown dispatch on runtime TYPE
// checks. Incompatibilities at run time jump to $rt_expr_err (exit 26),
// builtin parameter mismatches to $rt_param_err (exit 25).

// codeHeader is the first line of every generated program.
const codeHeader = ".SlateCode"

// tempRegs are scratch global registers shared by the runtime helpers. They
// are only live inside a single helper or dispatch sequence, never across
// user code, so one set is enough.
var tempRegs = []string{"%a", "%b", "%ta", "%tb", "%res", "%i", "%j", "%n", "%s", "%c", "%void"}

type loopLabels struct {
	start string
	end   string
}

type codegen struct {
	w        *strings.Builder
	labelSeq int
	loops    []loopLabels
	needs    map[string]bool
	decls    map[string]*Stmt // label -> defining member, for caller-side params
}

// Generate emits the whole program. Output is deterministic: the label
// counter starts at zero on every call and helpers appear in a fixed order.
func Generate(prog *Program) string {
	var prelude, members strings.Builder
	g := &codegen{
		w:     &prelude,
		needs: make(map[string]bool),
		decls: make(map[string]*Stmt),
	}
	for _, cls := range prog.Classes {
		for _, s := range cls.Body.Stmts {
			switch s.Kind {
			case StmtFunc, StmtGetter, StmtSetter:
				g.decls[s.CodegenName] = s
			}
		}
	}

	g.line(codeHeader)

	for _, reg := range tempRegs {
		g.emit("DEFVAR GF@%s", reg)
	}
	for _, name := range prog.Globals {
		g.emit("DEFVAR GF@%s", name)
		g.emit("MOVE GF@%s nil@nil", name)
	}

	// Entry: call main, turn its result into the exit value.
	mainLabel := ""
	for _, cls := range prog.Classes {
		for _, s := range cls.Body.Stmts {
			if s.Kind == StmtFunc && s.Name == "main" && len(s.Params) == 0 {
				mainLabel = s.CodegenName
			}
		}
	}
	g.emit("CREATEFRAME")
	g.emit("CALL $%s", mainLabel)
	g.emit("POPS GF@%%a")
	g.emit("TYPE GF@%%ta GF@%%a")
	g.emit("JUMPIFEQ $main_exit GF@%%ta string@int")
	g.emit("EXIT int@0")
	g.emit("LABEL $main_exit")
	g.emit("EXIT GF@%%a")

	g.w = &members
	for _, cls := range prog.Classes {
		for _, s := range cls.Body.Stmts {
			switch s.Kind {
			case StmtFunc, StmtGetter, StmtSetter:
				g.genMember(s)
			}
		}
	}
	g.w = &prelude

	// Traps first, then only the helpers the program reached.
	g.line("LABEL $rt_expr_err")
	g.line("EXIT int@26")
	g.line("LABEL $rt_param_err")
	g.line("EXIT int@25")
	for _, h := range runtimeHelpers {
		if g.needs[h.name] {
			g.line(h.text)
		}
	}

	prelude.WriteString(members.String())
	return prelude.String()
}

func (g *codegen) emit(format string, args ...any) {
	fmt.Fprintf(g.w, format, args...)
	g.w.WriteByte('\n')
}

func (g *codegen) line(s string) {
	g.w.WriteString(s)
	g.w.WriteByte('\n')
}

func (g *codegen) newLabel() string {
	g.labelSeq++
	return "L" + strconv.Itoa(g.labelSeq)
}

// need marks a runtime helper for emission, pulling in its dependencies.
func (g *codegen) need(name string) {
	if g.needs[name] {
		return
	}
	g.needs[name] = true
	for _, dep := range helperDeps[name] {
		g.need(dep)
	}
}

// ---- members ----

// genMember emits one function, getter or setter: label, frame push,
// parameter and local DEFVARs, body, implicit nil return. The caller has
// already popped the arguments into the temporary frame.
func (g *codegen) genMember(s *Stmt) {
	g.emit("LABEL $%s", s.CodegenName)
	g.emit("PUSHFRAME")
	for _, name := range collectLocals(s.Body, nil) {
		g.emit("DEFVAR LF@%s", name)
	}
	g.genBlock(s.Body)
	g.emit("PUSHS nil@nil")
	g.emit("POPFRAME")
	g.emit("RETURN")
}

// collectLocals gathers every local declaration in a body so the frame can
// DEFVAR them once at entry; re-entering a loop body must not redefine them.
func collectLocals(b *Block, acc []string) []string {
	for _, s := range b.Stmts {
		switch s.Kind {
		case StmtVarDecl:
			if s.Ref == RefLocal {
				acc = append(acc, s.CodegenName)
			}
		case StmtBlock:
			acc = collectLocals(s.Body, acc)
		case StmtIf:
			acc = collectLocals(s.Body, acc)
			if s.Else != nil {
				acc = collectLocals(s.Else, acc)
			}
		case StmtWhile:
			acc = collectLocals(s.Body, acc)
		}
	}
	return acc
}

// ---- statements ----

func (g *codegen) genBlock(b *Block) {
	for _, s := range b.Stmts {
		g.genStmt(s)
	}
}

func (g *codegen) genStmt(s *Stmt) {
	switch s.Kind {
	case StmtBlock:
		g.genBlock(s.Body)

	case StmtVarDecl:
		// DEFVARed at member entry (locals) or in the global section.

	case StmtAssign:
		g.genExpr(s.Value)
		switch s.Ref {
		case RefGlobal:
			g.emit("POPS GF@%s", s.CodegenName)
		case RefSetter:
			decl := g.decls[s.CodegenName]
			g.emit("CREATEFRAME")
			g.emit("DEFVAR TF@%s", decl.ParamCodegen[0])
			g.emit("POPS TF@%s", decl.ParamCodegen[0])
			g.emit("CALL $%s", s.CodegenName)
			g.emit("POPS GF@%%void")
		default:
			g.emit("POPS LF@%s", s.CodegenName)
		}

	case StmtIf:
		elseLabel := g.newLabel()
		endLabel := g.newLabel()
		g.genCond(s.Cond, elseLabel)
		g.genBlock(s.Body)
		g.emit("JUMP $%s", endLabel)
		g.emit("LABEL $%s", elseLabel)
		if s.Else != nil {
			g.genBlock(s.Else)
		}
		g.emit("LABEL $%s", endLabel)

	case StmtWhile:
		startLabel := g.newLabel()
		endLabel := g.newLabel()
		g.emit("LABEL $%s", startLabel)
		g.genCond(s.Cond, endLabel)
		g.loops = append(g.loops, loopLabels{start: startLabel, end: endLabel})
		g.genBlock(s.Body)
		g.loops = g.loops[:len(g.loops)-1]
		g.emit("JUMP $%s", startLabel)
		g.emit("LABEL $%s", endLabel)

	case StmtBreak:
		g.emit("JUMP $%s", g.loops[len(g.loops)-1].end)

	case StmtContinue:
		g.emit("JUMP $%s", g.loops[len(g.loops)-1].start)

	case StmtCall:
		g.genCall(s.CodegenName, s.Args)
		g.emit("POPS GF@%%void")

	case StmtBuiltinCall:
		g.genBuiltin(s.Name, s.Args)
		g.emit("POPS GF@%%void")

	case StmtExpr:
		g.genExpr(s.Value)
		g.emit("POPS GF@%%void")

	case StmtReturn:
		if s.Value != nil {
			g.genExpr(s.Value)
		} else {
			g.emit("PUSHS nil@nil")
		}
		g.emit("POPFRAME")
		g.emit("RETURN")
	}
}

// genCond evaluates a condition and jumps to falseLabel when it is false.
// Conditions whose static type stayed Unknown get a runtime Bool check.
func (g *codegen) genCond(cond *Expr, falseLabel string) {
	g.genExpr(cond)
	g.emit("POPS GF@%%a")
	if cond.Type != TypeBool {
		g.emit("TYPE GF@%%ta GF@%%a")
		g.emit("JUMPIFNEQ $rt_expr_err GF@%%ta string@bool")
	}
	g.emit("JUMPIFEQ $%s GF@%%a bool@false", falseLabel)
}

// genCall emits a user function call: arguments in order on the data stack,
// a fresh temporary frame, arguments popped into the parameters in reverse,
// then CALL. The callee leaves its result on the data stack.
func (g *codegen) genCall(label string, args []*Expr) {
	for _, arg := range args {
		g.genExpr(arg)
	}
	decl := g.decls[label]
	g.emit("CREATEFRAME")
	for i := len(decl.ParamCodegen) - 1; i >= 0; i-- {
		g.emit("DEFVAR TF@%s", decl.ParamCodegen[i])
		g.emit("POPS TF@%s", decl.ParamCodegen[i])
	}
	g.emit("CALL $%s", label)
}

// ---- expressions ----

func (g *codegen) genExpr(e *Expr) {
	switch e.Kind {
	case ExprInt:
		g.emit("PUSHS int@%s", strconv.FormatInt(e.Int, 10))
	case ExprFloat:
		g.emit("PUSHS float@%s", strconv.FormatFloat(e.Float, 'x', -1, 64))
	case ExprString:
		g.emit("PUSHS string@%s", escapeString(e.Str))
	case ExprBool:
		if e.Bool {
			g.emit("PUSHS bool@true")
		} else {
			g.emit("PUSHS bool@false")
		}
	case ExprNull:
		g.emit("PUSHS nil@nil")

	case ExprIdent:
		switch e.Ref {
		case RefGlobal:
			g.emit("PUSHS GF@%s", e.CodegenName)
		case RefGetter:
			g.emit("CREATEFRAME")
			g.emit("CALL $%s", e.CodegenName)
		default:
			g.emit("PUSHS LF@%s", e.CodegenName)
		}

	case ExprBinary:
		g.genBinary(e)

	case ExprUnary:
		g.genExpr(e.Left)
		if e.Left.Type == TypeBool {
			g.emit("NOTS")
		} else {
			g.need("dyn_not")
			g.emit("CALL $dyn_not")
		}

	case ExprTernary:
		elseLabel := g.newLabel()
		endLabel := g.newLabel()
		g.genCond(e.Cond, elseLabel)
		g.genExpr(e.Left)
		g.emit("JUMP $%s", endLabel)
		g.emit("LABEL $%s", elseLabel)
		g.genExpr(e.Right)
		g.emit("LABEL $%s", endLabel)

	case ExprCall:
		g.genCall(e.CodegenName, e.Args)

	case ExprBuiltin:
		g.genBuiltin(e.Name, e.Args)
	}
}

func (g *codegen) genBinary(e *Expr) {
	if e.Op == IS {
		g.genIs(e)
		return
	}

	lt, rt := e.Left.Type, e.Right.Type
	bothNumeric := isNumeric(lt) && isNumeric(rt)

	switch e.Op {
	case PLUS:
		switch {
		case bothNumeric:
			g.genPromoted(e)
			g.emit("ADDS")
		case lt == TypeString && rt == TypeString:
			g.genExpr(e.Left)
			g.genExpr(e.Right)
			g.emit("POPS GF@%%b")
			g.emit("POPS GF@%%a")
			g.emit("CONCAT GF@%%res GF@%%a GF@%%b")
			g.emit("PUSHS GF@%%res")
		default:
			g.genDyn(e, "dyn_add")
		}

	case MINUS:
		if bothNumeric {
			g.genPromoted(e)
			g.emit("SUBS")
		} else {
			g.genDyn(e, "dyn_sub")
		}

	case STAR:
		switch {
		case bothNumeric:
			g.genPromoted(e)
			g.emit("MULS")
		case lt == TypeString && rt == TypeInt:
			g.genExpr(e.Left)
			g.genExpr(e.Right)
			g.emit("POPS GF@%%b")
			g.emit("POPS GF@%%a")
			g.need("str_repeat")
			g.emit("CALL $str_repeat")
		default:
			g.genDyn(e, "dyn_mul")
		}

	case SLASH:
		if bothNumeric {
			g.genPromoted(e)
			if lt == TypeInt && rt == TypeInt {
				g.emit("IDIVS")
			} else {
				g.emit("DIVS")
			}
		} else {
			g.genDyn(e, "dyn_div")
		}

	case LT, LE, GT, GE:
		if bothNumeric {
			g.genPromoted(e)
			switch e.Op {
			case LT:
				g.emit("LTS")
			case GT:
				g.emit("GTS")
			case LE:
				g.emit("GTS")
				g.emit("NOTS")
			case GE:
				g.emit("LTS")
				g.emit("NOTS")
			}
		} else {
			g.genDyn(e, dynRelHelper(e.Op))
		}

	case EQ, NEQ:
		if lt != TypeUnknown && lt == rt {
			g.genExpr(e.Left)
			g.genExpr(e.Right)
			g.emit("EQS")
		} else {
			g.genDyn(e, "dyn_eq")
		}
		if e.Op == NEQ {
			g.emit("NOTS")
		}

	case AND, OR:
		if lt == TypeBool && rt == TypeBool {
			g.genExpr(e.Left)
			g.genExpr(e.Right)
			if e.Op == AND {
				g.emit("ANDS")
			} else {
				g.emit("ORS")
			}
		} else if e.Op == AND {
			g.genDyn(e, "dyn_and")
		} else {
			g.genDyn(e, "dyn_or")
		}
	}
}

// genPromoted pushes both operands of a statically numeric operation,
// widening Int to float on whichever side needs it.
func (g *codegen) genPromoted(e *Expr) {
	lt, rt := e.Left.Type, e.Right.Type
	g.genExpr(e.Left)
	if lt == TypeInt && rt == TypeDouble {
		g.emit("INT2FLOATS")
	}
	g.genExpr(e.Right)
	if rt == TypeInt && lt == TypeDouble {
		g.emit("INT2FLOATS")
	}
}

// genDyn pushes both operands and defers the whole operation to a runtime
// helper that dispatches on TYPE.
func (g *codegen) genDyn(e *Expr, helper string) {
	g.genExpr(e.Left)
	g.genExpr(e.Right)
	g.need(helper)
	g.emit("CALL $%s", helper)
}

func dynRelHelper(op TokenKind) string {
	switch op {
	case LT:
		return "dyn_lt"
	case GT:
		return "dyn_gt"
	case LE:
		return "dyn_le"
	default:
		return "dyn_ge"
	}
}

// genIs emits the `value is TypeName` test. Num matches both int and float.
func (g *codegen) genIs(e *Expr) {
	g.genExpr(e.Left)
	g.emit("POPS GF@%%a")
	g.emit("TYPE GF@%%ta GF@%%a")

	trueLabel := g.newLabel()
	endLabel := g.newLabel()
	switch e.Right.Name {
	case "Num":
		g.emit("JUMPIFEQ $%s GF@%%ta string@int", trueLabel)
		g.emit("JUMPIFEQ $%s GF@%%ta string@float", trueLabel)
	case "String":
		g.emit("JUMPIFEQ $%s GF@%%ta string@string", trueLabel)
	case "Bool":
		g.emit("JUMPIFEQ $%s GF@%%ta string@bool", trueLabel)
	case "Null":
		g.emit("JUMPIFEQ $%s GF@%%ta string@nil", trueLabel)
	}
	g.emit("PUSHS bool@false")
	g.emit("JUMP $%s", endLabel)
	g.emit("LABEL $%s", trueLabel)
	g.emit("PUSHS bool@true")
	g.emit("LABEL $%s", endLabel)
}

// genBuiltin pushes the arguments and calls the builtin's runtime routine.
// Every routine leaves exactly one value on the stack; write leaves nil.
func (g *codegen) genBuiltin(name string, args []*Expr) {
	for _, arg := range args {
		g.genExpr(arg)
	}
	g.need("bi_" + name)
	g.emit("CALL $bi_%s", name)
}

// escapeString renders a string literal: control bytes, space, '#' and '\'
// become decimal \xyz escapes.
func escapeString(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 32 || c == '#' || c == '\\' {
			fmt.Fprintf(&out, "\\%03d", c)
		} else {
			out.WriteByte(c)
		}
	}
	return out.String()
}
