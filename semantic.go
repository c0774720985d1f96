package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Two-pass semantic analysis.
//
// Pass 1 installs the builtin table, collects function and accessor headers
// for every class, then walks bodies checking declarations, loop-control
// placement, builtin arguments and literal-only operand compatibility.
// Pass 2 rebuilds the scope stack from scratch, resolves every identifier,
// assignment target and call, infers expression types bottom-up and assigns
// the flattened code-generation names. The first error aborts the run.

// analyzer carries all analysis state. A fresh one is built per Analyze call
// so repeated compilations in one process never share tables.
type analyzer struct {
	cfg      BuiltinConfig
	builtins map[string]*Builtin

	// Signature table keyed "class::name#arity", "class::get:base" and
	// "class::set:base"; duplicates within one class are redefinitions.
	funcs *SymbolTable

	// Call resolution indexes. byCall is keyed "name#arity", accessors
	// "get:base" / "set:base"; entries keep declaration order so picking
	// the first match stays deterministic. byName records every function
	// base name for arity diagnostics.
	byCall    map[string][]*Symbol
	byName    map[string]bool
	accessors map[string][]*Symbol

	scopes    *ScopeStack
	ids       scopePathStack
	class     string
	loopDepth int

	mainSym *Symbol

	globals     []string
	globalTypes map[string]ValueType
}

// Analyze checks prog with the default builtin set and annotates it in place.
func Analyze(prog *Program) error {
	return AnalyzeWithConfig(prog, BuiltinConfig{})
}

// AnalyzeWithConfig is Analyze with optional builtins switched on.
func AnalyzeWithConfig(prog *Program, cfg BuiltinConfig) error {
	a := &analyzer{
		cfg:         cfg,
		builtins:    installBuiltins(cfg),
		funcs:       NewSymbolTable(),
		byCall:      make(map[string][]*Symbol),
		byName:      make(map[string]bool),
		accessors:   make(map[string][]*Symbol),
		scopes:      NewScopeStack(),
		globalTypes: make(map[string]ValueType),
	}

	for _, cls := range prog.Classes {
		for _, s := range cls.Body.Stmts {
			if err := a.declareHeader(cls.Name, s); err != nil {
				return err
			}
		}
	}
	if a.mainSym == nil {
		return errf(ErrUndefined, 0, "program has no zero-parameter function main")
	}

	if err := a.passOne(prog); err != nil {
		return err
	}
	if err := a.passTwo(prog); err != nil {
		return err
	}

	prog.Globals = a.globals
	prog.GlobalTypes = a.globalTypes
	return nil
}

func sigKey(name string, arity int) string {
	return name + "#" + strconv.Itoa(arity)
}

func isGlobalName(name string) bool {
	return strings.HasPrefix(name, "__")
}

func isNumeric(t ValueType) bool {
	return t == TypeInt || t == TypeDouble
}

// declareHeader records one class member signature. Only the redefinition
// and main checks happen here; bodies wait for the body walks.
func (a *analyzer) declareHeader(class string, s *Stmt) error {
	switch s.Kind {
	case StmtFunc:
		arity := len(s.Params)
		label := fmt.Sprintf("fn_%s_%s_%d", class, s.Name, arity)
		sym := &Symbol{
			Name: s.Name, Kind: SymFunction, Arity: arity,
			Defined: true, ScopePath: class, CodegenName: label, Decl: s,
		}
		if !a.funcs.Insert(class+"::"+sigKey(s.Name, arity), sym) {
			return errf(ErrRedefinition, s.Line,
				"function %s with %d parameter(s) already defined in class %s", s.Name, arity, class)
		}
		if s.Name == "main" {
			if arity != 0 {
				return errf(ErrUndefined, s.Line, "function main must take no parameters")
			}
			if a.mainSym != nil {
				return errf(ErrRedefinition, s.Line, "function main defined more than once")
			}
			a.mainSym = sym
		}
		s.CodegenName = label
		a.byCall[sigKey(s.Name, arity)] = append(a.byCall[sigKey(s.Name, arity)], sym)
		a.byName[s.Name] = true
		return nil

	case StmtGetter:
		label := fmt.Sprintf("get_%s_%s", class, s.Name)
		sym := &Symbol{
			Name: s.Name, Kind: SymGetter,
			Defined: true, ScopePath: class, CodegenName: label, Decl: s,
		}
		if !a.funcs.Insert(class+"::get:"+s.Name, sym) {
			return errf(ErrRedefinition, s.Line, "getter %s already defined in class %s", s.Name, class)
		}
		s.CodegenName = label
		a.accessors["get:"+s.Name] = append(a.accessors["get:"+s.Name], sym)
		return nil

	case StmtSetter:
		label := fmt.Sprintf("set_%s_%s", class, s.Name)
		sym := &Symbol{
			Name: s.Name, Kind: SymSetter, Arity: 1,
			Defined: true, ScopePath: class, CodegenName: label, Decl: s,
		}
		if !a.funcs.Insert(class+"::set:"+s.Name, sym) {
			return errf(ErrRedefinition, s.Line, "setter %s already defined in class %s", s.Name, class)
		}
		s.CodegenName = label
		a.accessors["set:"+s.Name] = append(a.accessors["set:"+s.Name], sym)
		return nil
	}
	return nil
}

// pickSig prefers a signature from the class being analyzed, then the first
// declared one.
func (a *analyzer) pickSig(list []*Symbol) *Symbol {
	for _, sym := range list {
		if sym.ScopePath == a.class {
			return sym
		}
	}
	return list[0]
}

// ---- Pass 1 ----

func (a *analyzer) passOne(prog *Program) error {
	for _, cls := range prog.Classes {
		a.class = cls.Name
		a.scopes.Push()
		a.ids.Enter()
		for _, s := range cls.Body.Stmts {
			var err error
			switch s.Kind {
			case StmtFunc:
				err = a.check1Member(s, s.Params)
			case StmtGetter:
				err = a.check1Member(s, nil)
			case StmtSetter:
				err = a.check1Member(s, s.Params)
			default:
				err = a.check1Stmt(s)
			}
			if err != nil {
				return err
			}
		}
		a.ids.Leave()
		a.scopes.Pop()
	}
	return nil
}

// check1Member walks one function or accessor body. Parameters live in their
// own frame enclosing the body block.
func (a *analyzer) check1Member(s *Stmt, params []string) error {
	a.scopes.Push()
	a.ids.Enter()
	defer func() {
		a.ids.Leave()
		a.scopes.Pop()
	}()

	for _, p := range params {
		sym := &Symbol{Name: p, Kind: SymParameter, ScopePath: a.ids.Current()}
		if !a.scopes.Declare(p, sym) {
			return errf(ErrRedefinition, s.Line, "duplicate parameter %s", p)
		}
	}
	return a.check1Block(s.Body)
}

func (a *analyzer) check1Block(b *Block) error {
	a.scopes.Push()
	a.ids.Enter()
	defer func() {
		a.ids.Leave()
		a.scopes.Pop()
	}()

	for _, s := range b.Stmts {
		if err := a.check1Stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) check1Stmt(s *Stmt) error {
	switch s.Kind {
	case StmtBlock:
		return a.check1Block(s.Body)

	case StmtVarDecl:
		if isGlobalName(s.Name) {
			a.registerGlobal(s.Name)
			return nil
		}
		sym := &Symbol{Name: s.Name, Kind: SymVariable, ScopePath: a.ids.Current(), Decl: s}
		if !a.scopes.Declare(s.Name, sym) {
			return errf(ErrRedefinition, s.Line, "variable %s already declared in this scope", s.Name)
		}
		return nil

	case StmtAssign:
		return a.check1Expr(s.Value)

	case StmtIf:
		if err := a.check1Expr(s.Cond); err != nil {
			return err
		}
		if err := a.check1Block(s.Body); err != nil {
			return err
		}
		if s.Else != nil {
			return a.check1Block(s.Else)
		}
		return nil

	case StmtWhile:
		if err := a.check1Expr(s.Cond); err != nil {
			return err
		}
		a.loopDepth++
		err := a.check1Block(s.Body)
		a.loopDepth--
		return err

	case StmtBreak:
		if a.loopDepth == 0 {
			return errf(ErrSemantic, s.Line, "break outside of a loop")
		}
		return nil

	case StmtContinue:
		if a.loopDepth == 0 {
			return errf(ErrSemantic, s.Line, "continue outside of a loop")
		}
		return nil

	case StmtCall:
		// Header collection already ran; mismatches get their proper
		// error kind in Pass 2.
		for _, arg := range s.Args {
			if err := a.check1Expr(arg); err != nil {
				return err
			}
		}
		return nil

	case StmtBuiltinCall:
		if err := a.checkBuiltinArgs(s.Name, s.Args, s.Line); err != nil {
			return err
		}
		for _, arg := range s.Args {
			if err := a.check1Expr(arg); err != nil {
				return err
			}
		}
		return nil

	case StmtExpr:
		return a.check1Expr(s.Value)

	case StmtReturn:
		if s.Value != nil {
			return a.check1Expr(s.Value)
		}
		return nil

	case StmtFunc, StmtGetter, StmtSetter:
		return errf(ErrSemantic, s.Line, "static members are only allowed at class level")
	}
	return nil
}

func (a *analyzer) check1Expr(e *Expr) error {
	switch e.Kind {
	case ExprBinary:
		if e.Op == IS {
			return a.check1Expr(e.Left)
		}
		if err := a.check1Expr(e.Left); err != nil {
			return err
		}
		if err := a.check1Expr(e.Right); err != nil {
			return err
		}
		return a.checkLiteralOperands(e)

	case ExprUnary:
		return a.check1Expr(e.Left)

	case ExprTernary:
		if err := a.check1Expr(e.Cond); err != nil {
			return err
		}
		if err := a.check1Expr(e.Left); err != nil {
			return err
		}
		return a.check1Expr(e.Right)

	case ExprCall:
		for _, arg := range e.Args {
			if err := a.check1Expr(arg); err != nil {
				return err
			}
		}
		return nil

	case ExprBuiltin:
		if err := a.checkBuiltinArgs(e.Name, e.Args, e.Line); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := a.check1Expr(arg); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// Literal operand classification for the Pass 1 pre-checks. Anything
// non-literal defers to Pass 2 and the runtime dispatch.
type litClass int

const (
	litNone litClass = iota
	litNum
	litStr
)

func literalClass(e *Expr) litClass {
	switch e.Kind {
	case ExprInt, ExprFloat:
		return litNum
	case ExprString:
		return litStr
	}
	return litNone
}

func (c litClass) String() string {
	if c == litStr {
		return "string"
	}
	return "numeric"
}

// checkLiteralOperands rejects binary operations that are provably wrong on
// literals alone: "a" - "b", 1 + "x", 3 < "s". Multiplication additionally
// allows string repetition with an integer literal count.
func (a *analyzer) checkLiteralOperands(e *Expr) error {
	l, r := literalClass(e.Left), literalClass(e.Right)
	if l == litNone || r == litNone {
		return nil
	}

	switch e.Op {
	case PLUS:
		if l == r {
			return nil
		}
	case MINUS, SLASH, LT, LE, GT, GE:
		if l == litNum && r == litNum {
			return nil
		}
	case STAR:
		if l == litNum && r == litNum {
			return nil
		}
		if l == litStr && e.Right.Kind == ExprInt {
			return nil
		}
	default:
		return nil
	}
	return errf(ErrExprType, e.Line, "operator %s cannot combine %s and %s literals", e.Op, l, r)
}

// checkBuiltinArgs verifies arity and the literal argument kinds against the
// builtin table.
func (a *analyzer) checkBuiltinArgs(name string, args []*Expr, line int) error {
	b := a.builtins[name]
	if b == nil {
		return errf(ErrUndefined, line, "unknown builtin %s.%s", stdAlias, name)
	}
	if len(args) != b.Arity {
		return errf(ErrArgCount, line, "%s.%s takes %d argument(s), got %d", stdAlias, name, b.Arity, len(args))
	}
	for i, arg := range args {
		switch b.Params[i] {
		case ParamString:
			if literalClass(arg) == litNum {
				return errf(ErrArgCount, line, "argument %d of %s.%s must be a string", i+1, stdAlias, name)
			}
		case ParamNumber:
			if literalClass(arg) == litStr {
				return errf(ErrArgCount, line, "argument %d of %s.%s must be a number", i+1, stdAlias, name)
			}
		}
	}
	return nil
}

func (a *analyzer) registerGlobal(name string) {
	if _, ok := a.globalTypes[name]; !ok {
		a.globalTypes[name] = TypeUnknown
		a.globals = append(a.globals, name)
	}
}

// ---- Pass 2 ----

func (a *analyzer) passTwo(prog *Program) error {
	a.scopes = NewScopeStack()
	a.ids = scopePathStack{}

	for _, cls := range prog.Classes {
		a.class = cls.Name
		a.scopes.Push()
		a.ids.Enter()
		for _, s := range cls.Body.Stmts {
			var err error
			switch s.Kind {
			case StmtFunc:
				err = a.resolveMember(s, s.Params)
			case StmtGetter:
				err = a.resolveMember(s, nil)
			case StmtSetter:
				err = a.resolveMember(s, s.Params)
			default:
				err = a.resolveStmt(s)
			}
			if err != nil {
				return err
			}
		}
		a.ids.Leave()
		a.scopes.Pop()
	}
	return nil
}

func (a *analyzer) resolveMember(s *Stmt, params []string) error {
	a.scopes.Push()
	a.ids.Enter()
	defer func() {
		a.ids.Leave()
		a.scopes.Pop()
	}()

	s.ParamCodegen = s.ParamCodegen[:0]
	for _, p := range params {
		sym := &Symbol{
			Name: p, Kind: SymParameter,
			ScopePath:   a.ids.Current(),
			CodegenName: p + "_" + a.ids.FlatSuffix(),
		}
		a.scopes.Declare(p, sym)
		s.ParamCodegen = append(s.ParamCodegen, sym.CodegenName)
	}
	return a.resolveBlock(s.Body)
}

func (a *analyzer) resolveBlock(b *Block) error {
	a.scopes.Push()
	a.ids.Enter()
	defer func() {
		a.ids.Leave()
		a.scopes.Pop()
	}()

	for _, s := range b.Stmts {
		if err := a.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) resolveStmt(s *Stmt) error {
	switch s.Kind {
	case StmtBlock:
		return a.resolveBlock(s.Body)

	case StmtVarDecl:
		if isGlobalName(s.Name) {
			a.registerGlobal(s.Name)
			s.Ref = RefGlobal
			s.CodegenName = s.Name
			return nil
		}
		sym := &Symbol{
			Name: s.Name, Kind: SymVariable,
			ScopePath:   a.ids.Current(),
			CodegenName: s.Name + "_" + a.ids.FlatSuffix(),
			Decl:        s,
		}
		a.scopes.Declare(s.Name, sym)
		s.Ref = RefLocal
		s.CodegenName = sym.CodegenName
		return nil

	case StmtAssign:
		rhs, err := a.inferExpr(s.Value)
		if err != nil {
			return err
		}
		if rhs == TypeVoid {
			return errf(ErrExprType, s.Line, "cannot assign a void value to %s", s.Name)
		}
		if sym := a.scopes.Lookup(s.Name); sym != nil {
			s.Ref = RefLocal
			s.CodegenName = sym.CodegenName
			return nil
		}
		if isGlobalName(s.Name) {
			a.registerGlobal(s.Name)
			s.Ref = RefGlobal
			s.CodegenName = s.Name
			a.globalTypes[s.Name] = latticeJoin(a.globalTypes[s.Name], rhs)
			return nil
		}
		if list := a.accessors["set:"+s.Name]; len(list) > 0 {
			s.Ref = RefSetter
			s.CodegenName = a.pickSig(list).CodegenName
			return nil
		}
		if len(a.accessors["get:"+s.Name]) > 0 {
			return errf(ErrUndefined, s.Line, "%s has a getter but no setter", s.Name)
		}
		return errf(ErrUndefined, s.Line, "assignment to undefined variable %s", s.Name)

	case StmtIf:
		if err := a.resolveCond(s.Cond); err != nil {
			return err
		}
		if err := a.resolveBlock(s.Body); err != nil {
			return err
		}
		if s.Else != nil {
			return a.resolveBlock(s.Else)
		}
		return nil

	case StmtWhile:
		if err := a.resolveCond(s.Cond); err != nil {
			return err
		}
		return a.resolveBlock(s.Body)

	case StmtBreak, StmtContinue:
		return nil

	case StmtCall:
		label, err := a.resolveCall(s.Name, s.Args, s.Line)
		if err != nil {
			return err
		}
		s.CodegenName = label
		return nil

	case StmtBuiltinCall:
		_, err := a.resolveBuiltin(s.Name, s.Args, s.Line)
		return err

	case StmtExpr:
		_, err := a.inferExpr(s.Value)
		return err

	case StmtReturn:
		if s.Value != nil {
			_, err := a.inferExpr(s.Value)
			return err
		}
		return nil
	}
	return nil
}

// resolveCond infers a condition and rejects it when its type is known and
// not Bool. Unknown defers to the runtime.
func (a *analyzer) resolveCond(cond *Expr) error {
	t, err := a.inferExpr(cond)
	if err != nil {
		return err
	}
	if t != TypeUnknown && t != TypeBool {
		return errf(ErrExprType, cond.Line, "condition must be Bool, got %s", t)
	}
	return nil
}

// resolveCall checks a user function call against the signature table and
// returns the target label. An exact (name, arity) match wins; a known name
// with no matching arity is an argument-count error.
func (a *analyzer) resolveCall(name string, args []*Expr, line int) (string, error) {
	for _, arg := range args {
		if _, err := a.inferExpr(arg); err != nil {
			return "", err
		}
	}
	if list := a.byCall[sigKey(name, len(args))]; len(list) > 0 {
		return a.pickSig(list).CodegenName, nil
	}
	if a.byName[name] {
		return "", errf(ErrArgCount, line, "no definition of %s takes %d argument(s)", name, len(args))
	}
	return "", errf(ErrUndefined, line, "call to undefined function %s", name)
}

func (a *analyzer) resolveBuiltin(name string, args []*Expr, line int) (ValueType, error) {
	b := a.builtins[name]
	if b == nil {
		return TypeUnknown, errf(ErrUndefined, line, "unknown builtin %s.%s", stdAlias, name)
	}
	if len(args) != b.Arity {
		return TypeUnknown, errf(ErrArgCount, line, "%s.%s takes %d argument(s), got %d", stdAlias, name, b.Arity, len(args))
	}
	for _, arg := range args {
		if _, err := a.inferExpr(arg); err != nil {
			return TypeUnknown, err
		}
	}
	return b.Result, nil
}

// inferExpr resolves identifiers and calls inside e, fills in the Pass 2
// annotations and returns the inferred type. TypeUnknown means the check is
// deferred to the generated runtime dispatch.
func (a *analyzer) inferExpr(e *Expr) (ValueType, error) {
	switch e.Kind {
	case ExprInt:
		e.Type = TypeInt
	case ExprFloat:
		e.Type = TypeDouble
	case ExprString:
		e.Type = TypeString
	case ExprBool:
		e.Type = TypeBool
	case ExprNull:
		e.Type = TypeNull

	case ExprIdent:
		return a.inferIdent(e)

	case ExprBinary:
		return a.inferBinary(e)

	case ExprUnary:
		t, err := a.inferExpr(e.Left)
		if err != nil {
			return TypeUnknown, err
		}
		if t != TypeUnknown && t != TypeBool {
			return TypeUnknown, errf(ErrExprType, e.Line, "operator ! needs a Bool operand, got %s", t)
		}
		e.Type = TypeBool

	case ExprTernary:
		if err := a.resolveCond(e.Cond); err != nil {
			return TypeUnknown, err
		}
		lt, err := a.inferExpr(e.Left)
		if err != nil {
			return TypeUnknown, err
		}
		rt, err := a.inferExpr(e.Right)
		if err != nil {
			return TypeUnknown, err
		}
		if lt == rt {
			e.Type = lt
		} else if isNumeric(lt) && isNumeric(rt) {
			e.Type = TypeDouble
		} else {
			e.Type = TypeUnknown
		}

	case ExprCall:
		label, err := a.resolveCall(e.Name, e.Args, e.Line)
		if err != nil {
			return TypeUnknown, err
		}
		e.CodegenName = label
		e.Type = TypeUnknown

	case ExprBuiltin:
		t, err := a.resolveBuiltin(e.Name, e.Args, e.Line)
		if err != nil {
			return TypeUnknown, err
		}
		e.Type = t
	}
	return e.Type, nil
}

// inferIdent resolves a bare identifier: locals innermost-out, then a getter,
// then a double-underscore module-level variable.
func (a *analyzer) inferIdent(e *Expr) (ValueType, error) {
	if sym := a.scopes.Lookup(e.Name); sym != nil {
		e.Ref = RefLocal
		e.CodegenName = sym.CodegenName
		e.Type = sym.Type
		return e.Type, nil
	}
	if list := a.accessors["get:"+e.Name]; len(list) > 0 {
		e.Ref = RefGetter
		e.CodegenName = a.pickSig(list).CodegenName
		e.Type = TypeUnknown
		return e.Type, nil
	}
	if len(a.accessors["set:"+e.Name]) > 0 {
		return TypeUnknown, errf(ErrUndefined, e.Line, "%s has a setter but no getter", e.Name)
	}
	if isGlobalName(e.Name) {
		a.registerGlobal(e.Name)
		e.Ref = RefGlobal
		e.CodegenName = e.Name
		e.Type = a.globalTypes[e.Name]
		return e.Type, nil
	}
	return TypeUnknown, errf(ErrUndefined, e.Line, "undefined variable %s", e.Name)
}

func (a *analyzer) inferBinary(e *Expr) (ValueType, error) {
	if e.Op == IS {
		// The right side is a bare type name, not a value.
		if _, err := a.inferExpr(e.Left); err != nil {
			return TypeUnknown, err
		}
		e.Type = TypeBool
		return e.Type, nil
	}

	lt, err := a.inferExpr(e.Left)
	if err != nil {
		return TypeUnknown, err
	}
	rt, err := a.inferExpr(e.Right)
	if err != nil {
		return TypeUnknown, err
	}

	switch e.Op {
	case PLUS:
		switch {
		case lt == TypeUnknown || rt == TypeUnknown:
			e.Type = TypeUnknown
		case isNumeric(lt) && isNumeric(rt):
			e.Type = numJoin(lt, rt)
		case lt == TypeString && rt == TypeString:
			e.Type = TypeString
		default:
			return TypeUnknown, a.binaryTypeError(e, lt, rt)
		}

	case MINUS, SLASH:
		switch {
		case lt == TypeUnknown || rt == TypeUnknown:
			e.Type = TypeUnknown
		case isNumeric(lt) && isNumeric(rt):
			e.Type = numJoin(lt, rt)
		default:
			return TypeUnknown, a.binaryTypeError(e, lt, rt)
		}

	case STAR:
		switch {
		case lt == TypeUnknown || rt == TypeUnknown:
			e.Type = TypeUnknown
		case isNumeric(lt) && isNumeric(rt):
			e.Type = numJoin(lt, rt)
		case lt == TypeString && rt == TypeInt:
			e.Type = TypeString
		default:
			return TypeUnknown, a.binaryTypeError(e, lt, rt)
		}

	case LT, LE, GT, GE:
		if (lt != TypeUnknown && !isNumeric(lt)) || (rt != TypeUnknown && !isNumeric(rt)) {
			return TypeUnknown, a.binaryTypeError(e, lt, rt)
		}
		e.Type = TypeBool

	case EQ, NEQ:
		e.Type = TypeBool

	case AND, OR:
		if (lt != TypeUnknown && lt != TypeBool) || (rt != TypeUnknown && rt != TypeBool) {
			return TypeUnknown, a.binaryTypeError(e, lt, rt)
		}
		e.Type = TypeBool
	}
	return e.Type, nil
}

func (a *analyzer) binaryTypeError(e *Expr, lt, rt ValueType) error {
	return errf(ErrExprType, e.Line, "operator %s cannot combine %s and %s", e.Op, lt, rt)
}

// numJoin is the numeric result type: Double wins over Int.
func numJoin(l, r ValueType) ValueType {
	if l == TypeDouble || r == TypeDouble {
		return TypeDouble
	}
	return TypeInt
}

// latticeJoin updates the learned type of a module-level variable. Unknown
// learns the incoming type, Int and Double widen to Double, anything else
// incompatible collapses back to Unknown. Never an error: globals fall back
// to the runtime dispatch.
func latticeJoin(old, next ValueType) ValueType {
	switch {
	case old == TypeUnknown:
		return next
	case next == TypeUnknown:
		return TypeUnknown
	case old == next:
		return old
	case isNumeric(old) && isNumeric(next):
		return TypeDouble
	}
	return TypeUnknown
}
