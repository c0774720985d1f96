package main

// Operator-precedence expression parser.
//
// The engine works over a fixed relation table indexed by nine terminal
// categories. The parse stack holds raw terminals, reduced expressions and
// shift-mark sentinels; a shift-mark is inserted below the topmost run of
// already-reduced expressions so a reduction can always find its handle.
// Call arguments are parsed by a recursive-descent island inside the loop.

type precIndex int

const (
	iMulDiv precIndex = iota
	iAddSub
	iRel
	iIs
	iEq
	iLParen
	iData
	iRParen
	iEnd
)

// Relation table: rows are the topmost stack terminal, columns the input.
// '<' shift, '>' reduce, '=' match (shift without a mark), ' ' error.
var precTable = [9][9]byte{
	//         */   +-   rel  is   ==   (    atom )    end
	iMulDiv: {'>', '>', '>', '>', '>', '<', '<', '>', '>'},
	iAddSub: {'<', '>', '>', '>', '>', '<', '<', '>', '>'},
	iRel:    {'<', '<', '>', '>', '>', '<', '<', '>', '>'},
	iIs:     {'<', '<', '<', '>', '>', '<', '<', '>', '>'},
	iEq:     {'<', '<', '<', '<', '>', '<', '<', '>', '>'},
	iLParen: {'<', '<', '<', '<', '<', '<', '<', '=', ' '},
	iData:   {'>', '>', '>', '>', '>', ' ', ' ', '>', '>'},
	iRParen: {'>', '>', '>', '>', '>', ' ', ' ', '>', '>'},
	iEnd:    {'<', '<', '<', '<', '<', '<', '<', ' ', ' '},
}

func precIndexOf(kind TokenKind) precIndex {
	switch kind {
	case STAR, SLASH:
		return iMulDiv
	case PLUS, MINUS:
		return iAddSub
	case LT, LE, GT, GE:
		return iRel
	case IS:
		return iIs
	case EQ, NEQ:
		return iEq
	case LPAREN:
		return iLParen
	case IDENT, GLOBAL, INT, FLOAT, STRING, TRUE, FALSE, NULL:
		return iData
	case RPAREN:
		return iRParen
	default:
		return iEnd
	}
}

// typeNames is the closed set of type names allowed on the right of `is`.
var typeNames = map[string]bool{
	"Num":    true,
	"String": true,
	"Bool":   true,
	"Null":   true,
}

const (
	itemTerminal = iota
	itemExpr
	itemMark
)

type exprItem struct {
	kind int
	tok  Token // itemTerminal
	expr *Expr // itemExpr, and terminals prebuilt by call islands
}

type exprStack []exprItem

func (s exprStack) topTerminal() (Token, precIndex) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].kind == itemTerminal {
			return s[i].tok, precIndexOf(s[i].tok.Kind)
		}
	}
	return Token{Kind: EOF}, iEnd
}

// pushMark inserts a shift-mark sentinel below the topmost run of reduced
// expressions, unless one is already there.
func (s exprStack) pushMark() exprStack {
	i := len(s)
	for i > 0 && s[i-1].kind == itemExpr {
		i--
	}
	if i > 0 && s[i-1].kind == itemMark {
		return s
	}
	s = append(s, exprItem{})
	copy(s[i+1:], s[i:])
	s[i] = exprItem{kind: itemMark}
	return s
}

// popMark removes a shift-mark directly under the top item, if present.
func (s exprStack) popMark() exprStack {
	if len(s) >= 2 && s[len(s)-2].kind == itemMark {
		s = append(s[:len(s)-2], s[len(s)-1])
	}
	return s
}

// reduce applies one reduction to the stack top. Returns the new stack and
// whether a rule applied.
func (s exprStack) reduce() (exprStack, bool, error) {
	if len(s) == 0 {
		return s, false, nil
	}

	top := s[len(s)-1]

	// atom -> Expr
	if top.kind == itemTerminal && precIndexOf(top.tok.Kind) == iData {
		e := top.expr // prebuilt by a call island
		if e == nil {
			e = atomExpr(top.tok)
		}
		s = s[:len(s)-1]
		s = append(s, exprItem{kind: itemExpr, expr: e})
		s = s.popMark()
		return s, true, nil
	}

	if len(s) >= 3 {
		mid := s[len(s)-2]
		bot := s[len(s)-3]

		// Expr op Expr -> Expr
		if top.kind == itemExpr && bot.kind == itemExpr &&
			mid.kind == itemTerminal && isBinaryOp(mid.tok.Kind) {
			if mid.tok.Kind == IS {
				if top.expr.Kind != ExprIdent || !typeNames[top.expr.Name] {
					return s, false, errf(ErrSyntax, mid.tok.Line,
						"right side of 'is' must be a type name (Num, String, Bool, Null)")
				}
			}
			e := &Expr{
				Kind:  ExprBinary,
				Op:    mid.tok.Kind,
				Left:  bot.expr,
				Right: top.expr,
				Line:  mid.tok.Line,
			}
			s = s[:len(s)-3]
			s = append(s, exprItem{kind: itemExpr, expr: e})
			s = s.popMark()
			return s, true, nil
		}

		// ( Expr ) -> Expr
		if top.kind == itemTerminal && top.tok.Kind == RPAREN &&
			mid.kind == itemExpr &&
			bot.kind == itemTerminal && bot.tok.Kind == LPAREN {
			inner := mid.expr
			s = s[:len(s)-3]
			s = append(s, exprItem{kind: itemExpr, expr: inner})
			s = s.popMark()
			return s, true, nil
		}
	}

	return s, false, nil
}

func isBinaryOp(kind TokenKind) bool {
	switch kind {
	case PLUS, MINUS, STAR, SLASH, LT, LE, GT, GE, EQ, NEQ, IS:
		return true
	}
	return false
}

func atomExpr(tok Token) *Expr {
	switch tok.Kind {
	case INT:
		return &Expr{Kind: ExprInt, Int: tok.Int, Line: tok.Line}
	case FLOAT:
		return &Expr{Kind: ExprFloat, Float: tok.Float, Line: tok.Line}
	case STRING:
		return &Expr{Kind: ExprString, Str: tok.Lit, Line: tok.Line}
	case TRUE:
		return &Expr{Kind: ExprBool, Bool: true, Line: tok.Line}
	case FALSE:
		return &Expr{Kind: ExprBool, Bool: false, Line: tok.Line}
	case NULL:
		return &Expr{Kind: ExprNull, Line: tok.Line}
	default: // IDENT, GLOBAL
		return &Expr{Kind: ExprIdent, Name: tok.Lit, Line: tok.Line}
	}
}

// ParseExpr parses a full expression at the cursor: optional leading '!',
// the precedence engine, then '&&'/'||' chains and a trailing '?:'. The
// cursor ends up on the first token past the expression.
func ParseExpr(cur *cursor) (*Expr, error) {
	left, err := parseNotExpr(cur)
	if err != nil {
		return nil, err
	}

	for cur.kind() == AND || cur.kind() == OR {
		op := cur.at()
		cur.advance()
		right, err := parseNotExpr(cur)
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprBinary, Op: op.Kind, Left: left, Right: right, Line: op.Line}
	}

	if cur.kind() == QUESTION {
		q := cur.at()
		cur.advance()
		thenExpr, err := ParseExpr(cur)
		if err != nil {
			return nil, err
		}
		if err := cur.expect(COLON); err != nil {
			return nil, err
		}
		elseExpr, err := ParseExpr(cur)
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: ExprTernary, Cond: left, Left: thenExpr, Right: elseExpr, Line: q.Line}
	}

	return left, nil
}

func parseNotExpr(cur *cursor) (*Expr, error) {
	if cur.kind() == BANG {
		bang := cur.at()
		cur.advance()
		operand, err := parseNotExpr(cur)
		if err != nil {
			return nil, err
		}
		return &Expr{Kind: ExprUnary, Op: BANG, Left: operand, Line: bang.Line}, nil
	}
	return parsePrecExpr(cur)
}

// parsePrecExpr runs the shift/reduce engine until the input no longer
// belongs to the expression (per the relation table and paren depth).
func parsePrecExpr(cur *cursor) (*Expr, error) {
	startLine := cur.at().Line
	stack := exprStack{{kind: itemTerminal, tok: Token{Kind: EOF, Line: startLine}}}
	depth := 0

	input := precIndexOf(cur.kind())
	for input != iEnd || len(stack) > 1 {
		_, topIdx := stack.topTerminal()
		rel := precTable[topIdx][input]

		switch rel {
		case '<', '=':
			if rel == '<' {
				stack = stack.pushMark()
			}
			if input == iLParen {
				depth++
			} else if input == iRParen {
				depth--
				if depth < 0 {
					// The ')' belongs to an enclosing construct; the
					// expression ends here.
					goto collapse
				}
			}

			item, err := shiftAtom(cur)
			if err != nil {
				return nil, err
			}
			stack = append(stack, item)
			input = precIndexOf(cur.kind())

		case '>':
			var ok bool
			var err error
			stack, ok, err = stack.reduce()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errf(ErrSyntax, cur.at().Line, "malformed expression")
			}

		default: // ' '
			if input == iRParen && depth == 0 {
				goto collapse
			}
			if input == iEnd {
				goto collapse
			}
			return nil, errf(ErrSyntax, cur.at().Line, "unexpected %s in expression", cur.kind())
		}
	}

collapse:
	// Force remaining reductions; the stack must collapse to exactly one
	// expression above the end marker.
	for !(len(stack) == 2 && stack[1].kind == itemExpr) {
		var ok bool
		var err error
		stack, ok, err = stack.reduce()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errf(ErrSyntax, cur.at().Line, "malformed expression")
		}
	}
	return stack[1].expr, nil
}

// shiftAtom pushes the current token onto the stack. Identifiers followed by
// '(' and `Std.name(...)` forms are consumed eagerly as whole call atoms,
// arguments included — a recursive-descent island inside the engine.
func shiftAtom(cur *cursor) (exprItem, error) {
	tok := cur.at()

	if tok.Kind == IDENT && tok.Lit == stdAlias {
		e, err := parseBuiltinRef(cur)
		if err != nil {
			return exprItem{}, err
		}
		return exprItem{kind: itemTerminal, tok: tok, expr: e}, nil
	}

	if tok.Kind == IDENT && cur.peek(1) == LPAREN {
		cur.advance() // name
		args, err := parseCallArgs(cur)
		if err != nil {
			return exprItem{}, err
		}
		e := &Expr{Kind: ExprCall, Name: tok.Lit, Args: args, Line: tok.Line}
		return exprItem{kind: itemTerminal, tok: tok, expr: e}, nil
	}

	cur.advance()
	return exprItem{kind: itemTerminal, tok: tok}, nil
}

// parseBuiltinRef consumes `Std.name(args)` with the cursor on the alias.
func parseBuiltinRef(cur *cursor) (*Expr, error) {
	alias := cur.at()
	cur.advance()
	if err := cur.expect(DOT); err != nil {
		return nil, err
	}
	if cur.kind() != IDENT {
		return nil, errf(ErrSyntax, cur.at().Line, "expected builtin name after %s.", stdAlias)
	}
	name := cur.at().Lit
	cur.advance()
	args, err := parseCallArgs(cur)
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: ExprBuiltin, Name: name, Args: args, Line: alias.Line}, nil
}

// parseCallArgs consumes a parenthesized, comma-separated argument list with
// the cursor on '('. Arguments are full (possibly nested) expressions.
func parseCallArgs(cur *cursor) ([]*Expr, error) {
	if err := cur.expect(LPAREN); err != nil {
		return nil, err
	}
	var args []*Expr
	if cur.kind() == RPAREN {
		cur.advance()
		return args, nil
	}
	for {
		arg, err := ParseExpr(cur)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch cur.kind() {
		case COMMA:
			cur.advance()
		case RPAREN:
			cur.advance()
			return args, nil
		default:
			return nil, errf(ErrSyntax, cur.at().Line, "expected , or ) in argument list, found %s", cur.kind())
		}
	}
}
