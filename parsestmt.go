package main

// Recursive-descent statement grammar. The grammar is newline-sensitive:
// every simple statement ends at end of line and '{' must be followed by a
// newline. Sub-expressions are handed off to the precedence engine in
// parseexpr.go.

// stdAlias is the only valid alias for the standard library import, and the
// namespace prefix for builtin calls.
const stdAlias = "Std"

// stdImportPath is the only valid import path.
const stdImportPath = "std"

// Parse consumes a token sequence and builds the program tree.
func Parse(toks []Token) (*Program, error) {
	cur := newCursor(toks)
	prog := &Program{}

	cur.skipNewlines()

	if cur.kind() == IMPORT {
		imp, err := parseImport(cur)
		if err != nil {
			return nil, err
		}
		prog.Import = imp
		cur.skipNewlines()
	}

	for cur.kind() != EOF {
		cls, err := parseClass(cur)
		if err != nil {
			return nil, err
		}
		prog.Classes = append(prog.Classes, cls)
		cur.skipNewlines()
	}

	return prog, nil
}

// parseImport consumes `import "std" for Std`.
func parseImport(cur *cursor) (*Import, error) {
	if err := cur.expect(IMPORT); err != nil {
		return nil, err
	}
	if cur.kind() != STRING || cur.at().Lit != stdImportPath {
		return nil, errf(ErrSyntax, cur.at().Line, "import path must be %q", stdImportPath)
	}
	path := cur.at().Lit
	cur.advance()
	if cur.kind() != FOR {
		return nil, errf(ErrSyntax, cur.at().Line, "expected 'for' after import path")
	}
	cur.advance()
	if cur.kind() != IDENT || cur.at().Lit != stdAlias {
		return nil, errf(ErrSyntax, cur.at().Line, "import alias must be %s", stdAlias)
	}
	alias := cur.at().Lit
	cur.advance()
	if err := cur.expect(NEWLINE); err != nil {
		return nil, err
	}
	return &Import{Path: path, Alias: alias}, nil
}

func parseClass(cur *cursor) (*Class, error) {
	line := cur.at().Line
	if err := cur.expect(CLASS); err != nil {
		return nil, err
	}
	if cur.kind() != IDENT {
		return nil, errf(ErrSyntax, cur.at().Line, "expected class name")
	}
	name := cur.at().Lit
	cur.advance()

	body, err := parseBlock(cur)
	if err != nil {
		return nil, err
	}
	return &Class{Name: name, Body: body, Line: line}, nil
}

// parseBlock consumes `{ NEWLINE statements }`. The builder keeps the
// insertion point; nodes never point back at their parent.
func parseBlock(cur *cursor) (*Block, error) {
	if err := cur.expect(LBRACE); err != nil {
		return nil, err
	}
	if err := cur.expect(NEWLINE); err != nil {
		return nil, err
	}

	block := &Block{}
	for {
		cur.skipNewlines()
		if cur.kind() == RBRACE {
			cur.advance()
			return block, nil
		}
		if cur.kind() == EOF {
			return nil, errf(ErrSyntax, cur.at().Line, "unexpected end of input, missing }")
		}
		if err := parseStatement(cur, block); err != nil {
			return nil, err
		}
	}
}

// parseStatement parses one statement into block. Declarations with an
// initializer append two nodes: the declaration and the assignment.
func parseStatement(cur *cursor, block *Block) error {
	tok := cur.at()

	switch tok.Kind {
	case LBRACE:
		inner, err := parseBlock(cur)
		if err != nil {
			return err
		}
		block.add(&Stmt{Kind: StmtBlock, Body: inner, Line: tok.Line})
		return nil

	case STATIC:
		return parseStaticMember(cur, block)

	case VAR:
		return parseVarDecl(cur, block)

	case IDENT, GLOBAL:
		if tok.Kind == IDENT && tok.Lit == stdAlias {
			return parseBuiltinStmt(cur, block)
		}
		if cur.peek(1) == ASSIGN {
			return parseAssignment(cur, block)
		}
		return parseCallStmt(cur, block)

	case IF:
		return parseIf(cur, block)

	case WHILE:
		return parseWhile(cur, block)

	case BREAK:
		cur.advance()
		block.add(&Stmt{Kind: StmtBreak, Line: tok.Line})
		return cur.expect(NEWLINE)

	case CONTINUE:
		cur.advance()
		block.add(&Stmt{Kind: StmtContinue, Line: tok.Line})
		return cur.expect(NEWLINE)

	case RETURN:
		return parseReturn(cur, block)
	}

	return errf(ErrSyntax, tok.Line, "unexpected %s at start of statement", tok.Kind)
}

// parseStaticMember dispatches `static name(...)`, `static name {` and
// `static name = (p) {` — function, getter and setter.
func parseStaticMember(cur *cursor, block *Block) error {
	line := cur.at().Line
	cur.advance() // static
	if cur.kind() != IDENT {
		return errf(ErrSyntax, cur.at().Line, "expected member name after static")
	}
	name := cur.at().Lit
	cur.advance()

	switch cur.kind() {
	case LPAREN:
		params, err := parseParamNames(cur)
		if err != nil {
			return err
		}
		body, err := parseBlock(cur)
		if err != nil {
			return err
		}
		block.add(&Stmt{Kind: StmtFunc, Name: name, Params: params, Body: body, Line: line})
		return nil

	case LBRACE:
		body, err := parseBlock(cur)
		if err != nil {
			return err
		}
		block.add(&Stmt{Kind: StmtGetter, Name: name, Body: body, Line: line})
		return nil

	case ASSIGN:
		cur.advance()
		if err := cur.expect(LPAREN); err != nil {
			return err
		}
		if cur.kind() != IDENT {
			return errf(ErrSyntax, cur.at().Line, "expected setter parameter name")
		}
		param := cur.at().Lit
		cur.advance()
		if err := cur.expect(RPAREN); err != nil {
			return err
		}
		body, err := parseBlock(cur)
		if err != nil {
			return err
		}
		block.add(&Stmt{Kind: StmtSetter, Name: name, Params: []string{param}, Body: body, Line: line})
		return nil
	}

	return errf(ErrSyntax, cur.at().Line, "expected (, { or = after static %s", name)
}

// parseParamNames consumes a parenthesized comma-separated list of
// identifiers (formal parameters).
func parseParamNames(cur *cursor) ([]string, error) {
	if err := cur.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []string
	if cur.kind() == RPAREN {
		cur.advance()
		return params, nil
	}
	for {
		if cur.kind() != IDENT {
			return nil, errf(ErrSyntax, cur.at().Line, "expected parameter name, found %s", cur.kind())
		}
		params = append(params, cur.at().Lit)
		cur.advance()
		switch cur.kind() {
		case COMMA:
			cur.advance()
		case RPAREN:
			cur.advance()
			return params, nil
		default:
			return nil, errf(ErrSyntax, cur.at().Line, "expected , or ) in parameter list, found %s", cur.kind())
		}
	}
}

func parseVarDecl(cur *cursor, block *Block) error {
	line := cur.at().Line
	cur.advance() // var
	if cur.kind() != IDENT && cur.kind() != GLOBAL {
		return errf(ErrSyntax, cur.at().Line, "expected variable name after var")
	}
	name := cur.at().Lit
	cur.advance()

	block.add(&Stmt{Kind: StmtVarDecl, Name: name, Line: line})

	if cur.kind() == ASSIGN {
		cur.advance()
		value, err := ParseExpr(cur)
		if err != nil {
			return err
		}
		block.add(&Stmt{Kind: StmtAssign, Name: name, Value: value, Line: line})
	}
	return cur.expect(NEWLINE)
}

func parseAssignment(cur *cursor, block *Block) error {
	tok := cur.at()
	cur.advance() // name
	cur.advance() // =
	value, err := ParseExpr(cur)
	if err != nil {
		return err
	}
	block.add(&Stmt{Kind: StmtAssign, Name: tok.Lit, Value: value, Line: tok.Line})
	return cur.expect(NEWLINE)
}

func parseCallStmt(cur *cursor, block *Block) error {
	tok := cur.at()
	if tok.Kind != IDENT {
		return errf(ErrSyntax, tok.Line, "cannot call %q", tok.Lit)
	}
	cur.advance()
	args, err := parseCallArgs(cur)
	if err != nil {
		return err
	}
	block.add(&Stmt{Kind: StmtCall, Name: tok.Lit, Args: args, Line: tok.Line})
	return cur.expect(NEWLINE)
}

// parseBuiltinStmt consumes `Std.name(args)` in statement position.
func parseBuiltinStmt(cur *cursor, block *Block) error {
	tok := cur.at()
	cur.advance() // alias
	if err := cur.expect(DOT); err != nil {
		return err
	}
	if cur.kind() != IDENT {
		return errf(ErrSyntax, cur.at().Line, "expected builtin name after %s.", stdAlias)
	}
	name := cur.at().Lit
	cur.advance()
	args, err := parseCallArgs(cur)
	if err != nil {
		return err
	}
	block.add(&Stmt{Kind: StmtBuiltinCall, Name: name, Args: args, Line: tok.Line})
	return cur.expect(NEWLINE)
}

func parseIf(cur *cursor, block *Block) error {
	line := cur.at().Line
	cur.advance() // if
	if err := cur.expect(LPAREN); err != nil {
		return err
	}
	cond, err := ParseExpr(cur)
	if err != nil {
		return err
	}
	if err := cur.expect(RPAREN); err != nil {
		return err
	}
	body, err := parseBlock(cur)
	if err != nil {
		return err
	}

	stmt := &Stmt{Kind: StmtIf, Cond: cond, Body: body, Line: line}
	if cur.kind() == ELSE {
		cur.advance()
		elseBody, err := parseBlock(cur)
		if err != nil {
			return err
		}
		stmt.Else = elseBody
	}
	block.add(stmt)
	return nil
}

func parseWhile(cur *cursor, block *Block) error {
	line := cur.at().Line
	cur.advance() // while
	if err := cur.expect(LPAREN); err != nil {
		return err
	}
	cond, err := ParseExpr(cur)
	if err != nil {
		return err
	}
	if err := cur.expect(RPAREN); err != nil {
		return err
	}
	body, err := parseBlock(cur)
	if err != nil {
		return err
	}
	block.add(&Stmt{Kind: StmtWhile, Cond: cond, Body: body, Line: line})
	return nil
}

func parseReturn(cur *cursor, block *Block) error {
	line := cur.at().Line
	cur.advance() // return
	if cur.kind() == NEWLINE {
		cur.advance()
		block.add(&Stmt{Kind: StmtReturn, Line: line})
		return nil
	}
	value, err := ParseExpr(cur)
	if err != nil {
		return err
	}
	block.add(&Stmt{Kind: StmtReturn, Value: value, Line: line})
	return cur.expect(NEWLINE)
}
