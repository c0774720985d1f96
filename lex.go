package main

import "strconv"

// TokenKind is the kind of token (identifier, operator, literal, etc.).
type TokenKind string

const (
	EOF     TokenKind = "EOF"
	NEWLINE TokenKind = "NEWLINE"

	// Identifiers + literals
	IDENT  TokenKind = "IDENT"  // main, foo, _bar
	GLOBAL TokenKind = "GLOBAL" // __counter
	INT    TokenKind = "INT"    // 12345, 0xff
	FLOAT  TokenKind = "FLOAT"  // 1.5, 2e3
	STRING TokenKind = "STRING"
	TRUE   TokenKind = "TRUE"
	FALSE  TokenKind = "FALSE"

	// Operators
	ASSIGN TokenKind = "="
	PLUS   TokenKind = "+"
	MINUS  TokenKind = "-"
	STAR   TokenKind = "*"
	SLASH  TokenKind = "/"
	BANG   TokenKind = "!"

	LT  TokenKind = "<"
	GT  TokenKind = ">"
	LE  TokenKind = "<="
	GE  TokenKind = ">="
	EQ  TokenKind = "=="
	NEQ TokenKind = "!="

	AND TokenKind = "&&"
	OR  TokenKind = "||"

	// Delimiters
	LPAREN   TokenKind = "("
	RPAREN   TokenKind = ")"
	LBRACE   TokenKind = "{"
	RBRACE   TokenKind = "}"
	COMMA    TokenKind = ","
	DOT      TokenKind = "."
	COLON    TokenKind = ":"
	QUESTION TokenKind = "?"

	// Keywords
	CLASS    TokenKind = "CLASS"
	IF       TokenKind = "IF"
	ELSE     TokenKind = "ELSE"
	IS       TokenKind = "IS"
	NULL     TokenKind = "NULL"
	RETURN   TokenKind = "RETURN"
	VAR      TokenKind = "VAR"
	WHILE    TokenKind = "WHILE"
	STATIC   TokenKind = "STATIC"
	IMPORT   TokenKind = "IMPORT"
	FOR      TokenKind = "FOR"
	BREAK    TokenKind = "BREAK"
	CONTINUE TokenKind = "CONTINUE"
)

var keywords = map[string]TokenKind{
	"class":    CLASS,
	"if":       IF,
	"else":     ELSE,
	"is":       IS,
	"null":     NULL,
	"return":   RETURN,
	"var":      VAR,
	"while":    WHILE,
	"static":   STATIC,
	"import":   IMPORT,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
}

// Token is one lexeme with its literal payload. Tokens are immutable once
// produced; the parser owns the slice while consuming it.
type Token struct {
	Kind  TokenKind
	Lit   string
	Int   int64   // only meaningful when Kind == INT
	Float float64 // only meaningful when Kind == FLOAT
	Line  int
}

type scanner struct {
	input []byte // always ends with a 0 sentinel
	pos   int
	line  int
}

// Tokenize scans the whole source and returns the ordered token sequence,
// always terminated by an EOF token. Runs of blank lines collapse into a
// single NEWLINE token.
func Tokenize(src []byte) ([]Token, error) {
	s := &scanner{input: append(append([]byte{}, src...), 0), line: 1}

	var toks []Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == NEWLINE && len(toks) > 0 && toks[len(toks)-1].Kind == NEWLINE {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (s *scanner) next() (Token, error) {
	s.skipSpace()

	line := s.line
	c := s.input[s.pos]

	switch {
	case c == 0:
		return Token{Kind: EOF, Line: line}, nil
	case c == '\n':
		s.pos++
		s.line++
		return Token{Kind: NEWLINE, Lit: "\n", Line: line}, nil
	case c == '/':
		if s.input[s.pos+1] == '/' {
			s.skipLineComment()
			return s.next()
		}
		if s.input[s.pos+1] == '*' {
			if err := s.skipBlockComment(); err != nil {
				return Token{}, err
			}
			return s.next()
		}
		s.pos++
		return Token{Kind: SLASH, Lit: "/", Line: line}, nil
	case c == '"':
		lit, err := s.readString()
		if err != nil {
			return Token{}, err
		}
		return Token{Kind: STRING, Lit: lit, Line: line}, nil
	case isLetter(c):
		lit := s.readIdentifier()
		if kw, ok := keywords[lit]; ok {
			return Token{Kind: kw, Lit: lit, Line: line}, nil
		}
		if len(lit) >= 2 && lit[0] == '_' && lit[1] == '_' {
			return Token{Kind: GLOBAL, Lit: lit, Line: line}, nil
		}
		return Token{Kind: IDENT, Lit: lit, Line: line}, nil
	case isDigit(c):
		return s.readNumber()
	}

	two := func(kind TokenKind) Token {
		lit := string(s.input[s.pos : s.pos+2])
		s.pos += 2
		return Token{Kind: kind, Lit: lit, Line: line}
	}
	one := func(kind TokenKind) Token {
		s.pos++
		return Token{Kind: kind, Lit: string(c), Line: line}
	}

	switch c {
	case '=':
		if s.input[s.pos+1] == '=' {
			return two(EQ), nil
		}
		return one(ASSIGN), nil
	case '!':
		if s.input[s.pos+1] == '=' {
			return two(NEQ), nil
		}
		return one(BANG), nil
	case '<':
		if s.input[s.pos+1] == '=' {
			return two(LE), nil
		}
		return one(LT), nil
	case '>':
		if s.input[s.pos+1] == '=' {
			return two(GE), nil
		}
		return one(GT), nil
	case '&':
		if s.input[s.pos+1] == '&' {
			return two(AND), nil
		}
	case '|':
		if s.input[s.pos+1] == '|' {
			return two(OR), nil
		}
	case '+':
		return one(PLUS), nil
	case '-':
		return one(MINUS), nil
	case '*':
		return one(STAR), nil
	case '(':
		return one(LPAREN), nil
	case ')':
		return one(RPAREN), nil
	case '{':
		return one(LBRACE), nil
	case '}':
		return one(RBRACE), nil
	case ',':
		return one(COMMA), nil
	case '.':
		return one(DOT), nil
	case ':':
		return one(COLON), nil
	case '?':
		return one(QUESTION), nil
	}

	return Token{}, errf(ErrLexical, line, "unexpected character %q", string(c))
}

func (s *scanner) skipSpace() {
	for {
		c := s.input[s.pos]
		if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		s.pos++
	}
}

func (s *scanner) skipLineComment() {
	for s.input[s.pos] != '\n' && s.input[s.pos] != 0 {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() error {
	start := s.line
	s.pos += 2 // skip /*
	for s.input[s.pos] != 0 && !(s.input[s.pos] == '*' && s.input[s.pos+1] == '/') {
		if s.input[s.pos] == '\n' {
			s.line++
		}
		s.pos++
	}
	if s.input[s.pos] == 0 {
		return errf(ErrLexical, start, "unterminated block comment")
	}
	s.pos += 2 // skip */
	return nil
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func (s *scanner) readIdentifier() string {
	start := s.pos
	for isLetter(s.input[s.pos]) || isDigit(s.input[s.pos]) {
		s.pos++
	}
	return string(s.input[start:s.pos])
}

func (s *scanner) readNumber() (Token, error) {
	line := s.line
	start := s.pos

	if s.input[s.pos] == '0' && (s.input[s.pos+1] == 'x' || s.input[s.pos+1] == 'X') {
		s.pos += 2
		if !isHexDigit(s.input[s.pos]) {
			return Token{}, errf(ErrLexical, line, "malformed hexadecimal literal")
		}
		var val int64
		for isHexDigit(s.input[s.pos]) {
			val = val*16 + int64(hexValue(s.input[s.pos]))
			s.pos++
		}
		return Token{Kind: INT, Lit: string(s.input[start:s.pos]), Int: val, Line: line}, nil
	}

	var intVal int64
	for isDigit(s.input[s.pos]) {
		intVal = intVal*10 + int64(s.input[s.pos]-'0')
		s.pos++
	}

	isFloat := false
	if s.input[s.pos] == '.' && isDigit(s.input[s.pos+1]) {
		isFloat = true
		s.pos++
		for isDigit(s.input[s.pos]) {
			s.pos++
		}
	}
	if s.input[s.pos] == 'e' || s.input[s.pos] == 'E' {
		mark := s.pos
		s.pos++
		if s.input[s.pos] == '+' || s.input[s.pos] == '-' {
			s.pos++
		}
		if !isDigit(s.input[s.pos]) {
			// "10elephants" is a malformed number, not IDENT after INT
			s.pos = mark
			return Token{}, errf(ErrLexical, line, "malformed exponent in number literal")
		}
		isFloat = true
		for isDigit(s.input[s.pos]) {
			s.pos++
		}
	}

	lit := string(s.input[start:s.pos])
	if isFloat {
		f, ok := parseFloatLiteral(lit)
		if !ok {
			return Token{}, errf(ErrLexical, line, "malformed float literal %q", lit)
		}
		return Token{Kind: FLOAT, Lit: lit, Float: f, Line: line}, nil
	}
	return Token{Kind: INT, Lit: lit, Int: intVal, Line: line}, nil
}

func parseFloatLiteral(lit string) (float64, bool) {
	f, err := strconv.ParseFloat(lit, 64)
	return f, err == nil
}

func hexValue(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}

func (s *scanner) readString() (string, error) {
	line := s.line
	s.pos++ // skip opening "
	var out []byte
	for {
		c := s.input[s.pos]
		switch c {
		case '"':
			s.pos++
			return string(out), nil
		case 0, '\n':
			return "", errf(ErrLexical, line, "unterminated string literal")
		case '\\':
			s.pos++
			switch s.input[s.pos] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				return "", errf(ErrLexical, line, "invalid escape sequence \\%s", string(s.input[s.pos]))
			}
			s.pos++
		default:
			out = append(out, c)
			s.pos++
		}
	}
}

// cursor walks a token slice produced by Tokenize. It is the boundary between
// the statement grammar, the expression parser and the lexer output.
type cursor struct {
	toks []Token
	i    int
}

func newCursor(toks []Token) *cursor {
	return &cursor{toks: toks}
}

func (c *cursor) at() Token {
	return c.toks[c.i]
}

func (c *cursor) kind() TokenKind {
	return c.toks[c.i].Kind
}

// peek returns the kind n tokens ahead without advancing.
func (c *cursor) peek(n int) TokenKind {
	j := c.i + n
	if j >= len(c.toks) {
		return EOF
	}
	return c.toks[j].Kind
}

func (c *cursor) advance() {
	if c.kind() != EOF {
		c.i++
	}
}

func (c *cursor) expect(kind TokenKind) error {
	if c.kind() != kind {
		return errf(ErrSyntax, c.at().Line, "expected %s, found %s", kind, c.kind())
	}
	c.advance()
	return nil
}

// skipNewlines advances past NEWLINE tokens.
func (c *cursor) skipNewlines() {
	for c.kind() == NEWLINE {
		c.advance()
	}
}
