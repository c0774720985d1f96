package main

import (
	"testing"

	"github.com/nalgeon/be"
)

// lexOne tokenizes input and returns the first token.
func lexOne(t *testing.T, input string) Token {
	t.Helper()
	toks, err := Tokenize([]byte(input))
	be.Err(t, err, nil)
	be.True(t, len(toks) > 0)
	return toks[0]
}

func TestIntLiteral(t *testing.T) {
	tok := lexOne(t, "12345")
	be.Equal(t, tok.Kind, INT)
	be.Equal(t, tok.Lit, "12345")
	be.Equal(t, tok.Int, int64(12345))
}

func TestHexLiteral(t *testing.T) {
	tok := lexOne(t, "0xff")
	be.Equal(t, tok.Kind, INT)
	be.Equal(t, tok.Int, int64(255))
}

func TestFloatLiterals(t *testing.T) {
	tests := []struct {
		input string
		value float64
	}{
		{"1.5", 1.5},
		{"2e3", 2000},
		{"1.5e-2", 0.015},
	}
	for _, test := range tests {
		tok := lexOne(t, test.input)
		be.Equal(t, tok.Kind, FLOAT)
		be.Equal(t, tok.Float, test.value)
	}
}

func TestMalformedExponent(t *testing.T) {
	_, err := Tokenize([]byte("10elephants"))
	be.Err(t, err)
	be.Equal(t, errKind(err), ErrLexical)
}

func TestIdentifierAndKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"foobar", IDENT},
		{"_x1", IDENT},
		{"__counter", GLOBAL},
		{"class", CLASS},
		{"while", WHILE},
		{"is", IS},
		{"true", TRUE},
		{"null", NULL},
	}
	for _, test := range tests {
		tok := lexOne(t, test.input)
		be.Equal(t, tok.Kind, test.kind)
	}
}

func TestStringLiteral(t *testing.T) {
	tok := lexOne(t, `"hello"`)
	be.Equal(t, tok.Kind, STRING)
	be.Equal(t, tok.Lit, "hello")
}

func TestStringEscapes(t *testing.T) {
	tok := lexOne(t, `"a\nb\t\"\\"`)
	be.Equal(t, tok.Lit, "a\nb\t\"\\")
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize([]byte("\"oops\n"))
	be.Err(t, err)
	be.Equal(t, errKind(err), ErrLexical)
}

func TestOperators(t *testing.T) {
	toks, err := Tokenize([]byte("a <= b != c && d"))
	be.Err(t, err, nil)
	kinds := []TokenKind{IDENT, LE, IDENT, NEQ, IDENT, AND, IDENT, EOF}
	be.Equal(t, len(toks), len(kinds))
	for i, k := range kinds {
		be.Equal(t, toks[i].Kind, k)
	}
}

func TestNewlineRunsCollapse(t *testing.T) {
	toks, err := Tokenize([]byte("a\n\n\nb"))
	be.Err(t, err, nil)
	kinds := []TokenKind{IDENT, NEWLINE, IDENT, EOF}
	be.Equal(t, len(toks), len(kinds))
	for i, k := range kinds {
		be.Equal(t, toks[i].Kind, k)
	}
}

func TestComments(t *testing.T) {
	toks, err := Tokenize([]byte("a // rest of line\nb /* inline\nstill */ c"))
	be.Err(t, err, nil)
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	be.Equal(t, kinds, []TokenKind{IDENT, NEWLINE, IDENT, IDENT, EOF})
}

func TestUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize([]byte("a /* never closed"))
	be.Err(t, err)
	be.Equal(t, errKind(err), ErrLexical)
}

func TestLineNumbers(t *testing.T) {
	toks, err := Tokenize([]byte("a\nb\nc"))
	be.Err(t, err, nil)
	be.Equal(t, toks[0].Line, 1)
	be.Equal(t, toks[2].Line, 2)
	be.Equal(t, toks[4].Line, 3)
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize([]byte("a @ b"))
	be.Err(t, err)
	be.Equal(t, errKind(err), ErrLexical)
}
