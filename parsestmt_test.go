package main

import (
	"testing"

	"github.com/nalgeon/be"
)

// parseProgram parses a whole source text and renders the tree.
func parseProgram(t *testing.T, src string) string {
	t.Helper()
	toks, err := Tokenize([]byte(src))
	be.Err(t, err, nil)
	prog, err := Parse(toks)
	be.Err(t, err, nil)
	return prog.ToSExpr()
}

func parseError(t *testing.T, src string) error {
	t.Helper()
	toks, err := Tokenize([]byte(src))
	be.Err(t, err, nil)
	_, err = Parse(toks)
	be.Err(t, err)
	return err
}

func TestParseEmptyClass(t *testing.T) {
	got := parseProgram(t, "class Main {\n}\n")
	be.Equal(t, got, `(program (class "Main" (block)))`)
}

func TestParseImportHeader(t *testing.T) {
	got := parseProgram(t, "import \"std\" for Std\n\nclass Main {\n}\n")
	be.Equal(t, got, `(program (import "std" "Std") (class "Main" (block)))`)
}

func TestParseImportValidation(t *testing.T) {
	tests := []string{
		"import \"other\" for Std\nclass Main {\n}\n",
		"import \"std\" for Foo\nclass Main {\n}\n",
		"import \"std\"\nclass Main {\n}\n",
	}
	for _, src := range tests {
		err := parseError(t, src)
		be.Equal(t, errKind(err), ErrSyntax)
	}
}

func TestParseFunctionMember(t *testing.T) {
	src := "class Main {\nstatic add(a, b) {\nreturn a + b\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "add" ("a" "b") (block (return (binary "+" (ident "a") (ident "b"))))))))`)
}

func TestParseGetterAndSetter(t *testing.T) {
	src := "class Main {\nstatic value {\nreturn 1\n}\nstatic value = (v) {\n__v = v\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (getter "value" (block (return (int 1)))) (setter "value" "v" (block (assign "__v" (ident "v")))))))`)
}

func TestParseVarInitializerDesugars(t *testing.T) {
	src := "class Main {\nstatic main() {\nvar x = 1\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "main" () (block (var "x") (assign "x" (int 1)))))))`)
}

func TestParseIfElseWhile(t *testing.T) {
	src := "class Main {\nstatic main() {\nwhile (a < 10) {\nif (a == 5) {\nbreak\n} else {\ncontinue\n}\n}\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "main" () (block (while (binary "<" (ident "a") (int 10)) (block (if (binary "==" (ident "a") (int 5)) (block (break)) (block (continue))))))))))`)
}

func TestParseCallStatements(t *testing.T) {
	src := "class Main {\nstatic main() {\nf(1)\nStd.write(2)\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "main" () (block (call "f" (int 1)) (builtin "write" (int 2)))))))`)
}

func TestParseNestedBlock(t *testing.T) {
	src := "class Main {\nstatic main() {\n{\nvar x\n}\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "main" () (block (block (var "x")))))))`)
}

func TestParseReturnForms(t *testing.T) {
	src := "class Main {\nstatic main() {\nreturn\n}\nstatic f() {\nreturn 1\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "main" () (block (return))) (func "f" () (block (return (int 1)))))))`)
}

func TestParseNewlineRequiredAfterStatement(t *testing.T) {
	err := parseError(t, "class Main {\nstatic main() {\nvar x var y\n}\n}\n")
	be.Equal(t, errKind(err), ErrSyntax)
}

func TestParseBraceRequiresNewline(t *testing.T) {
	err := parseError(t, "class Main { static main() {\n}\n}\n")
	be.Equal(t, errKind(err), ErrSyntax)
}

func TestParseMissingClosingBrace(t *testing.T) {
	err := parseError(t, "class Main {\nstatic main() {\n")
	be.Equal(t, errKind(err), ErrSyntax)
}

func TestParseGlobalAssignment(t *testing.T) {
	src := "class Main {\nstatic main() {\n__g = 1\n}\n}\n"
	got := parseProgram(t, src)
	be.Equal(t, got, `(program (class "Main" (block (func "main" () (block (assign "__g" (int 1)))))))`)
}

func TestParseSetterParamRequired(t *testing.T) {
	err := parseError(t, "class Main {\nstatic value = () {\n}\n}\n")
	be.Equal(t, errKind(err), ErrSyntax)
}
