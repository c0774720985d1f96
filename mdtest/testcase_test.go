package mdtest

import (
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractSingleCase(t *testing.T) {
	doc := "# Test: addition\n\n" +
		fence + "slate-expr\n1 + 2\n" + fence + "\n\n" +
		fence + "ast\n(binary \"+\" (int 1) (int 2))\n" + fence + "\n"

	cases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Name, "addition")
	be.Equal(t, cases[0].Input, "1 + 2")
	be.Equal(t, cases[0].InputType, InputExpr)
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Type, AssertAST)
	be.Equal(t, cases[0].Assertions[0].Content, `(binary "+" (int 1) (int 2))`)
}

func TestExtractMultipleCases(t *testing.T) {
	doc := "# Test: first\n\n" +
		fence + "slate-expr\n1\n" + fence + "\n\n" +
		fence + "ast\n(int 1)\n" + fence + "\n\n" +
		"Some prose between cases.\n\n" +
		"## Test: second\n\n" +
		fence + "slate-program\nclass Main {\n}\n" + fence + "\n\n" +
		fence + "compile-error\nundefined symbol\n" + fence + "\n"

	cases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)
	be.Equal(t, cases[0].Name, "first")
	be.Equal(t, cases[1].Name, "second")
	be.Equal(t, cases[1].InputType, InputProgram)
	be.Equal(t, cases[1].Assertions[0].Type, AssertCompileError)
}

func TestMultipleAssertions(t *testing.T) {
	doc := "# Test: both\n\n" +
		fence + "slate-expr\n1\n" + fence + "\n\n" +
		fence + "ast\n(int 1)\n" + fence + "\n\n" +
		fence + "instructions\nPUSHS int@1\n" + fence + "\n"

	cases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases[0].Assertions), 2)
	be.Equal(t, cases[0].Assertions[1].Type, AssertInstructions)
}

func TestPlainFencesIgnored(t *testing.T) {
	doc := "Intro with a plain fence:\n\n" +
		fence + "\nnot a test\n" + fence + "\n\n" +
		"# Test: simple\n\n" +
		fence + "slate-expr\n2\n" + fence + "\n\n" +
		fence + "ast\n(int 2)\n" + fence + "\n"

	cases, err := ExtractTestCases(doc)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
}

func TestFenceOutsideCaseFails(t *testing.T) {
	doc := fence + "slate-expr\n1\n" + fence + "\n"
	_, err := ExtractTestCases(doc)
	be.Err(t, err)
}

func TestUnknownLanguageFails(t *testing.T) {
	doc := "# Test: bad\n\n" +
		fence + "slate-expr\n1\n" + fence + "\n\n" +
		fence + "ruby\nnope\n" + fence + "\n"
	_, err := ExtractTestCases(doc)
	be.Err(t, err)
}

func TestMissingAssertionFails(t *testing.T) {
	doc := "# Test: empty\n\n" +
		fence + "slate-expr\n1\n" + fence + "\n"
	_, err := ExtractTestCases(doc)
	be.Err(t, err)
}

func TestDuplicateInputFails(t *testing.T) {
	doc := "# Test: dup\n\n" +
		fence + "slate-expr\n1\n" + fence + "\n\n" +
		fence + "slate-expr\n2\n" + fence + "\n\n" +
		fence + "ast\n(int 1)\n" + fence + "\n"
	_, err := ExtractTestCases(doc)
	be.Err(t, err)
}
