package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"slate/mdtest"
)

// TestMarkdownCases runs every test case in testdata/*.md: ast fences
// compare s-expressions, instructions fences must appear as an ordered
// subsequence of the generated output, compile-error fences must match the
// reported error.
func TestMarkdownCases(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		data, err := os.ReadFile(file)
		be.Err(t, err, nil)

		cases, xerr := mdtest.ExtractTestCases(string(data))
		if xerr != nil {
			t.Fatalf("%s: %v", file, xerr)
		}
		base := strings.TrimSuffix(filepath.Base(file), ".md")
		for _, tc := range cases {
			t.Run(base+"/"+tc.Name, func(t *testing.T) {
				runMarkdownCase(t, tc)
			})
		}
	}
}

func runMarkdownCase(t *testing.T, tc mdtest.TestCase) {
	t.Helper()
	for _, a := range tc.Assertions {
		switch a.Type {
		case mdtest.AssertAST:
			if tc.InputType == mdtest.InputExpr {
				got, cerr := parseExprString(tc.Input)
				if cerr != nil {
					t.Fatalf("parse: %v", cerr)
				}
				be.Equal(t, got, a.Content)
			} else {
				toks, cerr := Tokenize([]byte(tc.Input))
				if cerr != nil {
					t.Fatalf("tokenize: %v", cerr)
				}
				prog, cerr := Parse(toks)
				if cerr != nil {
					t.Fatalf("parse: %v", cerr)
				}
				be.Equal(t, prog.ToSExpr(), a.Content)
			}

		case mdtest.AssertInstructions:
			code, cerr := Compile([]byte(caseSource(tc)))
			if cerr != nil {
				t.Fatalf("compile: %v", cerr)
			}
			if !containsLinesInOrder(code, a.Content) {
				t.Errorf("instructions not found in order:\n%s\n\nin output:\n%s", a.Content, code)
			}

		case mdtest.AssertCompileError:
			_, cerr := Compile([]byte(caseSource(tc)))
			if cerr == nil {
				t.Fatalf("expected compile error %q, got none", a.Content)
			}
			if !strings.Contains(cerr.Error(), a.Content) {
				t.Errorf("expected error containing %q, got %q", a.Content, cerr.Error())
			}
		}
	}
}

// caseSource turns a test input into a compilable program: expressions get
// wrapped into a minimal main returning them.
func caseSource(tc mdtest.TestCase) string {
	if tc.InputType == mdtest.InputProgram {
		return tc.Input
	}
	return "import \"std\" for Std\n\nclass Main {\n" +
		"static main() {\nreturn " + tc.Input + "\n}\n}\n"
}

// parseExprString runs just the expression parser and renders the result.
func parseExprString(input string) (string, error) {
	toks, err := Tokenize([]byte(input))
	if err != nil {
		return "", err
	}
	cur := newCursor(toks)
	cur.skipNewlines()
	e, err := ParseExpr(cur)
	if err != nil {
		return "", err
	}
	return e.ToSExpr(), nil
}

// containsLinesInOrder reports whether every line of expected occurs in
// output, in the same order (not necessarily adjacent).
func containsLinesInOrder(output, expected string) bool {
	outLines := strings.Split(output, "\n")
	i := 0
	for _, want := range strings.Split(expected, "\n") {
		want = strings.TrimSpace(want)
		if want == "" {
			continue
		}
		found := false
		for ; i < len(outLines); i++ {
			if strings.TrimSpace(outLines[i]) == want {
				i++
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
