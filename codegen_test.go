package main

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

// genProgram compiles src and returns the generated instruction text.
func genProgram(t *testing.T, src string) string {
	t.Helper()
	return Generate(analyzeSrc(t, src))
}

func TestGenerateDeterministic(t *testing.T) {
	src := mainProg("var i\ni = 0\nwhile (i < 3) {\nif (i == 1) {\nbreak\n}\ni = i + 1\n}\nreturn i")
	prog := analyzeSrc(t, src)
	be.Equal(t, Generate(prog), Generate(prog))
}

func TestGenerateHeader(t *testing.T) {
	code := genProgram(t, mainProg("return 0"))
	be.True(t, strings.HasPrefix(code, ".SlateCode\n"))
	for _, reg := range tempRegs {
		be.True(t, strings.Contains(code, "DEFVAR GF@"+reg+"\n"))
	}
}

func TestGenerateEntrySequence(t *testing.T) {
	code := genProgram(t, mainProg("return 0"))
	want := `CREATEFRAME
CALL $fn_Main_main_0
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFEQ $main_exit GF@%ta string@int
EXIT int@0
LABEL $main_exit
EXIT GF@%a`
	be.True(t, containsLinesInOrder(code, want))
}

func TestTrapsAlwaysEmitted(t *testing.T) {
	code := genProgram(t, mainProg("return 0"))
	be.True(t, strings.Contains(code, "LABEL $rt_expr_err\nEXIT int@26\n"))
	be.True(t, strings.Contains(code, "LABEL $rt_param_err\nEXIT int@25\n"))
}

func TestGlobalsSection(t *testing.T) {
	code := genProgram(t, mainProg("__g = 7\nreturn __g"))
	be.True(t, strings.Contains(code, "DEFVAR GF@__g\nMOVE GF@__g nil@nil\n"))
	be.True(t, strings.Contains(code, "POPS GF@__g\n"))
	be.True(t, strings.Contains(code, "PUSHS GF@__g\n"))
}

func TestStaticIntArithmetic(t *testing.T) {
	code := genProgram(t, mainProg("return 1 + 2"))
	be.True(t, containsLinesInOrder(code, "PUSHS int@1\nPUSHS int@2\nADDS"))
	// No runtime dispatch is needed for literal operands.
	be.True(t, !strings.Contains(code, "LABEL $dyn_add"))
	be.True(t, !strings.Contains(code, "LABEL $num_promote"))
}

func TestStaticPromotion(t *testing.T) {
	code := genProgram(t, mainProg("return 1 + 2.5"))
	be.True(t, containsLinesInOrder(code, "PUSHS int@1\nINT2FLOATS\nPUSHS float@0x1.4p+01\nADDS"))
}

func TestDivisionSelectsInstruction(t *testing.T) {
	code := genProgram(t, mainProg("return 7 / 2"))
	be.True(t, containsLinesInOrder(code, "PUSHS int@7\nPUSHS int@2\nIDIVS"))

	code = genProgram(t, mainProg("return 7.0 / 2"))
	be.True(t, strings.Contains(code, "DIVS\n"))
	be.True(t, !strings.Contains(code, "IDIVS\n"))
}

func TestStringConcat(t *testing.T) {
	code := genProgram(t, mainProg(`return "a" + "b"`))
	want := `PUSHS string@a
PUSHS string@b
POPS GF@%b
POPS GF@%a
CONCAT GF@%res GF@%a GF@%b
PUSHS GF@%res`
	be.True(t, containsLinesInOrder(code, want))
}

func TestStringRepeat(t *testing.T) {
	code := genProgram(t, mainProg(`return "ab" * 3`))
	be.True(t, containsLinesInOrder(code, "PUSHS string@ab\nPUSHS int@3\nPOPS GF@%b\nPOPS GF@%a\nCALL $str_repeat"))
	be.True(t, strings.Contains(code, "LABEL $str_repeat\n"))
}

func TestDynamicDispatchForUnknownOperands(t *testing.T) {
	src := "class Main {\nstatic add(a, b) {\nreturn a + b\n}\nstatic main() {\nreturn add(1, 2)\n}\n}\n"
	code := genProgram(t, src)
	be.True(t, strings.Contains(code, "CALL $dyn_add\n"))
	be.True(t, strings.Contains(code, "LABEL $dyn_add\n"))
	// dyn_add dispatches through the shared numeric promotion helper.
	be.True(t, strings.Contains(code, "LABEL $num_promote\n"))
	be.True(t, !strings.Contains(code, "LABEL $dyn_sub\n"))
}

func TestStaticEquality(t *testing.T) {
	code := genProgram(t, mainProg("return 1 == 2"))
	be.True(t, containsLinesInOrder(code, "PUSHS int@1\nPUSHS int@2\nEQS"))

	code = genProgram(t, mainProg("return 1 != 2"))
	be.True(t, containsLinesInOrder(code, "EQS\nNOTS"))
}

func TestRelationalLowering(t *testing.T) {
	code := genProgram(t, mainProg("return 1 <= 2"))
	be.True(t, containsLinesInOrder(code, "GTS\nNOTS"))

	code = genProgram(t, mainProg("return 1 >= 2"))
	be.True(t, containsLinesInOrder(code, "LTS\nNOTS"))
}

func TestIsTypeTest(t *testing.T) {
	code := genProgram(t, mainProg("return 1 is Num"))
	want := `POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFEQ $L1 GF@%ta string@int
JUMPIFEQ $L1 GF@%ta string@float
PUSHS bool@false
JUMP $L2
LABEL $L1
PUSHS bool@true
LABEL $L2`
	be.True(t, containsLinesInOrder(code, want))
}

func TestCallConvention(t *testing.T) {
	src := "class Main {\nstatic add(a, b) {\nreturn a + b\n}\nstatic main() {\nreturn add(1, 2)\n}\n}\n"
	code := genProgram(t, src)
	// Arguments pushed in order, popped into parameters in reverse.
	want := `PUSHS int@1
PUSHS int@2
CREATEFRAME
DEFVAR TF@b_1_1
POPS TF@b_1_1
DEFVAR TF@a_1_1
POPS TF@a_1_1
CALL $fn_Main_add_2`
	be.True(t, containsLinesInOrder(code, want))
}

func TestImplicitNilReturn(t *testing.T) {
	code := genProgram(t, mainProg("Std.write(1)"))
	want := `LABEL $fn_Main_main_0
PUSHFRAME
PUSHS int@1
CALL $bi_write
POPS GF@%void
PUSHS nil@nil
POPFRAME
RETURN`
	be.True(t, containsLinesInOrder(code, want))
	be.True(t, strings.Contains(code, "LABEL $bi_write\n"))
}

func TestConditionRuntimeBoolCheck(t *testing.T) {
	// A statically Bool condition needs no TYPE check.
	code := genProgram(t, mainProg("if (1 < 2) {\nreturn 1\n}\nreturn 0"))
	be.True(t, !strings.Contains(code, "JUMPIFNEQ $rt_expr_err"))

	// An Unknown condition gets one.
	src := "class Main {\nstatic f(a) {\nif (a) {\nreturn 1\n}\nreturn 0\n}\nstatic main() {\nreturn f(true)\n}\n}\n"
	code = genProgram(t, src)
	be.True(t, containsLinesInOrder(code, "TYPE GF@%ta GF@%a\nJUMPIFNEQ $rt_expr_err GF@%ta string@bool"))
}

func TestCollectLocals(t *testing.T) {
	prog := analyzeSrc(t, mainProg("var x\n{\nvar y\n}\nwhile (x == null) {\nvar z\nbreak\n}\nreturn 0"))
	main := prog.Classes[0].Body.Stmts[0]
	be.Equal(t, collectLocals(main.Body, nil), []string{"x_1_1_1", "y_1_1_1_1", "z_1_1_1_2"})
}

func TestLocalNamesUniquePerFrame(t *testing.T) {
	// Twelve sibling blocks plus a doubly nested one: the paths 1.1.1.12
	// and 1.1.1.1.2 must yield different names, so every local named x
	// gets its own DEFVAR.
	var src strings.Builder
	src.WriteString("{\n{\nvar w\n}\n{\nvar x\n}\n}\n")
	for i := 0; i < 11; i++ {
		src.WriteString("{\nvar x\n}\n")
	}
	src.WriteString("return 0")
	code := genProgram(t, mainProg(src.String()))

	be.True(t, strings.Contains(code, "DEFVAR LF@x_1_1_1_1_2\n"))
	be.True(t, strings.Contains(code, "DEFVAR LF@x_1_1_1_12\n"))

	seen := map[string]bool{}
	for _, line := range strings.Split(code, "\n") {
		if !strings.HasPrefix(line, "DEFVAR LF@") {
			continue
		}
		if seen[line] {
			t.Fatalf("duplicate %q", line)
		}
		seen[line] = true
	}
}

func TestEscapeString(t *testing.T) {
	be.Equal(t, escapeString("abc"), "abc")
	be.Equal(t, escapeString("a b"), `a\032b`)
	be.Equal(t, escapeString("#"), `\035`)
	be.Equal(t, escapeString(`\`), `\092`)
	be.Equal(t, escapeString("a\nb"), `a\010b`)
}
