package main

// Runtime helper routines. Each helper is a fixed block of instructions
// emitted at most once per program, after the error traps. Helpers take
// their operands from the data stack (or the scratch registers where noted)
// and leave exactly one result on the stack. Type failures jump to the
// $rt_expr_err / $rt_param_err traps and never return.

type runtimeHelper struct {
	name string
	text string
}

// helperDeps lists which helpers a helper itself reaches.
var helperDeps = map[string][]string{
	"dyn_add": {"num_promote"},
	"dyn_sub": {"num_promote"},
	"dyn_mul": {"num_promote", "str_repeat"},
	"dyn_div": {"num_promote"},
	"dyn_lt":  {"num_promote"},
	"dyn_gt":  {"num_promote"},
	"dyn_le":  {"num_promote"},
	"dyn_ge":  {"num_promote"},
}

// runtimeHelpers is the full library in emission order.
var runtimeHelpers = []runtimeHelper{
	// num_promote: %a/%b hold the operands, %ta/%tb their TYPE strings.
	// Widens int to float when exactly one side is float; anything
	// non-numeric is an expression type error.
	{"num_promote", `LABEL $num_promote
JUMPIFEQ $np_a_int GF@%ta string@int
JUMPIFNEQ $rt_expr_err GF@%ta string@float
JUMPIFEQ $np_b_widen GF@%tb string@int
JUMPIFNEQ $rt_expr_err GF@%tb string@float
RETURN
LABEL $np_b_widen
INT2FLOAT GF@%b GF@%b
RETURN
LABEL $np_a_int
JUMPIFEQ $np_done GF@%tb string@int
JUMPIFNEQ $rt_expr_err GF@%tb string@float
INT2FLOAT GF@%a GF@%a
LABEL $np_done
RETURN`},

	// str_repeat: %a string, %b int count. A zero or negative count
	// yields the empty string.
	{"str_repeat", `LABEL $str_repeat
MOVE GF@%res string@
MOVE GF@%i GF@%b
LABEL $str_repeat_loop
GT GF@%c GF@%i int@0
JUMPIFEQ $str_repeat_done GF@%c bool@false
CONCAT GF@%res GF@%res GF@%a
SUB GF@%i GF@%i int@1
JUMP $str_repeat_loop
LABEL $str_repeat_done
PUSHS GF@%res
RETURN`},

	{"dyn_add", `LABEL $dyn_add
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
JUMPIFEQ $dyn_add_str GF@%ta string@string
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
ADDS
RETURN
LABEL $dyn_add_str
JUMPIFNEQ $rt_expr_err GF@%tb string@string
CONCAT GF@%res GF@%a GF@%b
PUSHS GF@%res
RETURN`},

	{"dyn_sub", `LABEL $dyn_sub
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
SUBS
RETURN`},

	{"dyn_mul", `LABEL $dyn_mul
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
JUMPIFEQ $dyn_mul_str GF@%ta string@string
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
MULS
RETURN
LABEL $dyn_mul_str
JUMPIFNEQ $rt_expr_err GF@%tb string@int
CALL $str_repeat
RETURN`},

	{"dyn_div", `LABEL $dyn_div
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
TYPE GF@%ta GF@%a
JUMPIFEQ $dyn_div_int GF@%ta string@int
DIVS
RETURN
LABEL $dyn_div_int
IDIVS
RETURN`},

	{"dyn_lt", `LABEL $dyn_lt
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
LTS
RETURN`},

	{"dyn_gt", `LABEL $dyn_gt
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
GTS
RETURN`},

	{"dyn_le", `LABEL $dyn_le
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
GTS
NOTS
RETURN`},

	{"dyn_ge", `LABEL $dyn_ge
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
CALL $num_promote
PUSHS GF@%a
PUSHS GF@%b
LTS
NOTS
RETURN`},

	// dyn_eq: same types compare directly, an int/float mix widens first,
	// any other mix is simply not equal.
	{"dyn_eq", `LABEL $dyn_eq
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
TYPE GF@%tb GF@%b
JUMPIFEQ $dyn_eq_cmp GF@%ta GF@%tb
JUMPIFNEQ $dyn_eq_fi GF@%ta string@int
JUMPIFNEQ $dyn_eq_false GF@%tb string@float
INT2FLOAT GF@%a GF@%a
JUMP $dyn_eq_cmp
LABEL $dyn_eq_fi
JUMPIFNEQ $dyn_eq_false GF@%ta string@float
JUMPIFNEQ $dyn_eq_false GF@%tb string@int
INT2FLOAT GF@%b GF@%b
LABEL $dyn_eq_cmp
PUSHS GF@%a
PUSHS GF@%b
EQS
RETURN
LABEL $dyn_eq_false
PUSHS bool@false
RETURN`},

	{"dyn_not", `LABEL $dyn_not
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFNEQ $rt_expr_err GF@%ta string@bool
PUSHS GF@%a
NOTS
RETURN`},

	{"dyn_and", `LABEL $dyn_and
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFNEQ $rt_expr_err GF@%ta string@bool
TYPE GF@%tb GF@%b
JUMPIFNEQ $rt_expr_err GF@%tb string@bool
PUSHS GF@%a
PUSHS GF@%b
ANDS
RETURN`},

	{"dyn_or", `LABEL $dyn_or
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFNEQ $rt_expr_err GF@%ta string@bool
TYPE GF@%tb GF@%b
JUMPIFNEQ $rt_expr_err GF@%tb string@bool
PUSHS GF@%a
PUSHS GF@%b
ORS
RETURN`},

	// ---- builtins ----

	{"bi_write", `LABEL $bi_write
POPS GF@%a
WRITE GF@%a
PUSHS nil@nil
RETURN`},

	{"bi_read_str", `LABEL $bi_read_str
READ GF@%res string
PUSHS GF@%res
RETURN`},

	{"bi_read_num", `LABEL $bi_read_num
READ GF@%res float
PUSHS GF@%res
RETURN`},

	{"bi_read_bool", `LABEL $bi_read_bool
READ GF@%res bool
PUSHS GF@%res
RETURN`},

	{"bi_floor", `LABEL $bi_floor
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFEQ $bi_floor_int GF@%ta string@int
JUMPIFNEQ $rt_param_err GF@%ta string@float
FLOAT2INT GF@%a GF@%a
LABEL $bi_floor_int
PUSHS GF@%a
RETURN`},

	{"bi_str", `LABEL $bi_str
POPS GF@%a
TOSTRING GF@%res GF@%a
PUSHS GF@%res
RETURN`},

	{"bi_length", `LABEL $bi_length
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFNEQ $rt_param_err GF@%ta string@string
STRLEN GF@%res GF@%a
PUSHS GF@%res
RETURN`},

	// bi_substring: out-of-range or inverted bounds yield nil.
	{"bi_substring", `LABEL $bi_substring
POPS GF@%j
POPS GF@%i
POPS GF@%s
TYPE GF@%ta GF@%s
JUMPIFNEQ $rt_param_err GF@%ta string@string
TYPE GF@%ta GF@%i
JUMPIFEQ $bi_substring_i_ok GF@%ta string@int
JUMPIFNEQ $rt_param_err GF@%ta string@float
FLOAT2INT GF@%i GF@%i
LABEL $bi_substring_i_ok
TYPE GF@%ta GF@%j
JUMPIFEQ $bi_substring_j_ok GF@%ta string@int
JUMPIFNEQ $rt_param_err GF@%ta string@float
FLOAT2INT GF@%j GF@%j
LABEL $bi_substring_j_ok
STRLEN GF@%n GF@%s
LT GF@%c GF@%i int@0
JUMPIFEQ $bi_substring_nil GF@%c bool@true
LT GF@%c GF@%j int@0
JUMPIFEQ $bi_substring_nil GF@%c bool@true
GT GF@%c GF@%i GF@%j
JUMPIFEQ $bi_substring_nil GF@%c bool@true
LT GF@%c GF@%i GF@%n
JUMPIFEQ $bi_substring_nil GF@%c bool@false
GT GF@%c GF@%j GF@%n
JUMPIFEQ $bi_substring_nil GF@%c bool@true
MOVE GF@%res string@
LABEL $bi_substring_loop
JUMPIFEQ $bi_substring_done GF@%i GF@%j
GETCHAR GF@%c GF@%s GF@%i
CONCAT GF@%res GF@%res GF@%c
ADD GF@%i GF@%i int@1
JUMP $bi_substring_loop
LABEL $bi_substring_done
PUSHS GF@%res
RETURN
LABEL $bi_substring_nil
PUSHS nil@nil
RETURN`},

	// bi_strcmp: lexicographic byte comparison, result -1/0/1.
	{"bi_strcmp", `LABEL $bi_strcmp
POPS GF@%b
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFNEQ $rt_param_err GF@%ta string@string
TYPE GF@%tb GF@%b
JUMPIFNEQ $rt_param_err GF@%tb string@string
STRLEN GF@%n GF@%a
STRLEN GF@%j GF@%b
MOVE GF@%i int@0
LABEL $bi_strcmp_loop
JUMPIFNEQ $bi_strcmp_more GF@%i GF@%n
JUMPIFNEQ $bi_strcmp_neg GF@%i GF@%j
PUSHS int@0
RETURN
LABEL $bi_strcmp_more
JUMPIFEQ $bi_strcmp_pos GF@%i GF@%j
STRI2INT GF@%c GF@%a GF@%i
STRI2INT GF@%res GF@%b GF@%i
LT GF@%ta GF@%c GF@%res
JUMPIFEQ $bi_strcmp_neg GF@%ta bool@true
GT GF@%ta GF@%c GF@%res
JUMPIFEQ $bi_strcmp_pos GF@%ta bool@true
ADD GF@%i GF@%i int@1
JUMP $bi_strcmp_loop
LABEL $bi_strcmp_neg
PUSHS int@-1
RETURN
LABEL $bi_strcmp_pos
PUSHS int@1
RETURN`},

	// bi_ord: character code at an index, out of range yields 0.
	{"bi_ord", `LABEL $bi_ord
POPS GF@%i
POPS GF@%s
TYPE GF@%ta GF@%s
JUMPIFNEQ $rt_param_err GF@%ta string@string
TYPE GF@%ta GF@%i
JUMPIFEQ $bi_ord_i_ok GF@%ta string@int
JUMPIFNEQ $rt_param_err GF@%ta string@float
FLOAT2INT GF@%i GF@%i
LABEL $bi_ord_i_ok
STRLEN GF@%n GF@%s
LT GF@%c GF@%i int@0
JUMPIFEQ $bi_ord_zero GF@%c bool@true
LT GF@%c GF@%i GF@%n
JUMPIFEQ $bi_ord_zero GF@%c bool@false
STRI2INT GF@%res GF@%s GF@%i
PUSHS GF@%res
RETURN
LABEL $bi_ord_zero
PUSHS int@0
RETURN`},

	{"bi_chr", `LABEL $bi_chr
POPS GF@%i
TYPE GF@%ta GF@%i
JUMPIFEQ $bi_chr_ok GF@%ta string@int
JUMPIFNEQ $rt_param_err GF@%ta string@float
FLOAT2INT GF@%i GF@%i
LABEL $bi_chr_ok
INT2CHAR GF@%res GF@%i
PUSHS GF@%res
RETURN`},

	{"bi_is_int", `LABEL $bi_is_int
POPS GF@%a
TYPE GF@%ta GF@%a
JUMPIFEQ $bi_is_int_t GF@%ta string@int
PUSHS bool@false
RETURN
LABEL $bi_is_int_t
PUSHS bool@true
RETURN`},
}
