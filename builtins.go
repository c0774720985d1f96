package main

// Builtin function registry. Builtins are called through the standard
// library alias (`Std.write(x)`) and are installed into the signature table
// before header collection, gated by feature flags.

// ParamKind is the coarse compile-time classification of one builtin
// parameter, used for the literal-only argument pre-checks in Pass 1.
type ParamKind int

const (
	ParamAny ParamKind = iota
	ParamString
	ParamNumber
)

// BuiltinConfig switches optional builtins on.
type BuiltinConfig struct {
	ReadBool bool // enables Std.read_bool
	IsInt    bool // enables Std.is_int
}

// Builtin is one row of the fixed builtin table.
type Builtin struct {
	Name   string
	Arity  int
	Params []ParamKind
	Result ValueType

	needsReadBool bool
	needsIsInt    bool
}

var builtinRows = []Builtin{
	// I/O
	{Name: "read_str", Arity: 0, Result: TypeString},
	{Name: "read_num", Arity: 0, Result: TypeDouble},
	{Name: "write", Arity: 1, Params: []ParamKind{ParamAny}, Result: TypeVoid},

	// Conversions / numeric helpers
	{Name: "floor", Arity: 1, Params: []ParamKind{ParamNumber}, Result: TypeInt},
	{Name: "str", Arity: 1, Params: []ParamKind{ParamAny}, Result: TypeString},

	// Strings
	{Name: "length", Arity: 1, Params: []ParamKind{ParamString}, Result: TypeInt},
	{Name: "substring", Arity: 3, Params: []ParamKind{ParamString, ParamNumber, ParamNumber}, Result: TypeString},
	{Name: "strcmp", Arity: 2, Params: []ParamKind{ParamString, ParamString}, Result: TypeInt},
	{Name: "ord", Arity: 2, Params: []ParamKind{ParamString, ParamNumber}, Result: TypeInt},
	{Name: "chr", Arity: 1, Params: []ParamKind{ParamNumber}, Result: TypeString},

	// Extensions
	{Name: "read_bool", Arity: 0, Result: TypeBool, needsReadBool: true},
	{Name: "is_int", Arity: 1, Params: []ParamKind{ParamAny}, Result: TypeBool, needsIsInt: true},
}

// installBuiltins returns the enabled builtin table keyed by name.
func installBuiltins(cfg BuiltinConfig) map[string]*Builtin {
	table := make(map[string]*Builtin, len(builtinRows))
	for i := range builtinRows {
		row := &builtinRows[i]
		if row.needsReadBool && !cfg.ReadBool {
			continue
		}
		if row.needsIsInt && !cfg.IsInt {
			continue
		}
		table[row.Name] = row
	}
	return table
}
