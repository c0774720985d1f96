package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the compiler can report. The numeric
// values double as the process exit status.
type ErrorKind int

const (
	ErrNone         ErrorKind = 0
	ErrLexical      ErrorKind = 1
	ErrSyntax       ErrorKind = 2
	ErrUndefined    ErrorKind = 3
	ErrRedefinition ErrorKind = 4
	ErrArgCount     ErrorKind = 5
	ErrExprType     ErrorKind = 6
	ErrSemantic     ErrorKind = 10
	ErrRuntimeParam ErrorKind = 25 // emitted into generated code, never raised here
	ErrRuntimeExpr  ErrorKind = 26 // emitted into generated code, never raised here
	ErrInternal     ErrorKind = 99
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "ok"
	case ErrLexical:
		return "lexical error"
	case ErrSyntax:
		return "syntax error"
	case ErrUndefined:
		return "undefined symbol"
	case ErrRedefinition:
		return "redefinition"
	case ErrArgCount:
		return "wrong argument count"
	case ErrExprType:
		return "expression type error"
	case ErrSemantic:
		return "semantic error"
	case ErrRuntimeParam:
		return "runtime parameter type error"
	case ErrRuntimeExpr:
		return "runtime expression type error"
	case ErrInternal:
		return "internal error"
	}
	return "unknown error"
}

// CompileError is the single error type threaded through the pipeline.
// The first one produced aborts the whole run.
type CompileError struct {
	Kind ErrorKind
	Line int // 0 when no source position applies
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// ExitCode maps an error (or nil) to the process exit status.
func ExitCode(err error) int {
	return int(errKind(err))
}

// errKind extracts the kind carried by a pipeline error. Foreign errors
// count as internal failures.
func errKind(err error) ErrorKind {
	if err == nil {
		return ErrNone
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrInternal
}

func errf(kind ErrorKind, line int, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}
