package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestScopeStackDeclareAndLookup(t *testing.T) {
	s := NewScopeStack()
	s.Push()

	sym := &Symbol{Name: "x", Kind: SymVariable}
	be.True(t, s.Declare("x", sym))
	be.Equal(t, s.Lookup("x"), sym)
	be.Equal(t, s.LookupCurrent("x"), sym)
}

func TestScopeStackSameFrameCollision(t *testing.T) {
	s := NewScopeStack()
	s.Push()
	be.True(t, s.Declare("x", &Symbol{Name: "x"}))
	be.True(t, !s.Declare("x", &Symbol{Name: "x"}))
}

func TestScopeStackShadowing(t *testing.T) {
	s := NewScopeStack()
	s.Push()
	outer := &Symbol{Name: "x", CodegenName: "x_1"}
	be.True(t, s.Declare("x", outer))

	s.Push()
	inner := &Symbol{Name: "x", CodegenName: "x_1_1"}
	be.True(t, s.Declare("x", inner))
	be.Equal(t, s.Lookup("x"), inner)
	be.True(t, s.LookupCurrent("x") == inner)

	be.True(t, s.Pop())
	be.Equal(t, s.Lookup("x"), outer)
}

func TestScopeStackLookupWalksOutward(t *testing.T) {
	s := NewScopeStack()
	s.Push()
	sym := &Symbol{Name: "y"}
	s.Declare("y", sym)
	s.Push()
	s.Push()
	be.Equal(t, s.Lookup("y"), sym)
	be.True(t, s.LookupCurrent("y") == nil)
}

func TestScopeStackPopUnderflow(t *testing.T) {
	s := NewScopeStack()
	be.True(t, !s.Pop())
	be.True(t, !s.Declare("x", &Symbol{Name: "x"}))
}

func TestScopePathStackNumbering(t *testing.T) {
	var ids scopePathStack
	be.Equal(t, ids.Current(), "global")

	be.Equal(t, ids.Enter(), "1")
	be.Equal(t, ids.Enter(), "1.1")
	be.Equal(t, ids.Enter(), "1.1.1")
	ids.Leave()
	be.Equal(t, ids.Enter(), "1.1.2")
	ids.Leave()
	ids.Leave()
	be.Equal(t, ids.Enter(), "1.2")
	ids.Leave()
	ids.Leave()

	// Root scopes keep counting so flattened names stay unique.
	be.Equal(t, ids.Enter(), "2")
	be.Equal(t, ids.Enter(), "2.1")
}

func TestScopePathFlatSuffix(t *testing.T) {
	var ids scopePathStack
	ids.Enter()
	ids.Enter()
	ids.Enter()
	ids.Leave()
	ids.Enter()
	be.Equal(t, ids.Current(), "1.1.2")
	be.Equal(t, ids.FlatSuffix(), "1_1_2")
}

func TestScopePathFlatSuffixKeepsDistinctPathsDistinct(t *testing.T) {
	// "1.1.1.12" and "1.1.1.1.2" must not flatten to the same suffix.
	var ids scopePathStack
	ids.Enter()
	ids.Enter()
	ids.Enter()

	var deepSuffix, wideSuffix string
	for i := 0; i < 12; i++ {
		ids.Enter()
		if i == 0 {
			ids.Enter()
			ids.Leave()
			be.Equal(t, ids.Enter(), "1.1.1.1.2")
			deepSuffix = ids.FlatSuffix()
			ids.Leave()
		}
		if i == 11 {
			be.Equal(t, ids.Current(), "1.1.1.12")
			wideSuffix = ids.FlatSuffix()
		}
		ids.Leave()
	}

	be.Equal(t, deepSuffix, "1_1_1_1_2")
	be.Equal(t, wideSuffix, "1_1_1_12")
	be.True(t, deepSuffix != wideSuffix)
}
