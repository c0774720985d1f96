package main

import (
	"strconv"
	"strings"
)

// ScopeStack is a stack of symbol tables, one per lexical block. Declaring
// touches only the top frame; lookup walks innermost to outermost, which is
// what makes shadowing work.
type ScopeStack struct {
	frames []*SymbolTable
}

func NewScopeStack() *ScopeStack {
	return &ScopeStack{}
}

func (s *ScopeStack) Depth() int {
	return len(s.frames)
}

func (s *ScopeStack) Push() {
	s.frames = append(s.frames, NewSymbolTable())
}

// Pop drops the top frame. Returns false on underflow.
func (s *ScopeStack) Pop() bool {
	if len(s.frames) == 0 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Declare inserts sym into the current frame only. Returns false on a
// same-frame collision or when no frame is open.
func (s *ScopeStack) Declare(name string, sym *Symbol) bool {
	if len(s.frames) == 0 {
		return false
	}
	return s.frames[len(s.frames)-1].Insert(name, sym)
}

// LookupCurrent searches only the top frame.
func (s *ScopeStack) LookupCurrent(name string) *Symbol {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1].Lookup(name)
}

// Lookup searches from the innermost frame outward.
func (s *ScopeStack) Lookup(name string) *Symbol {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym := s.frames[i].Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

// scopePathStack produces dotted scope-path ids ("1", "1.2", "1.2.3"): one
// level deeper on enter, one shallower on leave, sibling indices 1-based.
// The flattened path suffixes local names so that all locals can share one
// flat namespace in the generated code.
type scopePathStack struct {
	paths    []string
	children []int // children created so far under each frame
	rootSeen int   // numbering for root-level scopes
}

// Enter opens a child scope and returns its path id.
func (s *scopePathStack) Enter() string {
	var path string
	if len(s.paths) == 0 {
		s.rootSeen++
		path = strconv.Itoa(s.rootSeen)
	} else {
		parent := len(s.paths) - 1
		s.children[parent]++
		path = s.paths[parent] + "." + strconv.Itoa(s.children[parent])
	}
	s.paths = append(s.paths, path)
	s.children = append(s.children, 0)
	return path
}

// Leave closes the current scope.
func (s *scopePathStack) Leave() {
	if len(s.paths) > 0 {
		s.paths = s.paths[:len(s.paths)-1]
		s.children = s.children[:len(s.children)-1]
	}
}

// Current returns the path id of the innermost scope, or "global".
func (s *scopePathStack) Current() string {
	if len(s.paths) == 0 {
		return "global"
	}
	return s.paths[len(s.paths)-1]
}

// FlatSuffix returns the current path with dots replaced by underscores
// ("1.2.3" → "1_2_3"), the suffix appended to codegen names. Underscores
// keep distinct paths distinct after flattening: stripping the dots would
// conflate "1.1.12" with "1.1.1.2".
func (s *scopePathStack) FlatSuffix() string {
	return strings.ReplaceAll(s.Current(), ".", "_")
}
