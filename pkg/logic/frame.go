package logic

import (
	"fmt"
	"sort"
	"strings"
)

// Frame maps variable names to terms for one search branch.
// Lookups fall through to the parent frame, so a child sees every binding
// made by the branches above it.
//
// A frame is owned by exactly one branch. Bindings are never retracted;
// on backtracking the whole frame is dropped.
type Frame struct {
	bindings map[string]Term
	parent   *Frame
}

// NewFrame creates an empty frame chained to parent. A nil parent makes a
// root frame.
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		bindings: make(map[string]Term),
		parent:   parent,
	}
}

// Parent returns the enclosing frame, or nil for a root frame.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// Lookup returns the term bound to a variable in this frame or any ancestor,
// or nil if unbound.
func (f *Frame) Lookup(v *Var) Term {
	for fr := f; fr != nil; fr = fr.parent {
		if t, ok := fr.bindings[v.name]; ok {
			return t
		}
	}
	return nil
}

// Bound reports whether v has a binding visible from this frame.
func (f *Frame) Bound(v *Var) bool {
	return f.Lookup(v) != nil
}

// Define binds v to t in this frame. Rebinding a variable within the same
// frame is a programming error and panics.
func (f *Frame) Define(v *Var, t Term) {
	if _, ok := f.bindings[v.name]; ok {
		panic(fmt.Sprintf("logic: variable %s already bound in frame", v))
	}
	f.bindings[v.name] = t
}

// Walk follows variable bindings until it reaches a non-variable or an
// unbound variable. It does not descend into pairs.
func (f *Frame) Walk(t Term) Term {
	for {
		v, ok := t.(*Var)
		if !ok {
			return t
		}
		bound := f.Lookup(v)
		if bound == nil {
			return t
		}
		t = bound
	}
}

// Len returns the number of bindings held directly by this frame.
func (f *Frame) Len() int {
	return len(f.bindings)
}

// String returns the frame's own bindings, sorted by name.
func (f *Frame) String() string {
	if len(f.bindings) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(f.bindings))
	for name := range f.bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("?%s=%s", name, f.bindings[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
