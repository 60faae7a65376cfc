// Package logic provides a declarative logic query engine: a fact database
// queried through pattern unification and lazy, depth-bounded backtracking
// search. It supports rules, recursive facts and negation-as-failure.
//
// The engine is built from a handful of small pieces:
//   - Terms: atoms, variables, pairs and the empty list
//   - Frames: scopes mapping variable names to terms
//   - Unify: structural matching that extends a frame
//   - Resolve: deep substitution of a term through a frame
//   - Rename: fresh variable namespaces for every rule application
//   - Store: the ordered fact database
//   - Engine: the search itself, exposed as a Go iterator
//
// Example:
//
//	store := NewStore()
//	store.Add(L("parent", "abraham", "barack"))
//	eng := NewEngine(store)
//	for ans := range eng.Query(ctx, []Term{L("parent", "abraham", NewVar("child"))}) {
//		fmt.Println(ans) // child: barack
//	}
package logic

import (
	"fmt"
	"strconv"
	"strings"
)

// Term represents any value in the logic universe.
// Terms are immutable once constructed and safe to share between searches.
type Term interface {
	// String returns a human-readable representation of the term.
	String() string

	// Equal checks if this term is structurally equal to another term.
	// This is different from unification - it's a strict equality check.
	Equal(other Term) bool

	// IsVar returns true if this term is a logic variable.
	IsVar() bool
}

// Atom represents an atomic value (symbol or number).
// Atoms are immutable and represent themselves.
type Atom struct {
	value any
}

// NewAtom creates a new atom from a Go value. Symbols are strings, numbers
// are int64 or float64; other integer kinds are widened to int64.
func NewAtom(value any) *Atom {
	switch v := value.(type) {
	case int:
		return &Atom{value: int64(v)}
	case int32:
		return &Atom{value: int64(v)}
	case float32:
		return &Atom{value: float64(v)}
	}
	return &Atom{value: value}
}

// Sym creates a symbol atom.
func Sym(name string) *Atom {
	return &Atom{value: name}
}

// String returns a string representation of the atom. Floats always carry
// a decimal point or exponent so they read back as floats.
func (a *Atom) String() string {
	if f, ok := a.value.(float64); ok {
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	}
	return fmt.Sprintf("%v", a.value)
}

// Equal checks if two atoms have the same value.
func (a *Atom) Equal(other Term) bool {
	if otherAtom, ok := other.(*Atom); ok {
		return a.value == otherAtom.value
	}
	return false
}

// IsVar always returns false for atoms.
func (a *Atom) IsVar() bool {
	return false
}

// Value returns the underlying Go value.
func (a *Atom) Value() any {
	return a.value
}

// IsSymbol reports whether the atom is a symbol with the given name.
func (a *Atom) IsSymbol(name string) bool {
	s, ok := a.value.(string)
	return ok && s == name
}

// Var represents a logic variable. Variables are identified by name alone:
// two *Var values with the same name are the same variable.
type Var struct {
	name string
}

// NewVar creates a variable with the given name (without the leading '?').
func NewVar(name string) *Var {
	return &Var{name: name}
}

// Name returns the variable's name.
func (v *Var) Name() string {
	return v.name
}

// String returns the variable in surface syntax, e.g. ?x.
func (v *Var) String() string {
	return "?" + v.name
}

// Equal checks if two variables have the same name.
func (v *Var) Equal(other Term) bool {
	if otherVar, ok := other.(*Var); ok {
		return v.name == otherVar.name
	}
	return false
}

// IsVar always returns true for variables.
func (v *Var) IsVar() bool {
	return true
}

// Pair represents an ordered (first . second) node.
// Pairs are used to build proper lists and dotted lists.
type Pair struct {
	first  Term
	second Term
}

// NewPair creates a new pair with the given first and second elements.
func NewPair(first, second Term) *Pair {
	return &Pair{first: first, second: second}
}

// First returns the first element of the pair.
func (p *Pair) First() Term {
	return p.first
}

// Second returns the rest of the pair.
func (p *Pair) Second() Term {
	return p.second
}

// String renders the pair as a list: (a b c) or (a b . c).
func (p *Pair) String() string {
	var b strings.Builder
	b.WriteByte('(')
	var tail Term = p
	for i := 0; ; i++ {
		pr, ok := tail.(*Pair)
		if !ok {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pr.first.String())
		tail = pr.second
	}
	if _, ok := tail.(EmptyList); !ok {
		b.WriteString(" . ")
		b.WriteString(tail.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal checks if two pairs are structurally equal.
func (p *Pair) Equal(other Term) bool {
	if otherPair, ok := other.(*Pair); ok {
		return p.first.Equal(otherPair.first) && p.second.Equal(otherPair.second)
	}
	return false
}

// IsVar always returns false for pairs.
func (p *Pair) IsVar() bool {
	return false
}

// EmptyList is the type of the empty list. It carries no state, so every
// EmptyList value is equal to every other one; use Nil.
type EmptyList struct{}

// Nil is the empty list.
var Nil Term = EmptyList{}

// String returns "()".
func (EmptyList) String() string {
	return "()"
}

// Equal reports whether other is also the empty list.
func (EmptyList) Equal(other Term) bool {
	_, ok := other.(EmptyList)
	return ok
}

// IsVar always returns false for the empty list.
func (EmptyList) IsVar() bool {
	return false
}

// List builds a proper list from terms.
func List(terms ...Term) Term {
	return ListTail(Nil, terms...)
}

// ListTail builds a list whose final second element is tail instead of Nil.
// ListTail(Sym("c"), Sym("a"), Sym("b")) is (a b . c).
func ListTail(tail Term, terms ...Term) Term {
	result := tail
	for i := len(terms) - 1; i >= 0; i-- {
		result = NewPair(terms[i], result)
	}
	return result
}

// A creates a term from a Go value. Terms are returned as-is, strings
// starting with '?' become variables, other strings become symbols.
// Examples: A("abraham"), A("?x"), A(42)
func A(value any) Term {
	switch v := value.(type) {
	case Term:
		return v
	case string:
		if strings.HasPrefix(v, "?") && len(v) > 1 {
			return NewVar(v[1:])
		}
		return Sym(v)
	}
	return NewAtom(value)
}

// L builds a list from values, converting each element with A.
// Example: L("parent", "?x", "barack") → (parent ?x barack)
func L(values ...any) Term {
	terms := make([]Term, len(values))
	for i, v := range values {
		terms[i] = A(v)
	}
	return List(terms...)
}

// IsList reports whether t is a proper list (a chain of pairs ending in Nil).
func IsList(t Term) bool {
	for {
		switch v := t.(type) {
		case EmptyList:
			return true
		case *Pair:
			t = v.second
		default:
			return false
		}
	}
}

// AsList collects a proper list into a Go slice of Terms.
// Returns false for non-list or improper lists.
func AsList(t Term) ([]Term, bool) {
	elems := []Term{}
	for {
		switch v := t.(type) {
		case EmptyList:
			return elems, true
		case *Pair:
			elems = append(elems, v.first)
			t = v.second
		default:
			return nil, false
		}
	}
}

// Vars returns the variables of t in order of first appearance, without
// duplicates.
func Vars(terms ...Term) []*Var {
	var out []*Var
	seen := make(map[string]bool)
	var walk func(Term)
	walk = func(t Term) {
		switch v := t.(type) {
		case *Var:
			if !seen[v.name] {
				seen[v.name] = true
				out = append(out, v)
			}
		case *Pair:
			walk(v.first)
			walk(v.second)
		}
	}
	for _, t := range terms {
		walk(t)
	}
	return out
}

// IsGround returns true if the term contains no variables.
func IsGround(t Term) bool {
	switch v := t.(type) {
	case *Var:
		return false
	case *Pair:
		return IsGround(v.first) && IsGround(v.second)
	default:
		return true
	}
}
