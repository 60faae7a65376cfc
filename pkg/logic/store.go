package logic

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrNilTerm is returned when a fact is built from a nil term.
var ErrNilTerm = errors.New("logic: nil term")

// Fact is a conclusion guarded by hypotheses that must all hold.
// A fact with no hypotheses holds unconditionally.
// Facts are immutable after creation.
type Fact struct {
	Conclusion Term
	Hypotheses []Term
}

// NewFact creates a fact, rejecting nil terms.
//
// Example:
//
//	// (ancestor ?a ?y) holds if (parent ?a ?z) and (ancestor ?z ?y) hold
//	f, err := NewFact(L("ancestor", "?a", "?y"),
//		L("parent", "?a", "?z"),
//		L("ancestor", "?z", "?y"))
func NewFact(conclusion Term, hypotheses ...Term) (*Fact, error) {
	if conclusion == nil {
		return nil, fmt.Errorf("%w: fact conclusion", ErrNilTerm)
	}
	for i, h := range hypotheses {
		if h == nil {
			return nil, fmt.Errorf("%w: hypothesis %d of %s", ErrNilTerm, i, conclusion)
		}
	}
	return &Fact{
		Conclusion: conclusion,
		Hypotheses: slices.Clone(hypotheses),
	}, nil
}

// MustFact is NewFact that panics on error. Intended for examples and tests.
func MustFact(conclusion Term, hypotheses ...Term) *Fact {
	f, err := NewFact(conclusion, hypotheses...)
	if err != nil {
		panic(err)
	}
	return f
}

// Rename returns a copy of the fact with every variable renamed using id.
func (f *Fact) Rename(id uint64) *Fact {
	hyps := make([]Term, len(f.Hypotheses))
	for i, h := range f.Hypotheses {
		hyps[i] = Rename(h, id)
	}
	return &Fact{
		Conclusion: Rename(f.Conclusion, id),
		Hypotheses: hyps,
	}
}

// IsRule reports whether the fact has hypotheses.
func (f *Fact) IsRule() bool {
	return len(f.Hypotheses) > 0
}

// String renders the fact in surface syntax: (fact conclusion hyp...).
func (f *Fact) String() string {
	parts := make([]string, 0, len(f.Hypotheses)+2)
	parts = append(parts, "fact", f.Conclusion.String())
	for _, h := range f.Hypotheses {
		parts = append(parts, h.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// FactSource supplies facts to the search engine in declaration order.
// The order must be stable for the duration of a query.
type FactSource interface {
	Facts() []*Fact
}

// Store is an append-only, ordered collection of facts.
// It is not safe for concurrent modification; facts are added while the
// database is built and only read while queries run.
type Store struct {
	facts []*Fact
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add creates a fact and appends it to the store.
func (s *Store) Add(conclusion Term, hypotheses ...Term) (*Fact, error) {
	f, err := NewFact(conclusion, hypotheses...)
	if err != nil {
		return nil, err
	}
	s.facts = append(s.facts, f)
	return f, nil
}

// AddFact appends an existing fact to the store.
func (s *Store) AddFact(f *Fact) error {
	if f == nil || f.Conclusion == nil {
		return fmt.Errorf("%w: fact conclusion", ErrNilTerm)
	}
	s.facts = append(s.facts, f)
	return nil
}

// Facts returns the facts in declaration order. The returned slice must not
// be modified.
func (s *Store) Facts() []*Fact {
	return slices.Clip(s.facts)
}

// Len returns the number of facts in the store.
func (s *Store) Len() int {
	return len(s.facts)
}
