package logic

import (
	"context"
	"iter"
	"strings"

	"go.uber.org/zap"
)

// Answer is one solution of a query, projected onto the query's variables.
// Vars are in order of first appearance in the query; Values[i] is the
// resolved value of Vars[i].
type Answer struct {
	Vars   []*Var
	Values []Term
}

// Lookup returns the value of the named query variable.
func (a Answer) Lookup(name string) (Term, bool) {
	for i, v := range a.Vars {
		if v.name == name {
			return a.Values[i], true
		}
	}
	return nil, false
}

// Map returns the answer as a map from variable name to value.
func (a Answer) Map() map[string]Term {
	m := make(map[string]Term, len(a.Vars))
	for i, v := range a.Vars {
		m[v.name] = a.Values[i]
	}
	return m
}

// String renders the answer as "name: value" pairs separated by tabs.
// An answer to a query without variables renders as an empty string.
func (a Answer) String() string {
	parts := make([]string, len(a.Vars))
	for i, v := range a.Vars {
		parts[i] = v.name + ": " + a.Values[i].String()
	}
	return strings.Join(parts, "\t")
}

// Query runs goals from an empty root frame at depth zero and yields one
// Answer per solution. An empty sequence means the query failed.
//
// Example:
//
//	goals := []Term{L("ancestor", "?a", "barack")}
//	for ans := range eng.Query(ctx, goals) {
//		fmt.Println(ans) // a: abraham
//	}
func (e *Engine) Query(ctx context.Context, goals []Term) iter.Seq[Answer] {
	vars := Vars(goals...)
	return func(yield func(Answer) bool) {
		e.logger.Debug("query started", zap.Stringer("goals", List(goals...)))
		n := 0
		defer func() {
			e.logger.Debug("query finished", zap.Int("answers", n))
		}()

		for fr := range e.Search(ctx, goals, NewFrame(nil), 0) {
			values := make([]Term, len(vars))
			for i, v := range vars {
				values[i] = Resolve(v, fr)
			}
			n++
			if !yield(Answer{Vars: vars, Values: values}) {
				return
			}
		}
	}
}

// Take collects up to n values from seq. A non-positive n collects every
// value, which never returns for an infinite sequence.
func Take[T any](seq iter.Seq[T], n int) []T {
	var out []T
	if n == 0 {
		n = -1
	}
	for v := range seq {
		out = append(out, v)
		if len(out) == n {
			break
		}
	}
	return out
}

// First returns the first value of seq, if any.
func First[T any](seq iter.Seq[T]) (T, bool) {
	for v := range seq {
		return v, true
	}
	var zero T
	return zero, false
}
