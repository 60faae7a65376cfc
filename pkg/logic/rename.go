package logic

import (
	"strconv"
	"sync/atomic"
)

// IDSource hands out identifiers used to rename fact variables. Every call
// to Next must return a value never returned before by the same source.
type IDSource interface {
	Next() uint64
}

// Counter is a monotonically increasing IDSource. The zero value is ready
// to use and starts at 1.
type Counter struct {
	n atomic.Uint64
}

// NewCounter creates a counter whose first identifier is start+1.
func NewCounter(start uint64) *Counter {
	c := &Counter{}
	c.n.Store(start)
	return c
}

// Next returns the next identifier.
func (c *Counter) Next() uint64 {
	return c.n.Add(1)
}

// Current returns the last identifier handed out.
func (c *Counter) Current() uint64 {
	return c.n.Load()
}

// Rename returns a copy of t in which every variable ?name is replaced by
// ?name_id. Atoms, the empty list and pair structure are preserved.
//
// Distinct ids never produce the same variable name: the suffix after the
// last '_' is the decimal id itself.
func Rename(t Term, id uint64) Term {
	return rename(t, "_"+strconv.FormatUint(id, 10))
}

func rename(t Term, suffix string) Term {
	switch v := t.(type) {
	case *Var:
		return &Var{name: v.name + suffix}
	case *Pair:
		return NewPair(rename(v.first, suffix), rename(v.second, suffix))
	default:
		return t
	}
}
