package logic

// Resolve substitutes every bound variable in t with its value from frame,
// recursively, and returns the resulting term. Unbound variables and atoms
// are returned unchanged. Resolve never modifies frame.
//
// Resolve is used to render answers and to ground a goal before it is
// negated. A variable bound (directly or through others) to a term that
// contains itself makes Resolve recurse forever.
func Resolve(t Term, frame *Frame) Term {
	switch v := t.(type) {
	case *Var:
		bound := frame.Lookup(v)
		if bound == nil {
			return v
		}
		return Resolve(bound, frame)
	case *Pair:
		first := Resolve(v.first, frame)
		second := Resolve(v.second, frame)
		if first == v.first && second == v.second {
			return v
		}
		return NewPair(first, second)
	default:
		return t
	}
}

// ResolveAll resolves each term in ts.
func ResolveAll(ts []Term, frame *Frame) []Term {
	out := make([]Term, len(ts))
	for i, t := range ts {
		out[i] = Resolve(t, frame)
	}
	return out
}
