package logic

// Unify attempts to make e and f structurally identical by adding bindings
// to frame. It returns true on success.
//
// Unification rules:
//   - Bound variables are replaced by their values before comparing
//   - Equal terms unify without new bindings
//   - An unbound variable on either side is bound to the other term
//   - Atoms and the empty list unify only with equal terms
//   - Pair == Pair: unify the first elements, then the second elements,
//     in the same frame
//
// There is no occurs-check: ?x can be bound to a term containing ?x, and
// resolving such a binding will not terminate.
//
// On failure the frame may hold bindings made before the mismatch was found.
// Callers must unify into a fresh child frame and discard it on failure.
func Unify(e, f Term, frame *Frame) bool {
	e = frame.Walk(e)
	f = frame.Walk(f)

	if e.Equal(f) {
		return true
	}

	if v, ok := e.(*Var); ok {
		frame.Define(v, f)
		return true
	}

	if v, ok := f.(*Var); ok {
		frame.Define(v, e)
		return true
	}

	pe, ok1 := e.(*Pair)
	pf, ok2 := f.(*Pair)
	if !ok1 || !ok2 {
		return false
	}

	return Unify(pe.first, pf.first, frame) && Unify(pe.second, pf.second, frame)
}
