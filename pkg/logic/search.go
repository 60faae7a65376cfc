package logic

import (
	"context"
	"iter"

	"go.uber.org/zap"
)

// Negation markers. A goal (not g1 g2 ...) or (~ g1 g2 ...) holds when the
// conjunction g1, g2, ... has no solution.
const (
	NotSymbol   = "not"
	TildeSymbol = "~"
)

// Engine searches a fact source for ways to satisfy a conjunction of goals.
//
// The search is depth-first, left to right over goals, and tries facts in
// declaration order, so solutions come out in a deterministic order for a
// fixed database and query. Solutions are produced lazily; the solution
// space of recursive rules may be infinite.
//
// An Engine holds no per-query state besides its identifier source and may
// run many queries one after another. The fact source must not change while
// a query is being consumed.
type Engine struct {
	facts    FactSource
	ids      IDSource
	limit    int
	limited  bool
	logger   *zap.Logger
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithDepthLimit bounds the number of nested rule applications. A branch
// whose depth exceeds n produces no solutions. Without a limit, a
// non-terminating rule set recurses until the stack is exhausted.
func WithDepthLimit(n int) Option {
	return func(e *Engine) {
		e.limit = n
		e.limited = n >= 0
	}
}

// WithIDSource sets the source of renaming identifiers.
func WithIDSource(ids IDSource) Option {
	return func(e *Engine) {
		if ids != nil {
			e.ids = ids
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver sets the observer notified of search events.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates an engine over facts.
func NewEngine(facts FactSource, opts ...Option) *Engine {
	e := &Engine{
		facts:    facts,
		ids:      &Counter{},
		logger:   zap.NewNop(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DepthLimit returns the configured depth limit and whether one is set.
func (e *Engine) DepthLimit() (int, bool) {
	return e.limit, e.limited
}

// SetDepthLimit changes the depth limit for subsequent searches. A negative
// n removes the limit.
func (e *Engine) SetDepthLimit(n int) {
	WithDepthLimit(n)(e)
}

// Search returns the frames that satisfy every goal in clauses, starting from
// frame at the given depth. Each yielded frame extends frame with the
// bindings of one solution.
//
// The sequence is lazy: work is done only as the consumer asks for the next
// frame, and a consumer that stops early abandons the rest of the search.
// Cancelling ctx ends the sequence at the next step.
//
// Example:
//
//	for fr := range eng.Search(ctx, goals, NewFrame(nil), 0) {
//		fmt.Println(Resolve(x, fr))
//	}
func (e *Engine) Search(ctx context.Context, clauses []Term, frame *Frame, depth int) iter.Seq[*Frame] {
	return func(yield func(*Frame) bool) {
		e.search(ctx, clauses, frame, depth, func(fr *Frame) bool {
			e.observer.Solution()
			return yield(fr)
		})
	}
}

// search calls yield for every solution of clauses. It returns false as
// soon as yield does, or when ctx is cancelled, so callers stop too.
func (e *Engine) search(ctx context.Context, clauses []Term, frame *Frame, depth int, yield func(*Frame) bool) bool {
	if len(clauses) == 0 {
		return yield(frame)
	}

	if e.limited && depth > e.limit {
		e.observer.DepthCutoff(depth)
		if ce := e.logger.Check(zap.DebugLevel, "depth limit reached"); ce != nil {
			ce.Write(zap.Int("depth", depth), zap.Stringer("goal", clauses[0]))
		}
		return true
	}

	if ctx.Err() != nil {
		return false
	}

	goal := clauses[0]
	rest := clauses[1:]

	if inner, ok := Negated(goal); ok {
		grounded := ResolveAll(inner, frame)
		provable := e.provable(ctx, grounded)
		if ctx.Err() != nil {
			return false
		}
		e.observer.Negation(!provable)
		if ce := e.logger.Check(zap.DebugLevel, "negation"); ce != nil {
			ce.Write(zap.Stringer("goal", List(grounded...)), zap.Bool("holds", !provable))
		}
		if provable {
			return true
		}
		return e.search(ctx, rest, frame, depth+1, yield)
	}

	for _, fact := range e.facts.Facts() {
		if ctx.Err() != nil {
			return false
		}
		renamed := fact.Rename(e.ids.Next())
		head := NewFrame(frame)

		e.observer.FactTried()
		ok := Unify(renamed.Conclusion, goal, head)
		e.observer.Unified(ok)
		if !ok {
			continue
		}

		more := e.search(ctx, renamed.Hypotheses, head, depth+1, func(body *Frame) bool {
			return e.search(ctx, rest, body, depth+1, yield)
		})
		if !more {
			return false
		}
	}
	return true
}

// provable reports whether goals have at least one solution, searching in a
// fresh root frame. Variables left unbound in goals stay free.
func (e *Engine) provable(ctx context.Context, goals []Term) bool {
	found := false
	e.search(ctx, goals, NewFrame(nil), 0, func(*Frame) bool {
		found = true
		return false
	})
	return found
}

// Negated reports whether goal is a negation, (not g...) or (~ g...), and
// returns the negated goals. A negation whose tail is not a proper list is
// treated as an ordinary goal.
func Negated(goal Term) ([]Term, bool) {
	p, ok := goal.(*Pair)
	if !ok {
		return nil, false
	}
	head, ok := p.first.(*Atom)
	if !ok || !(head.IsSymbol(NotSymbol) || head.IsSymbol(TildeSymbol)) {
		return nil, false
	}
	return AsList(p.second)
}

// Not builds the negation of the conjunction of goals.
func Not(goals ...Term) Term {
	return NewPair(Sym(NotSymbol), List(goals...))
}
