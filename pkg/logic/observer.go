package logic

import (
	"fmt"
	"sync/atomic"
)

// Observer receives search events. Implementations must be cheap; they are
// called on every fact the engine tries.
type Observer interface {
	// FactTried is called before a fact's conclusion is unified with a goal.
	FactTried()
	// Unified reports the outcome of unifying a goal with a fact conclusion.
	Unified(ok bool)
	// DepthCutoff is called when a branch is pruned by the depth limit.
	DepthCutoff(depth int)
	// Negation reports whether a negated goal held (its sub-search was empty).
	Negation(succeeded bool)
	// Solution is called for every frame yielded by a top-level search.
	Solution()
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) FactTried() {}
func (NopObserver) Unified(bool) {}
func (NopObserver) DepthCutoff(int) {}
func (NopObserver) Negation(bool) {}
func (NopObserver) Solution() {}

// Stats counts search events. The zero value is ready to use.
type Stats struct {
	factsTried   atomic.Int64
	unifications atomic.Int64
	failures     atomic.Int64
	cutoffs      atomic.Int64
	negations    atomic.Int64
	solutions    atomic.Int64
}

func (s *Stats) FactTried() { s.factsTried.Add(1) }

func (s *Stats) Unified(ok bool) {
	if ok {
		s.unifications.Add(1)
		return
	}
	s.failures.Add(1)
}

func (s *Stats) DepthCutoff(int) { s.cutoffs.Add(1) }

func (s *Stats) Negation(bool) { s.negations.Add(1) }

func (s *Stats) Solution() { s.solutions.Add(1) }

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	FactsTried   int64
	Unifications int64
	Failures     int64
	Cutoffs      int64
	Negations    int64
	Solutions    int64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		FactsTried:   s.factsTried.Load(),
		Unifications: s.unifications.Load(),
		Failures:     s.failures.Load(),
		Cutoffs:      s.cutoffs.Load(),
		Negations:    s.negations.Load(),
		Solutions:    s.solutions.Load(),
	}
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("facts tried: %d, unified: %d, failed: %d, depth cutoffs: %d, negations: %d, solutions: %d",
		s.FactsTried, s.Unifications, s.Failures, s.Cutoffs, s.Negations, s.Solutions)
}

// multiObserver fans events out to several observers.
type multiObserver []Observer

// MultiObserver returns an Observer that forwards every event to each of obs.
func MultiObserver(obs ...Observer) Observer {
	return multiObserver(obs)
}

func (m multiObserver) FactTried() {
	for _, o := range m {
		o.FactTried()
	}
}

func (m multiObserver) Unified(ok bool) {
	for _, o := range m {
		o.Unified(ok)
	}
}

func (m multiObserver) DepthCutoff(depth int) {
	for _, o := range m {
		o.DepthCutoff(depth)
	}
}

func (m multiObserver) Negation(succeeded bool) {
	for _, o := range m {
		o.Negation(succeeded)
	}
}

func (m multiObserver) Solution() {
	for _, o := range m {
		o.Solution()
	}
}
