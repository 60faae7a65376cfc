package logic

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// ancestryStore builds the three-generation database used across tests.
func ancestryStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	add := func(conclusion Term, hyps ...Term) {
		_, err := s.Add(conclusion, hyps...)
		require.NoError(t, err)
	}
	add(L("parent", "abraham", "barack"))
	add(L("parent", "fillmore", "abraham"))
	add(L("parent", "eisenhower", "fillmore"))
	add(L("ancestor", "?a", "?y"), L("parent", "?a", "?y"))
	add(L("ancestor", "?a", "?y"), L("parent", "?a", "?z"), L("ancestor", "?z", "?y"))
	return s
}

func answerStrings(seq iter.Seq[Answer]) []string {
	var out []string
	for ans := range seq {
		out = append(out, ans.String())
	}
	return out
}

func TestSearch_Facts(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(ancestryStore(t))

	t.Run("Ground fact succeeds once", func(t *testing.T) {
		got := answerStrings(eng.Query(ctx, []Term{L("parent", "abraham", "barack")}))
		assert.Equal(t, []string{""}, got)
	})

	t.Run("Unknown fact fails", func(t *testing.T) {
		got := answerStrings(eng.Query(ctx, []Term{L("parent", "barack", "abraham")}))
		assert.Empty(t, got)
	})

	t.Run("Variables bind in declaration order", func(t *testing.T) {
		got := answerStrings(eng.Query(ctx, []Term{L("parent", "?p", "?c")}))
		assert.Equal(t, []string{
			"p: abraham\tc: barack",
			"p: fillmore\tc: abraham",
			"p: eisenhower\tc: fillmore",
		}, got)
	})

	t.Run("Conjunction shares bindings", func(t *testing.T) {
		got := answerStrings(eng.Query(ctx, []Term{
			L("parent", "?gp", "?p"),
			L("parent", "?p", "barack"),
		}))
		assert.Equal(t, []string{"gp: fillmore\tp: abraham"}, got)
	})

	t.Run("Malformed goal never unifies", func(t *testing.T) {
		assert.Empty(t, answerStrings(eng.Query(ctx, []Term{Sym("parent")})))
		assert.Empty(t, answerStrings(eng.Query(ctx, []Term{L("parent", "abraham")})))
	})
}

func TestSearch_RecursiveClosure(t *testing.T) {
	eng := NewEngine(ancestryStore(t))
	got := answerStrings(eng.Query(context.Background(), []Term{L("ancestor", "?a", "barack")}))
	assert.Equal(t, []string{"a: abraham", "a: fillmore", "a: eisenhower"}, got)
}

func TestSearch_Negation(t *testing.T) {
	ctx := context.Background()
	eng := NewEngine(ancestryStore(t))

	t.Run("Negation of a provable goal fails", func(t *testing.T) {
		assert.Empty(t, answerStrings(eng.Query(ctx, []Term{Not(L("parent", "abraham", "barack"))})))
	})

	t.Run("Negation of an unprovable goal succeeds", func(t *testing.T) {
		got := answerStrings(eng.Query(ctx, []Term{Not(L("parent", "barack", "abraham"))}))
		assert.Equal(t, []string{""}, got)
	})

	t.Run("Unbound variable makes negation fail", func(t *testing.T) {
		// (parent abraham ?who) is provable for some ?who, so its negation
		// fails even though ?who is never bound.
		assert.Empty(t, answerStrings(eng.Query(ctx, []Term{Not(L("parent", "abraham", "?who"))})))
	})

	t.Run("Negation sees bindings made earlier", func(t *testing.T) {
		// People with a parent but no children of their own.
		got := answerStrings(eng.Query(ctx, []Term{
			L("parent", "?p", "?c"),
			Not(L("parent", "?c", "?gc")),
		}))
		assert.Equal(t, []string{"p: abraham\tc: barack\tgc: ?gc"}, got)
	})

	t.Run("Negation never binds", func(t *testing.T) {
		got := answerStrings(eng.Query(ctx, []Term{
			Not(L("parent", "barack", "?x")),
			L("parent", "?x", "barack"),
		}))
		assert.Equal(t, []string{"x: abraham"}, got)
	})

	t.Run("Tilde form and conjunctions", func(t *testing.T) {
		tilde := L("~", L("parent", "abraham", "barack"), L("parent", "barack", "abraham"))
		got := answerStrings(eng.Query(ctx, []Term{tilde}))
		assert.Equal(t, []string{""}, got, "the conjunction is unprovable")
	})

	t.Run("Negated helper", func(t *testing.T) {
		inner, ok := Negated(Not(L("a"), L("b")))
		require.True(t, ok)
		assert.Len(t, inner, 2)

		_, ok = Negated(L("parent", "a", "b"))
		assert.False(t, ok)
		_, ok = Negated(NewPair(Sym("not"), Sym("x")))
		assert.False(t, ok, "an improper tail is not a negation")
	})
}

func infiniteStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	_, err := s.Add(L("ints", "?n"), L("ints", L("s", "?n")))
	require.NoError(t, err)
	return s
}

func TestSearch_DepthLimit(t *testing.T) {
	t.Run("Unbounded recursion terminates with no solutions", func(t *testing.T) {
		stats := &Stats{}
		eng := NewEngine(infiniteStore(t), WithDepthLimit(20), WithObserver(stats))

		done := make(chan []string)
		go func() {
			done <- answerStrings(eng.Query(context.Background(), []Term{L("ints", "zero")}))
		}()
		select {
		case got := <-done:
			assert.Empty(t, got)
		case <-time.After(5 * time.Second):
			t.Fatal("search did not terminate under a depth limit")
		}
		assert.Equal(t, int64(1), stats.Snapshot().Cutoffs)
	})

	t.Run("Limit truncates recursive results", func(t *testing.T) {
		eng := NewEngine(ancestryStore(t), WithDepthLimit(2))
		got := answerStrings(eng.Query(context.Background(), []Term{L("ancestor", "?a", "barack")}))
		assert.Equal(t, []string{"a: abraham"}, got)

		eng.SetDepthLimit(-1)
		limit, ok := eng.DepthLimit()
		assert.False(t, ok)
		assert.Equal(t, -1, limit)
		got = answerStrings(eng.Query(context.Background(), []Term{L("ancestor", "?a", "barack")}))
		assert.Len(t, got, 3)
	})

	t.Run("Empty conjunction succeeds at any depth", func(t *testing.T) {
		eng := NewEngine(NewStore(), WithDepthLimit(0))
		frames := Take(eng.Search(context.Background(), nil, NewFrame(nil), 100), 0)
		assert.Len(t, frames, 1)
	})
}

func natStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	_, err := s.Add(L("nat", "zero"))
	require.NoError(t, err)
	_, err = s.Add(L("nat", L("s", "?n")), L("nat", "?n"))
	require.NoError(t, err)
	return s
}

func TestSearch_Laziness(t *testing.T) {
	ctx := context.Background()

	t.Run("Infinite solution space is consumed on demand", func(t *testing.T) {
		eng := NewEngine(natStore(t))
		got := Take(eng.Query(ctx, []Term{L("nat", "?x")}), 3)
		require.Len(t, got, 3)
		assert.Equal(t, "x: zero", got[0].String())
		assert.Equal(t, "x: (s zero)", got[1].String())
		assert.Equal(t, "x: (s (s zero))", got[2].String())
	})

	t.Run("Pull-based consumption can be abandoned", func(t *testing.T) {
		eng := NewEngine(natStore(t))
		next, stop := iter.Pull(eng.Query(ctx, []Term{L("nat", "?x")}))
		defer stop()
		first, ok := next()
		require.True(t, ok)
		assert.Equal(t, "x: zero", first.String())
		second, ok := next()
		require.True(t, ok)
		assert.Equal(t, "x: (s zero)", second.String())
		stop()
		_, ok = next()
		assert.False(t, ok)
	})

	t.Run("Cancelled context ends the sequence", func(t *testing.T) {
		eng := NewEngine(natStore(t))
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()
		n := 0
		for range eng.Query(cctx, []Term{L("nat", "?x")}) {
			n++
			if n == 5 {
				cancel()
			}
			if n >= 10 {
				t.Error("search kept running after cancel")
				break
			}
		}
		assert.Equal(t, 5, n)
	})

	t.Run("First", func(t *testing.T) {
		eng := NewEngine(natStore(t))
		ans, ok := First(eng.Query(ctx, []Term{L("nat", L("s", "?y"))}))
		require.True(t, ok)
		assert.Equal(t, "y: zero", ans.String())

		_, ok = First(eng.Query(ctx, []Term{L("nat", "one")}))
		assert.False(t, ok)
	})
}

func TestSearch_IDSourceIsInjected(t *testing.T) {
	ids := NewCounter(1000)
	eng := NewEngine(ancestryStore(t), WithIDSource(ids))
	_ = Take(eng.Query(context.Background(), []Term{L("parent", "?p", "barack")}), 0)
	// One renaming per fact tried.
	assert.Equal(t, uint64(1005), ids.Current())
}

func TestSearch_ResultFramesExtendStart(t *testing.T) {
	eng := NewEngine(ancestryStore(t))
	root := NewFrame(nil)
	root.Define(NewVar("c"), Sym("abraham"))

	frames := Take(eng.Search(context.Background(), []Term{L("parent", "?p", "?c")}, root, 0), 0)
	require.Len(t, frames, 1)
	assert.Equal(t, "fillmore", Resolve(NewVar("p"), frames[0]).String())
	assert.Equal(t, 1, root.Len(), "the caller's frame is never extended")
}

func TestSearch_Observer(t *testing.T) {
	stats := &Stats{}
	eng := NewEngine(ancestryStore(t), WithObserver(MultiObserver(stats, NopObserver{})))
	_ = Take(eng.Query(context.Background(), []Term{
		L("parent", "?p", "?c"),
		Not(L("parent", "?c", "?gc")),
	}), 0)

	snap := stats.Snapshot()
	assert.Equal(t, int64(1), snap.Solutions)
	assert.Equal(t, int64(3), snap.Negations)
	assert.Equal(t, snap.FactsTried, snap.Unifications+snap.Failures)
	assert.Contains(t, snap.String(), "solutions: 1")
}

func TestSearch_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	eng := NewEngine(infiniteStore(t), WithDepthLimit(3), WithLogger(zap.New(core)))
	_ = Take(eng.Query(context.Background(), []Term{L("ints", "zero")}), 0)

	assert.Equal(t, 1, logs.FilterMessage("depth limit reached").Len())
	assert.Equal(t, 1, logs.FilterMessage("query started").Len())
	finished := logs.FilterMessage("query finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(0), finished[0].ContextMap()["answers"])
}
