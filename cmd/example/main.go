// Package main demonstrates basic usage of the logic engine.
//
// This example walks through the core operations: unification, resolution,
// fact and rule queries, negation and the depth limit.
package main

import (
	"context"
	"fmt"
	"iter"

	"github.com/gitrdm/gokanquery/pkg/logic"
)

func main() {
	fmt.Println("=== gokanquery Examples ===")
	fmt.Println()

	basicUnification()
	resolution()
	ancestry()
	negation()
	depthLimit()
	pullSolutions()
}

// basicUnification matches two terms and shows the bindings.
func basicUnification() {
	fmt.Println("1. Basic Unification:")

	frame := logic.NewFrame(nil)
	ok := logic.Unify(
		logic.L(logic.L("a", "b"), "c", logic.L("a", "b")),
		logic.L("?x", "c", "?x"),
		frame)
	fmt.Printf("   ((a b) c (a b)) = (?x c ?x) => %v %s\n", ok, frame)

	frame = logic.NewFrame(nil)
	ok = logic.Unify(logic.L("a", "b"), logic.L("?x", "?x"), frame)
	fmt.Printf("   (a b) = (?x ?x) => %v\n", ok)
	fmt.Println()
}

// resolution substitutes bindings deeply through a term.
func resolution() {
	fmt.Println("2. Resolution:")

	frame := logic.NewFrame(nil)
	logic.Unify(logic.NewVar("y"), logic.L(1, "?z"), frame)
	logic.Unify(logic.NewVar("z"), logic.A("done"), frame)
	fmt.Printf("   (?y . ?y) under %s => %s\n", frame, logic.Resolve(logic.NewPair(logic.NewVar("y"), logic.NewVar("y")), frame))
	fmt.Println()
}

func familyStore() *logic.Store {
	store := logic.NewStore()
	for _, p := range [][2]string{
		{"abraham", "barack"},
		{"abraham", "clinton"},
		{"delano", "herbert"},
		{"fillmore", "abraham"},
		{"fillmore", "delano"},
		{"fillmore", "grover"},
		{"eisenhower", "fillmore"},
	} {
		store.Add(logic.L("parent", p[0], p[1]))
	}
	store.Add(logic.L("ancestor", "?a", "?y"), logic.L("parent", "?a", "?y"))
	store.Add(logic.L("ancestor", "?a", "?y"), logic.L("parent", "?a", "?z"), logic.L("ancestor", "?z", "?y"))
	return store
}

// ancestry queries facts and a recursive rule.
func ancestry() {
	fmt.Println("3. Facts and Rules:")

	eng := logic.NewEngine(familyStore())
	ctx := context.Background()

	fmt.Println("   (parent ?p barack):")
	for ans := range eng.Query(ctx, []logic.Term{logic.L("parent", "?p", "barack")}) {
		fmt.Printf("     %s\n", ans)
	}

	fmt.Println("   (ancestor ?a barack):")
	for ans := range eng.Query(ctx, []logic.Term{logic.L("ancestor", "?a", "barack")}) {
		fmt.Printf("     %s\n", ans)
	}
	fmt.Println()
}

// negation uses negation as failure to find childless people.
func negation() {
	fmt.Println("4. Negation as Failure:")

	eng := logic.NewEngine(familyStore())
	goals := []logic.Term{
		logic.L("parent", "fillmore", "?c"),
		logic.Not(logic.L("parent", "?c", "?grandchild")),
	}
	for ans := range eng.Query(context.Background(), goals) {
		c, _ := ans.Lookup("c")
		fmt.Printf("   fillmore's childless child: %s\n", c)
	}

	_, ok := logic.First(eng.Query(context.Background(), []logic.Term{
		logic.Not(logic.L("parent", "abraham", "?who")),
	}))
	fmt.Printf("   (not (parent abraham ?who)) => %v\n", ok)
	fmt.Println()
}

// depthLimit bounds a rule that would otherwise recurse forever.
func depthLimit() {
	fmt.Println("5. Depth Limit:")

	store := logic.NewStore()
	store.Add(logic.L("nat", "z"))
	store.Add(logic.L("nat", logic.L("s", "?n")), logic.L("nat", "?n"))

	stats := &logic.Stats{}
	eng := logic.NewEngine(store, logic.WithDepthLimit(4), logic.WithObserver(stats))
	for ans := range eng.Query(context.Background(), []logic.Term{logic.L("nat", "?n")}) {
		fmt.Printf("   %s\n", ans)
	}
	fmt.Printf("   %s\n", stats.Snapshot())
	fmt.Println()
}

// pullSolutions takes answers one at a time from an unbounded search.
func pullSolutions() {
	fmt.Println("6. Lazy Solutions:")

	store := logic.NewStore()
	store.Add(logic.L("nat", "z"))
	store.Add(logic.L("nat", logic.L("s", "?n")), logic.L("nat", "?n"))

	eng := logic.NewEngine(store)
	next, stop := iter.Pull(eng.Query(context.Background(), []logic.Term{logic.L("nat", "?n")}))
	defer stop()

	for i := 0; i < 3; i++ {
		ans, ok := next()
		if !ok {
			break
		}
		fmt.Printf("   answer %d: %s\n", i+1, ans)
	}
	fmt.Println()
}
