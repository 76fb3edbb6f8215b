/*
Package planfsa learns finite state automata from example plans.

Given a corpus of plans (sequences of ground actions such as "(drive t1 p1 p2)"),
it induces a grammar that explains their structure, builds an automaton that
accepts the plans, gives every state the objects it must remember, and can
merge the automaton into a PDDL domain so a planner only produces plans the
automaton accepts.

# Concept

Learning runs in three stages:

  - Induction: the plan set is split around pivot actions. The blocks between
    pivots are classified as absent, repeated once, or repeated zero/one-or-more
    times, and recursion continues into every block (pkg/induction).
  - Automaton: the flattened grammar is executed as a token stack and yields a
    state machine with lambda transitions for repetitions (pkg/automaton).
  - Augmentation: states become predicates and transitions become actions of a
    new planning domain (pkg/augment).

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/planfsa"
		"github.com/aretw0/planfsa/pkg/adapters/file"
		"github.com/aretw0/planfsa/pkg/pddl"
	)

	func main() {
		src, err := file.NewSource("./plans", "pfile")
		if err != nil {
			log.Fatal(err)
		}
		dom, err := pddl.ReadFile("./domain.pddl")
		if err != nil {
			log.Fatal(err)
		}

		learner := planfsa.New(planfsa.WithDomain(dom))
		res, err := learner.LearnFrom(context.Background(), src)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Stack)

		merged, err := learner.Merge(res, dom.Name+"-fsa")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(merged)
	}
*/
package planfsa
