package planfsa_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/planfsa"
	"github.com/aretw0/planfsa/pkg/adapters/memory"
	"github.com/aretw0/planfsa/pkg/pddl"
)

// ExampleLearner_LearnFrom learns an automaton from two plans held in memory.
func ExampleLearner_LearnFrom() {
	src, err := memory.NewSourceFromText(map[string]string{
		"p1": "(start r1)\n(move r1)\n(end r1)\n",
		"p2": "(start r2)\n(move r2)\n(move r2)\n(end r2)\n",
	})
	if err != nil {
		log.Fatal(err)
	}

	res, err := planfsa.New().LearnFrom(context.Background(), src)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(res.Stack)
	for _, t := range res.Automaton.Transitions() {
		fmt.Println(t.From, t.Label, t.To)
	}
	// Output:
	// start(?x0) 0 move(?x0) * end(?x0) 0
	// 0 (start ?x0) 1
	// 1 (move ?x0) 2
	// 2 (_l-2-1 ?x0) 1
	// 0 (start ?x0) 2
	// 2 (end ?x0) 3
}

// ExampleLearner_Merge augments a planning domain with the learned automaton.
func ExampleLearner_Merge() {
	dom, err := pddl.ReadFile("testdata/logistics/domain.pddl")
	if err != nil {
		log.Fatal(err)
	}
	src, err := memory.NewSourceFromText(map[string]string{
		"p1": "(load h1 c1 t1 p1)\n(drive t1 p1 p2)\n(unload h1 c1 t1 p2)\n",
		"p2": "(load h2 c2 t2 p3)\n(drive t2 p3 p4)\n(unload h2 c2 t2 p4)\n",
	})
	if err != nil {
		log.Fatal(err)
	}

	learner := planfsa.New(planfsa.WithDomain(dom))
	res, err := learner.LearnFrom(context.Background(), src)
	if err != nil {
		log.Fatal(err)
	}
	merged, err := learner.Merge(res, "logistics-fsa")
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range merged.Predicates[:4] {
		fmt.Println(p)
	}
	// Output:
	// (s0)
	// (s1 ?x0 - truck ?x1 - place)
	// (s2 ?x0 - truck ?x2 - place)
	// (s3 ?x0 - truck ?x2 - place)
}
