/*
Package domain contains the core data model of the plan-to-automaton learner.

It is kept free of I/O and persistence so that every other package (pattern algebra,
induction, automaton construction, adapters) can share the same vocabulary.

# Key Entities

  - Action / Plan: an action occurrence and an ordered sequence of them.
  - Signature: action name to arity, derived once from the corpus.
  - SplitTrace: where a recursive induction call sits inside the original plans.
  - LearnHooks: observability callbacks fired by the learning pipeline.
*/
package domain
