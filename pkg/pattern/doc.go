// Package pattern implements the argument-position algebra used during grammar
// induction.
//
// A Pattern is an action sequence together with equivalence classes of argument
// positions: sets of (action index, argument index) pairs that hold the same object
// in every plan the pattern was learned from. Patterns learned on adjacent plan
// blocks are glued together with Connect, which merges classes meeting at the
// shared boundary action.
package pattern
