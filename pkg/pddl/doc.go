// Package pddl reads and writes the subset of PDDL domain files needed to
// extend a planning domain with automaton state tracking: requirements, typed
// type hierarchies, predicates and actions with precondition and effect trees.
//
// Names are case-insensitive in PDDL and are lowercased on read.
package pddl
