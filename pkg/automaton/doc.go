// Package automaton builds a finite state automaton from an induced token stack
// and resolves the objects each state talks about.
//
// States are integers allocated in increasing order starting at 0, which is
// always the initial state. Transitions whose action name starts with
// LambdaPrefix are synthetic epsilon moves implementing loops. Self-loops carry
// the members of unordered action sets and have no arguments.
package automaton
