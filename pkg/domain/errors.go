package domain

import "errors"

// ErrEmptyCorpus is returned when induction is asked to run without plans.
var ErrEmptyCorpus = errors.New("empty plan corpus")

// ErrSequenceMismatch is returned when plans expected to share one action
// sequence disagree.
var ErrSequenceMismatch = errors.New("plans do not share an action sequence")

// ErrInconsistentStack is returned when the structural token order and the
// pattern action sequence disagree.
var ErrInconsistentStack = errors.New("token stack inconsistent with pattern")

// ErrInvalidRepetition is returned for occurrence counts that cannot be classified.
var ErrInvalidRepetition = errors.New("invalid repetition counts")

// ErrNoCommonType is returned when an argument is used with types that have no
// common ancestor.
var ErrNoCommonType = errors.New("no common type")

// ErrUnknownState is returned when a state is referenced but not present in the automaton.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownAction is returned when a transition names an action the domain does not define.
var ErrUnknownAction = errors.New("unknown action")

// ErrArityMismatch is returned when an action is used with a different number of arguments
// than the domain declares.
var ErrArityMismatch = errors.New("arity mismatch")

// ErrArgumentReuse is returned when one argument name occupies two different positions
// of the same action.
var ErrArgumentReuse = errors.New("argument bound to two positions of one action")

// ErrMalformedPlan is returned when a plan file contains a line that cannot be tokenized.
var ErrMalformedPlan = errors.New("malformed plan")

// ErrResultNotFound is returned when a result cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")
