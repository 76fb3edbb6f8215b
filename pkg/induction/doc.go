/*
Package induction learns a structural grammar from a corpus of plans.

The inducer recursively splits the plan set around a pivot action chosen by the
Selector, classifies how often the block between two pivots repeats, and recurses
into the head, middle and tail blocks. Alongside the tree it builds a combined
pattern.Pattern that records which argument positions hold the same object.

The tree is finally flattened into a token.Stack whose action tokens carry the
variable names taken from the pattern (see Integrate).
*/
package induction
