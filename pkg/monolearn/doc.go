// Package monolearn discovers the monotone frontier of an unknown
// Boolean predicate f over subsets of a ground set {0,...,N-1}.
//
// A subset V is lower if f(V) is true and upper if f(V) is false.
// Monotonicity guarantees every subset of a lower set is lower and
// every superset of an upper set is upper, so f is completely
// characterized by two antichains: its maximal lower sets and its
// minimal upper sets.
//
// Two learners populate a shared LowerSetLearn knowledge base through
// an Oracle that wraps the user predicate: LevelLearn scans Hamming
// weights breadth-first from the bottom and/or top, and GainanovSAT
// seeds a SAT model with the current knowledge and asks it to produce
// assignments not yet classified.
package monolearn
