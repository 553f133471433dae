// Package align computes affine-gap alignments of a query against a
// reference window.
//
// The alignment is found by a uniform-cost search over states (x, y), where
// x query bases and y reference bases have been consumed. Insertions and
// deletions are charged a start penalty plus a per-base extension penalty.
// The search is bounded by an error-rate ceiling, a penalty span around the
// cheapest known complete path and per-direction gap budgets.
package align
