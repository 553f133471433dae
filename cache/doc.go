// Package cache memoizes per-query alignment results for the duration of a
// run.
package cache
