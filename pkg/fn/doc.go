// Package fn provides function values that compose.
//
// Predicates, functions and comparators are plain Go function types with
// composition methods (Negate, And, Or, Reversed, ThenComparing) and generic
// helpers (AndThen, Compose, Comparing). They are the building blocks passed
// to stream stages and collectors.
package fn
