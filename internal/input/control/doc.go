// Package control provides input control identifiers for prompts.
//
// The engine identifies every input action (jump, interact, sprint, ...) by a
// numeric key. Consumers usually refer to controls by symbolic name:
//
//   - Known names: "INPUT_CONTEXT_X", "INPUT_JUMP", "INPUT_FRONTEND_ACCEPT"
//   - Numeric strings: "0xE7BF6346", "3897249862"
//   - Numbers: Control(0xE7BF6346), 3897249862
//
// Names that are not in the table still resolve: the numeric key of a control
// is the case-insensitive Jenkins one-at-a-time hash of its name, so Hash
// agrees with the table for every built-in entry.
//
// # Control Sets
//
// Prompts bind an ordered set of controls. ParseSet accepts either a single
// value or a slice; a single value is treated as a one-element set.
package control
